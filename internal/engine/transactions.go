package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nvidela/monedero/internal/model"
)

// NewTransaction is the input for creating a ledger row. Blank Category or
// Type are filled by rule inference against the merchant text.
type NewTransaction struct {
	Merchant string
	Category string
	Type     model.TransactionType
	Amount   float64
	Date     time.Time
}

// AddTransaction validates, infers missing fields, writes the row to the
// store and, on confirmation, caches it, arms the undo slot and records the
// audit entry.
func (r *Reconciler) AddTransaction(ctx context.Context, input NewTransaction) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := model.Transaction{
		Merchant: strings.TrimSpace(input.Merchant),
		Category: strings.TrimSpace(input.Category),
		Type:     input.Type,
		Amount:   input.Amount,
		Date:     model.DateOnly(input.Date),
	}

	if row.Category == "" || row.Type == "" {
		if match := r.rules.Infer(row.Merchant); match != nil {
			if row.Category == "" {
				row.Category = match.Category
			}
			if row.Type == "" && match.Type != nil {
				row.Type = *match.Type
			}
		}
	}
	if row.Category == "" {
		return model.Transaction{}, validationf("category is required and no rule matched %q", row.Merchant)
	}
	if err := row.Validate(); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	stored, err := r.store.Insert(ctx, row)
	if err != nil {
		return model.Transaction{}, writeErr(err)
	}

	r.insertCachedLocked(stored)
	r.undo.Arm(model.CreateAction{CreatedID: stored.ID})
	r.log.Record(ctx, model.ActionCreate,
		fmt.Sprintf("created transaction %d (%s, %s %.2f)", stored.ID, stored.Merchant, stored.Type, stored.Amount),
		map[string]string{"id": strconv.FormatInt(stored.ID, 10)})

	return stored, nil
}

// DeleteTransactions removes the listed rows. The pre-deletion snapshots are
// armed as the undo inverse.
func (r *Reconciler) DeleteTransactions(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) == 0 {
		return validationf("no transactions selected for deletion")
	}

	snapshots := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		row := r.cachedByIDLocked(id)
		if row == nil {
			return validationf("unknown transaction id %d", id)
		}
		snapshots = append(snapshots, *row)
	}

	if err := r.store.DeleteMany(ctx, ids); err != nil {
		return writeErr(err)
	}

	for _, id := range ids {
		r.removeCachedLocked(id)
		delete(r.selection, id)
	}
	r.undo.Arm(model.DeleteBatchAction{Rows: snapshots})
	r.log.Record(ctx, model.ActionDelete,
		fmt.Sprintf("deleted %d transaction(s)", len(snapshots)),
		map[string]string{"ids": joinIDs(ids)})

	return nil
}

// UpdateTransaction applies a sparse patch to one row. Not reversible; the
// undo slot is left untouched.
func (r *Reconciler) UpdateTransaction(ctx context.Context, id int64, patch model.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if patch.IsZero() {
		return validationf("patch has no fields to apply")
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	row := r.cachedByIDLocked(id)
	if row == nil {
		return validationf("unknown transaction id %d", id)
	}

	if err := r.store.Update(ctx, id, patch); err != nil {
		return writeErr(err)
	}

	patch.Apply(row)
	r.sortCacheLocked()
	r.log.Record(ctx, model.ActionEdit,
		fmt.Sprintf("edited transaction %d (%s)", id, patch.Summary()),
		map[string]string{"id": strconv.FormatInt(id, 10)})

	return nil
}

// ApplyBulk applies one sparse patch to every listed row. Unpatched fields
// are left untouched on every row. On success the engine's selection set is
// cleared and the pre-mutation snapshots are armed as the undo inverse.
func (r *Reconciler) ApplyBulk(ctx context.Context, ids []int64, patch model.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) == 0 {
		return validationf("no transactions selected")
	}
	if patch.IsZero() {
		return validationf("patch has no fields to apply")
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	// Snapshot before mutating anything; this is the undo inverse.
	snapshots := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		row := r.cachedByIDLocked(id)
		if row == nil {
			return validationf("unknown transaction id %d", id)
		}
		snapshots = append(snapshots, *row)
	}

	if err := r.store.UpdateWhere(ctx, ids, patch); err != nil {
		return writeErr(err)
	}

	for _, id := range ids {
		patch.Apply(r.cachedByIDLocked(id))
	}
	r.sortCacheLocked()
	r.selection = make(map[int64]struct{})
	r.undo.Arm(model.BulkUpdateBatchAction{Rows: snapshots})
	r.log.Record(ctx, model.ActionBulkUpdate,
		fmt.Sprintf("bulk-updated %d transaction(s): %s", len(ids), patch.Summary()),
		map[string]string{"ids": joinIDs(ids)})

	return nil
}

// ApplyBulkToSelection applies a patch to the current selection set.
func (r *Reconciler) ApplyBulkToSelection(ctx context.Context, patch model.Patch) error {
	return r.ApplyBulk(ctx, r.Selection(), patch)
}

// Select adds rows to the selection set.
func (r *Reconciler) Select(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.selection[id] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (r *Reconciler) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection = make(map[int64]struct{})
}

// Selection returns the selected identifiers in ascending order.
func (r *Reconciler) Selection() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.selection))
	for id := range r.selection {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
