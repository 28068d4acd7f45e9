package engine

import (
	"context"
	"fmt"

	"github.com/nvidela/monedero/internal/model"
)

// Undo runs the inverse of the currently armed action, if the slot still
// holds one inside its validity window. An expired or empty slot returns
// ErrNothingToUndo with no other effect. A failed inverse leaves both the
// slot and the cache untouched, so the user can retry.
func (r *Reconciler) Undo(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	action, token, ok := r.undo.Current()
	if !ok {
		return ErrNothingToUndo
	}

	switch a := action.(type) {
	case model.CreateAction:
		if err := r.store.Delete(ctx, a.CreatedID); err != nil {
			return writeErr(err)
		}
		r.removeCachedLocked(a.CreatedID)

	case model.DeleteBatchAction:
		if err := r.reinsertLocked(ctx, a.Rows); err != nil {
			return err
		}

	case model.BulkUpdateBatchAction:
		if err := r.store.Upsert(ctx, a.Rows); err != nil {
			return writeErr(err)
		}
		for _, snapshot := range a.Rows {
			if row := r.cachedByIDLocked(snapshot.ID); row != nil {
				*row = snapshot
			}
		}
		r.sortCacheLocked()

	default:
		return fmt.Errorf("unhandled undo action %T", action)
	}

	r.undo.Clear(token)
	detail := "reverted " + action.Describe()
	r.log.Record(ctx, model.ActionUndo, detail, nil)
	r.push(model.EventInfo, "Undo", detail)

	return nil
}

// reinsertLocked restores deleted rows, preferring to preserve their
// original identifiers. If the store rejects the identifier-preserving
// insert, the rows are inserted without identifiers and the cache is
// reloaded wholesale to pick up the newly assigned ones.
func (r *Reconciler) reinsertLocked(ctx context.Context, rows []model.Transaction) error {
	restored, err := r.store.InsertMany(ctx, rows)
	if err == nil {
		for _, row := range restored {
			r.insertCachedLocked(row)
		}
		return nil
	}

	stripped := make([]model.Transaction, len(rows))
	copy(stripped, rows)
	for i := range stripped {
		stripped[i].ID = 0
	}
	if _, err := r.store.InsertMany(ctx, stripped); err != nil {
		return writeErr(err)
	}

	all, err := r.store.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("rows restored but cache reload failed: %w", err)
	}
	r.cache = all
	r.sortCacheLocked()
	return nil
}
