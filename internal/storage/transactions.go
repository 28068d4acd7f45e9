package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvidela/monedero/internal/model"
)

// Insert persists a row and returns it with the store-assigned identifier.
func (s *SQLiteStore) Insert(ctx context.Context, row model.Transaction) (model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return model.Transaction{}, err
	}
	if err := row.Validate(); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrInvalidRow, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (merchant, category, type, amount, date)
		VALUES (?, ?, ?, ?, ?)`,
		row.Merchant, row.Category, string(row.Type), row.Amount, model.DateOnly(row.Date))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	row.ID = id
	row.Date = model.DateOnly(row.Date)
	return row, nil
}

// InsertMany persists rows in one database transaction. Rows carrying a
// non-zero identifier are inserted with it preserved; the whole batch fails
// (and is rolled back) if the store cannot honor one of them.
func (s *SQLiteStore) InsertMany(ctx context.Context, rows []model.Transaction) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: rows", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRow, err)
		}
		row.Date = model.DateOnly(row.Date)

		if row.ID != 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO transactions (id, merchant, category, type, amount, date)
				VALUES (?, ?, ?, ?, ?, ?)`,
				row.ID, row.Merchant, row.Category, string(row.Type), row.Amount, row.Date)
			if err != nil {
				return nil, fmt.Errorf("failed to insert transaction %d: %w", row.ID, err)
			}
		} else {
			res, execErr := tx.ExecContext(ctx, `
				INSERT INTO transactions (merchant, category, type, amount, date)
				VALUES (?, ?, ?, ?, ?)`,
				row.Merchant, row.Category, string(row.Type), row.Amount, row.Date)
			if execErr != nil {
				return nil, fmt.Errorf("failed to insert transaction: %w", execErr)
			}
			row.ID, err = res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("failed to read inserted id: %w", err)
			}
		}
		out = append(out, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit inserts: %w", err)
	}
	return out, nil
}

// Update applies a sparse patch to one row.
func (s *SQLiteStore) Update(ctx context.Context, id int64, patch model.Patch) error {
	return s.UpdateWhere(ctx, []int64{id}, patch)
}

// UpdateWhere applies one sparse patch to every listed row. Fields the patch
// leaves nil are not mentioned in the statement at all.
func (s *SQLiteStore) UpdateWhere(ctx context.Context, ids []int64, patch model.Patch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIDs(ids, "ids"); err != nil {
		return err
	}
	if patch.IsZero() {
		return fmt.Errorf("patch has no fields to apply")
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, len(ids)+3)
	if patch.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Type != nil {
		setParts = append(setParts, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Date != nil {
		setParts = append(setParts, "date = ?")
		args = append(args, model.DateOnly(*patch.Date))
	}
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id IN (%s)",
		strings.Join(setParts, ", "), placeholders(len(ids)))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update transactions: %w", err)
	}
	return nil
}

// Delete removes one row.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return nil
}

// DeleteMany removes every listed row.
func (s *SQLiteStore) DeleteMany(ctx context.Context, ids []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIDs(ids, "ids"); err != nil {
		return err
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM transactions WHERE id IN (%s)", placeholders(len(ids)))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

// Upsert writes full rows keyed by identifier, replacing existing ones.
func (s *SQLiteStore) Upsert(ctx context.Context, rows []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: rows", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, merchant, category, type, amount, date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			merchant = excluded.merchant,
			category = excluded.category,
			type = excluded.type,
			amount = excluded.amount,
			date = excluded.date`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidRow, err)
		}
		if _, err := stmt.ExecContext(ctx,
			row.ID, row.Merchant, row.Category, string(row.Type), row.Amount, model.DateOnly(row.Date)); err != nil {
			return fmt.Errorf("failed to upsert transaction %d: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

// SelectAll returns every row ordered by date descending.
func (s *SQLiteStore) SelectAll(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant, category, type, amount, date
		FROM transactions
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var row model.Transaction
		var typ string
		if err := rows.Scan(&row.ID, &row.Merchant, &row.Category, &typ, &row.Amount, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		row.Type = model.TransactionType(typ)
		row.Date = model.DateOnly(row.Date)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
