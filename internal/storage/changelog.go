package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvidela/monedero/internal/model"
)

// AppendChangeLog persists an audit entry, assigning its identifier and
// timestamp, and returns the stored entry.
func (s *SQLiteStore) AppendChangeLog(ctx context.Context, kind model.ActionKind, detail string, metadata map[string]string) (model.ChangeLogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return model.ChangeLogEntry{}, err
	}
	if err := validateString(detail, "detail"); err != nil {
		return model.ChangeLogEntry{}, err
	}

	entry := model.ChangeLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Detail:    detail,
		Metadata:  metadata,
	}

	var metaJSON any
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return model.ChangeLogEntry{}, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metaJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO change_log (id, kind, detail, metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, string(entry.Kind), entry.Detail, metaJSON, entry.Timestamp)
	if err != nil {
		return model.ChangeLogEntry{}, fmt.Errorf("failed to append change log entry: %w", err)
	}
	return entry, nil
}

// ListChangeLog returns the most recent entries, newest-first.
func (s *SQLiteStore) ListChangeLog(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 80
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, detail, metadata, created_at
		FROM change_log
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query change log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ChangeLogEntry
	for rows.Next() {
		var entry model.ChangeLogEntry
		var kind string
		var metaJSON sql.NullString
		if err := rows.Scan(&entry.ID, &kind, &entry.Detail, &metaJSON, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}
		entry.Kind = model.ActionKind(kind)
		if metaJSON.Valid {
			if err := json.Unmarshal([]byte(metaJSON.String), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate change log: %w", err)
	}
	return out, nil
}

// Categories returns the valid category names, alphabetically. The list is
// owned by an external CRUD surface and used only for advisory validation.
func (s *SQLiteStore) Categories(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}
