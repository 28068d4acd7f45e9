package changelog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidela/monedero/internal/model"
)

// mockLogStore is a ChangeLogStore that can be told to fail appends.
type mockLogStore struct {
	appendErr error
	stored    []model.ChangeLogEntry
	nextID    int
}

func (m *mockLogStore) AppendChangeLog(_ context.Context, kind model.ActionKind, detail string, metadata map[string]string) (model.ChangeLogEntry, error) {
	if m.appendErr != nil {
		return model.ChangeLogEntry{}, m.appendErr
	}
	m.nextID++
	entry := model.ChangeLogEntry{
		ID:        fmt.Sprintf("cl-%d", m.nextID),
		Timestamp: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.nextID) * time.Second),
		Kind:      kind,
		Detail:    detail,
		Metadata:  metadata,
	}
	m.stored = append([]model.ChangeLogEntry{entry}, m.stored...)
	return entry, nil
}

func (m *mockLogStore) ListChangeLog(_ context.Context, limit int) ([]model.ChangeLogEntry, error) {
	if limit > len(m.stored) {
		limit = len(m.stored)
	}
	out := make([]model.ChangeLogEntry, limit)
	copy(out, m.stored[:limit])
	return out, nil
}

func TestRecorder_RecordRemoteFirst(t *testing.T) {
	ctx := context.Background()
	store := &mockLogStore{}
	r := NewRecorder(store, 10)

	r.Record(ctx, model.ActionCreate, "created transaction 1", map[string]string{"id": "1"})

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "cl-1", entries[0].ID, "store-assigned identifier is kept")
	assert.Equal(t, model.ActionCreate, entries[0].Kind)
	assert.Equal(t, "created transaction 1", entries[0].Detail)
	assert.False(t, entries[0].Degraded)
}

func TestRecorder_DegradedFallback(t *testing.T) {
	ctx := context.Background()
	store := &mockLogStore{appendErr: errors.New("network down")}
	r := NewRecorder(store, 10)

	r.Record(ctx, model.ActionDelete, "deleted 2 transaction(s)", nil)

	entries := r.Entries()
	require.Len(t, entries, 1, "the entry is never silently dropped")
	assert.True(t, entries[0].Degraded)
	assert.True(t, strings.HasPrefix(entries[0].Detail, DegradedMarker))
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestRecorder_NewestFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	store := &mockLogStore{}
	r := NewRecorder(store, 5)

	for i := 0; i < 8; i++ {
		r.Record(ctx, model.ActionEdit, fmt.Sprintf("edit %d", i), nil)
	}

	entries := r.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "edit 7", entries[0].Detail, "most recent entry first")
	assert.Equal(t, "edit 3", entries[4].Detail, "oldest retained entry last")

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp),
			"entries ordered by timestamp descending")
	}
}

func TestRecorder_DefaultLimit(t *testing.T) {
	r := NewRecorder(&mockLogStore{}, 0)
	assert.Equal(t, DefaultLimit, r.limit)
}

func TestRecorder_Load(t *testing.T) {
	ctx := context.Background()
	store := &mockLogStore{}
	for i := 0; i < 3; i++ {
		_, err := store.AppendChangeLog(ctx, model.ActionRule, fmt.Sprintf("rule %d", i), nil)
		require.NoError(t, err)
	}

	r := NewRecorder(store, 10)
	require.NoError(t, r.Load(ctx))

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "rule 2", entries[0].Detail)
}
