// Package changelog keeps the append-only audit trail of engine actions.
//
// Appends are remote-first: the store assigns the identifier and timestamp.
// When the store write fails the entry is synthesized locally with a marker
// in the detail text, so the trail degrades instead of dropping entries.
package changelog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nvidela/monedero/internal/common"
	"github.com/nvidela/monedero/internal/model"
	"github.com/nvidela/monedero/internal/service"
)

// DefaultLimit is how many entries are retained in memory. The store may
// keep more; only this many are surfaced.
const DefaultLimit = 80

// DegradedMarker prefixes the detail text of entries that could not be
// durably persisted.
const DegradedMarker = "[local] "

// Recorder is the change log recorder.
type Recorder struct {
	store   service.ChangeLogStore
	now     func() time.Time
	entries []model.ChangeLogEntry
	limit   int
	mu      sync.Mutex
}

// NewRecorder creates a recorder over the given store. A non-positive limit
// falls back to DefaultLimit.
func NewRecorder(store service.ChangeLogStore, limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{store: store, limit: limit, now: time.Now}
}

// Load seeds the in-memory log from the store, newest-first.
func (r *Recorder) Load(ctx context.Context) error {
	entries, err := r.store.ListChangeLog(ctx, r.limit)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.trim()
	return nil
}

// Record appends an audit entry. Fire-and-forget for the caller: a failed
// remote append degrades to a locally synthesized entry rather than
// surfacing an error.
func (r *Recorder) Record(ctx context.Context, kind model.ActionKind, detail string, metadata map[string]string) {
	entry, err := r.store.AppendChangeLog(ctx, kind, detail, metadata)
	if err != nil {
		common.LogWarn("change log append failed, recording locally", common.Fields{
			"kind":  string(kind),
			"error": err.Error(),
		})
		entry = model.ChangeLogEntry{
			ID:        uuid.NewString(),
			Timestamp: r.now(),
			Kind:      kind,
			Detail:    DegradedMarker + detail,
			Metadata:  metadata,
			Degraded:  true,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]model.ChangeLogEntry{entry}, r.entries...)
	r.trim()
}

// Entries returns a copy of the retained log, newest-first.
func (r *Recorder) Entries() []model.ChangeLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ChangeLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) trim() {
	if len(r.entries) > r.limit {
		r.entries = r.entries[:r.limit]
	}
}
