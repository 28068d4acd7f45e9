// Package engine implements the ledger reconciliation engine: rule-based
// category inference, idempotent recurring materialization, bulk edits, a
// single time-boxed undo slot and the audit trail tying them together.
//
// Every mutation follows the same shape: validate locally, write to the
// remote ledger store, and only on confirmation mutate the in-memory cache,
// arm the undo slot and record an audit entry. A failed write leaves the
// cache and the undo slot exactly as they were, so no rollback logic exists.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nvidela/monedero/internal/changelog"
	"github.com/nvidela/monedero/internal/model"
	"github.com/nvidela/monedero/internal/rules"
	"github.com/nvidela/monedero/internal/service"
	"github.com/nvidela/monedero/internal/undo"
)

// Config holds engine tuning knobs.
type Config struct {
	UndoWindow     time.Duration
	ChangeLogLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		UndoWindow:     undo.DefaultWindow,
		ChangeLogLimit: changelog.DefaultLimit,
	}
}

// Reconciler orchestrates the reconciliation components over a shared
// optimistic cache of ledger rows. A coarse mutex serializes mutations
// within this process; overlapping mutations from other clients are not
// locked out.
type Reconciler struct {
	store     service.Storage
	notifier  service.Notifier
	rules     *rules.Engine
	undo      *undo.Stack
	log       *changelog.Recorder
	selection map[int64]struct{}
	cache     []model.Transaction
	templates []model.RecurringTemplate
	mu        sync.Mutex
}

// New creates a reconciler with the default configuration. Call Load before
// using it.
func New(store service.Storage, notifier service.Notifier) *Reconciler {
	return NewWithConfig(store, notifier, DefaultConfig())
}

// NewWithConfig creates a reconciler with custom configuration.
func NewWithConfig(store service.Storage, notifier service.Notifier, cfg Config) *Reconciler {
	return &Reconciler{
		store:     store,
		notifier:  notifier,
		rules:     rules.NewEngine(nil),
		undo:      undo.NewStack(cfg.UndoWindow),
		log:       changelog.NewRecorder(store, cfg.ChangeLogLimit),
		selection: make(map[int64]struct{}),
	}
}

// Load populates the cache, rule list, templates and audit trail from the
// store.
func (r *Reconciler) Load(ctx context.Context) error {
	rows, err := r.store.SelectAll(ctx)
	if err != nil {
		return err
	}

	ruleList, err := r.store.ListRules(ctx)
	if err != nil {
		return err
	}

	templates, err := r.store.ListTemplates(ctx)
	if err != nil {
		return err
	}

	if err := r.log.Load(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = rows
	r.sortCacheLocked()
	r.rules = rules.NewEngine(ruleList)
	r.templates = templates
	return nil
}

// Transactions returns a copy of the cached rows, sorted by date descending.
func (r *Reconciler) Transactions() []model.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Transaction, len(r.cache))
	copy(out, r.cache)
	return out
}

// ChangeLog returns the retained audit entries, newest-first.
func (r *Reconciler) ChangeLog() []model.ChangeLogEntry {
	return r.log.Entries()
}

// Rules returns the current rule list, newest-first.
func (r *Reconciler) Rules() []model.Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules.Rules()
}

// Templates returns a copy of the recurring templates.
func (r *Reconciler) Templates() []model.RecurringTemplate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RecurringTemplate, len(r.templates))
	copy(out, r.templates)
	return out
}

// Infer runs the rule engine against merchant text without side effects.
func (r *Reconciler) Infer(merchant string) *rules.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules.Infer(merchant)
}

func (r *Reconciler) push(kind model.EventKind, title, message string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Push(model.Event{
		ID:      newEventID(),
		Title:   title,
		Message: message,
		Kind:    kind,
	})
}

// insertCachedLocked adds a confirmed row keeping date-descending order.
func (r *Reconciler) insertCachedLocked(row model.Transaction) {
	r.cache = append(r.cache, row)
	r.sortCacheLocked()
}

func (r *Reconciler) removeCachedLocked(id int64) {
	for i := range r.cache {
		if r.cache[i].ID == id {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			return
		}
	}
}

func (r *Reconciler) cachedByIDLocked(id int64) *model.Transaction {
	for i := range r.cache {
		if r.cache[i].ID == id {
			return &r.cache[i]
		}
	}
	return nil
}

func (r *Reconciler) sortCacheLocked() {
	sort.SliceStable(r.cache, func(i, j int) bool {
		if !r.cache[i].Date.Equal(r.cache[j].Date) {
			return r.cache[i].Date.After(r.cache[j].Date)
		}
		return r.cache[i].ID > r.cache[j].ID
	})
}
