// Package service defines the interface contracts between the reconciliation
// engine and its collaborators.
package service

import (
	"context"

	"github.com/nvidela/monedero/internal/model"
)

// LedgerStore is the remote ledger of transaction rows. All methods are
// remote calls; the only error mode the core handles is a generic write
// failure.
type LedgerStore interface {
	// Insert persists a row, assigns it an identifier and returns the
	// stored row.
	Insert(ctx context.Context, row model.Transaction) (model.Transaction, error)
	// InsertMany persists multiple rows in one call. Rows with a non-zero
	// ID are inserted with that identifier preserved; the call fails if the
	// store cannot honor one of them.
	InsertMany(ctx context.Context, rows []model.Transaction) ([]model.Transaction, error)
	// Update applies a sparse patch to a single row.
	Update(ctx context.Context, id int64, patch model.Patch) error
	// UpdateWhere applies one sparse patch to every listed row.
	UpdateWhere(ctx context.Context, ids []int64, patch model.Patch) error
	// Delete removes a single row.
	Delete(ctx context.Context, id int64) error
	// DeleteMany removes every listed row.
	DeleteMany(ctx context.Context, ids []int64) error
	// Upsert writes full rows keyed by identifier, replacing existing ones.
	Upsert(ctx context.Context, rows []model.Transaction) error
	// SelectAll returns every row ordered by date descending.
	SelectAll(ctx context.Context) ([]model.Transaction, error)
}

// RuleStore persists categorization rules, listed newest-first.
type RuleStore interface {
	InsertRule(ctx context.Context, rule model.Rule) (model.Rule, error)
	DeleteRule(ctx context.Context, id int64) error
	ListRules(ctx context.Context) ([]model.Rule, error)
}

// TemplateStore persists recurring transaction templates.
type TemplateStore interface {
	InsertTemplate(ctx context.Context, tpl model.RecurringTemplate) (model.RecurringTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
	SetTemplateActive(ctx context.Context, id int64, active bool) error
	ListTemplates(ctx context.Context) ([]model.RecurringTemplate, error)
}

// ChangeLogStore persists audit entries. Append assigns the identifier and
// timestamp; a failed append is degraded locally by the recorder, never
// surfaced to the user as a blocking error.
type ChangeLogStore interface {
	AppendChangeLog(ctx context.Context, kind model.ActionKind, detail string, metadata map[string]string) (model.ChangeLogEntry, error)
	ListChangeLog(ctx context.Context, limit int) ([]model.ChangeLogEntry, error)
}

// CategorySource supplies the list of valid category names, owned by an
// external CRUD surface. Advisory only; nothing in the core enforces it.
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

// Notifier is the external notification sink. Push is fire-and-forget.
type Notifier interface {
	Push(event model.Event)
}

// Storage is the full persistence contract the SQLite store implements.
type Storage interface {
	LedgerStore
	RuleStore
	TemplateStore
	ChangeLogStore
	CategorySource

	Migrate(ctx context.Context) error
	Close() error
}
