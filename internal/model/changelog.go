package model

import "time"

// ActionKind tags a change log entry with the operation that produced it.
type ActionKind string

// Action kind constants.
const (
	ActionCreate     ActionKind = "create"
	ActionEdit       ActionKind = "edit"
	ActionDelete     ActionKind = "delete"
	ActionBulkUpdate ActionKind = "bulk-update"
	ActionUndo       ActionKind = "undo"
	ActionRule       ActionKind = "rule"
	ActionTemplate   ActionKind = "template"
	ActionRecurring  ActionKind = "recurring"
)

// ChangeLogEntry is one append-only audit record. Entries written while the
// store was unreachable carry Degraded=true and a marker in the detail text.
type ChangeLogEntry struct {
	Timestamp time.Time
	ID        string
	Kind      ActionKind
	Detail    string
	Metadata  map[string]string
	Degraded  bool
}
