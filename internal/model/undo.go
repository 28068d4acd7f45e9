package model

import "fmt"

// UndoAction is the closed set of reversible mutations. Exactly one action
// is live at a time; the engine dispatches the inverse with an exhaustive
// type switch over these variants.
type UndoAction interface {
	// Describe returns a short human-readable summary for the audit trail.
	Describe() string

	undoAction()
}

// CreateAction records a single created row; its inverse deletes the row.
type CreateAction struct {
	CreatedID int64
}

// DeleteBatchAction records full pre-deletion snapshots; its inverse
// re-inserts them, preferring to preserve the original identifiers.
type DeleteBatchAction struct {
	Rows []Transaction
}

// BulkUpdateBatchAction records full pre-mutation snapshots; its inverse
// upserts them back keyed by identifier.
type BulkUpdateBatchAction struct {
	Rows []Transaction
}

func (CreateAction) undoAction()          {}
func (DeleteBatchAction) undoAction()     {}
func (BulkUpdateBatchAction) undoAction() {}

// Describe implements UndoAction.
func (a CreateAction) Describe() string {
	return fmt.Sprintf("creation of transaction %d", a.CreatedID)
}

// Describe implements UndoAction.
func (a DeleteBatchAction) Describe() string {
	return fmt.Sprintf("deletion of %d transaction(s)", len(a.Rows))
}

// Describe implements UndoAction.
func (a BulkUpdateBatchAction) Describe() string {
	return fmt.Sprintf("bulk update of %d transaction(s)", len(a.Rows))
}
