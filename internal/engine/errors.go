package engine

import (
	"errors"
	"fmt"
)

// Error taxonomy. Validation and duplicate errors are caught before any
// store call; write errors carry the underlying store failure. Nothing here
// is fatal: every failure is recoverable by retrying the same action.
var (
	// ErrValidation marks input rejected before any store call.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a recurring materialization that found an
	// equivalent transaction already in the ledger.
	ErrDuplicate = errors.New("equivalent transaction already exists")
	// ErrNothingToUndo is returned when the undo slot is empty or expired.
	ErrNothingToUndo = errors.New("nothing to undo")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func writeErr(err error) error {
	return fmt.Errorf("ledger write failed: %w", err)
}
