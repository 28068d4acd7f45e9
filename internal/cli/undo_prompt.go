package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Undoer reverts the most recent reversible mutation.
type Undoer interface {
	Undo(ctx context.Context) error
}

// OfferUndo prints an undo prompt and waits up to window for the user to
// type "u". Anything else, or silence until the window closes, keeps the
// mutation. Returns true if the mutation was reverted.
func OfferUndo(ctx context.Context, eng Undoer, in io.Reader, out io.Writer, window time.Duration) (bool, error) {
	fmt.Fprintln(out, SubtleStyle.Render(
		fmt.Sprintf("Press u then Enter within %s to undo.", window.Round(time.Second))))

	promptCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	line, err := NewLineReader(in).ReadLine(promptCtx)
	if err != nil {
		if errors.Is(err, ErrInputCancelled) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if line != "u" {
		return false, nil
	}

	if err := eng.Undo(ctx); err != nil {
		return false, err
	}
	fmt.Fprintln(out, SuccessStyle.Render("Reverted."))
	return true, nil
}
