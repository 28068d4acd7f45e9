package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUndoer struct {
	err    error
	called int
}

func (f *fakeUndoer) Undo(_ context.Context) error {
	f.called++
	return f.err
}

func TestOfferUndo_InvokesOnU(t *testing.T) {
	eng := &fakeUndoer{}
	var out bytes.Buffer

	undone, err := OfferUndo(context.Background(), eng, strings.NewReader("u\n"), &out, time.Second)
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, 1, eng.called)
}

func TestOfferUndo_OtherInputKeepsMutation(t *testing.T) {
	eng := &fakeUndoer{}
	var out bytes.Buffer

	undone, err := OfferUndo(context.Background(), eng, strings.NewReader("n\n"), &out, time.Second)
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Zero(t, eng.called)
}

func TestOfferUndo_TimesOutSilently(t *testing.T) {
	eng := &fakeUndoer{}
	var out bytes.Buffer

	// A reader that never produces a line.
	blocked, _ := io.Pipe()
	start := time.Now()
	undone, err := OfferUndo(context.Background(), eng, blocked, &out, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Zero(t, eng.called)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestOfferUndo_EOFKeepsMutation(t *testing.T) {
	eng := &fakeUndoer{}
	var out bytes.Buffer

	undone, err := OfferUndo(context.Background(), eng, strings.NewReader(""), &out, time.Second)
	require.NoError(t, err)
	assert.False(t, undone)
}

func TestOfferUndo_PropagatesUndoError(t *testing.T) {
	eng := &fakeUndoer{err: errors.New("ledger write failed")}
	var out bytes.Buffer

	_, err := OfferUndo(context.Background(), eng, strings.NewReader("u\n"), &out, time.Second)
	assert.Error(t, err)
}
