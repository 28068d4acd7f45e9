// Package undo implements the single-slot, time-boxed undo mechanism.
//
// The slot holds at most one reversible action. Arming replaces it
// unconditionally and starts a validity window; when the window's timer
// fires, the slot is cleared only if it still holds the action that was
// armed (a generation counter implements the stale-reference check, so a
// timer racing a newer Arm is a no-op). The window is a timeout, not a
// lock: nothing cancels an in-flight store write.
package undo

import (
	"sync"
	"time"

	"github.com/nvidela/monedero/internal/model"
)

// DefaultWindow is how long an armed action stays invocable.
const DefaultWindow = 10 * time.Second

// Token identifies one arming of the slot. Clear only clears the slot if it
// still holds the tokened action, so a failed inverse can leave the action
// armed while a superseding Arm invalidates stale tokens.
type Token uint64

// Stack is the single mutable undo slot.
type Stack struct {
	now     func() time.Time
	action  model.UndoAction
	expires time.Time
	window  time.Duration
	mu      sync.Mutex
	gen     uint64
}

// NewStack creates a stack with the given validity window. A non-positive
// window falls back to DefaultWindow.
func NewStack(window time.Duration) *Stack {
	return NewStackWithClock(window, time.Now)
}

// NewStackWithClock creates a stack with an injected clock, for tests.
func NewStackWithClock(window time.Duration, now func() time.Time) *Stack {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Stack{window: window, now: now}
}

// Arm replaces the slot with a new action and restarts the validity window.
func (s *Stack) Arm(action model.UndoAction) Token {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.action = action
	s.expires = s.now().Add(s.window)
	s.mu.Unlock()

	time.AfterFunc(s.window, func() {
		s.expire(Token(gen))
	})
	return Token(gen)
}

// Current returns the armed action and its token, or ok=false when the slot
// is empty or the window has elapsed.
func (s *Stack) Current() (model.UndoAction, Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.action == nil || s.now().After(s.expires) {
		s.action = nil
		return nil, 0, false
	}
	return s.action, Token(s.gen), true
}

// Clear empties the slot if it still holds the tokened action, reporting
// whether anything was cleared.
func (s *Stack) Clear(token Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.action == nil || Token(s.gen) != token {
		return false
	}
	s.action = nil
	return true
}

func (s *Stack) expire(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer action owns the slot now; this timer is stale.
	if Token(s.gen) != token {
		return
	}
	s.action = nil
}
