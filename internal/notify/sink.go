package notify

import (
	"time"

	"github.com/nvidela/monedero/internal/common"
	"github.com/nvidela/monedero/internal/model"
)

// MaxItems bounds how many notifications the cache retains.
const MaxItems = 50

// Sink adapts the store to the engine's fire-and-forget notification
// collaborator.
type Sink struct {
	store *Store
	now   func() time.Time
}

// NewSink creates a sink over an initialized store.
func NewSink(store *Store) *Sink {
	return &Sink{store: store, now: time.Now}
}

// Push prepends the event to the cache, trimmed to MaxItems. Failures are
// logged, never surfaced; the sink expects no acknowledgment.
func (s *Sink) Push(event model.Event) {
	items := append([]Item{{
		ID:         event.ID,
		Title:      event.Title,
		Message:    event.Message,
		Kind:       event.Kind,
		ActionLink: event.ActionLink,
		CreatedAt:  s.now(),
	}}, s.store.Read()...)

	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	if err := s.store.Write(items); err != nil {
		common.LogWarn("failed to persist notification", common.Fields{
			"event": event.ID,
			"error": err.Error(),
		})
	}
}
