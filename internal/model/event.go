package model

// EventKind tags a notification event with its severity.
type EventKind string

// Event kind constants.
const (
	EventInfo    EventKind = "info"
	EventSuccess EventKind = "success"
	EventWarning EventKind = "warning"
	EventError   EventKind = "error"
)

// Event is a fire-and-forget notification pushed to the notification sink.
type Event struct {
	ID         string
	Title      string
	Message    string
	Kind       EventKind
	ActionLink string
}
