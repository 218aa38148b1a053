// Package echotypes defines the workspace event model. State mutations emit events
// through an explicit subscription mechanism; nothing in the core depends on a
// rendering layer reacting to them.
package echotypes

// EventKind identifies a workspace state change.
type EventKind string

const (
	EventDocumentOpened    EventKind = "document_opened"
	EventDocumentClosed    EventKind = "document_closed"
	EventDocumentActivated EventKind = "document_activated"
	EventDocumentChanged   EventKind = "document_changed"
	EventDocumentSaved     EventKind = "document_saved"
	EventDocumentRenamed   EventKind = "document_renamed"
	EventTerminalAppended  EventKind = "terminal_appended"
	EventTerminalCleared   EventKind = "terminal_cleared"
	EventChatAppended      EventKind = "chat_appended"
	EventChatCleared       EventKind = "chat_cleared"
)

// Event describes a single state change. DocumentID is set for document events.
type Event struct {
	Kind       EventKind
	DocumentID string
}

// Subscriber receives workspace events. Subscribers are invoked after the
// mutation completes and outside the context lock; they must not assume any
// ordering between goroutines beyond per-mutation sequencing.
type Subscriber func(Event)
