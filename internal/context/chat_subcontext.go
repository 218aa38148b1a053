// Chat-session operations for the workspace context: a stable session identifier
// and an append-only message log.
package context

import (
	"github.com/google/uuid"

	"echoide/pkg/echotypes"
)

// ChatSessionID returns the opaque session token, generated once at context
// creation and stable for the context's lifetime.
func (w *WorkspaceContext) ChatSessionID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chatSessionID
}

// AppendChatMessage appends a message to the chat log and returns it.
func (w *WorkspaceContext) AppendChatMessage(role, content string) echotypes.ChatMessage {
	message := echotypes.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: w.now(),
	}

	w.mu.Lock()
	w.chatMessages = append(w.chatMessages, message)
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventChatAppended})
	return message
}

// ChatMessages returns a copy of the message log in append order.
func (w *WorkspaceContext) ChatMessages() []echotypes.ChatMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]echotypes.ChatMessage(nil), w.chatMessages...)
}

// ChatMessageCount returns the message log length.
func (w *WorkspaceContext) ChatMessageCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chatMessages)
}

// ClearChatMessages empties the message log. Only explicit user action calls
// this; the log is never truncated implicitly.
func (w *WorkspaceContext) ClearChatMessages() {
	w.mu.Lock()
	w.chatMessages = nil
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventChatCleared})
}
