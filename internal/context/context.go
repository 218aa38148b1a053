// Package context provides the workspace context for the EchoIDE core: the open
// document set and active pointer, the terminal session, the chat log, and the
// settings map. The context is constructed explicitly and passed to every service;
// there are no ambient globals. All invariants spanning multiple fields are updated
// atomically under a single mutex, and every mutation emits an event through the
// subscription mechanism so outer layers can react without the core depending on
// rendering.
package context

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"echoide/pkg/echotypes"
)

// WorkspaceContext holds all mutable workspace state. Methods on it are safe for
// concurrent use; subscribers are invoked after the mutation, outside the lock.
type WorkspaceContext struct {
	mu sync.RWMutex

	// Document state
	documents []*echotypes.Document
	activeID  string

	// Terminal session state
	terminalLines  []echotypes.TerminalLine
	history        []string
	historyCursor  int
	workingDir     string
	terminalStatus echotypes.TerminalStatus

	// Chat session state
	chatSessionID string
	chatMessages  []echotypes.ChatMessage

	// Settings and mode
	settings map[string]string
	testMode bool

	subMu       sync.RWMutex
	subscribers []echotypes.Subscriber
}

// New creates an empty workspace context with a fresh chat session identifier.
func New() *WorkspaceContext {
	return &WorkspaceContext{
		historyCursor:  echotypes.HistoryCursorNone,
		workingDir:     ".",
		terminalStatus: echotypes.TerminalAwaitingInput,
		chatSessionID:  "chat-" + uuid.NewString(),
		settings:       make(map[string]string),
	}
}

// Subscribe registers a subscriber for workspace events. Subscribers cannot be
// removed; the context is process-lifetime.
func (w *WorkspaceContext) Subscribe(sub echotypes.Subscriber) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	w.subscribers = append(w.subscribers, sub)
}

// notify delivers events to all subscribers. Callers must not hold w.mu.
func (w *WorkspaceContext) notify(events ...echotypes.Event) {
	w.subMu.RLock()
	subs := make([]echotypes.Subscriber, len(w.subscribers))
	copy(subs, w.subscribers)
	w.subMu.RUnlock()

	for _, event := range events {
		for _, sub := range subs {
			sub(event)
		}
	}
}

// SetTestMode toggles deterministic test behavior.
func (w *WorkspaceContext) SetTestMode(testMode bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.testMode = testMode
}

// IsTestMode reports whether the context runs in test mode.
func (w *WorkspaceContext) IsTestMode() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.testMode
}

func (w *WorkspaceContext) now() time.Time {
	return time.Now()
}
