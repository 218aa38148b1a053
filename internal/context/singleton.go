package context

import "sync"

var (
	globalMu      sync.RWMutex
	globalContext *WorkspaceContext
)

// GetGlobal returns the process-wide workspace context, creating one on first
// use. Services receive their context explicitly through Initialize; this
// accessor exists for the cmd layer and tooling that run outside the service
// registry.
func GetGlobal() *WorkspaceContext {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalContext == nil {
		globalContext = New()
	}
	return globalContext
}

// SetGlobal replaces the process-wide workspace context.
func SetGlobal(ctx *WorkspaceContext) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalContext = ctx
}

// ResetGlobal clears the process-wide context so the next GetGlobal creates a
// fresh one. Used by tests.
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalContext = nil
}
