package services

import (
	"context"
	"sync"
	"time"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/pkg/echotypes"
)

// DefaultAutosaveQuietPeriod is the debounce window after the last edit before
// an automatic save fires.
const DefaultAutosaveQuietPeriod = 2 * time.Second

// AutosaveService debounces saves per document: an edit arms a single-shot
// timer, further edits rearm it, and saving or closing the document cancels it.
// There is no polling loop; each pending save is one scheduled callback.
//
// The service observes content changes through the workspace's event
// subscription, so nothing else needs to call into it on the edit path.
type AutosaveService struct {
	mu          sync.Mutex
	initialized bool
	enabled     bool
	quiet       time.Duration
	timers      map[string]*time.Timer
	save        func(ctx context.Context, id string) error
}

// NewAutosaveService creates an AutosaveService that persists documents through
// the given save function (normally DocumentService.Save).
func NewAutosaveService(save func(ctx context.Context, id string) error) *AutosaveService {
	return &AutosaveService{
		quiet:  DefaultAutosaveQuietPeriod,
		timers: make(map[string]*time.Timer),
		save:   save,
	}
}

// Name returns the service name "autosave" for registration.
func (a *AutosaveService) Name() string {
	return "autosave"
}

// Initialize subscribes the scheduler to workspace document events.
func (a *AutosaveService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	ctx.Subscribe(func(event echotypes.Event) {
		switch event.Kind {
		case echotypes.EventDocumentChanged:
			a.NoteEdit(event.DocumentID)
		case echotypes.EventDocumentSaved, echotypes.EventDocumentClosed:
			a.Cancel(event.DocumentID)
		}
	})

	a.mu.Lock()
	a.initialized = true
	a.mu.Unlock()
	return nil
}

// SetEnabled toggles the scheduler. Disabling cancels every pending save.
func (a *AutosaveService) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	if !enabled {
		for id, timer := range a.timers {
			timer.Stop()
			delete(a.timers, id)
		}
	}
	a.mu.Unlock()
}

// Enabled reports whether automatic saving is on.
func (a *AutosaveService) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// SetQuietPeriod changes the debounce window for subsequently armed timers.
func (a *AutosaveService) SetQuietPeriod(quiet time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if quiet > 0 {
		a.quiet = quiet
	}
}

// NoteEdit records an edit to the document, arming or rearming its save timer.
func (a *AutosaveService) NoteEdit(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled {
		return
	}
	if timer, ok := a.timers[id]; ok {
		timer.Stop()
	}
	a.timers[id] = time.AfterFunc(a.quiet, func() {
		a.fire(id)
	})
}

// Cancel drops the pending save for a document, if any.
func (a *AutosaveService) Cancel(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if timer, ok := a.timers[id]; ok {
		timer.Stop()
		delete(a.timers, id)
	}
}

// Pending reports whether a save is scheduled for the document.
func (a *AutosaveService) Pending(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.timers[id]
	return ok
}

// fire runs the save outside the scheduler lock. A failed save surfaces through
// the save function's own error path and leaves the document dirty; the
// scheduler does not retry.
func (a *AutosaveService) fire(id string) {
	a.mu.Lock()
	delete(a.timers, id)
	enabled := a.enabled
	a.mu.Unlock()

	if !enabled {
		return
	}
	if err := a.save(context.Background(), id); err != nil {
		logger.Error("Autosave failed", "document", id, "error", err)
	}
}
