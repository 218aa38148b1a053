package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/pkg/echotypes"
)

// Default deadlines for inference requests.
const (
	DefaultCompletionTimeout = 60 * time.Second
	DefaultAnalysisTimeout   = 60 * time.Second
)

// ResultFunc receives the outcome of a completion or analysis request. It is
// invoked at most once, from the request's own goroutine, and never for a
// superseded request.
type ResultFunc func(documentID, text string, err error)

// inflight tracks one outstanding request for a document slot. The token guards
// result application: a response whose token no longer matches the slot is
// stale and is discarded even if it arrives after cancellation.
type inflight struct {
	token  string
	cancel context.CancelFunc
}

// OrchestratorService issues cancellable, deadline-bounded completion and
// analysis requests to the inference collaborator, keyed per document. A new
// completion request supersedes (cancels) the prior unfinished one for the same
// document; analysis requests instead reject with Busy while one is in flight.
type OrchestratorService struct {
	mu          sync.Mutex
	initialized bool

	inference         echotypes.InferenceService
	completionTimeout time.Duration
	analysisTimeout   time.Duration

	completions map[string]*inflight
	analyses    map[string]*inflight

	log *log.Logger
}

// NewOrchestratorService creates an OrchestratorService for the given inference
// collaborator.
func NewOrchestratorService(inference echotypes.InferenceService) *OrchestratorService {
	return &OrchestratorService{
		inference:         inference,
		completionTimeout: DefaultCompletionTimeout,
		analysisTimeout:   DefaultAnalysisTimeout,
		completions:       make(map[string]*inflight),
		analyses:          make(map[string]*inflight),
		log:               logger.NewStyledLogger("Orchestrator"),
	}
}

// Name returns the service name "orchestrator" for registration.
func (o *OrchestratorService) Name() string {
	return "orchestrator"
}

// Initialize subscribes the orchestrator to document-close events so in-flight
// requests for a closing document are cancelled rather than left to resolve.
func (o *OrchestratorService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	ctx.Subscribe(func(event echotypes.Event) {
		if event.Kind == echotypes.EventDocumentClosed {
			o.CancelDocument(event.DocumentID)
		}
	})

	o.mu.Lock()
	o.initialized = true
	o.mu.Unlock()
	return nil
}

// SetTimeouts overrides the request deadlines. Non-positive values keep the
// current setting.
func (o *OrchestratorService) SetTimeouts(completion, analysis time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if completion > 0 {
		o.completionTimeout = completion
	}
	if analysis > 0 {
		o.analysisTimeout = analysis
	}
}

// RequestCompletion issues a completion request for the document at the given
// cursor offset. A prior unfinished completion for the same document is
// cancelled and its eventual result discarded; only the newest request is ever
// surfaced. The result is delivered asynchronously through deliver.
func (o *OrchestratorService) RequestCompletion(documentID, textToCursor string, cursorOffset int, language string, deliver ResultFunc) {
	o.mu.Lock()
	if prev, ok := o.completions[documentID]; ok {
		prev.cancel()
		o.log.Debug("Completion superseded", "document", documentID)
	}
	token := uuid.NewString()
	reqCtx, cancel := context.WithTimeout(context.Background(), o.completionTimeout)
	o.completions[documentID] = &inflight{token: token, cancel: cancel}
	o.mu.Unlock()

	go func() {
		defer cancel()
		text, err := o.inference.Complete(reqCtx, echotypes.CompletionRequest{
			Code:         textToCursor,
			CursorOffset: cursorOffset,
			Language:     language,
		})
		if !o.settle(o.completions, documentID, token) {
			o.log.Debug("Stale completion discarded", "document", documentID)
			return
		}
		deliver(documentID, text, o.classify("completion", err))
	}()
}

// RequestAnalysis issues an analysis request over the whole document. At most
// one analysis per document may be in flight; a concurrent request fails fast
// with Busy instead of queueing, avoiding stale-result races. The result is
// delivered asynchronously through deliver.
func (o *OrchestratorService) RequestAnalysis(documentID, code, language string, kind echotypes.AnalysisKind, deliver ResultFunc) error {
	if !echotypes.ValidAnalysisKind(kind) {
		return echotypes.NewFailure(echotypes.FailureInvalidArgument, "analysis", "unknown analysis kind: "+string(kind))
	}

	o.mu.Lock()
	if _, busy := o.analyses[documentID]; busy {
		o.mu.Unlock()
		return echotypes.NewFailure(echotypes.FailureBusy, "analysis", "an analysis is already in flight for this document")
	}
	token := uuid.NewString()
	reqCtx, cancel := context.WithTimeout(context.Background(), o.analysisTimeout)
	o.analyses[documentID] = &inflight{token: token, cancel: cancel}
	o.mu.Unlock()

	go func() {
		defer cancel()
		text, err := o.inference.Analyze(reqCtx, echotypes.AnalysisRequest{
			Code:     code,
			Language: language,
			Kind:     kind,
		})
		if !o.settle(o.analyses, documentID, token) {
			o.log.Debug("Stale analysis discarded", "document", documentID)
			return
		}
		deliver(documentID, text, o.classify("analysis", err))
	}()
	return nil
}

// CancelDocument abandons any in-flight completion and analysis for the
// document. The collaborator is not guaranteed to stop work; only the local
// wait is cancelled, and the eventual response is discarded by the token guard.
func (o *OrchestratorService) CancelDocument(documentID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if req, ok := o.completions[documentID]; ok {
		req.cancel()
		delete(o.completions, documentID)
	}
	if req, ok := o.analyses[documentID]; ok {
		req.cancel()
		delete(o.analyses, documentID)
	}
}

// AnalysisInFlight reports whether the document's analysis slot is occupied.
func (o *OrchestratorService) AnalysisInFlight(documentID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, busy := o.analyses[documentID]
	return busy
}

// settle removes the slot entry if the token still matches, reporting whether
// the caller owns the result.
func (o *OrchestratorService) settle(slots map[string]*inflight, documentID, token string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, ok := slots[documentID]
	if !ok || current.token != token {
		return false
	}
	delete(slots, documentID)
	return true
}

// classify normalizes collaborator errors into the failure taxonomy. Errors the
// client already classified pass through unchanged.
func (o *OrchestratorService) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if echotypes.KindOf(err) != echotypes.FailureUnknown {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return echotypes.WrapFailure(echotypes.FailureTimeout, op, "request deadline exceeded", err)
	}
	return echotypes.WrapFailure(echotypes.FailureIOError, op, "request failed", err)
}
