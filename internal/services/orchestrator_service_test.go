package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echoide/pkg/echotypes"
)

// resultCollector gathers delivered results for assertions.
type resultCollector struct {
	mu      sync.Mutex
	results []string
	errs    []error
}

func (r *resultCollector) deliver(_ string, text string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, text)
	r.errs = append(r.errs, err)
}

func (r *resultCollector) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func (r *resultCollector) errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func TestOrchestratorService_CompletionDelivers(t *testing.T) {
	backend := newFakeBackend()
	backend.completeFn = func(_ context.Context, req echotypes.CompletionRequest) (string, error) {
		assert.Equal(t, "def mai", req.Code)
		assert.Equal(t, 7, req.CursorOffset)
		return "n():", nil
	}
	service := NewOrchestratorService(backend)
	require.NoError(t, service.Initialize(newTestContext()))

	collector := &resultCollector{}
	service.RequestCompletion("doc-1", "def mai", 7, "python", collector.deliver)

	waitFor(t, func() bool { return len(collector.texts()) == 1 })
	assert.Equal(t, []string{"n():"}, collector.texts())
	assert.NoError(t, collector.errors()[0])
}

func TestOrchestratorService_SupersededCompletionIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	backend := newFakeBackend()
	backend.completeFn = func(ctx context.Context, _ echotypes.CompletionRequest) (string, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			// Hold the first request until after it has been superseded.
			select {
			case <-release:
			case <-ctx.Done():
			}
			return "stale", ctx.Err()
		}
		return "fresh", nil
	}
	service := NewOrchestratorService(backend)
	require.NoError(t, service.Initialize(newTestContext()))

	collector := &resultCollector{}
	service.RequestCompletion("doc-1", "a", 1, "python", collector.deliver)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})
	service.RequestCompletion("doc-1", "ab", 2, "python", collector.deliver)
	close(release)

	waitFor(t, func() bool { return len(collector.texts()) == 1 })
	time.Sleep(50 * time.Millisecond)

	// Only the newest request's result surfaces; the stale one is dropped.
	assert.Equal(t, []string{"fresh"}, collector.texts())
}

func TestOrchestratorService_CompletionTimeout(t *testing.T) {
	backend := newFakeBackend()
	backend.completeFn = func(ctx context.Context, _ echotypes.CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	service := NewOrchestratorService(backend)
	require.NoError(t, service.Initialize(newTestContext()))
	service.SetTimeouts(20*time.Millisecond, 0)

	collector := &resultCollector{}
	service.RequestCompletion("doc-1", "a", 1, "python", collector.deliver)

	waitFor(t, func() bool { return len(collector.errors()) == 1 })
	assert.True(t, echotypes.IsTimeout(collector.errors()[0]))
}

func TestOrchestratorService_AnalysisBusyGate(t *testing.T) {
	release := make(chan struct{})
	backend := newFakeBackend()
	backend.analyzeFn = func(ctx context.Context, _ echotypes.AnalysisRequest) (string, error) {
		<-release
		return "report", nil
	}
	service := NewOrchestratorService(backend)
	require.NoError(t, service.Initialize(newTestContext()))

	collector := &resultCollector{}
	require.NoError(t, service.RequestAnalysis("doc-1", "code", "python", echotypes.AnalysisExplain, collector.deliver))
	assert.True(t, service.AnalysisInFlight("doc-1"))

	// A second analysis for the same document is rejected, not queued.
	err := service.RequestAnalysis("doc-1", "code", "python", echotypes.AnalysisDebug, collector.deliver)
	require.Error(t, err)
	assert.True(t, echotypes.IsBusy(err))

	// A different document has its own slot.
	require.NoError(t, service.RequestAnalysis("doc-2", "code", "python", echotypes.AnalysisReview, collector.deliver))

	close(release)
	waitFor(t, func() bool { return len(collector.texts()) == 2 })
	assert.False(t, service.AnalysisInFlight("doc-1"))

	// The slot frees up once the analysis settles.
	require.NoError(t, service.RequestAnalysis("doc-1", "code", "python", echotypes.AnalysisOptimize, collector.deliver))
	waitFor(t, func() bool { return len(collector.texts()) == 3 })
}

func TestOrchestratorService_AnalysisRejectsUnknownKind(t *testing.T) {
	service := NewOrchestratorService(newFakeBackend())
	require.NoError(t, service.Initialize(newTestContext()))

	err := service.RequestAnalysis("doc-1", "code", "python", echotypes.AnalysisKind("summarize"), func(string, string, error) {})
	require.Error(t, err)
	assert.Equal(t, echotypes.FailureInvalidArgument, echotypes.KindOf(err))
}

func TestOrchestratorService_DocumentCloseCancelsInFlight(t *testing.T) {
	backend := newFakeBackend()
	backend.completeFn = func(ctx context.Context, _ echotypes.CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	wsCtx := newTestContext()
	service := NewOrchestratorService(backend)
	require.NoError(t, service.Initialize(wsCtx))

	collector := &resultCollector{}
	wsCtx.AppendDocument(echotypes.Document{ID: "doc-1"})
	service.RequestCompletion("doc-1", "a", 1, "python", collector.deliver)

	wsCtx.CloseDocument("doc-1")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, collector.texts(), "a cancelled request never delivers")
}
