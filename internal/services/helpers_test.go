package services

import (
	"context"
	"sync"

	workspacecontext "echoide/internal/context"
	"echoide/pkg/echotypes"
)

// fakeBackend is the in-memory collaborator used across the service tests. It
// implements the file, inference, and execution interfaces with recordable,
// overridable behavior.
type fakeBackend struct {
	mu sync.Mutex

	files   map[string]string
	entries []echotypes.FileEntry

	readErr  error
	writeErr error
	listErr  error

	listCalls  []string
	writeCalls int
	execCalls  int

	chatFn     func(ctx context.Context, req echotypes.ChatRequest) (string, error)
	completeFn func(ctx context.Context, req echotypes.CompletionRequest) (string, error)
	analyzeFn  func(ctx context.Context, req echotypes.AnalysisRequest) (string, error)
	execFn     func(ctx context.Context, executor, filename, workingDir string) (*echotypes.ExecutionResult, error)
}

var (
	_ echotypes.FileStore        = (*fakeBackend)(nil)
	_ echotypes.InferenceService = (*fakeBackend)(nil)
	_ echotypes.ExecutionService = (*fakeBackend)(nil)
)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{files: make(map[string]string)}
}

func (f *fakeBackend) ReadFile(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	content, ok := f.files[path]
	if !ok {
		return "", echotypes.NewFailure(echotypes.FailureNotFound, "read_file", "no such file: "+path)
	}
	return content, nil
}

func (f *fakeBackend) WriteFile(_ context.Context, path, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[path] = content
	return nil
}

func (f *fakeBackend) ListDirectory(_ context.Context, path string) ([]echotypes.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, path)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeBackend) CreateDirectory(_ context.Context, _ string) error {
	return nil
}

func (f *fakeBackend) Chat(ctx context.Context, req echotypes.ChatRequest) (string, error) {
	if f.chatFn != nil {
		return f.chatFn(ctx, req)
	}
	return "fake reply", nil
}

func (f *fakeBackend) Complete(ctx context.Context, req echotypes.CompletionRequest) (string, error) {
	if f.completeFn != nil {
		return f.completeFn(ctx, req)
	}
	return "fake completion", nil
}

func (f *fakeBackend) Analyze(ctx context.Context, req echotypes.AnalysisRequest) (string, error) {
	if f.analyzeFn != nil {
		return f.analyzeFn(ctx, req)
	}
	return "fake analysis", nil
}

func (f *fakeBackend) Execute(ctx context.Context, executor, filename, workingDir string) (*echotypes.ExecutionResult, error) {
	f.mu.Lock()
	f.execCalls++
	f.mu.Unlock()
	if f.execFn != nil {
		return f.execFn(ctx, executor, filename, workingDir)
	}
	return &echotypes.ExecutionResult{Success: true, Stdout: "ok\n", Elapsed: 0.01}, nil
}

func (f *fakeBackend) executions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.execCalls
}

func (f *fakeBackend) listedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...)
}

func newTestContext() *workspacecontext.WorkspaceContext {
	ctx := workspacecontext.New()
	ctx.SetTestMode(true)
	return ctx
}
