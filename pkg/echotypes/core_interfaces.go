// Package echotypes defines the collaborator contracts the workspace core consumes.
// These interfaces describe the remote backend at its boundary only; transports are
// an implementation detail of the client.
package echotypes

import "context"

// ChatRequest carries one chat message to the inference collaborator.
type ChatRequest struct {
	Message   string `json:"message"`
	Model     string `json:"model"`
	Language  string `json:"language"`
	Context   string `json:"context"`
	SessionID string `json:"session_id"`
}

// CompletionRequest carries a code completion request keyed by cursor position.
type CompletionRequest struct {
	Code         string `json:"code"` // full text up to the cursor
	CursorOffset int    `json:"cursor_position"`
	Language     string `json:"language"`
}

// AnalysisRequest carries a whole-document analysis request.
type AnalysisRequest struct {
	Code     string       `json:"code"`
	Language string       `json:"language"`
	Kind     AnalysisKind `json:"analysis_type"`
}

// FileStore is the file I/O collaborator. A failed write must surface to the
// caller; no retry policy is built in.
type FileStore interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) error
	ListDirectory(ctx context.Context, path string) ([]FileEntry, error)
	CreateDirectory(ctx context.Context, path string) error
}

// InferenceService is the chat/completion/analysis collaborator.
type InferenceService interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// ExecutionService is the remote sandbox collaborator that runs files.
type ExecutionService interface {
	Execute(ctx context.Context, executor, filename, workingDir string) (*ExecutionResult, error)
}
