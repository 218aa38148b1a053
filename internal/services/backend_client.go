package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"echoide/internal/logger"
	"echoide/pkg/echotypes"
)

// DefaultBackendURL is the workspace backend a freshly configured client talks
// to.
const DefaultBackendURL = "http://127.0.0.1:8000"

// BackendClient is the HTTP collaborator behind the file, inference, and
// execution interfaces. All transport and status errors are classified into
// the failure taxonomy before they leave this type.
type BackendClient struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
}

var (
	_ echotypes.FileStore        = (*BackendClient)(nil)
	_ echotypes.InferenceService = (*BackendClient)(nil)
	_ echotypes.ExecutionService = (*BackendClient)(nil)
)

// NewBackendClient creates a client for the backend at baseURL. An empty
// baseURL selects DefaultBackendURL. Request deadlines come from the caller's
// context, so the underlying http.Client carries no timeout of its own.
func NewBackendClient(baseURL string) *BackendClient {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{},
		log:     logger.NewStyledLogger("Backend"),
	}
}

// BaseURL returns the backend address the client was configured with.
func (b *BackendClient) BaseURL() string {
	return b.baseURL
}

// Chat sends one conversational exchange and returns the assistant's reply.
func (b *BackendClient) Chat(ctx context.Context, req echotypes.ChatRequest) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := b.postJSON(ctx, "chat", "/api/chat", req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Complete requests an inline continuation of the code before the cursor.
func (b *BackendClient) Complete(ctx context.Context, req echotypes.CompletionRequest) (string, error) {
	var out struct {
		Completion string `json:"completion"`
	}
	if err := b.postJSON(ctx, "complete", "/api/code/complete", req, &out); err != nil {
		return "", err
	}
	return out.Completion, nil
}

// Analyze requests a free-form report over the given code.
func (b *BackendClient) Analyze(ctx context.Context, req echotypes.AnalysisRequest) (string, error) {
	var out struct {
		Analysis string `json:"analysis"`
	}
	if err := b.postJSON(ctx, "analyze", "/api/code/analyze", req, &out); err != nil {
		return "", err
	}
	return out.Analysis, nil
}

// ReadFile returns the text content of the file at path.
func (b *BackendClient) ReadFile(ctx context.Context, path string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	query := url.Values{"path": {path}}
	if err := b.getJSON(ctx, "read_file", "/api/files/read", query, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// WriteFile stores content at path, creating or replacing the file.
func (b *BackendClient) WriteFile(ctx context.Context, path, content string) error {
	req := struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}{Path: path, Content: content}
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := b.postJSON(ctx, "write_file", "/api/files/write", req, &out); err != nil {
		return err
	}
	if !out.Success {
		return echotypes.NewFailure(echotypes.FailureIOError, "write_file", nonEmpty(out.Message, "write rejected"))
	}
	return nil
}

// ListDirectory returns the entries directly under path.
func (b *BackendClient) ListDirectory(ctx context.Context, path string) ([]echotypes.FileEntry, error) {
	var out struct {
		Files []echotypes.FileEntry `json:"files"`
	}
	query := url.Values{"path": {path}}
	if err := b.getJSON(ctx, "list_directory", "/api/files/list", query, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// CreateDirectory creates the directory at path, including parents.
func (b *BackendClient) CreateDirectory(ctx context.Context, path string) error {
	req := struct {
		Path string `json:"path"`
	}{Path: path}
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := b.postJSON(ctx, "create_directory", "/api/files/create-directory", req, &out); err != nil {
		return err
	}
	if !out.Success {
		return echotypes.NewFailure(echotypes.FailureIOError, "create_directory", nonEmpty(out.Message, "directory creation rejected"))
	}
	return nil
}

// Execute runs filename with the named executor inside workingDir on the
// remote sandbox and returns the captured result.
func (b *BackendClient) Execute(ctx context.Context, executor, filename, workingDir string) (*echotypes.ExecutionResult, error) {
	req := struct {
		Executor  string `json:"executor"`
		Filename  string `json:"filename"`
		Workspace string `json:"workspace"`
	}{Executor: executor, Filename: filename, Workspace: workingDir}
	var out echotypes.ExecutionResult
	if err := b.postJSON(ctx, "execute", "/api/execute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthy reports whether the backend answers its health probe.
func (b *BackendClient) Healthy(ctx context.Context) bool {
	var out struct {
		Status string `json:"status"`
	}
	if err := b.getJSON(ctx, "health", "/api/health", nil, &out); err != nil {
		return false
	}
	return out.Status == "healthy"
}

func (b *BackendClient) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return echotypes.WrapFailure(echotypes.FailureInvalidArgument, op, "encoding request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return echotypes.WrapFailure(echotypes.FailureInvalidArgument, op, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(op, req, out)
}

func (b *BackendClient) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	target := b.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return echotypes.WrapFailure(echotypes.FailureInvalidArgument, op, "building request", err)
	}
	return b.do(op, req, out)
}

func (b *BackendClient) do(op string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return classifyTransport(op, err)
	}
	defer resp.Body.Close()

	b.log.Debug("Backend request", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return echotypes.WrapFailure(echotypes.FailureIOError, op, "decoding response", err)
	}
	return nil
}

// classifyTransport maps connection-level errors into the failure taxonomy. A
// cancelled context passes through untouched so supersession is
// distinguishable from real failures.
func classifyTransport(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return echotypes.WrapFailure(echotypes.FailureTimeout, op, "request deadline exceeded", err)
	default:
		return echotypes.WrapFailure(echotypes.FailureServiceUnavailable, op, "backend unreachable", err)
	}
}

// classifyStatus maps HTTP error statuses into the failure taxonomy, carrying
// the backend's detail message when one is present.
func classifyStatus(op string, resp *http.Response) error {
	detail := readDetail(resp.Body)
	message := nonEmpty(detail, fmt.Sprintf("backend returned status %d", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return echotypes.NewFailure(echotypes.FailureNotFound, op, message)
	case resp.StatusCode == http.StatusForbidden:
		return echotypes.NewFailure(echotypes.FailurePermissionDenied, op, message)
	case resp.StatusCode == http.StatusBadRequest:
		return echotypes.NewFailure(echotypes.FailureInvalidArgument, op, message)
	case resp.StatusCode >= 500:
		return echotypes.NewFailure(echotypes.FailureServiceUnavailable, op, message)
	default:
		return echotypes.NewFailure(echotypes.FailureIOError, op, message)
	}
}

// readDetail pulls the "detail" field out of an error body, tolerating
// non-JSON responses.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

func nonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
