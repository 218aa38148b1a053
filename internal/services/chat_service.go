package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/pkg/echotypes"
)

// DefaultChatTimeout bounds a single assistant exchange.
const DefaultChatTimeout = 120 * time.Second

// defaultChatContext is the standing instruction sent with every chat turn.
const defaultChatContext = "You are helping with coding tasks. Be helpful and provide code examples when appropriate."

// DefaultModels lists the locally served models offered in the model selector.
var DefaultModels = []string{
	"phi3.5:3.8b",
	"deepseek-coder:6.7b",
	"qwen2.5-coder:7b",
	"qwen2.5-coder:1.5b",
	"llama3:latest",
	"mistral:latest",
}

// ChatService runs the assistant conversation. Every outcome of a send,
// success or failure, becomes a message in the transcript; failures surface as
// error-role messages rather than returned errors, so the conversation always
// records what happened.
type ChatService struct {
	mu          sync.Mutex
	initialized bool
	sending     bool

	ctx       *workspacecontext.WorkspaceContext
	inference echotypes.InferenceService
	timeout   time.Duration
	model     string

	log *log.Logger
}

// NewChatService creates a ChatService backed by the given inference
// collaborator.
func NewChatService(inference echotypes.InferenceService) *ChatService {
	return &ChatService{
		inference: inference,
		timeout:   DefaultChatTimeout,
		log:       logger.NewStyledLogger("Chat"),
	}
}

// Name returns the service name "chat" for registration.
func (c *ChatService) Name() string {
	return "chat"
}

// Initialize binds the service to the workspace context and picks up the
// configured model, if any.
func (c *ChatService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	if model, ok := ctx.GetSetting("model"); ok && model != "" {
		c.model = model
	}
	c.initialized = true
	return nil
}

// SetTimeout overrides the exchange deadline. Non-positive values are ignored.
func (c *ChatService) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timeout > 0 {
		c.timeout = timeout
	}
}

// SetModel selects the model requested from the collaborator.
func (c *ChatService) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Model returns the currently selected model.
func (c *ChatService) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// AvailableModels returns the selectable model names.
func (c *ChatService) AvailableModels() []string {
	models := make([]string, len(DefaultModels))
	copy(models, DefaultModels)
	return models
}

// Sending reports whether an exchange is in flight.
func (c *ChatService) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Send runs one exchange: the user message is appended to the transcript
// immediately, then the collaborator's reply (or an error-role message
// describing the failure) is appended when the exchange settles. Blank
// messages are ignored. A send while another is in flight fails with Busy and
// leaves the transcript untouched.
func (c *ChatService) Send(message string) error {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return echotypes.NewFailure(echotypes.FailureInvalidArgument, "chat", "chat service not initialized")
	}
	if c.sending {
		c.mu.Unlock()
		return echotypes.NewFailure(echotypes.FailureBusy, "chat", "a message is already being processed")
	}
	c.sending = true
	wsCtx := c.ctx
	timeout := c.timeout
	model := c.model
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	wsCtx.AppendChatMessage(echotypes.RoleUser, message)

	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reply, err := c.inference.Chat(reqCtx, echotypes.ChatRequest{
		Message:   message,
		Model:     model,
		Language:  "english",
		Context:   defaultChatContext,
		SessionID: wsCtx.ChatSessionID(),
	})
	if err != nil {
		c.log.Warn("Chat exchange failed", "error", err)
		wsCtx.AppendChatMessage(echotypes.RoleError, c.describeFailure(err))
		return nil
	}

	if reply == "" {
		reply = "No response received"
	}
	wsCtx.AppendChatMessage(echotypes.RoleAssistant, reply)
	return nil
}

// Clear discards the transcript. The session identifier is kept so the
// collaborator's server-side history, if any, stays addressable.
func (c *ChatService) Clear() {
	c.mu.Lock()
	wsCtx := c.ctx
	c.mu.Unlock()
	if wsCtx != nil {
		wsCtx.ClearChatMessages()
	}
}

// describeFailure renders a collaborator failure as user-facing transcript
// text.
func (c *ChatService) describeFailure(err error) string {
	const prefix = "Sorry, I encountered an error. "
	switch {
	case echotypes.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return prefix + "The request timed out. The AI model might be busy or not responding."
	case echotypes.KindOf(err) == echotypes.FailureServiceUnavailable:
		return prefix + "The AI service is temporarily unavailable. Please check if Ollama is running and the model is loaded."
	default:
		return prefix + "Error: " + err.Error()
	}
}
