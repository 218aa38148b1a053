package services

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/pkg/echotypes"
)

// RenderService turns terminal log lines and assistant replies into styled
// terminal output. Assistant text is treated as markdown and rendered through
// Glamour; log lines get a per-kind lipgloss style. On dumb terminals (or in
// test mode) everything degrades to plain text.
type RenderService struct {
	initialized bool
	plain       bool
	renderer    *glamour.TermRenderer
	lineStyles  map[echotypes.LineKind]lipgloss.Style
}

// NewRenderService creates an uninitialized RenderService.
func NewRenderService() *RenderService {
	return &RenderService{}
}

// Name returns the service name "render" for registration.
func (r *RenderService) Name() string {
	return "render"
}

// Initialize builds the markdown renderer and the per-kind line styles.
func (r *RenderService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	r.plain = ctx.IsTestMode() || termenv.DefaultOutput().Profile == termenv.Ascii

	style := glamour.WithAutoStyle()
	if r.plain {
		style = glamour.WithStylePath("notty")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	r.renderer = renderer

	r.lineStyles = map[echotypes.LineKind]lipgloss.Style{
		echotypes.LineSystem:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		echotypes.LineCommand: lipgloss.NewStyle().Bold(true),
		echotypes.LineOutput:  lipgloss.NewStyle(),
		echotypes.LineError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		echotypes.LineInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		echotypes.LineSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		echotypes.LineCode:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		echotypes.LinePrompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}

	r.initialized = true
	logger.Debug("RenderService initialized", "plain", r.plain)
	return nil
}

// RenderMarkdown renders assistant markdown to ANSI terminal output. Blank
// input and render failures fall back to the raw text rather than erroring;
// a reply is always shown to the user.
func (r *RenderService) RenderMarkdown(markdown string) string {
	if !r.initialized || r.renderer == nil || strings.TrimSpace(markdown) == "" {
		return markdown
	}
	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		logger.Debug("Markdown rendering failed, falling back to raw text", "error", err)
		return markdown
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// StyleLine renders one terminal log line with the style for its kind.
func (r *RenderService) StyleLine(line echotypes.TerminalLine) string {
	if r.plain || !r.initialized {
		return line.Text
	}
	style, ok := r.lineStyles[line.Kind]
	if !ok {
		return line.Text
	}
	return style.Render(line.Text)
}

// StyleChatMessage renders one transcript message with a role label. Assistant
// content goes through the markdown renderer.
func (r *RenderService) StyleChatMessage(msg echotypes.ChatMessage) string {
	switch msg.Role {
	case echotypes.RoleAssistant:
		return r.RenderMarkdown(msg.Content)
	case echotypes.RoleError:
		if r.plain || !r.initialized {
			return msg.Content
		}
		return r.lineStyles[echotypes.LineError].Render(msg.Content)
	default:
		return msg.Content
	}
}
