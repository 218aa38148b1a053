package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/internal/version"
	"echoide/pkg/echotypes"
	"echoide/pkg/lang"
)

// helpLines is the fixed summary printed by the help built-in.
var helpLines = []string{
	"📋 Available Commands:",
	"  help          - Show this help message",
	"  clear/cls     - Clear terminal",
	"  ls/dir        - List files in current directory",
	"  cd <path>     - Change directory",
	"  cat <file>    - Show file content",
	"  run           - Run current file in editor",
	"  python <file> - Run Python file",
	"  node <file>   - Run JavaScript file",
	"  java <file>   - Compile and run Java file",
	"  g++ <file>    - Compile and run C++ file",
	"",
	"🎯 Examples:",
	"  run",
	"  python hello.py",
	"  node app.js",
	"  java HelloWorld.java",
}

// executorCommands are the first tokens dispatched straight to the remote
// execution collaborator.
var executorCommands = map[string]bool{
	"python": true,
	"node":   true,
	"java":   true,
	"g++":    true,
	"gcc":    true,
}

// TerminalService is a line-oriented pseudo-shell over the append-only output
// log held in the workspace context. Built-ins run locally; execution commands
// forward to the remote sandbox collaborator. The command slot is
// non-reentrant: while a command is running, further input fails with Busy
// rather than queueing.
type TerminalService struct {
	mu          sync.Mutex
	initialized bool

	ctx   *workspacecontext.WorkspaceContext
	files echotypes.FileStore
	exec  echotypes.ExecutionService

	log *log.Logger
}

// NewTerminalService creates a TerminalService over the given collaborators.
func NewTerminalService(files echotypes.FileStore, exec echotypes.ExecutionService) *TerminalService {
	return &TerminalService{
		files: files,
		exec:  exec,
		log:   logger.NewStyledLogger("Terminal"),
	}
}

// Name returns the service name "terminal" for registration.
func (t *TerminalService) Name() string {
	return "terminal"
}

// Initialize binds the service to the workspace context and writes the welcome
// banner.
func (t *TerminalService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	t.mu.Lock()
	t.ctx = ctx
	t.initialized = true
	t.mu.Unlock()

	t.Reset()
	return nil
}

// Reset clears the output log and writes the welcome banner followed by a
// prompt line.
func (t *TerminalService) Reset() {
	t.ctx.ResetTerminalLines(nil)
	t.ctx.AppendTerminalLine(echotypes.LineSystem, fmt.Sprintf("🚀 EchoIDE Terminal v%s", version.Get().Version))
	t.ctx.AppendTerminalLine(echotypes.LineSystem, fmt.Sprintf("📁 Working directory: %s", t.ctx.WorkingDirectory()))
	t.ctx.AppendTerminalLine(echotypes.LineSystem, "💡 Type \"help\" for available commands")
	t.ctx.AppendTerminalLine(echotypes.LinePrompt, "$")
}

// Execute runs one submitted command line to completion. Blank input is
// ignored. The raw line is recorded in history and echoed before dispatch, and
// a fresh prompt line is written once the command settles. While a command is
// running, further calls fail with Busy.
func (t *TerminalService) Execute(ctx context.Context, command string) error {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil
	}

	if !t.ctx.BeginExecution() {
		return echotypes.NewFailure(echotypes.FailureBusy, "terminal", "a command is already running")
	}
	defer t.ctx.EndExecution()

	t.ctx.AppendHistory(command)
	t.ctx.AppendTerminalLine(echotypes.LineCommand, "$ "+trimmed)

	args := strings.Fields(trimmed)
	cmd := strings.ToLower(args[0])

	switch {
	case cmd == "help":
		for _, line := range helpLines {
			t.ctx.AppendTerminalLine(echotypes.LineInfo, line)
		}
	case cmd == "clear" || cmd == "cls":
		t.ctx.ResetTerminalLines(nil)
		t.ctx.AppendTerminalLine(echotypes.LinePrompt, "$")
		return nil
	case cmd == "ls" || cmd == "dir":
		t.listFiles(ctx)
	case cmd == "cd":
		t.ctx.AppendTerminalLine(echotypes.LineInfo, "💡 To change workspace, use the folder icon in the Explorer panel")
	case cmd == "cat" || cmd == "type":
		t.showFileContent(ctx, argAt(args, 1))
	case cmd == "run":
		t.runActiveDocument(ctx)
	case executorCommands[cmd]:
		if len(args) < 2 {
			t.ctx.AppendTerminalLine(echotypes.LineError, fmt.Sprintf("Usage: %s <filename>", cmd))
			break
		}
		t.executeFile(ctx, cmd, args[1])
	default:
		t.ctx.AppendTerminalLine(echotypes.LineError, "Command not found: "+cmd)
		t.ctx.AppendTerminalLine(echotypes.LineInfo, "Type \"help\" to see available commands")
	}

	t.ctx.AppendTerminalLine(echotypes.LinePrompt, "$")
	return nil
}

// RecallPrevious steps the history cursor backward and returns the recalled
// command. On empty history, or when the oldest entry is already shown, it
// returns the current entry unchanged (ok=false means nothing to show).
func (t *TerminalService) RecallPrevious() (string, bool) {
	history := t.ctx.History()
	if len(history) == 0 {
		return "", false
	}
	cursor := t.ctx.HistoryCursor()
	if cursor < len(history)-1 {
		cursor++
		t.ctx.SetHistoryCursor(cursor)
	}
	return history[len(history)-1-cursor], true
}

// RecallNext steps the history cursor forward. Stepping past the most recent
// entry resets the cursor and returns an empty input (ok=false).
func (t *TerminalService) RecallNext() (string, bool) {
	history := t.ctx.History()
	cursor := t.ctx.HistoryCursor()
	if len(history) == 0 || cursor == echotypes.HistoryCursorNone {
		return "", false
	}
	if cursor == 0 {
		t.ctx.SetHistoryCursor(echotypes.HistoryCursorNone)
		return "", false
	}
	cursor--
	t.ctx.SetHistoryCursor(cursor)
	return history[len(history)-1-cursor], true
}

func (t *TerminalService) listFiles(ctx context.Context) {
	entries, err := t.files.ListDirectory(ctx, t.ctx.WorkingDirectory())
	if err != nil {
		t.ctx.AppendTerminalLine(echotypes.LineError, "Failed to list files: "+failureText(err))
		return
	}
	if len(entries) == 0 {
		t.ctx.AppendTerminalLine(echotypes.LineInfo, "No files found")
		return
	}
	for _, entry := range entries {
		icon := "📄"
		size := fmt.Sprintf(" (%s)", humanSize(entry.Size))
		if entry.IsDirectory {
			icon = "📁"
			size = ""
		}
		t.ctx.AppendTerminalLine(echotypes.LineInfo, fmt.Sprintf("%s %s%s", icon, entry.Name, size))
	}
}

func (t *TerminalService) showFileContent(ctx context.Context, filename string) {
	if filename == "" {
		t.ctx.AppendTerminalLine(echotypes.LineError, "Usage: cat <filename>")
		return
	}

	path := filename
	if wd := t.ctx.WorkingDirectory(); wd != "" && wd != "." {
		path = wd + "/" + filename
	}
	content, err := t.files.ReadFile(ctx, path)
	if err != nil {
		t.ctx.AppendTerminalLine(echotypes.LineError, "Failed to read file: "+failureText(err))
		return
	}

	t.ctx.AppendTerminalLine(echotypes.LineInfo, fmt.Sprintf("📄 %s:", filename))
	for i, line := range strings.Split(content, "\n") {
		t.ctx.AppendTerminalLine(echotypes.LineCode, fmt.Sprintf("%3d: %s", i+1, line))
	}
}

// runActiveDocument resolves the run command against the session's active
// document. With no runnable target it appends a single error line and never
// calls the execution collaborator.
func (t *TerminalService) runActiveDocument(ctx context.Context) {
	doc, ok := t.ctx.ActiveDocument()
	if !ok {
		t.ctx.AppendTerminalLine(echotypes.LineError, "No file is currently open in the editor")
		return
	}
	if doc.Path == "" {
		t.ctx.AppendTerminalLine(echotypes.LineError, fmt.Sprintf("%s has no saved location; save it before running", doc.Name))
		return
	}

	executor, ok := lang.ExecutorFor(doc.Name)
	if !ok {
		ext := strings.ToLower(filepath.Ext(doc.Name))
		t.ctx.AppendTerminalLine(echotypes.LineError, fmt.Sprintf("Don't know how to run %s files", ext))
		t.ctx.AppendTerminalLine(echotypes.LineInfo, "Supported: "+strings.Join(lang.ExecutableExtensions(), ", "))
		return
	}

	t.executeFile(ctx, executor, doc.Name)
}

// executeFile forwards one execution request to the sandbox collaborator and
// renders the outcome into the output log.
func (t *TerminalService) executeFile(ctx context.Context, executor, filename string) {
	t.ctx.AppendTerminalLine(echotypes.LineInfo, fmt.Sprintf("🚀 Executing %s with %s...", filename, executor))

	result, err := t.exec.Execute(ctx, executor, filename, t.ctx.WorkingDirectory())
	if err != nil {
		t.log.Warn("Execution request failed", "executor", executor, "file", filename, "error", err)
		t.ctx.AppendTerminalLine(echotypes.LineError, "❌ Execution failed: "+failureText(err))
		t.ctx.AppendTerminalLine(echotypes.LineInfo, "💡 Make sure the required runtime is installed on your system")
		return
	}

	if result.Success {
		t.appendNonEmptyLines(echotypes.LineOutput, result.Stdout)
		t.appendNonEmptyLines(echotypes.LineError, result.Stderr)
		t.ctx.AppendTerminalLine(echotypes.LineSuccess,
			fmt.Sprintf("✓ Execution completed in %.2fs (Exit code: %d)", result.Elapsed, result.ExitCode))
		return
	}

	message := result.ErrorMessage
	if message == "" {
		message = "Unknown error"
	}
	t.ctx.AppendTerminalLine(echotypes.LineError, "❌ Execution failed: "+message)
	t.appendNonEmptyLines(echotypes.LineError, result.Stderr)
}

func (t *TerminalService) appendNonEmptyLines(kind echotypes.LineKind, text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			t.ctx.AppendTerminalLine(kind, line)
		}
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// failureText extracts the human-readable message from a typed failure,
// falling back to the full error text.
func failureText(err error) string {
	var f *echotypes.Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return err.Error()
}

// humanSize renders a byte count with a binary-scaled unit, one decimal place,
// trailing zero trimmed.
func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	text := strconv.FormatFloat(size, 'f', 1, 64)
	text = strings.TrimSuffix(text, ".0")
	return text + " " + units[i]
}
