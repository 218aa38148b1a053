package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workspacecontext "echoide/internal/context"
	"echoide/pkg/echotypes"
)

func newTerminalFixture(t *testing.T) (*TerminalService, *fakeBackend, *workspacecontext.WorkspaceContext) {
	t.Helper()
	backend := newFakeBackend()
	wsCtx := newTestContext()
	service := NewTerminalService(backend, backend)
	require.NoError(t, service.Initialize(wsCtx))
	return service, backend, wsCtx
}

func linesOfKind(wsCtx *workspacecontext.WorkspaceContext, kind echotypes.LineKind) []string {
	var out []string
	for _, line := range wsCtx.TerminalLines() {
		if line.Kind == kind {
			out = append(out, line.Text)
		}
	}
	return out
}

func TestTerminalService_WelcomeBanner(t *testing.T) {
	_, _, wsCtx := newTerminalFixture(t)

	lines := wsCtx.TerminalLines()
	require.Len(t, lines, 4)
	for _, line := range lines[:3] {
		assert.Equal(t, echotypes.LineSystem, line.Kind)
	}
	assert.Contains(t, lines[0].Text, "EchoIDE Terminal")
	assert.Contains(t, lines[1].Text, "Working directory")
	assert.Equal(t, echotypes.LinePrompt, lines[3].Kind)
}

func TestTerminalService_BlankInputIsIgnored(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)
	before := wsCtx.TerminalLineCount()

	require.NoError(t, service.Execute(context.Background(), "   "))
	assert.Equal(t, before, wsCtx.TerminalLineCount())
	assert.Empty(t, wsCtx.History())
}

func TestTerminalService_HelpIsRecordedLikeAnyCommand(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "help"))

	assert.Equal(t, []string{"help"}, wsCtx.History())
	// Apart from the echoed command and trailing prompt, help emits only info lines.
	var kinds []echotypes.LineKind
	for _, line := range wsCtx.TerminalLines()[4:] {
		kinds = append(kinds, line.Kind)
	}
	require.NotEmpty(t, kinds)
	assert.Equal(t, echotypes.LineCommand, kinds[0])
	assert.Equal(t, echotypes.LinePrompt, kinds[len(kinds)-1])
	for _, kind := range kinds[1 : len(kinds)-1] {
		assert.Equal(t, echotypes.LineInfo, kind)
	}
	assert.Contains(t, strings.Join(linesOfKind(wsCtx, echotypes.LineInfo), "\n"), "Available Commands")
}

func TestTerminalService_ClearResetsToSinglePrompt(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)
	require.NoError(t, service.Execute(context.Background(), "help"))

	require.NoError(t, service.Execute(context.Background(), "clear"))

	lines := wsCtx.TerminalLines()
	require.Len(t, lines, 1)
	assert.Equal(t, echotypes.LinePrompt, lines[0].Kind)
	// History survives a clear.
	assert.Equal(t, []string{"help", "clear"}, wsCtx.History())
}

func TestTerminalService_ListFiles(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	wsCtx.SetWorkingDirectory("/proj")
	backend.entries = []echotypes.FileEntry{
		{Name: "src", IsDirectory: true},
		{Name: "main.py", Size: 2048},
	}

	require.NoError(t, service.Execute(context.Background(), "ls"))

	// Exactly one collaborator call, against the workspace's directory.
	assert.Equal(t, []string{"/proj"}, backend.listedPaths())

	info := linesOfKind(wsCtx, echotypes.LineInfo)
	require.Len(t, info, 2)
	assert.Contains(t, info[0], "src")
	assert.NotContains(t, info[0], "(")
	assert.Contains(t, info[1], "main.py")
	assert.Contains(t, info[1], "2 KB")
}

func TestTerminalService_ListFilesEmpty(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "dir"))
	assert.Equal(t, []string{"No files found"}, linesOfKind(wsCtx, echotypes.LineInfo))
}

func TestTerminalService_CatRendersNumberedLines(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	backend.files["main.py"] = "a\nb"

	require.NoError(t, service.Execute(context.Background(), "cat main.py"))

	code := linesOfKind(wsCtx, echotypes.LineCode)
	assert.Equal(t, []string{"  1: a", "  2: b"}, code)
	assert.Contains(t, linesOfKind(wsCtx, echotypes.LineInfo)[0], "main.py")
}

func TestTerminalService_CatJoinsWorkingDirectory(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	wsCtx.SetWorkingDirectory("/proj")
	backend.files["/proj/main.py"] = "x"

	require.NoError(t, service.Execute(context.Background(), "cat main.py"))
	assert.NotEmpty(t, linesOfKind(wsCtx, echotypes.LineCode))
}

func TestTerminalService_CatMissingFile(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "cat ghost.py"))
	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Failed to read file")

	require.NoError(t, service.Execute(context.Background(), "cat"))
	errs = linesOfKind(wsCtx, echotypes.LineError)
	assert.Contains(t, errs[len(errs)-1], "Usage: cat")
}

func TestTerminalService_CdEmitsGuidanceOnly(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)
	wsCtx.SetWorkingDirectory("/proj")

	require.NoError(t, service.Execute(context.Background(), "cd /elsewhere"))

	assert.Equal(t, "/proj", wsCtx.WorkingDirectory(), "cd never changes the working directory")
	info := linesOfKind(wsCtx, echotypes.LineInfo)
	require.Len(t, info, 1)
	assert.Contains(t, info[0], "Explorer")
}

func TestTerminalService_UnknownCommand(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "frobnicate now"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Equal(t, "Command not found: frobnicate", errs[0])
	assert.Contains(t, linesOfKind(wsCtx, echotypes.LineInfo)[0], "help")
}

func TestTerminalService_CommandsAreCaseInsensitive(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "HELP"))
	assert.Contains(t, strings.Join(linesOfKind(wsCtx, echotypes.LineInfo), "\n"), "Available Commands")
}

func TestTerminalService_RunWithNoDocument(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "run"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1, "run with no open document appends exactly one error line")
	assert.Equal(t, "No file is currently open in the editor", errs[0])
	assert.Equal(t, 0, backend.executions())
}

func TestTerminalService_RunUnsavedDocument(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	wsCtx.AppendDocument(echotypes.Document{ID: "u", Name: "untitled.py"})

	require.NoError(t, service.Execute(context.Background(), "run"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no saved location")
	assert.Equal(t, 0, backend.executions())
}

func TestTerminalService_RunUnsupportedExtension(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	wsCtx.AppendDocument(echotypes.Document{ID: "d", Name: "notes.txt", Path: "/proj/notes.txt"})

	require.NoError(t, service.Execute(context.Background(), "run"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], ".txt")
	assert.Contains(t, strings.Join(linesOfKind(wsCtx, echotypes.LineInfo), "\n"), "Supported:")
	assert.Equal(t, 0, backend.executions())
}

func TestTerminalService_RunActiveDocument(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	wsCtx.SetWorkingDirectory("/proj")
	wsCtx.AppendDocument(echotypes.Document{ID: "d", Name: "main.py", Path: "/proj/main.py"})

	var gotExecutor, gotFilename, gotDir string
	backend.execFn = func(_ context.Context, executor, filename, workingDir string) (*echotypes.ExecutionResult, error) {
		gotExecutor, gotFilename, gotDir = executor, filename, workingDir
		return &echotypes.ExecutionResult{Success: true, Stdout: "hello\n\n", Elapsed: 0.42, ExitCode: 0}, nil
	}

	require.NoError(t, service.Execute(context.Background(), "run"))

	assert.Equal(t, "python", gotExecutor)
	assert.Equal(t, "main.py", gotFilename)
	assert.Equal(t, "/proj", gotDir)

	assert.Equal(t, []string{"hello"}, linesOfKind(wsCtx, echotypes.LineOutput))
	success := linesOfKind(wsCtx, echotypes.LineSuccess)
	require.Len(t, success, 1)
	assert.Contains(t, success[0], "0.42s")
	assert.Contains(t, success[0], "Exit code: 0")
}

func TestTerminalService_ExecutorCommandRendersStderr(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	backend.execFn = func(_ context.Context, executor, filename, _ string) (*echotypes.ExecutionResult, error) {
		assert.Equal(t, "node", executor)
		assert.Equal(t, "app.js", filename)
		return &echotypes.ExecutionResult{
			Success:      false,
			Stderr:       "ReferenceError: x is not defined\n",
			ErrorMessage: "process exited with code 1",
			ExitCode:     1,
		}, nil
	}

	require.NoError(t, service.Execute(context.Background(), "node app.js"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Execution failed")
	assert.Contains(t, errs[1], "ReferenceError")
	assert.Empty(t, linesOfKind(wsCtx, echotypes.LineSuccess))
}

func TestTerminalService_ExecutorUsageWithoutFilename(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)

	require.NoError(t, service.Execute(context.Background(), "python"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Equal(t, "Usage: python <filename>", errs[0])
	assert.Equal(t, 0, backend.executions())
}

func TestTerminalService_ExecutionTransportFailure(t *testing.T) {
	service, backend, wsCtx := newTerminalFixture(t)
	backend.execFn = func(context.Context, string, string, string) (*echotypes.ExecutionResult, error) {
		return nil, echotypes.NewFailure(echotypes.FailureServiceUnavailable, "execute", "backend unreachable")
	}

	require.NoError(t, service.Execute(context.Background(), "python main.py"))

	errs := linesOfKind(wsCtx, echotypes.LineError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "backend unreachable")
	assert.Contains(t, strings.Join(linesOfKind(wsCtx, echotypes.LineInfo), "\n"), "runtime is installed")
}

func TestTerminalService_BusyWhileExecuting(t *testing.T) {
	service, _, wsCtx := newTerminalFixture(t)

	require.True(t, wsCtx.BeginExecution())
	err := service.Execute(context.Background(), "help")
	require.Error(t, err)
	assert.True(t, echotypes.IsBusy(err))
	assert.Empty(t, wsCtx.History(), "rejected input is not recorded")
	wsCtx.EndExecution()

	require.NoError(t, service.Execute(context.Background(), "help"))
	assert.Equal(t, echotypes.TerminalAwaitingInput, wsCtx.TerminalStatus())
}

func TestTerminalService_HistoryRecall(t *testing.T) {
	service, _, _ := newTerminalFixture(t)

	// Empty history: recall in both directions is a no-op.
	_, ok := service.RecallPrevious()
	assert.False(t, ok)
	_, ok = service.RecallNext()
	assert.False(t, ok)

	require.NoError(t, service.Execute(context.Background(), "ls"))
	require.NoError(t, service.Execute(context.Background(), "help"))
	require.NoError(t, service.Execute(context.Background(), "cat a.py"))

	// Stepping back walks from most recent toward oldest, without wraparound.
	cmd, ok := service.RecallPrevious()
	require.True(t, ok)
	assert.Equal(t, "cat a.py", cmd)
	cmd, _ = service.RecallPrevious()
	assert.Equal(t, "help", cmd)
	cmd, _ = service.RecallPrevious()
	assert.Equal(t, "ls", cmd)
	cmd, ok = service.RecallPrevious()
	assert.True(t, ok)
	assert.Equal(t, "ls", cmd, "the oldest entry is the end of the line")

	// Stepping forward returns toward the newest, then clears the input.
	cmd, _ = service.RecallNext()
	assert.Equal(t, "help", cmd)
	cmd, _ = service.RecallNext()
	assert.Equal(t, "cat a.py", cmd)
	cmd, ok = service.RecallNext()
	assert.False(t, ok)
	assert.Equal(t, "", cmd)

	// A new submission resets the cursor.
	_, _ = service.RecallPrevious()
	require.NoError(t, service.Execute(context.Background(), "clear"))
	cmd, ok = service.RecallPrevious()
	require.True(t, ok)
	assert.Equal(t, "clear", cmd)
}
