// Terminal-session operations for the workspace context: the append-only output
// log, the command history with its recall cursor, the working directory, and the
// non-reentrant execution slot.
package context

import "echoide/pkg/echotypes"

// AppendTerminalLine appends one timestamped line to the output log.
func (w *WorkspaceContext) AppendTerminalLine(kind echotypes.LineKind, text string) echotypes.TerminalLine {
	line := echotypes.TerminalLine{Kind: kind, Text: text, Timestamp: w.now()}

	w.mu.Lock()
	w.terminalLines = append(w.terminalLines, line)
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventTerminalAppended})
	return line
}

// ResetTerminalLines replaces the output log wholesale. Used by clear and by the
// welcome banner; the only paths that ever truncate the log.
func (w *WorkspaceContext) ResetTerminalLines(lines []echotypes.TerminalLine) {
	w.mu.Lock()
	w.terminalLines = append([]echotypes.TerminalLine(nil), lines...)
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventTerminalCleared})
}

// TerminalLines returns a copy of the output log.
func (w *WorkspaceContext) TerminalLines() []echotypes.TerminalLine {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]echotypes.TerminalLine(nil), w.terminalLines...)
}

// TerminalLineCount returns the output log length.
func (w *WorkspaceContext) TerminalLineCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.terminalLines)
}

// AppendHistory records a submitted command and resets the recall cursor.
func (w *WorkspaceContext) AppendHistory(command string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.history = append(w.history, command)
	w.historyCursor = echotypes.HistoryCursorNone
}

// History returns a copy of the submitted command history, most recent last.
func (w *WorkspaceContext) History() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.history...)
}

// HistoryCursor returns the recall cursor (HistoryCursorNone when inactive).
func (w *WorkspaceContext) HistoryCursor() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.historyCursor
}

// SetHistoryCursor positions the recall cursor.
func (w *WorkspaceContext) SetHistoryCursor(cursor int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.historyCursor = cursor
}

// WorkingDirectory returns the terminal's working directory. It is owned by the
// workspace, not the terminal; the terminal only reads it.
func (w *WorkspaceContext) WorkingDirectory() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.workingDir
}

// SetWorkingDirectory changes the workspace's working directory.
func (w *WorkspaceContext) SetWorkingDirectory(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workingDir = dir
}

// TerminalStatus reports whether the engine is awaiting input or executing.
func (w *WorkspaceContext) TerminalStatus() echotypes.TerminalStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.terminalStatus
}

// BeginExecution transitions AwaitingInput -> Executing. Returns false when a
// command is already executing; the input slot is rejected, not queued.
func (w *WorkspaceContext) BeginExecution() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.terminalStatus == echotypes.TerminalExecuting {
		return false
	}
	w.terminalStatus = echotypes.TerminalExecuting
	return true
}

// EndExecution transitions back to AwaitingInput.
func (w *WorkspaceContext) EndExecution() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terminalStatus = echotypes.TerminalAwaitingInput
}
