// Package echotypes defines terminal session types for the EchoIDE workspace core.
// This file contains the output log, history, and execution result model used by
// the terminal engine.
package echotypes

import "time"

// LineKind classifies a single terminal output line.
type LineKind string

// Terminal line kinds, mirroring the renderer's styling classes.
const (
	LineSystem  LineKind = "system"
	LineCommand LineKind = "command"
	LineOutput  LineKind = "output"
	LineError   LineKind = "error"
	LineInfo    LineKind = "info"
	LineSuccess LineKind = "success"
	LineCode    LineKind = "code"
	LinePrompt  LineKind = "prompt"
)

// TerminalLine is one entry in the terminal's append-only output log.
type TerminalLine struct {
	Kind      LineKind  `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TerminalStatus models the engine's input slot: while executing, new input is
// rejected rather than queued.
type TerminalStatus string

const (
	TerminalAwaitingInput TerminalStatus = "awaiting_input"
	TerminalExecuting     TerminalStatus = "executing"
)

// HistoryCursorNone marks the recall cursor's rest position (no recall active).
const HistoryCursorNone = -1

// FileEntry describes one entry of a directory listing returned by the file
// collaborator.
type FileEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"is_directory"`
	IsTextFile  bool      `json:"is_text_file"`
	Extension   string    `json:"extension"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
}

// ExecutionResult is the outcome of a remote execution request.
type ExecutionResult struct {
	Success      bool    `json:"success"`
	Stdout       string  `json:"stdout"`
	Stderr       string  `json:"stderr"`
	ExitCode     int     `json:"exit_code"`
	Elapsed      float64 `json:"execution_time"` // seconds
	ErrorMessage string  `json:"error,omitempty"`
}
