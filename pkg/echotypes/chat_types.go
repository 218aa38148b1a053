// Package echotypes defines chat session types for the EchoIDE workspace core.
package echotypes

import "time"

// Message roles in the chat log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// ChatMessage is a single entry in the chat session's append-only message log.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisKind selects the flavor of a code analysis request.
type AnalysisKind string

const (
	AnalysisExplain  AnalysisKind = "explain"
	AnalysisDebug    AnalysisKind = "debug"
	AnalysisOptimize AnalysisKind = "optimize"
	AnalysisReview   AnalysisKind = "review"
)

// ValidAnalysisKind reports whether kind is one of the supported analysis kinds.
func ValidAnalysisKind(kind AnalysisKind) bool {
	switch kind {
	case AnalysisExplain, AnalysisDebug, AnalysisOptimize, AnalysisReview:
		return true
	}
	return false
}
