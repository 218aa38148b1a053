// Package echotypes defines the shared domain types for the EchoIDE workspace core.
// This file contains the document model: an open, editable unit of text with a stable
// identity, an optional backing path, and dirty-state tracking.
package echotypes

// Document represents a single open document in the workspace.
// ID is the filesystem path for saved documents and a generated ephemeral token
// (with the "untitled-" prefix) for never-saved ones. It never changes after creation.
type Document struct {
	ID       string `json:"id"`
	Path     string `json:"path,omitempty"` // empty for never-saved documents
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Dirty    bool   `json:"dirty"`

	// LastSaved holds the most recently persisted content. Dirty is true iff
	// Content differs from it.
	LastSaved string `json:"-"`
}

// Saved reports whether the document has a backing path on disk.
func (d *Document) Saved() bool {
	return d.Path != ""
}

// UntitledPrefix is the display-name prefix for never-saved documents. Rename is
// only permitted while the name still carries it.
const UntitledPrefix = "untitled"
