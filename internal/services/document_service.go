package services

import (
	"context"
	"path/filepath"
	"strings"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/pkg/echotypes"
	"echoide/pkg/lang"
)

// DocumentService owns the session-manager operations over the workspace's open
// document set: open, close, switch, edit, save, and rename. It is the only
// mutator of document state; invariants are enforced by the workspace context
// underneath it.
type DocumentService struct {
	initialized bool
	ctx         *workspacecontext.WorkspaceContext
	files       echotypes.FileStore
}

// NewDocumentService creates a DocumentService backed by the given file
// collaborator.
func NewDocumentService(files echotypes.FileStore) *DocumentService {
	return &DocumentService{files: files}
}

// Name returns the service name "documents" for registration.
func (d *DocumentService) Name() string {
	return "documents"
}

// Initialize binds the service to the workspace context.
func (d *DocumentService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	d.ctx = ctx
	d.initialized = true
	return nil
}

// Open opens the document at path, fetching content through the file
// collaborator. Opening an already-open path returns the existing ID and makes
// it active; no duplicate is created.
func (d *DocumentService) Open(ctx context.Context, path string) (string, error) {
	if id, ok := d.ctx.FindDocumentByPath(path); ok {
		d.ctx.SetActiveDocument(id)
		logger.Debug("Document already open", "document", id)
		return id, nil
	}

	content, err := d.files.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}

	name := filepath.Base(path)
	doc := echotypes.Document{
		ID:        path,
		Path:      path,
		Name:      name,
		Content:   content,
		Language:  lang.Classify(name),
		LastSaved: content,
	}
	d.ctx.AppendDocument(doc)

	logger.Debug("Document opened", "document", doc.ID, "language", doc.Language)
	return doc.ID, nil
}

// NewUntitled creates a never-saved document seeded with the language's starter
// template and makes it active. An empty language defaults to JavaScript, the
// workspace's new-file default.
func (d *DocumentService) NewUntitled(language string) string {
	if language == "" {
		language = lang.JavaScript
	}

	doc := echotypes.Document{
		ID:       d.ctx.NewEphemeralID(),
		Name:     echotypes.UntitledPrefix + lang.ExtensionFor(language),
		Content:  lang.Template(language),
		Language: language,
	}
	// A fresh template counts as the baseline: the document only turns dirty
	// once the user edits it.
	doc.LastSaved = doc.Content
	d.ctx.AppendDocument(doc)

	logger.Debug("Untitled document created", "document", doc.ID, "language", language)
	return doc.ID
}

// Close removes a document from the open set. Dirty documents require the
// caller-supplied confirmation; without it the document stays open. Unknown IDs
// return false.
func (d *DocumentService) Close(id string, confirm func(echotypes.Document) bool) bool {
	doc, ok := d.ctx.GetDocument(id)
	if !ok {
		return false
	}
	if doc.Dirty {
		if confirm == nil || !confirm(doc) {
			logger.Debug("Close declined for dirty document", "document", id)
			return false
		}
	}
	return d.ctx.CloseDocument(id)
}

// SetActive switches focus to the given document. Unknown IDs are a silent
// no-op.
func (d *DocumentService) SetActive(id string) {
	d.ctx.SetActiveDocument(id)
}

// UpdateContent replaces a document's content, tracking dirty state against the
// last persisted value. Unknown IDs return false.
func (d *DocumentService) UpdateContent(id, content string) bool {
	return d.ctx.SetDocumentContent(id, content)
}

// MarkSaved clears the dirty flag, recording the current content as persisted.
func (d *DocumentService) MarkSaved(id string) bool {
	return d.ctx.MarkDocumentSaved(id)
}

// Save writes a document through the file collaborator and marks it saved. A
// failed write surfaces to the caller and leaves the dirty flag set.
func (d *DocumentService) Save(ctx context.Context, id string) error {
	doc, ok := d.ctx.GetDocument(id)
	if !ok {
		return echotypes.NewFailure(echotypes.FailureNotFound, "save", "document is not open")
	}
	if doc.Path == "" {
		return echotypes.NewFailure(echotypes.FailureInvalidArgument, "save", "document has no backing path")
	}

	if err := d.files.WriteFile(ctx, doc.Path, doc.Content); err != nil {
		logger.Error("Save failed", "document", id, "error", err)
		return err
	}

	d.ctx.MarkDocumentSaved(id)
	logger.Debug("Document saved", "document", id)
	return nil
}

// SaveActive saves the focused document.
func (d *DocumentService) SaveActive(ctx context.Context) error {
	doc, ok := d.ctx.ActiveDocument()
	if !ok {
		return echotypes.NewFailure(echotypes.FailureNotFound, "save", "no document is open")
	}
	return d.Save(ctx, doc.ID)
}

// Rename changes a never-saved document's display name, re-deriving its
// language. When the content is still exactly the old language's starter
// template it is swapped for the new language's template; user-authored content
// is never overwritten.
func (d *DocumentService) Rename(id, newName string) error {
	doc, ok := d.ctx.GetDocument(id)
	if !ok {
		return echotypes.NewFailure(echotypes.FailureNotFound, "rename", "document is not open")
	}
	if doc.Path != "" || !strings.HasPrefix(doc.Name, echotypes.UntitledPrefix) {
		return echotypes.NewFailure(echotypes.FailureInvalidArgument, "rename", "only untitled documents can be renamed")
	}

	newLanguage := lang.Classify(newName)
	replace := doc.Content == lang.Template(doc.Language)
	newContent := ""
	if replace {
		newContent = lang.Template(newLanguage)
	}

	d.ctx.RenameDocument(id, newName, newLanguage, newContent, replace)
	logger.Debug("Document renamed", "document", id, "name", newName, "language", newLanguage)
	return nil
}

// SwitchLanguage changes an untitled document's language by renaming it to the
// language's preferred extension, reusing the rename rules above.
func (d *DocumentService) SwitchLanguage(id, newLanguage string) error {
	doc, ok := d.ctx.GetDocument(id)
	if !ok {
		return echotypes.NewFailure(echotypes.FailureNotFound, "rename", "document is not open")
	}

	base := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	return d.Rename(id, base+lang.ExtensionFor(newLanguage))
}
