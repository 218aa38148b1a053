// Document-set operations for the workspace context. The invariants live here:
// exactly one document per distinct ID, IDs never change after creation, and the
// active pointer always references a member of the open set (or nothing).
package context

import (
	"github.com/google/uuid"

	"echoide/pkg/echotypes"
)

// NewEphemeralID generates the stable identity for a never-saved document.
func (w *WorkspaceContext) NewEphemeralID() string {
	return echotypes.UntitledPrefix + "-" + uuid.NewString()
}

// OpenDocuments returns copies of the open documents in tab (insertion) order.
func (w *WorkspaceContext) OpenDocuments() []echotypes.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]echotypes.Document, len(w.documents))
	for i, doc := range w.documents {
		docs[i] = *doc
	}
	return docs
}

// DocumentCount returns the number of open documents.
func (w *WorkspaceContext) DocumentCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.documents)
}

// GetDocument returns a copy of the document with the given ID.
func (w *WorkspaceContext) GetDocument(id string) (echotypes.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if doc := w.findLocked(id); doc != nil {
		return *doc, true
	}
	return echotypes.Document{}, false
}

// FindDocumentByPath returns the ID of the open document backed by path.
func (w *WorkspaceContext) FindDocumentByPath(path string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, doc := range w.documents {
		if doc.Path != "" && doc.Path == path {
			return doc.ID, true
		}
	}
	return "", false
}

// AppendDocument adds a document to the open set and makes it active. The caller
// guarantees ID uniqueness (the document service checks by path first).
func (w *WorkspaceContext) AppendDocument(doc echotypes.Document) {
	w.mu.Lock()
	stored := doc
	w.documents = append(w.documents, &stored)
	w.activeID = doc.ID
	w.mu.Unlock()

	w.notify(
		echotypes.Event{Kind: echotypes.EventDocumentOpened, DocumentID: doc.ID},
		echotypes.Event{Kind: echotypes.EventDocumentActivated, DocumentID: doc.ID},
	)
}

// CloseDocument removes a document from the open set. Closing the active document
// reassigns the active pointer to the most recently inserted remaining document,
// or clears it. Returns false for unknown IDs.
func (w *WorkspaceContext) CloseDocument(id string) bool {
	w.mu.Lock()

	index := -1
	for i, doc := range w.documents {
		if doc.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		w.mu.Unlock()
		return false
	}

	w.documents = append(w.documents[:index], w.documents[index+1:]...)

	events := []echotypes.Event{{Kind: echotypes.EventDocumentClosed, DocumentID: id}}
	if w.activeID == id {
		w.activeID = ""
		if len(w.documents) > 0 {
			w.activeID = w.documents[len(w.documents)-1].ID
		}
		events = append(events, echotypes.Event{Kind: echotypes.EventDocumentActivated, DocumentID: w.activeID})
	}
	w.mu.Unlock()

	w.notify(events...)
	return true
}

// SetActiveDocument switches focus. Unknown IDs are a silent no-op.
func (w *WorkspaceContext) SetActiveDocument(id string) bool {
	w.mu.Lock()
	if w.findLocked(id) == nil {
		w.mu.Unlock()
		return false
	}
	w.activeID = id
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventDocumentActivated, DocumentID: id})
	return true
}

// ActiveDocumentID returns the focused document's ID, or "" when the set is empty.
func (w *WorkspaceContext) ActiveDocumentID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID
}

// ActiveDocument returns a copy of the focused document.
func (w *WorkspaceContext) ActiveDocument() (echotypes.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.activeID == "" {
		return echotypes.Document{}, false
	}
	if doc := w.findLocked(w.activeID); doc != nil {
		return *doc, true
	}
	return echotypes.Document{}, false
}

// SetDocumentContent replaces a document's content. Dirty becomes true unless the
// content equals the last persisted value.
func (w *WorkspaceContext) SetDocumentContent(id, content string) bool {
	w.mu.Lock()
	doc := w.findLocked(id)
	if doc == nil {
		w.mu.Unlock()
		return false
	}
	doc.Content = content
	doc.Dirty = content != doc.LastSaved
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventDocumentChanged, DocumentID: id})
	return true
}

// MarkDocumentSaved records the current content as persisted and clears dirty.
func (w *WorkspaceContext) MarkDocumentSaved(id string) bool {
	w.mu.Lock()
	doc := w.findLocked(id)
	if doc == nil {
		w.mu.Unlock()
		return false
	}
	doc.LastSaved = doc.Content
	doc.Dirty = false
	w.mu.Unlock()

	w.notify(echotypes.Event{Kind: echotypes.EventDocumentSaved, DocumentID: id})
	return true
}

// RenameDocument updates a document's display name and language. When
// replaceContent is set the content is swapped as well (the untouched-template
// convenience); dirty is recomputed against the last persisted value.
func (w *WorkspaceContext) RenameDocument(id, newName, newLanguage, newContent string, replaceContent bool) bool {
	w.mu.Lock()
	doc := w.findLocked(id)
	if doc == nil {
		w.mu.Unlock()
		return false
	}
	doc.Name = newName
	doc.Language = newLanguage
	if replaceContent {
		doc.Content = newContent
		doc.Dirty = doc.Content != doc.LastSaved
	}
	w.mu.Unlock()

	events := []echotypes.Event{{Kind: echotypes.EventDocumentRenamed, DocumentID: id}}
	if replaceContent {
		events = append(events, echotypes.Event{Kind: echotypes.EventDocumentChanged, DocumentID: id})
	}
	w.notify(events...)
	return true
}

// findLocked returns the stored document for id. Callers hold w.mu.
func (w *WorkspaceContext) findLocked(id string) *echotypes.Document {
	for _, doc := range w.documents {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}
