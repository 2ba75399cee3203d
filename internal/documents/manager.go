package documents

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds the open documents by URI.
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get returns the current snapshot of a document, or nil.
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns every open document, sorted by URI.
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b *Document) int { return cmp.Compare(a.uri, b.uri) })
	return docs
}

// DidOpen handles the textDocument/didOpen notification
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose handles the textDocument/didClose notification
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// DidChange applies content changes in order and stores the result as a
// new snapshot. Updates older than the current version are rejected.
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	if version < doc.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", doc.version, version)
	}

	content := doc.content
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := applyIncrementalChange(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
		content = next
	}

	m.documents[uri] = NewDocument(uri, doc.languageID, version, content)
	return nil
}

// applyIncrementalChange replaces the text in r. A range may end one line
// past the last line to append at the end of the document.
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	start, ok := offsetAt(content, r.Start)
	if !ok && !atEnd(content, r.Start) {
		return "", fmt.Errorf("start line %d out of bounds", r.Start.Line)
	}
	end, ok := offsetAt(content, r.End)
	if !ok && !atEnd(content, r.End) {
		return "", fmt.Errorf("end line %d out of bounds", r.End.Line)
	}
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}

// atEnd reports whether pos is the position just after the last line.
func atEnd(content string, pos protocol.Position) bool {
	return int(pos.Line) == strings.Count(content, "\n")+1 && pos.Character == 0
}
