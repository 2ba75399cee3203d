package documents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/documents"
)

const uri = "file:///site.css"

func change(startLine, startChar, endLine, endChar uint32, text string) protocol.TextDocumentContentChangeEvent {
	return protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: startLine, Character: startChar},
			End:   protocol.Position{Line: endLine, Character: endChar},
		},
		Text: text,
	}
}

func TestManagerOpenClose(t *testing.T) {
	m := documents.NewManager()
	assert.Nil(t, m.Get(uri))

	require.NoError(t, m.DidOpen(uri, "css", 1, "a{}"))
	doc := m.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, "a{}", doc.Content())

	require.NoError(t, m.DidClose(uri))
	assert.Nil(t, m.Get(uri))
	assert.Error(t, m.DidClose(uri), "closing twice")
}

func TestManagerGetAllSorted(t *testing.T) {
	m := documents.NewManager()
	require.NoError(t, m.DidOpen("file:///b.css", "css", 1, ""))
	require.NoError(t, m.DidOpen("file:///a.css", "css", 1, ""))

	docs := m.GetAll()
	require.Len(t, docs, 2)
	assert.Equal(t, "file:///a.css", docs[0].URI())
	assert.Equal(t, "file:///b.css", docs[1].URI())
}

func TestManagerDidChange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full replacement",
			content: "a{}",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "b{}"}},
			want:    "b{}",
		},
		{
			name:    "insert inside a line",
			content: "a { color: color(#f00); }",
			changes: []protocol.TextDocumentContentChangeEvent{change(0, 21, 0, 21, " darken(20)")},
			want:    "a { color: color(#f00 darken(20)); }",
		},
		{
			name:    "replace across lines",
			content: "a {\n  color: red;\n}",
			changes: []protocol.TextDocumentContentChangeEvent{change(0, 2, 2, 0, "{ ")},
			want:    "a { }",
		},
		{
			name:    "after a surrogate pair",
			content: "/* 😀 */ a{}",
			changes: []protocol.TextDocumentContentChangeEvent{change(0, 9, 0, 10, "b")},
			want:    "/* 😀 */ b{}",
		},
		{
			name:    "append past the last line",
			content: "a{}\n",
			changes: []protocol.TextDocumentContentChangeEvent{change(2, 0, 2, 0, "b{}")},
			want:    "a{}\nb{}",
		},
		{
			name:    "changes apply in order",
			content: "abc",
			changes: []protocol.TextDocumentContentChangeEvent{
				change(0, 0, 0, 1, "x"),
				change(0, 1, 0, 3, "yz"),
			},
			want: "xyz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := documents.NewManager()
			require.NoError(t, m.DidOpen(uri, "css", 1, tt.content))
			require.NoError(t, m.DidChange(uri, 2, tt.changes))

			doc := m.Get(uri)
			assert.Equal(t, tt.want, doc.Content())
			assert.Equal(t, 2, doc.Version())
		})
	}
}

func TestManagerDidChangeKeepsSnapshots(t *testing.T) {
	m := documents.NewManager()
	require.NoError(t, m.DidOpen(uri, "css", 1, "a{}"))
	before := m.Get(uri)

	require.NoError(t, m.DidChange(uri, 2, []protocol.TextDocumentContentChangeEvent{{Text: "b{}"}}))

	assert.Equal(t, "a{}", before.Content())
	assert.Equal(t, 1, before.Version())
	assert.Equal(t, "b{}", m.Get(uri).Content())
}

func TestManagerDidChangeErrors(t *testing.T) {
	m := documents.NewManager()
	assert.Error(t, m.DidChange(uri, 1, nil), "unknown document")

	require.NoError(t, m.DidOpen(uri, "css", 5, "a{}"))
	assert.Error(t, m.DidChange(uri, 4, []protocol.TextDocumentContentChangeEvent{{Text: "b{}"}}), "stale version")
	assert.Error(t, m.DidChange(uri, 6, []protocol.TextDocumentContentChangeEvent{change(9, 0, 9, 1, "x")}), "line out of bounds")
	assert.Error(t, m.DidChange(uri, 6, []protocol.TextDocumentContentChangeEvent{change(0, 2, 0, 1, "x")}), "inverted range")
	assert.Equal(t, "a{}", m.Get(uri).Content(), "failed changes leave the document alone")
}
