// Package documents tracks the text documents an editor has open.
package documents

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an immutable snapshot of an open document. Edits produce a
// new Document, so a snapshot can be analyzed while the editor keeps typing.
type Document struct {
	uri        string
	languageID string
	content    string
	version    int
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

func (d *Document) URI() string        { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }
func (d *Document) Version() int       { return d.version }
func (d *Document) Content() string    { return d.content }

// PositionAt converts a byte offset to an LSP position. Offsets past the
// end clamp to the end of the document.
func (d *Document) PositionAt(offset uint) protocol.Position {
	return PositionAt(d.content, offset)
}

// OffsetAt converts an LSP position to a byte offset.
func (d *Document) OffsetAt(pos protocol.Position) uint {
	return uint(OffsetAt(d.content, pos))
}

// RangeOf returns the LSP range of the bytes [start, end).
func (d *Document) RangeOf(start, end uint) protocol.Range {
	return protocol.Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}

// PositionAt converts a byte offset in content to a line and a UTF-16
// character.
func PositionAt(content string, offset uint) protocol.Position {
	off := min(int(offset), len(content))
	before := content[:off]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return protocol.Position{
		Line:      uint32(strings.Count(before, "\n")),
		Character: uint32(utf16Len(content[lineStart:off])),
	}
}

// OffsetAt converts an LSP position to a byte offset in content. A line
// past the end yields len(content); a character past the end of its line
// clamps to the line end.
func OffsetAt(content string, pos protocol.Position) int {
	offset, _ := offsetAt(content, pos)
	return offset
}

func offsetAt(content string, pos protocol.Position) (int, bool) {
	lineStart := 0
	for range pos.Line {
		i := strings.IndexByte(content[lineStart:], '\n')
		if i < 0 {
			return len(content), false
		}
		lineStart += i + 1
	}
	line := content[lineStart:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return lineStart + utf16ToByte(line, int(pos.Character)), true
}
