// Package completion suggests operation names and color tokens inside
// color( ) expressions.
package completion

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/colormath"
	"bennypowers.dev/coloradjust/internal/documents"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/lsp/types"
)

// TriggerCharacters open completion after the wrapper, between operations
// and inside var( ).
var TriggerCharacters = []string{"(", " ", "-"}

const wrapper = "color("

// slot is what the cursor can insert.
type slot int

const (
	slotNone slot = iota
	// slotBase is the base color right after the wrapper.
	slotBase
	// slotOperation is between operations.
	slotOperation
	// slotArgument is inside an operation's or var()'s parentheses.
	slotArgument
)

// Completion handles the textDocument/completion request
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	offset := int(doc.OffsetAt(params.Position))
	where, start := locate(doc.Content(), offset)
	if where == slotNone {
		return nil, nil
	}
	prefix := doc.Content()[start:offset]
	replace := doc.RangeOf(uint(start), uint(offset))
	log.Debug("Completion at %s:%d:%d, prefix %q", uri, params.Position.Line, params.Position.Character, prefix)

	var items []protocol.CompletionItem
	switch {
	case where == slotOperation && !strings.HasPrefix(prefix, "-"):
		items = operationItems(req.Server.Registry(), prefix, replace)
	default:
		items = tokenItems(req.Server.TokenManager(), doc, start, prefix, replace)
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// locate finds the innermost unclosed color( before offset and classifies
// the cursor. start is where the word under the cursor begins.
func locate(content string, offset int) (slot, int) {
	start := offset
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}
	before := content[:start]

	for search := len(before); search > 0; {
		idx := strings.LastIndex(before[:search], wrapper)
		if idx < 0 {
			return slotNone, start
		}
		if idx > 0 && isWordByte(before[idx-1]) {
			search = idx
			continue
		}
		inner := before[idx+len(wrapper):]
		depth := 1
		for i := 0; i < len(inner) && depth > 0; i++ {
			switch inner[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		switch {
		case depth == 0:
			search = idx
		case depth > 1:
			return slotArgument, start
		case strings.TrimSpace(inner) == "":
			return slotBase, start
		case inner[len(inner)-1] == ' ' || inner[len(inner)-1] == ')':
			return slotOperation, start
		default:
			return slotNone, start
		}
	}
	return slotNone, start
}

func isWordByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// operationItems lists every alias starting with prefix as a snippet that
// places the cursor between the parentheses.
func operationItems(reg *operation.Registry, prefix string, replace protocol.Range) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindFunction
	format := protocol.InsertTextFormatSnippet
	items := []protocol.CompletionItem{}
	for _, k := range operation.Kinds() {
		if k == operation.Unknown {
			continue
		}
		for _, alias := range reg.Aliases(k) {
			if !strings.HasPrefix(alias, prefix) {
				continue
			}
			detail := k.String()
			if !k.ProducesColor() {
				detail += " (ends the chain)"
			}
			items = append(items, protocol.CompletionItem{
				Label:            alias,
				Kind:             &kind,
				Detail:           &detail,
				InsertTextFormat: &format,
				TextEdit: protocol.TextEdit{
					Range:   replace,
					NewText: alias + "($1)$0",
				},
			})
		}
	}
	return items
}

// tokenItems lists color tokens matching prefix. Outside var( ) the item
// inserts the whole reference.
func tokenItems(tm *tokens.Manager, doc *documents.Document, start int, prefix string, replace protocol.Range) []protocol.CompletionItem {
	insideVar := strings.HasSuffix(doc.Content()[:start], "var(")
	kind := protocol.CompletionItemKindColor
	items := []protocol.CompletionItem{}
	for _, tok := range tm.GetAll() {
		if tok.Type != "" && tok.Type != "color" {
			continue
		}
		value := tokens.ValueOf(tok)
		if !colormath.IsValid(value) {
			continue
		}
		name := tok.CSSVariableName()
		if !strings.HasPrefix(name, prefix) && !strings.HasPrefix("var("+name, prefix) {
			continue
		}
		text := name
		if !insideVar {
			text = fmt.Sprintf("var(%s)", name)
		}
		detail := value
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &detail,
			// Editors show a swatch for color items documented with a
			// color literal.
			Documentation: value,
			FilterText:    &text,
			TextEdit: protocol.TextEdit{
				Range:   replace,
				NewText: text,
			},
		})
	}
	return items
}
