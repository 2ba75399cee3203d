package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses CSS and extracts custom property declarations and comments.
// Offsets in the result are byte offsets into source.
func (p *Parser) Parse(source string) (*ParseResult, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	result := NewParseResult()
	walkTree(tree.RootNode(), src, result)
	return result, nil
}

// ParseDeclarations parses a declaration list without a surrounding rule,
// as found in a style="" attribute.
func (p *Parser) ParseDeclarations(source string) (*ParseResult, error) {
	const wrapper = "x{"
	parsed, err := p.Parse(wrapper + source + "}")
	if err != nil {
		return nil, err
	}
	shifted := NewParseResult()
	for _, v := range parsed.Variables {
		v.Span = Span{Start: v.Span.Start - uint(len(wrapper)), End: v.Span.End - uint(len(wrapper))}
		shifted.Variables = append(shifted.Variables, v)
	}
	for _, c := range parsed.Comments {
		shifted.Comments = append(shifted.Comments, Span{Start: c.Start - uint(len(wrapper)), End: c.End - uint(len(wrapper))})
	}
	return shifted, nil
}

func walkTree(node *sitter.Node, source []byte, result *ParseResult) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "comment":
		result.Comments = append(result.Comments, Span{Start: node.StartByte(), End: node.EndByte()})
		return
	case "declaration":
		handleDeclaration(node, source, result)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), source, result)
	}
}

// handleDeclaration records a custom property declaration. The value is the
// raw text after the colon so that values tree-sitter cannot classify, such
// as color(...) expressions, are kept whole.
func handleDeclaration(node *sitter.Node, source []byte, result *ParseResult) {
	var propertyNode, colonNode, semicolonNode *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			propertyNode = child
		case ":":
			if colonNode == nil {
				colonNode = child
			}
		case ";":
			semicolonNode = child
		}
	}
	if propertyNode == nil || colonNode == nil {
		return
	}

	name := string(source[propertyNode.StartByte():propertyNode.EndByte()])
	if !strings.HasPrefix(name, "--") {
		return
	}

	end := node.EndByte()
	if semicolonNode != nil {
		end = semicolonNode.StartByte()
	}
	value := strings.TrimSpace(string(source[colonNode.EndByte():end]))
	value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))

	result.Variables = append(result.Variables, &Variable{
		Name:  name,
		Value: value,
		Span:  Span{Start: node.StartByte(), End: node.EndByte()},
	})
}
