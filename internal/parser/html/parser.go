// Package html finds the CSS embedded in HTML: the text of <style>
// elements and the values of style attributes.
package html

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/parser/css"
)

// Block is CSS text inside an HTML document.
type Block struct {
	Text string
	// Offset is the byte offset of Text in the HTML source.
	Offset uint
	// Attribute is set for style="..." values, which hold a declaration
	// list rather than a stylesheet.
	Attribute bool
}

var lang = sitter.NewLanguage(tree_sitter_html.Language())

const (
	styleElementQuery = `(style_element (raw_text) @css)`
	styleAttrQuery    = `(attribute
		(attribute_name) @name
		(quoted_attribute_value (attribute_value) @css)
		(#eq? @name "style"))`
)

// Parser wraps a tree-sitter HTML parser and its compiled queries.
type Parser struct {
	ts       *sitter.Parser
	elements *sitter.Query
	attrs    *sitter.Query
}

func mustQuery(src string) *sitter.Query {
	q, err := sitter.NewQuery(lang, src)
	if err != nil {
		panic(fmt.Sprintf("html: bad query %q: %v", src, err))
	}
	return q
}

var pool = sync.Pool{
	New: func() any {
		ts := sitter.NewParser()
		if err := ts.SetLanguage(lang); err != nil {
			panic(fmt.Sprintf("html: %v", err))
		}
		return &Parser{
			ts:       ts,
			elements: mustQuery(styleElementQuery),
			attrs:    mustQuery(styleAttrQuery),
		}
	},
}

// AcquireParser takes a parser from the pool.
func AcquireParser() *Parser {
	p := pool.Get().(*Parser)
	p.ts.Reset()
	return p
}

// ReleaseParser puts p back in the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		pool.Put(p)
	}
}

// Close frees the tree-sitter resources of p.
func (p *Parser) Close() {
	for _, q := range []*sitter.Query{p.elements, p.attrs} {
		if q != nil {
			q.Close()
		}
	}
	if p.ts != nil {
		p.ts.Close()
	}
}

// ClosePool drains the pool and closes what it held.
func ClosePool() {
	for range 100 {
		if p, ok := pool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Blocks returns the CSS blocks of source in document order.
func (p *Parser) Blocks(source string) []Block {
	src := []byte(source)
	tree := p.ts.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	blocks := collect(p.elements, root, src, false, nil)
	blocks = collect(p.attrs, root, src, true, blocks)
	slices.SortFunc(blocks, func(a, b Block) int { return cmp.Compare(a.Offset, b.Offset) })
	return blocks
}

// collect appends the text of every @css capture of q.
func collect(q *sitter.Query, root *sitter.Node, src []byte, attribute bool, blocks []Block) []Block {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := q.CaptureNames()
	matches := cursor.Matches(q, root, src)
	for m := matches.Next(); m != nil; m = matches.Next() {
		for _, c := range m.Captures {
			if names[c.Index] != "css" {
				continue
			}
			start, end := c.Node.StartByte(), c.Node.EndByte()
			blocks = append(blocks, Block{
				Text:      string(src[start:end]),
				Offset:    start,
				Attribute: attribute,
			})
		}
	}
	return blocks
}

// ParseCSS parses every block and merges the results. Offsets in the
// result are byte offsets into the HTML source.
func (p *Parser) ParseCSS(source string) (*css.ParseResult, error) {
	result := css.NewParseResult()
	blocks := p.Blocks(source)
	if len(blocks) == 0 {
		return result, nil
	}

	cp := css.AcquireParser()
	defer css.ReleaseParser(cp)

	for _, b := range blocks {
		parse := cp.Parse
		if b.Attribute {
			parse = cp.ParseDeclarations
		}
		parsed, err := parse(b.Text)
		if err != nil {
			log.Debug("Skipping unparsable CSS at byte %d: %v", b.Offset, err)
			continue
		}
		result.Merge(parsed, b.Offset)
	}
	return result, nil
}
