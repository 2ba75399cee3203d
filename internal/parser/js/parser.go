// Package js finds css`...` and html`...` tagged templates in JavaScript
// and TypeScript sources.
package js

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/parser/css"
	"bennypowers.dev/coloradjust/internal/parser/html"
)

// Part is a literal stretch of a template between ${...} substitutions.
type Part struct {
	Text string
	// Offset is the byte offset of Text in the source.
	Offset uint
}

// Template is a css or html tagged template literal.
type Template struct {
	Tag   string
	Parts []Part
}

var lang = sitter.NewLanguage(tree_sitter_javascript.Language())

const (
	taggedQuery = `(call_expression
		function: (identifier) @tag
		arguments: (template_string) @template)`
	// css<Theme>`...` parses as (css < Theme) > `...`.
	genericQuery = `(binary_expression
		left: (binary_expression left: (identifier) @tag)
		right: (template_string) @template)`
)

// Parser wraps a tree-sitter JavaScript parser and its compiled queries.
type Parser struct {
	ts      *sitter.Parser
	queries []*sitter.Query
}

func mustQuery(src string) *sitter.Query {
	q, err := sitter.NewQuery(lang, src)
	if err != nil {
		panic(fmt.Sprintf("js: bad query %q: %v", src, err))
	}
	return q
}

var pool = sync.Pool{
	New: func() any {
		ts := sitter.NewParser()
		if err := ts.SetLanguage(lang); err != nil {
			panic(fmt.Sprintf("js: %v", err))
		}
		return &Parser{
			ts:      ts,
			queries: []*sitter.Query{mustQuery(taggedQuery), mustQuery(genericQuery)},
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
	for _, q := range p.queries {
		q.Close()
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

// Templates returns the css and html tagged templates of source in source
// order. Templates without literal text are left out.
func (p *Parser) Templates(source string) []Template {
	src := []byte(source)
	tree := p.ts.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var templates []Template
	for _, q := range p.queries {
		templates = match(q, root, src, templates)
	}
	slices.SortStableFunc(templates, func(a, b Template) int {
		return cmp.Compare(a.Parts[0].Offset, b.Parts[0].Offset)
	})
	return templates
}

func match(q *sitter.Query, root *sitter.Node, src []byte, templates []Template) []Template {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := q.CaptureNames()
	matches := cursor.Matches(q, root, src)
	for m := matches.Next(); m != nil; m = matches.Next() {
		var tag string
		var literal *sitter.Node
		for _, c := range m.Captures {
			switch names[c.Index] {
			case "tag":
				tag = string(src[c.Node.StartByte():c.Node.EndByte()])
			case "template":
				node := c.Node
				literal = &node
			}
		}
		if literal == nil || (tag != "css" && tag != "html") {
			continue
		}
		if parts := literalParts(literal, src); len(parts) > 0 {
			templates = append(templates, Template{Tag: tag, Parts: parts})
		}
	}
	return templates
}

// literalParts returns the string_fragment children of a template_string.
func literalParts(literal *sitter.Node, src []byte) []Part {
	var parts []Part
	for i := range literal.ChildCount() {
		child := literal.Child(i)
		if child.Kind() != "string_fragment" {
			continue
		}
		parts = append(parts, Part{
			Text:   string(src[child.StartByte():child.EndByte()]),
			Offset: child.StartByte(),
		})
	}
	return parts
}

// ParseCSS parses the text of every template. html templates go through
// the HTML parser first. Offsets in the result are byte offsets into the
// JS/TS source.
func (p *Parser) ParseCSS(source string) (*css.ParseResult, error) {
	result := css.NewParseResult()
	templates := p.Templates(source)
	if len(templates) == 0 {
		return result, nil
	}

	cp := css.AcquireParser()
	defer css.ReleaseParser(cp)
	hp := html.AcquireParser()
	defer html.ReleaseParser(hp)

	for _, tmpl := range templates {
		parse := cp.Parse
		if tmpl.Tag == "html" {
			parse = hp.ParseCSS
		}
		for _, part := range tmpl.Parts {
			parsed, err := parse(part.Text)
			if err != nil {
				log.Debug("Skipping unparsable %s template at byte %d: %v", tmpl.Tag, part.Offset, err)
				continue
			}
			result.Merge(parsed, part.Offset)
		}
	}
	return result, nil
}
