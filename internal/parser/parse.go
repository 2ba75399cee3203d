// Package parser dispatches documents to the tree-sitter parser for their
// language and exposes the CSS text they contain.
package parser

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/coloradjust/internal/parser/css"
	"bennypowers.dev/coloradjust/internal/parser/html"
	"bennypowers.dev/coloradjust/internal/parser/js"
)

// cssLanguages maps language IDs to the parser category they use.
// "css" → direct CSS, "html" → HTML parser, "js" → JS parser.
var cssLanguages = map[string]string{
	"css":             "css",
	"postcss":         "css",
	"scss":            "css",
	"html":            "html",
	"javascript":      "js",
	"javascriptreact": "js",
	"typescript":      "js",
	"typescriptreact": "js",
}

var extensionLanguages = map[string]string{
	".css":     "css",
	".pcss":    "postcss",
	".postcss": "postcss",
	".scss":    "scss",
	".html":    "html",
	".htm":     "html",
	".js":      "javascript",
	".mjs":     "javascript",
	".cjs":     "javascript",
	".jsx":     "javascriptreact",
	".ts":      "typescript",
	".mts":     "typescript",
	".cts":     "typescript",
	".tsx":     "typescriptreact",
}

// IsCSSSupportedLanguage returns true if the language supports CSS extraction
func IsCSSSupportedLanguage(languageID string) bool {
	_, ok := cssLanguages[languageID]
	return ok
}

// LanguageForPath returns the language ID for a file name, or "" when the
// extension is not supported.
func LanguageForPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// ClosePools closes the pooled tree-sitter parsers of every language.
func ClosePools() {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
}

// RegionKind tells whether a region holds a stylesheet or a bare
// declaration list.
type RegionKind int

const (
	Stylesheet RegionKind = iota
	Declarations
)

// Region is a stretch of CSS text inside a document.
type Region struct {
	Content string
	// Offset is the byte offset of Content in the document.
	Offset uint
	Kind   RegionKind
}

// ParseCSSFromDocument extracts custom properties and comments from any
// supported document type. Offsets are byte offsets into content.
func ParseCSSFromDocument(content, languageID string) (*css.ParseResult, error) {
	switch cssLanguages[languageID] {
	case "css":
		p := css.AcquireParser()
		defer css.ReleaseParser(p)
		return p.Parse(content)

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		return p.ParseCSS(content)

	case "js":
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		return p.ParseCSS(content)

	default:
		return css.NewParseResult(), nil
	}
}

// CSSRegions returns the CSS text regions of a document in document order.
// For CSS files this is the entire content. For HTML and JS files these are
// style tags, style attributes and css/html tagged template segments.
func CSSRegions(content, languageID string) []Region {
	switch cssLanguages[languageID] {
	case "css":
		return []Region{{Content: content, Offset: 0, Kind: Stylesheet}}

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		return htmlRegions(p, content, 0)

	case "js":
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		var regions []Region
		var hp *html.Parser
		for _, tmpl := range p.Templates(content) {
			for _, part := range tmpl.Parts {
				switch tmpl.Tag {
				case "css":
					regions = append(regions, Region{Content: part.Text, Offset: part.Offset, Kind: Stylesheet})
				case "html":
					if hp == nil {
						hp = html.AcquireParser()
						defer html.ReleaseParser(hp)
					}
					regions = append(regions, htmlRegions(hp, part.Text, part.Offset)...)
				}
			}
		}
		// A template nested in another template's ${} lies between the
		// outer template's parts.
		slices.SortFunc(regions, func(a, b Region) int {
			return cmp.Compare(a.Offset, b.Offset)
		})
		return regions

	default:
		return nil
	}
}

func htmlRegions(p *html.Parser, content string, base uint) []Region {
	blocks := p.Blocks(content)
	regions := make([]Region, 0, len(blocks))
	for _, b := range blocks {
		kind := Stylesheet
		if b.Attribute {
			kind = Declarations
		}
		regions = append(regions, Region{Content: b.Text, Offset: base + b.Offset, Kind: kind})
	}
	return regions
}
