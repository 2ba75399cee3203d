// Package variables resolves var(--name) and $name references inside color
// expressions.
package variables

import (
	"regexp"
	"strings"

	"bennypowers.dev/coloradjust/internal/parser/css"
)

// maxDepth bounds how many times a substituted value is itself expanded.
const maxDepth = 16

// Source looks up a variable by its full name, "--brand" or "$brand".
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is a Source backed by a plain map.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Chain consults each source in order and returns the first hit.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// TokenLookup is satisfied by *tokens.Manager.
type TokenLookup interface {
	Lookup(cssVar string) (string, bool)
}

type tokenSource struct{ tokens TokenLookup }

// Tokens adapts a design token store to a Source. Only custom property
// names are looked up.
func Tokens(t TokenLookup) Source {
	return tokenSource{tokens: t}
}

func (s tokenSource) Lookup(name string) (string, bool) {
	if s.tokens == nil || !strings.HasPrefix(name, "--") {
		return "", false
	}
	return s.tokens.Lookup(name)
}

// FromCustomProperties collects custom property declarations. When a
// property is declared more than once the last declaration wins.
func FromCustomProperties(result *css.ParseResult) Map {
	m := Map{}
	if result == nil {
		return m
	}
	for _, v := range result.Variables {
		m[v.Name] = v.Value
	}
	return m
}

var simpleDecl = regexp.MustCompile(`\$([A-Za-z_][\w-]*)\s*:\s*([^;{}]+?)\s*;`)

// ScanSimple collects $name: value; declarations from text. The last
// declaration of a name wins.
func ScanSimple(text string) Map {
	m := Map{}
	for _, match := range simpleDecl.FindAllStringSubmatch(text, -1) {
		m["$"+match[1]] = match[2]
	}
	return m
}

var simpleRef = regexp.MustCompile(`\$[A-Za-z_][\w-]*`)

// Expand substitutes var() and $name references in expr. A var() with no
// value uses its fallback. References that cannot be resolved are left as
// written.
func Expand(expr string, src Source) string {
	return expand(expr, src, 0)
}

func expand(expr string, src Source, depth int) string {
	if src == nil || depth > maxDepth {
		return expr
	}
	expr = expandVars(expr, src, depth)
	if !strings.Contains(expr, "$") {
		return expr
	}
	return simpleRef.ReplaceAllStringFunc(expr, func(ref string) string {
		if v, ok := src.Lookup(ref); ok {
			return expand(v, src, depth+1)
		}
		return ref
	})
}

func expandVars(expr string, src Source, depth int) string {
	var b strings.Builder
	rest := expr
	for {
		i := indexCall(rest, "var(")
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		open := i + len("var(")
		closing := matchParen(rest, open)
		if closing < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		b.WriteString(resolveVar(rest[i:closing+1], rest[open:closing], src, depth))
		rest = rest[closing+1:]
	}
}

func resolveVar(whole, args string, src Source, depth int) string {
	name, fallback, hasFallback := strings.Cut(args, ",")
	name = strings.TrimSpace(name)
	if v, ok := src.Lookup(name); ok {
		return expand(v, src, depth+1)
	}
	if hasFallback {
		return expand(strings.TrimSpace(fallback), src, depth+1)
	}
	return whole
}

// indexCall finds name in s where it does not continue an identifier.
func indexCall(s, name string) int {
	from := 0
	for {
		i := strings.Index(s[from:], name)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || !isIdent(s[i-1]) {
			return i
		}
		from = i + len(name)
	}
}

// matchParen returns the index of the ')' closing the group that starts at
// open, or -1.
func matchParen(s string, open int) int {
	depth := 1
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdent(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
