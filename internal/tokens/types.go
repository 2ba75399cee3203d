// Package tokens loads DTCG design token files so their CSS custom
// property names can be used as variables inside color expressions.
package tokens

import (
	"fmt"

	"bennypowers.dev/asimonim/token"
)

// Token is a design token parsed from a DTCG file.
type Token = token.Token

// FileOptions holds per-file configuration for token loading
type FileOptions struct {
	// Prefix is the CSS variable prefix for tokens in this file
	Prefix string

	// GroupMarkers indicate terminal paths that are also groups
	// e.g., a token named "color" that is also the parent of "color.primary"
	GroupMarkers []string
}

// ValueOf returns the token's value with aliases resolved, as CSS text.
func ValueOf(tok *Token) string {
	if tok == nil {
		return ""
	}
	if tok.IsResolved {
		switch v := tok.ResolvedValue.(type) {
		case string:
			return v
		case nil:
		default:
			return fmt.Sprint(v)
		}
	}
	return tok.Value
}
