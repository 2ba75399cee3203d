package transform

import (
	"slices"
	"strings"
)

const callName = "color("

// colorSpaces are the first arguments of the CSS Color 4 color() function.
// Calls that start with one of them are native CSS and are left alone.
var colorSpaces = []string{
	"srgb",
	"srgb-linear",
	"display-p3",
	"a98-rgb",
	"prophoto-rgb",
	"rec2020",
	"xyz",
	"xyz-d50",
	"xyz-d65",
	"from",
}

// Call is one color( ... ) expression found in a text. Offsets are byte
// offsets into that text.
type Call struct {
	// Start is the offset of the "c" of color(.
	Start int
	// End is the offset just past the closing parenthesis.
	End int
	// InnerStart and InnerEnd delimit the text between the parentheses.
	InnerStart int
	InnerEnd   int
}

// Text returns the whole call in s.
func (c Call) Text(s string) string { return s[c.Start:c.End] }

// Inner returns the text between the parentheses in s.
func (c Call) Inner(s string) string { return s[c.InnerStart:c.InnerEnd] }

// FindCalls returns the outermost color( ... ) calls in s, in order. Calls
// nested inside another call are part of the outer call's inner text.
// Unbalanced calls and CSS Color 4 color space calls are skipped.
func FindCalls(s string) []Call {
	var calls []Call
	from := 0
	for from < len(s) {
		i := strings.Index(s[from:], callName)
		if i < 0 {
			break
		}
		start := from + i
		open := start + len(callName)
		if start > 0 && isIdent(s[start-1]) {
			from = open
			continue
		}
		closing := matchParen(s, open)
		if closing < 0 || isColorSpace(s[open:closing]) {
			from = open
			continue
		}
		calls = append(calls, Call{Start: start, End: closing + 1, InnerStart: open, InnerEnd: closing})
		from = closing + 1
	}
	return calls
}

func isColorSpace(inner string) bool {
	fields := strings.Fields(inner)
	return len(fields) > 0 && slices.Contains(colorSpaces, strings.ToLower(fields[0]))
}

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
