package expression

import (
	"strings"
	"unicode"

	"bennypowers.dev/coloradjust/internal/operation"
)

// Call is one parsed operation token such as mix(#00f,40).
type Call struct {
	// Name is the operation name as written.
	Name string
	Kind operation.Kind
	Args []string
}

func (c Call) String() string {
	return c.Name + "(" + strings.Join(c.Args, ",") + ")"
}

// Normalize removes whitespace inside parenthesised groups so that
// rgb(255, 0, 0) and mix(#00f, 40) survive whitespace tokenizing intact.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0 && unicode.IsSpace(r):
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Tokenize normalizes s and splits it on whitespace. The first token is
// the base color, the rest are operation calls.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// SplitCall splits an operation token into its name and top-level
// arguments. A bare name ("grayscale") and an empty group ("grayscale()")
// both have no arguments. Unbalanced parentheses or trailing text after
// the group are errors classified as operation.ErrInvalid.
func SplitCall(token string) (name string, args []string, err error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		if strings.ContainsRune(token, ')') {
			return token, nil, operation.NewInvalidError(token, "", "unbalanced parentheses")
		}
		return token, nil, nil
	}

	name = token[:open]
	depth := 0
	end := -1
	for i := open; i < len(token); i++ {
		switch token[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return name, nil, operation.NewInvalidError(name, token, "unbalanced parentheses")
	}
	if end != len(token)-1 {
		return name, nil, operation.NewInvalidError(name, token, "unexpected text after arguments")
	}
	return name, splitArgs(token[open+1 : end]), nil
}

// splitArgs splits on commas that are not nested inside parentheses.
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

// StripWrapper returns the text inside a color( ... ) wrapper. Text
// without the wrapper is returned trimmed and unchanged.
func StripWrapper(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "color(") && strings.HasSuffix(s, ")") {
		return strings.TrimSpace(s[len("color(") : len(s)-1])
	}
	return s
}
