package css

// Span is a half-open byte range [Start, End) in a source text.
type Span struct {
	Start uint
	End   uint
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset uint) bool {
	return offset >= s.Start && offset < s.End
}

// Shift returns the span moved by delta bytes.
func (s Span) Shift(delta uint) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// Variable represents a CSS custom property declaration
type Variable struct {
	Name string
	// Value is the declared text between the colon and the semicolon,
	// trimmed, without !important.
	Value string
	Span  Span
}

// ParseResult contains the results of parsing CSS
type ParseResult struct {
	Variables []*Variable
	Comments  []Span
}

// InComment reports whether offset falls inside any comment.
func (r *ParseResult) InComment(offset uint) bool {
	for _, c := range r.Comments {
		if c.Contains(offset) {
			return true
		}
	}
	return false
}

// Merge appends other's results shifted by delta bytes.
func (r *ParseResult) Merge(other *ParseResult, delta uint) {
	if other == nil {
		return
	}
	for _, v := range other.Variables {
		shifted := *v
		shifted.Span = v.Span.Shift(delta)
		r.Variables = append(r.Variables, &shifted)
	}
	for _, c := range other.Comments {
		r.Comments = append(r.Comments, c.Shift(delta))
	}
}

// NewParseResult returns an empty result.
func NewParseResult() *ParseResult {
	return &ParseResult{Variables: []*Variable{}, Comments: []Span{}}
}
