// Package transform rewrites color( ... ) expressions in stylesheets and in
// the CSS embedded in HTML and JavaScript documents.
//
// Each expression is evaluated on its own. A failing expression is replaced
// by its base literal and reported as a Diagnostic; it never stops the rest
// of the document from being rewritten.
package transform

import (
	"fmt"
	"errors"
	"maps"
	"strings"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/parser"
	"bennypowers.dev/coloradjust/internal/variables"
)

// Diagnostic reports an expression that could not be evaluated.
type Diagnostic struct {
	// Start and End are byte offsets of the whole color( ... ) call.
	Start uint
	End   uint
	// Expression is the call as written.
	Expression string
	Err        error
}

// Message returns the user-facing text for the diagnostic.
func (d Diagnostic) Message() string {
	return expression.Message(d.Err)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d-%d %s: %s", d.Start, d.End, d.Expression, d.Message())
}

// Expression is an evaluated color( ... ) call.
type Expression struct {
	Start uint
	End   uint
	// Text is the call as written.
	Text string
	// Inner is the evaluated text after nested calls and variable
	// references were substituted.
	Inner   string
	Outcome expression.Outcome
}

// Replacement is the text written in place of the call. An expression with
// no base keeps the call as written.
func (e Expression) Replacement() string {
	if e.Outcome.Base == "" {
		return e.Text
	}
	return e.Outcome.Value
}

// maxNesting bounds how deeply color( ... ) calls may nest, counting calls
// reached through variable values.
const maxNesting = 16

var errTooDeep = operation.NewInvalidError("color", "", "expressions nest too deeply")

// Result is a rewritten document.
type Result struct {
	Content string
	// Expressions holds the outermost calls in document order.
	Expressions []Expression
	// Diagnostics holds failures, nested calls included, in the order they
	// were evaluated.
	Diagnostics []Diagnostic
}

// Changed reports whether any call was found.
func (r *Result) Changed() bool {
	return len(r.Expressions) > 0
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithSources adds variable sources consulted after the document's own
// custom properties and $variables.
func WithSources(sources ...variables.Source) Option {
	return func(t *Transformer) {
		t.sources = append(t.sources, sources...)
	}
}

// Transformer finds and evaluates color( ... ) calls in documents.
type Transformer struct {
	eval    *expression.Evaluator
	sources []variables.Source
}

// New returns a Transformer. A nil evaluator uses the default registry.
func New(eval *expression.Evaluator, opts ...Option) *Transformer {
	if eval == nil {
		eval = expression.New(nil)
	}
	t := &Transformer{eval: eval}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform evaluates every color( ... ) call in content and returns the
// rewritten text. languageID selects how CSS is located in the document;
// unsupported languages come back unchanged.
func (t *Transformer) Transform(content, languageID string) (*Result, error) {
	result := &Result{Content: content}
	if !parser.IsCSSSupportedLanguage(languageID) {
		return result, nil
	}

	parsed, err := parser.ParseCSSFromDocument(content, languageID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", languageID, err)
	}

	regions := parser.CSSRegions(content, languageID)
	simple := variables.Map{}
	for _, region := range regions {
		maps.Copy(simple, variables.ScanSimple(region.Content))
	}
	src := append(variables.Chain{variables.FromCustomProperties(parsed), simple}, t.sources...)

	var b strings.Builder
	last := uint(0)
	for _, region := range regions {
		for _, call := range FindCalls(region.Content) {
			start := region.Offset + uint(call.Start)
			if start < last || parsed.InComment(start) {
				continue
			}
			expr := t.evaluate(region.Content, call, region.Offset, src, &result.Diagnostics, 0)
			result.Expressions = append(result.Expressions, expr)

			b.WriteString(content[last:expr.Start])
			b.WriteString(expr.Replacement())
			last = expr.End
		}
	}
	if last == 0 {
		return result, nil
	}
	b.WriteString(content[last:])
	result.Content = b.String()
	return result, nil
}

// Evaluate evaluates a single expression, with or without the color( )
// wrapper. Nested calls and variable references are resolved against the
// transformer's extra sources.
func (t *Transformer) Evaluate(expr string) Expression {
	text := strings.TrimSpace(expr)
	var call Call
	if calls := FindCalls(text); len(calls) == 1 && calls[0].Start == 0 && calls[0].End == len(text) {
		call = calls[0]
	} else {
		text = callName + text + ")"
		call = Call{Start: 0, End: len(text), InnerStart: len(callName), InnerEnd: len(text) - 1}
	}
	var diags []Diagnostic
	return t.evaluate(text, call, 0, variables.Chain(t.sources), &diags, 0)
}

// evaluate resolves nested calls innermost first, then substitutes
// variables and folds the operation chain. base is the offset of text in
// the document and depth the number of enclosing calls.
func (t *Transformer) evaluate(text string, call Call, base uint, src variables.Source, diags *[]Diagnostic, depth int) Expression {
	expr := Expression{
		Start: base + uint(call.Start),
		End:   base + uint(call.End),
		Text:  call.Text(text),
	}
	inner, err := t.resolveNested(call.Inner(text), base+uint(call.InnerStart), src, diags, depth)
	if err == nil {
		inner = variables.Expand(inner, src)
		// Variable values may hold calls of their own. They have no position
		// in this document, so their failures are not reported here.
		var discard []Diagnostic
		inner, err = t.resolveNested(inner, 0, src, &discard, depth)
	}

	if err != nil {
		expr.Inner = call.Inner(text)
		expr.Outcome = expression.Outcome{Err: err}
	} else {
		expr.Inner = inner
		expr.Outcome = t.eval.Evaluate(inner)
	}
	if !expr.Outcome.OK() {
		*diags = append(*diags, Diagnostic{
			Start:      expr.Start,
			End:        expr.End,
			Expression: expr.Text,
			Err:        expr.Outcome.Err,
		})
	}
	return expr
}

// resolveNested replaces the calls in s with their values. It fails with
// errTooDeep once the calls nest past maxNesting, which also stops
// variables that refer to themselves through a call.
func (t *Transformer) resolveNested(s string, base uint, src variables.Source, diags *[]Diagnostic, depth int) (string, error) {
	nested := FindCalls(s)
	if len(nested) == 0 {
		return s, nil
	}
	if depth >= maxNesting {
		return s, errTooDeep
	}
	var b strings.Builder
	last := 0
	for _, n := range nested {
		e := t.evaluate(s, n, base, src, diags, depth+1)
		if errors.Is(e.Outcome.Err, errTooDeep) {
			return s, errTooDeep
		}
		b.WriteString(s[last:n.Start])
		b.WriteString(e.Replacement())
		last = n.End
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// Find returns the outermost expression whose call contains offset.
func (r *Result) Find(offset uint) (Expression, bool) {
	for _, e := range r.Expressions {
		if offset >= e.Start && offset < e.End {
			return e, true
		}
	}
	return Expression{}, false
}
