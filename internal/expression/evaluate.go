// Package expression evaluates the inside of a color( ... ) call: a base
// color followed by a chain of operations.
//
//	#bada55 saturate(20) darken(20)   →  #91b910
//	notacolor darken(20)              →  notacolor, with a diagnostic
//
// Each operation is applied to the literal produced by the previous one.
// The first failure stops the chain and the expression resolves to its
// base literal.
package expression

import (
	"errors"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
)

// Diagnostic messages for failed expressions.
const (
	MessageInvalid    = "This is NOT a valid color"
	MessageOutOfRange = "Adjustment is Out of Range"
)

// Step records one applied operation.
type Step struct {
	Call   Call
	Input  string
	Output string
}

// Outcome is the result of evaluating one expression.
type Outcome struct {
	// Base is the starting literal as written.
	Base string
	// Value is the replacement text: the final literal on success, Base on
	// failure.
	Value string
	// Err wraps operation.ErrInvalid or operation.ErrOutOfRange.
	Err   error
	Steps []Step
}

// OK reports whether every operation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Message returns the diagnostic text for err, or "" for nil.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, operation.ErrOutOfRange):
		return MessageOutOfRange
	default:
		return MessageInvalid
	}
}

// Evaluator folds operation chains using a Registry. It holds no state
// between calls.
type Evaluator struct {
	registry *operation.Registry
}

// New returns an Evaluator backed by reg, or by the default registry when
// reg is nil.
func New(reg *operation.Registry) *Evaluator {
	if reg == nil {
		reg = operation.Default()
	}
	return &Evaluator{registry: reg}
}

// Registry returns the registry the evaluator dispatches to.
func (e *Evaluator) Registry() *operation.Registry {
	return e.registry
}

// ParseCall parses an operation token and resolves its kind.
func (e *Evaluator) ParseCall(token string) (Call, error) {
	name, args, err := SplitCall(token)
	if err != nil {
		return Call{Name: name}, err
	}
	return Call{Name: name, Kind: e.registry.Lookup(name), Args: args}, nil
}

// Evaluate evaluates the text inside a color( ... ) wrapper. Failures are
// logged and reported on the Outcome; they never panic.
func (e *Evaluator) Evaluate(inner string) Outcome {
	tokens := Tokenize(inner)
	if len(tokens) == 0 {
		err := operation.NewInvalidError("color", "", "empty expression")
		log.Error("%s: empty expression", MessageInvalid)
		return Outcome{Err: err}
	}

	base := tokens[0]
	out := Outcome{Base: base, Value: base}
	acc := base
	for _, token := range tokens[1:] {
		call, err := e.ParseCall(token)
		if err == nil {
			var next string
			next, err = e.registry.Apply(call.Kind, call.Name, acc, call.Args)
			if err == nil {
				out.Steps = append(out.Steps, Step{Call: call, Input: acc, Output: next})
				acc = next
				continue
			}
		}
		out.Err = err
		log.Error("%s: %s (%v)", Message(err), base, err)
		return out
	}
	out.Value = acc
	return out
}
