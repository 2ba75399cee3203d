// Package operation maps operation names to color manipulations.
//
// A Registry resolves an alias such as "shade" or "d" to its Kind and
// applies the kind's rule to the current color literal. Rules never return
// partial results: they either produce the next literal or fail with an
// error wrapping ErrInvalid or ErrOutOfRange.
package operation

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"bennypowers.dev/coloradjust/internal/colormath"
)

// Default symbolic tokens returned by the readable operation.
const (
	DefaultLightToken = "var(--colorLight)"
	DefaultDarkToken  = "var(--colorDark)"
)

// Alias binds one spelling to a kind.
type Alias struct {
	Name string
	Kind Kind
}

// DefaultAliases is the built-in alias table. "d" belongs to Darken.
var DefaultAliases = []Alias{
	{"darken", Darken}, {"shade", Darken}, {"d", Darken},
	{"lighten", Lighten}, {"tint", Lighten}, {"l", Lighten},
	{"brighten", Brighten}, {"b", Brighten},
	{"desaturate", Desaturate},
	{"saturate", Saturate}, {"s", Saturate},
	{"grayscale", Grayscale}, {"greyscale", Grayscale}, {"g", Grayscale},
	{"rotate", Rotate}, {"shift", Rotate}, {"h", Rotate},
	{"blend", Mix}, {"mix", Mix}, {"m", Mix},
	{"average", Average},
	{"complement", Complement},
	{"randomColor", RandomColor},
	{"transparentize", Alpha}, {"alpha", Alpha}, {"opacity", Alpha}, {"a", Alpha},
	{"contrast", Contrast},
	{"readable", Readable},
	{"luminance", Luminance},
	{"normalize", Normalize},
}

// Registry resolves aliases and applies operations. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	aliases map[string]Kind
	rules   map[Kind]rule
	light   string
	dark    string
	random  func() float64
}

// Option configures a Registry.
type Option func(*Registry)

// WithRandom sets the source used by randomColor. fn must return values in
// [0, 1).
func WithRandom(fn func() float64) Option {
	return func(r *Registry) {
		if fn != nil {
			r.random = fn
		}
	}
}

// WithReadableTokens sets the tokens readable returns for a light or a
// dark foreground. Empty values keep the defaults.
func WithReadableTokens(light, dark string) Option {
	return func(r *Registry) {
		if light != "" {
			r.light = light
		}
		if dark != "" {
			r.dark = dark
		}
	}
}

// NewRegistry builds a registry from an alias table. Each alias must be
// unique, non-empty and bound to a declared kind other than Unknown.
func NewRegistry(aliases []Alias, opts ...Option) (*Registry, error) {
	r := &Registry{
		aliases: make(map[string]Kind, len(aliases)),
		rules:   rules,
		light:   DefaultLightToken,
		dark:    DefaultDarkToken,
		random:  rand.Float64,
	}

	for _, a := range aliases {
		if a.Name == "" {
			return nil, fmt.Errorf("empty alias for %s", a.Kind)
		}
		if _, ok := r.rules[a.Kind]; !ok || a.Kind == Unknown {
			return nil, fmt.Errorf("alias %q bound to undeclared kind %s", a.Name, a.Kind)
		}
		if existing, ok := r.aliases[a.Name]; ok {
			return nil, &DuplicateAliasError{Alias: a.Name, First: existing, Second: a.Kind}
		}
		r.aliases[a.Name] = a.Kind
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(aliases []Alias, opts ...Option) *Registry {
	r, err := NewRegistry(aliases, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = MustNewRegistry(DefaultAliases)

// Default returns the registry built from DefaultAliases.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the kind for an alias. Matching is exact and
// case-sensitive; unrecognized names yield Unknown.
func (r *Registry) Lookup(name string) Kind {
	if k, ok := r.aliases[name]; ok {
		return k
	}
	return Unknown
}

// Aliases returns the spellings bound to kind, sorted.
func (r *Registry) Aliases(kind Kind) []string {
	var names []string
	for name, k := range r.aliases {
		if k == kind {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Apply runs the rule for kind against the current literal. op is the name
// as written and only appears in errors.
func (r *Registry) Apply(kind Kind, op, current string, args []string) (string, error) {
	color, err := colormath.Parse(current)
	if err != nil {
		return "", NewInvalidError(op, current, "current value is not a color")
	}
	apply, ok := r.rules[kind]
	if !ok {
		return "", NewInvalidError(op, "", fmt.Sprintf("no rule for %s", kind))
	}
	return apply(r, call{op: op, current: current, color: color, args: trimArgs(args)})
}

func trimArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, strings.TrimSpace(a))
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}
