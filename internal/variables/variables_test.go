package variables_test

import (
	"testing"

	"bennypowers.dev/coloradjust/internal/parser/css"
	"bennypowers.dev/coloradjust/internal/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens map[string]string

func (f fakeTokens) Lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func TestExpand(t *testing.T) {
	src := variables.Chain{
		variables.Map{
			"--purple": "#bada55",
			"--alias":  "var(--purple)",
			"--loop":   "var(--loop)",
		},
		variables.Map{"$red": "#f00"},
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"custom property", "var(--purple) darken(20)", "#bada55 darken(20)"},
		{"spaced name", "var( --purple ) darken(20)", "#bada55 darken(20)"},
		{"simple variable", "$red darken(20)", "#f00 darken(20)"},
		{"operand", "#fff mix(var(--purple),40)", "#fff mix(#bada55,40)"},
		{"chained reference", "var(--alias) lighten(5)", "#bada55 lighten(5)"},
		{"fallback", "var(--missing, #00f) darken(5)", "#00f darken(5)"},
		{"nested fallback", "var(--missing, var(--purple))", "#bada55"},
		{"fallback with commas", "var(--missing, rgb(1, 2, 3))", "rgb(1, 2, 3)"},
		{"unresolved stays", "var(--missing) darken(5)", "var(--missing) darken(5)"},
		{"unresolved simple stays", "$blue darken(5)", "$blue darken(5)"},
		{"identifier boundary", "somevar(--purple)", "somevar(--purple)"},
		{"unbalanced", "var(--purple darken(5)", "var(--purple darken(5)"},
		{"no references", "#f00 darken(20)", "#f00 darken(20)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variables.Expand(tt.in, src))
		})
	}

	t.Run("self reference terminates", func(t *testing.T) {
		assert.Equal(t, "var(--loop)", variables.Expand("var(--loop)", src))
	})

	t.Run("nil source", func(t *testing.T) {
		assert.Equal(t, "var(--purple)", variables.Expand("var(--purple)", nil))
	})
}

func TestChainOrder(t *testing.T) {
	chain := variables.Chain{
		nil,
		variables.Map{"--a": "first"},
		variables.Map{"--a": "second", "--b": "only"},
	}

	v, ok := chain.Lookup("--a")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = chain.Lookup("--b")
	require.True(t, ok)
	assert.Equal(t, "only", v)

	_, ok = chain.Lookup("--c")
	assert.False(t, ok)
}

func TestFromCustomPropertiesLastWins(t *testing.T) {
	result := &css.ParseResult{Variables: []*css.Variable{
		{Name: "--brand", Value: "#f00"},
		{Name: "--ink", Value: "#333"},
		{Name: "--brand", Value: "#00f"},
	}}

	m := variables.FromCustomProperties(result)
	assert.Equal(t, variables.Map{"--brand": "#00f", "--ink": "#333"}, m)
	assert.Empty(t, variables.FromCustomProperties(nil))
}

func TestScanSimple(t *testing.T) {
	text := "$red: #f00;\n$brand-dark :  #0a0a0a ;\n.test { color: $red; }\n$red: #e00;"

	m := variables.ScanSimple(text)
	assert.Equal(t, variables.Map{"$red": "#e00", "$brand-dark": "#0a0a0a"}, m)
}

func TestTokens(t *testing.T) {
	src := variables.Tokens(fakeTokens{"--ds-brand": "#bada55", "$x": "nope"})

	v, ok := src.Lookup("--ds-brand")
	require.True(t, ok)
	assert.Equal(t, "#bada55", v)

	_, ok = src.Lookup("$x")
	assert.False(t, ok, "only custom property names reach the token store")

	_, ok = variables.Tokens(nil).Lookup("--ds-brand")
	assert.False(t, ok)
}
