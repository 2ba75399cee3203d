package expression_test

import (
	"bytes"
	"io"
	"testing"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(io.Discard) })
	return &buf
}

func TestEvaluate(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"darken", "#f00 darken(20)", "#990000"},
		{"shade alias", "#f00 shade(20)", "#990000"},
		{"d alias darkens", "#f00 d(20)", "#990000"},
		{"rgb base keeps rgb form", "rgb(255, 0, 0) darken(20)", "rgb(153, 0, 0)"},
		{"lighten", "#f00 lighten(20)", "#ff6666"},
		{"tint", "#f00 tint(20)", "#ff6666"},
		{"l", "#f00 l(20)", "#ff6666"},
		{"brighten", "#f00 brighten(20)", "#ff3333"},
		{"b", "#f00 b(20)", "#ff3333"},
		{"desaturate", "#f00 desaturate(20)", "#e61919"},
		{"saturate", "#f00 saturate(20)", "#ff0000"},
		{"s", "#f00 s(20)", "#ff0000"},
		{"greyscale", "#f00 greyscale()", "#808080"},
		{"shift", "#f00 shift(120)", "#00ff00"},
		{"rotate", "#f00 rotate(120)", "#00ff00"},
		{"mix", "#f00 mix(#00f,40)", "rgb(153, 0, 102)"},
		{"mix with spaces", "#f00 mix(#00f, 40)", "rgb(153, 0, 102)"},
		{"m", "#f00 m(#00f,40)", "rgb(153, 0, 102)"},
		{"average", "#f00 average(#0f0)", "rgb(128, 128, 0)"},
		{"complement", "#f00 complement()", "#00ffff"},
		{"complement of rgb", "rgb(255, 0, 0) complement()", "#00ffff"},
		{"complement of hsv", "hsv(0, 100%, 100%) complement()", "#00ffff"},
		{"complement of hsla", "hsla(0, 100%, 50%, 1) complement()", "#00ffff"},
		{"transparentize", "#f00 transparentize(.2)", "rgba(255, 0, 0, 0.2)"},
		{"alpha", "#f00 alpha(.8)", "rgba(255, 0, 0, 0.8)"},
		{"a", "#f00 a(.8)", "rgba(255, 0, 0, 0.8)"},
		{"opacity", "#f00 opacity(0.4)", "rgba(255, 0, 0, 0.4)"},
		{"opaque alpha drops the alpha digits", "#f008 alpha(1)", "#ff0000"},
		{"contrast", "#f00 contrast(#fff)", "3.9984767707539985"},
		{"luminance", "#f00 luminance()", "0.2126"},
		{"readable", "#ff0 readable()", "var(--colorDark)"},
		{"normalize", "rgb(255, 0, 0) normalize()", "#f00"},
		{"small lighten", "#f00 lighten(4)", "#ff1414"},
		{"small darken 4", "#f00 darken(4)", "#eb0000"},
		{"small darken 8", "#f00 darken(8)", "#d60000"},
		{"small darken 12", "#f00 darken(12)", "#c20000"},
		{"small darken 16", "#f00 darken(16)", "#ad0000"},
		{"chain", "#bada55 saturate(20) darken(20)", "#91b910"},
		{"long chain", "#f0f darken(30) lighten(10) desaturate(10) lighten(3) shift(60)", "#9f0909"},
		{"unknown operation passes through", "#f00 frobnicate(3)", "#f00"},
		{"unknown then known", "#f00 frobnicate(3) darken(20)", "#990000"},
		{"no operations", "#f00", "#f00"},
		{"invalid base without operations", "notacolor", "notacolor"},
		{"surrounding whitespace", "  #f00   darken(20)  ", "#990000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ev.Evaluate(tt.in)
			require.NoError(t, out.Err)
			assert.True(t, out.OK())
			assert.Equal(t, tt.want, out.Value)
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	buf := quietLog(t)
	ev := expression.New(nil)

	tests := []struct {
		name    string
		in      string
		base    string
		kind    error
		message string
	}{
		{"invalid base", "notacolor darken(20)", "notacolor", operation.ErrInvalid, expression.MessageInvalid},
		{"unresolved variable", "var(--missing) darken(20)", "var(--missing)", operation.ErrInvalid, expression.MessageInvalid},
		{"invalid base with unknown op", "notacolor frobnicate()", "notacolor", operation.ErrInvalid, expression.MessageInvalid},
		{"invalid operand", "#f00 mix(nope,40)", "#f00", operation.ErrInvalid, expression.MessageInvalid},
		{"non-numeric amount", "#f00 darken(lots)", "#f00", operation.ErrInvalid, expression.MessageInvalid},
		{"unbalanced call", "#f00 darken(20", "#f00", operation.ErrInvalid, expression.MessageInvalid},
		{"text after call", "#f00 darken(20)x", "#f00", operation.ErrInvalid, expression.MessageInvalid},
		{"out of range keeps base", "#f00 darken(20) lighten(120)", "#f00", operation.ErrOutOfRange, expression.MessageOutOfRange},
		{"alpha out of range", "#f00 alpha(2)", "#f00", operation.ErrOutOfRange, expression.MessageOutOfRange},
		{"number is not a color", "#f00 luminance() darken(10)", "#f00", operation.ErrInvalid, expression.MessageInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			out := ev.Evaluate(tt.in)
			require.Error(t, out.Err)
			assert.False(t, out.OK())
			assert.ErrorIs(t, out.Err, tt.kind)
			assert.Equal(t, tt.base, out.Base)
			assert.Equal(t, tt.base, out.Value)
			assert.Equal(t, tt.message, expression.Message(out.Err))
			assert.Contains(t, buf.String(), tt.message)
		})
	}

	t.Run("empty expression", func(t *testing.T) {
		out := ev.Evaluate("   ")
		assert.ErrorIs(t, out.Err, operation.ErrInvalid)
		assert.Empty(t, out.Base)
		assert.Empty(t, out.Value)
	})

	t.Run("failure stops the fold", func(t *testing.T) {
		out := ev.Evaluate("#f00 darken(20) alpha(2) lighten(20)")
		require.Error(t, out.Err)
		require.Len(t, out.Steps, 1)
		assert.Equal(t, "#990000", out.Steps[0].Output)
	})
}

func TestEvaluateSteps(t *testing.T) {
	quietLog(t)
	out := expression.New(nil).Evaluate("#bada55 s(20) darken(20)")
	require.NoError(t, out.Err)
	require.Len(t, out.Steps, 2)

	assert.Equal(t, "s", out.Steps[0].Call.Name)
	assert.Equal(t, operation.Saturate, out.Steps[0].Call.Kind)
	assert.Equal(t, []string{"20"}, out.Steps[0].Call.Args)
	assert.Equal(t, "#bada55", out.Steps[0].Input)
	assert.Equal(t, out.Steps[0].Output, out.Steps[1].Input)
	assert.Equal(t, "#91b910", out.Steps[1].Output)
}

func TestChainMatchesSequentialEvaluation(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)

	first := ev.Evaluate("#bada55 saturate(20)")
	require.NoError(t, first.Err)
	second := ev.Evaluate(first.Value + " darken(20)")
	require.NoError(t, second.Err)

	chained := ev.Evaluate("#bada55 saturate(20) darken(20)")
	assert.Equal(t, second.Value, chained.Value)
}

func TestEvaluateWithCustomRegistry(t *testing.T) {
	quietLog(t)
	reg := operation.MustNewRegistry(operation.DefaultAliases,
		operation.WithReadableTokens("var(--on-dark)", "var(--on-light)"),
		operation.WithRandom(func() float64 { return 1.0 / 255 }),
	)
	ev := expression.New(reg)
	assert.Same(t, reg, ev.Registry())

	assert.Equal(t, "var(--on-light)", ev.Evaluate("#ff0 readable()").Value)
	assert.Equal(t, "#010101", ev.Evaluate("#f00 randomColor()").Value)
}
