package expression_test

import (
	"fmt"
	"strings"
	"testing"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/operation"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func hexLiteral(t *rapid.T) string {
	r := rapid.IntRange(0, 255).Draw(t, "r")
	g := rapid.IntRange(0, 255).Draw(t, "g")
	b := rapid.IntRange(0, 255).Draw(t, "b")
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func colorLiteral(t *rapid.T) string {
	r := rapid.IntRange(0, 255).Draw(t, "r")
	g := rapid.IntRange(0, 255).Draw(t, "g")
	b := rapid.IntRange(0, 255).Draw(t, "b")
	switch rapid.IntRange(0, 2).Draw(t, "form") {
	case 0:
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	case 1:
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	default:
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", r%360, g%101, b%101)
	}
}

// operationToken draws an in-domain operation that yields a color.
func operationToken(t *rapid.T, label string) string {
	amount := rapid.IntRange(0, 100).Draw(t, label+"-amount")
	switch rapid.IntRange(0, 8).Draw(t, label) {
	case 0:
		return fmt.Sprintf("darken(%d)", amount)
	case 1:
		return fmt.Sprintf("lighten(%d)", amount)
	case 2:
		return fmt.Sprintf("brighten(%d)", amount)
	case 3:
		return fmt.Sprintf("saturate(%d)", amount)
	case 4:
		return fmt.Sprintf("desaturate(%d)", amount)
	case 5:
		return fmt.Sprintf("shift(%d)", rapid.IntRange(-720, 720).Draw(t, label+"-degrees"))
	case 6:
		return fmt.Sprintf("mix(#00f, %d)", amount)
	case 7:
		return "greyscale()"
	default:
		return "complement()"
	}
}

func operationChain(t *rapid.T) string {
	n := rapid.IntRange(0, 5).Draw(t, "ops")
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = operationToken(t, fmt.Sprintf("op-%d", i))
	}
	return strings.Join(tokens, " ")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := colorLiteral(rt) + " " + operationChain(rt)
		once := expression.Normalize(in)
		require.Equal(rt, once, expression.Normalize(once))
	})
}

func TestNormalizeOperationIsIdempotent(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)
	rapid.Check(t, func(rt *rapid.T) {
		base := colorLiteral(rt)
		once := ev.Evaluate(base + " normalize()")
		twice := ev.Evaluate(base + " normalize() normalize()")
		require.NoError(rt, once.Err)
		require.Equal(rt, once.Value, twice.Value)
	})
}

func TestEvaluationIsDeterministic(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)
	rapid.Check(t, func(rt *rapid.T) {
		in := colorLiteral(rt) + " " + operationChain(rt)
		first := ev.Evaluate(in)
		require.NoError(rt, first.Err, "input %q", in)
		require.Equal(rt, first, ev.Evaluate(in))
	})
}

func TestInvalidBaseFallsBackUnchanged(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.StringMatching(`not[g-z]{0,6}`).Draw(rt, "base")
		chain := operationChain(rt)
		out := ev.Evaluate(base + " " + chain)
		require.Equal(rt, base, out.Value)
		if chain != "" {
			require.ErrorIs(rt, out.Err, operation.ErrInvalid)
		}
	})
}

func TestDarkenFullyIsBlack(t *testing.T) {
	quietLog(t)
	ev := expression.New(nil)
	rapid.Check(t, func(rt *rapid.T) {
		out := ev.Evaluate(hexLiteral(rt) + " darken(100)")
		require.NoError(rt, out.Err)
		require.Equal(rt, "#000000", out.Value)
	})
}
