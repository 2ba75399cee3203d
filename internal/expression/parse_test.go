package expression_test

import (
	"testing"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rgb(255, 0, 0) darken(20)", "rgb(255,0,0) darken(20)"},
		{"#f00 mix(#00f, 40)", "#f00 mix(#00f,40)"},
		{"#f00 mix( rgb(0, 0, 255) , 40 )", "#f00 mix(rgb(0,0,255),40)"},
		{"hsla(0, 100%, 50%, 1)  complement()", "hsla(0,100%,50%,1)  complement()"},
		{"#f00\tdarken(20)", "#f00\tdarken(20)"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expression.Normalize(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"rgb(255,0,0)", "mix(#00f,40)", "darken(20)"},
		expression.Tokenize(" rgb(255, 0, 0)\n mix(#00f, 40)   darken(20) "),
	)
	assert.Empty(t, expression.Tokenize("  "))
}

func TestSplitCall(t *testing.T) {
	tests := []struct {
		token string
		name  string
		args  []string
	}{
		{"darken(20)", "darken", []string{"20"}},
		{"mix(#00f,40)", "mix", []string{"#00f", "40"}},
		{"mix(rgb(0,0,255),40)", "mix", []string{"rgb(0,0,255)", "40"}},
		{"greyscale()", "greyscale", nil},
		{"greyscale", "greyscale", nil},
		{"contrast(hsl(0,0%,100%))", "contrast", []string{"hsl(0,0%,100%)"}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			name, args, err := expression.SplitCall(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}

	for _, bad := range []string{"darken(20", "darken(20))", "darken(20)px", "darken)"} {
		_, _, err := expression.SplitCall(bad)
		assert.ErrorIs(t, err, operation.ErrInvalid, "token %q", bad)
	}
}

func TestParseCall(t *testing.T) {
	ev := expression.New(nil)

	call, err := ev.ParseCall("shade(20)")
	require.NoError(t, err)
	assert.Equal(t, operation.Darken, call.Kind)
	assert.Equal(t, "shade(20)", call.String())

	call, err = ev.ParseCall("Shade(20)")
	require.NoError(t, err)
	assert.Equal(t, operation.Unknown, call.Kind)
}

func TestStripWrapper(t *testing.T) {
	assert.Equal(t, "#f00 darken(20)", expression.StripWrapper(" color( #f00 darken(20) ) "))
	assert.Equal(t, "#f00 darken(20)", expression.StripWrapper("#f00 darken(20)"))
}
