package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/lsp/helpers"
)

func rng(sl, sc, el, ec uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestRangesIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b protocol.Range
		want bool
	}{
		{"overlap on one line", rng(0, 0, 0, 5), rng(0, 3, 0, 7), true},
		{"adjacent", rng(0, 0, 0, 5), rng(0, 5, 0, 10), false},
		{"multi-line contains", rng(0, 0, 1, 0), rng(0, 5, 0, 10), true},
		{"disjoint lines", rng(0, 0, 0, 5), rng(2, 0, 2, 5), false},
		{"cursor inside", rng(0, 3, 0, 3), rng(0, 0, 0, 5), true},
		{"cursor at start", rng(0, 0, 0, 0), rng(0, 0, 0, 5), true},
		{"cursor at end", rng(0, 5, 0, 5), rng(0, 0, 0, 5), false},
		{"cursor as second range", rng(1, 0, 3, 0), rng(2, 4, 2, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, helpers.RangesIntersect(tt.a, tt.b))
			assert.Equal(t, tt.want, helpers.RangesIntersect(tt.b, tt.a), "symmetric")
		})
	}
}
