package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"bennypowers.dev/coloradjust/lsp/types"
)

func TestRequestContextWarnings(t *testing.T) {
	req := types.NewRequestContext(nil, nil)
	assert.False(t, req.HasWarnings())
	assert.Nil(t, req.Warnings())

	req.AddWarning(nil)
	assert.False(t, req.HasWarnings(), "nil warnings are ignored")

	first := errors.New("unparsable swatch")
	second := errors.New("stale document")
	req.AddWarning(first)
	req.AddWarning(second)

	assert.True(t, req.HasWarnings())
	assert.Equal(t, []error{first, second}, req.Warnings())
}
