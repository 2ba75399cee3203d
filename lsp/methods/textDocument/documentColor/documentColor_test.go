package documentcolor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/tokens"
	documentcolor "bennypowers.dev/coloradjust/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/coloradjust/lsp/testutil"
	"bennypowers.dev/coloradjust/lsp/types"
)

const uri = "file:///test.css"

func TestDocumentColor(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	content := "a { color: color(#f00 darken(20)); }\n" +
		"b { color: color(nope darken(20)); }\n" +
		"c { color: color(#000 readable()); }\n" +
		"d { color: red; }\n"
	require.NoError(t, ctx.DocumentManager().DidOpen(uri, "css", 1, content))

	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, colors, 1, "failed and non-color results get no swatch")

	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 11},
		End:   protocol.Position{Line: 0, Character: 33},
	}, colors[0].Range)
	assert.InDelta(t, 0.6, float64(colors[0].Color.Red), 0.001)
	assert.InDelta(t, 0, float64(colors[0].Color.Green), 0.001)
	assert.InDelta(t, 0, float64(colors[0].Color.Blue), 0.001)
	assert.InDelta(t, 1, float64(colors[0].Color.Alpha), 0.001)
}

func TestDocumentColorUnknownDocument(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})

	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.css"},
	})
	require.NoError(t, err)
	assert.NotNil(t, colors)
	assert.Empty(t, colors)
}

func TestColorPresentation(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	require.NoError(t, ctx.TokenManager().Add(&tokens.Token{Name: "color-brand", Value: "#ff0000", Type: "color"}))
	require.NoError(t, ctx.TokenManager().Add(&tokens.Token{Name: "color-other", Value: "#00ff00", Type: "color"}))
	require.NoError(t, ctx.TokenManager().Add(&tokens.Token{Name: "space-red", Value: "red", Type: "dimension"}))

	r := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 11},
		End:   protocol.Position{Line: 0, Character: 33},
	}
	presentations, err := documentcolor.ColorPresentation(req, &protocol.ColorPresentationParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Color:        protocol.Color{Red: 1, Green: 0, Blue: 0, Alpha: 1},
		Range:        r,
	})
	require.NoError(t, err)

	var labels []string
	for _, p := range presentations {
		labels = append(labels, p.Label)
		require.NotNil(t, p.TextEdit)
		assert.Equal(t, r, p.TextEdit.Range)
		assert.Equal(t, p.Label, p.TextEdit.NewText)
	}
	assert.Equal(t, []string{
		"#ff0000",
		"rgb(255, 0, 0)",
		"hsl(0, 100%, 50%)",
		"var(--color-brand)",
	}, labels)
}

func TestColorPresentationWithAlpha(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})

	presentations, err := documentcolor.ColorPresentation(req, &protocol.ColorPresentationParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Color:        protocol.Color{Red: 0, Green: 0, Blue: 1, Alpha: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, presentations, 3)
	assert.Equal(t, "#0000ff80", presentations[0].Label)
	assert.Equal(t, "rgba(0, 0, 255, 0.5)", presentations[1].Label)
	assert.Equal(t, "hsla(240, 100%, 50%, 0.5)", presentations[2].Label)
}
