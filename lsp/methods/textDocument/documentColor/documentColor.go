// Package documentcolor shows a swatch for each color( ) expression and
// offers literal spellings of a picked color.
package documentcolor

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/colormath"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/lsp/types"
)

// DocumentColor returns the evaluated color of every expression. Failed
// expressions get no swatch, nor do those whose value is not a color,
// such as the tokens readable() emits.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := params.TextDocument.URI
	log.Debug("DocumentColor requested: %s", uri)

	colors := []protocol.ColorInformation{}
	doc := req.Server.Document(uri)
	if doc == nil {
		return colors, nil
	}
	result, err := req.Server.Analyze(uri)
	if err != nil || result == nil {
		return colors, err
	}

	for _, expr := range result.Expressions {
		if !expr.Outcome.OK() {
			continue
		}
		c, err := colormath.Parse(expr.Outcome.Value)
		if err != nil {
			log.Debug("No swatch for %s: %v", expr.Text, err)
			continue
		}
		colors = append(colors, protocol.ColorInformation{
			Range: doc.RangeOf(expr.Start, expr.End),
			Color: toProtocol(c),
		})
	}
	return colors, nil
}

// ColorPresentation offers the picked color as hex, rgb() and hsl(), then
// as var() references to color tokens of the same value.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	picked := fromProtocol(params.Color)
	hex := picked.HexString()
	if picked.Alpha() < 1 {
		hex = picked.Hex8String()
	}

	labels := []string{hex, picked.RGBString(), picked.HSLString()}
	for _, tok := range req.Server.TokenManager().GetAll() {
		if tok.Type != "" && tok.Type != "color" {
			continue
		}
		value, err := colormath.Parse(tokens.ValueOf(tok))
		if err != nil {
			continue
		}
		if value.Hex8String() == picked.Hex8String() {
			labels = append(labels, "var("+tok.CSSVariableName()+")")
		}
	}

	presentations := make([]protocol.ColorPresentation, 0, len(labels))
	for _, label := range labels {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: label,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: label,
			},
		})
	}
	return presentations, nil
}

func toProtocol(c colormath.Color) protocol.Color {
	r, g, b, a := c.RGBA()
	return protocol.Color{
		Red:   protocol.Decimal(r),
		Green: protocol.Decimal(g),
		Blue:  protocol.Decimal(b),
		Alpha: protocol.Decimal(a),
	}
}

func fromProtocol(c protocol.Color) colormath.Color {
	return colormath.FromRGBA(float64(c.Red), float64(c.Green), float64(c.Blue), float64(c.Alpha))
}
