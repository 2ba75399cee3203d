// Package colormath is the color model used by the expression evaluator.
//
// A Color remembers the textual form it was parsed from so that the result
// of a manipulation can be written back in the same notation: a hex input
// yields hex, an hsl() input yields hsl(), and so on. Colors are immutable;
// every manipulation returns a new value.
package colormath

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// ErrInvalidColor is returned by Parse for text that is not a color.
var ErrInvalidColor = errors.New("invalid color")

// Format is the notation a color was written in.
type Format int

const (
	FormatHex Format = iota
	FormatHex8
	FormatName
	FormatRGB
	FormatHSL
	FormatHSV
)

func (f Format) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatHex8:
		return "hex8"
	case FormatName:
		return "name"
	case FormatRGB:
		return "rgb"
	case FormatHSL:
		return "hsl"
	case FormatHSV:
		return "hsv"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Color is an sRGB color with alpha.
//
// Channels are kept unrounded on a 0..255 scale; rounding happens only when
// the color is serialized.
type Color struct {
	r, g, b float64
	a       float64
	format  Format
}

// Parse reads a color literal: hex (3, 4, 6 or 8 digits), rgb()/rgba(),
// hsl()/hsla(), hsv()/hsva(), hwb() or a CSS color name.
func Parse(literal string) (Color, error) {
	s := strings.TrimSpace(literal)
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty literal", ErrInvalidColor)
	}
	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, literal)
	}
	return Color{
		r:      clamp(parsed.R, 0, 1) * 255,
		g:      clamp(parsed.G, 0, 1) * 255,
		b:      clamp(parsed.B, 0, 1) * 255,
		a:      clamp(parsed.A, 0, 1),
		format: detectFormat(s),
	}, nil
}

// IsValid reports whether literal parses as a color.
func IsValid(literal string) bool {
	_, err := Parse(literal)
	return err == nil
}

// FromRGBA builds a color from 0..1 channel values. The result serializes
// as hex.
func FromRGBA(r, g, b, a float64) Color {
	return Color{
		r:      clamp(r, 0, 1) * 255,
		g:      clamp(g, 0, 1) * 255,
		b:      clamp(b, 0, 1) * 255,
		a:      clamp(a, 0, 1),
		format: FormatHex,
	}
}

func detectFormat(s string) Format {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "#"):
		if n := len(lower) - 1; n == 4 || n == 8 {
			return FormatHex8
		}
		return FormatHex
	case strings.HasPrefix(lower, "rgb"):
		return FormatRGB
	case strings.HasPrefix(lower, "hsl"):
		return FormatHSL
	case strings.HasPrefix(lower, "hsv"):
		return FormatHSV
	}
	return FormatName
}

// Format returns the notation the color serializes to.
func (c Color) Format() Format { return c.format }

// WithFormat returns a copy of c that serializes in f.
func (c Color) WithFormat(f Format) Color {
	c.format = f
	return c
}

// Alpha returns the alpha channel in 0..1.
func (c Color) Alpha() float64 { return c.a }

// RGBA returns the channels in 0..1.
func (c Color) RGBA() (r, g, b, a float64) {
	return c.r / 255, c.g / 255, c.b / 255, c.a
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.r / 255, G: c.g / 255, B: c.b / 255}
}

// HSL returns hue in degrees and saturation and lightness in 0..1.
func (c Color) HSL() (h, s, l float64) {
	return c.colorful().Hsl()
}

// HSV returns hue in degrees and saturation and value in 0..1.
func (c Color) HSV() (h, s, v float64) {
	return c.colorful().Hsv()
}

// bytes returns the channels rounded to integers.
func (c Color) bytes() (r, g, b float64) {
	return round(clamp(c.r, 0, 255)), round(clamp(c.g, 0, 255)), round(clamp(c.b, 0, 255))
}

// withHSL rebuilds the color from HSL components, keeping alpha and format.
// Saturation and lightness are truncated to hundredths of a percent.
func (c Color) withHSL(h, s, l float64) Color {
	rgb := colorful.Hsl(quantizeHue(h), quantizePercent(s), quantizePercent(l))
	return Color{r: rgb.R * 255, g: rgb.G * 255, b: rgb.B * 255, a: c.a, format: c.format}
}

func quantizePercent(v float64) float64 {
	p := clamp(v*100, 0, 100)
	p = math.Trunc(p*100) / 100
	if math.Abs(p-100) < 1e-6 {
		return 1
	}
	return math.Mod(p, 100) / 100
}

func quantizeHue(h float64) float64 {
	h = clamp(h, 0, 360)
	if math.Abs(h-360) < 1e-6 {
		return 0
	}
	return math.Mod(h, 360)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// round rounds half up, so 127.5 becomes 128 and -0.5 becomes 0.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}
