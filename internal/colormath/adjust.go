package colormath

import "math"

// Darken lowers HSL lightness by amount percentage points.
func (c Color) Darken(amount float64) Color {
	h, s, l := c.HSL()
	return c.withHSL(h, s, clamp(l-amount/100, 0, 1))
}

// Lighten raises HSL lightness by amount percentage points.
func (c Color) Lighten(amount float64) Color {
	h, s, l := c.HSL()
	return c.withHSL(h, s, clamp(l+amount/100, 0, 1))
}

// Saturate raises HSL saturation by amount percentage points.
func (c Color) Saturate(amount float64) Color {
	h, s, l := c.HSL()
	return c.withHSL(h, clamp(s+amount/100, 0, 1), l)
}

// Desaturate lowers HSL saturation by amount percentage points.
func (c Color) Desaturate(amount float64) Color {
	h, s, l := c.HSL()
	return c.withHSL(h, clamp(s-amount/100, 0, 1), l)
}

// Grayscale removes all saturation.
func (c Color) Grayscale() Color {
	return c.Desaturate(100)
}

// Brighten moves each RGB channel towards 255 by amount percent of the
// full range.
func (c Color) Brighten(amount float64) Color {
	r, g, b := c.bytes()
	delta := round(255 * -(amount / 100))
	step := func(v float64) float64 {
		return math.Max(0, math.Min(255, v-delta))
	}
	return Color{r: step(r), g: step(g), b: step(b), a: c.a, format: c.format}
}

// Spin rotates the hue by degrees, wrapping into [0, 360).
func (c Color) Spin(degrees float64) Color {
	h, s, l := c.HSL()
	hue := math.Mod(h+degrees, 360)
	if hue < 0 {
		hue += 360
	}
	return c.withHSL(hue, s, l)
}

// Complement rotates the hue by 180 degrees.
func (c Color) Complement() Color {
	h, s, l := c.HSL()
	return c.withHSL(math.Mod(h+180, 360), s, l)
}

// WithAlpha replaces the alpha channel. Values outside 0..1 are clamped.
func (c Color) WithAlpha(a float64) Color {
	c.a = clamp(a, 0, 1)
	return c
}

// Mix blends c towards other by weight percent (0 keeps c, 100 yields
// other). Channels are rounded before blending and the result serializes
// as rgb().
func (c Color) Mix(other Color, weight float64) Color {
	p := weight / 100
	r1, g1, b1 := c.bytes()
	r2, g2, b2 := other.bytes()
	return Color{
		r:      (r2-r1)*p + r1,
		g:      (g2-g1)*p + g1,
		b:      (b2-b1)*p + b1,
		a:      (other.a-c.a)*p + c.a,
		format: FormatRGB,
	}
}

// Random returns an opaque color with channels drawn from rnd, which must
// return values in [0, 1).
func Random(rnd func() float64) Color {
	return Color{r: rnd() * 255, g: rnd() * 255, b: rnd() * 255, a: 1, format: FormatHex}
}
