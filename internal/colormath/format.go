package colormath

import (
	"fmt"
	"strconv"
	"strings"
)

// String serializes the color in the notation it was parsed from.
//
// Opaque colors carry no alpha channel, so #rrggbbaa with alpha 1 is
// written as #rrggbb. Hex and named colors that are not fully opaque are
// written as rgba(), a fully transparent named color as "transparent". A
// named color with no exact name falls back to hex.
func (c Color) String() string {
	switch c.format {
	case FormatHex, FormatHex8, FormatName:
		if c.a < 1 {
			if c.format == FormatName && c.a == 0 {
				return "transparent"
			}
			return c.RGBString()
		}
	}

	switch c.format {
	case FormatRGB:
		return c.RGBString()
	case FormatHSL:
		return c.HSLString()
	case FormatHSV:
		return c.HSVString()
	case FormatName:
		if name, ok := c.Name(); ok {
			return name
		}
	}
	return c.HexString()
}

// HexString returns #rrggbb, ignoring alpha.
func (c Color) HexString() string {
	r, g, b := c.bytes()
	return fmt.Sprintf("#%02x%02x%02x", int(r), int(g), int(b))
}

// Hex8String returns #rrggbbaa.
func (c Color) Hex8String() string {
	return c.HexString() + fmt.Sprintf("%02x", int(round(c.a*255)))
}

// CompactHex returns the shortest hex spelling: #rgb, #rgba, #rrggbb or
// #rrggbbaa. The alpha digits are present only when alpha is below 1.
func (c Color) CompactHex() string {
	r, g, b := c.bytes()
	digits := []int{int(r), int(g), int(b)}
	if c.a < 1 {
		digits = append(digits, int(round(c.a*255)))
	}

	short := true
	for _, d := range digits {
		if d>>4 != d&0xf {
			short = false
			break
		}
	}

	var sb strings.Builder
	sb.WriteByte('#')
	for _, d := range digits {
		if short {
			fmt.Fprintf(&sb, "%x", d&0xf)
		} else {
			fmt.Fprintf(&sb, "%02x", d)
		}
	}
	return sb.String()
}

// RGBString returns rgb(r, g, b), or rgba(r, g, b, a) when alpha is below 1.
func (c Color) RGBString() string {
	r, g, b := c.bytes()
	if c.a == 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", int(r), int(g), int(b))
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", int(r), int(g), int(b), formatAlpha(c.a))
}

// HSLString returns hsl(h, s%, l%), or hsla(...) when alpha is below 1.
func (c Color) HSLString() string {
	h, s, l := c.HSL()
	return cylindrical("hsl", h, s, l, c.a)
}

// HSVString returns hsv(h, s%, v%), or hsva(...) when alpha is below 1.
func (c Color) HSVString() string {
	h, s, v := c.HSV()
	return cylindrical("hsv", h, s, v, c.a)
}

func cylindrical(fn string, h, x, y, a float64) string {
	hi, xi, yi := int(round(h)), int(round(x*100)), int(round(y*100))
	if a == 1 {
		return fmt.Sprintf("%s(%d, %d%%, %d%%)", fn, hi, xi, yi)
	}
	return fmt.Sprintf("%sa(%d, %d%%, %d%%, %s)", fn, hi, xi, yi, formatAlpha(a))
}

// Name returns the CSS color name that exactly matches c.
func (c Color) Name() (string, bool) {
	if c.a == 0 {
		return "transparent", true
	}
	if c.a < 1 {
		return "", false
	}
	name, ok := hexToName[strings.TrimPrefix(c.HexString(), "#")]
	return name, ok
}

func formatAlpha(a float64) string {
	return FormatNumber(round(a*100) / 100)
}

// FormatNumber writes v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
