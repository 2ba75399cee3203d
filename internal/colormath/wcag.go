package colormath

import "math"

// Luminance returns the WCAG 2 relative luminance of c, from 0 for black
// to 1 for white. Alpha is ignored.
func (c Color) Luminance() float64 {
	r, g, b := c.bytes()
	return 0.2126*linear(r/255) + 0.7152*linear(g/255) + 0.0722*linear(b/255)
}

func linear(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Contrast returns the WCAG 2 contrast ratio between a and b, from 1 to 21.
func Contrast(a, b Color) float64 {
	la, lb := a.Luminance(), b.Luminance()
	return (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05)
}

// MostReadable returns the index of the candidate with the highest
// contrast against base. Ties go to the earlier candidate; an empty list
// yields -1.
func MostReadable(base Color, candidates ...Color) int {
	best, bestRatio := -1, 0.0
	for i, candidate := range candidates {
		if ratio := Contrast(base, candidate); best < 0 || ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	return best
}
