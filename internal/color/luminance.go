package color

import "math"

// Luminance is the WCAG relative luminance of an sRGB color: the weighted
// sum of the gamma-expanded channels, 0 for black and 1 for white.
// https://www.w3.org/TR/WCAG20/#relativeluminancedef
func Luminance(c RGB) float64 {
	return 0.2126*wcagLinearize(c.R) + 0.7152*wcagLinearize(c.G) + 0.0722*wcagLinearize(c.B)
}

// HexLuminance parses hex and returns its relative luminance; unparseable
// input degrades to 0 (black).
func HexLuminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return Luminance(c)
}

// WCAG 2.x uses the 0.03928 knee from the original sRGB draft.
func wcagLinearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
