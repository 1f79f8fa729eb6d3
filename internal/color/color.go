// Package color implements the numeric color primitives the rest of the
// compiler is built on: ingestion of any supported color space into sRGB,
// relative luminance, OKLab/OKLCH conversion, perceptual distance, and
// color-vision-deficiency simulation. Every function is pure and total;
// out-of-gamut results are clamped, never rejected.
package color

import (
	"fmt"
	"math"
	"strings"
)

// RGB is an sRGB color with channels in [0, 1].
type RGB struct {
	R float64
	G float64
	B float64
}

// ParseHex parses #rgb or #rrggbb into an RGB. The second return value is
// false when the string is not a recognizable hex color.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		r, okR := hexNibble(s[0])
		g, okG := hexNibble(s[1])
		b, okB := hexNibble(s[2])
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{
			R: float64(r*16+r) / 255,
			G: float64(g*16+g) / 255,
			B: float64(b*16+b) / 255,
		}, true
	case 6:
		r, okR := hexByte(s[0], s[1])
		g, okG := hexByte(s[2], s[3])
		b, okB := hexByte(s[4], s[5])
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
	default:
		return RGB{}, false
	}
}

// Hex renders the color as a lowercase #rrggbb string, clamping to gamut.
func (c RGB) Hex() string {
	cl := c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", channelByte(cl.R), channelByte(cl.G), channelByte(cl.B))
}

// Clamp forces every channel into [0, 1].
func (c RGB) Clamp() RGB {
	return RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// NormalizeHex parses and reformats a hex color to canonical #rrggbb form.
func NormalizeHex(s string) (string, bool) {
	c, ok := ParseHex(s)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

func hexNibble(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func hexByte(hi, lo byte) (int, bool) {
	h, okH := hexNibble(hi)
	l, okL := hexNibble(lo)
	if !okH || !okL {
		return 0, false
	}
	return h*16 + l, true
}

func channelByte(v float64) int {
	return int(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
