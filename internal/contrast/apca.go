package contrast

import (
	"math"

	"github.com/colorforge/colorforge/internal/color"
)

// APCA implements the APCA (Accessible Perceptual Contrast Algorithm)
// lightness-contrast engine. Constants follow the published 0.0.98G-4g
// revision.
type APCA struct{}

// ID implements Engine.
func (APCA) ID() string { return EngineAPCA }

const (
	apcaBlackThreshold = 0.022
	apcaBlackClamp     = 1.414
	apcaDeadZone       = 0.027
	apcaScale          = 1.14

	// Asymmetric exponents: normal polarity is dark text on light,
	// reverse polarity is light text on dark.
	apcaNormalBG  = 0.56
	apcaNormalTXT = 0.57
	apcaReverseBG = 0.65
	apcaReverseTXT = 0.62
)

// Evaluate computes the Lc value for the pair and holds its magnitude to the
// size/level bucket threshold.
func (APCA) Evaluate(fg, bg string, ctx Context) Evaluation {
	if ctx.Class == ClassDecorative {
		return exempt(fg, bg)
	}

	lc := Lc(fg, bg)
	threshold := apcaRequired(ctx)

	return Evaluation{
		Pass:      math.Abs(lc) >= threshold,
		Metric:    "apca-lc",
		Value:     lc,
		Threshold: threshold,
		Polarity:  polarity(fg, bg),
	}
}

// PreferredDirection implements DirectionHinter.
func (APCA) PreferredDirection(bg string) Direction {
	if color.HexLuminance(bg) > 0.5 {
		return DirectionDarker
	}
	return DirectionLighter
}

// Lc returns the APCA lightness contrast of text against its background.
// Positive for dark text on a light background, negative for the reverse;
// magnitudes range to roughly 106.
func Lc(fg, bg string) float64 {
	ytxt := apcaSoftClamp(apcaY(fg))
	ybg := apcaSoftClamp(apcaY(bg))

	if ybg >= ytxt {
		sapc := (math.Pow(ybg, apcaNormalBG) - math.Pow(ytxt, apcaNormalTXT)) * apcaScale
		if sapc < 0.001 {
			return 0
		}
		return (sapc - apcaDeadZone) * 100
	}

	sapc := (math.Pow(ybg, apcaReverseBG) - math.Pow(ytxt, apcaReverseTXT)) * apcaScale
	if sapc > -0.001 {
		return 0
	}
	return (sapc + apcaDeadZone) * 100
}

// apcaY is the APCA estimate of screen luminance: a plain 2.4 gamma with
// sRGB weights, deliberately not the WCAG piecewise curve.
func apcaY(hex string) float64 {
	c, ok := color.ParseHex(hex)
	if !ok {
		return 0
	}
	return 0.2126729*math.Pow(c.R, 2.4) +
		0.7151522*math.Pow(c.G, 2.4) +
		0.0721750*math.Pow(c.B, 2.4)
}

// apcaSoftClamp lifts very dark colors to model flare from real displays.
func apcaSoftClamp(y float64) float64 {
	if y < 0 {
		return 0
	}
	if y < apcaBlackThreshold {
		return y + math.Pow(apcaBlackThreshold-y, apcaBlackClamp)
	}
	return y
}

// Required Lc by font bucket. UI components get a single size-independent
// threshold per level.
func apcaRequired(ctx Context) float64 {
	if ctx.Class == ClassUIComponent {
		if ctx.Level == LevelAAA {
			return 60
		}
		return 45
	}

	switch {
	case ctx.FontSizePx < 14:
		if ctx.Level == LevelAAA {
			return 90
		}
		return 75
	case ctx.FontSizePx < 24:
		if ctx.Level == LevelAAA {
			return 75
		}
		return 60
	default:
		if ctx.Level == LevelAAA {
			return 60
		}
		return 45
	}
}
