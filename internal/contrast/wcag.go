package contrast

import (
	"github.com/colorforge/colorforge/internal/color"
)

// WCAG implements the WCAG 2.1 contrast-ratio engine.
type WCAG struct{}

// ID implements Engine.
func (WCAG) ID() string { return EngineWCAG }

// Evaluate computes the (L1+0.05)/(L2+0.05) ratio and holds it to the
// class/level/size-dependent minimum.
func (WCAG) Evaluate(fg, bg string, ctx Context) Evaluation {
	if ctx.Class == ClassDecorative {
		return exempt(fg, bg)
	}

	ratio := Ratio(fg, bg)

	return Evaluation{
		Pass:      ratio >= wcagRequired(ctx),
		Metric:    "wcag2-ratio",
		Value:     ratio,
		Threshold: wcagRequired(ctx),
		Polarity:  polarity(fg, bg),
	}
}

// PreferredDirection implements DirectionHinter: light backgrounds want
// darker foregrounds and vice versa.
func (WCAG) PreferredDirection(bg string) Direction {
	if color.HexLuminance(bg) > 0.5 {
		return DirectionDarker
	}
	return DirectionLighter
}

// Ratio is the WCAG 2.x contrast ratio between two hex colors, in [1, 21].
func Ratio(a, b string) float64 {
	la := color.HexLuminance(a)
	lb := color.HexLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Text at or above 24px counts as large.
const largeTextPx = 24

func wcagRequired(ctx Context) float64 {
	if ctx.Class == ClassUIComponent {
		if ctx.Level == LevelAAA {
			return 4.5
		}
		return 3
	}

	large := ctx.FontSizePx >= largeTextPx
	if ctx.Level == LevelAAA {
		if large {
			return 4.5
		}
		return 7
	}
	if large {
		return 3
	}
	return 4.5
}
