// Package contrast provides the pluggable compliance engines. An Engine
// judges a foreground/background pair against a target level; engines that
// also implement DirectionHinter guide the rule generator's step search.
package contrast

import (
	"fmt"

	"github.com/colorforge/colorforge/internal/color"
)

// TargetClass states what kind of element a token colors; it selects the
// threshold family and exempts decorative content entirely.
type TargetClass string

const (
	ClassText        TargetClass = "text"
	ClassUIComponent TargetClass = "ui-component"
	ClassDecorative  TargetClass = "decorative"
)

// Level is the conformance level compliance is evaluated at.
type Level string

const (
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// Direction is a search hint: which way along a ramp a passing step is more
// likely to be found.
type Direction string

const (
	DirectionLighter Direction = "lighter"
	DirectionDarker  Direction = "darker"
	DirectionEither  Direction = "either"
)

// Polarity records which way round the pair sits.
type Polarity string

const (
	DarkOnLight Polarity = "dark-on-light"
	LightOnDark Polarity = "light-on-dark"
)

// Context carries the evaluation parameters shared by both engines.
type Context struct {
	Class      TargetClass
	Level      Level
	FontSizePx float64
}

// Evaluation is one compliance verdict: the measured value, the threshold it
// was held to, and the pair's polarity.
type Evaluation struct {
	Pass      bool     `json:"pass"`
	Metric    string   `json:"metric"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
	Polarity  Polarity `json:"polarity"`
}

// Engine evaluates a foreground against a background within a context.
type Engine interface {
	ID() string
	Evaluate(fg, bg string, ctx Context) Evaluation
}

// DirectionHinter is an optional engine capability: given a background,
// suggest which direction along a ramp passing steps lie.
type DirectionHinter interface {
	PreferredDirection(bg string) Direction
}

// New returns the engine for a configured id.
func New(id string) (Engine, error) {
	switch id {
	case EngineWCAG, "":
		return WCAG{}, nil
	case EngineAPCA:
		return APCA{}, nil
	default:
		return nil, fmt.Errorf("unknown compliance engine %q", id)
	}
}

// Engine ids accepted in spec configuration.
const (
	EngineWCAG = "wcag2"
	EngineAPCA = "apca"
)

// exempt is the automatic pass shared by both engines for decorative
// targets.
func exempt(fg, bg string) Evaluation {
	return Evaluation{
		Pass:     true,
		Metric:   "wcag-exempt",
		Polarity: polarity(fg, bg),
	}
}

func polarity(fg, bg string) Polarity {
	if color.HexLuminance(fg) <= color.HexLuminance(bg) {
		return DarkOnLight
	}
	return LightOnDark
}
