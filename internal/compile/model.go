// Package compile turns a validated raw spec into the processed, immutable
// model the rule generator and registry builder consume. Everything built
// here is created once per compilation and never mutated afterward.
package compile

import (
	"github.com/colorforge/colorforge/internal/color"
	"github.com/colorforge/colorforge/internal/contrast"
)

// Step is one indexed color within a ramp, with its precomputed OKLCH
// triple and relative luminance.
type Step struct {
	Index     int         `json:"index"`
	Hex       string      `json:"hex"`
	OKLCH     color.OKLCH `json:"oklch"`
	Luminance float64     `json:"luminance"`
}

// Ramp is an ordered palette of steps; indices are contiguous from 0.
type Ramp struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// LastIndex is the highest valid step index.
func (r Ramp) LastIndex() int {
	return len(r.Steps) - 1
}

// ClampIndex forces an index into the ramp's bounds.
func (r Ramp) ClampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > r.LastIndex() {
		return r.LastIndex()
	}
	return i
}

// Stack is a named elevation level with an integer offset from the base
// surface. root is always present with offset 0.
type Stack struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// Surface is a theme's resolved color at one stack level.
type Surface struct {
	Stack     string  `json:"stack"`
	Step      int     `json:"step"`
	Hex       string  `json:"hex"`
	Luminance float64 `json:"luminance"`
}

// Theme is a surface family: a ramp anchor plus one precomputed surface per
// stack. Direction is the elevation direction derived from the anchor's
// position relative to the ramp midpoint.
type Theme struct {
	Name          string             `json:"name"`
	Ramp          string             `json:"ramp"`
	BaseStep      int                `json:"baseStep"`
	BaseHex       string             `json:"baseHex"`
	BaseLuminance float64            `json:"baseLuminance"`
	Fallback      []string           `json:"fallback"`
	Aliases       []string           `json:"aliases"`
	Direction     contrast.Direction `json:"direction"`
	Surfaces      map[string]Surface `json:"surfaces"`
}

// Override is a normalized context override: nil filter slices are
// wildcards, non-nil slices enumerate the targeted dimension values.
type Override struct {
	Themes    []string `json:"themes,omitempty"`
	FontSizes []string `json:"fontSizes,omitempty"`
	Stacks    []string `json:"stacks,omitempty"`
	Step      int      `json:"step"`
}

// Specificity counts non-wildcard filters.
func (o Override) Specificity() int {
	n := 0
	if o.Themes != nil {
		n++
	}
	if o.FontSizes != nil {
		n++
	}
	if o.Stacks != nil {
		n++
	}
	return n
}

// State is an interaction state: the declared step (the delta source) plus
// manual overrides applied after delta derivation.
type State struct {
	Name      string     `json:"name"`
	Step      int        `json:"step"`
	Overrides []Override `json:"overrides,omitempty"`
}

// VisionEntry is a per-vision-mode token definition; ramp and step are
// already resolved against the base token when the raw entry omitted them.
type VisionEntry struct {
	Mode      string     `json:"mode"`
	Ramp      string     `json:"ramp"`
	Step      int        `json:"step"`
	Overrides []Override `json:"overrides,omitempty"`
}

// Token is a fully normalized semantic token.
type Token struct {
	Name      string               `json:"name"`
	Ramp      string               `json:"ramp"`
	Step      int                  `json:"step"`
	Class     contrast.TargetClass `json:"class"`
	Overrides []Override           `json:"overrides,omitempty"`
	States    []State              `json:"states,omitempty"`
	Vision    []VisionEntry        `json:"vision,omitempty"`
}

// FontSize is a named size class.
type FontSize struct {
	Name string  `json:"name"`
	Px   float64 `json:"px"`
}

// CVDSettings tunes the confusion-correction pass.
type CVDSettings struct {
	Enabled         bool    `json:"enabled"`
	Distinguishable float64 `json:"distinguishable"`
	Confusion       float64 `json:"confusion"`
	Margin          float64 `json:"margin"`
}

// Settings are the resolved compilation-wide defaults.
type Settings struct {
	Level        contrast.Level `json:"level"`
	Engine       string         `json:"engine"`
	DefaultTheme string         `json:"defaultTheme"`
	Strategy     string         `json:"strategy"`
	CVD          CVDSettings    `json:"cvd"`
}

// Step-selection strategies.
const (
	StrategyClosest       = "closest"
	StrategyMirrorClosest = "mirror-closest"
)

// Warning is a non-fatal compilation condition surfaced to the caller.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Compiled is the processed form of a spec: the immutable input to the rule
// generator and registry builder.
type Compiled struct {
	Ramps      map[string]Ramp
	RampOrder  []string
	Stacks     []Stack
	Themes     map[string]Theme
	ThemeOrder []string
	Aliases    map[string]string
	FontSizes  []FontSize
	Tokens     []Token
	Settings   Settings
	Warnings   []Warning
}

// ThemeByName resolves a theme, following aliases.
func (c *Compiled) ThemeByName(name string) (Theme, bool) {
	if t, ok := c.Themes[name]; ok {
		return t, true
	}
	if canonical, ok := c.Aliases[name]; ok {
		t, ok := c.Themes[canonical]
		return t, ok
	}
	return Theme{}, false
}
