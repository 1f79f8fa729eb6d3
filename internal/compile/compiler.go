package compile

import (
	"fmt"

	"github.com/colorforge/colorforge/internal/color"
	"github.com/colorforge/colorforge/internal/contrast"
	"github.com/colorforge/colorforge/internal/logger"
	"github.com/colorforge/colorforge/internal/spec"
	cferrors "github.com/colorforge/colorforge/pkg/errors"
)

// DefaultStacks is the built-in elevation set used when a spec declares no
// stacks. Process-wide constant data; per-compilation overrides come from
// the spec itself, this table is never mutated.
var DefaultStacks = []Stack{
	{Name: "root", Offset: 0},
	{Name: "raised", Offset: 1},
	{Name: "overlay", Offset: 2},
	{Name: "sunken", Offset: -1},
}

// DefaultFontSizes is used when a spec declares no font size classes.
var DefaultFontSizes = []FontSize{
	{Name: "body", Px: 16},
	{Name: "large", Px: 24},
}

// Default CVD pass thresholds.
const (
	DefaultDistinguishable = 8.0
	DefaultConfusion       = 5.0
	DefaultMargin          = 0.5
)

// Compile builds the processed model from a validated raw spec, in
// dependency order: ramps, stacks, themes, tokens, then configuration
// defaults. The first fatal fault aborts compilation; warnings accumulate
// on the result and are logged as they are found.
func Compile(s *spec.Spec, log *logger.Logger) (*Compiled, error) {
	c := &Compiled{
		Ramps:   make(map[string]Ramp, len(s.Ramps)),
		Themes:  make(map[string]Theme, len(s.Themes)),
		Aliases: make(map[string]string),
	}

	warn := func(code, format string, args ...any) {
		message := fmt.Sprintf(format, args...)
		c.Warnings = append(c.Warnings, Warning{Code: code, Message: message})
		log.Warnf("%s: %s", code, message)
	}

	if err := c.buildRamps(s, warn); err != nil {
		return nil, err
	}
	if err := c.buildStacks(s); err != nil {
		return nil, err
	}
	if err := c.buildThemes(s); err != nil {
		return nil, err
	}
	if err := c.buildTokens(s); err != nil {
		return nil, err
	}
	if err := c.applyDefaults(s, warn); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Compiled) buildRamps(s *spec.Spec, warn func(code, format string, args ...any)) error {
	for _, raw := range s.Ramps {
		ramp := Ramp{Name: raw.Name, Steps: make([]Step, 0, len(raw.Steps))}

		for i, value := range raw.Steps {
			hex, ok := resolveColorValue(value)
			if !ok {
				return cferrors.NewCompileError("ramps", raw.Name,
					fmt.Sprintf("step %d is not a resolvable color", i), nil)
			}
			ramp.Steps = append(ramp.Steps, Step{
				Index:     i,
				Hex:       hex,
				OKLCH:     color.HexToOKLCH(hex),
				Luminance: color.HexLuminance(hex),
			})
		}

		if !monotonicLuminance(ramp.Steps) {
			warn("ramp-luminance", "ramp %q luminance is not monotonic", raw.Name)
		}

		c.Ramps[raw.Name] = ramp
		c.RampOrder = append(c.RampOrder, raw.Name)
	}

	return nil
}

func resolveColorValue(v spec.ColorValue) (string, bool) {
	if v.Hex != "" {
		return color.NormalizeHex(v.Hex)
	}
	if len(v.Coords) != 3 {
		return "", false
	}
	rgb, ok := color.FromSpace(v.Space, [3]float64{v.Coords[0], v.Coords[1], v.Coords[2]})
	if !ok {
		return "", false
	}
	return rgb.Hex(), true
}

// monotonicLuminance is a local adjacent-pair heuristic: the first
// non-equal pair fixes the expected direction and any later pair moving the
// other way trips the warning.
func monotonicLuminance(steps []Step) bool {
	direction := 0
	for i := 1; i < len(steps); i++ {
		d := steps[i].Luminance - steps[i-1].Luminance
		switch {
		case d == 0:
			continue
		case direction == 0:
			if d > 0 {
				direction = 1
			} else {
				direction = -1
			}
		case (d > 0) != (direction > 0):
			return false
		}
	}
	return true
}

func (c *Compiled) buildStacks(s *spec.Spec) error {
	if len(s.Stacks) == 0 {
		c.Stacks = append([]Stack(nil), DefaultStacks...)
		return nil
	}

	for _, raw := range s.Stacks {
		if raw.Name == "root" && raw.Offset != 0 {
			return cferrors.NewCompileError("stacks", "root",
				fmt.Sprintf("root must have offset 0, got %d", raw.Offset), nil)
		}
		c.Stacks = append(c.Stacks, Stack{Name: raw.Name, Offset: raw.Offset})
	}

	return nil
}

func (c *Compiled) buildThemes(s *spec.Spec) error {
	for _, raw := range s.Themes {
		ramp, ok := c.Ramps[raw.Ramp]
		if !ok {
			return cferrors.NewCompileError("themes", raw.Name,
				fmt.Sprintf("references unknown ramp %q", raw.Ramp), nil)
		}
		if raw.Step < 0 || raw.Step > ramp.LastIndex() {
			return cferrors.NewCompileError("themes", raw.Name,
				fmt.Sprintf("step %d is out of bounds", raw.Step), nil)
		}

		base := ramp.Steps[raw.Step]
		theme := Theme{
			Name:          raw.Name,
			Ramp:          raw.Ramp,
			BaseStep:      raw.Step,
			BaseHex:       base.Hex,
			BaseLuminance: base.Luminance,
			Fallback:      append([]string(nil), raw.Fallback...),
			Aliases:       append([]string(nil), raw.Aliases...),
			Direction:     elevationDirection(raw.Step, ramp),
			Surfaces:      make(map[string]Surface, len(c.Stacks)),
		}

		for _, stack := range c.Stacks {
			idx := surfaceStep(raw.Step, stack.Offset, theme.Direction, ramp)
			theme.Surfaces[stack.Name] = Surface{
				Stack:     stack.Name,
				Step:      idx,
				Hex:       ramp.Steps[idx].Hex,
				Luminance: ramp.Steps[idx].Luminance,
			}
		}

		c.Themes[raw.Name] = theme
		c.ThemeOrder = append(c.ThemeOrder, raw.Name)
		for _, alias := range raw.Aliases {
			c.Aliases[alias] = raw.Name
		}
	}

	return nil
}

// elevationDirection: anchors past the ramp midpoint sit on the dark end,
// so elevation moves lighter; anchors on the light end elevate darker.
func elevationDirection(baseStep int, ramp Ramp) contrast.Direction {
	if float64(baseStep) > float64(ramp.LastIndex())/2 {
		return contrast.DirectionLighter
	}
	return contrast.DirectionDarker
}

// surfaceStep walks offset positions in the elevation direction, clamped to
// ramp bounds. Higher index is the darker end.
func surfaceStep(base, offset int, dir contrast.Direction, ramp Ramp) int {
	if dir == contrast.DirectionLighter {
		return ramp.ClampIndex(base - offset)
	}
	return ramp.ClampIndex(base + offset)
}

func (c *Compiled) buildTokens(s *spec.Spec) error {
	for _, raw := range s.Tokens {
		ramp, ok := c.Ramps[raw.Ramp]
		if !ok {
			return cferrors.NewCompileError("tokens", raw.Name,
				fmt.Sprintf("references unknown ramp %q", raw.Ramp), nil)
		}
		if raw.Step < 0 || raw.Step > ramp.LastIndex() {
			return cferrors.NewCompileError("tokens", raw.Name,
				fmt.Sprintf("step %d is out of bounds", raw.Step), nil)
		}

		token := Token{
			Name:      raw.Name,
			Ramp:      raw.Ramp,
			Step:      raw.Step,
			Class:     contrast.TargetClass(raw.Class),
			Overrides: c.normalizeOverrides(raw.Overrides),
		}

		for _, state := range raw.States {
			if state.Step < 0 || state.Step > ramp.LastIndex() {
				return cferrors.NewCompileError("tokens", raw.Name,
					fmt.Sprintf("state %q step %d is out of bounds", state.Name, state.Step), nil)
			}
			token.States = append(token.States, State{
				Name:      state.Name,
				Step:      state.Step,
				Overrides: c.normalizeOverrides(state.Overrides),
			})
		}

		for _, entry := range raw.Vision {
			visionRamp := raw.Ramp
			if entry.Ramp != "" {
				visionRamp = entry.Ramp
			}
			vr, ok := c.Ramps[visionRamp]
			if !ok {
				return cferrors.NewCompileError("tokens", raw.Name,
					fmt.Sprintf("vision %q references unknown ramp %q", entry.Mode, visionRamp), nil)
			}

			visionStep := raw.Step
			if entry.Step != nil {
				visionStep = *entry.Step
			}
			if visionStep < 0 || visionStep > vr.LastIndex() {
				return cferrors.NewCompileError("tokens", raw.Name,
					fmt.Sprintf("vision %q step %d is out of bounds", entry.Mode, visionStep), nil)
			}

			token.Vision = append(token.Vision, VisionEntry{
				Mode:      entry.Mode,
				Ramp:      visionRamp,
				Step:      visionStep,
				Overrides: c.normalizeOverrides(entry.Overrides),
			})
		}

		c.Tokens = append(c.Tokens, token)
	}

	return nil
}

// normalizeOverrides resolves optional fields and canonicalizes theme
// filters through the alias table so an override on an alias hits the same
// contexts as one on the canonical name.
func (c *Compiled) normalizeOverrides(raw []spec.Override) []Override {
	if len(raw) == 0 {
		return nil
	}

	out := make([]Override, 0, len(raw))
	for _, ov := range raw {
		step := 0
		if ov.Step != nil {
			step = *ov.Step
		}
		themes := filterValues(ov.Themes)
		for i, name := range themes {
			if canonical, ok := c.Aliases[name]; ok {
				themes[i] = canonical
			}
		}
		out = append(out, Override{
			Themes:    themes,
			FontSizes: filterValues(ov.FontSizes),
			Stacks:    filterValues(ov.Stacks),
			Step:      step,
		})
	}
	return out
}

func filterValues(l *spec.StringList) []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), (*l)...)
}

func (c *Compiled) applyDefaults(s *spec.Spec, warn func(code, format string, args ...any)) error {
	level := contrast.Level(s.Config.Level)
	if level == "" {
		level = contrast.LevelAA
	}

	engineID := s.Config.Engine
	if engineID == "" {
		engineID = contrast.EngineWCAG
	}
	if _, err := contrast.New(engineID); err != nil {
		return cferrors.NewCompileError("config", "engine", err.Error(), err)
	}

	strategy := s.Config.Strategy
	if strategy == "" {
		strategy = StrategyClosest
	}

	defaultTheme := s.Config.DefaultTheme
	if defaultTheme == "" {
		if len(c.ThemeOrder) > 0 {
			defaultTheme = c.ThemeOrder[0]
		} else {
			warn("no-themes", "spec declares no themes; default theme is empty")
		}
	}

	c.FontSizes = convertFontSizes(s.FontSizes)
	if len(c.FontSizes) == 0 {
		c.FontSizes = append(c.FontSizes, DefaultFontSizes...)
	}

	cvd := CVDSettings{
		Enabled:         !s.Config.CVD.Disabled,
		Distinguishable: DefaultDistinguishable,
		Confusion:       DefaultConfusion,
		Margin:          DefaultMargin,
	}
	if v := s.Config.CVD.Distinguishable; v != nil {
		cvd.Distinguishable = *v
	}
	if v := s.Config.CVD.Confusion; v != nil {
		cvd.Confusion = *v
	}
	if v := s.Config.CVD.Margin; v != nil {
		cvd.Margin = *v
	}

	c.Settings = Settings{
		Level:        level,
		Engine:       engineID,
		DefaultTheme: defaultTheme,
		Strategy:     strategy,
		CVD:          cvd,
	}

	return nil
}

func convertFontSizes(sizes []spec.FontSize) []FontSize {
	out := make([]FontSize, 0, len(sizes))
	for _, fs := range sizes {
		out = append(out, FontSize{Name: fs.Name, Px: fs.Px})
	}
	return out
}
