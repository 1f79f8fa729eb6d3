// Package rules holds the constraint solver: the outward step search that
// finds compliant ramp steps, the auto-rule generation across the context
// space, and specificity-ordered override patching.
package rules

import (
	"sort"

	"github.com/colorforge/colorforge/internal/color"
	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/contrast"
)

// Key identifies one concrete context a rule applies to.
type Key struct {
	Theme    string
	FontSize string
	Stack    string
}

// Rule pins a token to a ramp step in one context. Manual marks rules that
// came from a user override rather than the compliance search.
type Rule struct {
	Step   int
	Manual bool
}

// FindClosestPassingStep searches outward from preferred for the nearest
// index satisfying passes. darker walks increasing indices only, lighter
// decreasing only; either walks both and prefers the smaller distance,
// breaking ties toward the darker (higher) index. Reports false when no
// index passes.
func FindClosestPassingStep(ramp compile.Ramp, preferred int, passes func(compile.Step) bool, dir contrast.Direction) (int, bool) {
	last := ramp.LastIndex()
	if last < 0 {
		return 0, false
	}
	preferred = ramp.ClampIndex(preferred)

	switch dir {
	case contrast.DirectionDarker:
		for i := preferred; i <= last; i++ {
			if passes(ramp.Steps[i]) {
				return i, true
			}
		}
	case contrast.DirectionLighter:
		for i := preferred; i >= 0; i-- {
			if passes(ramp.Steps[i]) {
				return i, true
			}
		}
	default:
		for d := 0; d <= last; d++ {
			if i := preferred + d; i <= last && passes(ramp.Steps[i]) {
				return i, true
			}
			if d == 0 {
				continue
			}
			if i := preferred - d; i >= 0 && passes(ramp.Steps[i]) {
				return i, true
			}
		}
	}

	return 0, false
}

// Generator derives per-context rules for tokens against a compiled model.
type Generator struct {
	Compiled *compile.Compiled
	Engine   contrast.Engine
}

// AutoGenerate produces the rule map for one token definition: for every
// (theme, stack, font size) context whose surface the token's preferred
// step does not already satisfy, a rule selecting the nearest passing step.
// Under mirror-closest, dark-surface contexts instead reflect the step
// across the ramp midpoint without a compliance search; that applies to
// decorative tokens too, which the search otherwise leaves alone.
func (g Generator) AutoGenerate(name string, ramp compile.Ramp, preferred int, class contrast.TargetClass) map[Key]Rule {
	out := make(map[Key]Rule)
	mirror := g.Compiled.Settings.Strategy == compile.StrategyMirrorClosest

	for _, themeName := range g.Compiled.ThemeOrder {
		theme := g.Compiled.Themes[themeName]

		if mirror && theme.Direction == contrast.DirectionLighter {
			mirrored := ramp.LastIndex() - preferred
			if mirrored == preferred {
				continue
			}
			for _, fs := range g.Compiled.FontSizes {
				for _, stack := range g.Compiled.Stacks {
					out[Key{Theme: themeName, FontSize: fs.Name, Stack: stack.Name}] = Rule{Step: mirrored}
				}
			}
			continue
		}

		for _, fs := range g.Compiled.FontSizes {
			ctx := contrast.Context{Class: class, Level: g.Compiled.Settings.Level, FontSizePx: fs.Px}

			for _, stack := range g.Compiled.Stacks {
				surface := theme.Surfaces[stack.Name]

				if g.Engine.Evaluate(ramp.Steps[ramp.ClampIndex(preferred)].Hex, surface.Hex, ctx).Pass {
					continue
				}

				dir := g.searchDirection(surface.Hex)
				passes := func(step compile.Step) bool {
					return g.Engine.Evaluate(step.Hex, surface.Hex, ctx).Pass
				}
				if step, ok := FindClosestPassingStep(ramp, preferred, passes, dir); ok {
					out[Key{Theme: themeName, FontSize: fs.Name, Stack: stack.Name}] = Rule{Step: step}
				}
			}
		}
	}

	return out
}

// searchDirection asks the engine when it can hint, otherwise falls back to
// the background-luminance heuristic.
func (g Generator) searchDirection(bg string) contrast.Direction {
	if hinter, ok := g.Engine.(contrast.DirectionHinter); ok {
		return hinter.PreferredDirection(bg)
	}
	if color.HexLuminance(bg) > 0.5 {
		return contrast.DirectionDarker
	}
	return contrast.DirectionLighter
}

// ExpandOverride Cartesian-expands an override's filters into concrete
// context keys. Absent filters expand to every declared value of that
// dimension.
func (g Generator) ExpandOverride(ov compile.Override) []Key {
	themes := ov.Themes
	if themes == nil {
		themes = g.Compiled.ThemeOrder
	}

	sizes := ov.FontSizes
	if sizes == nil {
		sizes = make([]string, 0, len(g.Compiled.FontSizes))
		for _, fs := range g.Compiled.FontSizes {
			sizes = append(sizes, fs.Name)
		}
	}

	stacks := ov.Stacks
	if stacks == nil {
		stacks = make([]string, 0, len(g.Compiled.Stacks))
		for _, st := range g.Compiled.Stacks {
			stacks = append(stacks, st.Name)
		}
	}

	keys := make([]Key, 0, len(themes)*len(sizes)*len(stacks))
	for _, theme := range themes {
		for _, size := range sizes {
			for _, stack := range stacks {
				keys = append(keys, Key{Theme: theme, FontSize: size, Stack: stack})
			}
		}
	}
	return keys
}

// PatchWithOverrides applies overrides onto an auto-generated rule map in
// ascending specificity order, declaration order breaking ties, so a more
// specific override always lands last regardless of where it was declared.
// Each application is a full overwrite, never a merge.
func (g Generator) PatchWithOverrides(out map[Key]Rule, overrides []compile.Override) {
	ordered := make([]compile.Override, len(overrides))
	copy(ordered, overrides)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Specificity() < ordered[j].Specificity()
	})

	for _, ov := range ordered {
		for _, key := range g.ExpandOverride(ov) {
			out[key] = Rule{Step: ov.Step, Manual: true}
		}
	}
}
