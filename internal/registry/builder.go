package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/contrast"
	"github.com/colorforge/colorforge/internal/logger"
	"github.com/colorforge/colorforge/internal/rules"
)

// RegistryVersion is the transport format version stamped into metadata.
const RegistryVersion = "1"

// Build expands a compiled model into the full variant space: per-token
// default-vision variants, interaction-state variants, per-vision-mode
// variants, and finally the cross-token CVD confusion pass. The registry is
// immutable once returned.
func Build(c *compile.Compiled, log *logger.Logger) (*Registry, error) {
	engine, err := contrast.New(c.Settings.Engine)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		Ramps:      c.Ramps,
		RampOrder:  c.RampOrder,
		Themes:     c.Themes,
		ThemeOrder: c.ThemeOrder,
		Aliases:    c.Aliases,
		Stacks:     c.Stacks,
		FontSizes:  c.FontSizes,
		Variants:   make(map[VariantKey]Variant),
		Defaults:   make(map[string]string),
		StackRelax: relaxationOrder(c.Stacks),
		Warnings:   append([]compile.Warning(nil), c.Warnings...),
	}

	b := &builder{c: c, engine: engine, registry: r, log: log}

	for _, token := range c.Tokens {
		b.buildDefaultVariants(token)
		b.buildStateVariants(token)
		b.buildVisionVariants(token)
	}

	if c.Settings.CVD.Enabled {
		b.runCVDPass()
	}

	r.Meta = Meta{
		Version:      RegistryVersion,
		BuiltAt:      time.Now().UTC(),
		Engine:       c.Settings.Engine,
		Level:        c.Settings.Level,
		ContentHash:  ContentHash(c.RampOrder, c.Ramps),
		TokenCount:   len(c.Tokens),
		VariantCount: len(r.Variants),
	}

	return r, nil
}

type builder struct {
	c        *compile.Compiled
	engine   contrast.Engine
	registry *Registry
	log      *logger.Logger
}

func (b *builder) warn(code, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	b.registry.Warnings = append(b.registry.Warnings, compile.Warning{Code: code, Message: message})
	b.log.Warnf("%s: %s", code, message)
}

// eachContext visits the declared context space in deterministic order.
func (b *builder) eachContext(fn func(theme compile.Theme, fs compile.FontSize, stack compile.Stack)) {
	for _, themeName := range b.c.ThemeOrder {
		theme := b.c.Themes[themeName]
		for _, fs := range b.c.FontSizes {
			for _, stack := range b.c.Stacks {
				fn(theme, fs, stack)
			}
		}
	}
}

// buildDefaultVariants resolves the token across every context against
// that context's surface, never the theme's bare base hex: elevated
// surfaces must pass compliance on their own.
func (b *builder) buildDefaultVariants(token compile.Token) {
	ramp := b.c.Ramps[token.Ramp]

	gen := rules.Generator{Compiled: b.c, Engine: b.engine}
	ruleMap := gen.AutoGenerate(token.Name, ramp, token.Step, token.Class)
	gen.PatchWithOverrides(ruleMap, token.Overrides)

	b.registry.Defaults[token.Name] = ramp.Steps[token.Step].Hex

	b.eachContext(func(theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
		step := token.Step
		manual := false
		if rule, ok := ruleMap[rules.Key{Theme: theme.Name, FontSize: fs.Name, Stack: stack.Name}]; ok {
			step = ramp.ClampIndex(rule.Step)
			manual = rule.Manual
		}

		b.record(token.Name, token.Class, ramp, step, theme, fs, stack, VisionDefault, manual)
	})
}

// buildStateVariants derives each interaction state from the context's
// already-resolved base step plus the declared delta, negated on
// light-elevating (dark) themes so the state always escalates away from
// the surface.
func (b *builder) buildStateVariants(token compile.Token) {
	ramp := b.c.Ramps[token.Ramp]

	for _, state := range token.States {
		derived := token.Name + "-" + state.Name
		delta := state.Step - token.Step

		b.registry.Defaults[derived] = ramp.Steps[ramp.ClampIndex(state.Step)].Hex

		b.eachContext(func(theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
			baseKey := VariantKey{
				Token:    token.Name,
				FontSize: fs.Name,
				Theme:    theme.Name,
				Stack:    stack.Name,
				Vision:   VisionDefault,
			}
			base, ok := b.registry.Variants[baseKey]
			if !ok {
				return
			}

			applied := delta
			if theme.Direction == contrast.DirectionLighter {
				applied = -delta
			}
			step := ramp.ClampIndex(base.Step + applied)

			b.record(derived, token.Class, ramp, step, theme, fs, stack, VisionDefault, false)
		})

		// Manual state overrides fully replace the delta-derived value
		// for their matched contexts.
		b.applyManualOverrides(derived, token.Class, ramp, state.Overrides, VisionDefault)
	}
}

// buildVisionVariants runs a separate default-style pass per declared
// vision mode using that mode's own ramp, step, and overrides.
func (b *builder) buildVisionVariants(token compile.Token) {
	for _, entry := range token.Vision {
		ramp := b.c.Ramps[entry.Ramp]

		gen := rules.Generator{Compiled: b.c, Engine: b.engine}
		ruleMap := gen.AutoGenerate(token.Name, ramp, entry.Step, token.Class)
		gen.PatchWithOverrides(ruleMap, entry.Overrides)

		b.eachContext(func(theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
			step := entry.Step
			manual := false
			if rule, ok := ruleMap[rules.Key{Theme: theme.Name, FontSize: fs.Name, Stack: stack.Name}]; ok {
				step = ramp.ClampIndex(rule.Step)
				manual = rule.Manual
			}

			b.record(token.Name, token.Class, ramp, step, theme, fs, stack, entry.Mode, manual)
		})
	}
}

// applyManualOverrides expands overrides and overwrites the matching
// variants outright.
func (b *builder) applyManualOverrides(name string, class contrast.TargetClass, ramp compile.Ramp, overrides []compile.Override, vision string) {
	if len(overrides) == 0 {
		return
	}

	gen := rules.Generator{Compiled: b.c}
	ordered := make([]compile.Override, len(overrides))
	copy(ordered, overrides)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Specificity() < ordered[j].Specificity()
	})

	for _, ov := range ordered {
		for _, key := range gen.ExpandOverride(ov) {
			theme, ok := b.c.Themes[key.Theme]
			if !ok {
				continue
			}
			fs, ok := b.fontSize(key.FontSize)
			if !ok {
				continue
			}
			stack, ok := b.stack(key.Stack)
			if !ok {
				continue
			}
			b.record(name, class, ramp, ramp.ClampIndex(ov.Step), theme, fs, stack, vision, true)
		}
	}
}

// record evaluates a step against the context surface and commits the
// variant. A failing evaluation can only come from a manual override; the
// solver never emits failing steps.
func (b *builder) record(name string, class contrast.TargetClass, ramp compile.Ramp, step int, theme compile.Theme, fs compile.FontSize, stack compile.Stack, vision string, manual bool) {
	surface := theme.Surfaces[stack.Name]
	hex := ramp.Steps[step].Hex

	eval := b.engine.Evaluate(hex, surface.Hex, contrast.Context{
		Class:      class,
		Level:      b.c.Settings.Level,
		FontSizePx: fs.Px,
	})

	if manual && !eval.Pass {
		b.warn("override-compliance",
			"token %q override step %d fails %s against %s/%s at %s",
			name, step, b.engine.ID(), theme.Name, stack.Name, fs.Name)
	}

	b.registry.Variants[VariantKey{
		Token:    name,
		FontSize: fs.Name,
		Theme:    theme.Name,
		Stack:    stack.Name,
		Vision:   vision,
	}] = Variant{Ramp: ramp.Name, Step: step, Hex: hex, Evaluation: eval}
}

func (b *builder) fontSize(name string) (compile.FontSize, bool) {
	for _, fs := range b.c.FontSizes {
		if fs.Name == name {
			return fs, true
		}
	}
	return compile.FontSize{}, false
}

func (b *builder) stack(name string) (compile.Stack, bool) {
	for _, st := range b.c.Stacks {
		if st.Name == name {
			return st, true
		}
	}
	return compile.Stack{}, false
}

// relaxationOrder derives, for each stack, the next stack toward root: the
// declared stack with the next smaller absolute offset, declaration order
// breaking ties. root terminates the chain.
func relaxationOrder(stacks []compile.Stack) map[string]string {
	type ranked struct {
		compile.Stack
		declared int
	}

	sorted := make([]ranked, 0, len(stacks))
	for i, st := range stacks {
		sorted = append(sorted, ranked{Stack: st, declared: i})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := abs(sorted[i].Offset), abs(sorted[j].Offset)
		if ai != aj {
			return ai < aj
		}
		return sorted[i].declared < sorted[j].declared
	})

	relax := make(map[string]string, len(sorted))
	for _, st := range sorted {
		if st.Name == "root" {
			continue
		}

		// Previous absolute-offset level; the first declared stack on
		// that level is the relaxation target.
		next := "root"
		level := -1
		for _, candidate := range sorted {
			a := abs(candidate.Offset)
			if a >= abs(st.Offset) {
				break
			}
			if a > level {
				level = a
				next = candidate.Name
			}
		}
		relax[st.Name] = next
	}
	return relax
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
