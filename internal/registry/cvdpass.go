package registry

import (
	"github.com/colorforge/colorforge/internal/color"
	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/contrast"
)

// Score weights for the CVD substitution search: separation from the other
// simulated tokens against drift from the token's current appearance.
const (
	cvdSeparationWeight = 0.7
	cvdDriftWeight      = 0.3
)

// runCVDPass detects token pairs that are clearly distinguishable in
// normal vision but collapse under a simulated deficiency, and substitutes
// a compliance-passing step for the affected tokens where a sufficiently
// better choice exists. It runs strictly after every token's default
// variants are committed: confusion is pairwise across the whole token
// set, so it cannot be sharded per token.
func (b *builder) runCVDPass() {
	for _, deficiency := range color.Deficiencies {
		b.eachContext(func(theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
			b.correctContext(deficiency, theme, fs, stack)
		})
	}
}

func (b *builder) correctContext(deficiency color.Deficiency, theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
	settings := b.c.Settings.CVD

	// Collect every base token's already-resolved default hex in this
	// context. Derived interaction-state tokens track their base token
	// and are deliberately left out of the pairwise scan.
	type entry struct {
		token compile.Token
		hex   string
		sim   string
	}
	entries := make([]entry, 0, len(b.c.Tokens))
	for _, token := range b.c.Tokens {
		variant, ok := b.registry.Variants[VariantKey{
			Token:    token.Name,
			FontSize: fs.Name,
			Theme:    theme.Name,
			Stack:    stack.Name,
			Vision:   VisionDefault,
		}]
		if !ok {
			continue
		}
		entries = append(entries, entry{
			token: token,
			hex:   variant.Hex,
			sim:   color.Simulate(variant.Hex, deficiency),
		})
	}

	// A pair is confused when originally distinct but collapsed under
	// simulation.
	confused := make(map[int]bool)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			original := color.Distance(entries[i].hex, entries[j].hex)
			simulated := color.Distance(entries[i].sim, entries[j].sim)
			if original > settings.Distinguishable && simulated < settings.Confusion {
				confused[i] = true
				confused[j] = true
			}
		}
	}

	for i := range entries {
		if !confused[i] {
			continue
		}

		// An explicitly declared vision entry for this mode wins over
		// auto-correction.
		existing := VariantKey{
			Token:    entries[i].token.Name,
			FontSize: fs.Name,
			Theme:    theme.Name,
			Stack:    stack.Name,
			Vision:   string(deficiency),
		}
		if _, declared := b.registry.Variants[existing]; declared {
			continue
		}

		otherSims := make([]string, 0, len(entries)-1)
		for j, e := range entries {
			if j != i {
				otherSims = append(otherSims, e.sim)
			}
		}
		b.correctToken(entries[i].token, entries[i].hex, entries[i].sim, otherSims, deficiency, theme, fs, stack)
	}
}

// correctToken searches the token's compliance-passing steps for the one
// best separating it from the other simulated tokens without drifting too
// far from its current appearance, and only commits when the winner beats
// the incumbent by the configured margin.
func (b *builder) correctToken(token compile.Token, currentHex, currentSim string, otherSims []string, deficiency color.Deficiency, theme compile.Theme, fs compile.FontSize, stack compile.Stack) {
	ramp := b.c.Ramps[token.Ramp]
	surface := theme.Surfaces[stack.Name]
	ctx := contrast.Context{
		Class:      token.Class,
		Level:      b.c.Settings.Level,
		FontSizePx: fs.Px,
	}

	score := func(hex string) float64 {
		sim := color.Simulate(hex, deficiency)
		return cvdSeparationWeight*minDistance(sim, otherSims) -
			cvdDriftWeight*color.Distance(sim, currentSim)
	}

	currentScore := score(currentHex)

	bestStep := -1
	bestScore := currentScore
	bestHex := currentHex
	for _, step := range ramp.Steps {
		if !b.engine.Evaluate(step.Hex, surface.Hex, ctx).Pass {
			continue
		}
		if s := score(step.Hex); s > bestScore {
			bestStep = step.Index
			bestScore = s
			bestHex = step.Hex
		}
	}

	// No improvement worth committing is an expected, silent outcome:
	// the resolver falls through to the default-vision value.
	if bestStep < 0 || bestHex == currentHex || bestScore-currentScore <= b.c.Settings.CVD.Margin {
		return
	}

	b.registry.Variants[VariantKey{
		Token:    token.Name,
		FontSize: fs.Name,
		Theme:    theme.Name,
		Stack:    stack.Name,
		Vision:   string(deficiency),
	}] = Variant{
		Ramp:       ramp.Name,
		Step:       bestStep,
		Hex:        bestHex,
		Evaluation: b.engine.Evaluate(bestHex, surface.Hex, ctx),
	}
}

func minDistance(hex string, others []string) float64 {
	if len(others) == 0 {
		return 0
	}
	min := color.Distance(hex, others[0])
	for _, other := range others[1:] {
		if d := color.Distance(hex, other); d < min {
			min = d
		}
	}
	return min
}
