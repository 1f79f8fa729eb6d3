// Package resolver answers runtime lookups against a built registry. Every
// lookup degrades through a fixed fallback chain and always terminates; a
// miss at the end of the chain is reported, never an error.
package resolver

import (
	"github.com/colorforge/colorforge/internal/contrast"
	"github.com/colorforge/colorforge/internal/registry"
)

// Context is the rendering situation a token is resolved for.
type Context struct {
	FontSize string `json:"fontSize"`
	Theme    string `json:"theme"`
	Stack    string `json:"stack"`
	Vision   string `json:"vision,omitempty"`
}

// Source describes which link of the fallback chain produced a resolution.
type Source string

const (
	SourceExact         Source = "exact"
	SourceVisionDefault Source = "vision-default"
	SourceStackRelaxed  Source = "stack-relaxed"
	SourceThemeFallback Source = "theme-fallback"
	SourceAnchor        Source = "anchor"
	SourceNone          Source = ""
)

// Resolution is the answer to one lookup. When Found is false the token is
// unknown to the registry and the zero hex is returned.
type Resolution struct {
	Hex        string              `json:"hex"`
	Ramp       string              `json:"ramp,omitempty"`
	Step       int                 `json:"step"`
	Evaluation contrast.Evaluation `json:"evaluation"`
	Source     Source              `json:"source"`
	Found      bool                `json:"found"`
}

// ResolveToken looks up a token under the given context, degrading through
// the fallback chain: exact variant, default vision, stack relaxation
// toward root, the theme's declared fallback themes at root, and finally
// the token's declared anchor color.
func ResolveToken(r *registry.Registry, token string, ctx Context) Resolution {
	theme := r.ThemeName(ctx.Theme)
	vision := ctx.Vision
	if vision == "" {
		vision = registry.VisionDefault
	}

	if res, ok := lookupWithVision(r, token, ctx.FontSize, theme, ctx.Stack, vision, SourceExact); ok {
		return res
	}

	// Walk the stack relaxation chain toward root, retrying the requested
	// vision before the default at every level. The walk is bounded so a
	// hand-edited artifact with a relaxation cycle cannot hang a lookup.
	stack := ctx.Stack
	for hop := 0; hop <= len(r.StackRelax); hop++ {
		next, ok := r.StackRelax[stack]
		if !ok || next == stack {
			break
		}
		stack = next
		if res, ok := lookupWithVision(r, token, ctx.FontSize, theme, stack, vision, SourceStackRelaxed); ok {
			return res
		}
	}

	// Fallback themes are consulted at root, in declared order.
	if t, ok := r.Themes[theme]; ok {
		for _, fallback := range t.Fallback {
			name := r.ThemeName(fallback)
			if res, ok := lookupWithVision(r, token, ctx.FontSize, name, "root", vision, SourceThemeFallback); ok {
				return res
			}
		}
	}

	if hex, ok := r.Defaults[token]; ok {
		return Resolution{Hex: hex, Source: SourceAnchor, Found: true}
	}

	return Resolution{Source: SourceNone}
}

// ResolveAllTokens resolves every known token under one context.
func ResolveAllTokens(r *registry.Registry, ctx Context) map[string]Resolution {
	out := make(map[string]Resolution)
	for _, token := range r.TokenNames() {
		out[token] = ResolveToken(r, token, ctx)
	}
	return out
}

// lookupWithVision tries the requested vision mode and then the default
// mode at one (fontSize, theme, stack) coordinate.
func lookupWithVision(r *registry.Registry, token, fontSize, theme, stack, vision string, source Source) (Resolution, bool) {
	if res, ok := lookup(r, token, fontSize, theme, stack, vision, source); ok {
		return res, true
	}
	if vision != registry.VisionDefault {
		fallbackSource := source
		if source == SourceExact {
			fallbackSource = SourceVisionDefault
		}
		return lookup(r, token, fontSize, theme, stack, registry.VisionDefault, fallbackSource)
	}
	return Resolution{}, false
}

func lookup(r *registry.Registry, token, fontSize, theme, stack, vision string, source Source) (Resolution, bool) {
	v, ok := r.Variants[registry.VariantKey{
		Token:    token,
		FontSize: fontSize,
		Theme:    theme,
		Stack:    stack,
		Vision:   vision,
	}]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{
		Hex:        v.Hex,
		Ramp:       v.Ramp,
		Step:       v.Step,
		Evaluation: v.Evaluation,
		Source:     source,
		Found:      true,
	}, true
}
