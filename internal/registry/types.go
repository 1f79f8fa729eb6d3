// Package registry builds and persists the resolved token registry: the
// immutable artifact mapping every (token, font size, theme, stack, vision
// mode) variant to a concrete color and its compliance proof.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/contrast"
)

// VisionDefault tags variants resolved without a simulated deficiency.
const VisionDefault = "default"

// VariantKey is the five-dimension identity of one resolved color.
type VariantKey struct {
	Token    string
	FontSize string
	Theme    string
	Stack    string
	Vision   string
}

// String renders the flattened composite form used by the transport codec.
func (k VariantKey) String() string {
	return strings.Join([]string{k.Token, k.FontSize, k.Theme, k.Stack, k.Vision}, "|")
}

// ParseVariantKey reverses String.
func ParseVariantKey(s string) (VariantKey, bool) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return VariantKey{}, false
	}
	return VariantKey{
		Token:    parts[0],
		FontSize: parts[1],
		Theme:    parts[2],
		Stack:    parts[3],
		Vision:   parts[4],
	}, true
}

// Variant is one resolved color with its compliance proof.
type Variant struct {
	Ramp       string              `json:"ramp"`
	Step       int                 `json:"step"`
	Hex        string              `json:"hex"`
	Evaluation contrast.Evaluation `json:"evaluation"`
}

// Meta is the registry's build metadata.
type Meta struct {
	Version      string         `json:"version"`
	BuiltAt      time.Time      `json:"builtAt"`
	Engine       string         `json:"engine"`
	Level        contrast.Level `json:"level"`
	ContentHash  string         `json:"contentHash"`
	TokenCount   int            `json:"tokenCount"`
	VariantCount int            `json:"variantCount"`
}

// Registry is the built artifact. It is never mutated after Build returns;
// resolver lookups from any number of goroutines need no synchronization.
type Registry struct {
	Meta       Meta
	Ramps      map[string]compile.Ramp
	RampOrder  []string
	Themes     map[string]compile.Theme
	ThemeOrder []string
	Aliases    map[string]string
	Stacks     []compile.Stack
	FontSizes  []compile.FontSize
	Variants   map[VariantKey]Variant
	Defaults   map[string]string
	StackRelax map[string]string
	Warnings   []compile.Warning
}

// ThemeName canonicalizes a theme reference through the alias table.
func (r *Registry) ThemeName(name string) string {
	if _, ok := r.Themes[name]; ok {
		return name
	}
	if canonical, ok := r.Aliases[name]; ok {
		return canonical
	}
	return name
}

// TokenNames derives the known token set from the variant key space and the
// default table, in sorted order.
func (r *Registry) TokenNames() []string {
	seen := make(map[string]struct{})
	for key := range r.Variants {
		seen[key.Token] = struct{}{}
	}
	for token := range r.Defaults {
		seen[token] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContentHash fingerprints the primitive color inputs: ramp hex values in
// spec declaration order. Two registries built from equivalent ramps share
// a hash regardless of when they were built.
func ContentHash(rampOrder []string, ramps map[string]compile.Ramp) string {
	h := xxhash.New()
	for _, name := range rampOrder {
		_, _ = h.WriteString(name)
		_, _ = h.WriteString(":")
		for _, step := range ramps[name].Steps {
			_, _ = h.WriteString(step.Hex)
			_, _ = h.WriteString(",")
		}
		_, _ = h.WriteString(";")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
