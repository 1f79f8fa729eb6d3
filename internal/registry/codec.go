package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/contrast"
)

// The transport form flattens every internal mapping to sorted (key, value)
// pair arrays so the artifact is stable, diffable, and reconstructable in
// any JSON consumer.

type rampEntry struct {
	Name string       `json:"name"`
	Ramp compile.Ramp `json:"ramp"`
}

type themeEntry struct {
	Name  string        `json:"name"`
	Theme transportTheme `json:"theme"`
}

// transportTheme carries a theme with its surface map flattened.
type transportTheme struct {
	Name          string            `json:"name"`
	Ramp          string            `json:"ramp"`
	BaseStep      int               `json:"baseStep"`
	BaseHex       string            `json:"baseHex"`
	BaseLuminance float64           `json:"baseLuminance"`
	Fallback      []string          `json:"fallback,omitempty"`
	Aliases       []string          `json:"aliases,omitempty"`
	Direction     string            `json:"direction"`
	Surfaces      []compile.Surface `json:"surfaces"`
}

type variantEntry struct {
	Key     string  `json:"key"`
	Variant Variant `json:"variant"`
}

type stringEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type transportFile struct {
	Version    string             `json:"version"`
	Meta       Meta               `json:"meta"`
	RampOrder  []string           `json:"rampOrder"`
	Ramps      []rampEntry        `json:"ramps"`
	ThemeOrder []string           `json:"themeOrder"`
	Themes     []themeEntry       `json:"themes"`
	Aliases    []stringEntry      `json:"aliases,omitempty"`
	Stacks     []compile.Stack    `json:"stacks"`
	FontSizes  []compile.FontSize `json:"fontSizes"`
	Variants   []variantEntry     `json:"variants"`
	Defaults   []stringEntry      `json:"defaults"`
	StackRelax []stringEntry      `json:"stackRelax,omitempty"`
	Warnings   []compile.Warning  `json:"warnings,omitempty"`
}

// Encode freezes a registry into its versioned JSON transport form.
func Encode(r *Registry) ([]byte, error) {
	file := transportFile{
		Version:    RegistryVersion,
		Meta:       r.Meta,
		RampOrder:  r.RampOrder,
		ThemeOrder: r.ThemeOrder,
		Stacks:     r.Stacks,
		FontSizes:  r.FontSizes,
		Warnings:   r.Warnings,
	}

	for _, name := range r.RampOrder {
		file.Ramps = append(file.Ramps, rampEntry{Name: name, Ramp: r.Ramps[name]})
	}

	for _, name := range r.ThemeOrder {
		theme := r.Themes[name]
		surfaces := make([]compile.Surface, 0, len(theme.Surfaces))
		for _, surface := range theme.Surfaces {
			surfaces = append(surfaces, surface)
		}
		sort.Slice(surfaces, func(i, j int) bool { return surfaces[i].Stack < surfaces[j].Stack })

		file.Themes = append(file.Themes, themeEntry{Name: name, Theme: transportTheme{
			Name:          theme.Name,
			Ramp:          theme.Ramp,
			BaseStep:      theme.BaseStep,
			BaseHex:       theme.BaseHex,
			BaseLuminance: theme.BaseLuminance,
			Fallback:      theme.Fallback,
			Aliases:       theme.Aliases,
			Direction:     string(theme.Direction),
			Surfaces:      surfaces,
		}})
	}

	file.Aliases = sortedStringEntries(r.Aliases)
	file.Defaults = sortedStringEntries(r.Defaults)
	file.StackRelax = sortedStringEntries(r.StackRelax)

	for key, variant := range r.Variants {
		file.Variants = append(file.Variants, variantEntry{Key: key.String(), Variant: variant})
	}
	sort.Slice(file.Variants, func(i, j int) bool { return file.Variants[i].Key < file.Variants[j].Key })

	return json.MarshalIndent(file, "", "  ")
}

// Decode reconstructs the in-memory registry from transport bytes.
func Decode(data []byte) (*Registry, error) {
	var file transportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if file.Version != RegistryVersion {
		return nil, fmt.Errorf("unsupported registry version %q", file.Version)
	}

	r := &Registry{
		Meta:       file.Meta,
		RampOrder:  file.RampOrder,
		Ramps:      make(map[string]compile.Ramp, len(file.Ramps)),
		ThemeOrder: file.ThemeOrder,
		Themes:     make(map[string]compile.Theme, len(file.Themes)),
		Aliases:    stringEntryMap(file.Aliases),
		Stacks:     file.Stacks,
		FontSizes:  file.FontSizes,
		Variants:   make(map[VariantKey]Variant, len(file.Variants)),
		Defaults:   stringEntryMap(file.Defaults),
		StackRelax: stringEntryMap(file.StackRelax),
		Warnings:   file.Warnings,
	}

	for _, entry := range file.Ramps {
		r.Ramps[entry.Name] = entry.Ramp
	}

	for _, entry := range file.Themes {
		surfaces := make(map[string]compile.Surface, len(entry.Theme.Surfaces))
		for _, surface := range entry.Theme.Surfaces {
			surfaces[surface.Stack] = surface
		}
		r.Themes[entry.Name] = compile.Theme{
			Name:          entry.Theme.Name,
			Ramp:          entry.Theme.Ramp,
			BaseStep:      entry.Theme.BaseStep,
			BaseHex:       entry.Theme.BaseHex,
			BaseLuminance: entry.Theme.BaseLuminance,
			Fallback:      entry.Theme.Fallback,
			Aliases:       entry.Theme.Aliases,
			Direction:     contrast.Direction(entry.Theme.Direction),
			Surfaces:      surfaces,
		}
	}

	for _, entry := range file.Variants {
		key, ok := ParseVariantKey(entry.Key)
		if !ok {
			return nil, fmt.Errorf("malformed variant key %q", entry.Key)
		}
		r.Variants[key] = entry.Variant
	}

	return r, nil
}

// Save writes the registry to disk atomically via a temporary file rename.
func Save(r *Registry, path string) error {
	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create registry directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Load reads a serialized registry from disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func sortedStringEntries(m map[string]string) []stringEntry {
	if len(m) == 0 {
		return nil
	}
	out := make([]stringEntry, 0, len(m))
	for k, v := range m {
		out = append(out, stringEntry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func stringEntryMap(entries []stringEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}
