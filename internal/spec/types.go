// Package spec holds the raw, declaration-ordered model of a colorforge
// spec file, its YAML parser, and the structural boundary validator. The
// compiler consumes only specs that have passed Validate.
package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is the raw specification document. Ramps, themes, font sizes and
// tokens keep their declaration order: the first declared theme is the
// default when none is configured, and the content hash walks ramps in
// declared order.
type Spec struct {
	Version   string
	Name      string
	Ramps     []Ramp
	Stacks    []Stack
	Themes    []Theme
	FontSizes []FontSize
	Tokens    []Token
	Config    Config
}

// Ramp is a named ordered palette of color steps.
type Ramp struct {
	Name  string
	Steps []ColorValue
}

// ColorValue is either a plain hex scalar or a structured value tagged with
// a color space.
type ColorValue struct {
	Hex    string
	Space  string
	Coords []float64
}

// Stack declares one elevation level.
type Stack struct {
	Name   string `yaml:"name" validate:"required,cf_name"`
	Offset int    `yaml:"offset"`
}

// Theme declares a surface family anchored at one ramp step.
type Theme struct {
	Name     string
	Ramp     string   `yaml:"ramp" validate:"required,cf_name"`
	Step     int      `yaml:"step" validate:"min=0"`
	Fallback []string `yaml:"fallback"`
	Aliases  []string `yaml:"aliases"`
}

// FontSize is a named size class with its pixel value.
type FontSize struct {
	Name string
	Px   float64
}

// Token declares a semantic role.
type Token struct {
	Name      string
	Ramp      string `yaml:"ramp" validate:"required,cf_name"`
	Step      int    `yaml:"step" validate:"min=0"`
	Class     string `yaml:"class" validate:"omitempty,oneof=text ui-component decorative"`
	Overrides []Override
	States    []State
	Vision    []VisionEntry
}

// Override targets a concrete step at a filtered slice of the context
// space. Absent filters are wildcards.
type Override struct {
	Themes    *StringList `yaml:"theme"`
	FontSizes *StringList `yaml:"fontSize"`
	Stacks    *StringList `yaml:"stack"`
	Step      *int        `yaml:"step"`
}

// Specificity is the count of non-wildcard filters, the sole tie-break when
// several overrides reach the same context.
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

// State declares an interaction state as a step plus optional overrides.
type State struct {
	Name      string
	Step      int `yaml:"step" validate:"min=0"`
	Overrides []Override
}

// VisionEntry declares per-vision-mode behavior; omitted fields inherit
// from the base token.
type VisionEntry struct {
	Mode      string
	Ramp      string `yaml:"ramp"`
	Step      *int   `yaml:"step"`
	Overrides []Override
}

// Config carries compilation-wide settings.
type Config struct {
	Level        string    `yaml:"level" validate:"omitempty,oneof=AA AAA"`
	Engine       string    `yaml:"engine" validate:"omitempty,oneof=wcag2 apca"`
	DefaultTheme string    `yaml:"defaultTheme"`
	Strategy     string    `yaml:"strategy" validate:"omitempty,oneof=closest mirror-closest"`
	CVD          CVDConfig `yaml:"cvd"`
}

// CVDConfig tunes or disables the confusion-correction pass.
type CVDConfig struct {
	Disabled        bool     `yaml:"disabled"`
	Distinguishable *float64 `yaml:"distinguishable"`
	Confusion       *float64 `yaml:"confusion"`
	Margin          *float64 `yaml:"margin"`
}

// StringList accepts a scalar or a sequence in YAML.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = StringList(items)
		return nil
	default:
		return fmt.Errorf("expected string or list at line %d", value.Line)
	}
}

// UnmarshalYAML accepts either a hex scalar or a {space, coords} mapping.
func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = ColorValue{Hex: s}
		return nil
	case yaml.MappingNode:
		var structured struct {
			Space  string    `yaml:"space"`
			Coords []float64 `yaml:"coords"`
		}
		if err := value.Decode(&structured); err != nil {
			return err
		}
		*c = ColorValue{Space: structured.Space, Coords: structured.Coords}
		return nil
	default:
		return fmt.Errorf("expected color value at line %d", value.Line)
	}
}

// UnmarshalYAML decodes the document while preserving mapping declaration
// order for ramps, themes, font sizes and tokens.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	type rawSpec struct {
		Version   string    `yaml:"version"`
		Name      string    `yaml:"name"`
		Ramps     yaml.Node `yaml:"ramps"`
		Stacks    []Stack   `yaml:"stacks"`
		Themes    yaml.Node `yaml:"themes"`
		FontSizes yaml.Node `yaml:"fontSizes"`
		Tokens    yaml.Node `yaml:"tokens"`
		Config    Config    `yaml:"config"`
	}

	var raw rawSpec
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Version = raw.Version
	s.Name = raw.Name
	s.Stacks = raw.Stacks
	s.Config = raw.Config

	if err := eachMappingEntry(&raw.Ramps, "ramps", func(name string, node *yaml.Node) error {
		ramp := Ramp{Name: name}
		if node.Kind == yaml.SequenceNode {
			if err := node.Decode(&ramp.Steps); err != nil {
				return err
			}
		} else {
			var body struct {
				Steps []ColorValue `yaml:"steps"`
			}
			if err := node.Decode(&body); err != nil {
				return err
			}
			ramp.Steps = body.Steps
		}
		s.Ramps = append(s.Ramps, ramp)
		return nil
	}); err != nil {
		return err
	}

	if err := eachMappingEntry(&raw.Themes, "themes", func(name string, node *yaml.Node) error {
		theme := Theme{Name: name}
		if err := node.Decode(&theme); err != nil {
			return err
		}
		s.Themes = append(s.Themes, theme)
		return nil
	}); err != nil {
		return err
	}

	if err := eachMappingEntry(&raw.FontSizes, "fontSizes", func(name string, node *yaml.Node) error {
		var px float64
		if err := node.Decode(&px); err != nil {
			return err
		}
		s.FontSizes = append(s.FontSizes, FontSize{Name: name, Px: px})
		return nil
	}); err != nil {
		return err
	}

	return eachMappingEntry(&raw.Tokens, "tokens", func(name string, node *yaml.Node) error {
		token := Token{Name: name}
		if err := token.decode(node); err != nil {
			return err
		}
		s.Tokens = append(s.Tokens, token)
		return nil
	})
}

func (t *Token) decode(value *yaml.Node) error {
	type rawToken struct {
		Ramp      string     `yaml:"ramp"`
		Step      int        `yaml:"step"`
		Class     string     `yaml:"class"`
		Overrides []Override `yaml:"overrides"`
		States    yaml.Node  `yaml:"states"`
		Vision    yaml.Node  `yaml:"vision"`
	}

	var raw rawToken
	if err := value.Decode(&raw); err != nil {
		return err
	}

	t.Ramp = raw.Ramp
	t.Step = raw.Step
	t.Class = raw.Class
	if t.Class == "" {
		t.Class = "text"
	}
	t.Overrides = raw.Overrides

	if err := eachMappingEntry(&raw.States, "states", func(name string, node *yaml.Node) error {
		state := State{Name: name}
		if err := node.Decode(&state); err != nil {
			return err
		}
		t.States = append(t.States, state)
		return nil
	}); err != nil {
		return err
	}

	return eachMappingEntry(&raw.Vision, "vision", func(name string, node *yaml.Node) error {
		entry := VisionEntry{Mode: name}
		if err := node.Decode(&entry); err != nil {
			return err
		}
		t.Vision = append(t.Vision, entry)
		return nil
	})
}

func eachMappingEntry(node *yaml.Node, section string, fn func(name string, value *yaml.Node) error) error {
	if node == nil || node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s must be a mapping (line %d)", section, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		if err := fn(name, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
