package spec

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/colorforge/colorforge/internal/color"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("cf_name", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate runs the structural boundary checks and returns a flat list of
// path-qualified messages. An empty slice means the spec may enter the
// compiler; the compiler still re-derives cross-reference integrity it
// cannot delegate.
func Validate(s *Spec) []string {
	if s == nil {
		return []string{"spec is nil"}
	}

	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if s.Version == "" {
		report("version is required")
	}

	rampLen := validateRamps(s, report)
	stacks := validateStacks(s, report)
	themes := validateThemes(s, rampLen, report)
	sizes := validateFontSizes(s, report)
	validateTokens(s, rampLen, themes, sizes, stacks, report)
	validateConfig(s, themes, report)

	return problems
}

func validateRamps(s *Spec, report func(string, ...any)) map[string]int {
	rampLen := make(map[string]int, len(s.Ramps))

	if len(s.Ramps) == 0 {
		report("ramps must declare at least one ramp")
	}

	for _, ramp := range s.Ramps {
		if !namePattern.MatchString(ramp.Name) {
			report("ramps.%s is not a valid name", ramp.Name)
		}
		if _, dup := rampLen[ramp.Name]; dup {
			report("ramps.%s is declared twice", ramp.Name)
			continue
		}
		if len(ramp.Steps) == 0 {
			report("ramps.%s has no steps", ramp.Name)
		}
		for i, step := range ramp.Steps {
			if !validColorValue(step) {
				report("ramps.%s.steps[%d] is not a valid color", ramp.Name, i)
			}
		}
		rampLen[ramp.Name] = len(ramp.Steps)
	}

	return rampLen
}

func validColorValue(c ColorValue) bool {
	if c.Hex != "" {
		_, ok := color.ParseHex(c.Hex)
		return ok
	}
	return color.KnownSpace(c.Space) && len(c.Coords) == 3
}

func validateStacks(s *Spec, report func(string, ...any)) map[string]struct{} {
	stacks := make(map[string]struct{}, len(s.Stacks))

	for i, stack := range s.Stacks {
		if err := validatorInstance().Struct(stack); err != nil {
			report("stacks[%d] %s", i, describeFieldErrors(err))
			continue
		}
		if _, dup := stacks[stack.Name]; dup {
			report("stacks.%s is declared twice", stack.Name)
			continue
		}
		stacks[stack.Name] = struct{}{}
	}

	if len(s.Stacks) > 0 {
		if _, ok := stacks["root"]; !ok {
			report("stacks must include root")
		}
	}

	return stacks
}

func validateThemes(s *Spec, rampLen map[string]int, report func(string, ...any)) map[string]struct{} {
	themes := make(map[string]struct{}, len(s.Themes))

	for _, theme := range s.Themes {
		if !namePattern.MatchString(theme.Name) {
			report("themes.%s is not a valid name", theme.Name)
		}
		if _, dup := themes[theme.Name]; dup {
			report("themes.%s is declared twice", theme.Name)
			continue
		}
		themes[theme.Name] = struct{}{}

		if err := validatorInstance().Struct(theme); err != nil {
			report("themes.%s %s", theme.Name, describeFieldErrors(err))
			continue
		}

		length, known := rampLen[theme.Ramp]
		if !known {
			report("themes.%s references unknown ramp %q", theme.Name, theme.Ramp)
			continue
		}
		if theme.Step < 0 || theme.Step >= length {
			report("themes.%s.step %d is out of bounds", theme.Name, theme.Step)
		}
	}

	// Aliases join the referenceable set: filters and defaultTheme may
	// name an alias, which the compiler canonicalizes.
	for _, theme := range s.Themes {
		for _, alias := range theme.Aliases {
			if _, clash := themes[alias]; clash {
				report("themes.%s.aliases %q collides with a declared theme", theme.Name, alias)
				continue
			}
			themes[alias] = struct{}{}
		}
	}

	return themes
}

func validateFontSizes(s *Spec, report func(string, ...any)) map[string]struct{} {
	sizes := make(map[string]struct{}, len(s.FontSizes))

	for _, fs := range s.FontSizes {
		if !namePattern.MatchString(fs.Name) {
			report("fontSizes.%s is not a valid name", fs.Name)
		}
		if fs.Px <= 0 {
			report("fontSizes.%s must be a positive pixel value", fs.Name)
		}
		sizes[fs.Name] = struct{}{}
	}

	return sizes
}

func validateTokens(s *Spec, rampLen map[string]int, themes, sizes, stacks map[string]struct{}, report func(string, ...any)) {
	seen := make(map[string]struct{}, len(s.Tokens))

	for _, token := range s.Tokens {
		path := "tokens." + token.Name

		if !namePattern.MatchString(token.Name) {
			report("%s is not a valid name", path)
		}
		if _, dup := seen[token.Name]; dup {
			report("%s is declared twice", path)
			continue
		}
		seen[token.Name] = struct{}{}

		if err := validatorInstance().Struct(token); err != nil {
			report("%s %s", path, describeFieldErrors(err))
			continue
		}

		length, known := rampLen[token.Ramp]
		if !known {
			report("%s references unknown ramp %q", path, token.Ramp)
			continue
		}
		if token.Step < 0 || token.Step >= length {
			report("%s.step %d is out of bounds", path, token.Step)
		}

		validateOverrides(token.Overrides, path+".overrides", length, themes, sizes, stacks, report)

		for _, state := range token.States {
			statePath := fmt.Sprintf("%s.states.%s", path, state.Name)
			if !namePattern.MatchString(state.Name) {
				report("%s is not a valid name", statePath)
			}
			if state.Step < 0 || state.Step >= length {
				report("%s.step %d is out of bounds", statePath, state.Step)
			}
			validateOverrides(state.Overrides, statePath+".overrides", length, themes, sizes, stacks, report)
		}

		for _, entry := range token.Vision {
			visionPath := fmt.Sprintf("%s.vision.%s", path, entry.Mode)
			if !color.KnownDeficiency(entry.Mode) {
				report("%s is not a recognized vision mode", visionPath)
				continue
			}

			visionLen := length
			if entry.Ramp != "" {
				l, ok := rampLen[entry.Ramp]
				if !ok {
					report("%s references unknown ramp %q", visionPath, entry.Ramp)
					continue
				}
				visionLen = l
			}
			if entry.Step != nil && (*entry.Step < 0 || *entry.Step >= visionLen) {
				report("%s.step %d is out of bounds", visionPath, *entry.Step)
			}
			validateOverrides(entry.Overrides, visionPath+".overrides", visionLen, themes, sizes, stacks, report)
		}
	}
}

func validateOverrides(overrides []Override, path string, rampLen int, themes, sizes, stacks map[string]struct{}, report func(string, ...any)) {
	for i, ov := range overrides {
		ovPath := fmt.Sprintf("%s[%d]", path, i)

		if ov.Step == nil {
			report("%s.step is required", ovPath)
		} else if *ov.Step < 0 || *ov.Step >= rampLen {
			report("%s.step %d is out of bounds", ovPath, *ov.Step)
		}

		checkFilter(ov.Themes, themes, ovPath+".theme", report)
		checkFilter(ov.FontSizes, sizes, ovPath+".fontSize", report)
		checkFilter(ov.Stacks, stacks, ovPath+".stack", report)
	}
}

// checkFilter verifies every filter member names a declared dimension value.
// Stack filters against an empty declared set are legal: the built-in
// default stacks only materialize at compile time.
func checkFilter(filter *StringList, declared map[string]struct{}, path string, report func(string, ...any)) {
	if filter == nil || len(declared) == 0 {
		return
	}
	for _, name := range *filter {
		if _, ok := declared[name]; !ok {
			report("%s references unknown value %q", path, name)
		}
	}
}

func validateConfig(s *Spec, themes map[string]struct{}, report func(string, ...any)) {
	if err := validatorInstance().Struct(s.Config); err != nil {
		report("config %s", describeFieldErrors(err))
	}

	if s.Config.DefaultTheme != "" {
		if _, ok := themes[s.Config.DefaultTheme]; !ok {
			report("config.defaultTheme references unknown theme %q", s.Config.DefaultTheme)
		}
	}

	for name, v := range map[string]*float64{
		"config.cvd.distinguishable": s.Config.CVD.Distinguishable,
		"config.cvd.confusion":       s.Config.CVD.Confusion,
		"config.cvd.margin":          s.Config.CVD.Margin,
	} {
		if v != nil && *v < 0 {
			report("%s must not be negative", name)
		}
	}
}

func describeFieldErrors(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err.Error()
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of: %s", fe.Field(), fe.Param())
	case "cf_name":
		return fmt.Sprintf("field %s is not a valid name", fe.Field())
	case "min":
		return fmt.Sprintf("field %s is below the minimum %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag())
	}
}
