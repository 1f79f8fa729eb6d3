package registry

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/logger"
	"github.com/colorforge/colorforge/internal/spec"
)

var neutralHexes = []string{
	"#fafafa", "#f5f5f5", "#e5e5e5", "#d4d4d4", "#a3a3a3",
	"#737373", "#525252", "#404040", "#262626", "#171717",
}

func hexSteps(hexes []string) []spec.ColorValue {
	steps := make([]spec.ColorValue, 0, len(hexes))
	for _, h := range hexes {
		steps = append(steps, spec.ColorValue{Hex: h})
	}
	return steps
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(logger.Options{Level: "error", Writer: io.Discard})
	require.NoError(t, err)
	return log
}

// neutralSpec is the shared fixture: a light and a dark theme on one
// neutral ramp, a primary text token with a hover state.
func neutralSpec(mutate func(*spec.Spec)) *spec.Spec {
	s := &spec.Spec{
		Version: "1",
		Ramps:   []spec.Ramp{{Name: "neutral", Steps: hexSteps(neutralHexes)}},
		Stacks: []spec.Stack{
			{Name: "root", Offset: 0},
			{Name: "raised", Offset: 1},
		},
		Themes: []spec.Theme{
			{Name: "white", Ramp: "neutral", Step: 0, Fallback: []string{"dark"}},
			{Name: "dark", Ramp: "neutral", Step: 8, Aliases: []string{"night"}},
		},
		FontSizes: []spec.FontSize{
			{Name: "body", Px: 16},
			{Name: "large", Px: 24},
		},
		Tokens: []spec.Token{
			{
				Name:   "fgPrimary",
				Ramp:   "neutral",
				Step:   8,
				Class:  "text",
				States: []spec.State{{Name: "hover", Step: 9}},
			},
		},
	}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func buildFixture(t *testing.T, s *spec.Spec) *Registry {
	t.Helper()

	c, err := compile.Compile(s, testLogger(t))
	require.NoError(t, err)

	r, err := Build(c, testLogger(t))
	require.NoError(t, err)
	return r
}

func key(token, fontSize, theme, stack, vision string) VariantKey {
	return VariantKey{Token: token, FontSize: fontSize, Theme: theme, Stack: stack, Vision: vision}
}

func TestBuildDefaultVariants(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(nil))

	t.Run("passing contexts keep the declared step", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "body", "white", "root", VisionDefault)]
		require.Equal(t, 8, v.Step)
		require.Equal(t, "#262626", v.Hex)
		require.True(t, v.Evaluation.Pass)
	})

	t.Run("dark theme resolves to a lighter passing step", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "body", "dark", "root", VisionDefault)]
		require.Equal(t, 4, v.Step)
		require.Equal(t, "#a3a3a3", v.Hex)
		require.True(t, v.Evaluation.Pass)
		require.NotEqual(t, r.Variants[key("fgPrimary", "body", "white", "root", VisionDefault)].Hex, v.Hex)
	})

	t.Run("large text relaxes the threshold", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "large", "dark", "root", VisionDefault)]
		require.Equal(t, 5, v.Step)
		require.True(t, v.Evaluation.Pass)
	})

	t.Run("elevated surfaces get their own solution", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "body", "dark", "raised", VisionDefault)]
		require.Equal(t, 3, v.Step)
		require.Equal(t, "#d4d4d4", v.Hex)
		require.True(t, v.Evaluation.Pass)
	})

	t.Run("every generated variant passes", func(t *testing.T) {
		t.Parallel()

		require.NotEmpty(t, r.Variants)
		for k, v := range r.Variants {
			require.True(t, v.Evaluation.Pass, "variant %s resolved to failing step %d", k, v.Step)
		}
	})

	t.Run("defaults record the declared anchors", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "#262626", r.Defaults["fgPrimary"])
		require.Equal(t, "#171717", r.Defaults["fgPrimary-hover"])
	})
}

func TestBuildStateVariants(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(nil))

	t.Run("delta applies on dark-elevating themes", func(t *testing.T) {
		t.Parallel()

		base := r.Variants[key("fgPrimary", "body", "white", "root", VisionDefault)]
		hover := r.Variants[key("fgPrimary-hover", "body", "white", "root", VisionDefault)]
		require.Equal(t, base.Step+1, hover.Step)
		require.Equal(t, "#171717", hover.Hex)
	})

	t.Run("delta negates on light-elevating themes", func(t *testing.T) {
		t.Parallel()

		base := r.Variants[key("fgPrimary", "body", "dark", "root", VisionDefault)]
		hover := r.Variants[key("fgPrimary-hover", "body", "dark", "root", VisionDefault)]
		require.Equal(t, base.Step-1, hover.Step)
		require.Equal(t, "#d4d4d4", hover.Hex)

		raised := r.Variants[key("fgPrimary-hover", "body", "dark", "raised", VisionDefault)]
		require.Equal(t, 2, raised.Step)
	})

	t.Run("derived steps clamp to the ramp", func(t *testing.T) {
		t.Parallel()

		clamped := buildFixture(t, neutralSpec(func(s *spec.Spec) {
			s.Tokens[0].Step = 9
			s.Tokens[0].States = []spec.State{{Name: "hover", Step: 9}}
		}))

		// Token step 9 with a zero delta still lands in bounds, and the
		// dark theme's lighter-shifted base never pushes hover past 0.
		for k, v := range clamped.Variants {
			require.GreaterOrEqual(t, v.Step, 0, "variant %s", k)
			require.LessOrEqual(t, v.Step, 9, "variant %s", k)
		}
	})
}

func TestBuildManualOverrides(t *testing.T) {
	t.Parallel()

	darkThemes := spec.StringList{"dark"}
	r := buildFixture(t, neutralSpec(func(s *spec.Spec) {
		s.Tokens[0].Overrides = []spec.Override{{Themes: &darkThemes, Step: intPtr(7)}}
	}))

	t.Run("override wins over the solver", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "body", "dark", "root", VisionDefault)]
		require.Equal(t, 7, v.Step)
		require.Equal(t, "#404040", v.Hex)
		require.False(t, v.Evaluation.Pass)
	})

	t.Run("failing override surfaces a warning", func(t *testing.T) {
		t.Parallel()

		var codes []string
		for _, w := range r.Warnings {
			codes = append(codes, w.Code)
		}
		require.Contains(t, codes, "override-compliance")
	})

	t.Run("other themes stay solver-resolved", func(t *testing.T) {
		t.Parallel()

		v := r.Variants[key("fgPrimary", "body", "white", "root", VisionDefault)]
		require.Equal(t, 8, v.Step)
		require.True(t, v.Evaluation.Pass)
	})
}

func TestStackRelaxationOrder(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(func(s *spec.Spec) {
		s.Stacks = []spec.Stack{
			{Name: "root", Offset: 0},
			{Name: "raised", Offset: 1},
			{Name: "overlay", Offset: 2},
			{Name: "sunken", Offset: -1},
		}
	}))

	require.Equal(t, map[string]string{
		"raised":  "root",
		"overlay": "raised",
		"sunken":  "root",
	}, r.StackRelax)
}

func TestBuildMeta(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(nil))

	require.Equal(t, RegistryVersion, r.Meta.Version)
	require.Equal(t, "wcag2", r.Meta.Engine)
	require.Equal(t, "AA", string(r.Meta.Level))
	require.False(t, r.Meta.BuiltAt.IsZero())
	require.Equal(t, 1, r.Meta.TokenCount)
	// fgPrimary and its derived hover across 2 themes, 2 sizes, 2 stacks.
	require.Equal(t, 16, r.Meta.VariantCount)
	require.Len(t, r.Variants, 16)
	require.NotEmpty(t, r.Meta.ContentHash)
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := buildFixture(t, neutralSpec(nil))
	b := buildFixture(t, neutralSpec(nil))
	require.Equal(t, a.Meta.ContentHash, b.Meta.ContentHash, "equivalent inputs share a hash")

	c := buildFixture(t, neutralSpec(func(s *spec.Spec) {
		s.Ramps[0].Steps[0] = spec.ColorValue{Hex: "#ffffff"}
	}))
	require.NotEqual(t, a.Meta.ContentHash, c.Meta.ContentHash, "changed ramp changes the hash")
}

func TestThemeNameFollowsAliases(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(nil))

	require.Equal(t, "dark", r.ThemeName("night"))
	require.Equal(t, "dark", r.ThemeName("dark"))
	require.Equal(t, "unknown", r.ThemeName("unknown"))
}

func TestTokenNames(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, neutralSpec(nil))

	require.Equal(t, []string{"fgPrimary", "fgPrimary-hover"}, r.TokenNames())
}

func TestVariantKeyRoundTrip(t *testing.T) {
	t.Parallel()

	k := key("fgPrimary", "body", "dark", "root", "deuteranopia")
	parsed, ok := ParseVariantKey(k.String())
	require.True(t, ok)
	require.Equal(t, k, parsed)

	_, ok = ParseVariantKey("too|few|parts")
	require.False(t, ok)
}
