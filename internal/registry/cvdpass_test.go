package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colorforge/colorforge/internal/spec"
)

func f64(v float64) *float64 { return &v }

// statusSpec pairs a red and a green token that are clearly distinct in
// normal vision but nearly indistinguishable under deuteranopia.
func statusSpec(mutate func(*spec.Spec)) *spec.Spec {
	s := &spec.Spec{
		Version: "1",
		Ramps: []spec.Ramp{
			{Name: "neutral", Steps: hexSteps(neutralHexes)},
			{Name: "red", Steps: hexSteps([]string{
				"#fecaca", "#f87171", "#dc2626", "#991b1b", "#7f1d1d",
			})},
			{Name: "green", Steps: hexSteps([]string{
				"#bbf7d0", "#4ade80", "#16a34a", "#15803d", "#14532d",
			})},
		},
		Stacks: []spec.Stack{{Name: "root", Offset: 0}},
		Themes: []spec.Theme{{Name: "white", Ramp: "neutral", Step: 0}},
		FontSizes: []spec.FontSize{
			{Name: "body", Px: 16},
		},
		Tokens: []spec.Token{
			{Name: "fgError", Ramp: "red", Step: 2, Class: "ui-component"},
			{Name: "fgSuccess", Ramp: "green", Step: 2, Class: "ui-component"},
		},
		Config: spec.Config{
			CVD: spec.CVDConfig{Confusion: f64(6)},
		},
	}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func TestCVDPassCorrectsConfusedPair(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, statusSpec(nil))

	t.Run("defaults keep the declared steps", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 2, r.Variants[key("fgError", "body", "white", "root", VisionDefault)].Step)
		require.Equal(t, 2, r.Variants[key("fgSuccess", "body", "white", "root", VisionDefault)].Step)
	})

	t.Run("deuteranopia substitutes separated passing steps", func(t *testing.T) {
		t.Parallel()

		fe := r.Variants[key("fgError", "body", "white", "root", "deuteranopia")]
		require.Equal(t, 4, fe.Step)
		require.Equal(t, "#7f1d1d", fe.Hex)
		require.True(t, fe.Evaluation.Pass)

		fs := r.Variants[key("fgSuccess", "body", "white", "root", "deuteranopia")]
		require.Equal(t, 4, fs.Step)
		require.Equal(t, "#14532d", fs.Hex)
		require.True(t, fs.Evaluation.Pass)
	})

	t.Run("unconfused deficiencies produce no variants", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Variants[key("fgError", "body", "white", "root", "protanopia")]
		require.False(t, ok)
		_, ok = r.Variants[key("fgError", "body", "white", "root", "tritanopia")]
		require.False(t, ok)
	})
}

func TestCVDPassRespectsDeclaredVision(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, statusSpec(func(s *spec.Spec) {
		s.Tokens[1].Vision = []spec.VisionEntry{
			{Mode: "deuteranopia", Ramp: "green", Step: intPtr(0)},
		}
	}))

	// The declared entry resolves through the solver (step 0 fails on
	// white, the nearest darker passing step is 2) and is never replaced
	// by the correction pass.
	fs := r.Variants[key("fgSuccess", "body", "white", "root", "deuteranopia")]
	require.Equal(t, 2, fs.Step)
	require.Equal(t, "#16a34a", fs.Hex)

	// The partner token is still auto-corrected.
	fe := r.Variants[key("fgError", "body", "white", "root", "deuteranopia")]
	require.Equal(t, 4, fe.Step)
}

func TestCVDPassDisabled(t *testing.T) {
	t.Parallel()

	r := buildFixture(t, statusSpec(func(s *spec.Spec) {
		s.Config.CVD.Disabled = true
	}))

	for k := range r.Variants {
		require.Equal(t, VisionDefault, k.Vision)
	}
}

func intPtr(v int) *int { return &v }
