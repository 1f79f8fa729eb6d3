package spec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func baseSpec() *Spec {
	return &Spec{
		Version: "1",
		Ramps: []Ramp{
			{Name: "neutral", Steps: []ColorValue{{Hex: "#fafafa"}, {Hex: "#525252"}, {Hex: "#171717"}}},
		},
		Themes: []Theme{
			{Name: "white", Ramp: "neutral", Step: 0},
		},
		Tokens: []Token{
			{Name: "fgPrimary", Ramp: "neutral", Step: 2, Class: "text"},
		},
	}
}

func TestValidateAcceptsMinimalSpec(t *testing.T) {
	t.Parallel()

	require.Empty(t, Validate(baseSpec()))
}

func TestValidateNilSpec(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"spec is nil"}, Validate(nil))
}

func TestValidateProblems(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Spec)
		message string
	}{
		{
			name:    "missing version",
			mutate:  func(s *Spec) { s.Version = "" },
			message: "version is required",
		},
		{
			name:    "no ramps",
			mutate:  func(s *Spec) { s.Ramps = nil },
			message: "ramps must declare at least one ramp",
		},
		{
			name: "bad color step",
			mutate: func(s *Spec) {
				s.Ramps[0].Steps[1] = ColorValue{Hex: "#zzz"}
			},
			message: "ramps.neutral.steps[1] is not a valid color",
		},
		{
			name: "unknown space",
			mutate: func(s *Spec) {
				s.Ramps[0].Steps[1] = ColorValue{Space: "cmyk", Coords: []float64{0, 0, 0}}
			},
			message: "ramps.neutral.steps[1] is not a valid color",
		},
		{
			name: "stacks without root",
			mutate: func(s *Spec) {
				s.Stacks = []Stack{{Name: "raised", Offset: 1}}
			},
			message: "stacks must include root",
		},
		{
			name: "theme step out of bounds",
			mutate: func(s *Spec) {
				s.Themes[0].Step = 9
			},
			message: "themes.white.step 9 is out of bounds",
		},
		{
			name: "theme unknown ramp",
			mutate: func(s *Spec) {
				s.Themes[0].Ramp = "ghost"
			},
			message: `themes.white references unknown ramp "ghost"`,
		},
		{
			name: "alias collides with theme",
			mutate: func(s *Spec) {
				s.Themes[0].Aliases = []string{"white"}
			},
			message: `themes.white.aliases "white" collides with a declared theme`,
		},
		{
			name: "duplicate token",
			mutate: func(s *Spec) {
				s.Tokens = append(s.Tokens, s.Tokens[0])
			},
			message: "tokens.fgPrimary is declared twice",
		},
		{
			name: "override without step",
			mutate: func(s *Spec) {
				s.Tokens[0].Overrides = []Override{{}}
			},
			message: "tokens.fgPrimary.overrides[0].step is required",
		},
		{
			name: "override step out of bounds",
			mutate: func(s *Spec) {
				s.Tokens[0].Overrides = []Override{{Step: intPtr(7)}}
			},
			message: "tokens.fgPrimary.overrides[0].step 7 is out of bounds",
		},
		{
			name: "override filter references unknown theme",
			mutate: func(s *Spec) {
				filter := StringList{"sepia"}
				s.Tokens[0].Overrides = []Override{{Themes: &filter, Step: intPtr(1)}}
			},
			message: `tokens.fgPrimary.overrides[0].theme references unknown value "sepia"`,
		},
		{
			name: "unknown vision mode",
			mutate: func(s *Spec) {
				s.Tokens[0].Vision = []VisionEntry{{Mode: "monochrome"}}
			},
			message: "tokens.fgPrimary.vision.monochrome is not a recognized vision mode",
		},
		{
			name: "state step out of bounds",
			mutate: func(s *Spec) {
				s.Tokens[0].States = []State{{Name: "hover", Step: 5}}
			},
			message: "tokens.fgPrimary.states.hover.step 5 is out of bounds",
		},
		{
			name: "config default theme unknown",
			mutate: func(s *Spec) {
				s.Config.DefaultTheme = "sepia"
			},
			message: `config.defaultTheme references unknown theme "sepia"`,
		},
		{
			name: "negative cvd threshold",
			mutate: func(s *Spec) {
				v := -1.0
				s.Config.CVD.Confusion = &v
			},
			message: "config.cvd.confusion must not be negative",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := baseSpec()
			tc.mutate(s)
			require.Contains(t, Validate(s), tc.message)
		})
	}
}

func TestValidateTokenClassEnum(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Tokens[0].Class = "ornamental"

	problems := Validate(s)
	require.Len(t, problems, 1)
	require.Contains(t, problems[0], "tokens.fgPrimary")
	require.Contains(t, problems[0], "Class")
}
