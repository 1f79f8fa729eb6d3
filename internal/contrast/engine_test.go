package contrast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 21, Ratio("#000000", "#ffffff"), 0.01)
	require.InDelta(t, 21, Ratio("#ffffff", "#000000"), 0.01)
	require.InDelta(t, 1, Ratio("#808080", "#808080"), 0.001)
	require.InDelta(t, 4.54, Ratio("#767676", "#ffffff"), 0.05)
}

func TestWCAGEvaluate(t *testing.T) {
	t.Parallel()

	engine := WCAG{}

	cases := []struct {
		name string
		fg   string
		bg   string
		ctx  Context
		pass bool
	}{
		{
			name: "black on white AA text passes",
			fg:   "#000000", bg: "#ffffff",
			ctx:  Context{Class: ClassText, Level: LevelAA, FontSizePx: 16},
			pass: true,
		},
		{
			name: "mid gray on white AA text fails",
			fg:   "#999999", bg: "#ffffff",
			ctx:  Context{Class: ClassText, Level: LevelAA, FontSizePx: 16},
			pass: false,
		},
		{
			name: "large text gets the relaxed 3:1 bar",
			fg:   "#767676", bg: "#ffffff",
			ctx:  Context{Class: ClassText, Level: LevelAA, FontSizePx: 24},
			pass: true,
		},
		{
			name: "AAA normal text needs 7:1",
			fg:   "#767676", bg: "#ffffff",
			ctx:  Context{Class: ClassText, Level: LevelAAA, FontSizePx: 16},
			pass: false,
		},
		{
			name: "ui components ignore font size",
			fg:   "#767676", bg: "#ffffff",
			ctx:  Context{Class: ClassUIComponent, Level: LevelAA, FontSizePx: 11},
			pass: true,
		},
		{
			name: "decorative is exempt",
			fg:   "#ffffff", bg: "#ffffff",
			ctx:  Context{Class: ClassDecorative, Level: LevelAAA, FontSizePx: 11},
			pass: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			eval := engine.Evaluate(tc.fg, tc.bg, tc.ctx)
			require.Equal(t, tc.pass, eval.Pass)
			if tc.ctx.Class == ClassDecorative {
				require.Equal(t, "wcag-exempt", eval.Metric)
				require.Zero(t, eval.Value)
			} else {
				require.Equal(t, "wcag2-ratio", eval.Metric)
				require.Greater(t, eval.Threshold, 0.0)
			}
		})
	}
}

func TestWCAGThresholdsMonotonicAcrossLevels(t *testing.T) {
	t.Parallel()

	for _, class := range []TargetClass{ClassText, ClassUIComponent} {
		for _, px := range []float64{12, 16, 24, 32} {
			aa := wcagRequired(Context{Class: class, Level: LevelAA, FontSizePx: px})
			aaa := wcagRequired(Context{Class: class, Level: LevelAAA, FontSizePx: px})
			require.GreaterOrEqual(t, aaa, aa, "class %s px %v", class, px)
		}
	}
}

func TestWCAGPreferredDirection(t *testing.T) {
	t.Parallel()

	require.Equal(t, DirectionDarker, WCAG{}.PreferredDirection("#ffffff"))
	require.Equal(t, DirectionLighter, WCAG{}.PreferredDirection("#171717"))
}

func TestAPCALc(t *testing.T) {
	t.Parallel()

	// Black on white is the canonical maximum, roughly 106.
	require.InDelta(t, 106, Lc("#000000", "#ffffff"), 2)

	// Reverse polarity is negative and slightly stronger in magnitude.
	reverse := Lc("#ffffff", "#000000")
	require.Less(t, reverse, -100.0)

	// Identical colors sit in the dead zone.
	require.Zero(t, Lc("#808080", "#808080"))
}

func TestAPCAEvaluate(t *testing.T) {
	t.Parallel()

	engine := APCA{}

	eval := engine.Evaluate("#000000", "#ffffff", Context{Class: ClassText, Level: LevelAA, FontSizePx: 16})
	require.True(t, eval.Pass)
	require.Equal(t, "apca-lc", eval.Metric)
	require.Equal(t, DarkOnLight, eval.Polarity)

	eval = engine.Evaluate("#ffffff", "#171717", Context{Class: ClassText, Level: LevelAA, FontSizePx: 16})
	require.True(t, eval.Pass)
	require.Equal(t, LightOnDark, eval.Polarity)

	// Small text is held to a higher bar than large text.
	small := engine.Evaluate("#6b6b6b", "#ffffff", Context{Class: ClassText, Level: LevelAA, FontSizePx: 12})
	large := engine.Evaluate("#6b6b6b", "#ffffff", Context{Class: ClassText, Level: LevelAA, FontSizePx: 28})
	require.Greater(t, small.Threshold, large.Threshold)

	exempted := engine.Evaluate("#ffffff", "#ffffff", Context{Class: ClassDecorative, Level: LevelAA})
	require.True(t, exempted.Pass)
	require.Equal(t, "wcag-exempt", exempted.Metric)
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := New("wcag2")
	require.NoError(t, err)
	require.Equal(t, "wcag2", engine.ID())

	engine, err = New("apca")
	require.NoError(t, err)
	require.Equal(t, "apca", engine.ID())

	engine, err = New("")
	require.NoError(t, err)
	require.Equal(t, "wcag2", engine.ID())

	_, err = New("sapc")
	require.Error(t, err)
}

func TestEnginesImplementDirectionHinter(t *testing.T) {
	t.Parallel()

	for _, id := range []string{EngineWCAG, EngineAPCA} {
		engine, err := New(id)
		require.NoError(t, err)

		hinter, ok := engine.(DirectionHinter)
		require.True(t, ok, "engine %s", id)
		require.Equal(t, DirectionDarker, hinter.PreferredDirection("#ffffff"))
	}
}
