package color

// Deficiency names one of the four simulated color-vision deficiencies.
type Deficiency string

const (
	Protanopia    Deficiency = "protanopia"
	Deuteranopia  Deficiency = "deuteranopia"
	Tritanopia    Deficiency = "tritanopia"
	Achromatopsia Deficiency = "achromatopsia"
)

// Deficiencies is the fixed set the registry builder iterates, in a stable
// order.
var Deficiencies = []Deficiency{Protanopia, Deuteranopia, Tritanopia, Achromatopsia}

// KnownDeficiency reports whether name is one of the simulated deficiencies.
func KnownDeficiency(name string) bool {
	switch Deficiency(name) {
	case Protanopia, Deuteranopia, Tritanopia, Achromatopsia:
		return true
	}
	return false
}

// Hunt-Pointer-Estevez LMS transform folded with the XYZ matrix into a
// single linear-RGB step, and its inverse. The collapse coefficients below
// are fit to exactly this scaling, so the neutral axis is preserved.
var (
	rgbToLMS = matrix{
		{17.8824, 43.5161, 4.11935},
		{3.45565, 27.1554, 3.86714},
		{0.0299566, 0.184309, 1.46709},
	}
	lmsToRGB = matrix{
		{0.0809444479, -0.130504409, 0.116721066},
		{-0.0102485335, 0.0540193266, -0.113614708},
		{-0.000365296938, -0.00412161469, 0.693511405},
	}
)

// Viénot/Brettel collapse matrices: each dichromacy loses one cone class and
// the missing response is reconstructed from the remaining two.
var cvdCollapse = map[Deficiency]matrix{
	Protanopia: {
		{0, 2.02344, -2.52581},
		{0, 1, 0},
		{0, 0, 1},
	},
	Deuteranopia: {
		{1, 0, 0},
		{0.494207, 0, 1.24827},
		{0, 0, 1},
	},
	Tritanopia: {
		{1, 0, 0},
		{0, 1, 0},
		{-0.395913, 0.801109, 0},
	},
}

// Simulate renders a hex color as a viewer with the given deficiency would
// see it, returning canonical gamut-clamped hex. Achromatopsia zeroes OKLab
// chroma while preserving lightness; the dichromacies project through the
// LMS collapse. Unknown deficiencies return the color unchanged.
func Simulate(hex string, d Deficiency) string {
	c, ok := ParseHex(hex)
	if !ok {
		return hex
	}

	if d == Achromatopsia {
		lab := RGBToOKLab(c)
		return OKLabToRGB(OKLab{L: lab.L}).Hex()
	}

	collapse, ok := cvdCollapse[d]
	if !ok {
		return c.Hex()
	}

	l, m, s := rgbToLMS.apply(srgbLinearize(c.R), srgbLinearize(c.G), srgbLinearize(c.B))
	l, m, s = collapse.apply(l, m, s)
	r, g, b := lmsToRGB.apply(l, m, s)

	return fromLinear(r, g, b).Hex()
}
