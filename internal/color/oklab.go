package color

import "math"

// OKLab is a perceptually uniform color, lightness in [0, 1].
type OKLab struct {
	L float64
	A float64
	B float64
}

// OKLCH is the polar form of OKLab; hue in degrees.
type OKLCH struct {
	L float64
	C float64
	H float64
}

// RGBToOKLab converts an sRGB color through linear RGB and the LMS cube-root
// stage into OKLab (Ottosson's combined matrices).
func RGBToOKLab(c RGB) OKLab {
	r := srgbLinearize(c.R)
	g := srgbLinearize(c.G)
	b := srgbLinearize(c.B)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return OKLab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

// OKLabToRGB converts OKLab back to gamut-clamped sRGB.
func OKLabToRGB(lab OKLab) RGB {
	l := lab.L + 0.3963377774*lab.A + 0.2158037573*lab.B
	m := lab.L - 0.1055613458*lab.A - 0.0638541728*lab.B
	s := lab.L - 0.0894841775*lab.A - 1.2914855480*lab.B

	l, m, s = l*l*l, m*m*m, s*s*s

	return fromLinear(
		4.0767416621*l-3.3077115913*m+0.2309699292*s,
		-1.2684380046*l+2.6097574011*m-0.3413193965*s,
		-0.0041960863*l-0.7034186147*m+1.7076147010*s,
	)
}

// ToOKLCH converts to the polar form. Hue is normalized to [0, 360).
func (lab OKLab) ToOKLCH() OKLCH {
	h := math.Atan2(lab.B, lab.A) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return OKLCH{
		L: lab.L,
		C: math.Hypot(lab.A, lab.B),
		H: h,
	}
}

// HexToOKLCH is a convenience for the compiler's per-step precomputation.
// An unparseable hex yields the zero triple.
func HexToOKLCH(hex string) OKLCH {
	c, ok := ParseHex(hex)
	if !ok {
		return OKLCH{}
	}
	return RGBToOKLab(c).ToOKLCH()
}

// Distance is the Euclidean distance between two hex colors in OKLab,
// scaled by 100 so thresholds in the 1-20 range are meaningful.
// Unparseable inputs degrade to black.
func Distance(hexA, hexB string) float64 {
	a, _ := ParseHex(hexA)
	b, _ := ParseHex(hexB)

	la := RGBToOKLab(a)
	lb := RGBToOKLab(b)

	dl := la.L - lb.L
	da := la.A - lb.A
	db := la.B - lb.B
	return math.Sqrt(dl*dl+da*da+db*db) * 100
}
