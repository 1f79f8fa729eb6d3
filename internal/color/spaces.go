package color

import (
	"math"
	"strings"
)

// Space identifies one of the supported input color spaces.
type Space string

const (
	SpaceSRGB       Space = "srgb"
	SpaceSRGBLinear Space = "srgb-linear"
	SpaceHSL        Space = "hsl"
	SpaceHWB        Space = "hwb"
	SpaceLab        Space = "lab"
	SpaceLCH        Space = "lch"
	SpaceOKLab      Space = "oklab"
	SpaceOKLCH      Space = "oklch"
	SpaceDisplayP3  Space = "display-p3"
	SpaceA98        Space = "a98-rgb"
	SpaceProPhoto   Space = "prophoto-rgb"
	SpaceRec2020    Space = "rec2020"
	SpaceXYZD65     Space = "xyz-d65"
	SpaceXYZD50     Space = "xyz-d50"
)

// KnownSpace reports whether name identifies a supported space.
func KnownSpace(name string) bool {
	switch Space(strings.ToLower(name)) {
	case SpaceSRGB, SpaceSRGBLinear, SpaceHSL, SpaceHWB, SpaceLab, SpaceLCH,
		SpaceOKLab, SpaceOKLCH, SpaceDisplayP3, SpaceA98, SpaceProPhoto,
		SpaceRec2020, SpaceXYZD65, SpaceXYZD50:
		return true
	}
	return false
}

type matrix [3][3]float64

func (m matrix) apply(a, b, c float64) (float64, float64, float64) {
	return m[0][0]*a + m[0][1]*b + m[0][2]*c,
		m[1][0]*a + m[1][1]*b + m[1][2]*c,
		m[2][0]*a + m[2][1]*b + m[2][2]*c
}

// Linear RGB <-> XYZ D65 matrices and chromatic adaptation, standard
// published coefficients.
var (
	srgbToXYZ = matrix{
		{0.4123907992659595, 0.35758433938387796, 0.1804807884018343},
		{0.21263900587151036, 0.7151686787677559, 0.07219231536073371},
		{0.01933081871559185, 0.11919477979462599, 0.9505321522496606},
	}
	xyzToSRGB = matrix{
		{3.2409699419045213, -1.5373831775700935, -0.4986107602930033},
		{-0.9692436362808798, 1.8759675015077206, 0.04155505740717561},
		{0.05563007969699361, -0.20397695888897657, 1.0569715142428786},
	}
	p3ToXYZ = matrix{
		{0.48657094864821615, 0.26566769316909306, 0.19821728523436247},
		{0.2289745640697488, 0.6917385218365064, 0.079286914093745},
		{0, 0.04511338185890264, 1.043944368900976},
	}
	a98ToXYZ = matrix{
		{0.5766690429101305, 0.1855582379065463, 0.1882286462349947},
		{0.29734497525053605, 0.6273635662554661, 0.07529145849399788},
		{0.02703136138641234, 0.07068885253582723, 0.9913375368376388},
	}
	prophotoToXYZD50 = matrix{
		{0.7977604896723027, 0.13518583717574031, 0.0313493495815248},
		{0.2880711282292934, 0.7118432178101014, 0.00008565396060525902},
		{0, 0, 0.8251046025104601},
	}
	rec2020ToXYZ = matrix{
		{0.6369580483012914, 0.14461690358620832, 0.16888097516417205},
		{0.2627002120112671, 0.6779980715188708, 0.05930171646986196},
		{0, 0.028072693049087428, 1.060985057710791},
	}
	d50ToD65 = matrix{
		{0.9554734527042182, -0.023098536874261423, 0.0632593086610217},
		{-0.028369706963208136, 1.0099954580058226, 0.021041398966943008},
		{0.012314001688319899, -0.020507696433477912, 1.3303659366080753},
	}
	d65ToD50 = matrix{
		{1.0479298208405488, 0.022946793341019088, -0.05019222954313557},
		{0.029627815688159344, 0.990434484573249, -0.01707382502938514},
		{-0.009243058152591178, 0.015055144896577895, 0.7518742899580008},
	}
)

// D50 reference white, normalized to Y=1.
const (
	whiteD50X = 0.9642956764295677
	whiteD50Z = 0.8251046025104602
)

// FromSpace converts coordinates in the named space to a gamut-clamped sRGB
// color. Unknown spaces report false. Hue coordinates are degrees; Lab/LCH
// lightness is the usual 0-100 scale.
func FromSpace(name string, coords [3]float64) (RGB, bool) {
	a, b, c := coords[0], coords[1], coords[2]

	switch Space(strings.ToLower(name)) {
	case SpaceSRGB:
		return RGB{R: a, G: b, B: c}.Clamp(), true
	case SpaceSRGBLinear:
		return fromLinear(a, b, c), true
	case SpaceHSL:
		return hslToRGB(a, b, c).Clamp(), true
	case SpaceHWB:
		return hwbToRGB(a, b, c).Clamp(), true
	case SpaceLab:
		return xyzD50ToRGB(labToXYZD50(a, b, c)), true
	case SpaceLCH:
		la, lb := polarToCartesian(b, c)
		return xyzD50ToRGB(labToXYZD50(a, la, lb)), true
	case SpaceOKLab:
		return OKLabToRGB(OKLab{L: a, A: b, B: c}), true
	case SpaceOKLCH:
		oa, ob := polarToCartesian(b, c)
		return OKLabToRGB(OKLab{L: a, A: oa, B: ob}), true
	case SpaceDisplayP3:
		x, y, z := p3ToXYZ.apply(srgbLinearize(a), srgbLinearize(b), srgbLinearize(c))
		return xyzD65ToRGB(x, y, z), true
	case SpaceA98:
		x, y, z := a98ToXYZ.apply(a98Linearize(a), a98Linearize(b), a98Linearize(c))
		return xyzD65ToRGB(x, y, z), true
	case SpaceProPhoto:
		x, y, z := prophotoToXYZD50.apply(prophotoLinearize(a), prophotoLinearize(b), prophotoLinearize(c))
		return xyzD50ToRGB([3]float64{x, y, z}), true
	case SpaceRec2020:
		x, y, z := rec2020ToXYZ.apply(rec2020Linearize(a), rec2020Linearize(b), rec2020Linearize(c))
		return xyzD65ToRGB(x, y, z), true
	case SpaceXYZD65:
		return xyzD65ToRGB(a, b, c), true
	case SpaceXYZD50:
		return xyzD50ToRGB([3]float64{a, b, c}), true
	default:
		return RGB{}, false
	}
}

func polarToCartesian(chroma, hueDeg float64) (float64, float64) {
	rad := hueDeg * math.Pi / 180
	return chroma * math.Cos(rad), chroma * math.Sin(rad)
}

func xyzD65ToRGB(x, y, z float64) RGB {
	r, g, b := xyzToSRGB.apply(x, y, z)
	return fromLinear(r, g, b)
}

func xyzD50ToRGB(xyz [3]float64) RGB {
	x, y, z := d50ToD65.apply(xyz[0], xyz[1], xyz[2])
	return xyzD65ToRGB(x, y, z)
}

func fromLinear(r, g, b float64) RGB {
	return RGB{R: srgbDelinearize(r), G: srgbDelinearize(g), B: srgbDelinearize(b)}.Clamp()
}

func srgbLinearize(v float64) float64 {
	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	if v <= 0.04045 {
		return sign * v / 12.92
	}
	return sign * math.Pow((v+0.055)/1.055, 2.4)
}

func srgbDelinearize(v float64) float64 {
	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	if v <= 0.0031308 {
		return sign * v * 12.92
	}
	return sign * (1.055*math.Pow(v, 1/2.4) - 0.055)
}

func a98Linearize(v float64) float64 {
	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	return sign * math.Pow(v, 563.0/256.0)
}

func prophotoLinearize(v float64) float64 {
	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	if v <= 16.0/512.0 {
		return sign * v / 16
	}
	return sign * math.Pow(v, 1.8)
}

func rec2020Linearize(v float64) float64 {
	const alpha = 1.09929682680944
	const beta = 0.018053968510807

	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	if v < beta*4.5 {
		return sign * v / 4.5
	}
	return sign * math.Pow((v+alpha-1)/alpha, 1/0.45)
}

// CIE Lab with the D50 white point, as in CSS Color 4.
func labToXYZD50(l, a, b float64) [3]float64 {
	const kappa = 24389.0 / 27.0
	const epsilon = 216.0 / 24389.0

	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	fInv := func(f float64) float64 {
		if cube := f * f * f; cube > epsilon {
			return cube
		}
		return (116*f - 16) / kappa
	}

	yr := l / kappa
	if l > kappa*epsilon {
		yr = fy * fy * fy
	}

	return [3]float64{fInv(fx) * whiteD50X, yr, fInv(fz) * whiteD50Z}
}

func hslToRGB(h, s, l float64) RGB {
	s = clamp01(s)
	l = clamp01(l)
	h = math.Mod(math.Mod(h, 360)+360, 360)

	if s == 0 {
		return RGB{R: l, G: l, B: l}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		R: hueToChannel(p, q, h/360+1.0/3.0),
		G: hueToChannel(p, q, h/360),
		B: hueToChannel(p, q, h/360-1.0/3.0),
	}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

func hwbToRGB(h, w, b float64) RGB {
	w = clamp01(w)
	b = clamp01(b)

	if w+b >= 1 {
		gray := w / (w + b)
		return RGB{R: gray, G: gray, B: gray}
	}

	pure := hslToRGB(h, 1, 0.5)
	scale := 1 - w - b
	return RGB{
		R: pure.R*scale + w,
		G: pure.G*scale + w,
		B: pure.B*scale + w,
	}
}
