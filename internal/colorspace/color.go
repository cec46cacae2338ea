package colorspace

import (
	"errors"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned for malformed hex strings, unknown
// color names and unknown luminance modes.
var ErrInvalidColorFormat = errors.New("invalid color format")

// RGB represents an RGB color with 8-bit components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSV represents a color in HSV (Hue, Saturation, Value) color space.
type HSV struct {
	H float64 `json:"h"` // Hue: [0,360) degrees
	S float64 `json:"s"` // Saturation: 0-100 percent
	V float64 `json:"v"` // Value: 0-100 percent
}

// LAB represents a color in CIE L*a*b* space relative to the D65 white point.
type LAB struct {
	L float64 `json:"l"` // Lightness: 0-100
	A float64 `json:"a"` // Green-red axis: roughly -128 to 127
	B float64 `json:"b"` // Blue-yellow axis: roughly -128 to 127
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return RGBToHex(c)
}

// HSV returns the color in HSV space.
func (c RGB) HSV() HSV {
	return RGBToHSV(c)
}

// LAB returns the color in CIE LAB space.
func (c RGB) LAB() LAB {
	return RGBToLAB(c)
}

// Colorful returns the color as a go-colorful value with channels in [0,1].
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// FromColorful converts a go-colorful value back to 8-bit RGB. Out of
// gamut values are clamped before rounding.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// RGBToHSV converts an RGB color to HSV.
//
// Hue is undefined for grays and is reported as 0.
func RGBToHSV(c RGB) HSV {
	h, s, v := c.Colorful().Hsv()
	return HSV{
		H: normalizeHue(h),
		S: clamp(s*100, 0, 100),
		V: clamp(v*100, 0, 100),
	}
}

// HSVToRGB converts an HSV color to RGB using the six-sector algorithm.
//
// Hue is wrapped into [0,360) first, so 360 and -120 are valid inputs
// meaning 0 and 240. Saturation and value are clamped to [0,100].
func HSVToRGB(c HSV) RGB {
	h := normalizeHue(c.H)
	s := clamp(c.S, 0, 100) / 100
	v := clamp(c.V, 0, 100) / 100
	return FromColorful(colorful.Hsv(h, s, v))
}

// RGBToLAB converts an RGB color to CIE LAB.
//
// The conversion linearizes sRGB (0.04045 threshold, 2.4 exponent), maps
// to XYZ and then to LAB with the D65 reference white.
func RGBToLAB(c RGB) LAB {
	l, a, b := c.Colorful().Lab()
	return LAB{
		L: clamp(l*100, 0, 100),
		A: clamp(a*100, -128, 127),
		B: clamp(b*100, -128, 127),
	}
}

// LABToRGB converts a CIE LAB color to RGB. Colors outside the sRGB gamut
// are clamped per channel.
func LABToRGB(c LAB) RGB {
	l := clamp(c.L, 0, 100)
	a := clamp(c.A, -128, 127)
	b := clamp(c.B, -128, 127)
	return FromColorful(colorful.Lab(l/100, a/100, b/100))
}

func normalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// math.Mod can hand back 360 for tiny negative inputs after the add.
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
