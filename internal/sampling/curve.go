// Package sampling provides the curves that distribute sample positions
// along a gradient, and the configuration that drives them.
//
// Every curve maps [0,1] onto [0,1], is monotonic non-decreasing, and
// satisfies f(0)=0 and f(1)=1. A curve decides where the i-th of n samples
// lands; the configured range then remaps the curve output into the
// [Start,End] window of the gradient.
package sampling

import (
	"fmt"
	"math"
	"strings"
)

// Curve names a sampling function.
type Curve string

const (
	// CurveLinear spaces samples evenly.
	CurveLinear Curve = "linear"

	// CurvePower maps t to t^p. p>1 clusters samples toward the start of
	// the range, p<1 toward the end.
	CurvePower Curve = "power"

	// CurveParametric maps t to t^p / (t^p + (1-t)^p), a symmetric ease.
	// p>1 clusters samples at both ends, p<1 toward the middle. p=1 is
	// the identity.
	CurveParametric Curve = "parametric"
)

// ParseCurve parses a curve name. The names used by earlier exports,
// "customExponent" and "customParametric", are accepted as aliases for
// power and parametric. An empty string yields CurveLinear.
func ParseCurve(s string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return CurveLinear, nil
	case "power", "customexponent", "exponent":
		return CurvePower, nil
	case "parametric", "customparametric":
		return CurveParametric, nil
	default:
		return "", fmt.Errorf("%w: unknown sampling function %q", ErrInvalidConfig, s)
	}
}

// UsesPower reports whether the curve's shape depends on the power value.
func (c Curve) UsesPower() bool {
	return c == CurvePower || c == CurveParametric
}

// Apply evaluates the curve at t with exponent p. t is clamped to [0,1];
// p must be positive for the non-linear curves.
func (c Curve) Apply(t, p float64) float64 {
	t = clampUnit(t)
	switch c {
	case CurvePower:
		return Power(t, p)
	case CurveParametric:
		return Parametric(t, p)
	default:
		return Linear(t)
	}
}

// Linear is the identity curve.
func Linear(t float64) float64 {
	return clampUnit(t)
}

// Power returns t^p.
func Power(t, p float64) float64 {
	t = clampUnit(t)
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return clampUnit(math.Pow(t, p))
}

// Parametric returns t^p / (t^p + (1-t)^p).
//
// The curve is point-symmetric about (0.5, 0.5): f(1-t) = 1-f(t).
func Parametric(t, p float64) float64 {
	t = clampUnit(t)
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	a := math.Pow(t, p)
	b := math.Pow(1-t, p)
	if a+b == 0 {
		return t
	}
	return clampUnit(a / (a + b))
}

func clampUnit(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
