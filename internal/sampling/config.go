package sampling

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a Config field is outside its bounds.
var ErrInvalidConfig = errors.New("invalid sampling config")

// Bounds and defaults for Config fields.
const (
	MinSampleCount     = 1
	MaxSampleCount     = 16
	DefaultSampleCount = 11

	MinPower     = 0.1
	MaxPower     = 5.0
	DefaultPower = 2.0
)

// Config controls how a gradient is sampled.
type Config struct {
	// Curve distributes the samples. Empty means CurveLinear.
	Curve Curve `json:"curve"`

	// Power is the curve exponent. Only checked for curves that use it.
	Power float64 `json:"power"`

	// StartPercent and EndPercent bound the sampled window of the
	// gradient, 0 <= StartPercent < EndPercent <= 100.
	StartPercent float64 `json:"start"`
	EndPercent   float64 `json:"end"`

	// SampleCount is the number of output colors, MinSampleCount to
	// MaxSampleCount inclusive.
	SampleCount int `json:"sampleCount"`
}

// DefaultConfig returns the configuration used when nothing is specified:
// 11 linear samples across the full gradient.
func DefaultConfig() Config {
	return Config{
		Curve:        CurveLinear,
		Power:        DefaultPower,
		StartPercent: 0,
		EndPercent:   100,
		SampleCount:  DefaultSampleCount,
	}
}

// Validate checks every field against its bounds. Out of range values are
// reported, never clamped.
func (c Config) Validate() error {
	switch c.Curve {
	case "", CurveLinear, CurvePower, CurveParametric:
	default:
		return fmt.Errorf("%w: unknown curve %q", ErrInvalidConfig, c.Curve)
	}
	if c.SampleCount < MinSampleCount || c.SampleCount > MaxSampleCount {
		return fmt.Errorf("%w: sample count %d outside [%d,%d]",
			ErrInvalidConfig, c.SampleCount, MinSampleCount, MaxSampleCount)
	}
	if c.Curve.UsesPower() {
		if math.IsNaN(c.Power) || c.Power < MinPower || c.Power > MaxPower {
			return fmt.Errorf("%w: power %g outside [%g,%g]", ErrInvalidConfig, c.Power, MinPower, MaxPower)
		}
	}
	if math.IsNaN(c.StartPercent) || math.IsNaN(c.EndPercent) ||
		c.StartPercent < 0 || c.EndPercent > 100 || c.StartPercent >= c.EndPercent {
		return fmt.Errorf("%w: range %g-%g must satisfy 0 <= start < end <= 100",
			ErrInvalidConfig, c.StartPercent, c.EndPercent)
	}
	return nil
}

// Position is one sample slot: Raw is the evenly spaced index position
// i/(n-1), Mapped is where on the gradient it lands after the curve and
// range remap.
type Position struct {
	Raw    float64 `json:"t"`
	Mapped float64 `json:"mapped_t"`
}

// Positions validates c and returns its SampleCount sample positions.
//
// For sample i of n:
//
//	t_source = start/100 + f(i/(n-1)) * (end-start)/100
//
// With n=1 the single sample sits at i/(n-1) = 0.
func Positions(c Config) ([]Position, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	n := c.SampleCount
	start := c.StartPercent / 100
	span := (c.EndPercent - c.StartPercent) / 100

	out := make([]Position, n)
	for i := 0; i < n; i++ {
		raw := 0.0
		if n > 1 {
			raw = float64(i) / float64(n-1)
		}
		out[i] = Position{
			Raw:    raw,
			Mapped: clampUnit(start + c.Curve.Apply(raw, c.Power)*span),
		}
	}
	return out, nil
}
