package gradient

import (
	"fmt"
	"math"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

// Pixel buffers no larger than this in both dimensions are read as a
// discrete palette rather than a continuous gradient.
const (
	SmallImageThreshold = 20
	MaxPaletteColumns   = 11
)

// Point is one color of a ramp together with where it was taken from.
type Point struct {
	Color    colorspace.RGB `json:"rgb"`
	Hex      string         `json:"hex"`
	Position float64        `json:"t"`        // raw position i/(n-1)
	Mapped   float64        `json:"mapped_t"` // position on the gradient after curve and range
}

// Ramp is an ordered sequence of sampled colors.
type Ramp struct {
	Samples []Point         `json:"samples"`
	Config  sampling.Config `json:"config"`
}

// Colors returns the sampled colors in order.
func (r Ramp) Colors() []colorspace.RGB {
	out := make([]colorspace.RGB, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Color
	}
	return out
}

// Hexes returns the sampled colors as "#rrggbb" strings in order.
func (r Ramp) Hexes() []string {
	out := make([]string, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Hex
	}
	return out
}

// Reversed returns a copy of the ramp with its colors in reverse order.
// Positions stay in ascending order; only the colors move.
func (r Ramp) Reversed() Ramp {
	n := len(r.Samples)
	out := Ramp{Samples: make([]Point, n), Config: r.Config}
	for i, s := range r.Samples {
		src := r.Samples[n-1-i]
		out.Samples[i] = Point{Color: src.Color, Hex: src.Hex, Position: s.Position, Mapped: s.Mapped}
	}
	return out
}

// Sample draws cfg.SampleCount colors from src.
//
// Stop sources are interpolated per channel in RGB between the two stops
// bracketing each position. Pixel sources are read along the middle row;
// a buffer no larger than SmallImageThreshold in both dimensions is first
// reduced to at most MaxPaletteColumns evenly spaced columns and then
// treated as stops.
//
// A config outside its bounds fails with sampling.ErrInvalidConfig, a bad
// source with ErrInvalidSource. Nothing is clamped into range.
func Sample(src Source, cfg sampling.Config) (Ramp, error) {
	if cfg.Curve == "" {
		cfg.Curve = sampling.CurveLinear
	}
	positions, err := sampling.Positions(cfg)
	if err != nil {
		return Ramp{}, err
	}

	colorAt, err := resolve(src)
	if err != nil {
		return Ramp{}, err
	}

	samples := make([]Point, len(positions))
	for i, p := range positions {
		c := colorAt(p.Mapped)
		samples[i] = Point{Color: c, Hex: c.Hex(), Position: p.Raw, Mapped: p.Mapped}
	}
	return Ramp{Samples: samples, Config: cfg}, nil
}

// ColorAt returns the color of src at position t in [0,1].
func ColorAt(src Source, t float64) (colorspace.RGB, error) {
	colorAt, err := resolve(src)
	if err != nil {
		return colorspace.RGB{}, err
	}
	return colorAt(t), nil
}

// resolve picks the lookup function for src.
func resolve(src Source) (func(t float64) colorspace.RGB, error) {
	switch src.kind {
	case KindStops:
		if len(src.stops) < MinStops {
			return nil, fmt.Errorf("%w: %d stops, need at least %d", ErrInvalidSource, len(src.stops), MinStops)
		}
		stops := src.stops
		return func(t float64) colorspace.RGB { return interpolate(stops, t) }, nil

	case KindPixels:
		p := src.pixels
		if err := p.validate(); err != nil {
			return nil, err
		}
		if IsSmallImage(p.Width, p.Height) {
			stops, err := PaletteColumns(p)
			if err != nil {
				return nil, err
			}
			return func(t float64) colorspace.RGB { return interpolate(stops, t) }, nil
		}
		row := p.Height / 2
		return func(t float64) colorspace.RGB {
			x := int(math.Round(clampUnit(t) * float64(p.Width-1)))
			return p.At(x, row)
		}, nil

	default:
		return nil, fmt.Errorf("%w: empty source", ErrInvalidSource)
	}
}

// IsSmallImage reports whether a w x h raster is read as a discrete palette.
func IsSmallImage(w, h int) bool {
	return w <= SmallImageThreshold && h <= SmallImageThreshold
}

// PaletteColumns extracts up to MaxPaletteColumns evenly spaced colors from
// the middle row of p. Column i of k is floor(i/(k-1) * (width-1)).
func PaletteColumns(p *Pixels) ([]colorspace.RGB, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	k := p.Width
	if k > MaxPaletteColumns {
		k = MaxPaletteColumns
	}
	if k < MinStops {
		return nil, fmt.Errorf("%w: palette image is %d px wide, need at least %d columns",
			ErrInvalidSource, p.Width, MinStops)
	}

	row := p.Height / 2
	stops := make([]colorspace.RGB, k)
	for i := 0; i < k; i++ {
		x := int(math.Floor(float64(i) / float64(k-1) * float64(p.Width-1)))
		stops[i] = p.At(x, row)
	}
	return stops, nil
}

// interpolate blends linearly in RGB between the stops bracketing t.
// Stop i sits at i/(len(stops)-1).
func interpolate(stops []colorspace.RGB, t float64) colorspace.RGB {
	t = clampUnit(t)
	last := len(stops) - 1
	seg := t * float64(last)
	i := int(math.Floor(seg))
	if i >= last {
		return stops[last]
	}
	frac := seg - float64(i)
	if frac == 0 {
		return stops[i]
	}
	a := stops[i].Colorful()
	b := stops[i+1].Colorful()
	return colorspace.FromColorful(a.BlendRgb(b, frac))
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
