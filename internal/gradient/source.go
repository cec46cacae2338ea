// Package gradient turns a gradient source and a sampling configuration
// into a discrete color ramp.
//
// A Source is either an ordered list of color stops at implicit equal
// spacing, or a decoded pixel buffer. Sampling is deterministic: the same
// source and config always produce the same ramp.
package gradient

import (
	"errors"
	"fmt"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
)

// ErrInvalidSource is returned when a source has too few or too many stops,
// or a pixel buffer whose size does not match its dimensions.
var ErrInvalidSource = errors.New("invalid gradient source")

// Stop count bounds. User-entered stop lists are held to MaxStops;
// palettes read from GPL files or small palette images may be longer.
const (
	MinStops        = 2
	MaxStops        = 8
	MaxPaletteStops = 256
)

// Pixels is a decoded raster in row-major order, three bytes (R, G, B)
// per pixel.
type Pixels struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the color of the pixel at (x, y). The caller keeps x and y
// in bounds.
func (p *Pixels) At(x, y int) colorspace.RGB {
	i := (y*p.Width + x) * 3
	return colorspace.RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

func (p *Pixels) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil pixel buffer", ErrInvalidSource)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: pixel buffer is %dx%d", ErrInvalidSource, p.Width, p.Height)
	}
	if len(p.Pix) != p.Width*p.Height*3 {
		return fmt.Errorf("%w: pixel buffer has %d bytes, want %d for %dx%d",
			ErrInvalidSource, len(p.Pix), p.Width*p.Height*3, p.Width, p.Height)
	}
	return nil
}

// SourceKind tags which variant a Source holds.
type SourceKind int

const (
	KindStops SourceKind = iota + 1
	KindPixels
)

func (k SourceKind) String() string {
	switch k {
	case KindStops:
		return "stops"
	case KindPixels:
		return "pixels"
	default:
		return "unknown"
	}
}

// Source is a gradient to sample. The zero value is not a valid source;
// build one with NewStops, NewPalette or NewPixels.
type Source struct {
	kind   SourceKind
	stops  []colorspace.RGB
	pixels *Pixels
}

// NewStops builds a source from user-entered stops. Between MinStops and
// MaxStops colors are required.
func NewStops(stops []colorspace.RGB) (Source, error) {
	return newStopSource(stops, MaxStops)
}

// NewPalette builds a stop source from a longer palette, such as a GPL
// file or the columns of a small palette image.
func NewPalette(stops []colorspace.RGB) (Source, error) {
	return newStopSource(stops, MaxPaletteStops)
}

func newStopSource(stops []colorspace.RGB, max int) (Source, error) {
	if len(stops) < MinStops || len(stops) > max {
		return Source{}, fmt.Errorf("%w: %d stops, need %d to %d", ErrInvalidSource, len(stops), MinStops, max)
	}
	cp := make([]colorspace.RGB, len(stops))
	copy(cp, stops)
	return Source{kind: KindStops, stops: cp}, nil
}

// NewPixels builds a source from a decoded pixel buffer.
func NewPixels(p *Pixels) (Source, error) {
	if err := p.validate(); err != nil {
		return Source{}, err
	}
	return Source{kind: KindPixels, pixels: p}, nil
}

// Kind reports which variant the source holds.
func (s Source) Kind() SourceKind { return s.kind }

// Stops returns a copy of the stop colors, or nil for a pixel source.
func (s Source) Stops() []colorspace.RGB {
	if s.kind != KindStops {
		return nil
	}
	cp := make([]colorspace.RGB, len(s.stops))
	copy(cp, s.stops)
	return cp
}

// Pixels returns the pixel buffer, or nil for a stop source.
func (s Source) Pixels() *Pixels {
	if s.kind != KindPixels {
		return nil
	}
	return s.pixels
}
