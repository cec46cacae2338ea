// Package picker models an HSV color picker: hue slider, saturation/value
// square and a luminance slider, plus the list of colors picked so far.
//
// Pointer input is handled through explicit drag sessions. StartDrag
// captures the target control's frame, Update maps pointer positions
// inside that frame onto the control's value, and End releases the
// session. Nothing here depends on a particular event system.
package picker

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
)

// MaxSelection is the most colors the picker can collect, matching the
// stop limit for user-entered gradients.
const MaxSelection = gradient.MaxStops

var (
	ErrSelectionFull = errors.New("color selection is full")
	ErrDuplicate     = errors.New("color already selected")
)

// Picker holds the current color in HSV form and the active luminance
// mode. It is safe for concurrent use.
type Picker struct {
	mu        sync.Mutex
	hsv       colorspace.HSV
	mode      colorspace.LuminanceMode
	selection []string
	drag      *DragSession
}

// New returns a picker showing pure red in the given luminance mode. An
// invalid mode falls back to colorspace.DefaultLuminanceMode.
func New(mode colorspace.LuminanceMode) *Picker {
	if !mode.Valid() {
		mode = colorspace.DefaultLuminanceMode
	}
	return &Picker{hsv: colorspace.HSV{H: 0, S: 100, V: 100}, mode: mode}
}

// State is a snapshot of the picker.
type State struct {
	Hex       string                   `json:"hex"`
	RGB       colorspace.RGB           `json:"rgb"`
	HSV       colorspace.HSV           `json:"hsv"`
	Mode      colorspace.LuminanceMode `json:"luminanceMode"`
	Luminance float64                  `json:"luminance"`
	Selection []string                 `json:"selection"`
}

func (p *Picker) rgb() colorspace.RGB {
	return colorspace.HSVToRGB(p.hsv)
}

// State returns the current color, its luminance under the active mode and
// the selection.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.rgb()
	return State{
		Hex:       c.Hex(),
		RGB:       c,
		HSV:       p.hsv,
		Mode:      p.mode,
		Luminance: colorspace.Luminance(c, p.mode),
		Selection: append([]string{}, p.selection...),
	}
}

// Hex returns the current color.
func (p *Picker) Hex() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rgb().Hex()
}

// SetHex sets the current color. Invalid input returns
// colorspace.ErrInvalidColorFormat and leaves the picker unchanged.
func (p *Picker) SetHex(s string) error {
	c, err := colorspace.HexToRGB(s)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.hsv = c.HSV()
	p.mu.Unlock()
	return nil
}

// SetHue sets the hue in degrees. Values wrap into [0,360).
func (p *Picker) SetHue(h float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	p.mu.Lock()
	p.hsv.H = h
	p.mu.Unlock()
}

// SetSaturationValue sets saturation and value, each clamped to [0,100].
func (p *Picker) SetSaturationValue(s, v float64) {
	p.mu.Lock()
	p.hsv.S = clamp(s, 0, 100)
	p.hsv.V = clamp(v, 0, 100)
	p.mu.Unlock()
}

// SetLuminance sets the lightness of the current color under the active
// mode. In hsv mode this is V. In ciel mode L* is replaced through LAB and
// the result converted back to HSV; the hue is kept when the result has
// none.
func (p *Picker) SetLuminance(l float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setLuminance(l)
}

func (p *Picker) setLuminance(l float64) {
	l = clamp(l, 0, 100)
	if p.mode != colorspace.ModeCIEL {
		p.hsv.V = l
		return
	}
	next := colorspace.WithLuminance(p.rgb(), l, colorspace.ModeCIEL).HSV()
	if next.S == 0 {
		next.H = p.hsv.H
	}
	p.hsv = next
}

// Luminance returns the current color's lightness under the active mode.
func (p *Picker) Luminance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return colorspace.Luminance(p.rgb(), p.mode)
}

// SetMode switches the luminance mode. The color is unchanged; its
// luminance is recomputed under the new mode.
func (p *Picker) SetMode(mode colorspace.LuminanceMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown luminance mode %q", colorspace.ErrInvalidColorFormat, mode)
	}
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
	return nil
}

// Add appends the current color to the selection.
func (p *Picker) Add() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hex := p.rgb().Hex()
	if len(p.selection) >= MaxSelection {
		return "", fmt.Errorf("%w: maximum %d colors", ErrSelectionFull, MaxSelection)
	}
	for _, s := range p.selection {
		if s == hex {
			return "", fmt.Errorf("%w: %s", ErrDuplicate, hex)
		}
	}
	p.selection = append(p.selection, hex)
	return hex, nil
}

// Remove drops the selected color at index i and returns it.
func (p *Picker) Remove(i int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.selection) {
		return "", fmt.Errorf("selection index %d out of range", i)
	}
	removed := p.selection[i]
	p.selection = append(p.selection[:i], p.selection[i+1:]...)
	return removed, nil
}

// ClearSelection empties the selection.
func (p *Picker) ClearSelection() {
	p.mu.Lock()
	p.selection = nil
	p.mu.Unlock()
}

// Selection returns a copy of the selected colors in pick order.
func (p *Picker) Selection() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.selection...)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
