package picker

import (
	"errors"
	"fmt"
)

// ErrDragEnded is returned by Update on a session that has ended, either
// through End or because another drag started.
var ErrDragEnded = errors.New("drag session ended")

// Target names the control a drag operates on.
type Target int

const (
	// TargetHue is the vertical hue slider, 0 degrees at the top.
	TargetHue Target = iota + 1
	// TargetSaturationValue is the square, saturation rising to the right
	// and value rising to the top.
	TargetSaturationValue
	// TargetLuminance is the vertical luminance slider, 100 at the top.
	TargetLuminance
)

func (t Target) String() string {
	switch t {
	case TargetHue:
		return "hue"
	case TargetSaturationValue:
		return "sv"
	case TargetLuminance:
		return "luminance"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget parses "hue", "sv" or "luminance".
func ParseTarget(s string) (Target, error) {
	switch s {
	case "hue":
		return TargetHue, nil
	case "sv", "saturation-value":
		return TargetSaturationValue, nil
	case "luminance":
		return TargetLuminance, nil
	default:
		return 0, fmt.Errorf("unknown drag target %q", s)
	}
}

// Frame is the on-screen rectangle of a control, in the same coordinates
// as the pointer positions passed to the session.
type Frame struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// normalize maps a pointer position to fractions of the frame, each
// clamped to [0,1].
func (f Frame) normalize(x, y float64) (fx, fy float64) {
	return clamp((x-f.Left)/f.Width, 0, 1), clamp((y-f.Top)/f.Height, 0, 1)
}

// DragSession is one pointer drag on a picker control. The frame is fixed
// for the life of the session.
type DragSession struct {
	picker *Picker
	target Target
	frame  Frame
	ended  bool
	fx, fy float64
}

// StartDrag begins a drag on target and applies the starting position. Any
// session already active on the picker is ended.
func (p *Picker) StartDrag(target Target, frame Frame, x, y float64) (*DragSession, error) {
	if target < TargetHue || target > TargetLuminance {
		return nil, fmt.Errorf("unknown drag target %v", target)
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("invalid drag frame %vx%v", frame.Width, frame.Height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drag != nil {
		p.drag.ended = true
	}
	d := &DragSession{picker: p, target: target, frame: frame}
	p.drag = d
	d.apply(x, y)
	return d, nil
}

// Update moves the pointer to (x, y) and applies the mapped value.
func (d *DragSession) Update(x, y float64) error {
	p := d.picker
	p.mu.Lock()
	defer p.mu.Unlock()

	if d.ended {
		return ErrDragEnded
	}
	d.apply(x, y)
	return nil
}

// apply is called with the picker locked.
func (d *DragSession) apply(x, y float64) {
	p := d.picker
	d.fx, d.fy = d.frame.normalize(x, y)

	switch d.target {
	case TargetHue:
		p.hsv.H = d.fy * 360
		if p.hsv.H >= 360 {
			p.hsv.H = 0
		}
	case TargetSaturationValue:
		p.hsv.S = d.fx * 100
		p.hsv.V = 100 - d.fy*100
	case TargetLuminance:
		p.setLuminance(100 - d.fy*100)
	}
}

// Position returns the last pointer position as fractions of the frame.
func (d *DragSession) Position() (fx, fy float64) {
	d.picker.mu.Lock()
	defer d.picker.mu.Unlock()
	return d.fx, d.fy
}

// Target returns the control being dragged.
func (d *DragSession) Target() Target { return d.target }

// Active reports whether the session still accepts updates.
func (d *DragSession) Active() bool {
	d.picker.mu.Lock()
	defer d.picker.mu.Unlock()
	return !d.ended
}

// End releases the session. Ending twice is harmless.
func (d *DragSession) End() {
	p := d.picker
	p.mu.Lock()
	defer p.mu.Unlock()
	d.ended = true
	if p.drag == d {
		p.drag = nil
	}
}
