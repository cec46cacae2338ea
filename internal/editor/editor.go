// Package editor keeps a live ramp in sync with interactive edits.
//
// Edits update a draft immediately and schedule a recompute: free-text hex
// input is debounced, sampling settings are debounced on a shorter delay,
// and range drags are throttled with the final position applied on
// release. A recompute that fails reports through OnError and leaves the
// last good ramp in place.
package editor

import (
	"sync"
	"time"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/picker"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
	"github.com/ironsheep/ramp-tools-mcp/internal/schedule"
	"github.com/ironsheep/ramp-tools-mcp/internal/store"
)

// Scheduler keys and delays.
const (
	KeyHexInput = "hex-gradient"
	KeyConfig   = "config"
	KeyRange    = "range"

	HexInputDelay = 300 * time.Millisecond
	ConfigDelay   = 150 * time.Millisecond
	RangeInterval = 50 * time.Millisecond
)

// Options configures an Editor.
type Options struct {
	// Clock drives the scheduler. Nil means the wall clock.
	Clock schedule.Clock

	// OnRamp is called after every successful recompute.
	OnRamp func(gradient.Ramp)

	// OnError is called when a recompute fails.
	OnError func(error)
}

// Editor holds the current source, the sampling config and the last good
// ramp.
type Editor struct {
	mu    sync.Mutex
	sched *schedule.Scheduler
	opts  Options

	// applyMu serializes recomputes from read to commit, so a recompute
	// never commits a source older than one already committed.
	applyMu sync.Mutex
	sample  func(gradient.Source, sampling.Config) (gradient.Ramp, error)

	src       gradient.Source
	hasSource bool
	cfg       sampling.Config
	ramp      gradient.Ramp
	hasRamp   bool

	// draft holds settings that have been edited but not yet sampled.
	draft    sampling.Config
	hexInput string
}

// New returns an editor with the default sampling config and no source.
func New(opts Options) *Editor {
	return &Editor{
		sched:  schedule.New(opts.Clock),
		opts:   opts,
		sample: gradient.Sample,
		cfg:    sampling.DefaultConfig(),
		draft:  sampling.DefaultConfig(),
	}
}

// Close cancels any pending recompute.
func (e *Editor) Close() {
	e.sched.Stop()
}

// Ramp returns the last successfully computed ramp.
func (e *Editor) Ramp() (gradient.Ramp, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ramp, e.hasRamp
}

// Config returns the config of the last successful recompute.
func (e *Editor) Config() sampling.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// HexInput returns the latest hex text, sampled or not.
func (e *Editor) HexInput() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hexInput
}

// SetSource replaces the source and recomputes at once.
func (e *Editor) SetSource(src gradient.Source) error {
	return e.apply(func() (gradient.Source, error) { return src, nil })
}

// SetStops builds a stop source from colors and recomputes at once.
func (e *Editor) SetStops(colors []colorspace.RGB) error {
	return e.apply(func() (gradient.Source, error) { return gradient.NewStops(colors) })
}

// SetFromPicker uses the picker's selection as the stops.
func (e *Editor) SetFromPicker(p *picker.Picker) error {
	stops, err := colorspace.ParseHexList(p.Selection())
	if err != nil {
		return err
	}
	return e.SetStops(stops)
}

// SetHexInput records free-text stop input and recomputes once typing has
// paused for HexInputDelay.
func (e *Editor) SetHexInput(text string) {
	e.mu.Lock()
	e.hexInput = text
	e.mu.Unlock()

	e.sched.Debounce(KeyHexInput, HexInputDelay, func() {
		e.mu.Lock()
		text := e.hexInput
		e.mu.Unlock()

		e.apply(func() (gradient.Source, error) {
			stops, err := colorspace.ParseColorList(text)
			if err != nil {
				return gradient.Source{}, err
			}
			return gradient.NewStops(stops)
		})
	})
}

// SetCurve changes the sampling curve.
func (e *Editor) SetCurve(c sampling.Curve) {
	e.editConfig(func(cfg *sampling.Config) { cfg.Curve = c })
}

// SetPower changes the curve exponent.
func (e *Editor) SetPower(p float64) {
	e.editConfig(func(cfg *sampling.Config) { cfg.Power = p })
}

// SetSampleCount changes the number of output colors.
func (e *Editor) SetSampleCount(n int) {
	e.editConfig(func(cfg *sampling.Config) { cfg.SampleCount = n })
}

func (e *Editor) editConfig(edit func(*sampling.Config)) {
	e.mu.Lock()
	edit(&e.draft)
	e.mu.Unlock()
	e.sched.Debounce(KeyConfig, ConfigDelay, e.resample)
}

// SetRange moves the sampled window during a drag. Recomputes are
// throttled to one per RangeInterval.
func (e *Editor) SetRange(start, end float64) {
	e.mu.Lock()
	e.draft.StartPercent = start
	e.draft.EndPercent = end
	e.mu.Unlock()
	e.sched.Throttle(KeyRange, RangeInterval, e.resample)
}

// EndRangeDrag runs the pending range recompute, if any, so the ramp
// reflects where the drag stopped.
func (e *Editor) EndRangeDrag() {
	e.sched.Flush(KeyRange)
}

// Flush runs every pending recompute now and waits for any that a timer
// has already started. Do not call it from OnRamp or OnError.
func (e *Editor) Flush() {
	for _, key := range []string{KeyHexInput, KeyConfig, KeyRange} {
		e.sched.Flush(key)
	}
	e.sched.Wait()
}

// resample recomputes the current source with the draft config. The
// source is read once the recompute holds applyMu.
func (e *Editor) resample() {
	e.apply(nil)
}

// apply samples the draft config against the source built by next and
// commits both on success. A nil next reuses the committed source and does
// nothing when there is none.
func (e *Editor) apply(next func() (gradient.Source, error)) error {
	e.applyMu.Lock()
	ramp, cfg, err := e.recompute(next)
	e.applyMu.Unlock()
	if err != nil {
		e.fail(err)
		return err
	}
	if ramp == nil {
		return nil
	}

	store.Logger().Debug("ramp recomputed", "samples", len(ramp.Samples), "curve", cfg.Curve)
	if e.opts.OnRamp != nil {
		e.opts.OnRamp(*ramp)
	}
	return nil
}

// recompute must be called with applyMu held.
func (e *Editor) recompute(next func() (gradient.Source, error)) (*gradient.Ramp, sampling.Config, error) {
	e.mu.Lock()
	src, hasSource := e.src, e.hasSource
	cfg := e.draft
	e.mu.Unlock()

	if next != nil {
		var err error
		if src, err = next(); err != nil {
			return nil, cfg, err
		}
	} else if !hasSource {
		return nil, cfg, nil
	}

	ramp, err := e.sample(src, cfg)
	if err != nil {
		return nil, cfg, err
	}

	e.mu.Lock()
	e.src = src
	e.hasSource = true
	e.cfg = cfg
	e.ramp = ramp
	e.hasRamp = true
	e.mu.Unlock()
	return &ramp, cfg, nil
}

func (e *Editor) fail(err error) {
	store.Logger().Debug("recompute failed", "err", err)
	if e.opts.OnError != nil {
		e.opts.OnError(err)
	}
}
