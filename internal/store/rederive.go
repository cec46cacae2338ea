package store

import (
	"fmt"

	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

// ReDerive samples a ramp again from its derivation at a new sample count,
// curve and power, keeping its sampling range.
//
// The source is rebuilt from ramp.Derivation alone; ramp.Colors is never
// read, so repeated re-derivation does not accumulate interpolation error.
// For a fixed target the resulting colors are always the same. The ramp is
// returned updated but not persisted; see ReDeriveAndSave.
func (s *Store) ReDerive(ramp SavedRamp, sampleCount int, curve sampling.Curve, power float64) (SavedRamp, error) {
	if ramp.Derivation == nil {
		return SavedRamp{}, fmt.Errorf("%w: %s has no derivation", ErrNotDerivable, ramp.ID)
	}

	// Only the known variants are re-derivable.
	switch ramp.Derivation.(type) {
	case ColorsDerivation, ImageDerivation, GPLDerivation:
	default:
		return SavedRamp{}, fmt.Errorf("%w: unknown derivation %T", ErrNotDerivable, ramp.Derivation)
	}

	src, err := ramp.Derivation.Source()
	if err != nil {
		return SavedRamp{}, err
	}

	cfg := ramp.SamplingConfig()
	cfg.SampleCount = sampleCount
	cfg.Curve = curve
	cfg.Power = power
	if cfg.Curve == "" {
		cfg.Curve = sampling.CurveLinear
	}
	if cfg.Power == 0 {
		cfg.Power = sampling.DefaultPower
	}

	sampled, err := gradient.Sample(src, cfg)
	if err != nil {
		return SavedRamp{}, err
	}

	out := ramp.clone()
	out.Colors = sampled.Hexes()
	out.SampleCount = cfg.SampleCount
	out.SamplingFunction = cfg.Curve
	out.PowerValue = cfg.Power
	out.Thumbnail = s.renderThumbnail(out.Colors)
	out.UpdatedAt = s.now()

	Logger().Debug("ramp re-derived", "id", ramp.ID, "source", ramp.SourceType(), "samples", cfg.SampleCount)
	return out, nil
}

// ReDeriveAndSave re-derives the stored ramp with the given id and
// persists the result.
func (s *Store) ReDeriveAndSave(id string, sampleCount int, curve sampling.Curve, power float64) (SavedRamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return SavedRamp{}, err
	}
	i := find(c.Ramps, id)
	if i < 0 {
		return SavedRamp{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r, err := s.ReDerive(c.Ramps[i], sampleCount, curve, power)
	if err != nil {
		return SavedRamp{}, err
	}

	c.Ramps[i] = r
	if err := s.write(c); err != nil {
		return SavedRamp{}, err
	}
	return r.clone(), nil
}
