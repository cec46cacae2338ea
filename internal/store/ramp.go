package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gpl"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/imaging"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

// SourceType names where a ramp's colors came from.
type SourceType string

const (
	SourceColors SourceType = "colors"
	SourceImage  SourceType = "image"
	SourceGPL    SourceType = "gpl"
)

// Range is the sampled window of the gradient in percent.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FullRange samples the whole gradient.
var FullRange = Range{Start: 0, End: 100}

// Derivation records the original source of a ramp so it can be sampled
// again at a different configuration. Each source type has its own
// variant: ColorsDerivation, ImageDerivation or GPLDerivation.
type Derivation interface {
	SourceType() SourceType

	// Source rebuilds the gradient source. It never consults the ramp's
	// sampled colors.
	Source() (gradient.Source, error)
}

// ColorsDerivation is a ramp built from user-entered stops.
type ColorsDerivation struct {
	// OriginalColors are the stops as hex strings.
	OriginalColors []string
	// HexInput is the free text the stops were parsed from, if any.
	HexInput string
}

func (ColorsDerivation) SourceType() SourceType { return SourceColors }

func (d ColorsDerivation) Source() (gradient.Source, error) {
	if len(d.OriginalColors) == 0 && d.HexInput != "" {
		stops, err := colorspace.ParseColorList(d.HexInput)
		if err != nil {
			return gradient.Source{}, err
		}
		return gradient.NewPalette(stops)
	}
	stops, err := colorspace.ParseHexList(d.OriginalColors)
	if err != nil {
		return gradient.Source{}, err
	}
	return gradient.NewPalette(stops)
}

// ImageDerivation is a ramp sampled from an image. ImageRef holds the
// normalized pixels as a PNG data URL (see imaging.EncodePixels).
type ImageDerivation struct {
	ImageRef string
}

func (ImageDerivation) SourceType() SourceType { return SourceImage }

func (d ImageDerivation) Source() (gradient.Source, error) {
	if d.ImageRef == "" {
		return gradient.Source{}, fmt.Errorf("%w: ramp has no source image", ErrNotDerivable)
	}
	p, err := imaging.DecodePixels(d.ImageRef)
	if err != nil {
		return gradient.Source{}, fmt.Errorf("%w: %v", ErrNotDerivable, err)
	}
	return gradient.NewPixels(p)
}

// GPLDerivation is a ramp imported from a GIMP palette. GPLData holds the
// palette text; OriginalColors is its color list, used when no text was
// kept.
type GPLDerivation struct {
	GPLData        string
	OriginalColors []string
}

func (GPLDerivation) SourceType() SourceType { return SourceGPL }

func (d GPLDerivation) Source() (gradient.Source, error) {
	if d.GPLData == "" {
		stops, err := colorspace.ParseHexList(d.OriginalColors)
		if err != nil {
			return gradient.Source{}, err
		}
		return gradient.NewPalette(stops)
	}
	p, err := gpl.ParseString(d.GPLData)
	if err != nil {
		return gradient.Source{}, fmt.Errorf("%w: %v", ErrNotDerivable, err)
	}
	return gradient.NewPalette(p.Colors())
}

// SavedRamp is a persisted ramp.
type SavedRamp struct {
	ID               string
	Name             string
	Colors           []string
	SampleCount      int
	SamplingFunction sampling.Curve
	PowerValue       float64
	LuminanceMode    colorspace.LuminanceMode
	SamplingRange    Range
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// Thumbnail is a PNG data URL, or empty when none was rendered.
	Thumbnail  string
	Derivation Derivation
	// ImportedAt is set on ramps that arrived through an import.
	ImportedAt *time.Time
}

// SourceType reports the derivation's source type, defaulting to colors.
func (r SavedRamp) SourceType() SourceType {
	if r.Derivation == nil {
		return SourceColors
	}
	return r.Derivation.SourceType()
}

// SamplingConfig returns the sampling parameters the ramp was built with.
func (r SavedRamp) SamplingConfig() sampling.Config {
	return sampling.Config{
		Curve:        r.SamplingFunction,
		Power:        r.PowerValue,
		StartPercent: r.SamplingRange.Start,
		EndPercent:   r.SamplingRange.End,
		SampleCount:  r.SampleCount,
	}
}

// clone returns a deep copy so callers cannot alias stored slices.
func (r SavedRamp) clone() SavedRamp {
	out := r
	out.Colors = append([]string(nil), r.Colors...)
	switch d := r.Derivation.(type) {
	case ColorsDerivation:
		d.OriginalColors = append([]string(nil), d.OriginalColors...)
		out.Derivation = d
	case GPLDerivation:
		d.OriginalColors = append([]string(nil), d.OriginalColors...)
		out.Derivation = d
	}
	if r.ImportedAt != nil {
		t := *r.ImportedAt
		out.ImportedAt = &t
	}
	return out
}

// derivationJSON is the flat on-disk shape of every derivation variant.
type derivationJSON struct {
	OriginalColors []string `json:"originalColors"`
	GradientImage  *string  `json:"gradientImage"`
	HexInput       *string  `json:"hexInput"`
	GPLData        *string  `json:"gplData"`
}

type savedRampJSON struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Colors           []string       `json:"colors"`
	SampleCount      int            `json:"sampleCount"`
	SamplingFunction string         `json:"samplingFunction"`
	PowerValue       float64        `json:"powerValue"`
	LuminanceMode    string         `json:"luminanceMode"`
	SamplingRange    Range          `json:"samplingRange"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Thumbnail        *string        `json:"thumbnail"`
	SourceType       SourceType     `json:"sourceType"`
	Derivation       derivationJSON `json:"derivation"`
	ImportedAt       *time.Time     `json:"importedAt,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// MarshalJSON writes the record in the persisted ramp shape.
func (r SavedRamp) MarshalJSON() ([]byte, error) {
	out := savedRampJSON{
		ID:               r.ID,
		Name:             r.Name,
		Colors:           r.Colors,
		SampleCount:      r.SampleCount,
		SamplingFunction: string(r.SamplingFunction),
		PowerValue:       r.PowerValue,
		LuminanceMode:    string(r.LuminanceMode),
		SamplingRange:    r.SamplingRange,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Thumbnail:        optional(r.Thumbnail),
		SourceType:       r.SourceType(),
		ImportedAt:       r.ImportedAt,
	}
	if out.Colors == nil {
		out.Colors = []string{}
	}

	switch d := r.Derivation.(type) {
	case nil:
	case ColorsDerivation:
		out.Derivation.OriginalColors = d.OriginalColors
		out.Derivation.HexInput = optional(d.HexInput)
	case ImageDerivation:
		out.Derivation.GradientImage = optional(d.ImageRef)
	case GPLDerivation:
		out.Derivation.OriginalColors = d.OriginalColors
		out.Derivation.GPLData = optional(d.GPLData)
	default:
		return nil, fmt.Errorf("unknown derivation type %T", r.Derivation)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the persisted ramp shape. The derivation variant is
// chosen by sourceType; a missing sourceType means colors.
func (r *SavedRamp) UnmarshalJSON(data []byte) error {
	var in savedRampJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	curve, err := sampling.ParseCurve(in.SamplingFunction)
	if err != nil {
		return err
	}
	mode, err := colorspace.ParseLuminanceMode(in.LuminanceMode)
	if err != nil {
		return err
	}

	var d Derivation
	switch SourceType(strings.ToLower(string(in.SourceType))) {
	case "", SourceColors:
		d = ColorsDerivation{
			OriginalColors: in.Derivation.OriginalColors,
			HexInput:       deref(in.Derivation.HexInput),
		}
	case SourceImage:
		d = ImageDerivation{ImageRef: deref(in.Derivation.GradientImage)}
	case SourceGPL:
		d = GPLDerivation{
			GPLData:        deref(in.Derivation.GPLData),
			OriginalColors: in.Derivation.OriginalColors,
		}
	default:
		return fmt.Errorf("unknown sourceType %q", in.SourceType)
	}

	*r = SavedRamp{
		ID:               in.ID,
		Name:             in.Name,
		Colors:           in.Colors,
		SampleCount:      in.SampleCount,
		SamplingFunction: curve,
		PowerValue:       in.PowerValue,
		LuminanceMode:    mode,
		SamplingRange:    in.SamplingRange,
		CreatedAt:        in.CreatedAt,
		UpdatedAt:        in.UpdatedAt,
		Thumbnail:        deref(in.Thumbnail),
		Derivation:       d,
		ImportedAt:       in.ImportedAt,
	}
	return nil
}

// Validate checks that every color is a valid hex string and that the
// derivation can rebuild its source: original colors must be hex, an image
// ramp needs a decodable gradientImage, and a gpl ramp needs parseable
// gplData or, failing that, a hex color list.
func (r SavedRamp) Validate() error {
	for i, h := range r.Colors {
		if !colorspace.IsValidHex(h) {
			return fmt.Errorf("%w: color %d %q is not a hex color", ErrInvalidRamp, i, h)
		}
	}

	switch d := r.Derivation.(type) {
	case nil:
	case ColorsDerivation:
		if err := validHexList(d.OriginalColors); err != nil {
			return err
		}
	case ImageDerivation:
		if d.ImageRef == "" {
			return fmt.Errorf("%w: image ramp has no gradientImage", ErrInvalidRamp)
		}
		if _, err := imaging.DecodePixels(d.ImageRef); err != nil {
			return fmt.Errorf("%w: gradientImage: %v", ErrInvalidRamp, err)
		}
	case GPLDerivation:
		if err := validHexList(d.OriginalColors); err != nil {
			return err
		}
		if d.GPLData != "" {
			if _, err := gpl.ParseString(d.GPLData); err != nil {
				return fmt.Errorf("%w: gplData: %v", ErrInvalidRamp, err)
			}
		} else if len(d.OriginalColors) == 0 {
			return fmt.Errorf("%w: gpl ramp has neither gplData nor originalColors", ErrInvalidRamp)
		}
	}
	return nil
}

func validHexList(hexes []string) error {
	for i, h := range hexes {
		if !colorspace.IsValidHex(h) {
			return fmt.Errorf("%w: original color %d %q is not a hex color", ErrInvalidRamp, i, h)
		}
	}
	return nil
}
