// Package store persists named color ramps over a pluggable key-value
// backend.
//
// Every operation is a locked read-modify-write of one collection
// document, so a failed write leaves the previous collection in place and
// nothing is reported as saved.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/imaging"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

// CollectionKey is the backend key holding the saved ramps.
const CollectionKey = "gradient-sampler-saved-ramps"

var (
	// ErrNotFound is returned for an id that is not in the store.
	ErrNotFound = errors.New("ramp not found")

	// ErrStorageUnavailable wraps any backend read or write failure.
	ErrStorageUnavailable = errors.New("ramp storage unavailable")

	// ErrInvalidRamp is returned for a ramp whose fields fail validation.
	ErrInvalidRamp = errors.New("invalid ramp")

	// ErrNotDerivable is returned when a ramp's derivation does not hold
	// enough data to rebuild its source.
	ErrNotDerivable = errors.New("ramp cannot be re-derived")
)

// Thumbnailer renders a ramp preview as a data URL.
type Thumbnailer func(colors []colorspace.RGB) (string, error)

// DefaultThumbnailer renders a 100x20 PNG gradient.
func DefaultThumbnailer(colors []colorspace.RGB) (string, error) {
	return imaging.Thumbnail(colors, imaging.ThumbnailWidth, imaging.ThumbnailHeight)
}

// collection is the document stored under CollectionKey. Seq is the last
// id sequence number handed out and only ever grows.
type collection struct {
	Seq   uint64      `json:"seq"`
	Ramps []SavedRamp `json:"ramps"`
}

// Store is a ramp collection over a Backend. It is safe for concurrent use
// within one process; writers in other processes race last-writer-wins.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	now       func() time.Time
	thumbnail Thumbnailer
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithThumbnailer replaces DefaultThumbnailer. Passing nil disables
// thumbnails.
func WithThumbnailer(t Thumbnailer) Option {
	return func(s *Store) { s.thumbnail = t }
}

// New returns a Store persisting into backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		now:       time.Now,
		thumbnail: DefaultThumbnailer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) load() (collection, error) {
	data, found, err := s.backend.Get(CollectionKey)
	if err != nil {
		Logger().Warn("ramp store read failed", "err", err)
		return collection{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !found || len(data) == 0 {
		return collection{}, nil
	}
	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		Logger().Warn("ramp store is corrupt", "err", err)
		return collection{}, fmt.Errorf("%w: stored ramps are corrupt: %v", ErrStorageUnavailable, err)
	}
	return c, nil
}

func (s *Store) write(c collection) error {
	if c.Ramps == nil {
		c.Ramps = []SavedRamp{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := s.backend.Set(CollectionKey, data); err != nil {
		Logger().Warn("ramp store write failed", "err", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// nextID hands out an id and advances c.Seq. The sequence number makes
// ids distinct even when two are issued in the same millisecond.
func (s *Store) nextID(c *collection, now time.Time) string {
	for {
		c.Seq++
		id := fmt.Sprintf("ramp_%d_%d", now.UnixMilli(), c.Seq)
		// Imported collections may already hold an id of this shape.
		if find(c.Ramps, id) < 0 {
			return id
		}
	}
}

func (s *Store) renderThumbnail(hexes []string) string {
	if s.thumbnail == nil || len(hexes) == 0 {
		return ""
	}
	colors, err := colorspace.ParseHexList(hexes)
	if err != nil {
		return ""
	}
	url, err := s.thumbnail(colors)
	if err != nil {
		Logger().Warn("thumbnail failed", "err", err)
		return ""
	}
	return url
}

func find(ramps []SavedRamp, id string) int {
	for i := range ramps {
		if ramps[i].ID == id {
			return i
		}
	}
	return -1
}

// NewRamp is the input to Save. Zero fields take the store defaults.
type NewRamp struct {
	Name             string
	Colors           []string
	SampleCount      int
	SamplingFunction sampling.Curve
	PowerValue       float64
	LuminanceMode    colorspace.LuminanceMode
	SamplingRange    *Range
	Thumbnail        string
	// Derivation defaults to a ColorsDerivation over Colors.
	Derivation Derivation
}

// Save stores a new ramp and returns it with its id, timestamps and
// thumbnail filled in.
//
// Defaults: name "Ramp N" (N is the new collection size), 11 samples,
// linear sampling, power 2.0, hsv luminance, range 0-100.
func (s *Store) Save(in NewRamp) (SavedRamp, error) {
	colors, err := normalizeColors(in.Colors)
	if err != nil {
		return SavedRamp{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return SavedRamp{}, err
	}

	now := s.now()
	r := SavedRamp{
		ID:               s.nextID(&c, now),
		Name:             in.Name,
		Colors:           colors,
		SampleCount:      in.SampleCount,
		SamplingFunction: in.SamplingFunction,
		PowerValue:       in.PowerValue,
		LuminanceMode:    in.LuminanceMode,
		SamplingRange:    FullRange,
		CreatedAt:        now,
		UpdatedAt:        now,
		Thumbnail:        in.Thumbnail,
		Derivation:       in.Derivation,
	}
	if r.Name == "" {
		r.Name = fmt.Sprintf("Ramp %d", len(c.Ramps)+1)
	}
	if r.SampleCount == 0 {
		r.SampleCount = sampling.DefaultSampleCount
	}
	if r.SamplingFunction == "" {
		r.SamplingFunction = sampling.CurveLinear
	}
	if r.PowerValue == 0 {
		r.PowerValue = sampling.DefaultPower
	}
	if r.LuminanceMode == "" {
		r.LuminanceMode = colorspace.DefaultLuminanceMode
	}
	if in.SamplingRange != nil {
		r.SamplingRange = *in.SamplingRange
	}
	if r.Derivation == nil {
		r.Derivation = ColorsDerivation{OriginalColors: append([]string(nil), colors...)}
	}
	if err := validateSettings(r); err != nil {
		return SavedRamp{}, err
	}
	if r.Thumbnail == "" {
		r.Thumbnail = s.renderThumbnail(r.Colors)
	}

	c.Ramps = append(c.Ramps, r)
	if err := s.write(c); err != nil {
		return SavedRamp{}, err
	}
	Logger().Debug("ramp saved", "id", r.ID, "name", r.Name, "source", r.SourceType())
	return r.clone(), nil
}

// Patch lists the fields Update changes. Nil fields are left as they are.
type Patch struct {
	Name             *string
	Colors           []string
	SampleCount      *int
	SamplingFunction *sampling.Curve
	PowerValue       *float64
	LuminanceMode    *colorspace.LuminanceMode
	SamplingRange    *Range
	// RangeStart and RangeEnd move one end of the sampling range, applied
	// after SamplingRange.
	RangeStart *float64
	RangeEnd   *float64
	Thumbnail  *string
	Derivation Derivation
}

func (p Patch) editsRange() bool {
	return p.SamplingRange != nil || p.RangeStart != nil || p.RangeEnd != nil
}

func (p Patch) apply(r *SavedRamp) error {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Colors != nil {
		colors, err := normalizeColors(p.Colors)
		if err != nil {
			return err
		}
		r.Colors = colors
	}
	if p.SampleCount != nil {
		r.SampleCount = *p.SampleCount
	}
	if p.SamplingFunction != nil {
		r.SamplingFunction = *p.SamplingFunction
	}
	if p.PowerValue != nil {
		r.PowerValue = *p.PowerValue
	}
	if p.LuminanceMode != nil {
		r.LuminanceMode = *p.LuminanceMode
	}
	if p.SamplingRange != nil {
		r.SamplingRange = *p.SamplingRange
	}
	if p.RangeStart != nil {
		r.SamplingRange.Start = *p.RangeStart
	}
	if p.RangeEnd != nil {
		r.SamplingRange.End = *p.RangeEnd
	}
	if p.Thumbnail != nil {
		r.Thumbnail = *p.Thumbnail
	}
	if p.Derivation != nil {
		r.Derivation = p.Derivation
	}

	// Imported palettes may carry more samples than a fresh ramp allows,
	// so the sampling settings are only checked when the patch edits them.
	if p.SampleCount != nil || p.SamplingFunction != nil || p.PowerValue != nil || p.editsRange() {
		return validateSettings(*r)
	}
	if p.LuminanceMode != nil && !r.LuminanceMode.Valid() {
		return fmt.Errorf("%w: unknown luminance mode %q", ErrInvalidRamp, r.LuminanceMode)
	}
	return nil
}

// Update merges patch into the ramp with the given id and bumps its
// updatedAt. When the colors change without a new thumbnail, the thumbnail
// is rendered again.
func (s *Store) Update(id string, patch Patch) (SavedRamp, error) {
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

	r := c.Ramps[i].clone()
	if err := patch.apply(&r); err != nil {
		return SavedRamp{}, err
	}
	if patch.Colors != nil && patch.Thumbnail == nil {
		r.Thumbnail = s.renderThumbnail(r.Colors)
	}
	r.UpdatedAt = s.now()

	c.Ramps[i] = r
	if err := s.write(c); err != nil {
		return SavedRamp{}, err
	}
	Logger().Debug("ramp updated", "id", id)
	return r.clone(), nil
}

// Delete removes the ramp with the given id. It reports false when no such
// ramp exists.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return false, err
	}
	i := find(c.Ramps, id)
	if i < 0 {
		return false, nil
	}
	c.Ramps = append(c.Ramps[:i], c.Ramps[i+1:]...)
	if err := s.write(c); err != nil {
		return false, err
	}
	Logger().Debug("ramp deleted", "id", id)
	return true, nil
}

// List returns every ramp, most recently updated first. The order is
// computed on each call.
func (s *Store) List() ([]SavedRamp, error) {
	s.mu.Lock()
	c, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]SavedRamp, len(c.Ramps))
	for i, r := range c.Ramps {
		out[i] = r.clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Get returns the ramp with the given id.
func (s *Store) Get(id string) (SavedRamp, error) {
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
	return c.Ramps[i].clone(), nil
}

// Duplicate saves a copy of a ramp under a fresh id, named with a
// " (Copy)" suffix. The copy keeps the original's source type and
// derivation.
func (s *Store) Duplicate(id string) (SavedRamp, error) {
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

	now := s.now()
	dup := c.Ramps[i].clone()
	dup.ID = s.nextID(&c, now)
	dup.Name += " (Copy)"
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.ImportedAt = nil

	c.Ramps = append(c.Ramps, dup)
	if err := s.write(c); err != nil {
		return SavedRamp{}, err
	}
	Logger().Debug("ramp duplicated", "from", id, "id", dup.ID)
	return dup.clone(), nil
}

// Clear removes every ramp. The id sequence is kept so ids handed out
// before the clear are never issued again.
func (s *Store) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return false, err
	}
	n := len(c.Ramps)
	c.Ramps = nil
	if err := s.write(c); err != nil {
		return false, err
	}
	Logger().Info("ramps cleared", "count", n)
	return true, nil
}

// Append adds ramps under fresh ids in one write and stamps each with
// importedAt. Records are validated first; one invalid record rejects the
// whole batch.
func (s *Store) Append(ramps []SavedRamp) ([]SavedRamp, error) {
	return s.insert(ramps, false)
}

// ReplaceAll discards the current ramps and stores ramps under fresh ids,
// in one write.
func (s *Store) ReplaceAll(ramps []SavedRamp) ([]SavedRamp, error) {
	return s.insert(ramps, true)
}

func (s *Store) insert(ramps []SavedRamp, replace bool) ([]SavedRamp, error) {
	prepared := make([]SavedRamp, len(ramps))
	for i, r := range ramps {
		r = r.clone()
		colors, err := normalizeColors(r.Colors)
		if err != nil {
			return nil, fmt.Errorf("ramp %d: %w", i, err)
		}
		r.Colors = colors
		prepared[i] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return nil, err
	}
	if replace {
		c.Ramps = nil
	}

	now := s.now()
	for i := range prepared {
		r := &prepared[i]
		r.ID = s.nextID(&c, now)
		stamp := now
		r.ImportedAt = &stamp
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
		if r.SampleCount == 0 {
			r.SampleCount = len(r.Colors)
		}
		if r.SamplingFunction == "" {
			r.SamplingFunction = sampling.CurveLinear
		}
		if r.PowerValue == 0 {
			r.PowerValue = sampling.DefaultPower
		}
		if r.LuminanceMode == "" {
			r.LuminanceMode = colorspace.DefaultLuminanceMode
		}
		if r.SamplingRange == (Range{}) {
			r.SamplingRange = FullRange
		}
		if r.Derivation == nil {
			r.Derivation = ColorsDerivation{OriginalColors: append([]string(nil), r.Colors...)}
		}
		if r.Thumbnail == "" {
			r.Thumbnail = s.renderThumbnail(r.Colors)
		}
	}

	c.Ramps = append(c.Ramps, prepared...)
	if err := s.write(c); err != nil {
		return nil, err
	}
	Logger().Info("ramps imported", "count", len(prepared), "replace", replace)

	out := make([]SavedRamp, len(prepared))
	for i, r := range prepared {
		out[i] = r.clone()
	}
	return out, nil
}

// Stats summarizes the collection.
type Stats struct {
	Total        int                `json:"total"`
	BySource     map[SourceType]int `json:"bySourceType"`
	TotalColors  int                `json:"totalColors"`
	Imported     int                `json:"imported"`
	OldestUpdate *time.Time         `json:"oldestUpdate,omitempty"`
	NewestUpdate *time.Time         `json:"newestUpdate,omitempty"`
}

// Stats counts the stored ramps by source type.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	c, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Total:    len(c.Ramps),
		BySource: map[SourceType]int{SourceColors: 0, SourceImage: 0, SourceGPL: 0},
	}
	for _, r := range c.Ramps {
		st.BySource[r.SourceType()]++
		st.TotalColors += len(r.Colors)
		if r.ImportedAt != nil {
			st.Imported++
		}
		u := r.UpdatedAt
		if st.OldestUpdate == nil || u.Before(*st.OldestUpdate) {
			st.OldestUpdate = &u
		}
		if st.NewestUpdate == nil || u.After(*st.NewestUpdate) {
			st.NewestUpdate = &u
		}
	}
	return st, nil
}

func normalizeColors(hexes []string) ([]string, error) {
	out := make([]string, len(hexes))
	for i, h := range hexes {
		n, err := colorspace.NormalizeHex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: color %d: %w", ErrInvalidRamp, i, err)
		}
		out[i] = n
	}
	return out, nil
}

func validateSettings(r SavedRamp) error {
	if !r.LuminanceMode.Valid() {
		return fmt.Errorf("%w: unknown luminance mode %q", ErrInvalidRamp, r.LuminanceMode)
	}
	if err := r.SamplingConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRamp, err)
	}
	return nil
}
