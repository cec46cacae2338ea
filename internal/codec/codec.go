// Package codec moves saved ramps in and out of a store as portable
// bundles: JSON export files and GIMP palettes.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gpl"
	"github.com/ironsheep/ramp-tools-mcp/internal/store"
)

// BundleVersion is written into every export.
const BundleVersion = "1.0"

// ErrImportFormat is returned for input that does not match the bundle
// shape. Nothing is imported when it is returned.
var ErrImportFormat = errors.New("invalid import format")

// Bundle is the export file layout.
type Bundle struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Ramps      []store.SavedRamp `json:"ramps"`
}

// Export snapshots every ramp in st, most recently updated first.
func Export(st *store.Store, now time.Time) (Bundle, error) {
	ramps, err := st.List()
	if err != nil {
		return Bundle{}, err
	}
	if ramps == nil {
		ramps = []store.SavedRamp{}
	}
	return Bundle{Version: BundleVersion, ExportedAt: now, Ramps: ramps}, nil
}

// Marshal encodes b as two-space indented JSON.
func Marshal(b Bundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	return data, nil
}

// FileName returns the suggested download name for an export made at now.
func FileName(now time.Time) string {
	return "gradient-ramps-" + now.Format("2006-01-02") + ".json"
}

// Decode parses and validates a bundle without touching any store.
//
// The input must be a JSON object whose "ramps" field is an array of ramp
// records with valid hex colors and a usable derivation. A "version" field, when present, must be
// a 1.x version.
func Decode(data []byte) (Bundle, error) {
	var raw struct {
		Version    *string         `json:"version"`
		ExportedAt *time.Time      `json:"exportedAt"`
		Ramps      json.RawMessage `json:"ramps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	b := Bundle{Version: BundleVersion}
	if raw.Version != nil {
		v := *raw.Version
		if v != "1" && !strings.HasPrefix(v, "1.") {
			return Bundle{}, fmt.Errorf("%w: unsupported bundle version %q", ErrImportFormat, v)
		}
		b.Version = v
	}
	if raw.ExportedAt != nil {
		b.ExportedAt = *raw.ExportedAt
	}

	trimmed := bytes.TrimSpace(raw.Ramps)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Bundle{}, fmt.Errorf("%w: \"ramps\" must be a list", ErrImportFormat)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	b.Ramps = make([]store.SavedRamp, 0, len(items))
	for i, item := range items {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			return Bundle{}, fmt.Errorf("%w: ramp %d is null", ErrImportFormat, i)
		}
		var r store.SavedRamp
		if err := json.Unmarshal(item, &r); err != nil {
			return Bundle{}, fmt.Errorf("%w: ramp %d: %v", ErrImportFormat, i, err)
		}
		if err := r.Validate(); err != nil {
			return Bundle{}, fmt.Errorf("%w: ramp %d: %v", ErrImportFormat, i, err)
		}
		b.Ramps = append(b.Ramps, r)
	}
	return b, nil
}

// Import decodes data and appends its ramps to st in one write, each under
// a freshly generated id.
//
// Returns:
//   - int: the number of ramps imported.
//   - error: ErrImportFormat for a malformed bundle, in which case st is
//     untouched; store.ErrStorageUnavailable if the write fails.
func Import(st *store.Store, data []byte) (int, error) {
	b, err := Decode(data)
	if err != nil {
		store.Logger().Warn("import rejected", "err", err)
		return 0, err
	}

	added, err := st.Append(b.Ramps)
	if err != nil {
		if errors.Is(err, store.ErrInvalidRamp) {
			return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		return 0, err
	}
	return len(added), nil
}

// ExportGPL writes ramps as one GIMP palette file, one "# Ramp:" section
// per ramp.
func ExportGPL(w io.Writer, name string, ramps []store.SavedRamp) error {
	if len(ramps) == 0 {
		return errors.New("no ramps to export")
	}

	palettes := make([]gpl.Palette, 0, len(ramps))
	for _, r := range ramps {
		colors, err := colorspace.ParseHexList(r.Colors)
		if err != nil {
			return fmt.Errorf("ramp %s: %w", r.ID, err)
		}
		palettes = append(palettes, gpl.FromColors(r.Name, colors))
	}
	return gpl.Format(w, name, palettes...)
}

// ImportGPL reads a GIMP palette file and replaces all saved ramps with
// one ramp per palette section.
func ImportGPL(st *store.Store, r io.Reader) (int, error) {
	ramps, err := RampsFromGPL(r)
	if err != nil {
		return 0, err
	}
	added, err := st.ReplaceAll(ramps)
	if err != nil {
		return 0, err
	}
	return len(added), nil
}

// RampsFromGPL converts each palette section into an unsaved ramp with a
// GPL derivation.
func RampsFromGPL(r io.Reader) ([]store.SavedRamp, error) {
	palettes, err := gpl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	ramps := make([]store.SavedRamp, len(palettes))
	for i, p := range palettes {
		hexes := colorspace.HexList(p.Colors())
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Palette %d", i+1)
		}
		ramps[i] = store.SavedRamp{
			Name:        name,
			Colors:      hexes,
			SampleCount: len(hexes),
			Derivation: store.GPLDerivation{
				GPLData:        p.String(),
				OriginalColors: hexes,
			},
		}
	}
	return ramps, nil
}
