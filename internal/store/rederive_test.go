package store

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gpl"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/imaging"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

func equalColors(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReDerive_FromOriginalColors(t *testing.T) {
	st, _ := newTestStore(t)
	r, err := st.Save(NewRamp{
		Colors:      []string{"#000000", "#808080", "#ffffff"},
		SampleCount: 3,
		Derivation:  ColorsDerivation{OriginalColors: []string{"#000000", "#ffffff"}},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Poison the sampled colors: a correct re-derivation never looks at them.
	r.Colors = []string{"#ff00ff", "#ff00ff", "#ff00ff"}

	out, err := st.ReDerive(r, 5, sampling.CurveLinear, 2)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	want := []string{"#000000", "#404040", "#808080", "#bfbfbf", "#ffffff"}
	if !equalColors(out.Colors, want) {
		t.Errorf("Colors = %v, want %v", out.Colors, want)
	}
	if out.SampleCount != 5 {
		t.Errorf("SampleCount = %d, want 5", out.SampleCount)
	}
}

func TestReDerive_Idempotent(t *testing.T) {
	st, _ := newTestStore(t)
	r, _ := st.Save(NewRamp{
		Colors:     []string{"#ff0000", "#00ff00", "#0000ff"},
		Derivation: ColorsDerivation{OriginalColors: []string{"#ff0000", "#00ff00", "#0000ff"}},
	})

	once, err := st.ReDerive(r, 7, sampling.CurveParametric, 2.5)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	twice, err := st.ReDerive(once, 7, sampling.CurveParametric, 2.5)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	if !equalColors(once.Colors, twice.Colors) {
		t.Errorf("re-deriving twice changed the colors:\n%v\n%v", once.Colors, twice.Colors)
	}

	// Going down and back up returns the same ramp too.
	down, _ := st.ReDerive(once, 3, sampling.CurveLinear, 2)
	up, _ := st.ReDerive(down, 7, sampling.CurveParametric, 2.5)
	if !equalColors(up.Colors, once.Colors) {
		t.Errorf("round trip through 3 samples drifted:\n%v\n%v", up.Colors, once.Colors)
	}
}

func TestReDerive_HexInput(t *testing.T) {
	st, _ := newTestStore(t)
	r := SavedRamp{
		SamplingRange: FullRange,
		Derivation:    ColorsDerivation{HexInput: "black, #fff"},
	}
	out, err := st.ReDerive(r, 3, sampling.CurveLinear, 2)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	if !equalColors(out.Colors, []string{"#000000", "#808080", "#ffffff"}) {
		t.Errorf("Colors = %v", out.Colors)
	}
}

func TestReDerive_Image(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 101, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x <= 100; x++ {
			img.Set(x, y, color.RGBA{0, uint8(x * 255 / 100), 0, 255})
		}
	}
	p, err := imaging.ToPixels(img)
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	ref, err := imaging.EncodePixels(p)
	if err != nil {
		t.Fatalf("EncodePixels failed: %v", err)
	}

	st, _ := newTestStore(t)
	r, _ := st.Save(NewRamp{Colors: []string{"#000"}, Derivation: ImageDerivation{ImageRef: ref}})

	out, err := st.ReDerive(r, 2, sampling.CurveLinear, 2)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	if !equalColors(out.Colors, []string{"#000000", "#00ff00"}) {
		t.Errorf("Colors = %v, want black to green", out.Colors)
	}
	if out.SourceType() != SourceImage {
		t.Errorf("SourceType = %q, want image", out.SourceType())
	}

	if _, err := st.ReDerive(SavedRamp{Derivation: ImageDerivation{}}, 3, sampling.CurveLinear, 2); !errors.Is(err, ErrNotDerivable) {
		t.Errorf("missing image: error = %v, want ErrNotDerivable", err)
	}
}

func TestReDerive_GPL(t *testing.T) {
	palette := gpl.FromColors("Traffic", []colorspace.RGB{{R: 255}, {R: 255, G: 255}, {G: 255}})
	st, _ := newTestStore(t)
	r, _ := st.Save(NewRamp{
		Colors:     []string{"#ff0000", "#ffff00", "#00ff00"},
		Derivation: GPLDerivation{GPLData: palette.String()},
	})

	out, err := st.ReDerive(r, 3, sampling.CurveLinear, 2)
	if err != nil {
		t.Fatalf("ReDerive failed: %v", err)
	}
	if !equalColors(out.Colors, []string{"#ff0000", "#ffff00", "#00ff00"}) {
		t.Errorf("Colors = %v", out.Colors)
	}

	if _, err := st.ReDerive(SavedRamp{Derivation: GPLDerivation{GPLData: "not a palette"}}, 3, sampling.CurveLinear, 2); !errors.Is(err, ErrNotDerivable) {
		t.Errorf("broken gplData: error = %v, want ErrNotDerivable", err)
	}
}

func TestReDerive_Errors(t *testing.T) {
	st, _ := newTestStore(t)

	if _, err := st.ReDerive(SavedRamp{}, 3, sampling.CurveLinear, 2); !errors.Is(err, ErrNotDerivable) {
		t.Errorf("nil derivation: error = %v, want ErrNotDerivable", err)
	}

	r := SavedRamp{SamplingRange: FullRange, Derivation: ColorsDerivation{OriginalColors: []string{"#000", "#fff"}}}
	if _, err := st.ReDerive(r, 99, sampling.CurveLinear, 2); !errors.Is(err, sampling.ErrInvalidConfig) {
		t.Errorf("sample count 99: error = %v, want ErrInvalidConfig", err)
	}

	one := SavedRamp{SamplingRange: FullRange, Derivation: ColorsDerivation{OriginalColors: []string{"#000"}}}
	if _, err := st.ReDerive(one, 3, sampling.CurveLinear, 2); !errors.Is(err, gradient.ErrInvalidSource) {
		t.Errorf("single stop: error = %v, want ErrInvalidSource", err)
	}
}

func TestReDeriveAndSave(t *testing.T) {
	st, _ := newTestStore(t)
	r, _ := st.Save(NewRamp{Colors: []string{"#000", "#fff"}})

	out, err := st.ReDeriveAndSave(r.ID, 4, sampling.CurvePower, 2)
	if err != nil {
		t.Fatalf("ReDeriveAndSave failed: %v", err)
	}
	stored, _ := st.Get(r.ID)
	if !equalColors(stored.Colors, out.Colors) || stored.SampleCount != 4 || stored.SamplingFunction != sampling.CurvePower {
		t.Errorf("stored ramp = %+v, want re-derived result", stored)
	}

	if _, err := st.ReDeriveAndSave("ramp_0_0", 4, sampling.CurveLinear, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: error = %v, want ErrNotFound", err)
	}
}

func TestValidate_Derivation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{uint8(x * 60), 0, 0, 255})
	}
	p, err := imaging.ToPixels(img)
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	ref, err := imaging.EncodePixels(p)
	if err != nil {
		t.Fatalf("EncodePixels failed: %v", err)
	}
	palette := gpl.FromColors("Two", []colorspace.RGB{{R: 255}, {B: 255}})

	tests := []struct {
		name    string
		d       Derivation
		wantErr bool
	}{
		{"no derivation", nil, false},
		{"colors", ColorsDerivation{OriginalColors: []string{"#fff", "#000000"}}, false},
		{"colors bad hex", ColorsDerivation{OriginalColors: []string{"#fff", "red"}}, true},
		{"image", ImageDerivation{ImageRef: ref}, false},
		{"image empty", ImageDerivation{}, true},
		{"image garbage", ImageDerivation{ImageRef: "data:image/png;base64,AAAA"}, true},
		{"gpl data", GPLDerivation{GPLData: palette.String()}, false},
		{"gpl colors only", GPLDerivation{OriginalColors: []string{"#ff0000", "#0000ff"}}, false},
		{"gpl empty", GPLDerivation{}, true},
		{"gpl bad data", GPLDerivation{GPLData: "not a palette"}, true},
		{"gpl bad color", GPLDerivation{GPLData: palette.String(), OriginalColors: []string{"#12"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SavedRamp{Colors: []string{"#ff0000"}, Derivation: tt.d}
			err := r.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRamp) {
					t.Errorf("Validate() = %v, want ErrInvalidRamp", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
