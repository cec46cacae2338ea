package picker

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
)

func TestNew_DefaultsToRed(t *testing.T) {
	p := New("")
	st := p.State()
	if st.Hex != "#ff0000" {
		t.Errorf("Hex = %s, want #ff0000", st.Hex)
	}
	if st.Mode != colorspace.ModeHSV {
		t.Errorf("Mode = %s, want hsv", st.Mode)
	}
	if st.Luminance != 100 {
		t.Errorf("Luminance = %v, want 100", st.Luminance)
	}
}

func TestSetHex(t *testing.T) {
	p := New(colorspace.ModeHSV)

	if err := p.SetHex("#3366CC"); err != nil {
		t.Fatalf("SetHex failed: %v", err)
	}
	if got := p.Hex(); got != "#3366cc" {
		t.Errorf("Hex = %s, want #3366cc", got)
	}

	for _, bad := range []string{"3366cc", "#12", "#gggggg", ""} {
		if err := p.SetHex(bad); !errors.Is(err, colorspace.ErrInvalidColorFormat) {
			t.Errorf("SetHex(%q) error = %v, want ErrInvalidColorFormat", bad, err)
		}
	}
	if got := p.Hex(); got != "#3366cc" {
		t.Errorf("invalid input changed the color to %s", got)
	}
}

func TestSetHueAndSV(t *testing.T) {
	p := New(colorspace.ModeHSV)

	p.SetHue(120)
	if got := p.Hex(); got != "#00ff00" {
		t.Errorf("hue 120 = %s, want #00ff00", got)
	}
	p.SetHue(480)
	if got := p.State().HSV.H; got != 120 {
		t.Errorf("hue 480 wrapped to %v, want 120", got)
	}
	p.SetHue(-90)
	if got := p.State().HSV.H; got != 270 {
		t.Errorf("hue -90 wrapped to %v, want 270", got)
	}

	p.SetSaturationValue(0, 150)
	if got := p.Hex(); got != "#ffffff" {
		t.Errorf("s=0 v=150 = %s, want #ffffff", got)
	}
}

func TestSetLuminance_HSV(t *testing.T) {
	p := New(colorspace.ModeHSV)
	p.SetLuminance(50)

	st := p.State()
	if st.HSV.V != 50 || st.HSV.H != 0 || st.HSV.S != 100 {
		t.Errorf("HSV = %+v, want V=50 with hue and saturation kept", st.HSV)
	}
	if st.Hex != "#800000" {
		t.Errorf("Hex = %s, want #800000", st.Hex)
	}
}

func TestSetLuminance_CIEL(t *testing.T) {
	p := New(colorspace.ModeCIEL)
	if err := p.SetHex("#777777"); err != nil {
		t.Fatal(err)
	}

	p.SetLuminance(70)
	if l := p.Luminance(); math.Abs(l-70) > 0.5 {
		t.Errorf("L* = %.2f, want 70", l)
	}
	// Gray stays gray.
	if s := p.State().HSV.S; s > 1 {
		t.Errorf("saturation = %.2f, want ~0", s)
	}
}

func TestSetMode_KeepsColor(t *testing.T) {
	p := New(colorspace.ModeHSV)
	if err := p.SetHex("#ff0000"); err != nil {
		t.Fatal(err)
	}
	before := p.Hex()
	if l := p.Luminance(); l != 100 {
		t.Fatalf("hsv luminance = %v, want 100", l)
	}

	if err := p.SetMode(colorspace.ModeCIEL); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if p.Hex() != before {
		t.Errorf("SetMode changed the color from %s to %s", before, p.Hex())
	}
	if l := p.Luminance(); math.Abs(l-53.24) > 0.1 {
		t.Errorf("ciel luminance = %.2f, want 53.24", l)
	}

	if err := p.SetMode("oklab"); err == nil {
		t.Error("SetMode should reject unknown modes")
	}
}

func TestSelection(t *testing.T) {
	p := New(colorspace.ModeHSV)

	if _, err := p.Add(); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := p.Add(); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Add error = %v, want ErrDuplicate", err)
	}

	for h := 1; len(p.Selection()) < MaxSelection; h++ {
		p.SetHue(float64(h * 40))
		if _, err := p.Add(); err != nil {
			t.Fatalf("Add at hue %d failed: %v", h*40, err)
		}
	}
	p.SetHex("#123456")
	if _, err := p.Add(); !errors.Is(err, ErrSelectionFull) {
		t.Errorf("Add past the limit: error = %v, want ErrSelectionFull", err)
	}

	removed, err := p.Remove(0)
	if err != nil || removed != "#ff0000" {
		t.Errorf("Remove(0) = %q, %v; want #ff0000", removed, err)
	}
	if _, err := p.Remove(42); err == nil {
		t.Error("Remove out of range should fail")
	}
	if n := len(p.Selection()); n != MaxSelection-1 {
		t.Errorf("selection has %d colors, want %d", n, MaxSelection-1)
	}

	p.ClearSelection()
	if n := len(p.Selection()); n != 0 {
		t.Errorf("selection has %d colors after clear", n)
	}
}
