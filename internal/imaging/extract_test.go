package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
)

func TestToPixels_CopiesSmallImages(t *testing.T) {
	img := createGradientImage(11, 1)

	p, err := ToPixels(img)
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	if p.Width != 11 || p.Height != 1 {
		t.Fatalf("pixels are %dx%d, want 11x1", p.Width, p.Height)
	}
	for x := 0; x < 11; x++ {
		if got, want := p.At(x, 0).R, uint8(x*255/10); got != want {
			t.Errorf("pixel %d red = %d, want %d", x, got, want)
		}
	}
}

func TestToPixels_Downsamples(t *testing.T) {
	img := createGradientImage(2000, 100)

	p, err := ToPixels(img)
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	if p.Width != MaxDimension {
		t.Errorf("width = %d, want %d", p.Width, MaxDimension)
	}
	if p.Height != 40 {
		t.Errorf("height = %d, want 40 (aspect ratio kept)", p.Height)
	}
}

func TestToPixels_HonorsBoundsOffset(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.RGBA{255, 0, 0, 255})
	img.Set(12, 11, color.RGBA{0, 0, 255, 255})

	p, err := ToPixels(img)
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	if p.Width != 3 || p.Height != 2 {
		t.Fatalf("pixels are %dx%d, want 3x2", p.Width, p.Height)
	}
	if got := p.At(0, 0); got.R != 255 {
		t.Errorf("top-left = %v, want red", got)
	}
	if got := p.At(2, 1); got.B != 255 {
		t.Errorf("bottom-right = %v, want blue", got)
	}
}

func TestToPixels_Empty(t *testing.T) {
	if _, err := ToPixels(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, gradient.ErrInvalidSource) {
		t.Errorf("ToPixels of empty image: error = %v, want ErrInvalidSource", err)
	}
	if _, err := ToPixels(nil); !errors.Is(err, gradient.ErrInvalidSource) {
		t.Errorf("ToPixels(nil): error = %v, want ErrInvalidSource", err)
	}
}

func TestFromImage_SampleEndpoints(t *testing.T) {
	src, _, err := FromImage(createGradientImage(256, 50))
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	cfg := sampling.DefaultConfig()
	cfg.SampleCount = 2
	ramp, err := gradient.Sample(src, cfg)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if ramp.Samples[0].Hex != "#000000" || ramp.Samples[1].Hex != "#ff0000" {
		t.Errorf("endpoints = %v, want #000000 and #ff0000", ramp.Hexes())
	}
}

func TestToImage_RoundTrip(t *testing.T) {
	p, err := ToPixels(createGradientImage(30, 5))
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	back, err := ToPixels(ToImage(p))
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}
	if string(back.Pix) != string(p.Pix) {
		t.Error("ToImage/ToPixels round trip changed the pixels")
	}
}
