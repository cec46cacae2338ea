package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
)

func TestEncodeDecodePixels(t *testing.T) {
	p, err := ToPixels(createGradientImage(40, 6))
	if err != nil {
		t.Fatalf("ToPixels failed: %v", err)
	}

	ref, err := EncodePixels(p)
	if err != nil {
		t.Fatalf("EncodePixels failed: %v", err)
	}
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		t.Errorf("reference should be a PNG data URL, got %.30s...", ref)
	}

	back, err := DecodePixels(ref)
	if err != nil {
		t.Fatalf("DecodePixels failed: %v", err)
	}
	if back.Width != p.Width || back.Height != p.Height || string(back.Pix) != string(p.Pix) {
		t.Error("DecodePixels did not restore the original buffer")
	}

	// Bare base64 without the data URL prefix is accepted too.
	bare := strings.TrimPrefix(ref, "data:image/png;base64,")
	if _, err := DecodePixels(bare); err != nil {
		t.Errorf("DecodePixels of bare base64 failed: %v", err)
	}
}

func TestDecodePixels_Invalid(t *testing.T) {
	tests := []string{
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,!!!",
		base64.StdEncoding.EncodeToString([]byte("not a png")),
	}
	for _, ref := range tests {
		if _, err := DecodePixels(ref); err == nil {
			t.Errorf("DecodePixels(%q) should fail", ref)
		}
	}
}

func decodeDataURL(t *testing.T, url string) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("thumbnail is not base64: %v", err)
	}
	return data
}

func TestThumbnail(t *testing.T) {
	colors := []colorspace.RGB{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}

	url, err := Thumbnail(colors, ThumbnailWidth, ThumbnailHeight)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(decodeDataURL(t, url)))
	if err != nil {
		t.Fatalf("thumbnail is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != ThumbnailWidth || b.Dy() != ThumbnailHeight {
		t.Errorf("thumbnail is %dx%d, want %dx%d", b.Dx(), b.Dy(), ThumbnailWidth, ThumbnailHeight)
	}

	left, _, _, _ := img.At(0, 10).RGBA()
	right, _, _, _ := img.At(ThumbnailWidth-1, 10).RGBA()
	if left >= right {
		t.Errorf("thumbnail should get lighter left to right: left=%d right=%d", left>>8, right>>8)
	}
}

func TestThumbnail_Empty(t *testing.T) {
	url, err := Thumbnail(nil, ThumbnailWidth, ThumbnailHeight)
	if err != nil || url != "" {
		t.Errorf("Thumbnail(nil) = %q, %v; want empty, nil", url, err)
	}
	if _, err := Thumbnail([]colorspace.RGB{{R: 1, G: 2, B: 3}}, 0, 10); err == nil {
		t.Error("Thumbnail should reject a zero width")
	}
}

func TestSwatchPNG(t *testing.T) {
	colors := []colorspace.RGB{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}}

	data, err := SwatchPNG(colors, 10)
	if err != nil {
		t.Fatalf("SwatchPNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("swatch is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 10 {
		t.Fatalf("swatch is %dx%d, want 30x10", b.Dx(), b.Dy())
	}
	for i, c := range colors {
		r, g, b, _ := img.At(i*10+5, 5).RGBA()
		got := colorspace.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		if got != c {
			t.Errorf("tile %d = %v, want %v", i, got, c)
		}
	}

	if _, err := SwatchPNG(nil, 10); err == nil {
		t.Error("SwatchPNG should fail without colors")
	}
}

func TestSwatchPNG_Bounds(t *testing.T) {
	one := []colorspace.RGB{{R: 10, G: 20, B: 30}}

	for _, tile := range []int{0, -1, MaxSwatchTile + 1, 3037000500} {
		if _, err := SwatchPNG(one, tile); err == nil {
			t.Errorf("SwatchPNG(tile=%d) should fail", tile)
		}
	}
	for _, tile := range []int{1, MaxSwatchTile} {
		if _, err := SwatchPNG(one, tile); err != nil {
			t.Errorf("SwatchPNG(tile=%d) failed: %v", tile, err)
		}
	}

	many := make([]colorspace.RGB, MaxSwatchColors+1)
	if _, err := SwatchPNG(many, 1); err == nil {
		t.Error("SwatchPNG should reject more than MaxSwatchColors colors")
	}
}
