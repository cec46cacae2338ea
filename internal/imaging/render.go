package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
)

const pngDataURLPrefix = "data:image/png;base64,"

// Default thumbnail size for saved ramps.
const (
	ThumbnailWidth  = 100
	ThumbnailHeight = 20
)

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes in a "data:image/png;base64," URL.
func DataURL(pngData []byte) string {
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(pngData)
}

// EncodePixels stores a pixel buffer as a PNG data URL. PNG is lossless,
// so DecodePixels returns the same buffer.
func EncodePixels(p *gradient.Pixels) (string, error) {
	data, err := EncodePNG(ToImage(p))
	if err != nil {
		return "", err
	}
	return DataURL(data), nil
}

// DecodePixels reverses EncodePixels. It accepts a data URL of any image
// mime type or bare base64, and normalizes the decoded image with
// ToPixels.
func DecodePixels(ref string) (*gradient.Pixels, error) {
	payload := ref
	mimeType := ""
	if strings.HasPrefix(ref, "data:") {
		comma := strings.IndexByte(ref, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		meta := ref[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("data URL is not base64 encoded")
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = ref[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image reference: %w", err)
	}
	img, err := Decode(data, mimeType)
	if err != nil {
		return nil, err
	}
	return ToPixels(img)
}

// strip renders colors as an n x 1 image, one pixel per color.
func strip(colors []colorspace.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		o := img.PixOffset(i, 0)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, 0xff
	}
	return img
}

// Thumbnail renders colors as a horizontal gradient of width x height and
// returns it as a PNG data URL. An empty color list yields "".
//
// The strip of colors is stretched with bilinear filtering, which blends
// neighbouring colors the way a CSS linear gradient does.
func Thumbnail(colors []colorspace.RGB, width, height int) (string, error) {
	if len(colors) == 0 {
		return "", nil
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid thumbnail size %dx%d", width, height)
	}

	src := strip(colors)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	data, err := EncodePNG(dst)
	if err != nil {
		return "", err
	}
	return DataURL(data), nil
}

// Swatch limits. The largest swatch is MaxSwatchColors*MaxSwatchTile
// pixels wide.
const (
	MaxSwatchTile   = 512
	MaxSwatchColors = 256
)

// SwatchPNG renders colors as a row of square tiles, tile pixels each,
// and returns the PNG bytes. tile must be in 1..MaxSwatchTile and there
// may be at most MaxSwatchColors colors.
func SwatchPNG(colors []colorspace.RGB, tile int) ([]byte, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("no colors to render")
	}
	if len(colors) > MaxSwatchColors {
		return nil, fmt.Errorf("too many colors to render: %d, max %d", len(colors), MaxSwatchColors)
	}
	if tile < 1 || tile > MaxSwatchTile {
		return nil, fmt.Errorf("invalid tile size %d, want 1-%d", tile, MaxSwatchTile)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, tile*len(colors), tile))
	// Nearest-neighbour keeps the tile edges hard.
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), strip(colors), image.Rect(0, 0, len(colors), 1), draw.Src, nil)
	return EncodePNG(dst)
}
