package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
)

// MaxDimension is the largest width or height kept before sampling.
// Larger images are scaled down to fit, preserving aspect ratio.
const MaxDimension = 800

// FromImage normalizes a decoded image into a gradient source.
//
// Returns:
//   - gradient.Source: a pixel source ready for gradient.Sample.
//   - *gradient.Pixels: the normalized buffer, for callers that keep it
//     as a derivation reference.
//   - error: Non-nil if the image is empty.
//
// # Downsampling
//
// When the larger side exceeds MaxDimension the image is fitted into a
// MaxDimension square with a box filter, which averages the pixels each
// output pixel covers. Smaller images, including small palette strips,
// are copied pixel for pixel.
func FromImage(img image.Image) (gradient.Source, *gradient.Pixels, error) {
	p, err := ToPixels(img)
	if err != nil {
		return gradient.Source{}, nil, err
	}
	src, err := gradient.NewPixels(p)
	if err != nil {
		return gradient.Source{}, nil, err
	}
	return src, p, nil
}

// ToPixels downsamples img if needed and flattens it into an RGB buffer.
func ToPixels(img image.Image) (*gradient.Pixels, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", gradient.ErrInvalidSource)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", gradient.ErrInvalidSource, b.Dx(), b.Dy())
	}

	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Box)
	}

	rgba := clone.AsRGBA(img)
	rb := rgba.Bounds()
	w, h := rb.Dx(), rb.Dy()

	p := &gradient.Pixels{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := rgba.PixOffset(rb.Min.X+x, rb.Min.Y+y)
			di := (y*w + x) * 3
			p.Pix[di] = rgba.Pix[si]
			p.Pix[di+1] = rgba.Pix[si+1]
			p.Pix[di+2] = rgba.Pix[si+2]
		}
	}
	return p, nil
}

// ToImage converts a pixel buffer back into an opaque image.
func ToImage(p *gradient.Pixels) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			si := (y*p.Width + x) * 3
			di := img.PixOffset(x, y)
			img.Pix[di] = p.Pix[si]
			img.Pix[di+1] = p.Pix[si+1]
			img.Pix[di+2] = p.Pix[si+2]
			img.Pix[di+3] = 0xff
		}
	}
	return img
}
