// Package imaging turns decoded raster images into gradient sources and
// renders ramps back into small PNG images.
//
// # Normalization
//
// FromImage accepts any image.Image. Images whose larger side exceeds
// MaxDimension are downsampled first to bound the cost of each sample;
// the result is flattened into a gradient.Pixels buffer (row-major,
// 8-bit RGB, alpha dropped). Buffers no larger than the gradient
// package's small-image threshold are passed through untouched so the
// sampler can read them as discrete palettes.
//
// # Decoding
//
// Byte-level decoding is delegated to the standard image registry with
// PNG, JPEG and GIF from the standard library and BMP and WebP from
// golang.org/x/image. ImageCache keeps decoded images keyed by path.
//
// # Rendering
//
// EncodePixels stores a pixel buffer as a lossless PNG data URL so a
// saved ramp can be resampled from its original image later. Thumbnail
// and SwatchPNG render ramps for previews and export.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are
// stateless.
package imaging
