// Package colorspace converts colors between RGB, HSV, hex and CIE LAB.
//
// RGB is the canonical representation: every other form is derived from
// an RGB triple and converted back to one. Conversions clamp their outputs
// to the valid range of the target space so that repeated round trips do
// not drift.
//
// # Ranges
//
//   - RGB: 8-bit channels (0-255)
//   - Hex: "#rrggbb", lowercase on output; "#rgb" shorthand accepted on input
//   - HSV: H in [0,360), S and V in [0,100]
//   - LAB: L in [0,100], A and B in [-128,127], D65 white point
//
// # Luminance
//
// Two lightness metrics are supported, selected by LuminanceMode:
//
//   - ModeHSV: the V channel, a cheap pseudo-luminance
//   - ModeCIEL: perceptual CIE L*
//
// The two are not interchangeable. A value captured under one mode must
// not be reinterpreted under the other; callers that store a luminance
// value should store the mode alongside it.
//
// # Error Handling
//
// Malformed hex strings and unknown mode names are rejected with errors
// wrapping ErrInvalidColorFormat. Nothing is silently coerced.
package colorspace
