package colorspace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsValidHex reports whether s is a "#rgb" or "#rrggbb" hex color.
// The leading '#' is required; digits are case-insensitive.
func IsValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// RGBToHex formats an RGB color as lowercase "#rrggbb".
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexToRGB parses a "#rgb" or "#rrggbb" string. Shorthand expands by digit
// duplication, so "#abc" is "#aabbcc".
//
// Anything else, including a missing '#', is rejected with an error
// wrapping ErrInvalidColorFormat.
func HexToRGB(s string) (RGB, error) {
	if !IsValidHex(s) {
		return RGB{}, fmt.Errorf("%w: %q is not a #rgb or #rrggbb hex color", ErrInvalidColorFormat, s)
	}
	digits := s[1:]
	if len(digits) == 3 {
		digits = string([]byte{
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		})
	}
	val, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidColorFormat, err)
	}
	return RGB{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

// NormalizeHex validates s and returns it in canonical "#rrggbb" form.
func NormalizeHex(s string) (string, error) {
	c, err := HexToRGB(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// ParseColorList parses free-text stop input such as
// "#ff0000, #0f0 navy".
//
// Entries are separated by commas and/or whitespace. An entry starting
// with '#' must be a valid hex color. A bare word is looked up in the
// SVG 1.1 color keyword table (case-insensitive). The first entry that
// is neither fails the whole list; no entry is skipped.
func ParseColorList(input string) ([]RGB, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	colors := make([]RGB, 0, len(fields))
	for _, f := range fields {
		c, err := parseColorToken(f)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

func parseColorToken(tok string) (RGB, error) {
	if strings.HasPrefix(tok, "#") {
		return HexToRGB(tok)
	}
	if named, ok := colornames.Map[strings.ToLower(tok)]; ok {
		return RGB{R: named.R, G: named.G, B: named.B}, nil
	}
	return RGB{}, fmt.Errorf("%w: %q is neither a hex color nor a color name", ErrInvalidColorFormat, tok)
}

// HexList formats colors as "#rrggbb" strings, preserving order.
func HexList(colors []RGB) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

// ParseHexList parses each string with HexToRGB. The first malformed entry
// fails the whole list.
func ParseHexList(hexes []string) ([]RGB, error) {
	out := make([]RGB, len(hexes))
	for i, h := range hexes {
		c, err := HexToRGB(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
