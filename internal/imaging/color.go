package imaging

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive for color manipulation than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorRecord is a picked color in every representation the checker reports.
//
// All representations are derived from the same RGB sample, so they always
// agree. A ColorRecord is a value: nothing in this module mutates one after
// NewColorRecord returns it. The ID is unique for the lifetime of the process
// even when two records carry the same color.
type ColorRecord struct {
	ID  string   `json:"id"`  // Opaque unique identifier
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// IDSource produces identifiers for new color records. Implementations must
// never return the same value twice within a process.
type IDSource func() string

// UUIDSource returns random (version 4) UUID strings.
func UUIDSource() string {
	return uuid.NewString()
}

// NewColorRecord derives hex and HSL from rgb and assigns a fresh ID.
//
// A nil ids falls back to UUIDSource.
func NewColorRecord(rgb RGBColor, ids IDSource) ColorRecord {
	if ids == nil {
		ids = UUIDSource
	}
	return ColorRecord{
		ID:  ids(),
		Hex: RGBToHex(rgb),
		RGB: rgb,
		HSL: RGBToHSL(rgb),
	}
}

// RGBToHex formats rgb as "#RRGGBB" with uppercase, zero-padded digits.
func RGBToHex(rgb RGBColor) string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses "#RRGGBB" or the short "#RGB" form, in either case.
//
// The leading '#' is optional. Anything else, including strings with an
// alpha component, is rejected; picked colors never carry alpha.
func ParseHex(hex string) (RGBColor, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: want #RGB or #RRGGBB", hex)
	}
	// colorful.Hex scans with Sscanf, which stops quietly at a bad digit.
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return RGBColor{}, fmt.Errorf("invalid hex color %q: %q is not a hex digit", hex, r)
		}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// RGBToHSL converts 8-bit RGB values to HSL color space.
//
// The conversion follows the standard algorithm:
//  1. Normalize RGB to 0-1 range
//  2. Lightness is (max + min) / 2
//  3. Saturation is 0 for grays, else (max-min) / (1 - |2L-1|)
//  4. Hue depends on which component is max; grays get hue 0
//
// All three outputs are rounded to the nearest integer. A hue that rounds up
// to 360 wraps to 0 so the result stays within 0-359.
func RGBToHSL(rgb RGBColor) HSLColor {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, l := c.Hsl()

	hue := int(math.Round(h))
	if hue < 0 {
		hue += 360
	}
	if hue >= 360 {
		hue -= 360
	}

	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
