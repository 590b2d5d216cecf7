package contrast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

// ErrInvalidLevel is returned by ParseLevel for anything other than AA or AAA.
var ErrInvalidLevel = errors.New("invalid WCAG level")

// Level is a WCAG conformance level.
type Level string

const (
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// ParseLevel accepts "AA" or "AAA" in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AA":
		return LevelAA, nil
	case "AAA":
		return LevelAAA, nil
	default:
		return "", fmt.Errorf("%w: %q (want AA or AAA)", ErrInvalidLevel, s)
	}
}

// Toggle returns the other level.
func (l Level) Toggle() Level {
	if l == LevelAAA {
		return LevelAA
	}
	return LevelAAA
}

// Minimum contrast ratios from WCAG 2.x success criteria 1.4.3 and 1.4.6.
const (
	MinAANormal  = 4.5
	MinAALarge   = 3.0
	MinAAANormal = 7.0
	MinAAALarge  = 4.5
)

// Threshold returns the minimum ratio for a level and text size.
// Unknown levels are held to the AA threshold.
func Threshold(level Level, largeText bool) float64 {
	if level == LevelAAA {
		if largeText {
			return MinAAALarge
		}
		return MinAAANormal
	}
	if largeText {
		return MinAALarge
	}
	return MinAANormal
}

// Meets reports whether ratio satisfies level for the given text size.
func Meets(ratio float64, largeText bool, level Level) bool {
	return ratio >= Threshold(level, largeText)
}

// Luminance returns the WCAG relative luminance of rgb, from 0 (black) to 1 (white).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef
func Luminance(rgb imaging.RGBColor) float64 {
	r := linearize(float64(rgb.R) / 255.0)
	g := linearize(float64(rgb.G) / 255.0)
	b := linearize(float64(rgb.B) / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// linearize undoes sRGB gamma for one normalized channel.
func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Ratio returns the contrast ratio between a and b, from 1 to 21.
// It is symmetric in its arguments.
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef
func Ratio(a, b imaging.RGBColor) float64 {
	l1 := Luminance(a)
	l2 := Luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
