package imaging

import (
	"fmt"
	"image"
	"math"
)

// Size is a width/height pair. Rendered sizes may be fractional because
// a responsive display scales the image to fit its container.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointF is a pointer position relative to the top-left of the rendered image.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SizeOf returns the native size of a bounds rectangle.
func SizeOf(r image.Rectangle) Size {
	return Size{Width: float64(r.Dx()), Height: float64(r.Dy())}
}

// MapPointer converts a pointer position on a rendered (scaled) image into
// native pixel coordinates.
//
// The scale on each axis is native/rendered and the result is floored, so a
// pointer at (0,0) always maps to (0,0) regardless of scale.
//
// Returns an error wrapping ErrOutOfBounds when the mapped point falls outside
// [0,native.Width) x [0,native.Height), or when either size is empty. A pointer
// exactly on the rendered right or bottom edge is therefore out of bounds.
func MapPointer(rendered, native Size, pointer PointF) (image.Point, error) {
	if rendered.Width <= 0 || rendered.Height <= 0 || native.Width <= 0 || native.Height <= 0 {
		return image.Point{}, fmt.Errorf("%w: empty surface (rendered %gx%g, native %gx%g)",
			ErrOutOfBounds, rendered.Width, rendered.Height, native.Width, native.Height)
	}

	scaleX := native.Width / rendered.Width
	scaleY := native.Height / rendered.Height

	fx := math.Floor(pointer.X * scaleX)
	fy := math.Floor(pointer.Y * scaleY)

	if fx < 0 || fx >= native.Width || fy < 0 || fy >= native.Height || math.IsNaN(fx) || math.IsNaN(fy) {
		return image.Point{}, fmt.Errorf("%w: pointer (%g,%g) maps to (%g,%g)",
			ErrOutOfBounds, pointer.X, pointer.Y, fx, fy)
	}

	return image.Point{X: int(fx), Y: int(fy)}, nil
}

// FitToWidth returns the rendered size of an image scaled to the given
// display width with its aspect ratio preserved.
func FitToWidth(native Size, width float64) Size {
	if native.Width <= 0 || width <= 0 {
		return Size{}
	}
	return Size{Width: width, Height: width * native.Height / native.Width}
}
