package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrOutOfBounds is returned when a coordinate falls outside the native
	// image. Callers treat it as a no-op, not a user-facing failure.
	ErrOutOfBounds = errors.New("coordinates outside image bounds")

	// ErrReadDenied is returned when a surface refuses to hand out pixel data.
	ErrReadDenied = errors.New("pixel data cannot be read from this image")
)

// ReadDeniedError describes why a pixel read was refused.
//
// It matches ErrReadDenied under errors.Is so callers can tell it apart from
// ErrOutOfBounds without inspecting the message.
type ReadDeniedError struct {
	X, Y  int
	Cause error
}

func (e *ReadDeniedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("read denied at (%d,%d)", e.X, e.Y)
	}
	return fmt.Sprintf("read denied at (%d,%d): %v", e.X, e.Y, e.Cause)
}

func (e *ReadDeniedError) Unwrap() error { return e.Cause }

func (e *ReadDeniedError) Is(target error) bool { return target == ErrReadDenied }

// Surface is a pixel-addressable image that colors are sampled from.
type Surface interface {
	// Bounds reports the native extent of the surface.
	Bounds() image.Rectangle

	// ReadPixel returns the non-premultiplied color at (x, y). It returns an
	// error wrapping ErrReadDenied if the surface does not allow reads.
	ReadPixel(x, y int) (color.NRGBA, error)
}

// imageSurface adapts a decoded image.Image to Surface.
type imageSurface struct {
	img image.Image
}

// NewSurface wraps a decoded image so it can be sampled.
func NewSurface(img image.Image) Surface {
	return &imageSurface{img: img}
}

func (s *imageSurface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *imageSurface) ReadPixel(x, y int) (color.NRGBA, error) {
	c := s.img.At(x, y)
	if c == nil {
		return color.NRGBA{}, ErrReadDenied
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA), nil
}

// DeniedSurface is a Surface whose pixels exist but may not be read, such as
// an image whose provenance forbids inspection. Only its bounds are known.
//
// Decoded images are always readable, so nothing in this module constructs
// one. It exists for embedders that host images they may not inspect, and
// for tests exercising the read-denied path.
type DeniedSurface struct {
	Rect   image.Rectangle
	Reason string
}

func (s DeniedSurface) Bounds() image.Rectangle { return s.Rect }

func (s DeniedSurface) ReadPixel(x, y int) (color.NRGBA, error) {
	if s.Reason == "" {
		return color.NRGBA{}, ErrReadDenied
	}
	return color.NRGBA{}, fmt.Errorf("%w: %s", ErrReadDenied, s.Reason)
}

// SampleColor reads the pixel at native coordinate (x, y) and returns it as a
// new ColorRecord.
//
// Parameters:
//   - s: The surface to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//   - ids: Source of the record's ID. nil uses UUIDSource.
//
// Returns:
//   - ColorRecord: The color at (x, y). Alpha is ignored.
//   - error: ErrOutOfBounds if (x, y) lies outside s.Bounds(), or a
//     *ReadDeniedError if the surface refused the read.
//
// A panic raised inside the surface (broken palettes, truncated decoders) is
// recovered and reported as a read denial, so sampling never takes the
// process down.
func SampleColor(s Surface, x, y int, ids IDSource) (rec ColorRecord, err error) {
	bounds := s.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return ColorRecord{}, fmt.Errorf("%w: (%d,%d) not in %v", ErrOutOfBounds, x, y, bounds)
	}

	px, err := readPixel(s, x, y)
	if err != nil {
		return ColorRecord{}, &ReadDeniedError{X: x, Y: y, Cause: err}
	}

	return NewColorRecord(RGBColor{R: px.R, G: px.G, B: px.B}, ids), nil
}

func readPixel(s Surface, x, y int) (px color.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface panicked: %v", r)
		}
	}()
	return s.ReadPixel(x, y)
}
