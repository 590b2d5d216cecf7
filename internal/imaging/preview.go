package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultMaxRenderDim bounds each side of a rendered preview or loupe when
// no limit is configured.
const DefaultMaxRenderDim = 4096

// ErrTooLarge is returned when a requested rendering exceeds the size limit.
var ErrTooLarge = errors.New("rendered image too large")

// checkRenderSize rejects sizes that are not finite or exceed maxDim on either
// side. maxDim <= 0 applies DefaultMaxRenderDim.
func checkRenderSize(w, h float64, maxDim int) error {
	if maxDim <= 0 {
		maxDim = DefaultMaxRenderDim
	}
	limit := float64(maxDim)
	if !(w <= limit && h <= limit) {
		return fmt.Errorf("%w: %gx%g exceeds %dx%d", ErrTooLarge, w, h, maxDim, maxDim)
	}
	return nil
}

// PreviewResult is a scaled rendering of an image together with the sizes a
// client needs to map pointer positions back to native pixels.
type PreviewResult struct {
	Rendered    Size   `json:"rendered"`
	Native      Size   `json:"native"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders img at the given display width, preserving aspect ratio.
//
// The returned Rendered size is the exact (possibly fractional) size the
// client should treat as the rendered canvas; the PNG itself is rounded to
// whole pixels. A width of zero or less renders at native size.
//
// Neither side of the rendering may exceed maxDim (DefaultMaxRenderDim when
// maxDim <= 0); larger requests fail with ErrTooLarge before anything is
// allocated.
func Preview(img image.Image, width float64, maxDim int) (*PreviewResult, error) {
	native := SizeOf(img.Bounds())
	if native.Width == 0 || native.Height == 0 {
		return nil, fmt.Errorf("cannot preview an empty image")
	}
	if width <= 0 {
		width = native.Width
	}
	rendered := FitToWidth(native, width)
	if err := checkRenderSize(rendered.Width, rendered.Height, maxDim); err != nil {
		return nil, err
	}

	w := int(math.Max(1, math.Round(rendered.Width)))
	h := int(math.Max(1, math.Round(rendered.Height)))

	var out image.Image = img
	if w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	encoded, err := encodePNG(out)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Rendered:    rendered,
		Native:      native,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// encodePNG returns img as a base64-encoded PNG.
func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
