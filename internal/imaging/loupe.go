package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// LoupeResult contains a magnified view around a native pixel.
type LoupeResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Region      Region      `json:"region"`
	Center      ColorRecord `json:"center"`
	ImageBase64 string      `json:"image_base64"`
	MimeType    string      `json:"mime_type"`
}

// Loupe crops a square of the given radius around (x, y), clipped to the
// image, and scales it with nearest-neighbour sampling so individual pixels
// stay crisp. The color under the center is sampled as well.
//
// The magnified side may not exceed maxDim (DefaultMaxRenderDim when
// maxDim <= 0); larger requests fail with ErrTooLarge.
func Loupe(img image.Image, x, y, radius int, scale float64, maxDim int, ids IDSource) (*LoupeResult, error) {
	if radius < 0 {
		return nil, fmt.Errorf("invalid loupe radius: %d", radius)
	}
	if !(scale > 0) {
		scale = 1.0
	}

	center, err := SampleColor(NewSurface(img), x, y, ids)
	if err != nil {
		return nil, err
	}

	region := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).Intersect(img.Bounds())
	cropped := imaging.Crop(img, region)

	if scale != 1.0 {
		w := float64(cropped.Bounds().Dx()) * scale
		h := float64(cropped.Bounds().Dy()) * scale
		if err := checkRenderSize(w, h, maxDim); err != nil {
			return nil, err
		}
		newWidth, newHeight := int(w), int(h)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("loupe scale %g too small for region %v", scale, region)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.NearestNeighbor)
	}

	encoded, err := encodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &LoupeResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		Region:      Region{X1: region.Min.X, Y1: region.Min.Y, X2: region.Max.X, Y2: region.Max.Y},
		Center:      center,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
