package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker is a picked location to highlight on the image.
type Marker struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

// MarkersResult contains the image with pick markers drawn over it.
type MarkersResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Markers     int    `json:"markers"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// markerRadius is the half-size of the square ring drawn around a pick.
const markerRadius = 4

// OverlayMarkers draws a ring and a label at each marker position.
//
// The ring is drawn in black or white, whichever stands out against the
// picked pixel. Markers outside the image are skipped rather than rejected,
// since the image may have been replaced after the picks were made.
func OverlayMarkers(img image.Image, markers []Marker) (*MarkersResult, error) {
	result := clone.AsRGBA(img)
	bounds := result.Bounds()

	drawn := 0
	for _, m := range markers {
		if !(image.Point{X: m.X, Y: m.Y}).In(bounds) {
			continue
		}
		fg := ringColor(result.RGBAAt(m.X, m.Y))
		drawRing(result, m.X, m.Y, markerRadius, fg)
		if m.Label != "" {
			bg := color.RGBA{255 - fg.R, 255 - fg.G, 255 - fg.B, 255}
			drawLabel(result, m.X+markerRadius+2, m.Y-markerRadius, m.Label, fg, bg)
		}
		drawn++
	}

	encoded, err := encodePNG(result)
	if err != nil {
		return nil, fmt.Errorf("failed to render markers: %w", err)
	}

	return &MarkersResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Markers:     drawn,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// ringColor picks black for light pixels and white for dark ones.
func ringColor(c color.RGBA) color.RGBA {
	// ITU-R BT.601 luma, good enough to choose between two extremes.
	luma := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	if luma > 127 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

func drawRing(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()
	for d := -r; d <= r; d++ {
		for _, p := range []image.Point{
			{cx + d, cy - r}, {cx + d, cy + r},
			{cx - r, cy + d}, {cx + r, cy + d},
		} {
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// drawLabel draws text with its top-left corner at (x, y) on an opaque
// background box, using the 7x13 bitmap face.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Ascent + face.Descent

	box := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Ascent)},
	}
	d.DrawString(text)
}
