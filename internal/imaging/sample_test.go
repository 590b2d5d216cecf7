package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// panickingImage simulates a decoder that produces an image it cannot read back.
type panickingImage struct {
	image.Rectangle
}

func (p panickingImage) ColorModel() color.Model { return color.RGBAModel }
func (p panickingImage) Bounds() image.Rectangle { return p.Rectangle }
func (p panickingImage) At(x, y int) color.Color { panic("corrupt pixel data") }

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	rec, err := SampleColor(NewSurface(img), 50, 50, seqIDs())
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if rec.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", rec.Hex)
	}
	if rec.RGB != (RGBColor{255, 128, 64}) {
		t.Errorf("RGB: got %v, want (255,128,64)", rec.RGB)
	}
	if rec.ID != "id-1" {
		t.Errorf("ID: got %s, want id-1", rec.ID)
	}
}

func TestSampleColor_IgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 200, B: 30, A: 64})

	rec, err := SampleColor(NewSurface(img), 1, 1, nil)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if rec.RGB != (RGBColor{10, 200, 30}) {
		t.Errorf("RGB: got %v, want (10,200,30)", rec.RGB)
	}
	if rec.Hex != "#0AC81E" {
		t.Errorf("Hex: got %s, want #0AC81E", rec.Hex)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.RGBA
		wantHex string
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, "#FF0000"},
		{"pure green", color.RGBA{0, 255, 0, 255}, "#00FF00"},
		{"pure blue", color.RGBA{0, 0, 255, 255}, "#0000FF"},
		{"white", color.RGBA{255, 255, 255, 255}, "#FFFFFF"},
		{"black", color.RGBA{0, 0, 0, 255}, "#000000"},
		{"gray", color.RGBA{128, 128, 128, 255}, "#808080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(10, 10, tt.color)
			rec, err := SampleColor(NewSurface(img), 5, 5, nil)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if rec.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", rec.Hex, tt.wantHex)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(NewSurface(img), tt.x, tt.y, nil)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("SampleColor(%d,%d) error = %v, want ErrOutOfBounds", tt.x, tt.y, err)
			}
			if errors.Is(err, ErrReadDenied) {
				t.Error("out-of-bounds must not be reported as a read denial")
			}
		})
	}
}

func TestSampleColor_EdgeCoordinates(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	for _, p := range []image.Point{{0, 0}, {99, 0}, {0, 99}, {99, 99}} {
		if _, err := SampleColor(NewSurface(img), p.X, p.Y, nil); err != nil {
			t.Errorf("SampleColor failed for valid edge coordinate %v: %v", p, err)
		}
	}
}

func TestSampleColor_ReadDenied(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
	}{
		{"denied surface", DeniedSurface{Rect: image.Rect(0, 0, 10, 10), Reason: "cross-origin"}},
		{"denied surface no reason", DeniedSurface{Rect: image.Rect(0, 0, 10, 10)}},
		{"panicking image", NewSurface(panickingImage{image.Rect(0, 0, 10, 10)})},
		{"empty palette", NewSurface(image.NewPaletted(image.Rect(0, 0, 10, 10), nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(tt.surface, 5, 5, nil)
			if !errors.Is(err, ErrReadDenied) {
				t.Fatalf("error = %v, want ErrReadDenied", err)
			}
			if errors.Is(err, ErrOutOfBounds) {
				t.Error("read denial must not be reported as out-of-bounds")
			}
			var rde *ReadDeniedError
			if !errors.As(err, &rde) {
				t.Fatalf("error %T is not a *ReadDeniedError", err)
			}
			if rde.X != 5 || rde.Y != 5 {
				t.Errorf("ReadDeniedError at (%d,%d), want (5,5)", rde.X, rde.Y)
			}
		})
	}
}
