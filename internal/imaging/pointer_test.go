package imaging

import (
	"errors"
	"image"
	"testing"
)

func TestMapPointer(t *testing.T) {
	native := Size{Width: 200, Height: 100}

	tests := []struct {
		name     string
		rendered Size
		pointer  PointF
		want     image.Point
	}{
		{"origin at half scale", Size{100, 50}, PointF{0, 0}, image.Point{0, 0}},
		{"half scale center", Size{100, 50}, PointF{50, 25}, image.Point{100, 50}},
		{"half scale floors", Size{100, 50}, PointF{10.7, 3.2}, image.Point{21, 6}},
		{"native scale", Size{200, 100}, PointF{199.9, 99.9}, image.Point{199, 99}},
		{"upscaled display", Size{400, 200}, PointF{3, 3}, image.Point{1, 1}},
		{"fractional rendered size", Size{333.3, 166.65}, PointF{333.2, 0}, image.Point{199, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapPointer(tt.rendered, native, tt.pointer)
			if err != nil {
				t.Fatalf("MapPointer failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("MapPointer: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapPointer_Deterministic(t *testing.T) {
	rendered, native := Size{123.4, 56.7}, Size{1024, 470}
	p := PointF{61.3, 20.01}

	first, err := MapPointer(rendered, native, p)
	if err != nil {
		t.Fatalf("MapPointer failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, _ := MapPointer(rendered, native, p)
		if got != first {
			t.Fatalf("call %d: got %v, want %v", i, got, first)
		}
	}
}

func TestMapPointer_OutOfBounds(t *testing.T) {
	native := Size{Width: 200, Height: 100}
	rendered := Size{Width: 100, Height: 50}

	tests := []struct {
		name    string
		pointer PointF
	}{
		{"exactly rendered width", PointF{100, 10}},
		{"exactly rendered height", PointF{10, 50}},
		{"exactly rendered corner", PointF{100, 50}},
		{"negative x", PointF{-0.1, 10}},
		{"negative y", PointF{10, -5}},
		{"far outside", PointF{1e6, 1e6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapPointer(rendered, native, tt.pointer)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("MapPointer(%v) error = %v, want ErrOutOfBounds", tt.pointer, err)
			}
		})
	}
}

func TestMapPointer_EmptySurface(t *testing.T) {
	tests := []struct {
		name             string
		rendered, native Size
	}{
		{"zero rendered", Size{0, 0}, Size{10, 10}},
		{"zero native", Size{10, 10}, Size{0, 10}},
		{"negative rendered", Size{-10, 10}, Size{10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapPointer(tt.rendered, tt.native, PointF{1, 1})
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error = %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestFitToWidth(t *testing.T) {
	got := FitToWidth(Size{400, 300}, 200)
	if got.Width != 200 || got.Height != 150 {
		t.Errorf("FitToWidth: got %v, want 200x150", got)
	}

	if got := FitToWidth(Size{0, 300}, 200); got != (Size{}) {
		t.Errorf("FitToWidth of empty image: got %v, want zero", got)
	}
}
