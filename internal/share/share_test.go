package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ulikunitz/xz/lzma"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

func swatch(r, g, b uint8) Swatch {
	return SwatchOf(imaging.NewColorRecord(imaging.RGBColor{R: r, G: g, B: b}, func() string { return "x" }))
}

// rawToken builds a token from arbitrary JSON, bypassing Encode's marshaling.
func rawToken(t *testing.T, payload string) string {
	t.Helper()
	var buf bytes.Buffer
	zw, err := lzma.NewWriter(&buf)
	if err != nil {
		t.Fatalf("lzma.NewWriter: %v", err)
	}
	if _, err := zw.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := State{
		Image:     "data:image/png;base64,iVBORw0KGgo=",
		Colors:    []Swatch{swatch(255, 255, 255), swatch(0, 0, 0), swatch(255, 165, 0)},
		Level:     contrast.LevelAAA,
		LargeText: true,
	}

	token, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasPrefix(token, Prefix) {
		t.Errorf("token %q missing prefix", token)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token %q is not URL-safe", token)
	}

	out, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Image != in.Image {
		t.Errorf("Image = %q, want %q", out.Image, in.Image)
	}
	if out.Level != in.Level {
		t.Errorf("Level = %s, want %s", out.Level, in.Level)
	}
	if !out.LargeText {
		t.Error("LargeText lost")
	}
	if len(out.Colors) != len(in.Colors) {
		t.Fatalf("got %d colors, want %d", len(out.Colors), len(in.Colors))
	}
	for i := range in.Colors {
		if out.Colors[i] != in.Colors[i] {
			t.Errorf("color %d = %+v, want %+v", i, out.Colors[i], in.Colors[i])
		}
	}
}

func TestEncodeEmptyState(t *testing.T) {
	token, err := Encode(State{Level: contrast.LevelAA})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Colors == nil || len(out.Colors) != 0 {
		t.Errorf("Colors = %v, want empty non-nil", out.Colors)
	}
	if out.Image != "" {
		t.Errorf("Image = %q, want empty", out.Image)
	}
}

func TestDecodeDefaultsLevel(t *testing.T) {
	out, err := Decode(rawToken(t, `{"colors":[]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Level != contrast.LevelAA {
		t.Errorf("Level = %q, want AA", out.Level)
	}
}

func TestDecodeNormalizesLevelCase(t *testing.T) {
	out, err := Decode(rawToken(t, `{"colors":[],"level":"aaa"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Level != contrast.LevelAAA {
		t.Errorf("Level = %q, want AAA", out.Level)
	}
}

func TestDecodeRederivesHSL(t *testing.T) {
	payload := `{"colors":[{"hex":"#ffa500","rgb":{"r":255,"g":165,"b":0},"hsl":{"h":1,"s":2,"l":3}}],"level":"AA"}`
	out, err := Decode(rawToken(t, payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	got := out.Colors[0]
	if got.Hex != "#FFA500" {
		t.Errorf("Hex = %s, want #FFA500", got.Hex)
	}
	want := imaging.RGBToHSL(imaging.RGBColor{R: 255, G: 165, B: 0})
	if got.HSL != want {
		t.Errorf("HSL = %+v, want %+v", got.HSL, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no prefix", "abc"},
		{"wrong version", "v2.abc"},
		{"bad base64", Prefix + "!!!"},
		{"not lzma", Prefix + base64.RawURLEncoding.EncodeToString([]byte("plain text"))},
		{"bad json", rawToken(t, `{"colors":`)},
		{"bad level", rawToken(t, `{"colors":[],"level":"A"}`)},
		{"bad hex", rawToken(t, `{"colors":[{"hex":"#GG0000","rgb":{"r":0,"g":0,"b":0}}]}`)},
		{"trailing bad digit", rawToken(t, `{"colors":[{"hex":"#12345g","rgb":{"r":18,"g":52,"b":5}}]}`)},
		{"hex rgb mismatch", rawToken(t, `{"colors":[{"hex":"#FF0000","rgb":{"r":0,"g":255,"b":0}}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error %v does not wrap ErrInvalidToken", err)
			}
		})
	}
}

func TestSwatchRecordGetsFreshID(t *testing.T) {
	sw := swatch(10, 20, 30)
	n := 0
	ids := func() string { n++; return strings.Repeat("i", n) }

	a := sw.Record(ids)
	b := sw.Record(ids)
	if a.ID == b.ID {
		t.Errorf("records share ID %q", a.ID)
	}
	if a.Hex != sw.Hex || a.RGB != sw.RGB || a.HSL != sw.HSL {
		t.Errorf("record %+v does not match swatch %+v", a, sw)
	}
}

func TestStateJSONOmitsIDs(t *testing.T) {
	raw, err := json.Marshal(State{Colors: []Swatch{swatch(1, 2, 3)}, Level: contrast.LevelAA})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), `"id"`) {
		t.Errorf("state JSON carries ids: %s", raw)
	}
}
