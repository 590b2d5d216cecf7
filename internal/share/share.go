// Package share turns the checker state into a compact, URL-safe token and
// back again.
//
// A token is "v1." followed by the unpadded base64url encoding of an LZMA
// stream holding the JSON form of State. Color IDs are not part of the
// token; restoring assigns fresh ones.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz/lzma"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

// Prefix marks the token format version.
const Prefix = "v1."

// maxDecoded bounds the decompressed size of a token. Data URL images make
// legitimate states large, but not unbounded.
const maxDecoded = 64 << 20

// ErrInvalidToken is returned for any token that cannot be decoded into a
// consistent State.
var ErrInvalidToken = errors.New("invalid share token")

// Swatch is a color without its identity.
type Swatch struct {
	Hex string           `json:"hex"`
	RGB imaging.RGBColor `json:"rgb"`
	HSL imaging.HSLColor `json:"hsl"`
}

// SwatchOf strips the ID from a record.
func SwatchOf(rec imaging.ColorRecord) Swatch {
	return Swatch{Hex: rec.Hex, RGB: rec.RGB, HSL: rec.HSL}
}

// Record rebuilds a ColorRecord from the swatch with a fresh ID.
func (s Swatch) Record(ids imaging.IDSource) imaging.ColorRecord {
	return imaging.NewColorRecord(s.RGB, ids)
}

// State is everything a share token carries.
type State struct {
	Image     string         `json:"image,omitempty"`
	Colors    []Swatch       `json:"colors"`
	Level     contrast.Level `json:"level"`
	LargeText bool           `json:"large_text,omitempty"`
}

// Encode serializes s into a token.
func Encode(s State) (string, error) {
	if s.Colors == nil {
		s.Colors = []Swatch{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	var buf bytes.Buffer
	zw, err := lzma.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("failed to compress state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress state: %w", err)
	}

	return Prefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a token produced by Encode.
//
// The decoded state is validated: the level must be AA or AAA (empty means
// AA), and each swatch's hex must describe its RGB. HSL is always rederived
// from RGB so a hand-edited token cannot make the representations disagree.
func Decode(token string) (State, error) {
	token = strings.TrimSpace(token)
	body, ok := strings.CutPrefix(token, Prefix)
	if !ok {
		return State{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidToken, Prefix)
	}

	compressed, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	zr, err := lzma.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	raw, err := io.ReadAll(io.LimitReader(zr, maxDecoded+1))
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(raw) > maxDecoded {
		return State{}, fmt.Errorf("%w: state exceeds %d bytes", ErrInvalidToken, maxDecoded)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := s.normalize(); err != nil {
		return State{}, err
	}
	return s, nil
}

func (s *State) normalize() error {
	if s.Level == "" {
		s.Level = contrast.LevelAA
	}
	level, err := contrast.ParseLevel(string(s.Level))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	s.Level = level

	if s.Colors == nil {
		s.Colors = []Swatch{}
	}
	for i, sw := range s.Colors {
		rgb, err := imaging.ParseHex(sw.Hex)
		if err != nil {
			return fmt.Errorf("%w: color %d: %v", ErrInvalidToken, i, err)
		}
		if rgb != sw.RGB {
			return fmt.Errorf("%w: color %d: hex %s does not match rgb(%d,%d,%d)",
				ErrInvalidToken, i, sw.Hex, sw.RGB.R, sw.RGB.G, sw.RGB.B)
		}
		s.Colors[i] = Swatch{Hex: imaging.RGBToHex(rgb), RGB: rgb, HSL: imaging.RGBToHSL(rgb)}
	}
	return nil
}
