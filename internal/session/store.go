// Package session holds the checker's single source of truth: the loaded
// image, the picked colors in pick order, the selected WCAG level, and the
// contrast results derived from them.
//
// Every mutation goes through a Store method. Results are recomputed in full
// whenever the color list or the large-text policy changes; switching the
// level never recomputes because each result already carries both verdicts.
package session

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
	"github.com/ironsheep/auracheck-mcp/internal/share"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrUnknownColor is returned when a color ID is not in the list.
	ErrUnknownColor = errors.New("unknown color id")

	// ErrTooManyColors is returned when adding would exceed the configured cap.
	ErrTooManyColors = errors.New("color limit reached")
)

// Options configures a new Store. The zero value is usable.
type Options struct {
	Logger    hclog.Logger
	IDs       imaging.IDSource
	Level     contrast.Level
	LargeText bool

	// MaxColors caps the color list; 0 means no cap.
	MaxColors int
}

// Pick is a color sampled from the image together with where it came from.
type Pick struct {
	Color imaging.ColorRecord `json:"color"`
	X     int                 `json:"x"`
	Y     int                 `json:"y"`
}

// Store is the state container. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	log hclog.Logger
	ids imaging.IDSource
	max int

	imageRef string
	surface  imaging.Surface
	img      image.Image

	colors    []imaging.ColorRecord
	origins   map[string]image.Point
	level     contrast.Level
	largeText bool
	results   []contrast.Result
}

// New returns an empty store.
func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	ids := opts.IDs
	if ids == nil {
		ids = imaging.UUIDSource
	}
	level := opts.Level
	if level == "" {
		level = contrast.LevelAA
	}
	return &Store{
		log:       log.Named("session"),
		ids:       ids,
		max:       opts.MaxColors,
		colors:    []imaging.ColorRecord{},
		origins:   make(map[string]image.Point),
		level:     level,
		largeText: opts.LargeText,
		results:   []contrast.Result{},
	}
}

// IDs returns the ID source used for new records.
func (s *Store) IDs() imaging.IDSource {
	return s.ids
}

// SetImage makes surface the image colors are picked from. img is the
// decoded image backing the surface, used for previews; it may be nil when
// the pixels are not available. surface must not be nil. Picked colors are
// kept.
func (s *Store) SetImage(ref string, surface imaging.Surface, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageRef = ref
	s.surface = surface
	s.img = img
	s.log.Debug("image set", "ref", shortRef(ref), "bounds", surface.Bounds())
}

// ClearImage removes the image and, with it, every picked color.
func (s *Store) ClearImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageRef = ""
	s.surface = nil
	s.img = nil
	s.colors = []imaging.ColorRecord{}
	s.origins = make(map[string]image.Point)
	s.recompute()
	s.log.Debug("image cleared")
}

// Image returns the current image reference and decoded image.
func (s *Store) Image() (string, image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.surface == nil {
		return "", nil, ErrNoImage
	}
	return s.imageRef, s.img, nil
}

// NativeSize returns the native size of the current image.
func (s *Store) NativeSize() (imaging.Size, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.surface == nil {
		return imaging.Size{}, ErrNoImage
	}
	return imaging.SizeOf(s.surface.Bounds()), nil
}

// Pick maps a pointer position on a rendered copy of the image to a native
// pixel, samples it and appends the color.
//
// A pointer outside the image is not an error: it is logged and Pick returns
// ok == false. A read denial is returned as an error matching
// imaging.ErrReadDenied and leaves the store untouched.
func (s *Store) Pick(pointer imaging.PointF, rendered imaging.Size) (p Pick, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surface == nil {
		return Pick{}, false, ErrNoImage
	}

	pt, err := imaging.MapPointer(rendered, imaging.SizeOf(s.surface.Bounds()), pointer)
	if err != nil {
		s.log.Debug("pick ignored", "pointer", pointer, "rendered", rendered, "error", err)
		return Pick{}, false, nil
	}
	return s.pickLocked(pt.X, pt.Y)
}

// PickNative samples the native pixel (x, y) and appends the color. It
// follows the same out-of-bounds and read-denied rules as Pick.
func (s *Store) PickNative(x, y int) (p Pick, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surface == nil {
		return Pick{}, false, ErrNoImage
	}
	return s.pickLocked(x, y)
}

func (s *Store) pickLocked(x, y int) (Pick, bool, error) {
	if s.max > 0 && len(s.colors) >= s.max {
		return Pick{}, false, fmt.Errorf("%w: %d colors", ErrTooManyColors, s.max)
	}

	rec, err := imaging.SampleColor(s.surface, x, y, s.ids)
	switch {
	case errors.Is(err, imaging.ErrOutOfBounds):
		s.log.Debug("pick ignored", "x", x, "y", y, "error", err)
		return Pick{}, false, nil
	case err != nil:
		s.log.Warn("pixel read denied", "x", x, "y", y, "error", err)
		return Pick{}, false, err
	}

	s.colors = append(s.colors, rec)
	s.origins[rec.ID] = image.Point{X: x, Y: y}
	s.recompute()
	s.log.Debug("color picked", "id", rec.ID, "hex", rec.Hex, "x", x, "y", y)
	return Pick{Color: rec, X: x, Y: y}, true, nil
}

// AddColor appends a color that did not come from the image, such as one
// typed in by the user.
func (s *Store) AddColor(rec imaging.ColorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.colors) >= s.max {
		return fmt.Errorf("%w: %d colors", ErrTooManyColors, s.max)
	}
	s.colors = append(s.colors, rec)
	s.recompute()
	return nil
}

// RemoveColor deletes the color with the given ID.
func (s *Store) RemoveColor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.colors {
		if c.ID != id {
			continue
		}
		s.colors = append(s.colors[:i:i], s.colors[i+1:]...)
		delete(s.origins, id)
		s.recompute()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownColor, id)
}

// SetPickedColors replaces the whole color list.
func (s *Store) SetPickedColors(colors []imaging.ColorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(colors) > s.max {
		return fmt.Errorf("%w: %d colors", ErrTooManyColors, s.max)
	}
	s.colors = append([]imaging.ColorRecord{}, colors...)
	s.origins = make(map[string]image.Point)
	s.recompute()
	return nil
}

// SetLevel selects the WCAG level used for the accessible subset.
func (s *Store) SetLevel(level contrast.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// Level returns the selected WCAG level.
func (s *Store) Level() contrast.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// SetLargeText switches the large-text policy and recomputes results.
func (s *Store) SetLargeText(large bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.largeText == large {
		return
	}
	s.largeText = large
	s.recompute()
}

// LargeText reports the current large-text policy.
func (s *Store) LargeText() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.largeText
}

// Colors returns a copy of the color list in pick order.
func (s *Store) Colors() []imaging.ColorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]imaging.ColorRecord{}, s.colors...)
}

// Markers returns a numbered marker for every color picked from the image.
// Numbers follow the color list, starting at 1.
func (s *Store) Markers() []imaging.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	markers := make([]imaging.Marker, 0, len(s.origins))
	for i, c := range s.colors {
		pt, ok := s.origins[c.ID]
		if !ok {
			continue
		}
		markers = append(markers, imaging.Marker{X: pt.X, Y: pt.Y, Label: fmt.Sprintf("%d", i+1)})
	}
	return markers
}

// Results returns a copy of every pairwise result.
func (s *Store) Results() []contrast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]contrast.Result{}, s.results...)
}

// Accessible returns the results passing the selected level.
func (s *Store) Accessible() []contrast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contrast.Accessible(s.results, s.level)
}

func (s *Store) recompute() {
	s.results = contrast.Evaluate(s.colors, s.largeText)
}

// Snapshot captures the shareable part of the state.
func (s *Store) Snapshot() share.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	swatches := make([]share.Swatch, len(s.colors))
	for i, c := range s.colors {
		swatches[i] = share.SwatchOf(c)
	}
	return share.State{
		Image:     s.imageRef,
		Colors:    swatches,
		Level:     s.level,
		LargeText: s.largeText,
	}
}

// ImageOpener resolves an image reference to something that can be sampled.
type ImageOpener func(ref string) (imaging.Surface, image.Image, error)

// Restore replaces the whole state with st. Colors get fresh IDs.
//
// When st names an image it is opened first; if that fails the store is left
// as it was. A nil open restores the colors and level without an image.
func (s *Store) Restore(st share.State, open ImageOpener) error {
	var (
		surface imaging.Surface
		img     image.Image
	)
	if st.Image != "" && open != nil {
		var err error
		surface, img, err = open(st.Image)
		if err != nil {
			return fmt.Errorf("failed to restore image: %w", err)
		}
	}

	level := st.Level
	if level == "" {
		level = contrast.LevelAA
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(st.Colors) > s.max {
		return fmt.Errorf("%w: %d colors", ErrTooManyColors, s.max)
	}

	colors := make([]imaging.ColorRecord, len(st.Colors))
	for i, sw := range st.Colors {
		colors[i] = sw.Record(s.ids)
	}

	if surface != nil {
		s.imageRef, s.surface, s.img = st.Image, surface, img
	} else {
		s.imageRef, s.surface, s.img = "", nil, nil
	}
	s.colors = colors
	s.origins = make(map[string]image.Point)
	s.level = level
	s.largeText = st.LargeText
	s.recompute()
	s.log.Debug("state restored", "colors", len(colors), "level", level, "image", surface != nil)
	return nil
}

// shortRef keeps data URLs out of the logs.
func shortRef(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
