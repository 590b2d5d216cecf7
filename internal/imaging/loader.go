package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUnsupportedFormat is returned when an image decodes to a format that the
// cache has not been configured to accept.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultFormats are the formats accepted when none are configured.
var DefaultFormats = []string{"png", "jpeg"}

// SupportedFormats lists every format a cache can be configured to accept.
var SupportedFormats = []string{"gif", "jpeg", "png", "webp"}

type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant reads.
//
// Images are keyed by their reference, which is either a file path or a
// "data:" URL carrying a base64 payload. Once an image is loaded, subsequent
// Load() calls for the same reference return the cached copy.
//
// Only images whose decoded format is in the cache's allowed set are
// accepted; anything else fails with ErrUnsupportedFormat before it is
// cached.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu      sync.RWMutex
	images  map[string]*cachedImage
	formats map[string]bool
}

// NewImageCache creates an empty cache accepting the given formats.
//
// With no formats, DefaultFormats applies. Format names are those reported
// by image.Decode ("png", "jpeg", "gif", "webp"); "jpg" is accepted as an
// alias for "jpeg".
func NewImageCache(formats ...string) *ImageCache {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	allowed := make(map[string]bool, len(formats))
	for _, f := range formats {
		allowed[normalizeFormat(f)] = true
	}
	return &ImageCache{
		images:  make(map[string]*cachedImage),
		formats: allowed,
	}
}

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "jpg" {
		return "jpeg"
	}
	return f
}

// AllowedFormats returns the accepted format names in sorted order.
func (c *ImageCache) AllowedFormats() []string {
	out := make([]string, 0, len(c.formats))
	for f := range c.formats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Load retrieves an image from the cache or decodes it if not cached.
//
// Parameters:
//   - ref: A file path, or a data URL such as "data:image/png;base64,...".
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Non-nil if the reference cannot be read or decoded, or if the
//     format is not accepted (wrapping ErrUnsupportedFormat).
func (c *ImageCache) Load(ref string) (image.Image, error) {
	entry, err := c.load(ref)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(ref string) (*cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[ref]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	data, err := readReference(ref)
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if !c.formats[format] {
		return nil, fmt.Errorf("%w: %s (accepted: %s)", ErrUnsupportedFormat, format,
			strings.Join(c.AllowedFormats(), ", "))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	entry := &cachedImage{img: img, format: format, size: int64(len(data))}
	c.mu.Lock()
	c.images[ref] = entry
	c.mu.Unlock()

	return entry, nil
}

// readReference returns the encoded bytes behind a path or data URL.
func readReference(ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("image reference cannot be empty")
	}
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return nil, fmt.Errorf("remote image references are not supported: %s", ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return data, nil
}

// decodeDataURL extracts the payload of an RFC 2397 data URL.
func decodeDataURL(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: missing ','")
	}
	mediaType := header
	isBase64 := false
	if strings.HasSuffix(header, ";base64") {
		mediaType = strings.TrimSuffix(header, ";base64")
		isBase64 = true
	}
	if mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: media type %s", ErrUnsupportedFormat, mediaType)
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URL payload: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URL payload: %w", err)
	}
	return []byte(data), nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its reference.
//
// If the reference is not in the cache, this method does nothing.
func (c *ImageCache) Evict(ref string) {
	c.mu.Lock()
	delete(c.images, ref)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoded image format, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded image in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// Unlike a plain extension check, the format is taken from the decoder that
// accepted the data, so a PNG named "photo.jpg" reports "png".
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, ref string) (*ImageInfo, error) {
	entry, err := cache.load(ref)
	if err != nil {
		return nil, err
	}

	bounds := entry.img.Bounds()

	hasAlpha := false
	colorDepth := "8-bit"
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Paletted:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     entry.format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
		SizeBytes:  entry.size,
	}, nil
}
