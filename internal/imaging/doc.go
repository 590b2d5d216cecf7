// Package imaging provides the pixel side of the color checker: loading
// images, mapping pointer positions to native pixels, sampling colors and
// rendering previews for a client to click on.
//
// # Coordinate System
//
// Native pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Valid coordinates satisfy
// 0 <= x < width and 0 <= y < height.
//
// Pointer positions are expressed relative to the top-left of a rendered
// (scaled) copy of the image and are mapped back with MapPointer. The
// rendered size may be fractional; Preview reports the exact size it used.
//
// # Color Representation
//
// A picked color is returned as a ColorRecord carrying:
//   - ID: opaque identifier, unique within the process
//   - Hex: "#RRGGBB", uppercase (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-359), Saturation (0-100), Lightness (0-100), rounded
//
// # Error Handling
//
// Two failures matter to callers and are kept distinct:
//   - ErrOutOfBounds: the point is outside the image; the pick is a no-op
//   - ErrReadDenied: the surface refused to hand out pixel data; the pick
//     aborts and the user should be told
//
// Loading fails with ErrUnsupportedFormat when the decoded format is not in
// the cache's accepted set.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and may be called concurrently on images nobody is mutating.
package imaging
