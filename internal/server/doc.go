// Package server implements the MCP (Model Context Protocol) server for the
// color accessibility checker.
//
// A client loads an image, picks colors from it, and reads back the WCAG
// contrast ratio of every ordered pair of picked colors together with the
// AA and AAA verdicts.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - image_load: Load an image from a path or data URL
//   - image_clear: Drop the image and every picked color
//   - image_preview: Render at a display width for pointer picking
//   - image_loupe: Magnified crop around a native pixel
//
// Colors:
//   - color_pick: Pick under a pointer on a rendered preview
//   - color_pick_native: Pick at a native pixel
//   - color_add: Add a color by hex
//   - color_list: List picked colors
//   - color_remove: Remove a color by ID
//   - color_markers: Image with numbered pick markers
//
// Contrast:
//   - contrast_level: Select or toggle AA/AAA
//   - contrast_large_text: Switch the large-text thresholds
//   - contrast_results: Every ordered pair with ratio and verdicts
//   - contrast_accessible: Pairs passing a level
//   - contrast_export: json, csv, text or markdown report
//
// State:
//   - state_share: Encode the state as a URL-safe token
//   - state_restore: Restore from a token
//
// # Session
//
// All tools share one session.Store. Picking outside the image is reported
// as picked=false rather than as an error. Results are recomputed whenever
// the color list changes; changing the level only changes which pairs count
// as accessible.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// When the image refuses pixel reads, data is an object with the error and
// a "notice" to show the user.
//
// # Logging
//
// stdout carries the protocol, so logs go to the hclog logger passed in
// Options, which the command wires to stderr.
package server
