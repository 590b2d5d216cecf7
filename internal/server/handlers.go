package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/export"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
	"github.com/ironsheep/auracheck-mcp/internal/session"
	"github.com/ironsheep/auracheck-mcp/internal/share"
)

// readDeniedNotice is shown to the user when a pick hits an unreadable image.
const readDeniedNotice = "This image does not allow its pixels to be read, so no color was picked. " +
	"Load a local copy of the image and try again."

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "color_pick").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A read denial carries a user-facing notice in its data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, imaging.ErrReadDenied) {
			return &MCPResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error: &MCPError{
					Code:    -32000,
					Message: "Pixel data cannot be read",
					Data: map[string]interface{}{
						"error":  err.Error(),
						"notice": readDeniedNotice,
					},
				},
			}
		}
		s.log.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
// A panic inside a handler is returned as an error.
func (s *Server) executeTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tool panicked", "tool", name, "panic", r)
			result, err = nil, fmt.Errorf("%s failed: %v", name, r)
		}
	}()

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image
	case "image_load":
		return s.handleImageLoad(args)
	case "image_clear":
		return s.handleImageClear(args)
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_loupe":
		return s.handleImageLoupe(args)

	// Colors
	case "color_pick":
		return s.handleColorPick(args)
	case "color_pick_native":
		return s.handleColorPickNative(args)
	case "color_add":
		return s.handleColorAdd(args)
	case "color_list":
		return s.handleColorList(args)
	case "color_remove":
		return s.handleColorRemove(args)
	case "color_markers":
		return s.handleColorMarkers(args)

	// Contrast
	case "contrast_level":
		return s.handleContrastLevel(args)
	case "contrast_large_text":
		return s.handleContrastLargeText(args)
	case "contrast_results":
		return s.handleContrastResults(args)
	case "contrast_accessible":
		return s.handleContrastAccessible(args)
	case "contrast_export":
		return s.handleContrastExport(args)

	// State
	case "state_share":
		return s.handleStateShare(args)
	case "state_restore":
		return s.handleStateRestore(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// errNoPixels is returned by render tools when the image can be sampled
// but its decoded pixels are not held.
var errNoPixels = errors.New("image pixels are not available for rendering")

// pixels returns the decoded current image.
func (s *Server) pixels() (image.Image, error) {
	_, img, err := s.store.Image()
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errNoPixels
	}
	return img, nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

type imageLoadResult struct {
	*imaging.ImageInfo
	Colors int `json:"colors"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	surface, img, err := s.openImage(a.Path)
	if err != nil {
		return nil, err
	}

	if prev, _, err := s.store.Image(); err == nil && prev != a.Path {
		s.cache.Evict(prev)
	}
	s.store.SetImage(a.Path, surface, img)
	return imageLoadResult{ImageInfo: info, Colors: len(s.store.Colors())}, nil
}

func (s *Server) handleImageClear(args json.RawMessage) (interface{}, error) {
	if ref, _, err := s.store.Image(); err == nil {
		s.cache.Evict(ref)
	}
	s.store.ClearImage()
	return map[string]interface{}{"cleared": true}, nil
}

type imagePreviewArgs struct {
	Width *float64 `json:"width"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	width := float64(s.cfg.PreviewWidth)
	if a.Width != nil {
		width = *a.Width
	}
	img, err := s.pixels()
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, width, s.cfg.MaxRenderDim)
}

type imageLoupeArgs struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageLoupe(args json.RawMessage) (interface{}, error) {
	var a imageLoupeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 8
	}
	if a.Scale == 0 {
		a.Scale = 8.0
	}
	img, err := s.pixels()
	if err != nil {
		return nil, err
	}
	return imaging.Loupe(img, a.X, a.Y, a.Radius, a.Scale, s.cfg.MaxRenderDim, nil)
}

// === Color Handlers ===

type pickResult struct {
	Picked bool                 `json:"picked"`
	Color  *imaging.ColorRecord `json:"color,omitempty"`
	X      *int                 `json:"x,omitempty"`
	Y      *int                 `json:"y,omitempty"`
	Reason string               `json:"reason,omitempty"`
	Colors int                  `json:"colors"`
	Pairs  int                  `json:"pairs"`
}

func (s *Server) pickResult(p session.Pick, ok bool) pickResult {
	res := pickResult{
		Picked: ok,
		Colors: len(s.store.Colors()),
		Pairs:  len(s.store.Results()),
	}
	if !ok {
		res.Reason = "position is outside the image"
		return res
	}
	res.Color = &p.Color
	res.X, res.Y = &p.X, &p.Y
	return res
}

type colorPickArgs struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	RenderedWidth  float64 `json:"rendered_width"`
	RenderedHeight float64 `json:"rendered_height"`
}

func (s *Server) handleColorPick(args json.RawMessage) (interface{}, error) {
	var a colorPickArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, ok, err := s.store.Pick(
		imaging.PointF{X: a.X, Y: a.Y},
		imaging.Size{Width: a.RenderedWidth, Height: a.RenderedHeight},
	)
	if err != nil {
		return nil, err
	}
	return s.pickResult(p, ok), nil
}

type colorPickNativeArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleColorPickNative(args json.RawMessage) (interface{}, error) {
	var a colorPickNativeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, ok, err := s.store.PickNative(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return s.pickResult(p, ok), nil
}

type colorAddArgs struct {
	Hex string `json:"hex"`
}

func (s *Server) handleColorAdd(args json.RawMessage) (interface{}, error) {
	var a colorAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rgb, err := imaging.ParseHex(a.Hex)
	if err != nil {
		return nil, err
	}
	rec := imaging.NewColorRecord(rgb, s.store.IDs())
	if err := s.store.AddColor(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

type colorListResult struct {
	Colors    []imaging.ColorRecord `json:"colors"`
	Level     contrast.Level        `json:"level"`
	LargeText bool                  `json:"large_text"`
}

func (s *Server) handleColorList(args json.RawMessage) (interface{}, error) {
	return colorListResult{
		Colors:    s.store.Colors(),
		Level:     s.store.Level(),
		LargeText: s.store.LargeText(),
	}, nil
}

type colorRemoveArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleColorRemove(args json.RawMessage) (interface{}, error) {
	var a colorRemoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.store.RemoveColor(a.ID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"removed": a.ID,
		"colors":  len(s.store.Colors()),
		"pairs":   len(s.store.Results()),
	}, nil
}

func (s *Server) handleColorMarkers(args json.RawMessage) (interface{}, error) {
	img, err := s.pixels()
	if err != nil {
		return nil, err
	}
	return imaging.OverlayMarkers(img, s.store.Markers())
}

// === Contrast Handlers ===

type contrastLevelArgs struct {
	Level string `json:"level"`
}

func (s *Server) handleContrastLevel(args json.RawMessage) (interface{}, error) {
	var a contrastLevelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	level := s.store.Level().Toggle()
	if a.Level != "" {
		var err error
		if level, err = contrast.ParseLevel(a.Level); err != nil {
			return nil, err
		}
	}
	s.store.SetLevel(level)
	return map[string]interface{}{
		"level":      level,
		"accessible": len(s.store.Accessible()),
		"pairs":      len(s.store.Results()),
	}, nil
}

type contrastLargeTextArgs struct {
	LargeText bool `json:"large_text"`
}

func (s *Server) handleContrastLargeText(args json.RawMessage) (interface{}, error) {
	var a contrastLargeTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	s.store.SetLargeText(a.LargeText)
	return map[string]interface{}{
		"large_text": a.LargeText,
		"accessible": len(s.store.Accessible()),
		"pairs":      len(s.store.Results()),
	}, nil
}

type contrastResultsResult struct {
	Level     contrast.Level    `json:"level"`
	LargeText bool              `json:"large_text"`
	Results   []contrast.Result `json:"results"`
	Summary   contrast.Summary  `json:"summary"`
}

func (s *Server) handleContrastResults(args json.RawMessage) (interface{}, error) {
	results := s.store.Results()
	return contrastResultsResult{
		Level:     s.store.Level(),
		LargeText: s.store.LargeText(),
		Results:   results,
		Summary:   contrast.Summarize(results),
	}, nil
}

type contrastAccessibleArgs struct {
	Level string `json:"level"`
}

func (s *Server) handleContrastAccessible(args json.RawMessage) (interface{}, error) {
	var a contrastAccessibleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	level := s.store.Level()
	if a.Level != "" {
		var err error
		if level, err = contrast.ParseLevel(a.Level); err != nil {
			return nil, err
		}
	}
	return map[string]interface{}{
		"level":   level,
		"results": contrast.Accessible(s.store.Results(), level),
	}, nil
}

type contrastExportArgs struct {
	Format string `json:"format"`
}

func (s *Server) handleContrastExport(args json.RawMessage) (interface{}, error) {
	var a contrastExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = string(export.FormatMarkdown)
	}
	format, err := export.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}

	ref, _, _ := s.store.Image()
	report := export.NewReport(ref, s.store.Level(), s.store.LargeText(), s.store.Colors(), s.store.Results())

	var buf bytes.Buffer
	if err := export.Write(&buf, format, report, export.Options{}); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"format":  format,
		"content": buf.String(),
	}, nil
}

// === State Handlers ===

func (s *Server) handleStateShare(args json.RawMessage) (interface{}, error) {
	token, err := share.Encode(s.store.Snapshot())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token}, nil
}

type stateRestoreArgs struct {
	Token string `json:"token"`
}

func (s *Server) handleStateRestore(args json.RawMessage) (interface{}, error) {
	var a stateRestoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	st, err := share.Decode(a.Token)
	if err != nil {
		return nil, err
	}
	if err := s.store.Restore(st, s.openImage); err != nil {
		return nil, err
	}
	ref, _, _ := s.store.Image()
	return map[string]interface{}{
		"image":      ref,
		"colors":     s.store.Colors(),
		"level":      s.store.Level(),
		"large_text": s.store.LargeText(),
	}, nil
}
