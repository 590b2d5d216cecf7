package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgs is the schema of tools that take no arguments.
func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "image_load",
			Description: "Load an image to pick colors from and return its dimensions and format. Replaces the current image; picked colors are kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file, or a data URL (data:image/png;base64,...)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_clear",
			Description: "Remove the current image together with every picked color.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_preview",
			Description: "Render the current image at a display width and return it as base64-encoded PNG with its rendered and native sizes. Pointer positions on this preview can be passed to color_pick.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Display width in pixels. Defaults to the configured preview width; 0 or less means native size. Renderings larger than max_render_dim on either side are rejected",
					},
				},
			},
		},
		{
			Name:        "image_loupe",
			Description: "Return a magnified crop around a native pixel, plus the color at its center, for precise picking.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Native X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Native Y coordinate (0-based)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to include on each side of the center. Default 8",
						"default":     8,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Magnification factor. Default 8.0. The magnified view may not exceed max_render_dim on either side",
						"default":     8.0,
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Colors
		{
			Name:        "color_pick",
			Description: "Pick the color under a pointer position on a rendered copy of the image. The position is mapped back to the native pixel. A position outside the image picks nothing and is not an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Pointer X relative to the rendered image's left edge",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Pointer Y relative to the rendered image's top edge",
					},
					"rendered_width": map[string]interface{}{
						"type":        "number",
						"description": "Width the image was displayed at",
					},
					"rendered_height": map[string]interface{}{
						"type":        "number",
						"description": "Height the image was displayed at",
					},
				},
				"required": []string{"x", "y", "rendered_width", "rendered_height"},
			},
		},
		{
			Name:        "color_pick_native",
			Description: "Pick the color at a native pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, 0 = leftmost pixel)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, 0 = topmost pixel)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "color_add",
			Description: "Add a color by hex value without sampling the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB or #RGB",
					},
				},
				"required": []string{"hex"},
			},
		},
		{
			Name:        "color_list",
			Description: "List the picked colors in pick order with hex, RGB and HSL values.",
			InputSchema: noArgs(),
		},
		{
			Name:        "color_remove",
			Description: "Remove a picked color by ID. Contrast results are recomputed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "ID returned when the color was picked",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "color_markers",
			Description: "Return the image with a numbered marker at each picked location, as base64-encoded PNG.",
			InputSchema: noArgs(),
		},

		// Contrast
		{
			Name:        "contrast_level",
			Description: "Select the WCAG level (AA or AAA) used to decide which pairs are accessible. Toggles the level when none is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"AA", "AAA"},
						"description": "Target level. Omit to toggle",
					},
				},
			},
		},
		{
			Name:        "contrast_large_text",
			Description: "Apply the relaxed large-text thresholds (AA 3.0, AAA 4.5) to every pair, or switch back to normal text (AA 4.5, AAA 7.0).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"large_text": map[string]interface{}{
						"type":        "boolean",
						"description": "true for large text",
					},
				},
				"required": []string{"large_text"},
			},
		},
		{
			Name:        "contrast_results",
			Description: "Return the contrast ratio and AA/AAA verdicts for every ordered pair of picked colors.",
			InputSchema: noArgs(),
		},
		{
			Name:        "contrast_accessible",
			Description: "Return only the pairs that pass a WCAG level.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"AA", "AAA"},
						"description": "Level to filter by. Defaults to the selected level",
					},
				},
			},
		},
		{
			Name:        "contrast_export",
			Description: "Export colors and contrast results as json, csv, text or markdown.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"json", "csv", "text", "markdown"},
						"description": "Output format. Default markdown",
						"default":     "markdown",
					},
				},
			},
		},

		// State
		{
			Name:        "state_share",
			Description: "Encode the image reference, picked colors and level into a compact URL-safe token.",
			InputSchema: noArgs(),
		},
		{
			Name:        "state_restore",
			Description: "Restore a state from a token produced by state_share. Colors receive new IDs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"token": map[string]interface{}{
						"type":        "string",
						"description": "Token from state_share",
					},
				},
				"required": []string{"token"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
