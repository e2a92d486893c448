package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var modeProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"horizontal", "grid"},
	"description": "horizontal: four full-width bands, top to bottom. grid: 2x2 quadrants ordered left-top, right-top, left-bottom, right-bottom.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source
		{
			Name:        "split_load",
			Description: "Load an image (JPEG, PNG, GIF or WEBP) and split it into four slices. Replaces any previously loaded image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image bytes, used when path is not given",
					},
					"mode": modeProperty,
				},
			},
		},
		{
			Name:        "split_set_mode",
			Description: "Change the partition mode. The loaded image is split again and the previous slices are discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": modeProperty,
				},
				"required": []string{"mode"},
			},
		},
		{
			Name:        "split_status",
			Description: "Report the session state: empty, processing, ready or failed, with the current mode and source size.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "split_reset",
			Description: "Clear the loaded image and its slices and return to the default mode.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Results
		{
			Name:        "split_slices",
			Description: "List the four slices with their geometry, suggested filenames, average colour and a small thumbnail.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"thumbnail_size": map[string]interface{}{
						"type":        "integer",
						"description": "Thumbnail bounding box edge in pixels. Default from configuration (80)",
					},
				},
			},
		},
		{
			Name:        "split_get_slice",
			Description: "Return one slice as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     4,
						"description": "Slice number, 1-4 in slice order",
					},
				},
				"required": []string{"index"},
			},
		},
		{
			Name:        "split_save",
			Description: "Write slices to a directory as <prefix>_<mode>_<n>.png and return the file paths.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Output directory, created if missing. Default from configuration",
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     4,
						"description": "Save only this slice (1-4). Omit to save all four",
					},
				},
			},
		},
		{
			Name:        "split_overlay",
			Description: "Render the loaded image with the cut lines of the current mode drawn on it and each slice numbered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Line color as #RRGGBB or #RRGGBBAA. Default from configuration",
					},
				},
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
