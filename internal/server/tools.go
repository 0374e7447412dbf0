package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var rectSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x":      map[string]interface{}{"type": "integer"},
		"y":      map[string]interface{}{"type": "integer"},
		"width":  map[string]interface{}{"type": "integer"},
		"height": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"x", "y", "width", "height"},
}

var hsvRangeSchema = map[string]interface{}{
	"type":        "object",
	"description": "Inclusive HSV box. Hue in degrees (wraps when hue_min > hue_max), saturation and value in percent",
	"properties": map[string]interface{}{
		"hue_min": map[string]interface{}{"type": "number"},
		"hue_max": map[string]interface{}{"type": "number"},
		"sat_min": map[string]interface{}{"type": "number"},
		"sat_max": map[string]interface{}{"type": "number"},
		"val_min": map[string]interface{}{"type": "number"},
		"val_max": map[string]interface{}{"type": "number"},
	},
}

// maskProperties describes how a frame is turned into a binary mask.
func maskProperties() map[string]interface{} {
	return map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"luminance", "hsv"},
			"description": "luminance: pixels at or above level are on. hsv: pixels inside any of ranges are on. Default luminance",
		},
		"level": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance level 1-255 (default from configuration)",
		},
		"ranges": map[string]interface{}{
			"type":        "array",
			"items":       hsvRangeSchema,
			"description": "HSV ranges for hsv mode",
		},
		"backgrounds": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Background images of the empty scene; only pixels that differ from all of them can be on",
		},
	}
}

// windowProperties describes the sliding-window scan.
func windowProperties() map[string]interface{} {
	return map[string]interface{}{
		"window_width": map[string]interface{}{
			"type":        "integer",
			"description": "Window width in pixels (default from configuration)",
		},
		"window_height": map[string]interface{}{
			"type":        "integer",
			"description": "Window height in pixels (default from configuration)",
		},
		"step_x": map[string]interface{}{
			"type":        "integer",
			"description": "Horizontal stride. Default window_width/8",
		},
		"step_y": map[string]interface{}{
			"type":        "integer",
			"description": "Vertical stride. Default window_height/8",
		},
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Minimum fill ratio in percent; a window must score strictly above it",
		},
		"region": rectSchema,
		"tile_size": map[string]interface{}{
			"type":        "integer",
			"description": "Scan in tiles of this size in parallel. 0 scans in one pass",
		},
		"consolidate": map[string]interface{}{
			"type":        "boolean",
			"description": "Merge detections whose extents overlap",
		},
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_hsv",
			Description: "Get the colour at a pixel as hex, RGB and HSV. Use it to pick ranges for hsv masks.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Masks
		{
			Name:        "mask_build",
			Description: "Build the binary mask of an image and return it as base64-encoded PNG with its coverage. With apply set, the image itself is returned with masked-out pixels made transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(maskProperties(), map[string]interface{}{
					"path": pathProperty,
					"apply": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the masked image instead of the mask",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "mask_fill_ratio",
			Description: "Percentage of on pixels of the mask inside a rectangle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(maskProperties(), map[string]interface{}{
					"path":   pathProperty,
					"x":      map[string]interface{}{"type": "integer"},
					"y":      map[string]interface{}{"type": "integer"},
					"width":  map[string]interface{}{"type": "integer"},
					"height": map[string]interface{}{"type": "integer"},
				}),
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},

		// Detection
		{
			Name:        "detect_objects",
			Description: "Slide a window over the image mask and return the bounding boxes of regions whose fill ratio exceeds the threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(maskProperties(), windowProperties(), map[string]interface{}{
					"path": pathProperty,
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_highlight_objects",
			Description: "Draw rectangle outlines on an image. Returns base64-encoded PNG, or writes the file when output is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"objects": map[string]interface{}{
						"type":        "array",
						"items":       rectSchema,
						"description": "Rectangles to outline",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "red, green, blue or #RRGGBB. Default from configuration",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output path pattern: %n is the input file name, %p its directory, %% a percent sign",
					},
				},
				"required": []string{"path", "objects"},
			},
		},
		{
			Name:        "image_crop_object",
			Description: "Crop a detected object from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"x":      map[string]interface{}{"type": "integer"},
					"y":      map[string]interface{}{"type": "integer"},
					"width":  map[string]interface{}{"type": "integer"},
					"height": map[string]interface{}{"type": "integer"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},

		// Sequences
		{
			Name:        "process_sequence",
			Description: "Run detection over numbered frames dir/prefix<number>suffix.extension for numbers from..to, optionally writing annotated frames.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(maskProperties(), windowProperties(), map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory holding the frames",
					},
					"extension": map[string]interface{}{"type": "string"},
					"prefix":    map[string]interface{}{"type": "string"},
					"suffix":    map[string]interface{}{"type": "string"},
					"digits": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-pad frame numbers to this many digits",
					},
					"from": map[string]interface{}{"type": "integer"},
					"to":   map[string]interface{}{"type": "integer"},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output path pattern for annotated frames (%n, %p, %%)",
					},
				}),
				"required": []string{"dir", "from", "to"},
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
