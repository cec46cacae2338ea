package server

import "github.com/ironsheep/ramp-tools-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties describes the three ways to name a gradient source.
// Exactly one must be given.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"colors": map[string]interface{}{
			"type":        "string",
			"description": "Color stops separated by commas or whitespace: #rgb, #rrggbb or CSS color names (2-8 stops)",
		},
		"image_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a gradient image (PNG, JPEG, GIF, BMP, WebP). The middle row is sampled",
		},
		"gpl": map[string]interface{}{
			"type":        "string",
			"description": "GIMP palette text. The palette colors become the stops",
		},
	}
}

// samplingProperties describes the sampling config arguments.
func samplingProperties() map[string]interface{} {
	return map[string]interface{}{
		"sample_count": map[string]interface{}{
			"type":        "integer",
			"description": "Number of output colors (1-16). Default 11",
			"default":     11,
		},
		"sampling_function": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"linear", "power", "parametric"},
			"description": "Curve distributing the samples. Default linear",
			"default":     "linear",
		},
		"power": map[string]interface{}{
			"type":        "number",
			"description": "Curve exponent for power and parametric (0.1-5.0). Default 2.0",
			"default":     2.0,
		},
		"start": map[string]interface{}{
			"type":        "number",
			"description": "Start of the sampled window in percent. Default 0",
			"default":     0,
		},
		"end": map[string]interface{}{
			"type":        "number",
			"description": "End of the sampled window in percent. Default 100",
			"default":     100,
		},
		"luminance_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"hsv", "ciel"},
			"description": "Luminance model recorded with the ramp. Default hsv",
			"default":     "hsv",
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

func idSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"id"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Colors
		{
			Name:        "color_convert",
			Description: "Convert a color between hex, RGB, HSV and CIE LAB, and report its luminance. Optionally set the luminance and return the adjusted color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Color as #rgb, #rrggbb or a CSS color name",
					},
					"luminance": map[string]interface{}{
						"type":        "number",
						"description": "Optional target luminance (0-100) in luminance_mode",
					},
					"luminance_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"hsv", "ciel"},
						"description": "hsv uses V; ciel uses CIE L*. Default hsv",
						"default":     "hsv",
					},
				},
				"required": []string{"color"},
			},
		},

		// Sampling
		{
			Name:        "ramp_sample",
			Description: "Sample a fixed-size color ramp from color stops, a gradient image or a GIMP palette. Nothing is saved.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), samplingProperties(), map[string]interface{}{
					"reverse": map[string]interface{}{
						"type":        "boolean",
						"description": "Reverse the order of the sampled colors. Default false",
						"default":     false,
					},
				}),
			},
		},

		// Library
		{
			Name:        "ramp_save",
			Description: "Sample a ramp and save it to the library together with its source, so it can be re-derived later at different settings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), samplingProperties(), map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Ramp name. Default \"Ramp N\"",
					},
				}),
			},
		},
		{
			Name:        "ramp_list",
			Description: "List saved ramps, most recently updated first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"include_thumbnails": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the PNG thumbnail data URLs. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "ramp_get",
			Description: "Get a saved ramp by id.",
			InputSchema: idSchema("Ramp id"),
		},
		{
			Name:        "ramp_update",
			Description: "Change a saved ramp's name, colors or recorded sampling settings. Omitted fields are left as they are.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(samplingProperties(), map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Ramp id",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "New name",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Replacement colors as #rrggbb strings",
					},
				}),
				"required": []string{"id"},
			},
		},
		{
			Name:        "ramp_delete",
			Description: "Delete a saved ramp.",
			InputSchema: idSchema("Ramp id"),
		},
		{
			Name:        "ramp_duplicate",
			Description: "Copy a saved ramp under a new id with \" (Copy)\" appended to its name.",
			InputSchema: idSchema("Ramp id"),
		},
		{
			Name:        "ramp_clear",
			Description: "Delete every saved ramp.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"confirm": map[string]interface{}{
						"type":        "boolean",
						"description": "Must be true",
					},
				},
				"required": []string{"confirm"},
			},
		},
		{
			Name:        "ramp_rederive",
			Description: "Re-sample a saved ramp from its original source with new settings. The stored colors are never resampled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Ramp id",
					},
					"sample_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of output colors (1-16)",
					},
					"sampling_function": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"linear", "power", "parametric"},
						"description": "Curve distributing the samples. Default linear",
						"default":     "linear",
					},
					"power": map[string]interface{}{
						"type":        "number",
						"description": "Curve exponent (0.1-5.0). Default 2.0",
						"default":     2.0,
					},
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Persist the result. Default true",
						"default":     true,
					},
				},
				"required": []string{"id", "sample_count"},
			},
		},
		{
			Name:        "ramp_stats",
			Description: "Summarize the library: ramp count by source type, total colors and imported ramps.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Import / export
		{
			Name:        "ramp_export",
			Description: "Export every saved ramp as a JSON bundle. Writes to path when given, otherwise returns the bundle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute output path",
					},
				},
			},
		},
		{
			Name:        "ramp_import",
			Description: "Import a JSON bundle, adding its ramps to the library with fresh ids. A bundle with any invalid ramp is rejected whole.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Bundle JSON text",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a bundle file",
					},
				},
			},
		},
		{
			Name:        "ramp_export_gpl",
			Description: "Export saved ramps as a GIMP palette, one section per ramp.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Ramp ids to export. Default all",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Palette name. Default \"Gradient Ramps\"",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute output path",
					},
				},
			},
		},
		{
			Name:        "ramp_import_gpl",
			Description: "Replace the library with the palettes of a GIMP palette file, one ramp per section.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data": map[string]interface{}{
						"type":        "string",
						"description": "GIMP palette text",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a .gpl file",
					},
				},
			},
		},

		// Rendering
		{
			Name:        "ramp_swatch_png",
			Description: "Render a ramp as a row of square color tiles and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Saved ramp id",
					},
					"colors": map[string]interface{}{
						"type":        "string",
						"description": "Colors to render instead of a saved ramp",
					},
					"tile": map[string]interface{}{
						"type":        "integer",
						"description": "Tile size in pixels, 1-512. Default 32",
						"default":     32,
						"minimum":     1,
						"maximum":     imaging.MaxSwatchTile,
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute output path for the PNG",
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
