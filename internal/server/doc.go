// Package server implements the MCP (Model Context Protocol) server for the
// gradient ramp tools.
//
// This package provides a JSON-RPC 2.0 server that exposes ramp sampling and
// the saved-ramp library through the MCP protocol.
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
// Colors:
//   - color_convert: Hex, RGB, HSV and LAB for one color, plus luminance
//
// Sampling:
//   - ramp_sample: Sample a ramp from stops, an image or a GIMP palette
//
// Library:
//   - ramp_save, ramp_list, ramp_get, ramp_update, ramp_delete
//   - ramp_duplicate, ramp_clear, ramp_stats
//   - ramp_rederive: Re-sample a saved ramp from its recorded source
//
// Import / export:
//   - ramp_export, ramp_import: JSON bundles
//   - ramp_export_gpl, ramp_import_gpl: GIMP palettes
//
// Rendering:
//   - ramp_swatch_png: Render a ramp as PNG tiles
//
// Sampling and saving take exactly one source argument: colors,
// image_path or gpl. Images are cached by path for the lifetime of the
// server.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	st := store.New(backend)
//	srv := server.New(st)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
