package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/ramp-tools-mcp/internal/codec"
	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gpl"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/imaging"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
	"github.com/ironsheep/ramp-tools-mcp/internal/store"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ramp_sample", "ramp_save").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// DefaultSwatchTile is the tile size used by ramp_swatch_png.
const DefaultSwatchTile = 32

// DefaultPaletteName names exported GIMP palettes when no name is given.
const DefaultPaletteName = "Gradient Ramps"

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		store.Logger().Debug("tool failed", "tool", params.Name, "err", err)
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Colors
	case "color_convert":
		return s.handleColorConvert(args)

	// Sampling
	case "ramp_sample":
		return s.handleRampSample(args)

	// Library
	case "ramp_save":
		return s.handleRampSave(args)
	case "ramp_list":
		return s.handleRampList(args)
	case "ramp_get":
		return s.handleRampGet(args)
	case "ramp_update":
		return s.handleRampUpdate(args)
	case "ramp_delete":
		return s.handleRampDelete(args)
	case "ramp_duplicate":
		return s.handleRampDuplicate(args)
	case "ramp_clear":
		return s.handleRampClear(args)
	case "ramp_rederive":
		return s.handleRampReDerive(args)
	case "ramp_stats":
		return s.store.Stats()

	// Import / export
	case "ramp_export":
		return s.handleRampExport(args)
	case "ramp_import":
		return s.handleRampImport(args)
	case "ramp_export_gpl":
		return s.handleRampExportGPL(args)
	case "ramp_import_gpl":
		return s.handleRampImportGPL(args)

	// Rendering
	case "ramp_swatch_png":
		return s.handleRampSwatchPNG(args)

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

// === Shared argument handling ===

type sourceArgs struct {
	Colors    string `json:"colors"`
	ImagePath string `json:"image_path"`
	GPL       string `json:"gpl"`
}

// source builds the gradient source and the derivation that can rebuild
// it later.
func (s *Server) source(a sourceArgs) (gradient.Source, store.Derivation, error) {
	given := 0
	for _, v := range []string{a.Colors, a.ImagePath, a.GPL} {
		if v != "" {
			given++
		}
	}
	if given != 1 {
		return gradient.Source{}, nil, errors.New("exactly one of colors, image_path or gpl is required")
	}

	switch {
	case a.Colors != "":
		stops, err := colorspace.ParseColorList(a.Colors)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		src, err := gradient.NewStops(stops)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		return src, store.ColorsDerivation{
			OriginalColors: colorspace.HexList(stops),
			HexInput:       a.Colors,
		}, nil

	case a.ImagePath != "":
		src, px, err := s.cache.Source(a.ImagePath)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		ref, err := imaging.EncodePixels(px)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		return src, store.ImageDerivation{ImageRef: ref}, nil

	default:
		p, err := gpl.ParseString(a.GPL)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		colors := p.Colors()
		src, err := gradient.NewPalette(colors)
		if err != nil {
			return gradient.Source{}, nil, err
		}
		return src, store.GPLDerivation{
			GPLData:        p.String(),
			OriginalColors: colorspace.HexList(colors),
		}, nil
	}
}

type samplingArgs struct {
	SampleCount      int      `json:"sample_count"`
	SamplingFunction string   `json:"sampling_function"`
	Power            *float64 `json:"power"`
	Start            *float64 `json:"start"`
	End              *float64 `json:"end"`
	LuminanceMode    string   `json:"luminance_mode"`
}

// config applies the arguments over the default config. Bounds are left
// to the sampler.
func (a samplingArgs) config() (sampling.Config, colorspace.LuminanceMode, error) {
	cfg := sampling.DefaultConfig()

	curve, err := sampling.ParseCurve(a.SamplingFunction)
	if err != nil {
		return cfg, "", err
	}
	cfg.Curve = curve
	if a.SampleCount != 0 {
		cfg.SampleCount = a.SampleCount
	}
	if a.Power != nil {
		cfg.Power = *a.Power
	}
	if a.Start != nil {
		cfg.StartPercent = *a.Start
	}
	if a.End != nil {
		cfg.EndPercent = *a.End
	}

	mode, err := colorspace.ParseLuminanceMode(a.LuminanceMode)
	if err != nil {
		return cfg, "", err
	}
	return cfg, mode, nil
}

// readInput returns inline data, or the contents of path.
func readInput(data, path string) ([]byte, error) {
	switch {
	case data != "" && path != "":
		return nil, errors.New("give either data or path, not both")
	case data != "":
		return []byte(data), nil
	case path != "":
		return os.ReadFile(path)
	default:
		return nil, errors.New("data or path is required")
	}
}

// === Color Handlers ===

type colorConvertArgs struct {
	Color         string   `json:"color"`
	Luminance     *float64 `json:"luminance"`
	LuminanceMode string   `json:"luminance_mode"`
}

type colorInfo struct {
	Hex       string             `json:"hex"`
	RGB       colorspace.RGB     `json:"rgb"`
	HSV       colorspace.HSV     `json:"hsv"`
	LAB       colorspace.LAB     `json:"lab"`
	Luminance map[string]float64 `json:"luminance"`
}

type colorConvertResult struct {
	colorInfo
	Adjusted *colorInfo `json:"adjusted,omitempty"`
}

func describeColor(c colorspace.RGB) colorInfo {
	return colorInfo{
		Hex: c.Hex(),
		RGB: c,
		HSV: c.HSV(),
		LAB: c.LAB(),
		Luminance: map[string]float64{
			string(colorspace.ModeHSV):  colorspace.Luminance(c, colorspace.ModeHSV),
			string(colorspace.ModeCIEL): colorspace.Luminance(c, colorspace.ModeCIEL),
		},
	}
}

func (s *Server) handleColorConvert(args json.RawMessage) (interface{}, error) {
	var a colorConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	colors, err := colorspace.ParseColorList(a.Color)
	if err != nil {
		return nil, err
	}
	if len(colors) != 1 {
		return nil, fmt.Errorf("%w: expected one color, got %d", colorspace.ErrInvalidColorFormat, len(colors))
	}

	result := colorConvertResult{colorInfo: describeColor(colors[0])}
	if a.Luminance != nil {
		mode, err := colorspace.ParseLuminanceMode(a.LuminanceMode)
		if err != nil {
			return nil, err
		}
		adjusted := describeColor(colorspace.WithLuminance(colors[0], *a.Luminance, mode))
		result.Adjusted = &adjusted
	}
	return result, nil
}

// === Sampling Handlers ===

type rampSampleArgs struct {
	sourceArgs
	samplingArgs
	Reverse bool `json:"reverse"`
}

type rampSampleResult struct {
	SourceType    string                   `json:"sourceType"`
	Colors        []string                 `json:"colors"`
	Samples       []gradient.Point         `json:"samples"`
	Config        sampling.Config          `json:"config"`
	LuminanceMode colorspace.LuminanceMode `json:"luminanceMode"`
}

func (s *Server) handleRampSample(args json.RawMessage) (interface{}, error) {
	var a rampSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	src, der, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	cfg, mode, err := a.config()
	if err != nil {
		return nil, err
	}
	ramp, err := gradient.Sample(src, cfg)
	if err != nil {
		return nil, err
	}
	if a.Reverse {
		ramp = ramp.Reversed()
	}

	return rampSampleResult{
		SourceType:    string(der.SourceType()),
		Colors:        ramp.Hexes(),
		Samples:       ramp.Samples,
		Config:        ramp.Config,
		LuminanceMode: mode,
	}, nil
}

// === Library Handlers ===

type rampSaveArgs struct {
	sourceArgs
	samplingArgs
	Name string `json:"name"`
}

func (s *Server) handleRampSave(args json.RawMessage) (interface{}, error) {
	var a rampSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	src, der, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	cfg, mode, err := a.config()
	if err != nil {
		return nil, err
	}
	ramp, err := gradient.Sample(src, cfg)
	if err != nil {
		return nil, err
	}

	return s.store.Save(store.NewRamp{
		Name:             a.Name,
		Colors:           ramp.Hexes(),
		SampleCount:      cfg.SampleCount,
		SamplingFunction: cfg.Curve,
		PowerValue:       cfg.Power,
		LuminanceMode:    mode,
		SamplingRange:    &store.Range{Start: cfg.StartPercent, End: cfg.EndPercent},
		Derivation:       der,
	})
}

type rampListArgs struct {
	IncludeThumbnails bool `json:"include_thumbnails"`
}

func (s *Server) handleRampList(args json.RawMessage) (interface{}, error) {
	var a rampListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	ramps, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if !a.IncludeThumbnails {
		for i := range ramps {
			ramps[i].Thumbnail = ""
		}
	}
	return map[string]interface{}{
		"count": len(ramps),
		"ramps": ramps,
	}, nil
}

type rampIDArgs struct {
	ID string `json:"id"`
}

func (a rampIDArgs) require() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

func (s *Server) handleRampGet(args json.RawMessage) (interface{}, error) {
	var a rampIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.require(); err != nil {
		return nil, err
	}
	return s.store.Get(a.ID)
}

type rampUpdateArgs struct {
	ID               string   `json:"id"`
	Name             *string  `json:"name"`
	Colors           []string `json:"colors"`
	SampleCount      *int     `json:"sample_count"`
	SamplingFunction *string  `json:"sampling_function"`
	Power            *float64 `json:"power"`
	Start            *float64 `json:"start"`
	End              *float64 `json:"end"`
	LuminanceMode    *string  `json:"luminance_mode"`
}

func (s *Server) handleRampUpdate(args json.RawMessage) (interface{}, error) {
	var a rampUpdateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, errors.New("id is required")
	}

	patch := store.Patch{
		Name:        a.Name,
		Colors:      a.Colors,
		SampleCount: a.SampleCount,
		PowerValue:  a.Power,
		RangeStart:  a.Start,
		RangeEnd:    a.End,
	}
	if a.SamplingFunction != nil {
		curve, err := sampling.ParseCurve(*a.SamplingFunction)
		if err != nil {
			return nil, err
		}
		patch.SamplingFunction = &curve
	}
	if a.LuminanceMode != nil {
		mode, err := colorspace.ParseLuminanceMode(*a.LuminanceMode)
		if err != nil {
			return nil, err
		}
		patch.LuminanceMode = &mode
	}
	return s.store.Update(a.ID, patch)
}

func (s *Server) handleRampDelete(args json.RawMessage) (interface{}, error) {
	var a rampIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.require(); err != nil {
		return nil, err
	}

	deleted, err := s.store.Delete(a.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, a.ID)
	}
	return map[string]interface{}{
		"id":      a.ID,
		"deleted": true,
	}, nil
}

func (s *Server) handleRampDuplicate(args json.RawMessage) (interface{}, error) {
	var a rampIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.require(); err != nil {
		return nil, err
	}
	return s.store.Duplicate(a.ID)
}

type rampClearArgs struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) handleRampClear(args json.RawMessage) (interface{}, error) {
	var a rampClearArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if !a.Confirm {
		return nil, errors.New("confirm must be true to clear the library")
	}

	cleared, err := s.store.Clear()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"cleared": cleared}, nil
}

type rampReDeriveArgs struct {
	ID               string   `json:"id"`
	SampleCount      int      `json:"sample_count"`
	SamplingFunction string   `json:"sampling_function"`
	Power            *float64 `json:"power"`
	Save             *bool    `json:"save"`
}

func (s *Server) handleRampReDerive(args json.RawMessage) (interface{}, error) {
	var a rampReDeriveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, errors.New("id is required")
	}

	curve, err := sampling.ParseCurve(a.SamplingFunction)
	if err != nil {
		return nil, err
	}
	var power float64
	if a.Power != nil {
		power = *a.Power
	}

	if a.Save == nil || *a.Save {
		return s.store.ReDeriveAndSave(a.ID, a.SampleCount, curve, power)
	}
	ramp, err := s.store.Get(a.ID)
	if err != nil {
		return nil, err
	}
	return s.store.ReDerive(ramp, a.SampleCount, curve, power)
}

// === Import / Export Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleRampExport(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	now := s.now()
	bundle, err := codec.Export(s.store, now)
	if err != nil {
		return nil, err
	}
	if a.Path == "" {
		return map[string]interface{}{
			"fileName": codec.FileName(now),
			"bundle":   bundle,
		}, nil
	}

	data, err := codec.Marshal(bundle)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(a.Path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return map[string]interface{}{
		"path":  a.Path,
		"count": len(bundle.Ramps),
	}, nil
}

type importArgs struct {
	Data string `json:"data"`
	Path string `json:"path"`
}

func (s *Server) handleRampImport(args json.RawMessage) (interface{}, error) {
	var a importArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	data, err := readInput(a.Data, a.Path)
	if err != nil {
		return nil, err
	}
	n, err := codec.Import(s.store, data)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"imported": n}, nil
}

type rampExportGPLArgs struct {
	IDs  []string `json:"ids"`
	Name string   `json:"name"`
	Path string   `json:"path"`
}

func (s *Server) handleRampExportGPL(args json.RawMessage) (interface{}, error) {
	var a rampExportGPLArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = DefaultPaletteName
	}

	var ramps []store.SavedRamp
	if len(a.IDs) == 0 {
		all, err := s.store.List()
		if err != nil {
			return nil, err
		}
		ramps = all
	} else {
		for _, id := range a.IDs {
			r, err := s.store.Get(id)
			if err != nil {
				return nil, err
			}
			ramps = append(ramps, r)
		}
	}

	var buf bytes.Buffer
	if err := codec.ExportGPL(&buf, a.Name, ramps); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return map[string]interface{}{
			"count": len(ramps),
			"gpl":   buf.String(),
		}, nil
	}
	if err := os.WriteFile(a.Path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write palette: %w", err)
	}
	return map[string]interface{}{
		"path":  a.Path,
		"count": len(ramps),
	}, nil
}

func (s *Server) handleRampImportGPL(args json.RawMessage) (interface{}, error) {
	var a importArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	data, err := readInput(a.Data, a.Path)
	if err != nil {
		return nil, err
	}
	n, err := codec.ImportGPL(s.store, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"imported": n}, nil
}

// === Rendering Handlers ===

type rampSwatchArgs struct {
	ID     string `json:"id"`
	Colors string `json:"colors"`
	Tile   int    `json:"tile"`
	Path   string `json:"path"`
}

type swatchResult struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Colors      []string `json:"colors"`
	ImageBase64 string   `json:"image_base64,omitempty"`
	MimeType    string   `json:"mime_type"`
	Path        string   `json:"path,omitempty"`
}

func (s *Server) handleRampSwatchPNG(args json.RawMessage) (interface{}, error) {
	var a rampSwatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Tile == 0 {
		a.Tile = DefaultSwatchTile
	}

	var colors []colorspace.RGB
	switch {
	case a.ID != "" && a.Colors != "":
		return nil, errors.New("give either id or colors, not both")
	case a.ID != "":
		r, err := s.store.Get(a.ID)
		if err != nil {
			return nil, err
		}
		if colors, err = colorspace.ParseHexList(r.Colors); err != nil {
			return nil, err
		}
	case a.Colors != "":
		var err error
		if colors, err = colorspace.ParseColorList(a.Colors); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("id or colors is required")
	}

	data, err := imaging.SwatchPNG(colors, a.Tile)
	if err != nil {
		return nil, err
	}

	result := swatchResult{
		Width:    a.Tile * len(colors),
		Height:   a.Tile,
		Colors:   colorspace.HexList(colors),
		MimeType: "image/png",
	}
	if a.Path != "" {
		if err := os.WriteFile(a.Path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write swatch: %w", err)
		}
		result.Path = a.Path
		return result, nil
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	return result, nil
}
