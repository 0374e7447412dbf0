package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
	"github.com/ironsheep/object-finder-mcp/internal/imaging"
	"github.com/ironsheep/object-finder-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "detect_objects").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_hsv":
		return s.handleImageSampleHSV(args)

	// Masks
	case "mask_build":
		return s.handleMaskBuild(args)
	case "mask_fill_ratio":
		return s.handleMaskFillRatio(args)

	// Detection
	case "detect_objects":
		return s.handleDetectObjects(ctx, args)
	case "image_highlight_objects":
		return s.handleImageHighlightObjects(args)
	case "image_crop_object":
		return s.handleImageCropObject(args)

	// Sequences
	case "process_sequence":
		return s.handleProcessSequence(ctx, args)

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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument handling ===

// maskArgs selects how a frame becomes a binary mask.
type maskArgs struct {
	Path        string             `json:"path"`
	Mode        string             `json:"mode"`
	Level       *int               `json:"level"`
	Ranges      []imaging.HSVRange `json:"ranges"`
	Backgrounds []string           `json:"backgrounds"`
}

// windowArgs overrides the configured scan. Zero or missing values keep the
// server configuration.
type windowArgs struct {
	WindowWidth  int            `json:"window_width"`
	WindowHeight int            `json:"window_height"`
	StepX        int            `json:"step_x"`
	StepY        int            `json:"step_y"`
	Threshold    *float64       `json:"threshold"`
	Region       *pipeline.Rect `json:"region"`
	TileSize     *int           `json:"tile_size"`
	Consolidate  *bool          `json:"consolidate"`
}

// processor builds a pipeline.Processor from the server configuration and
// the per-call overrides.
func (s *Server) processor(m maskArgs, w windowArgs) (*pipeline.Processor, error) {
	cfg := *s.cfg
	if w.WindowWidth > 0 {
		cfg.WindowWidth = w.WindowWidth
	}
	if w.WindowHeight > 0 {
		cfg.WindowHeight = w.WindowHeight
	}
	if w.StepX > 0 {
		cfg.StepX = w.StepX
	}
	if w.StepY > 0 {
		cfg.StepY = w.StepY
	}
	if w.Threshold != nil {
		if *w.Threshold < 0 || *w.Threshold > 100 {
			return nil, fmt.Errorf("threshold %v outside 0-100", *w.Threshold)
		}
		cfg.Threshold = *w.Threshold
	}
	if w.TileSize != nil {
		cfg.TileSize = *w.TileSize
	}
	if w.Consolidate != nil {
		cfg.Consolidate = *w.Consolidate
	}
	_ = cfg.Validate()

	colour, err := imaging.ParseColor(cfg.HighlightColor)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Processor{
		Window:      cfg.Window(),
		Threshold:   cfg.Threshold,
		Cache:       s.cache,
		TileSize:    cfg.TileSize,
		Consolidate: cfg.Consolidate,
		Workers:     cfg.Workers,
		Colour:      colour,
		Thickness:   cfg.Thickness,
		Logger:      s.log,
	}
	if w.Region != nil {
		p.Region = w.Region.Rectangle()
		if p.Region.Empty() {
			return nil, fmt.Errorf("region %+v is empty", *w.Region)
		}
	}

	switch m.Mode {
	case "", "luminance":
		level := cfg.LuminanceLevel
		if m.Level != nil {
			level = *m.Level
		}
		if level < 1 || level > 255 {
			return nil, fmt.Errorf("luminance level %d outside 1-255", level)
		}
		p.Luminance = uint8(level)
	case "hsv":
		if len(m.Ranges) == 0 {
			return nil, errors.New("hsv mode needs at least one range")
		}
		preds := make([]imaging.Predicate, len(m.Ranges))
		for i, r := range m.Ranges {
			preds[i] = r.Predicate()
		}
		p.Predicate = imaging.AnyOf(preds...)
	default:
		return nil, fmt.Errorf("unknown mask mode: %s", m.Mode)
	}

	if len(m.Backgrounds) > 0 {
		bg, err := imaging.LoadBackgroundModel(s.cache, m.Backgrounds...)
		if err != nil {
			return nil, err
		}
		bg.Level = uint8(cfg.DiffLevel)
		bg.Radius = cfg.OpenRadius
		p.Background = bg
	}
	return p, nil
}

// buildMask loads the image named by m and thresholds it.
func (s *Server) buildMask(m maskArgs) (image.Image, *image.Gray, error) {
	p, err := s.processor(m, windowArgs{})
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(m.Path)
	if err != nil {
		return nil, nil, err
	}
	mask, err := p.BuildMask(img)
	if err != nil {
		return nil, nil, err
	}
	return img, mask, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleHSV(args json.RawMessage) (interface{}, error) {
	var a imageSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleHSV(img, a.X, a.Y)
}

// === Mask Handlers ===

type maskBuildArgs struct {
	maskArgs
	Apply bool `json:"apply"`
}

// MaskResult is returned by mask_build.
type MaskResult struct {
	Coverage float64 `json:"mask_coverage"`
	*imaging.EncodedImage
}

func (s *Server) handleMaskBuild(args json.RawMessage) (interface{}, error) {
	var a maskBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, mask, err := s.buildMask(a.maskArgs)
	if err != nil {
		return nil, err
	}
	coverage, err := imaging.MaskCoverage(mask)
	if err != nil {
		return nil, err
	}

	var out image.Image = mask
	if a.Apply {
		if out, err = imaging.ApplyMask(img, mask); err != nil {
			return nil, err
		}
	}
	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return &MaskResult{Coverage: coverage, EncodedImage: encoded}, nil
}

type maskFillRatioArgs struct {
	maskArgs
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FillRatioResult is returned by mask_fill_ratio.
type FillRatioResult struct {
	Region    pipeline.Rect `json:"region"`
	OnPixels  int           `json:"on_pixels"`
	Area      int           `json:"area"`
	FillRatio float64       `json:"fill_ratio"`
}

func (s *Server) handleMaskFillRatio(args json.RawMessage) (interface{}, error) {
	var a maskFillRatioArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, mask, err := s.buildMask(a.maskArgs)
	if err != nil {
		return nil, err
	}
	sat, err := detection.NewSAT(mask)
	if err != nil {
		return nil, err
	}

	r := detection.Rect(a.X, a.Y, a.Width, a.Height)
	return &FillRatioResult{
		Region:    pipeline.FromRectangle(r),
		OnPixels:  sat.Count(r),
		Area:      detection.Area(r),
		FillRatio: sat.FillRatio(r),
	}, nil
}

// === Detection Handlers ===

type detectObjectsArgs struct {
	maskArgs
	windowArgs
}

// DetectResult is returned by detect_objects.
type DetectResult struct {
	Window    string  `json:"window"`
	Threshold float64 `json:"threshold"`
	*pipeline.FrameResult
}

func (s *Server) handleDetectObjects(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectObjectsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.processor(a.maskArgs, a.windowArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := p.ProcessImage(ctx, img, a.Path)
	if err != nil {
		return nil, err
	}
	return &DetectResult{Window: p.Window.String(), Threshold: p.Threshold, FrameResult: res}, nil
}

type highlightArgs struct {
	Path      string          `json:"path"`
	Objects   []pipeline.Rect `json:"objects"`
	Color     string          `json:"color"`
	Thickness int             `json:"thickness"`
	Output    string          `json:"output"`
}

// HighlightResult is returned by image_highlight_objects: either the written
// file or the encoded image.
type HighlightResult struct {
	Output string `json:"output,omitempty"`
	*imaging.EncodedImage
}

func (s *Server) handleImageHighlightObjects(args json.RawMessage) (interface{}, error) {
	var a highlightArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.HighlightColor
	}
	if a.Thickness <= 0 {
		a.Thickness = s.cfg.Thickness
	}
	colour, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	rects := make([]image.Rectangle, len(a.Objects))
	for i, o := range a.Objects {
		rects[i] = o.Rectangle()
	}
	annotated := imaging.Highlight(img, rects, colour, a.Thickness)

	if a.Output != "" {
		out, err := imaging.SaveImage(annotated, a.Output, a.Path)
		if err != nil {
			return nil, err
		}
		return &HighlightResult{Output: out}, nil
	}
	encoded, err := imaging.EncodePNG(annotated)
	if err != nil {
		return nil, err
	}
	return &HighlightResult{EncodedImage: encoded}, nil
}

type cropObjectArgs struct {
	Path   string  `json:"path"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCropObject(args json.RawMessage) (interface{}, error) {
	var a cropObjectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropObject(img, detection.Rect(a.X, a.Y, a.Width, a.Height), a.Scale)
}

// === Sequence Handlers ===

type processSequenceArgs struct {
	imaging.Sequence
	maskArgs
	windowArgs
	Output string `json:"output"`
}

func (s *Server) handleProcessSequence(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a processSequenceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	paths := a.Sequence.Paths()
	if len(paths) == 0 {
		return nil, fmt.Errorf("frame range %d..%d is empty", a.From, a.To)
	}
	p, err := s.processor(a.maskArgs, a.windowArgs)
	if err != nil {
		return nil, err
	}
	p.OutputPattern = a.Output
	return p.ProcessSequence(ctx, paths)
}
