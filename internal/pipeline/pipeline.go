// Package pipeline runs the mask → scan → annotate chain over single frames
// and numbered frame sequences.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
	"github.com/ironsheep/object-finder-mcp/internal/imaging"
	"github.com/ironsheep/object-finder-mcp/internal/logging"
)

// ErrNoPredicate is returned when a Processor has neither a pixel predicate
// nor a luminance level.
var ErrNoPredicate = errors.New("no pixel predicate configured")

// Rect is a JSON friendly rectangle: top-left corner plus size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FromRectangle converts an image.Rectangle.
func FromRectangle(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rectangle converts back to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return detection.Rect(r.X, r.Y, r.Width, r.Height)
}

// Object is one detection: the merged extent and the best window inside it.
type Object struct {
	Bounds    Rect    `json:"bounds"`
	Best      Rect    `json:"best"`
	FillRatio float64 `json:"fill_ratio"`
}

// Objects lists the boxes of set in order.
func Objects(set *detection.BoxSet) []Object {
	objects := make([]Object, 0, set.Len())
	for _, b := range set.All() {
		objects = append(objects, Object{
			Bounds:    FromRectangle(b.Union()),
			Best:      FromRectangle(b.Best()),
			FillRatio: b.FillRatio(),
		})
	}
	return objects
}

// FrameResult reports the outcome for one frame.
type FrameResult struct {
	Path     string   `json:"path"`
	Output   string   `json:"output,omitempty"`
	Coverage float64  `json:"mask_coverage"`
	Objects  []Object `json:"objects"`
	Error    string   `json:"error,omitempty"`
}

// BatchResult summarises a sequence run.
type BatchResult struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Objects   int           `json:"objects"`
	Frames    []FrameResult `json:"frames"`
}

// Processor holds everything needed to turn a frame into detections.
//
// Window, Cache and either Predicate or Luminance are required. A Processor
// is safe for concurrent use once configured.
type Processor struct {
	Window    *detection.SlidingWindow
	Threshold float64
	Cache     *imaging.ImageCache

	// Predicate selects mask pixels. When nil, pixels whose luminance is at
	// least Luminance are on.
	Predicate imaging.Predicate
	Luminance uint8

	// Region limits the scan; the empty rectangle scans the whole mask.
	Region image.Rectangle

	// Background removes the static scene before thresholding when set.
	Background *imaging.BackgroundModel

	// TileSize > 0 scans frames as tiles on up to Workers goroutines.
	TileSize    int
	Consolidate bool

	// Workers bounds both tile scanning and frames processed at once.
	Workers int

	// OutputPattern, when set, saves annotated frames (see imaging.ExpandPattern).
	OutputPattern string
	Colour        color.Color
	Thickness     int

	Logger *slog.Logger
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return logging.Discard()
	}
	return p.Logger
}

// BuildMask thresholds img with the predicate or luminance level, after
// background removal when a model is configured.
func (p *Processor) BuildMask(img image.Image) (*image.Gray, error) {
	if p.Predicate == nil && p.Luminance == 0 {
		return nil, ErrNoPredicate
	}

	var fg *image.Gray
	if p.Background != nil {
		var err error
		fg, err = p.Background.ForegroundMask(img)
		if err != nil {
			return nil, fmt.Errorf("failed to remove background: %w", err)
		}
	}
	if p.Predicate != nil {
		return imaging.Threshold(img, p.Predicate, fg)
	}

	mask := imaging.LuminanceMask(img, p.Luminance)
	if fg == nil {
		return mask, nil
	}
	return imaging.Intersect(mask, fg)
}

// Detect scans mask with the configured window.
func (p *Processor) Detect(ctx context.Context, mask *image.Gray) (*detection.BoxSet, error) {
	region := mask.Bounds()
	if !p.Region.Empty() {
		region = p.Region
	}
	if p.TileSize > 0 {
		tiles := p.Window.Tiles(region, p.TileSize, p.TileSize)
		return p.Window.ScanTiles(ctx, mask, p.Threshold, region, tiles, p.Workers)
	}

	boxes, err := p.Window.RunRegion(mask, p.Threshold, region)
	if err != nil {
		return nil, err
	}
	if p.Consolidate {
		boxes.Consolidate()
	}
	return boxes, nil
}

// ProcessImage runs the chain on an already decoded frame. src is used for
// the output name and the result path.
func (p *Processor) ProcessImage(ctx context.Context, img image.Image, src string) (*FrameResult, error) {
	mask, err := p.BuildMask(img)
	if err != nil {
		return nil, err
	}
	boxes, err := p.Detect(ctx, mask)
	if err != nil {
		return nil, err
	}
	coverage, err := imaging.MaskCoverage(mask)
	if err != nil {
		return nil, err
	}

	result := &FrameResult{
		Path:     src,
		Coverage: coverage,
		Objects:  Objects(boxes),
	}

	if p.OutputPattern != "" {
		colour := p.Colour
		if colour == nil {
			colour = imaging.Red
		}
		annotated := imaging.Highlight(img, boxes.Unions(), colour, p.Thickness)
		out, err := imaging.SaveImage(annotated, p.OutputPattern, src)
		if err != nil {
			return nil, err
		}
		result.Output = out
	}

	p.logger().Debug("frame processed",
		"path", src,
		"window", p.Window.String(),
		"objects", len(result.Objects),
		"coverage", coverage)
	return result, nil
}

// ProcessFile loads path through the cache and processes it. The frame is
// evicted afterwards: sequence frames are read once.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*FrameResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := p.Cache.Load(path)
	if err != nil {
		return nil, err
	}
	defer p.Cache.Evict(path)

	return p.ProcessImage(ctx, img, path)
}

// ProcessSequence processes paths on up to Workers goroutines and returns
// the results in input order. A frame that fails is recorded with its error
// and does not stop the run; cancelling ctx does, and its error is returned.
func (p *Processor) ProcessSequence(ctx context.Context, paths []string) (*BatchResult, error) {
	runID := uuid.NewString()
	log := p.logger().With("run_id", runID)
	log.Info("sequence started", "frames", len(paths), "window", p.Window.String(), "threshold", p.Threshold)

	frames := make([]FrameResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			res, err := p.ProcessFile(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("frame failed", "path", path, "error", err)
				frames[i] = FrameResult{Path: path, Error: err.Error()}
				return nil
			}
			log.Info("frame done", "path", path, "objects", len(res.Objects))
			frames[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{RunID: runID, Frames: frames}
	for _, f := range frames {
		if f.Error != "" {
			result.Failed++
			continue
		}
		result.Processed++
		result.Objects += len(f.Objects)
	}
	log.Info("sequence finished", "processed", result.Processed, "failed", result.Failed, "objects", result.Objects)
	return result, nil
}
