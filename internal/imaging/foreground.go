package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
)

// Foreground extraction defaults.
const (
	// DefaultDiffLevel is the luminance of the per-pixel difference above
	// which a pixel counts as changed.
	DefaultDiffLevel uint8 = 40

	// DefaultOpenRadius removes specks smaller than roughly a 5x5 block.
	DefaultOpenRadius = 2.0
)

// ErrNoBackground is returned when a BackgroundModel holds no background.
var ErrNoBackground = errors.New("no background images")

// BackgroundModel separates moving objects from a static scene.
//
// Each background image is a shot of the empty scene, for example one per
// lighting condition. A frame pixel is foreground only when it differs from
// every background, so adding backgrounds makes the model more conservative.
type BackgroundModel struct {
	backgrounds []image.Image

	// Level is the difference luminance a pixel must reach to count as changed.
	Level uint8

	// Radius is the erode/dilate radius of the opening applied to each
	// difference mask. Zero disables the opening.
	Radius float64
}

// NewBackgroundModel creates a model from one or more background images.
// All backgrounds must share the same size.
func NewBackgroundModel(backgrounds ...image.Image) (*BackgroundModel, error) {
	if len(backgrounds) == 0 {
		return nil, ErrNoBackground
	}
	size := backgrounds[0].Bounds().Size()
	for i, bg := range backgrounds[1:] {
		if bg.Bounds().Size() != size {
			return nil, fmt.Errorf("background %d is %v, want %v", i+1, bg.Bounds().Size(), size)
		}
	}
	return &BackgroundModel{
		backgrounds: backgrounds,
		Level:       DefaultDiffLevel,
		Radius:      DefaultOpenRadius,
	}, nil
}

// LoadBackgroundModel loads every background path through cache.
func LoadBackgroundModel(cache *ImageCache, paths ...string) (*BackgroundModel, error) {
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := cache.Load(p)
		if err != nil {
			return nil, fmt.Errorf("unable to read background %s: %w", p, err)
		}
		images = append(images, img)
	}
	return NewBackgroundModel(images...)
}

// Len returns the number of backgrounds in the model.
func (m *BackgroundModel) Len() int {
	return len(m.backgrounds)
}

// ForegroundMask returns a mask of the pixels of img that differ from every
// background. For each background the absolute difference is thresholded at
// Level and opened (eroded then dilated) with Radius; the per-background
// masks are combined with a logical AND. The mask origin is (0,0).
func (m *BackgroundModel) ForegroundMask(img image.Image) (*image.Gray, error) {
	if len(m.backgrounds) == 0 {
		return nil, ErrNoBackground
	}
	size := img.Bounds().Size()
	if want := m.backgrounds[0].Bounds().Size(); size != want {
		return nil, fmt.Errorf("image is %v, backgrounds are %v", size, want)
	}

	mask := image.NewGray(image.Rectangle{Max: size})
	for i := range mask.Pix {
		mask.Pix[i] = detection.MaskOn
	}

	for _, bg := range m.backgrounds {
		changed := m.changed(bg, img)
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				if changed.GrayAt(changed.Rect.Min.X+x, changed.Rect.Min.Y+y).Y != detection.MaskOn {
					mask.Pix[mask.PixOffset(x, y)] = detection.MaskOff
				}
			}
		}
	}
	return mask, nil
}

// changed thresholds the difference between one background and img.
func (m *BackgroundModel) changed(bg, img image.Image) *image.Gray {
	diff := segment.Threshold(blend.Difference(bg, img), max(m.Level, 1))
	if m.Radius <= 0 {
		return diff
	}
	opened := effect.Dilate(effect.Erode(diff, m.Radius), m.Radius)
	// The opening returns RGBA; re-threshold to get a strict binary mask back.
	return segment.Threshold(opened, 128)
}
