package detection

import (
	"fmt"
	"image"
)

// defaultStepDivisor sets the default stride to 1/8 of the window size.
const defaultStepDivisor = 8

// SlidingWindow sweeps a fixed-size window across a mask and collects every
// position whose fill ratio exceeds a threshold.
//
// A SlidingWindow holds no mutable state and may be used from several
// goroutines at once.
type SlidingWindow struct {
	width  int
	height int
	stepX  int
	stepY  int
	area   int
}

// NewSlidingWindow creates a width x height window whose strides default to
// width/8 and height/8. Strides are never smaller than 1.
func NewSlidingWindow(width, height int) *SlidingWindow {
	return NewSlidingWindowWithStep(width, height, width/defaultStepDivisor, height/defaultStepDivisor)
}

// NewSlidingWindowWithStep creates a width x height window moved by stepX
// horizontally and stepY vertically. Non-positive sizes are treated as zero
// and non-positive strides as 1.
func NewSlidingWindowWithStep(width, height, stepX, stepY int) *SlidingWindow {
	width = max(width, 0)
	height = max(height, 0)
	return &SlidingWindow{
		width:  width,
		height: height,
		stepX:  max(stepX, 1),
		stepY:  max(stepY, 1),
		area:   width * height,
	}
}

// Size returns the window footprint.
func (w *SlidingWindow) Size() (width, height int) {
	return w.width, w.height
}

// Step returns the horizontal and vertical strides.
func (w *SlidingWindow) Step() (stepX, stepY int) {
	return w.stepX, w.stepY
}

// Area returns the nominal window area used to normalise fill ratios.
func (w *SlidingWindow) Area() int {
	return w.area
}

// String describes the window geometry for logs.
func (w *SlidingWindow) String() string {
	return fmt.Sprintf("%dx%d step %dx%d", w.width, w.height, w.stepX, w.stepY)
}

// Run scans the whole mask. See RunRegion.
func (w *SlidingWindow) Run(mask image.Image, threshold float64) (*BoxSet, error) {
	return w.RunRegion(mask, threshold, mask.Bounds())
}

// RunRegion scans region of mask and returns the merged detections.
//
// A summed-area table is built from the mask on every call. Window corners
// start at the region origin and advance by the strides. A window whose
// bottom or right edge would reach the region edge is clipped to end one
// pixel short of it; once clipping leaves no height (or width) the scan of
// that axis stops. Every window, clipped or not, is scored against the
// nominal window area, so pixels cut off at the edge count as off.
//
// Windows scoring strictly above threshold are pushed into the result.
// The only error is one wrapping ErrInvalidFormat for a non-binary mask.
func (w *SlidingWindow) RunRegion(mask image.Image, threshold float64, region image.Rectangle) (*BoxSet, error) {
	sat, err := NewSAT(mask)
	if err != nil {
		return nil, err
	}
	return w.scan(sat, threshold, region, region), nil
}

// scan places window corners inside corners and clips windows against the
// bottom and right edges of region, using an already built table.
func (w *SlidingWindow) scan(sat *SAT, threshold float64, corners, region image.Rectangle) *BoxSet {
	boxes := NewBoxSetWithArea(sat, w.area)
	bottom := region.Max.Y
	right := region.Max.X

	for top := corners.Min.Y; top < corners.Max.Y && top < bottom; top += w.stepY {
		y2 := top + w.height
		if y2 >= bottom {
			y2 = bottom - 1
			if y2 <= top {
				break
			}
		}

		for left := corners.Min.X; left < corners.Max.X && left < right; left += w.stepX {
			x2 := left + w.width
			if x2 >= right {
				x2 = right - 1
				if x2 <= left {
					break
				}
			}

			window := image.Rect(left, top, x2, y2)
			ratio := sat.FillRatioArea(window, w.area)
			if ratio > threshold {
				boxes.PushWithRatio(window, ratio)
			}
		}
	}

	return boxes
}
