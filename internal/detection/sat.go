package detection

import (
	"errors"
	"fmt"
	"image"
)

// Mask pixel values. A mask is an *image.Gray holding only these two values.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// ErrInvalidFormat is returned when a mask is not a strict two-valued raster.
var ErrInvalidFormat = errors.New("invalid mask format")

// SAT is a summed-area table (integral image) over a binary mask.
//
// Once built it answers "how many on pixels lie inside this rectangle" in
// constant time. A SAT is read-only after construction and may be shared
// between goroutines.
//
// The zero value and a nil *SAT are valid and report a fill ratio of 0 for
// every rectangle, so callers can defer building one without branching.
type SAT struct {
	bounds image.Rectangle
	stride int   // cols + 1
	table  []int // (rows+1) x (cols+1), row-major
}

// NewSAT builds a summed-area table for mask.
//
// The mask must be an *image.Gray whose pixels are all MaskOff or MaskOn.
// Any other image type or pixel value yields an error wrapping
// ErrInvalidFormat.
//
// Cell (r, c) of the table holds the number of on pixels in rows [0, r) and
// columns [0, c) relative to the mask origin, so the table is one row and one
// column larger than the mask.
func NewSAT(mask image.Image) (*SAT, error) {
	gray, ok := mask.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("%w: expected 8-bit grayscale mask, got %T", ErrInvalidFormat, mask)
	}

	bounds := gray.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()
	stride := cols + 1
	table := make([]int, (rows+1)*stride)

	for y := 0; y < rows; y++ {
		rowSum := 0
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < cols; x++ {
			switch gray.Pix[off+x] {
			case MaskOn:
				rowSum++
			case MaskOff:
			default:
				return nil, fmt.Errorf("%w: pixel (%d,%d) has value %d, want %d or %d",
					ErrInvalidFormat, bounds.Min.X+x, bounds.Min.Y+y, gray.Pix[off+x], MaskOff, MaskOn)
			}
			table[(y+1)*stride+x+1] = table[y*stride+x+1] + rowSum
		}
	}

	return &SAT{bounds: bounds, stride: stride, table: table}, nil
}

// Bounds returns the bounds of the mask the table was built from.
func (s *SAT) Bounds() image.Rectangle {
	if s == nil {
		return image.Rectangle{}
	}
	return s.bounds
}

// Count returns the number of on pixels inside r.
//
// r is clipped to the mask bounds first; the part outside the mask counts as
// off.
func (s *SAT) Count(r image.Rectangle) int {
	if s == nil || s.table == nil {
		return 0
	}
	r = r.Intersect(s.bounds)
	if r.Empty() {
		return 0
	}

	x1 := r.Min.X - s.bounds.Min.X
	y1 := r.Min.Y - s.bounds.Min.Y
	x2 := r.Max.X - s.bounds.Min.X
	y2 := r.Max.Y - s.bounds.Min.Y

	return s.at(y2, x2) - s.at(y2, x1) - s.at(y1, x2) + s.at(y1, x1)
}

// FillRatio returns the percentage (0-100) of r covered by on pixels,
// relative to the area of r itself.
func (s *SAT) FillRatio(r image.Rectangle) float64 {
	return s.FillRatioArea(r, Area(r))
}

// FillRatioArea returns 100 * Count(r) / area.
//
// This lets callers score a rectangle that was clipped at an image edge
// against the nominal area of the window it came from. A non-positive area
// yields 0.
func (s *SAT) FillRatioArea(r image.Rectangle, area int) float64 {
	if area <= 0 {
		return 0.0
	}
	return float64(s.Count(r)) * 100.0 / float64(area)
}

func (s *SAT) at(row, col int) int {
	return s.table[row*s.stride+col]
}
