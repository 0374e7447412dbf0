package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
)

// Predicate decides whether a pixel belongs to the object being searched for.
type Predicate func(c color.Color) bool

// HSVPredicate adapts a rule written against HSV values to a Predicate.
func HSVPredicate(fn func(HSVColor) bool) Predicate {
	return func(c color.Color) bool {
		return fn(ToHSV(c))
	}
}

// AnyOf matches a pixel when at least one of preds matches it.
func AnyOf(preds ...Predicate) Predicate {
	return func(c color.Color) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// HSVRange is an inclusive box in HSV space. Hue is in degrees, saturation
// and value in percent. When HueMin is greater than HueMax the hue range
// wraps through 0, so {HueMin: 340, HueMax: 20} covers reds on both sides.
type HSVRange struct {
	HueMin float64 `json:"hue_min"`
	HueMax float64 `json:"hue_max"`
	SatMin float64 `json:"sat_min"`
	SatMax float64 `json:"sat_max"`
	ValMin float64 `json:"val_min"`
	ValMax float64 `json:"val_max"`
}

// Contains reports whether c lies inside the range.
func (r HSVRange) Contains(c HSVColor) bool {
	if c.S < r.SatMin || c.S > r.SatMax || c.V < r.ValMin || c.V > r.ValMax {
		return false
	}
	if r.HueMin <= r.HueMax {
		return c.H >= r.HueMin && c.H <= r.HueMax
	}
	return c.H >= r.HueMin || c.H <= r.HueMax
}

// Predicate returns a Predicate matching pixels inside the range.
func (r HSVRange) Predicate() Predicate {
	return HSVPredicate(r.Contains)
}

// Threshold builds a binary mask the size of img: a pixel is on when pred
// accepts it. When foreground is non-nil only pixels that are on in
// foreground are tested; everything else stays off. foreground must cover
// the same bounds as img.
func Threshold(img image.Image, pred Predicate, foreground *image.Gray) (*image.Gray, error) {
	bounds := img.Bounds()
	if foreground != nil && foreground.Bounds().Size() != bounds.Size() {
		return nil, fmt.Errorf("foreground mask %v does not match image %v", foreground.Bounds(), bounds)
	}

	mask := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if foreground != nil {
				fx := foreground.Rect.Min.X + x - bounds.Min.X
				fy := foreground.Rect.Min.Y + y - bounds.Min.Y
				if foreground.Pix[foreground.PixOffset(fx, fy)] != detection.MaskOn {
					continue
				}
			}
			if pred(img.At(x, y)) {
				mask.Pix[mask.PixOffset(x, y)] = detection.MaskOn
			}
		}
	}
	return mask, nil
}

// LuminanceMask switches on every pixel whose luminance is at least level.
func LuminanceMask(img image.Image, level uint8) *image.Gray {
	return segment.Threshold(img, level)
}

// Intersect returns a mask with the bounds of a that is on where both a and
// b are on. The masks must be the same size.
func Intersect(a, b *image.Gray) (*image.Gray, error) {
	size := a.Bounds().Size()
	if b.Bounds().Size() != size {
		return nil, fmt.Errorf("mask %v does not match mask %v", b.Bounds(), a.Bounds())
	}

	out := image.NewGray(a.Bounds())
	for y := 0; y < size.Y; y++ {
		ai := a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y)
		bi := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		oi := out.PixOffset(out.Rect.Min.X, out.Rect.Min.Y+y)
		for x := 0; x < size.X; x++ {
			if a.Pix[ai+x] == detection.MaskOn && b.Pix[bi+x] == detection.MaskOn {
				out.Pix[oi+x] = detection.MaskOn
			}
		}
	}
	return out, nil
}

// MaskCoverage returns the percentage of on pixels in mask.
func MaskCoverage(mask image.Image) (float64, error) {
	sat, err := detection.NewSAT(mask)
	if err != nil {
		return 0, err
	}
	return sat.FillRatio(mask.Bounds()), nil
}

// ApplyMask returns a copy of img in which every pixel that is off in mask is
// black and transparent.
func ApplyMask(img image.Image, mask *image.Gray) (*image.NRGBA, error) {
	if mask.Bounds().Size() != img.Bounds().Size() {
		return nil, fmt.Errorf("mask %v does not match image %v", mask.Bounds(), img.Bounds())
	}

	out := imaging.Clone(img)
	size := mask.Bounds().Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			if mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y == detection.MaskOn {
				continue
			}
			i := out.PixOffset(x, y)
			copy(out.Pix[i:i+4], []uint8{0, 0, 0, 0})
		}
	}
	return out, nil
}
