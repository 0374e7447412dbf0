package detection

import "image"

// Ratio is an optional fill ratio. The zero value means "no ratio supplied".
type Ratio struct {
	value float64
	valid bool
}

// NoRatio is the absent fill ratio. Expanding a box with NoRatio never
// changes its best-fit rectangle.
var NoRatio = Ratio{}

// RatioOf wraps a fill ratio percentage.
func RatioOf(v float64) Ratio {
	return Ratio{value: v, valid: true}
}

// Value returns the ratio and whether it was supplied.
func (r Ratio) Value() (float64, bool) {
	return r.value, r.valid
}

// exceeds reports whether r is a supplied ratio strictly better than other.
// Any supplied ratio beats an absent one.
func (r Ratio) exceeds(other Ratio) bool {
	if !r.valid {
		return false
	}
	return !other.valid || r.value > other.value
}

// BoundingBox accumulates one detected object.
//
// It tracks the union of every rectangle merged into it and, separately, the
// merged rectangle with the highest fill ratio seen so far. The union only
// grows and the best ratio never decreases.
type BoundingBox struct {
	union image.Rectangle
	best  image.Rectangle
	ratio Ratio
}

// NewBoundingBox seeds a box with r and a best fill ratio of 0.
func NewBoundingBox(r image.Rectangle) *BoundingBox {
	return newBoundingBox(r, RatioOf(0))
}

// NewBoundingBoxWithRatio seeds a box with r scored at fillRatio.
func NewBoundingBoxWithRatio(r image.Rectangle, fillRatio float64) *BoundingBox {
	return newBoundingBox(r, RatioOf(fillRatio))
}

func newBoundingBox(r image.Rectangle, ratio Ratio) *BoundingBox {
	return &BoundingBox{union: r, best: r, ratio: ratio}
}

// Intersects reports whether r overlaps the box's current union with a
// positive area.
func (b *BoundingBox) Intersects(r image.Rectangle) bool {
	return Intersects(b.union, r)
}

// Expand unions r into the box. The best-fit rectangle is left unchanged.
func (b *BoundingBox) Expand(r image.Rectangle) {
	b.expand(r, NoRatio)
}

// ExpandWithRatio unions r into the box and makes r the best-fit rectangle
// if fillRatio beats the current best.
func (b *BoundingBox) ExpandWithRatio(r image.Rectangle, fillRatio float64) {
	b.expand(r, RatioOf(fillRatio))
}

// ExpandIfIntersects expands the box with r only when r intersects the
// current union, and reports whether it did.
func (b *BoundingBox) ExpandIfIntersects(r image.Rectangle, ratio Ratio) bool {
	if !b.Intersects(r) {
		return false
	}
	b.expand(r, ratio)
	return true
}

func (b *BoundingBox) expand(r image.Rectangle, ratio Ratio) {
	b.union = b.union.Union(r)
	if ratio.exceeds(b.ratio) {
		b.ratio = ratio
		b.best = r
	}
}

// Union returns the geometric union of every rectangle merged into the box.
func (b *BoundingBox) Union() image.Rectangle {
	return b.union
}

// Best returns the merged rectangle with the highest fill ratio.
func (b *BoundingBox) Best() image.Rectangle {
	return b.best
}

// FillRatio returns the best fill ratio, or 0 if the box never received one.
func (b *BoundingBox) FillRatio() float64 {
	return b.ratio.value
}

// HasFillRatio reports whether the box was ever scored.
func (b *BoundingBox) HasFillRatio() bool {
	return b.ratio.valid
}
