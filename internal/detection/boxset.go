package detection

import (
	"image"
	"iter"
)

type ratioSource int

const (
	ratioNone ratioSource = iota
	ratioRect
	ratioArea
)

// BoxSet is an ordered collection of bounding boxes, kept in creation order.
//
// Every pushed rectangle is either absorbed by the first box whose union it
// intersects or starts a new box. Push never merges two existing boxes with
// each other, even when growth makes their unions overlap; call Consolidate
// for that.
type BoxSet struct {
	boxes  []*BoundingBox
	sat    *SAT
	area   int
	source ratioSource
}

// NewBoxSet returns an empty set without a SAT. Rectangles pushed with Push
// carry no fill ratio.
func NewBoxSet() *BoxSet {
	return &BoxSet{}
}

// NewBoxSetWithSAT returns an empty set that scores rectangles pushed with
// Push by sat.FillRatio.
func NewBoxSetWithSAT(sat *SAT) *BoxSet {
	return &BoxSet{sat: sat, source: ratioRect}
}

// NewBoxSetWithArea returns an empty set that scores rectangles pushed with
// Push by sat.FillRatioArea against the given reference area.
func NewBoxSetWithArea(sat *SAT, area int) *BoxSet {
	return &BoxSet{sat: sat, area: area, source: ratioArea}
}

// Push adds r, scoring it with the set's SAT if it has one.
func (s *BoxSet) Push(r image.Rectangle) {
	var ratio Ratio
	switch s.source {
	case ratioRect:
		ratio = RatioOf(s.sat.FillRatio(r))
	case ratioArea:
		ratio = RatioOf(s.sat.FillRatioArea(r, s.area))
	default:
		ratio = NoRatio
	}
	s.push(r, ratio)
}

// PushWithRatio adds r with an explicit fill ratio, bypassing the SAT.
func (s *BoxSet) PushWithRatio(r image.Rectangle, fillRatio float64) {
	s.push(r, RatioOf(fillRatio))
}

func (s *BoxSet) push(r image.Rectangle, ratio Ratio) {
	for _, b := range s.boxes {
		if b.ExpandIfIntersects(r, ratio) {
			return
		}
	}
	s.boxes = append(s.boxes, newBoundingBox(r, ratio))
}

// Len returns the number of boxes.
func (s *BoxSet) Len() int {
	return len(s.boxes)
}

// Empty reports whether the set holds no boxes.
func (s *BoxSet) Empty() bool {
	return len(s.boxes) == 0
}

// Boxes returns a copy of the boxes in creation order.
func (s *BoxSet) Boxes() []BoundingBox {
	out := make([]BoundingBox, len(s.boxes))
	for i, b := range s.boxes {
		out[i] = *b
	}
	return out
}

// Unions returns the union rectangle of every box in creation order.
func (s *BoxSet) Unions() []image.Rectangle {
	out := make([]image.Rectangle, len(s.boxes))
	for i, b := range s.boxes {
		out[i] = b.union
	}
	return out
}

// All iterates the boxes in creation order. The yielded boxes are copies.
func (s *BoxSet) All() iter.Seq2[int, BoundingBox] {
	return func(yield func(int, BoundingBox) bool) {
		for i, b := range s.boxes {
			if !yield(i, *b) {
				return
			}
		}
	}
}

// Backward iterates the boxes from the most recently created to the first.
func (s *BoxSet) Backward() iter.Seq2[int, BoundingBox] {
	return func(yield func(int, BoundingBox) bool) {
		for i := len(s.boxes) - 1; i >= 0; i-- {
			if !yield(i, *s.boxes[i]) {
				return
			}
		}
	}
}

// Consolidate merges boxes whose unions intersect until no two boxes
// overlap. Each merged box keeps the union of its members and the best-fit
// rectangle of its highest scoring member; on a tie the earlier box wins.
// The merged boxes keep the creation order of their earliest member.
//
// It returns the number of boxes removed.
func (s *BoxSet) Consolidate() int {
	before := len(s.boxes)
	for {
		merged := s.mergeOnce()
		if len(merged) == len(s.boxes) {
			break
		}
		s.boxes = merged
	}
	return before - len(s.boxes)
}

// mergeOnce groups intersecting boxes with a union-find pass and returns one
// box per group.
func (s *BoxSet) mergeOnce() []*BoundingBox {
	n := len(s.boxes)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !Intersects(s.boxes[i].union, s.boxes[j].union) {
				continue
			}
			ri, rj := find(i), find(j)
			if ri == rj {
				continue
			}
			// The lower index is always the root so groups keep the order
			// of their earliest member.
			if rj < ri {
				ri, rj = rj, ri
			}
			parent[rj] = ri
		}
	}

	groups := make(map[int]*BoundingBox, n)
	out := make([]*BoundingBox, 0, n)
	for i, b := range s.boxes {
		root := find(i)
		g, ok := groups[root]
		if !ok {
			g = newBoundingBox(b.union, b.ratio)
			g.best = b.best
			groups[root] = g
			out = append(out, g)
			continue
		}
		g.union = g.union.Union(b.union)
		if b.ratio.exceeds(g.ratio) {
			g.ratio = b.ratio
			g.best = b.best
		}
	}
	return out
}

// appendBoxes adds other's boxes after s's without merging.
func (s *BoxSet) appendBoxes(other *BoxSet) {
	s.boxes = append(s.boxes, other.boxes...)
}
