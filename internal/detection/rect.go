package detection

import "image"

// Rect builds a rectangle from its top-left corner and size.
//
// Negative sizes are treated as zero so the result is always well formed.
func Rect(x, y, width, height int) image.Rectangle {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return image.Rectangle{
		Min: image.Point{X: x, Y: y},
		Max: image.Point{X: x + width, Y: y + height},
	}
}

// Area returns the number of pixels covered by r. Empty rectangles have zero area.
func Area(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Intersects reports whether a and b overlap with a positive area.
//
// Rectangles that merely touch along an edge do not intersect.
func Intersects(a, b image.Rectangle) bool {
	return Area(a.Intersect(b)) > 0
}
