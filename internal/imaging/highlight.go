package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// Outline colours for highlighted objects.
var (
	Red   = color.NRGBA{R: 255, A: 255}
	Green = color.NRGBA{G: 255, A: 255}
	Blue  = color.NRGBA{B: 255, A: 255}
)

// DefaultThickness is the outline width used when none is given.
const DefaultThickness = 2

// Highlight returns a copy of img with an outline of the given thickness
// drawn along the inside edge of every rectangle. Rectangles are given in
// img's coordinates and clipped to its bounds; the returned image has its
// origin at (0,0).
func Highlight(img image.Image, rects []image.Rectangle, c color.Color, thickness int) *image.NRGBA {
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	canvas := imaging.Clone(img)
	src := image.NewUniform(c)
	offset := img.Bounds().Min

	for _, r := range rects {
		r = r.Sub(offset).Intersect(canvas.Bounds())
		if r.Empty() {
			continue
		}
		t := min(thickness, r.Dx(), r.Dy())
		edges := []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), // top
			image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), // bottom
			image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), // left
			image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), // right
		}
		for _, e := range edges {
			draw.Draw(canvas, e, src, image.Point{}, draw.Src)
		}
	}
	return canvas
}

// ParseColor accepts a colour name (red, green, blue) or a hex string
// "#RRGGBB" / "#RRGGBBAA". An empty string yields Red.
func ParseColor(s string) (color.NRGBA, error) {
	switch s {
	case "", "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	}

	hex := s
	if hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}
