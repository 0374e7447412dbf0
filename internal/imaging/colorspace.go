package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSVColor represents a color in HSV (Hue, Saturation, Value) color space.
//
// Units are the ones people quote when tuning colour rules by eye:
// hue in degrees, saturation and value in percent.
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S float64 `json:"s"` // Saturation: 0-100 percent
	V float64 `json:"v"` // Value: 0-100 percent
}

// ColorSample contains one pixel in the representations used to tune masks.
type ColorSample struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // Hex format "#RRGGBB" (no alpha)
	RGB RGBColor `json:"rgb"`
	HSV HSVColor `json:"hsv"`
}

// ToHSV converts c to HSV with hue in degrees and saturation/value in percent.
// Fully transparent colours convert as black.
func ToHSV(c color.Color) HSVColor {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return HSVColor{}
	}
	h, s, v := cf.Hsv()
	return HSVColor{H: h, S: s * 100, V: v * 100}
}

// SampleHSV reads the pixel at (x, y) and reports it as hex, RGB and HSV.
//
// Coordinates are absolute image coordinates; an error is returned when they
// fall outside the image bounds.
func SampleHSV(img image.Image, x, y int) (*ColorSample, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := img.At(x, y)
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	hsv := ToHSV(c)

	return &ColorSample{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: HSVColor{H: round2(hsv.H), S: round2(hsv.S), V: round2(hsv.V)},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
