package main

import (
	"github.com/ironsheep/object-finder-mcp/internal/imaging"
)

// Skin colour rules tuned on frames from one foyer camera under its own
// lighting. Hue is in degrees, saturation and value in percent; a hue range
// with HueMin > HueMax wraps through red.
var (
	shadow = imaging.HSVRange{HueMin: 18, HueMax: 18, SatMin: 10, SatMax: 12, ValMin: 0, ValMax: 100}

	skinRules = []struct {
		name  string
		scope imaging.HSVRange
	}{
		{"little light", imaging.HSVRange{HueMin: 350, HueMax: 20, SatMin: 10, SatMax: 30, ValMin: 30, ValMax: 50}},
		{"very little light", imaging.HSVRange{HueMin: 310, HueMax: 340, SatMin: 15, SatMax: 30, ValMin: 20, ValMax: 35}},
		{"little light, warm", imaging.HSVRange{HueMin: 10, HueMax: 25, SatMin: 20, SatMax: 40, ValMin: 35, ValMax: 45}},
		{"medium light", imaging.HSVRange{HueMin: 340, HueMax: 16, SatMin: 25, SatMax: 40, ValMin: 50, ValMax: 70}},
		{"high light", imaging.HSVRange{HueMin: 10, HueMax: 15, SatMin: 35, SatMax: 45, ValMin: 60, ValMax: 90}},
		{"very high light", imaging.HSVRange{HueMin: 0, HueMax: 20, SatMin: 10, SatMax: 40, ValMin: 85, ValMax: 100}},
		{"violet", imaging.HSVRange{HueMin: 310, HueMax: 345, SatMin: 20, SatMax: 40, ValMin: 35, ValMax: 45}},
		{"violet, dim", imaging.HSVRange{HueMin: 285, HueMax: 290, SatMin: 13, SatMax: 20, ValMin: 25, ValMax: 35}},
		{"gray", imaging.HSVRange{HueMin: 335, HueMax: 337, SatMin: 10, SatMax: 15, ValMin: 30, ValMax: 35}},
		{"brown", imaging.HSVRange{HueMin: 18, HueMax: 25, SatMin: 30, SatMax: 45, ValMin: 40, ValMax: 66}},
		{"over-exposed", imaging.HSVRange{HueMin: 290, HueMax: 320, SatMin: 0, SatMax: 10, ValMin: 90, ValMax: 100}},
	}
)

// isSkin reports whether c looks like skin. Every rule also requires the
// value to exceed the saturation.
func isSkin(c imaging.HSVColor) bool {
	if shadow.Contains(c) {
		return false
	}
	for _, r := range skinRules {
		if r.scope.Contains(c) && c.V > c.S {
			return true
		}
	}
	return false
}

var skinPredicate = imaging.HSVPredicate(isSkin)
