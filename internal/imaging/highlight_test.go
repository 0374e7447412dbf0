package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestHighlight(t *testing.T) {
	img := createInMemoryImage(30, 30, color.RGBA{0, 0, 0, 255})

	out := Highlight(img, []image.Rectangle{image.Rect(5, 5, 15, 15)}, Red, 2)

	tests := []struct {
		name string
		p    image.Point
		red  bool
	}{
		{"top edge", image.Pt(10, 5), true},
		{"second row of top edge", image.Pt(10, 6), true},
		{"inside", image.Pt(10, 7), false},
		{"left edge", image.Pt(5, 10), true},
		{"right edge", image.Pt(14, 10), true},
		{"bottom edge", image.Pt(10, 13), true},
		{"outside", image.Pt(15, 15), false},
		{"centre", image.Pt(10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := out.NRGBAAt(tt.p.X, tt.p.Y) == Red
			if got != tt.red {
				t.Errorf("pixel %v: red=%v, want %v", tt.p, got, tt.red)
			}
		})
	}

	// The source image is left alone.
	if r, _, _, _ := img.At(10, 5).RGBA(); r != 0 {
		t.Error("Highlight modified the source image")
	}
}

func TestHighlight_ClipsAndDefaults(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})

	out := Highlight(img, []image.Rectangle{
		image.Rect(15, 15, 40, 40), // partly outside
		image.Rect(50, 50, 60, 60), // fully outside
		image.Rect(2, 2, 3, 3),     // thinner than the outline
	}, Green, 0)

	if out.Bounds() != img.Bounds() {
		t.Errorf("Bounds: got %v, want %v", out.Bounds(), img.Bounds())
	}
	if out.NRGBAAt(15, 17) != Green || out.NRGBAAt(19, 17) != Green {
		t.Error("clipped rectangle should be outlined up to the image edge")
	}
	if out.NRGBAAt(17, 17) == Green {
		t.Error("default thickness should leave the clipped interior untouched")
	}
	if out.NRGBAAt(2, 2) != Green {
		t.Error("one pixel rectangle should be filled")
	}
}

func TestHighlight_OffsetImage(t *testing.T) {
	full := createInMemoryImage(30, 30, color.RGBA{0, 0, 0, 255})
	sub := full.SubImage(image.Rect(10, 10, 30, 30))

	out := Highlight(sub, []image.Rectangle{image.Rect(12, 12, 20, 20)}, Blue, 1)
	if out.NRGBAAt(2, 2) != Blue {
		t.Error("rectangle should be translated to the canvas origin")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"", Red, false},
		{"red", Red, false},
		{"green", Green, false},
		{"blue", Blue, false},
		{"#FF8000", color.NRGBA{255, 128, 0, 255}, false},
		{"00FF0080", color.NRGBA{0, 255, 0, 128}, false},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
		{"purple", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q): got %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
