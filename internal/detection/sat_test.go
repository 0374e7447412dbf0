package detection

import (
	"errors"
	"image"
	"math"
	"testing"
)

// createMask creates a width x height mask with the given rectangles switched on.
func createMask(width, height int, on ...image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, r := range on {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				mask.Pix[mask.PixOffset(x, y)] = MaskOn
			}
		}
	}
	return mask
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewSAT(t *testing.T) {
	mask := createMask(10, 10, image.Rect(2, 2, 6, 6))

	sat, err := NewSAT(mask)
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}
	if sat.Bounds() != mask.Bounds() {
		t.Errorf("Bounds: got %v, want %v", sat.Bounds(), mask.Bounds())
	}
	if got := sat.Count(mask.Bounds()); got != 16 {
		t.Errorf("Count(full): got %d, want 16", got)
	}
}

func TestNewSAT_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		mask image.Image
	}{
		{"rgba image", image.NewRGBA(image.Rect(0, 0, 4, 4))},
		{"gray16 image", image.NewGray16(image.Rect(0, 0, 4, 4))},
		{"gray with mid value", func() image.Image {
			m := createMask(4, 4)
			m.Pix[5] = 128
			return m
		}()},
		{"gray with value 1", func() image.Image {
			m := createMask(4, 4)
			m.Pix[0] = 1
			return m
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSAT(tt.mask)
			if err == nil {
				t.Fatal("NewSAT should fail for non-binary mask")
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("error should wrap ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestSAT_FillRatio(t *testing.T) {
	// 4x4 block of on pixels at (2,2)-(6,6) in a 10x10 mask
	sat, err := NewSAT(createMask(10, 10, image.Rect(2, 2, 6, 6)))
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}

	tests := []struct {
		name string
		rect image.Rectangle
		want float64
	}{
		{"exactly the block", image.Rect(2, 2, 6, 6), 100},
		{"inside the block", image.Rect(3, 3, 5, 5), 100},
		{"fully outside", image.Rect(6, 6, 10, 10), 0},
		{"straddling top-left", image.Rect(0, 0, 4, 4), 25},
		{"straddling right edge", image.Rect(4, 2, 8, 6), 50},
		{"whole mask", image.Rect(0, 0, 10, 10), 16},
		{"single on pixel", image.Rect(2, 2, 3, 3), 100},
		{"single off pixel", image.Rect(0, 0, 1, 1), 0},
		{"empty rect", image.Rect(3, 3, 3, 3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sat.FillRatio(tt.rect)
			if !almostEqual(got, tt.want) {
				t.Errorf("FillRatio(%v): got %v, want %v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestSAT_FillRatioArea(t *testing.T) {
	sat, err := NewSAT(createMask(10, 10, image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}

	// 2x4 clipped window scored against a 4x4 nominal window
	if got := sat.FillRatioArea(image.Rect(8, 0, 10, 4), 16); !almostEqual(got, 50) {
		t.Errorf("FillRatioArea clipped: got %v, want 50", got)
	}
	if got := sat.FillRatioArea(image.Rect(0, 0, 4, 4), 16); !almostEqual(got, 100) {
		t.Errorf("FillRatioArea full: got %v, want 100", got)
	}
	if got := sat.FillRatioArea(image.Rect(0, 0, 4, 4), 0); got != 0 {
		t.Errorf("FillRatioArea zero area: got %v, want 0", got)
	}
}

func TestSAT_OutsideMask(t *testing.T) {
	sat, err := NewSAT(createMask(4, 4, image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}

	// Half of the rectangle lies beyond the right edge and counts as off.
	if got := sat.FillRatio(image.Rect(2, 0, 6, 4)); !almostEqual(got, 50) {
		t.Errorf("FillRatio partly outside: got %v, want 50", got)
	}
	if got := sat.Count(image.Rect(10, 10, 20, 20)); got != 0 {
		t.Errorf("Count fully outside: got %d, want 0", got)
	}
}

func TestSAT_NonZeroOrigin(t *testing.T) {
	full := createMask(20, 20, image.Rect(10, 10, 14, 14))
	sub := full.SubImage(image.Rect(8, 8, 16, 16)).(*image.Gray)

	sat, err := NewSAT(sub)
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}
	if got := sat.Count(image.Rect(10, 10, 14, 14)); got != 16 {
		t.Errorf("Count in mask coordinates: got %d, want 16", got)
	}
	if got := sat.FillRatio(image.Rect(8, 8, 12, 12)); !almostEqual(got, 25) {
		t.Errorf("FillRatio: got %v, want 25", got)
	}
}

func TestSAT_Unset(t *testing.T) {
	var zero SAT
	var nilSAT *SAT

	rects := []image.Rectangle{
		image.Rect(0, 0, 4, 4),
		image.Rect(5, 5, 100, 100),
		image.Rect(0, 0, 0, 0),
	}

	for _, r := range rects {
		if got := zero.FillRatio(r); got != 0 {
			t.Errorf("zero SAT FillRatio(%v): got %v, want 0", r, got)
		}
		if got := nilSAT.FillRatio(r); got != 0 {
			t.Errorf("nil SAT FillRatio(%v): got %v, want 0", r, got)
		}
		if got := nilSAT.FillRatioArea(r, 16); got != 0 {
			t.Errorf("nil SAT FillRatioArea(%v): got %v, want 0", r, got)
		}
	}
}

func TestSAT_MatchesBruteForce(t *testing.T) {
	mask := createMask(13, 9,
		image.Rect(1, 1, 4, 3),
		image.Rect(6, 0, 7, 9),
		image.Rect(9, 5, 13, 8),
	)
	sat, err := NewSAT(mask)
	if err != nil {
		t.Fatalf("NewSAT failed: %v", err)
	}

	for y1 := 0; y1 <= 9; y1 += 2 {
		for x1 := 0; x1 <= 13; x1 += 3 {
			for y2 := y1; y2 <= 9; y2 += 3 {
				for x2 := x1; x2 <= 13; x2 += 2 {
					r := image.Rect(x1, y1, x2, y2)
					want := 0
					for y := y1; y < y2; y++ {
						for x := x1; x < x2; x++ {
							if mask.GrayAt(x, y).Y == MaskOn {
								want++
							}
						}
					}
					if got := sat.Count(r); got != want {
						t.Errorf("Count(%v): got %d, want %d", r, got, want)
					}
				}
			}
		}
	}
}
