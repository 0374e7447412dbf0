package imaging

import (
	"errors"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
)

var (
	sceneGray  = color.RGBA{50, 50, 50, 255}
	objectGray = color.RGBA{200, 200, 200, 255}
)

// createFrame draws a bright 12x12 object and a one pixel speck on the scene.
func createFrame() *image.RGBA {
	frame := createInMemoryImage(40, 40, sceneGray)
	paintRect(frame, image.Rect(10, 10, 22, 22), objectGray)
	frame.Set(2, 2, objectGray)
	return frame
}

func TestNewBackgroundModel(t *testing.T) {
	if _, err := NewBackgroundModel(); !errors.Is(err, ErrNoBackground) {
		t.Errorf("empty model: got %v, want ErrNoBackground", err)
	}

	_, err := NewBackgroundModel(
		createInMemoryImage(10, 10, sceneGray),
		createInMemoryImage(12, 10, sceneGray),
	)
	if err == nil {
		t.Error("backgrounds of different sizes should be rejected")
	}

	m, err := NewBackgroundModel(createInMemoryImage(10, 10, sceneGray))
	if err != nil {
		t.Fatalf("NewBackgroundModel failed: %v", err)
	}
	if m.Len() != 1 || m.Level != DefaultDiffLevel || m.Radius != DefaultOpenRadius {
		t.Errorf("defaults: Len=%d Level=%d Radius=%v", m.Len(), m.Level, m.Radius)
	}
}

func TestBackgroundModel_ForegroundMask(t *testing.T) {
	m, err := NewBackgroundModel(createInMemoryImage(40, 40, sceneGray))
	if err != nil {
		t.Fatalf("NewBackgroundModel failed: %v", err)
	}

	mask, err := m.ForegroundMask(createFrame())
	if err != nil {
		t.Fatalf("ForegroundMask failed: %v", err)
	}
	if mask.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Errorf("Bounds: got %v", mask.Bounds())
	}
	if mask.GrayAt(16, 16).Y != detection.MaskOn {
		t.Error("object centre should be foreground")
	}
	if mask.GrayAt(2, 2).Y != detection.MaskOff {
		t.Error("single pixel speck should be removed by the opening")
	}
	if mask.GrayAt(32, 32).Y != detection.MaskOff {
		t.Error("unchanged scene should be background")
	}
	if _, err := detection.NewSAT(mask); err != nil {
		t.Errorf("foreground mask is not a valid detection mask: %v", err)
	}
}

func TestBackgroundModel_NoOpening(t *testing.T) {
	m, err := NewBackgroundModel(createInMemoryImage(40, 40, sceneGray))
	if err != nil {
		t.Fatalf("NewBackgroundModel failed: %v", err)
	}
	m.Radius = 0

	mask, err := m.ForegroundMask(createFrame())
	if err != nil {
		t.Fatalf("ForegroundMask failed: %v", err)
	}
	if mask.GrayAt(2, 2).Y != detection.MaskOn {
		t.Error("speck should survive without the opening")
	}
	if got := countOn(mask); got != 145 {
		t.Errorf("on pixels: got %d, want 145", got)
	}
}

func TestBackgroundModel_AllBackgroundsMustDiffer(t *testing.T) {
	// The second background already contains the object, e.g. a shot taken
	// under different light with something left in view.
	withObject := createInMemoryImage(40, 40, sceneGray)
	paintRect(withObject, image.Rect(10, 10, 22, 22), objectGray)

	m, err := NewBackgroundModel(createInMemoryImage(40, 40, sceneGray), withObject)
	if err != nil {
		t.Fatalf("NewBackgroundModel failed: %v", err)
	}

	mask, err := m.ForegroundMask(createFrame())
	if err != nil {
		t.Fatalf("ForegroundMask failed: %v", err)
	}
	if mask.GrayAt(16, 16).Y != detection.MaskOff {
		t.Error("pixel matching one background should not be foreground")
	}
}

func TestBackgroundModel_SizeMismatch(t *testing.T) {
	m, err := NewBackgroundModel(createInMemoryImage(40, 40, sceneGray))
	if err != nil {
		t.Fatalf("NewBackgroundModel failed: %v", err)
	}
	if _, err := m.ForegroundMask(createInMemoryImage(20, 20, sceneGray)); err == nil {
		t.Error("ForegroundMask should reject a frame of a different size")
	}
}

func TestLoadBackgroundModel(t *testing.T) {
	cache := NewImageCache(4)
	bgPath := createTestImage(t, 40, 40, sceneGray)
	defer os.Remove(bgPath)

	m, err := LoadBackgroundModel(cache, bgPath)
	if err != nil {
		t.Fatalf("LoadBackgroundModel failed: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len: got %d, want 1", m.Len())
	}

	if _, err := LoadBackgroundModel(cache, bgPath, "/nonexistent/bg.png"); err == nil {
		t.Error("LoadBackgroundModel should fail for a missing background")
	}
}
