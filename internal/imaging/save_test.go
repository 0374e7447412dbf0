package imaging

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPattern(t *testing.T) {
	src := filepath.Join("frames", "cam", "0007.png")
	dir := filepath.Join("frames", "cam")

	tests := []struct {
		pattern string
		want    string
	}{
		{"out/%n", "out/0007.png"},
		{"%p/annotated-%n", dir + "/annotated-0007.png"},
		{"100%%-%n", "100%-0007.png"},
		{"%x%n", "%x0007.png"},
		{"trailing%", "trailing%"},
		{"plain.png", "plain.png"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := ExpandPattern(tt.pattern, src); got != tt.want {
				t.Errorf("ExpandPattern(%q): got %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}

	if got := ExpandPattern("[%p]%n", "frame.png"); got != "[]frame.png" {
		t.Errorf("source without directory: got %q", got)
	}
}

func TestSaveImage(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "annotated")
	img := createInMemoryImage(8, 8, color.RGBA{255, 0, 0, 255})

	written, err := SaveImage(img, outDir+"/%n", "/some/input/frame01.png")
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if want := filepath.Join(outDir, "frame01.png"); written != want {
		t.Errorf("written path: got %q, want %q", written, want)
	}

	cache := NewImageCache(1)
	loaded, err := cache.Load(written)
	if err != nil {
		t.Fatalf("saved image cannot be loaded: %v", err)
	}
	if loaded.Bounds().Dx() != 8 {
		t.Errorf("saved width: got %d, want 8", loaded.Bounds().Dx())
	}
}

func TestSaveImage_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	img := createInMemoryImage(4, 4, color.White)

	if _, err := SaveImage(img, filepath.Join(dir, "%n"), "frame.unknown"); err == nil {
		t.Error("SaveImage should fail for an unsupported extension")
	}
	if _, err := os.Stat(filepath.Join(dir, "frame.unknown")); err == nil {
		t.Error("no file should be written for an unsupported extension")
	}
}
