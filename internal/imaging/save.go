package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ExpandPattern fills an output name pattern for the image loaded from src.
//
//	%n  file name of src
//	%p  directory of src ("" when src has none)
//	%%  a literal percent sign
//
// Any other escape is kept as written.
func ExpandPattern(pattern, src string) string {
	dir, name := filepath.Split(src)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))

	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i+1 == len(pattern) {
			b.WriteByte(pattern[i])
			continue
		}
		switch pattern[i+1] {
		case 'n':
			b.WriteString(name)
		case 'p':
			b.WriteString(dir)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(pattern[i+1])
		}
		i++
	}
	return b.String()
}

// SaveImage writes img to the path produced by ExpandPattern(pattern, src),
// creating the parent directory if needed. The format follows the extension
// of the expanded path. The written path is returned.
func SaveImage(img image.Image, pattern, src string) (string, error) {
	out := ExpandPattern(pattern, src)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return out, nil
}
