package imaging

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Sequence describes numbered frames such as dir/cam0007_left.png.
type Sequence struct {
	Dir       string `json:"dir"`
	Extension string `json:"extension"`
	Prefix    string `json:"prefix,omitempty"`
	Suffix    string `json:"suffix,omitempty"`

	// Digits zero-pads frame numbers to this width; 0 disables padding.
	Digits int `json:"digits,omitempty"`

	// From and To bound the frame numbers, both inclusive.
	From int `json:"from"`
	To   int `json:"to"`
}

// Paths lists the frame paths in ascending order. It is empty when To < From.
// The files are not checked for existence.
func (s Sequence) Paths() []string {
	if s.To < s.From {
		return nil
	}
	paths := make([]string, 0, s.To-s.From+1)
	for i := s.From; i <= s.To; i++ {
		name := fmt.Sprintf("%s%0*d%s", s.Prefix, max(s.Digits, 0), i, s.Suffix)
		if s.Extension != "" {
			name += "." + s.Extension
		}
		if s.Dir != "" {
			name = filepath.Join(s.Dir, name)
		}
		paths = append(paths, name)
	}
	return paths
}

// RunSequence calls fn for every path in order. A failing frame does not stop
// the run; all errors are joined into the result.
func RunSequence(paths []string, fn func(path string) error) error {
	var errs []error
	for _, p := range paths {
		if err := fn(p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
