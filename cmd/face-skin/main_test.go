package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/object-finder-mcp/internal/imaging"
	"github.com/ironsheep/object-finder-mcp/internal/logging"
)

// skinTone is HSV(10, 24.8, 94.9), inside the "very high light" rule.
var skinTone = color.RGBA{242, 192, 182, 255}

func writeSkinFrame(t *testing.T, path string, square image.Rectangle) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if image.Pt(x, y).In(square) {
				c = skinTone
			}
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create frame: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode frame: %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"complete", []string{"-p", "img", "-d", "4", "-f", "1", "-t", "9", "-e", "png", "in"}, ""},
		{"missing from", []string{"-t", "9", "in"}, "-f"},
		{"missing to", []string{"-f", "1", "in"}, "-t"},
		{"missing input", []string{"-f", "1", "-t", "2"}, "missing"},
		{"two inputs", []string{"-f", "1", "-t", "2", "a", "b"}, "already set"},
		{"negative digits", []string{"-d", "-1", "-f", "1", "-t", "2", "in"}, "negative"},
		{"unknown flag", []string{"-x", "-f", "1", "-t", "2", "in"}, "not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions("face-skin", tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("parseOptions failed: %v", err)
				}
				if opts.inputDir != "in" {
					t.Errorf("inputDir: got %q", opts.inputDir)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseOptions_Backgrounds(t *testing.T) {
	opts, err := parseOptions("face-skin", []string{"-b", "bg1.png", "-f", "0", "-b", "bg2.png", "-t", "0", "in"})
	if err != nil {
		t.Fatalf("parseOptions failed: %v", err)
	}
	if len(opts.backgrounds) != 2 || opts.backgrounds[0] != "bg1.png" || opts.backgrounds[1] != "bg2.png" {
		t.Errorf("backgrounds: got %v", opts.backgrounds)
	}

	seq := opts.sequence()
	if seq.From != 0 || seq.To != 0 || seq.Dir != "in" {
		t.Errorf("sequence: got %+v", seq)
	}
}

func TestOptions_Print(t *testing.T) {
	opts := &options{
		inputDir:    "frames",
		extension:   "jpg",
		digits:      3,
		from:        5,
		to:          7,
		backgrounds: stringList{"a.jpg", "b.jpg"},
	}
	var buf bytes.Buffer
	opts.print(&buf)
	out := buf.String()

	for _, want := range []string{
		"Input directory: frames\n",
		"Allowed extension: jpg\n",
		"Number of digits: 3\n",
		"File range start: 5\n",
		"File range to: 7\n",
		"Background to remove: a.jpg\n",
		"                      b.jpg\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIsSkin(t *testing.T) {
	tests := []struct {
		name string
		c    imaging.HSVColor
		want bool
	}{
		{"bright skin", imaging.ToHSV(skinTone), true},
		{"shadow", imaging.HSVColor{H: 18, S: 11, V: 50}, false},
		{"blue", imaging.ToHSV(color.RGBA{0, 0, 255, 255}), false},
		{"black", imaging.HSVColor{}, false},
		{"value not above saturation", imaging.HSVColor{H: 12, S: 40, V: 40}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSkin(tt.c); got != tt.want {
				t.Errorf("isSkin(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestIsSkin_RuleCentres(t *testing.T) {
	for _, r := range skinRules {
		t.Run(r.name, func(t *testing.T) {
			s := r.scope
			hue := (s.HueMin + s.HueMax) / 2
			if s.HueMin > s.HueMax {
				hue = s.HueMin + (360-s.HueMin+s.HueMax)/2
				if hue >= 360 {
					hue -= 360
				}
			}
			c := imaging.HSVColor{H: hue, S: (s.SatMin + s.SatMax) / 2, V: (s.ValMin + s.ValMax) / 2}
			if !isSkin(c) {
				t.Errorf("centre %+v of %q is not skin", c, r.name)
			}
		})
	}
}

func TestRun(t *testing.T) {
	t.Setenv("ODF_CONFIG", "")
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "annotated")
	writeSkinFrame(t, filepath.Join(in, "f01.png"), image.Rect(15, 15, 45, 45))
	writeSkinFrame(t, filepath.Join(in, "f02.png"), image.Rectangle{})

	var stdout, stderr bytes.Buffer
	args := []string{"face-skin", "-p", "f", "-d", "2", "-e", "png", "-f", "1", "-t", "3", "-o", out, in}
	if code := run(context.Background(), args, &stdout, &stderr, logging.Discard()); code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	got := stdout.String()
	for _, want := range []string{
		"Processing f01.png... found 1 faces\n",
		"Processing f02.png... found 0 faces\n",
		"Processing f03.png... unable to open image\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "f01.png")); err != nil {
		t.Errorf("annotated frame not written: %v", err)
	}
}

func TestRun_BadArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"face-skin", "in"}, &stdout, &stderr, logging.Discard()); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("usage not printed:\n%s", stderr.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"face-skin", "-h"}, &stdout, &stderr, logging.Discard()); code != 0 {
		t.Errorf("-h exit code: got %d, want 0", code)
	}
}

func TestRun_MissingBackground(t *testing.T) {
	t.Setenv("ODF_CONFIG", "")
	var stdout, stderr bytes.Buffer
	args := []string{"face-skin", "-f", "1", "-t", "1", "-b", filepath.Join(t.TempDir(), "none.png"), t.TempDir()}
	if code := run(context.Background(), args, &stdout, &stderr, logging.Discard()); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
}
