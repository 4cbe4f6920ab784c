package datasets

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeLines writes lines joined by "\n" to path.
func writeLines(t *testing.T, path string, lines []string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// writeJSON encodes v as JSON into path.
func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// solidImage returns a width x height image filled with c.
func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, c)
		}
	}
	return img
}

// halvesImage returns an image black on the left half and white on the right.
func halvesImage(width, height int) *image.NRGBA {
	img := solidImage(width, height, color.Black)
	for y := range height {
		for x := width / 2; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// writePNG saves img as a PNG file at dir/name.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}

var red = color.NRGBA{R: 255, A: 255}

// testVocab has the pad token at index 0.
func testVocab() Vocabulary {
	return Vocabulary{PadToken: 0, "<start>": 1, "a": 2, "dog": 3, "<end>": 4}
}
