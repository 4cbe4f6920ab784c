package main

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/Noofbiz/imageCaption/datasets"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotLengths writes a histogram of caption lengths to outDir/caption_lengths.png
// and returns the file path.
func plotLengths(outDir string, stats datasets.CaptionStats) (string, error) {
	if stats.Samples == 0 {
		return "", errors.New("no captions to plot")
	}
	if err := ensureDir(outDir); err != nil {
		return "", errors.Wrapf(err, "creating %s", outDir)
	}

	p := plot.New()
	p.Title.Text = "Caption lengths"
	p.X.Label.Text = "tokens"
	p.Y.Label.Text = "captions"

	// One bin per length.
	bins := stats.MaxLength - stats.MinLength + 1
	h, err := plotter.NewHist(plotter.Values(stats.LengthValues()), bins)
	if err != nil {
		return "", errors.WithStack(err)
	}
	h.FillColor = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	p.Add(h)

	path := filepath.Join(outDir, "caption_lengths.png")
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "saving %s", path)
	}
	return path, nil
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
