// Command captions loads an image-caption split, reports statistics about its
// captions and optionally checks that every image decodes through the
// transform pipeline.
//
// Usage:
//
//	go run ./cmd/captions -config captions.yaml -split val -verify -plot-dir plots
//
// Settings come from the config file (see package config), then CAPTIONS_*
// environment variables, then the flags below, each overriding the previous.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/imageCaption/config"
	"github.com/Noofbiz/imageCaption/datasets"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML config file (default ./captions.yaml if present)")
	imageFolder := flag.String("images", "", "directory holding the image files")
	splitFile := flag.String("split-file", "", "file with one image identifier per line; takes precedence over -split-dir/-split")
	splitDir := flag.String("split-dir", "", "directory searched for the split file")
	split := flag.String("split", "", "split name, e.g. train, val or test")
	captionsFile := flag.String("captions", "", "captions file (.json or .csv)")
	vocabFile := flag.String("vocab", "", "vocabulary JSON file")
	mode := flag.String("mode", "", "transform mode: train or eval")
	plotDir := flag.String("plot-dir", "", "if set, write a caption length histogram into this directory")
	preview := flag.Int("preview", -1, "number of decoded captions to print")
	verify := flag.Bool("verify", false, "decode and transform every sample, reporting failures")
	workers := flag.Int("workers", -1, "number of goroutines used by -verify (0 = NumCPU)")
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		klog.Fatalf("%+v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "images":
			cfg.Data.ImageFolder = *imageFolder
		case "split-file":
			cfg.Data.SplitFile = *splitFile
		case "split-dir":
			cfg.Data.SplitDir = *splitDir
		case "split":
			cfg.Data.Split = *split
		case "captions":
			cfg.Data.CaptionsFile = *captionsFile
		case "vocab":
			cfg.Data.VocabFile = *vocabFile
		case "mode":
			cfg.Data.Mode = *mode
		case "plot-dir":
			cfg.Output.PlotDir = *plotDir
		case "preview":
			cfg.Output.Preview = *preview
		case "verify":
			cfg.Output.Verify = *verify
		case "workers":
			cfg.Output.Workers = *workers
		}
	})

	if err := run(cfg); err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ds, vocab, err := loadDataset(cfg.Data)
	if err != nil {
		return err
	}

	stats := ds.Stats()
	fmt.Printf("Split %q: %s samples over %s images, caption width %d\n",
		cfg.Data.Split, humanize.Comma(int64(stats.Samples)), humanize.Comma(int64(stats.Images)), stats.Width)
	if stats.Samples > 0 {
		fmt.Printf("Caption length: min %d, max %d, mean %.2f\n", stats.MinLength, stats.MaxLength, stats.MeanLength)
	}

	printPreview(ds, vocab, cfg.Output.Preview)

	if cfg.Output.PlotDir != "" {
		path, err := plotLengths(cfg.Output.PlotDir, stats)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if cfg.Output.Verify {
		failures := verifySamples(ds, cfg.Output.Workers)
		for _, f := range failures {
			klog.Errorf("sample %d: %v", f.Index, f.Err)
		}
		fmt.Printf("Verified %s samples, %d failures\n", humanize.Comma(int64(ds.Len())), len(failures))
		if len(failures) > 0 {
			return errors.Errorf("%d of %d samples failed to load", len(failures), ds.Len())
		}
	}
	return nil
}

// loadDataset reads the split, captions and vocabulary named by cfg.
func loadDataset(cfg config.DataConfig) (*datasets.CaptionDataset, datasets.Vocabulary, error) {
	splitPath := cfg.SplitFile
	if splitPath == "" {
		var err error
		splitPath, err = datasets.FindSplitFile(cfg.SplitDir, cfg.Split)
		if err != nil {
			return nil, nil, err
		}
	}
	klog.V(1).Infof("split file: %s", splitPath)

	ids, err := datasets.LoadSplitIDs(splitPath)
	if err != nil {
		return nil, nil, err
	}
	captions, err := datasets.LoadCaptions(cfg.CaptionsFile)
	if err != nil {
		return nil, nil, err
	}
	vocab, err := datasets.LoadVocabulary(cfg.VocabFile)
	if err != nil {
		return nil, nil, err
	}
	ds, err := datasets.BuildCaptionDataset(ids, captions, vocab, cfg.ImageFolder, datasets.GetTransforms(cfg.Mode))
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "building dataset from %s", filepath.Base(splitPath))
	}
	return ds, vocab, nil
}

func printPreview(ds *datasets.CaptionDataset, vocab datasets.Vocabulary, n int) {
	n = min(n, ds.Len())
	for i := range n {
		row, length, err := ds.Caption(i)
		if err != nil {
			continue
		}
		path, _ := ds.ImagePath(i)
		fmt.Printf("  [%d] %s: %s\n", i, filepath.Base(path), strings.Join(vocab.Tokens(row, length), " "))
	}
}
