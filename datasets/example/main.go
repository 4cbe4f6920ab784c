package main

// Example command that builds a CaptionDataset from a split file, a captions
// file and a vocabulary, then collates a small batch into gomlx tensors.
//
// Images are read lazily: building the dataset only touches the caption and
// split files, and image files are decoded when a batch asks for them.
//
// Usage:
//   go run ./datasets/example -data ../assets/flickr8k
//
// The data directory is expected to hold images/, splits/train.txt,
// captions.json and vocab.json.

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/imageCaption/datasets"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	dataDir := flag.String("data", "../assets/flickr8k", "directory with images/, splits/, captions.json and vocab.json")
	split := flag.String("split", datasets.ModeTrain, "split to load")
	batchSize := flag.Int("batch", 4, "number of samples to collate")
	flag.Parse()
	defer klog.Flush()

	splitPath := must.M1(datasets.FindSplitFile(filepath.Join(*dataDir, "splits"), *split))
	ids := must.M1(datasets.LoadSplitIDs(splitPath))
	captions := must.M1(datasets.LoadCaptions(filepath.Join(*dataDir, "captions.json")))
	vocab := must.M1(datasets.LoadVocabulary(filepath.Join(*dataDir, "vocab.json")))
	fmt.Printf("Using split file: %s (%d identifiers)\n", splitPath, len(ids))

	ds := must.M1(datasets.BuildCaptionDataset(ids, captions, vocab,
		filepath.Join(*dataDir, "images"), datasets.GetTransforms(*split)))
	fmt.Printf("Total caption samples available: %d (caption width %d)\n", ds.Len(), ds.Width())

	n := min(*batchSize, ds.Len())
	if n == 0 {
		return
	}
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}

	fmt.Printf("Loading batch of %d samples...\n", n)
	images, caps, lengths := must.M3(ds.Tensors(indices))
	fmt.Printf("  Images:   %s\n", images.Shape())
	fmt.Printf("  Captions: %s\n", caps.Shape())
	fmt.Printf("  Lengths:  %v\n", lengths.Value())

	row, length := must.M2(ds.Caption(0))
	fmt.Printf("  First caption: %s\n", strings.Join(vocab.Tokens(row, length), " "))
}
