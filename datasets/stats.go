package datasets

import (
	"maps"
	"slices"
)

// CaptionStats summarizes the captions of a CaptionDataset.
type CaptionStats struct {
	Samples int
	Images  int // distinct image files
	Width   int

	MinLength  int
	MaxLength  int
	MeanLength float64

	// Histogram maps a caption length to the number of captions with it.
	Histogram map[int]int
}

// Stats computes CaptionStats. It only looks at captions; no image is read.
func (d *CaptionDataset) Stats() CaptionStats {
	stats := CaptionStats{
		Samples:   d.captions.Rows,
		Width:     d.captions.Width,
		Histogram: make(map[int]int),
	}
	if stats.Samples == 0 {
		return stats
	}

	images := make(map[string]struct{})
	for _, name := range d.filenames {
		images[name] = struct{}{}
	}
	stats.Images = len(images)

	stats.MinLength = int(d.captions.Lengths[0])
	total := 0
	for _, l := range d.captions.Lengths {
		length := int(l)
		stats.MinLength = min(stats.MinLength, length)
		stats.MaxLength = max(stats.MaxLength, length)
		stats.Histogram[length]++
		total += length
	}
	stats.MeanLength = float64(total) / float64(stats.Samples)
	return stats
}

// LengthValues expands the histogram back into one value per caption, sorted,
// which is the form plotting libraries expect.
func (s CaptionStats) LengthValues() []float64 {
	values := make([]float64, 0, s.Samples)
	for _, length := range slices.Sorted(maps.Keys(s.Histogram)) {
		for range s.Histogram[length] {
			values = append(values, float64(length))
		}
	}
	return values
}
