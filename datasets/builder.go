package datasets

import (
	"k8s.io/klog/v2"
)

// BuildCaptionDataset flattens images and their captions into a
// CaptionDataset with one row per (image, caption) pair.
//
// Rows follow the order of ids, and for each id the order of its captions.
// Identifiers missing from captions, or with no captions, contribute no rows;
// this is not an error. Captions are padded with the vocabulary's PadToken
// index to the length of the longest caption emitted, and ErrNoPadToken is
// returned if the vocabulary lacks it.
//
// transform may be nil; see NewCaptionDataset.
func BuildCaptionDataset(ids []string, captions CaptionMap, vocab Vocabulary, imageFolder string, transform Transform) (*CaptionDataset, error) {
	pad, err := vocab.PadIndex()
	if err != nil {
		return nil, err
	}

	var (
		seqs      [][]int
		filenames []string
		skipped   int
	)
	for _, id := range ids {
		caps, ok := captions[id]
		if !ok || len(caps) == 0 {
			klog.V(2).Infof("BuildCaptionDataset: no captions for %q, skipping", id)
			skipped++
			continue
		}
		for _, seq := range caps {
			seqs = append(seqs, seq)
			filenames = append(filenames, id)
		}
	}

	padded, err := PadCaptions(seqs, pad)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		klog.V(1).Infof("BuildCaptionDataset: %d of %d identifiers have no captions", skipped, len(ids))
	}
	klog.V(1).Infof("BuildCaptionDataset: %d samples from %d identifiers, caption width %d",
		padded.Rows, len(ids)-skipped, padded.Width)
	return NewCaptionDataset(imageFolder, padded, filenames, transform)
}
