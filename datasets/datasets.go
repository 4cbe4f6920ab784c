package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package builds image-caption datasets for training captioning models.
//
// The datasets are lazy on the image side: captions and lengths are padded
// and held in memory when the dataset is built, while images are only decoded
// (and transformed) when an example is requested. Nothing decoded is cached,
// so each access pays the decode cost again; random transforms therefore
// produce a fresh augmentation per access.
//
// Layout and intended usage:
//
//	ids, _ := LoadSplitIDs("splits/train.txt")
//	caps, _ := LoadCaptions("captions.json")
//	vocab, _ := LoadVocabulary("vocab.json")
//	ds, _ := BuildCaptionDataset(ids, caps, vocab, "images/", GetTransforms(ModeTrain))
//	ex, _ := ds.Item(0) // ex.Image is a [224, 224, 3] float32 tensor
//
// Batching and shuffling policies are left to the caller: Batch and Tensors
// collate whatever indices they are given.

// Dataset is implemented by CaptionDataset. Training code should depend on it
// rather than the concrete type.
type Dataset interface {
	Len() int
	Item(idx int) (Example, error)
	Batch(indices []int) ([]Example, error)

	// Tensors collates the given indices into gomlx tensors: images,
	// padded captions and caption lengths.
	Tensors(indices []int) (images, captions, lengths *tensors.Tensor, err error)
	Name() string
}

// Example is one training unit: an image, one of its captions and the true
// length of that caption.
type Example struct {
	// Image is the output of the dataset's transform. With the pipelines from
	// GetTransforms it is a *tensors.Tensor shaped [height, width, 3]; without
	// a transform it is the decoded image.Image.
	Image any

	// Caption is the padded caption row. It is a copy, callers may modify it.
	Caption []int32

	// Length is the number of tokens in Caption before padding.
	Length int
}
