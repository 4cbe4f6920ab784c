package datasets

import (
	"image"
	"path/filepath"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

var (
	// ErrIndexOutOfRange is returned for accesses outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrShapeMismatch is returned when tensors that should share a shape don't.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// CaptionDataset pairs images stored in a folder with padded captions. Row i
// holds caption i, its length, and the file name of its image; an image with
// several captions appears in several rows.
//
// A CaptionDataset is immutable once built and can be read from several
// goroutines at once.
type CaptionDataset struct {
	// ImageFolder is where image files are looked up. The dataset does not
	// own its contents, and files are only checked when accessed.
	ImageFolder string

	captions  *PaddedCaptions
	filenames []string
	transform Transform
}

var _ Dataset = (*CaptionDataset)(nil)

// NewCaptionDataset creates a dataset over already padded captions.
// filenames[i] names the image of caption row i. transform may be nil, in
// which case Item returns the decoded image.Image.
func NewCaptionDataset(imageFolder string, captions *PaddedCaptions, filenames []string, transform Transform) (*CaptionDataset, error) {
	if captions == nil {
		return nil, errors.New("captions cannot be nil")
	}
	if len(captions.Lengths) != captions.Rows || len(filenames) != captions.Rows {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d caption rows, %d lengths and %d image names",
			captions.Rows, len(captions.Lengths), len(filenames))
	}
	if len(captions.Tokens) != captions.Rows*captions.Width {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d tokens for %d rows of width %d",
			len(captions.Tokens), captions.Rows, captions.Width)
	}
	for i, l := range captions.Lengths {
		if l < 0 || int(l) > captions.Width {
			return nil, errors.Errorf("caption %d has length %d, padded width is %d", i, l, captions.Width)
		}
	}
	// The dataset keeps its own copy so callers can't change it afterwards.
	owned := &PaddedCaptions{
		Tokens:  slices.Clone(captions.Tokens),
		Lengths: slices.Clone(captions.Lengths),
		Rows:    captions.Rows,
		Width:   captions.Width,
		Pad:     captions.Pad,
	}
	return &CaptionDataset{
		ImageFolder: imageFolder,
		captions:    owned,
		filenames:   slices.Clone(filenames),
		transform:   transform,
	}, nil
}

// Len returns the number of (image, caption) rows.
func (d *CaptionDataset) Len() int {
	return d.captions.Rows
}

// Width returns the padded caption width.
func (d *CaptionDataset) Width() int {
	return d.captions.Width
}

// Name returns the name of the dataset
func (d *CaptionDataset) Name() string {
	return "CaptionDataset"
}

func (d *CaptionDataset) checkIndex(idx int) error {
	if idx < 0 || idx >= d.captions.Rows {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", idx, d.captions.Rows)
	}
	return nil
}

// ImagePath returns the path of the image of row idx.
func (d *CaptionDataset) ImagePath(idx int) (string, error) {
	if err := d.checkIndex(idx); err != nil {
		return "", err
	}
	return filepath.Join(d.ImageFolder, d.filenames[idx]), nil
}

// Caption returns a copy of the padded caption of row idx and its length.
func (d *CaptionDataset) Caption(idx int) ([]int32, int, error) {
	if err := d.checkIndex(idx); err != nil {
		return nil, 0, err
	}
	return slices.Clone(d.captions.Row(idx)), int(d.captions.Lengths[idx]), nil
}

// Item decodes and transforms the image of row idx and returns it with its
// caption. The image is read from disk on every call.
func (d *CaptionDataset) Item(idx int) (Example, error) {
	imgPath, err := d.ImagePath(idx)
	if err != nil {
		return Example{}, err
	}
	img, err := decodeRGB(imgPath)
	if err != nil {
		return Example{}, err
	}

	var out any = img
	if d.transform != nil {
		out, err = d.transform.Apply(img)
		if err != nil {
			return Example{}, errors.WithMessagef(err, "transforming image %s", imgPath)
		}
	}

	return Example{
		Image:   out,
		Caption: slices.Clone(d.captions.Row(idx)),
		Length:  int(d.captions.Lengths[idx]),
	}, nil
}

// Batch reads the examples at the given indices, in order.
func (d *CaptionDataset) Batch(indices []int) ([]Example, error) {
	examples := make([]Example, len(indices))
	for i, idx := range indices {
		ex, err := d.Item(idx)
		if err != nil {
			return nil, err
		}
		examples[i] = ex
	}
	return examples, nil
}

// Tensors reads a batch of examples and returns them as gomlx tensors:
//
//   - images: float32 [batch, height, width, 3]. Transformed images must all
//     have the same shape; untransformed ones the same size.
//   - captions: int32 [batch, width].
//   - lengths: int32 [batch].
func (d *CaptionDataset) Tensors(indices []int) (images, captions, lengths *tensors.Tensor, err error) {
	if len(indices) == 0 {
		return nil, nil, nil, errors.New("Tensors called with no indices")
	}
	examples, err := d.Batch(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	images, err = stackImages(examples)
	if err != nil {
		return nil, nil, nil, err
	}
	gathered, err := d.captions.Gather(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	captions, lengths = gathered.ToGomlxTensors()
	return images, captions, lengths, nil
}

// stackImages stacks the examples' images along a new leading batch axis.
func stackImages(examples []Example) (*tensors.Tensor, error) {
	if _, ok := examples[0].Image.(image.Image); ok {
		imgs := make([]image.Image, len(examples))
		for i, ex := range examples {
			img, ok := ex.Image.(image.Image)
			if !ok {
				return nil, errors.Errorf("example %d has image of type %T, expected image.Image", i, ex.Image)
			}
			if i > 0 && !img.Bounds().Size().Eq(imgs[0].Bounds().Size()) {
				return nil, errors.Wrapf(ErrShapeMismatch, "image %d is %v, image 0 is %v",
					i, img.Bounds().Size(), imgs[0].Bounds().Size())
			}
			imgs[i] = img
		}
		return timage.ToTensor(dtypes.Float32).Batch(imgs), nil
	}

	var (
		dims []int
		flat []float32
	)
	for i, ex := range examples {
		t, err := asTensor("Tensors", ex.Image)
		if err != nil {
			return nil, errors.WithMessagef(err, "example %d", i)
		}
		shape := t.Shape()
		if shape.DType != dtypes.Float32 {
			return nil, errors.Errorf("example %d has dtype %s, expected float32", i, shape.DType)
		}
		if i == 0 {
			dims = slices.Clone(shape.Dimensions)
			flat = make([]float32, 0, len(examples)*shape.Size())
		} else if !slices.Equal(dims, shape.Dimensions) {
			return nil, errors.Wrapf(ErrShapeMismatch, "example %d has shape %v, example 0 has %v",
				i, shape.Dimensions, dims)
		}
		flat = append(flat, tensors.CopyFlatData[float32](t)...)
	}
	return tensors.FromFlatDataAndDimensions(flat, append([]int{len(examples)}, dims...)...), nil
}
