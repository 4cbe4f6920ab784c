package datasets

import (
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Modes accepted by GetTransforms. Anything other than ModeTrain is treated
// as ModeEval.
const (
	ModeTrain = "train"
	ModeEval  = "eval"
)

// ImageNet statistics used to normalize the tensors.
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Transform is one preprocessing step. Image steps take and return an
// image.Image, ToTensor turns an image into a *tensors.Tensor and tensor
// steps take and return a *tensors.Tensor.
//
// Implementations must be safe for concurrent use.
type Transform interface {
	Apply(x any) (any, error)
	String() string
}

// GetTransforms returns the preprocessing pipeline for mode:
//
//   - train: Resize(256x256), RandomCrop(224), RandomHorizontalFlip(0.5),
//     ToTensor, Normalize(ImageNet).
//   - eval (anything else): Resize(224x224), ToTensor, Normalize(ImageNet).
//
// Both produce float32 tensors shaped [224, 224, 3].
func GetTransforms(mode string) Compose {
	if mode == ModeTrain {
		return Compose{
			Resize{Width: 256, Height: 256},
			NewRandomCrop(224),
			NewRandomHorizontalFlip(0.5),
			ToTensor{},
			Normalize{Mean: ImageNetMean, Std: ImageNetStd},
		}
	}
	return Compose{
		Resize{Width: 224, Height: 224},
		ToTensor{},
		Normalize{Mean: ImageNetMean, Std: ImageNetStd},
	}
}

// Compose applies its transforms in order, stopping at the first error.
type Compose []Transform

func (c Compose) Apply(x any) (any, error) {
	var err error
	for _, t := range c {
		x, err = t.Apply(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

func (c Compose) String() string {
	parts := make([]string, len(c))
	for i, t := range c {
		parts[i] = t.String()
	}
	return "Compose(" + strings.Join(parts, ", ") + ")"
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc struct {
	Name string
	Fn   func(x any) (any, error)
}

func (f TransformFunc) Apply(x any) (any, error) { return f.Fn(x) }
func (f TransformFunc) String() string           { return f.Name }

func asImage(op string, x any) (image.Image, error) {
	img, ok := x.(image.Image)
	if !ok {
		return nil, errors.Errorf("%s: expected image.Image, got %T", op, x)
	}
	return img, nil
}

func asTensor(op string, x any) (*tensors.Tensor, error) {
	t, ok := x.(*tensors.Tensor)
	if !ok {
		return nil, errors.Errorf("%s: expected *tensors.Tensor, got %T", op, x)
	}
	return t, nil
}

// Resize scales an image to exactly Width x Height with bilinear
// interpolation, ignoring the aspect ratio.
type Resize struct {
	Width, Height int
}

func (r Resize) Apply(x any) (any, error) {
	img, err := asImage("Resize", x)
	if err != nil {
		return nil, err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, errors.Errorf("Resize: invalid size %dx%d", r.Width, r.Height)
	}
	return imaging.Resize(img, r.Width, r.Height, imaging.Linear), nil
}

func (r Resize) String() string { return fmt.Sprintf("Resize(%dx%d)", r.Width, r.Height) }

// lockedRand serializes access to a *rand.Rand. A nil *lockedRand uses the
// global source of math/rand/v2.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	if l == nil {
		return rand.IntN(n)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	if l == nil {
		return rand.Float64()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// RandomCrop cuts a Size x Size square at a uniformly random position.
type RandomCrop struct {
	Size int
	rng  *lockedRand
}

// NewRandomCrop returns a RandomCrop using the global random source.
func NewRandomCrop(size int) *RandomCrop {
	return &RandomCrop{Size: size}
}

// WithRand makes the crop draw positions from rng. Returns itself.
func (c *RandomCrop) WithRand(rng *rand.Rand) *RandomCrop {
	c.rng = &lockedRand{rng: rng}
	return c
}

func (c *RandomCrop) Apply(x any) (any, error) {
	img, err := asImage("RandomCrop", x)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < c.Size || h < c.Size {
		return nil, errors.Errorf("RandomCrop: crop size %d larger than image %dx%d", c.Size, w, h)
	}
	x0 := bounds.Min.X + c.rng.IntN(w-c.Size+1)
	y0 := bounds.Min.Y + c.rng.IntN(h-c.Size+1)
	return imaging.Crop(img, image.Rect(x0, y0, x0+c.Size, y0+c.Size)), nil
}

func (c *RandomCrop) String() string { return fmt.Sprintf("RandomCrop(%d)", c.Size) }

// RandomHorizontalFlip mirrors the image left to right with probability P.
type RandomHorizontalFlip struct {
	P   float64
	rng *lockedRand
}

// NewRandomHorizontalFlip returns a flip using the global random source.
func NewRandomHorizontalFlip(p float64) *RandomHorizontalFlip {
	return &RandomHorizontalFlip{P: p}
}

// WithRand makes the flip draw from rng. Returns itself.
func (f *RandomHorizontalFlip) WithRand(rng *rand.Rand) *RandomHorizontalFlip {
	f.rng = &lockedRand{rng: rng}
	return f
}

func (f *RandomHorizontalFlip) Apply(x any) (any, error) {
	img, err := asImage("RandomHorizontalFlip", x)
	if err != nil {
		return nil, err
	}
	if f.rng.Float64() < f.P {
		return imaging.FlipH(img), nil
	}
	return img, nil
}

func (f *RandomHorizontalFlip) String() string {
	return fmt.Sprintf("RandomHorizontalFlip(p=%g)", f.P)
}

// ToTensor converts an image to a float32 tensor shaped [height, width, 3]
// with values in [0, 1]. Alpha is dropped. Images whose bounds don't start at
// (0, 0), like a SubImage, are copied to a 0-origin image first.
type ToTensor struct{}

func (ToTensor) Apply(x any) (any, error) {
	img, err := asImage("ToTensor", x)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	return timage.ToTensor(dtypes.Float32).Single(img), nil
}

func (ToTensor) String() string { return "ToTensor" }

// Normalize returns a new tensor with (x - Mean[c]) / Std[c] applied on the
// last (channels) axis. The input must be float32 with 3 channels.
type Normalize struct {
	Mean, Std [3]float32
}

func (n Normalize) Apply(x any) (any, error) {
	t, err := asTensor("Normalize", x)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	if shape.DType != dtypes.Float32 {
		return nil, errors.Errorf("Normalize: expected float32 tensor, got %s", shape.DType)
	}
	dims := shape.Dimensions
	if len(dims) == 0 || dims[len(dims)-1] != len(n.Mean) {
		return nil, errors.Wrapf(ErrShapeMismatch, "Normalize: expected %d channels on the last axis, got shape %v",
			len(n.Mean), dims)
	}
	for c, std := range n.Std {
		if std == 0 {
			return nil, errors.Errorf("Normalize: std of channel %d is zero", c)
		}
	}

	flat := tensors.CopyFlatData[float32](t)
	numChannels := len(n.Mean)
	for i := range flat {
		c := i % numChannels
		flat[i] = (flat[i] - n.Mean[c]) / n.Std[c]
	}
	return tensors.FromFlatDataAndDimensions(flat, dims...), nil
}

func (n Normalize) String() string {
	return fmt.Sprintf("Normalize(mean=%v, std=%v)", n.Mean, n.Std)
}
