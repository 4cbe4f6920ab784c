package datasets

import (
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// PaddedCaptions stores captions padded to a common width in a flat,
// row-major buffer, along with the true length of each caption.
type PaddedCaptions struct {
	Tokens  []int32
	Lengths []int32
	Rows    int
	Width   int
	Pad     int32
}

// PadCaptions pads every sequence with pad up to the length of the longest
// one. Lengths are recorded before padding.
func PadCaptions(seqs [][]int, pad int) (*PaddedCaptions, error) {
	if pad < math.MinInt32 || pad > math.MaxInt32 {
		return nil, errors.Errorf("pad index %d does not fit in int32", pad)
	}
	width := 0
	for _, seq := range seqs {
		width = max(width, len(seq))
	}

	rows := len(seqs)
	flat := make([]int32, rows*width)
	lengths := make([]int32, rows)
	for i, seq := range seqs {
		row := flat[i*width : (i+1)*width]
		for j, tok := range seq {
			if tok < math.MinInt32 || tok > math.MaxInt32 {
				return nil, errors.Errorf("token %d at caption %d position %d does not fit in int32", tok, i, j)
			}
			row[j] = int32(tok)
		}
		for j := len(seq); j < width; j++ {
			row[j] = int32(pad)
		}
		lengths[i] = int32(len(seq))
	}

	return &PaddedCaptions{
		Tokens:  flat,
		Lengths: lengths,
		Rows:    rows,
		Width:   width,
		Pad:     int32(pad),
	}, nil
}

// Row returns a view of caption i. It shares memory with p.
func (p *PaddedCaptions) Row(i int) []int32 {
	return p.Tokens[i*p.Width : (i+1)*p.Width]
}

// Gather copies the given rows into a new PaddedCaptions of the same width.
func (p *PaddedCaptions) Gather(indices []int) (*PaddedCaptions, error) {
	out := &PaddedCaptions{
		Tokens:  make([]int32, len(indices)*p.Width),
		Lengths: make([]int32, len(indices)),
		Rows:    len(indices),
		Width:   p.Width,
		Pad:     p.Pad,
	}
	for i, idx := range indices {
		if idx < 0 || idx >= p.Rows {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "caption %d not in [0, %d)", idx, p.Rows)
		}
		copy(out.Tokens[i*p.Width:], p.Row(idx))
		out.Lengths[i] = p.Lengths[idx]
	}
	return out, nil
}

// ToGomlxTensors converts the captions to gomlx tensors shaped [rows, width]
// and [rows], both int32.
func (p *PaddedCaptions) ToGomlxTensors() (captions *tensors.Tensor, lengths *tensors.Tensor) {
	captions = tensors.FromFlatDataAndDimensions(p.Tokens, p.Rows, p.Width)
	lengths = tensors.FromFlatDataAndDimensions(p.Lengths, p.Rows)
	return captions, lengths
}
