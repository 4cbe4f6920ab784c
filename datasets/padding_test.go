package datasets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadCaptions(t *testing.T) {
	const pad = 9
	p, err := PadCaptions([][]int{{1, 2}, {1, 2, 3}, {4}, {}}, pad)
	require.NoError(t, err)

	assert.Equal(t, 4, p.Rows)
	assert.Equal(t, 3, p.Width)
	assert.Equal(t, []int32{2, 3, 1, 0}, p.Lengths)
	assert.Equal(t, []int32{1, 2, pad}, p.Row(0))
	assert.Equal(t, []int32{1, 2, 3}, p.Row(1))
	assert.Equal(t, []int32{4, pad, pad}, p.Row(2))
	assert.Equal(t, []int32{pad, pad, pad}, p.Row(3))

	for i := range p.Rows {
		require.LessOrEqual(t, int(p.Lengths[i]), p.Width)
		for j := int(p.Lengths[i]); j < p.Width; j++ {
			assert.Equal(t, int32(pad), p.Row(i)[j], "row %d position %d", i, j)
		}
	}
}

func TestPadCaptions_Empty(t *testing.T) {
	p, err := PadCaptions(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Rows)
	assert.Equal(t, 0, p.Width)
	assert.Empty(t, p.Tokens)
}

func TestPadCaptions_Overflow(t *testing.T) {
	_, err := PadCaptions([][]int{{1, math.MaxInt32 + 1}}, 0)
	assert.Error(t, err)
}

func TestPaddedCaptions_GatherAndTensors(t *testing.T) {
	p, err := PadCaptions([][]int{{1, 2}, {1, 2, 3}, {4}}, 0)
	require.NoError(t, err)

	g, err := p.Gather([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 0, 0, 1, 2, 0}, g.Tokens)
	assert.Equal(t, []int32{1, 2}, g.Lengths)

	captions, lengths := g.ToGomlxTensors()
	assert.Equal(t, []int{2, 3}, captions.Shape().Dimensions)
	assert.Equal(t, [][]int32{{4, 0, 0}, {1, 2, 0}}, captions.Value())
	assert.Equal(t, []int32{1, 2}, lengths.Value())

	_, err = p.Gather([]int{3})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
