package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/fenics-sim/fenics/pkg/dataset"
	"github.com/fenics-sim/fenics/pkg/loader"
)

func TestLoaderBatching(t *testing.T) {
	ds := dataset.Synthetic(100, 10)

	cases := []struct {
		desc      string
		indices   []int
		batchSize int
		batches   int
		lastLen   int
		err       bool
	}{
		{
			desc:      "exact batches",
			indices:   []int{0, 1, 2, 3, 4, 5},
			batchSize: 3,
			batches:   2,
			lastLen:   3,
		},
		{
			desc:      "short last batch",
			indices:   []int{0, 1, 2, 3, 4},
			batchSize: 2,
			batches:   3,
			lastLen:   1,
		},
		{
			desc:      "empty view",
			indices:   nil,
			batchSize: 4,
			batches:   0,
		},
		{
			desc:      "invalid batch size",
			indices:   []int{0, 1},
			batchSize: 0,
			err:       true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			l, err := loader.New(ds, tc.indices, tc.batchSize)
			if tc.err {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)

			assert.Equal(t, len(tc.indices), l.Len())
			assert.Equal(t, tc.batches, l.Batches())

			if tc.batches > 0 {
				last, err := l.Batch(tc.batches - 1)
				require.NoError(t, err)
				assert.Len(t, last.Indices, tc.lastLen)
				assert.Len(t, last.Labels, tc.lastLen)
			}

			_, err = l.Batch(tc.batches)
			assert.Error(t, err)
		})
	}
}

func TestLoaderLabels(t *testing.T) {
	ds := dataset.NewInMemory([]int{9, 8, 7, 6})

	l, err := loader.New(ds, []int{3, 1}, 2)
	require.NoError(t, err)

	batch, err := l.Batch(0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, batch.Indices)
	assert.Equal(t, []int{6, 8}, batch.Labels)
}

func TestBatchReturnsCopies(t *testing.T) {
	ds := dataset.Synthetic(10, 2)

	l, err := loader.New(ds, []int{4, 5, 6, 7}, 2)
	require.NoError(t, err)

	batch, err := l.Batch(0)
	require.NoError(t, err)
	batch.Indices[0] = 99

	again, err := l.Batch(0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, again.Indices, "mutating a batch must not corrupt the loader")
	assert.Equal(t, []int{4, 5, 6, 7}, l.Indices())
}

type imagedStub struct {
	*dataset.InMemory
}

func (s imagedStub) Image(i int) []byte {
	return []byte{byte(i)}
}

func TestBatchImages(t *testing.T) {
	plain := dataset.NewInMemory([]int{0, 1, 0, 1})

	l, err := loader.New(plain, []int{0, 1, 2, 3}, 4)
	require.NoError(t, err)
	batch, err := l.Batch(0)
	require.NoError(t, err)
	assert.Nil(t, batch.Images, "label-only datasets carry no pixels")

	l, err = loader.New(imagedStub{plain}, []int{2, 0}, 2)
	require.NoError(t, err)
	batch, err = l.Batch(0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{2}, {0}}, batch.Images)
}

func TestNewShuffled(t *testing.T) {
	ds := dataset.Synthetic(1000, 10)
	indices := make([]int, 200)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(42))
	l, err := loader.NewShuffled(ds, indices, 32, rng)
	require.NoError(t, err)

	assert.ElementsMatch(t, indices, l.Indices(), "shuffle preserves the index set")
	assert.NotEqual(t, indices, l.Indices(), "order should change")
	assert.Equal(t, 0, indices[0], "caller's slice untouched")

	second, err := loader.NewShuffled(ds, indices, 32, rng)
	require.NoError(t, err)
	assert.NotEqual(t, l.Indices(), second.Indices(), "each retrieval draws a fresh order")
}
