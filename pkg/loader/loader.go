// Package loader provides mini-batch views over an indexed dataset. A
// Loader is a stateless view: it holds a fixed index order computed at
// construction and batches are addressed by position, so concurrent
// readers can share one instance.
package loader

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/fenics-sim/fenics/pkg/dataset"
)

type Batch struct {
	Indices []int
	Labels  []int
	// Images carries the pixel bytes of each example when the underlying
	// dataset implements dataset.Imaged; nil otherwise.
	Images [][]byte
}

type Loader struct {
	ds        dataset.Dataset
	indices   []int
	batchSize int
}

// New builds a loader over the given example indices in fixed order.
func New(ds dataset.Dataset, indices []int, batchSize int) (*Loader, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}

	copied := make([]int, len(indices))
	copy(copied, indices)

	return &Loader{
		ds:        ds,
		indices:   copied,
		batchSize: batchSize,
	}, nil
}

// NewShuffled builds a loader over a freshly shuffled copy of indices.
// Each call draws a new order from rng; the caller's slice is untouched.
func NewShuffled(ds dataset.Dataset, indices []int, batchSize int, rng *rand.Rand) (*Loader, error) {
	l, err := New(ds, indices, batchSize)
	if err != nil {
		return nil, err
	}

	rng.Shuffle(len(l.indices), func(i, j int) {
		l.indices[i], l.indices[j] = l.indices[j], l.indices[i]
	})

	return l, nil
}

// Len returns the number of examples in the view.
func (l *Loader) Len() int {
	return len(l.indices)
}

// BatchSize returns the configured mini-batch size.
func (l *Loader) BatchSize() int {
	return l.batchSize
}

// Batches returns the number of mini-batches; zero for an empty view.
func (l *Loader) Batches() int {
	return (len(l.indices) + l.batchSize - 1) / l.batchSize
}

// Batch returns the i-th mini-batch. The last batch may be short.
func (l *Loader) Batch(i int) (Batch, error) {
	if i < 0 || i >= l.Batches() {
		return Batch{}, fmt.Errorf("batch index %d out of range [0, %d)", i, l.Batches())
	}

	start := i * l.batchSize
	end := start + l.batchSize
	if end > len(l.indices) {
		end = len(l.indices)
	}

	indices := make([]int, end-start)
	copy(indices, l.indices[start:end])

	labels := make([]int, len(indices))
	for j, idx := range indices {
		labels[j] = l.ds.Label(idx)
	}

	batch := Batch{
		Indices: indices,
		Labels:  labels,
	}
	if imaged, ok := l.ds.(dataset.Imaged); ok {
		batch.Images = make([][]byte, len(indices))
		for j, idx := range indices {
			batch.Images[j] = imaged.Image(idx)
		}
	}

	return batch, nil
}

// Indices returns a copy of the view's index order.
func (l *Loader) Indices() []int {
	copied := make([]int, len(l.indices))
	copy(copied, l.indices)

	return copied
}
