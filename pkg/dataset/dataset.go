// Package dataset defines the labeled dataset contract consumed by the
// partitioner and loaders, plus concrete sources: the IDX binary format
// used by MNIST-style datasets and an in-memory dataset for tests.
package dataset

// Dataset is an indexable labeled dataset. Implementations are immutable
// once loaded.
type Dataset interface {
	Len() int
	Label(i int) int
}

// Imaged is implemented by datasets whose examples carry pixel data.
type Imaged interface {
	Dataset
	Image(i int) []byte
}

// Labels returns the full label vector of ds, one entry per example.
func Labels(ds Dataset) []int {
	labels := make([]int, ds.Len())
	for i := range labels {
		labels[i] = ds.Label(i)
	}

	return labels
}

// NumClasses returns the number of distinct labels, assuming labels are
// drawn from [0, C).
func NumClasses(ds Dataset) int {
	maxLabel := -1
	for i := 0; i < ds.Len(); i++ {
		if l := ds.Label(i); l > maxLabel {
			maxLabel = l
		}
	}

	return maxLabel + 1
}

// InMemory is a label-only dataset backed by a slice.
type InMemory struct {
	labels []int
}

func NewInMemory(labels []int) *InMemory {
	copied := make([]int, len(labels))
	copy(copied, labels)

	return &InMemory{labels: copied}
}

// Synthetic builds a dataset of n examples whose labels cycle through
// numClasses round-robin, so every class has either floor(n/C) or
// ceil(n/C) examples. Useful for tests and dry runs without dataset files.
func Synthetic(n, numClasses int) *InMemory {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i % numClasses
	}

	return &InMemory{labels: labels}
}

func (d *InMemory) Len() int {
	return len(d.labels)
}

func (d *InMemory) Label(i int) int {
	return d.labels[i]
}
