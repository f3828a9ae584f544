// Package partition assigns dataset example indices to simulated nodes.
// The Dirichlet partitioner produces label-skewed training shards; the
// test splitter produces even, unbiased evaluation shards. All randomness
// comes from an explicitly passed source, so a fixed seed reproduces the
// exact same assignments.
package partition

import (
	"sort"

	"github.com/fenics-sim/fenics/pkg/dataset"
)

// Assignment maps a node ID to the ordered sequence of example indices it
// owns. Each index appears under exactly one node.
type Assignment map[int][]int

// Sizes returns the number of examples assigned to each node.
func (a Assignment) Sizes() map[int]int {
	sizes := make(map[int]int, len(a))
	for node, indices := range a {
		sizes[node] = len(indices)
	}

	return sizes
}

// Total returns the number of examples across all nodes.
func (a Assignment) Total() int {
	total := 0
	for _, indices := range a {
		total += len(indices)
	}

	return total
}

// Distribution tallies per-node class counts for the assignment.
func Distribution(a Assignment, ds dataset.Dataset) map[int]map[int]int {
	dist := make(map[int]map[int]int, len(a))
	for node, indices := range a {
		counts := make(map[int]int)
		for _, idx := range indices {
			counts[ds.Label(idx)]++
		}
		dist[node] = counts
	}

	return dist
}

// byClass groups example indices by label, classes in ascending order.
func byClass(labels []int) (classes []int, indices map[int][]int) {
	indices = make(map[int][]int)
	for i, l := range labels {
		indices[l] = append(indices[l], i)
	}

	classes = make([]int, 0, len(indices))
	for c := range indices {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	return classes, indices
}
