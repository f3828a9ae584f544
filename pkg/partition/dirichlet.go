package partition

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	pkgerrors "github.com/fenics-sim/fenics/pkg/errors"
)

// Dirichlet splits training examples among nodes with controllable label
// skew. For every class an independent probability vector over the nodes
// is drawn from a symmetric Dirichlet distribution with concentration
// alpha; the class's examples are then divided at the cumulative-threshold
// boundaries of that vector, so node-level counts sum exactly to the class
// size. Small alpha concentrates a class on few nodes, large alpha
// approaches the global class proportions.
type Dirichlet struct {
	numNodes int
	alpha    float64
	rng      *rand.Rand
}

// NewDirichlet builds a partitioner. The rand source drives both the
// Dirichlet draws and the per-class shuffles, so callers control
// reproducibility by seeding it.
func NewDirichlet(numNodes int, alpha float64, rng *rand.Rand) (*Dirichlet, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("number of nodes must be at least 1, got %d", numNodes)
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("dirichlet concentration must be positive, got %g", alpha)
	}

	return &Dirichlet{
		numNodes: numNodes,
		alpha:    alpha,
		rng:      rng,
	}, nil
}

// Partition assigns every index of labels to exactly one node.
func (d *Dirichlet) Partition(labels []int) (Assignment, error) {
	if len(labels) == 0 {
		return nil, pkgerrors.ErrEmptyDataset
	}

	assignment := make(Assignment, d.numNodes)
	for node := 0; node < d.numNodes; node++ {
		assignment[node] = []int{}
	}

	if d.numNodes == 1 {
		indices := make([]int, len(labels))
		for i := range indices {
			indices[i] = i
		}
		assignment[0] = indices

		return assignment, nil
	}

	alphaVec := make([]float64, d.numNodes)
	for i := range alphaVec {
		alphaVec[i] = d.alpha
	}
	dir := distmv.NewDirichlet(alphaVec, d.rng)

	classes, classIndices := byClass(labels)
	proportions := make([]float64, d.numNodes)
	for _, c := range classes {
		indices := classIndices[c]
		d.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		dir.Rand(proportions)

		for node, chunk := range splitByProportion(indices, proportions) {
			assignment[node] = append(assignment[node], chunk...)
		}
	}

	return assignment, nil
}

// splitByProportion cuts indices at the cumulative-threshold boundaries of
// p: the k-th boundary is floor(sum(p[:k+1]) * len(indices)). The final
// boundary is pinned to len(indices) so no example is dropped to floating
// point error.
func splitByProportion(indices []int, p []float64) [][]int {
	m := len(indices)
	chunks := make([][]int, len(p))

	cum := 0.0
	start := 0
	for k := range p {
		cum += p[k]
		end := int(cum * float64(m))
		if k == len(p)-1 || end > m {
			end = m
		}
		if end < start {
			end = start
		}
		chunks[k] = indices[start:end]
		start = end
	}

	return chunks
}
