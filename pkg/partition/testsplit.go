package partition

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SplitTest shuffles the test index range [0, n) and cuts it into
// numNodes near-equal shards for unbiased per-node evaluation. Every node
// gets n/numNodes examples except the last, which absorbs the remainder.
// When numNodes exceeds n some shards are empty; that is valid output and
// loaders over them produce zero batches.
func SplitTest(n, numNodes int, rng *rand.Rand) (Assignment, error) {
	if n < 0 {
		return nil, fmt.Errorf("test set size must be non-negative, got %d", n)
	}
	if numNodes < 1 {
		return nil, fmt.Errorf("number of nodes must be at least 1, got %d", numNodes)
	}

	perm := rng.Perm(n)
	base := n / numNodes

	split := make(Assignment, numNodes)
	for i := 0; i < numNodes; i++ {
		start := i * base
		end := (i + 1) * base
		if i == numNodes-1 {
			end = n
		}
		split[i] = perm[start:end]
	}

	return split, nil
}
