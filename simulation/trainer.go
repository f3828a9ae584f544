package simulation

import (
	"context"

	"github.com/fenics-sim/fenics/pkg/loader"
)

// WalkTrainer iterates a node's batches and reports counts without doing
// any optimization. It exercises the full data path, which makes it useful
// for dry runs and for validating partitions from the CLI.
type WalkTrainer struct{}

func NewWalkTrainer() Trainer {
	return &WalkTrainer{}
}

func (t *WalkTrainer) Train(ctx context.Context, nodeID int, train, test *loader.Loader) (Report, error) {
	examples := 0
	for i := 0; i < train.Batches(); i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		batch, err := train.Batch(i)
		if err != nil {
			return Report{}, err
		}
		examples += len(batch.Indices)
	}

	return Report{
		NodeID:   nodeID,
		Examples: examples,
		Batches:  train.Batches(),
		Metrics: map[string]float64{
			"test_examples": float64(test.Len()),
		},
	}, nil
}
