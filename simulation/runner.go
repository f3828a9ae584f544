// Package simulation drives the outer experiment loop: each round it
// samples participating nodes with probability proportional to their
// training data volume and fans their loaders out to a Trainer
// collaborator. Model optimization itself lives behind the Trainer
// interface and is not this package's concern.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/loader"
)

// Trainer runs one node's local step for a round. Implementations receive
// their own loader instances and may run concurrently with other nodes.
type Trainer interface {
	Train(ctx context.Context, nodeID int, train, test *loader.Loader) (Report, error)
}

// Report is what a node hands back after its local step.
type Report struct {
	NodeID   int                `json:"node_id"`
	Examples int                `json:"examples"`
	Batches  int                `json:"batches"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// RoundResult records one completed round.
type RoundResult struct {
	RoundID      string   `json:"round_id"`
	Round        int      `json:"round"`
	Participants []int    `json:"participants"`
	Reports      []Report `json:"reports"`
}

type Runner struct {
	svc           datamodule.Service
	trainer       Trainer
	rounds        int
	nodesPerRound int
	rng           *rand.Rand
	logger        *slog.Logger
}

func NewRunner(svc datamodule.Service, trainer Trainer, rounds, nodesPerRound int, seed int64, logger *slog.Logger) (*Runner, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("rounds must be at least 1, got %d", rounds)
	}
	if nodesPerRound < 1 {
		return nil, fmt.Errorf("nodes per round must be at least 1, got %d", nodesPerRound)
	}
	if trainer == nil {
		return nil, fmt.Errorf("trainer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		svc:           svc,
		trainer:       trainer,
		rounds:        rounds,
		nodesPerRound: nodesPerRound,
		rng:           rand.New(rand.NewSource(uint64(seed))),
		logger:        logger,
	}, nil
}

// Run executes every round in sequence. Participants within a round train
// concurrently; a failing participant aborts the run.
func (r *Runner) Run(ctx context.Context) ([]RoundResult, error) {
	probs, err := r.svc.SelectionProbabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get selection probabilities: %w", err)
	}

	results := make([]RoundResult, 0, r.rounds)
	for round := 0; round < r.rounds; round++ {
		result, err := r.runRound(ctx, round, probs)
		if err != nil {
			return nil, fmt.Errorf("round %d failed: %w", round, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) runRound(ctx context.Context, round int, probs []float64) (RoundResult, error) {
	participants := r.sample(probs)
	roundID := uuid.NewString()

	r.logger.InfoContext(ctx, "Starting round",
		slog.String("round_id", roundID),
		slog.Int("round", round),
		slog.Any("participants", participants),
	)

	reports := make([]Report, len(participants))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, nodeID := range participants {
		g.Go(func() error {
			train, err := r.svc.TrainLoader(ctx, nodeID)
			if err != nil {
				return fmt.Errorf("node %d train loader: %w", nodeID, err)
			}
			test, err := r.svc.TestLoader(ctx, nodeID)
			if err != nil {
				return fmt.Errorf("node %d test loader: %w", nodeID, err)
			}

			report, err := r.trainer.Train(ctx, nodeID, train, test)
			if err != nil {
				return fmt.Errorf("node %d training: %w", nodeID, err)
			}

			mu.Lock()
			reports[i] = report
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RoundResult{}, err
	}

	return RoundResult{
		RoundID:      roundID,
		Round:        round,
		Participants: participants,
		Reports:      reports,
	}, nil
}

// sample draws up to nodesPerRound distinct nodes, weighted by probs.
// Nodes with zero weight are never drawn, so fewer participants than
// requested is possible.
func (r *Runner) sample(probs []float64) []int {
	weights := make([]float64, len(probs))
	copy(weights, probs)

	w := sampleuv.NewWeighted(weights, r.rng)

	count := r.nodesPerRound
	if count > len(probs) {
		count = len(probs)
	}

	participants := make([]int, 0, count)
	for len(participants) < count {
		idx, ok := w.Take()
		if !ok {
			break
		}
		participants = append(participants, idx)
	}
	sort.Ints(participants)

	return participants
}
