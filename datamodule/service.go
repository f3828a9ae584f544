// Package datamodule owns data loading and preprocessing for a federated
// experiment: Dirichlet partitioning of the training set, even splitting
// of the test set, topology construction, and per-node loader access.
package datamodule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"

	"github.com/fenics-sim/fenics"
	"github.com/fenics-sim/fenics/pkg/artifacts"
	"github.com/fenics-sim/fenics/pkg/dataset"
	pkgerrors "github.com/fenics-sim/fenics/pkg/errors"
	"github.com/fenics-sim/fenics/pkg/loader"
	"github.com/fenics-sim/fenics/pkg/node"
	"github.com/fenics-sim/fenics/pkg/partition"
	"github.com/fenics-sim/fenics/pkg/topology"
)

// Service exposes per-node data access for an experiment. Setup runs
// exactly once per instance; every other operation requires it to have
// completed. The derived maps are read-only after Setup and safe to share
// across readers.
type Service interface {
	// Setup loads labels, partitions the training set, splits the test
	// set, and builds the communication topology. Artifact persistence is
	// fire-and-forget: its failures are logged, never returned.
	Setup(ctx context.Context) error

	// TrainLoader returns a freshly shuffled loader over the node's
	// training shard.
	TrainLoader(ctx context.Context, nodeID int) (*loader.Loader, error)

	// TestLoader returns a fixed-order loader over the node's test shard.
	TestLoader(ctx context.Context, nodeID int) (*loader.Loader, error)

	// DataSizes returns the training example count per node.
	DataSizes(ctx context.Context) (map[int]int, error)

	// SelectionProbabilities returns per-node weights proportional to
	// training data volume, summing to 1.
	SelectionProbabilities(ctx context.Context) ([]float64, error)

	// Nodes returns the node registry entries.
	Nodes(ctx context.Context) ([]node.Node, error)

	// Topology returns the communication graph and the topology name.
	Topology(ctx context.Context) (graph.Graph, string, error)
}

type service struct {
	mu sync.Mutex

	cfg       fenics.ExperimentConfig
	train     dataset.Dataset
	test      dataset.Dataset
	art       *artifacts.Writer
	logger    *slog.Logger
	rng       *rand.Rand
	runID     string
	ready     bool
	settingUp bool

	registry   *node.Registry
	assignment partition.Assignment
	testSplit  partition.Assignment
	graph      graph.Graph
	graphName  string
}

// NewService validates the configuration and prepares an uninitialized
// data module. The artifacts writer may be nil to disable artifact output.
func NewService(cfg fenics.ExperimentConfig, train, test dataset.Dataset, art *artifacts.Writer, logger *slog.Logger) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		cfg:    cfg,
		train:  train,
		test:   test,
		art:    art,
		logger: logger,
		rng:    rand.New(rand.NewSource(uint64(cfg.RandomSeed))),
		runID:  uuid.NewString(),
	}, nil
}

func (svc *service) Setup(ctx context.Context) error {
	svc.mu.Lock()
	if svc.ready || svc.settingUp {
		svc.mu.Unlock()

		return pkgerrors.ErrAlreadySetup
	}
	svc.settingUp = true
	svc.mu.Unlock()

	if err := svc.setup(ctx); err != nil {
		svc.mu.Lock()
		svc.settingUp = false
		svc.mu.Unlock()

		return err
	}

	svc.mu.Lock()
	svc.settingUp = false
	svc.ready = true
	svc.mu.Unlock()

	return nil
}

func (svc *service) setup(ctx context.Context) error {
	if svc.train == nil || svc.test == nil {
		return fmt.Errorf("dataset load failed: %w", pkgerrors.ErrEmptyDataset)
	}

	labels := dataset.Labels(svc.train)

	partitioner, err := partition.NewDirichlet(svc.cfg.NumNodes, svc.cfg.Alpha, svc.rng)
	if err != nil {
		return fmt.Errorf("failed to build partitioner: %w", err)
	}
	assignment, err := partitioner.Partition(labels)
	if err != nil {
		return fmt.Errorf("failed to partition training set: %w", err)
	}

	registry, err := node.NewRegistry(svc.cfg.NumNodes)
	if err != nil {
		return fmt.Errorf("failed to create node registry: %w", err)
	}

	builder, err := topology.New(svc.cfg.NumNodes, topology.Kind(svc.cfg.Topology), svc.cfg.TopologyFile, svc.rng)
	if err != nil {
		return fmt.Errorf("failed to select topology: %w", err)
	}
	g, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build %s topology: %w", builder.Name(), err)
	}

	testSplit, err := partition.SplitTest(svc.test.Len(), svc.cfg.NumNodes, svc.rng)
	if err != nil {
		return fmt.Errorf("failed to split test set: %w", err)
	}

	svc.registry = registry
	svc.assignment = assignment
	svc.testSplit = testSplit
	svc.graph = g
	svc.graphName = builder.Name()

	svc.logDistribution(ctx, assignment)
	svc.persistArtifacts(ctx, assignment, g, builder.Name())

	svc.logger.InfoContext(ctx, "Data module setup complete",
		slog.String("run_id", svc.runID),
		slog.Int("nodes", svc.cfg.NumNodes),
		slog.Int("train_examples", svc.train.Len()),
		slog.Int("test_examples", svc.test.Len()),
		slog.String("topology", builder.Name()),
	)

	return nil
}

func (svc *service) logDistribution(ctx context.Context, assignment partition.Assignment) {
	dist := partition.Distribution(assignment, svc.train)
	for id := 0; id < svc.cfg.NumNodes; id++ {
		counts := dist[id]
		args := []any{
			slog.Int("node", id),
			slog.Int("examples", len(assignment[id])),
		}
		for class, count := range counts {
			args = append(args, slog.Int(dataset.ClassName(class), count))
		}
		svc.logger.InfoContext(ctx, "Class distribution", args...)
	}
}

func (svc *service) persistArtifacts(ctx context.Context, assignment partition.Assignment, g graph.Graph, name string) {
	if svc.art == nil {
		return
	}

	dist := partition.Distribution(assignment, svc.train)
	if path, err := svc.art.WriteDistribution(svc.runID, dist, dataset.FashionMNISTClasses); err != nil {
		svc.logger.WarnContext(ctx, "Failed to write distribution artifact", slog.Any("error", err))
	} else {
		svc.logger.InfoContext(ctx, "Wrote distribution artifact", slog.String("path", path))
	}

	if path, err := svc.art.WriteTopology(svc.runID, g, name); err != nil {
		svc.logger.WarnContext(ctx, "Failed to write topology artifact", slog.Any("error", err))
	} else {
		svc.logger.InfoContext(ctx, "Wrote topology artifact", slog.String("path", path))
	}
}

func (svc *service) checkNode(nodeID int) error {
	svc.mu.Lock()
	ready := svc.ready
	svc.mu.Unlock()

	if !ready {
		return pkgerrors.ErrNotReady
	}
	if !svc.registry.Contains(nodeID) {
		return fmt.Errorf("%w: %d", pkgerrors.ErrUnknownNode, nodeID)
	}

	return nil
}

func (svc *service) TrainLoader(_ context.Context, nodeID int) (*loader.Loader, error) {
	if err := svc.checkNode(nodeID); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	return loader.NewShuffled(svc.train, svc.assignment[nodeID], svc.cfg.BatchSize, svc.rng)
}

func (svc *service) TestLoader(_ context.Context, nodeID int) (*loader.Loader, error) {
	if err := svc.checkNode(nodeID); err != nil {
		return nil, err
	}

	return loader.New(svc.test, svc.testSplit[nodeID], svc.cfg.BatchSize)
}

func (svc *service) DataSizes(_ context.Context) (map[int]int, error) {
	svc.mu.Lock()
	ready := svc.ready
	svc.mu.Unlock()

	if !ready {
		return nil, pkgerrors.ErrNotReady
	}

	return svc.assignment.Sizes(), nil
}

func (svc *service) SelectionProbabilities(ctx context.Context) ([]float64, error) {
	sizes, err := svc.DataSizes(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, size := range sizes {
		total += size
	}

	probs := make([]float64, svc.cfg.NumNodes)
	if total == 0 {
		for i := range probs {
			probs[i] = 1.0 / float64(svc.cfg.NumNodes)
		}

		return probs, nil
	}

	for id, size := range sizes {
		probs[id] = float64(size) / float64(total)
	}

	return probs, nil
}

func (svc *service) Nodes(_ context.Context) ([]node.Node, error) {
	svc.mu.Lock()
	ready := svc.ready
	svc.mu.Unlock()

	if !ready {
		return nil, pkgerrors.ErrNotReady
	}

	return svc.registry.Nodes(), nil
}

func (svc *service) Topology(_ context.Context) (graph.Graph, string, error) {
	svc.mu.Lock()
	ready := svc.ready
	svc.mu.Unlock()

	if !ready {
		return nil, "", pkgerrors.ErrNotReady
	}

	return svc.graph, svc.graphName, nil
}
