package datamodule_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenics-sim/fenics"
	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/dataset"
	pkgerrors "github.com/fenics-sim/fenics/pkg/errors"
)

func testConfig() fenics.ExperimentConfig {
	return fenics.ExperimentConfig{
		NumNodes:   3,
		Alpha:      0.5,
		Topology:   "ring",
		BatchSize:  16,
		RandomSeed: 42,
	}
}

func newService(t *testing.T, cfg fenics.ExperimentConfig, trainSize, testSize int) datamodule.Service {
	t.Helper()

	svc, err := datamodule.NewService(cfg, dataset.Synthetic(trainSize, 10), dataset.Synthetic(testSize, 10), nil, nil)
	require.NoError(t, err)

	return svc
}

func TestNewServiceValidation(t *testing.T) {
	cases := []struct {
		desc   string
		mutate func(*fenics.ExperimentConfig)
		err    bool
	}{
		{
			desc:   "valid",
			mutate: func(*fenics.ExperimentConfig) {},
		},
		{
			desc:   "zero nodes",
			mutate: func(c *fenics.ExperimentConfig) { c.NumNodes = 0 },
			err:    true,
		},
		{
			desc:   "negative nodes",
			mutate: func(c *fenics.ExperimentConfig) { c.NumNodes = -3 },
			err:    true,
		},
		{
			desc:   "zero alpha",
			mutate: func(c *fenics.ExperimentConfig) { c.Alpha = 0 },
			err:    true,
		},
		{
			desc:   "zero batch size",
			mutate: func(c *fenics.ExperimentConfig) { c.BatchSize = 0 },
			err:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)

			_, err := datamodule.NewService(cfg, dataset.Synthetic(100, 10), dataset.Synthetic(20, 10), nil, nil)
			if tc.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccessorsBeforeSetup(t *testing.T) {
	svc := newService(t, testConfig(), 100, 30)
	ctx := context.Background()

	_, err := svc.TrainLoader(ctx, 0)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)

	_, err = svc.TestLoader(ctx, 0)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)

	_, err = svc.DataSizes(ctx)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)

	_, err = svc.SelectionProbabilities(ctx)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)

	_, err = svc.Nodes(ctx)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)

	_, _, err = svc.Topology(ctx)
	assert.ErrorIs(t, err, pkgerrors.ErrNotReady)
}

func TestSetupRunsOnce(t *testing.T) {
	svc := newService(t, testConfig(), 100, 30)
	ctx := context.Background()

	require.NoError(t, svc.Setup(ctx))
	assert.ErrorIs(t, svc.Setup(ctx), pkgerrors.ErrAlreadySetup)
}

func TestUnknownNode(t *testing.T) {
	svc := newService(t, testConfig(), 100, 30)
	ctx := context.Background()
	require.NoError(t, svc.Setup(ctx))

	for _, id := range []int{-1, 3, 100} {
		_, err := svc.TrainLoader(ctx, id)
		assert.ErrorIsf(t, err, pkgerrors.ErrUnknownNode, "train loader, node %d", id)

		_, err = svc.TestLoader(ctx, id)
		assert.ErrorIsf(t, err, pkgerrors.ErrUnknownNode, "test loader, node %d", id)
	}
}

func TestDataSizesSumToTrainingSet(t *testing.T) {
	svc := newService(t, testConfig(), 997, 100)
	ctx := context.Background()
	require.NoError(t, svc.Setup(ctx))

	sizes, err := svc.DataSizes(ctx)
	require.NoError(t, err)
	require.Len(t, sizes, 3)

	total := 0
	for _, size := range sizes {
		total += size
	}
	assert.Equal(t, 997, total)
}

func TestTestLoadersPartitionTestSet(t *testing.T) {
	svc := newService(t, testConfig(), 200, 100)
	ctx := context.Background()
	require.NoError(t, svc.Setup(ctx))

	var all []int
	wantSizes := []int{33, 33, 34}
	for id := 0; id < 3; id++ {
		l, err := svc.TestLoader(ctx, id)
		require.NoError(t, err)
		assert.Equalf(t, wantSizes[id], l.Len(), "node %d", id)
		all = append(all, l.Indices()...)
	}

	sort.Ints(all)
	require.Len(t, all, 100)
	for i, idx := range all {
		assert.Equal(t, i, idx)
	}
}

func TestSelectionProbabilities(t *testing.T) {
	cases := []struct {
		desc     string
		numNodes int
	}{
		{desc: "single node", numNodes: 1},
		{desc: "several nodes", numNodes: 7},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := testConfig()
			cfg.NumNodes = tc.numNodes

			svc := newService(t, cfg, 1000, 100)
			ctx := context.Background()
			require.NoError(t, svc.Setup(ctx))

			probs, err := svc.SelectionProbabilities(ctx)
			require.NoError(t, err)
			require.Len(t, probs, tc.numNodes)

			sum := 0.0
			for _, p := range probs {
				assert.GreaterOrEqual(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestDeterminism(t *testing.T) {
	ctx := context.Background()

	build := func() datamodule.Service {
		svc := newService(t, testConfig(), 500, 100)
		require.NoError(t, svc.Setup(ctx))

		return svc
	}

	a, b := build(), build()

	sizesA, err := a.DataSizes(ctx)
	require.NoError(t, err)
	sizesB, err := b.DataSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, sizesA, sizesB)

	for id := 0; id < 3; id++ {
		ta, err := a.TestLoader(ctx, id)
		require.NoError(t, err)
		tb, err := b.TestLoader(ctx, id)
		require.NoError(t, err)
		assert.Equalf(t, ta.Indices(), tb.Indices(), "test shard of node %d", id)

		la, err := a.TrainLoader(ctx, id)
		require.NoError(t, err)
		lb, err := b.TrainLoader(ctx, id)
		require.NoError(t, err)
		assert.ElementsMatchf(t, la.Indices(), lb.Indices(), "train shard of node %d", id)
	}

	probsA, err := a.SelectionProbabilities(ctx)
	require.NoError(t, err)
	probsB, err := b.SelectionProbabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, probsA, probsB)
}

func TestTrainLoaderReshuffles(t *testing.T) {
	cfg := testConfig()
	cfg.NumNodes = 1

	svc := newService(t, cfg, 500, 50)
	ctx := context.Background()
	require.NoError(t, svc.Setup(ctx))

	first, err := svc.TrainLoader(ctx, 0)
	require.NoError(t, err)
	second, err := svc.TrainLoader(ctx, 0)
	require.NoError(t, err)

	assert.ElementsMatch(t, first.Indices(), second.Indices())
	assert.NotEqual(t, first.Indices(), second.Indices())
}

func TestTopologyAccessor(t *testing.T) {
	svc := newService(t, testConfig(), 100, 30)
	ctx := context.Background()
	require.NoError(t, svc.Setup(ctx))

	g, name, err := svc.Topology(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ring", name)
	assert.Equal(t, 3, g.Nodes().Len())
}

func TestEmptyTrainingSet(t *testing.T) {
	svc, err := datamodule.NewService(testConfig(), dataset.NewInMemory(nil), dataset.Synthetic(10, 2), nil, nil)
	require.NoError(t, err)

	assert.Error(t, svc.Setup(context.Background()))
}
