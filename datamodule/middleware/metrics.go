package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"gonum.org/v1/gonum/graph"

	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/loader"
	"github.com/fenics-sim/fenics/pkg/node"
)

var _ datamodule.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     datamodule.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc datamodule.Service) datamodule.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Setup(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "setup").Add(1)
		mm.latency.With("method", "setup").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Setup(ctx)
}

func (mm *metricsMiddleware) TrainLoader(ctx context.Context, nodeID int) (*loader.Loader, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "train-loader").Add(1)
		mm.latency.With("method", "train-loader").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.TrainLoader(ctx, nodeID)
}

func (mm *metricsMiddleware) TestLoader(ctx context.Context, nodeID int) (*loader.Loader, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "test-loader").Add(1)
		mm.latency.With("method", "test-loader").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.TestLoader(ctx, nodeID)
}

func (mm *metricsMiddleware) DataSizes(ctx context.Context) (map[int]int, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "data-sizes").Add(1)
		mm.latency.With("method", "data-sizes").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DataSizes(ctx)
}

func (mm *metricsMiddleware) SelectionProbabilities(ctx context.Context) ([]float64, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "selection-probabilities").Add(1)
		mm.latency.With("method", "selection-probabilities").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SelectionProbabilities(ctx)
}

func (mm *metricsMiddleware) Nodes(ctx context.Context) ([]node.Node, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "nodes").Add(1)
		mm.latency.With("method", "nodes").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Nodes(ctx)
}

func (mm *metricsMiddleware) Topology(ctx context.Context) (graph.Graph, string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "topology").Add(1)
		mm.latency.With("method", "topology").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Topology(ctx)
}
