package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/graph"

	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/loader"
	"github.com/fenics-sim/fenics/pkg/node"
)

var _ datamodule.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    datamodule.Service
}

func Tracing(tracer trace.Tracer, svc datamodule.Service) datamodule.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) Setup(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "setup")
	defer span.End()

	return tm.svc.Setup(ctx)
}

func (tm *tracing) TrainLoader(ctx context.Context, nodeID int) (*loader.Loader, error) {
	ctx, span := tm.tracer.Start(ctx, "train-loader", trace.WithAttributes(
		attribute.Int("node.id", nodeID),
	))
	defer span.End()

	return tm.svc.TrainLoader(ctx, nodeID)
}

func (tm *tracing) TestLoader(ctx context.Context, nodeID int) (*loader.Loader, error) {
	ctx, span := tm.tracer.Start(ctx, "test-loader", trace.WithAttributes(
		attribute.Int("node.id", nodeID),
	))
	defer span.End()

	return tm.svc.TestLoader(ctx, nodeID)
}

func (tm *tracing) DataSizes(ctx context.Context) (map[int]int, error) {
	ctx, span := tm.tracer.Start(ctx, "data-sizes")
	defer span.End()

	return tm.svc.DataSizes(ctx)
}

func (tm *tracing) SelectionProbabilities(ctx context.Context) ([]float64, error) {
	ctx, span := tm.tracer.Start(ctx, "selection-probabilities")
	defer span.End()

	return tm.svc.SelectionProbabilities(ctx)
}

func (tm *tracing) Nodes(ctx context.Context) ([]node.Node, error) {
	ctx, span := tm.tracer.Start(ctx, "nodes")
	defer span.End()

	return tm.svc.Nodes(ctx)
}

func (tm *tracing) Topology(ctx context.Context) (graph.Graph, string, error) {
	ctx, span := tm.tracer.Start(ctx, "topology")
	defer span.End()

	return tm.svc.Topology(ctx)
}
