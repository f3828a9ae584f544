package middleware

import (
	"context"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/graph"

	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/loader"
	"github.com/fenics-sim/fenics/pkg/node"
)

var _ datamodule.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    datamodule.Service
}

func Logging(logger *slog.Logger, svc datamodule.Service) datamodule.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Setup(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Setup failed", args...)

			return
		}
		lm.logger.Info("Setup completed successfully", args...)
	}(time.Now())

	return lm.svc.Setup(ctx)
}

func (lm *loggingMiddleware) TrainLoader(ctx context.Context, nodeID int) (l *loader.Loader, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("node",
				slog.Int("id", nodeID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get train loader failed", args...)

			return
		}
		lm.logger.Info("Get train loader completed successfully", args...)
	}(time.Now())

	return lm.svc.TrainLoader(ctx, nodeID)
}

func (lm *loggingMiddleware) TestLoader(ctx context.Context, nodeID int) (l *loader.Loader, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("node",
				slog.Int("id", nodeID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get test loader failed", args...)

			return
		}
		lm.logger.Info("Get test loader completed successfully", args...)
	}(time.Now())

	return lm.svc.TestLoader(ctx, nodeID)
}

func (lm *loggingMiddleware) DataSizes(ctx context.Context) (sizes map[int]int, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get data sizes failed", args...)

			return
		}
		lm.logger.Info("Get data sizes completed successfully", args...)
	}(time.Now())

	return lm.svc.DataSizes(ctx)
}

func (lm *loggingMiddleware) SelectionProbabilities(ctx context.Context) (probs []float64, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Calculate selection probabilities failed", args...)

			return
		}
		lm.logger.Info("Calculate selection probabilities completed successfully", args...)
	}(time.Now())

	return lm.svc.SelectionProbabilities(ctx)
}

func (lm *loggingMiddleware) Nodes(ctx context.Context) (nodes []node.Node, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List nodes failed", args...)

			return
		}
		lm.logger.Info("List nodes completed successfully", args...)
	}(time.Now())

	return lm.svc.Nodes(ctx)
}

func (lm *loggingMiddleware) Topology(ctx context.Context) (g graph.Graph, name string, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("topology", name),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get topology failed", args...)

			return
		}
		lm.logger.Info("Get topology completed successfully", args...)
	}(time.Now())

	return lm.svc.Topology(ctx)
}
