package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/absmach/supermq/pkg/jaeger"
	"github.com/absmach/supermq/pkg/prometheus"
	"github.com/absmach/supermq/pkg/server"
	httpserver "github.com/absmach/supermq/pkg/server/http"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/fenics-sim/fenics"
	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/datamodule/api"
	"github.com/fenics-sim/fenics/datamodule/middleware"
	"github.com/fenics-sim/fenics/pkg/artifacts"
	"github.com/fenics-sim/fenics/pkg/dataset"
)

const (
	svcName       = "datamodule"
	defHTTPPort   = "7070"
	envPrefixHTTP = "FENICS_HTTP_"
	pathEnv       = ".env"

	defSyntheticSize  = 10000
	defSyntheticTest  = 2000
	defSyntheticClass = 10
)

type envConfig struct {
	LogLevel     string  `env:"FENICS_LOG_LEVEL"     envDefault:"info"`
	InstanceID   string  `env:"FENICS_INSTANCE_ID"`
	NumNodes     int     `env:"FENICS_NUM_NODES"     envDefault:"5"`
	Alpha        float64 `env:"FENICS_ALPHA"         envDefault:"0.5"`
	Topology     string  `env:"FENICS_TOPOLOGY"      envDefault:"ring"`
	TopologyFile string  `env:"FENICS_TOPOLOGY_FILE"`
	OutputDir    string  `env:"FENICS_OUTPUT_DIR"    envDefault:"results"`
	BatchSize    int     `env:"FENICS_BATCH_SIZE"    envDefault:"32"`
	RandomSeed   int64   `env:"FENICS_RANDOM_SEED"   envDefault:"0"`
	TrainImages  string  `env:"FENICS_TRAIN_IMAGES"`
	TrainLabels  string  `env:"FENICS_TRAIN_LABELS"`
	TestImages   string  `env:"FENICS_TEST_IMAGES"`
	TestLabels   string  `env:"FENICS_TEST_LABELS"`
	OTELURL      url.URL `env:"FENICS_OTEL_URL"`
	TraceRatio   float64 `env:"FENICS_TRACE_RATIO"   envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, "", cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	train, test, err := loadDatasets(cfg)
	if err != nil {
		logger.Error("failed to load datasets", slog.String("error", err.Error()))

		return
	}

	art, err := artifacts.NewWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to create artifacts writer", slog.String("error", err.Error()))

		return
	}

	svc, err := datamodule.NewService(fenics.ExperimentConfig{
		NumNodes:     cfg.NumNodes,
		Alpha:        cfg.Alpha,
		Topology:     cfg.Topology,
		TopologyFile: cfg.TopologyFile,
		OutputDir:    cfg.OutputDir,
		BatchSize:    cfg.BatchSize,
		RandomSeed:   cfg.RandomSeed,
	}, train, test, art, logger)
	if err != nil {
		logger.Error("failed to create data module", slog.String("error", err.Error()))

		return
	}
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if err := svc.Setup(ctx); err != nil {
		logger.Error("failed to set up data module", slog.String("error", err.Error()))

		return
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}

func loadDatasets(cfg envConfig) (train, test dataset.Dataset, err error) {
	if cfg.TrainImages == "" {
		return dataset.Synthetic(defSyntheticSize, defSyntheticClass),
			dataset.Synthetic(defSyntheticTest, defSyntheticClass), nil
	}

	trainIDX, err := dataset.LoadIDX(cfg.TrainImages, cfg.TrainLabels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load training dataset: %w", err)
	}
	testIDX, err := dataset.LoadIDX(cfg.TestImages, cfg.TestLabels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load test dataset: %w", err)
	}

	return trainIDX, testIDX, nil
}
