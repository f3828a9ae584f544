package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/api"
)

func MakeHandler(svc datamodule.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Post("/setup", otelhttp.NewHandler(kithttp.NewServer(
		setupEndpoint(svc),
		decodeSetupReq,
		api.EncodeResponse,
		opts...,
	), "setup").ServeHTTP)

	mux.Route("/nodes", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			nodesEndpoint(svc),
			decodeListReq,
			api.EncodeResponse,
			opts...,
		), "list-nodes").ServeHTTP)
		r.Route("/{nodeID}", func(r chi.Router) {
			r.Get("/train", otelhttp.NewHandler(kithttp.NewServer(
				trainLoaderEndpoint(svc),
				decodeNodeReq,
				api.EncodeResponse,
				opts...,
			), "train-loader").ServeHTTP)
			r.Get("/test", otelhttp.NewHandler(kithttp.NewServer(
				testLoaderEndpoint(svc),
				decodeNodeReq,
				api.EncodeResponse,
				opts...,
			), "test-loader").ServeHTTP)
		})
	})

	mux.Get("/sizes", otelhttp.NewHandler(kithttp.NewServer(
		dataSizesEndpoint(svc),
		decodeListReq,
		api.EncodeResponse,
		opts...,
	), "data-sizes").ServeHTTP)

	mux.Get("/probabilities", otelhttp.NewHandler(kithttp.NewServer(
		probabilitiesEndpoint(svc),
		decodeListReq,
		api.EncodeResponse,
		opts...,
	), "selection-probabilities").ServeHTTP)

	mux.Get("/topology", otelhttp.NewHandler(kithttp.NewServer(
		topologyEndpoint(svc),
		decodeListReq,
		api.EncodeResponse,
		opts...,
	), "topology").ServeHTTP)

	mux.Get("/health", supermq.Health("datamodule", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeSetupReq(_ context.Context, _ *http.Request) (any, error) {
	return setupReq{}, nil
}

func decodeListReq(_ context.Context, _ *http.Request) (any, error) {
	return listReq{}, nil
}

func decodeNodeReq(_ context.Context, r *http.Request) (any, error) {
	raw := chi.URLParam(r, "nodeID")
	if raw == "" {
		return nodeReq{}, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apiutil.ErrInvalidIDFormat
	}

	return nodeReq{id: id, set: true}, nil
}
