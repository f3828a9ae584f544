package api

import (
	"context"
	"errors"

	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-kit/kit/endpoint"

	"github.com/fenics-sim/fenics/datamodule"
	pkgerrors "github.com/fenics-sim/fenics/pkg/errors"
)

func setupEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(setupReq); !ok {
			return setupResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		if err := svc.Setup(ctx); err != nil {
			return setupResponse{}, err
		}

		return setupResponse{Ready: true}, nil
	}
}

func trainLoaderEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(nodeReq)
		if !ok {
			return loaderResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return loaderResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		l, err := svc.TrainLoader(ctx, req.id)
		if err != nil {
			return loaderResponse{}, err
		}

		return loaderResponse{
			NodeID:    req.id,
			Examples:  l.Len(),
			Batches:   l.Batches(),
			BatchSize: l.BatchSize(),
			Shuffled:  true,
		}, nil
	}
}

func testLoaderEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(nodeReq)
		if !ok {
			return loaderResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return loaderResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		l, err := svc.TestLoader(ctx, req.id)
		if err != nil {
			return loaderResponse{}, err
		}

		return loaderResponse{
			NodeID:    req.id,
			Examples:  l.Len(),
			Batches:   l.Batches(),
			BatchSize: l.BatchSize(),
		}, nil
	}
}

func dataSizesEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(listReq); !ok {
			return sizesResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		sizes, err := svc.DataSizes(ctx)
		if err != nil {
			return sizesResponse{}, err
		}

		total := 0
		for _, size := range sizes {
			total += size
		}

		return sizesResponse{
			Sizes: sizes,
			Total: total,
		}, nil
	}
}

func probabilitiesEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(listReq); !ok {
			return probabilitiesResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		probs, err := svc.SelectionProbabilities(ctx)
		if err != nil {
			return probabilitiesResponse{}, err
		}

		return probabilitiesResponse{Probabilities: probs}, nil
	}
}

func nodesEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(listReq); !ok {
			return nodesResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		nodes, err := svc.Nodes(ctx)
		if err != nil {
			return nodesResponse{}, err
		}

		return nodesResponse{Nodes: nodes}, nil
	}
}

func topologyEndpoint(svc datamodule.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(listReq); !ok {
			return topologyResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		g, name, err := svc.Topology(ctx)
		if err != nil {
			return topologyResponse{}, err
		}

		var edges [][2]int
		nodes := g.Nodes()
		for nodes.Next() {
			u := nodes.Node().ID()
			peers := g.From(u)
			for peers.Next() {
				if v := peers.Node().ID(); u < v {
					edges = append(edges, [2]int{int(u), int(v)})
				}
			}
		}

		return topologyResponse{
			Name:  name,
			Nodes: g.Nodes().Len(),
			Edges: edges,
		}, nil
	}
}
