// Package topology builds the communication graph connecting simulated
// nodes. The graph is informational for the data module: partitioning
// never consults it. One builder per topology kind, selected by tag.
package topology

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/simple"
)

type Kind string

const (
	Ring           Kind = "ring"
	FullyConnected Kind = "full"
	Star           Kind = "star"
	Random         Kind = "random"
	Custom         Kind = "custom"
)

var ErrNoNodes = errors.New("topology requires at least one node")

// Builder constructs an undirected graph whose node set is exactly
// {0, ..., numNodes-1}.
type Builder interface {
	Build() (*simple.UndirectedGraph, error)
	Name() string
}

// New selects a builder by kind. The rand source is consumed only by the
// random topology; file is consumed only by the custom topology.
func New(numNodes int, kind Kind, file string, rng *rand.Rand) (Builder, error) {
	if numNodes < 1 {
		return nil, ErrNoNodes
	}

	switch kind {
	case Ring:
		return &ringBuilder{numNodes: numNodes}, nil
	case FullyConnected:
		return &fullBuilder{numNodes: numNodes}, nil
	case Star:
		return &starBuilder{numNodes: numNodes}, nil
	case Random:
		return &randomBuilder{numNodes: numNodes, p: defEdgeProbability, rng: rng}, nil
	case Custom:
		return &customBuilder{numNodes: numNodes, file: file}, nil
	default:
		return nil, fmt.Errorf("unknown topology kind: %q", kind)
	}
}

// newGraph returns a graph pre-populated with all node IDs so builders
// only add edges. Isolated nodes stay in the node set.
func newGraph(numNodes int) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < numNodes; i++ {
		g.AddNode(simple.Node(i))
	}

	return g
}

func addEdge(g *simple.UndirectedGraph, u, v int) {
	if u == v {
		return
	}
	g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
}
