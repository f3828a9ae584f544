// Package node holds the registry of simulated federated-learning
// participants. The ID set is exactly {0, ..., numNodes-1}, fixed for the
// lifetime of a run.
package node

import (
	"fmt"

	"github.com/0x6flab/namegenerator"
)

type Node struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Registry struct {
	nodes []Node
}

// NewRegistry creates numNodes nodes with generated display names. Names
// are informational; identity is the integer ID.
func NewRegistry(numNodes int) (*Registry, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("number of nodes must be at least 1, got %d", numNodes)
	}

	gen := namegenerator.NewGenerator()
	nodes := make([]Node, numNodes)
	for i := range nodes {
		nodes[i] = Node{
			ID:   i,
			Name: gen.Generate(),
		}
	}

	return &Registry{nodes: nodes}, nil
}

func (r *Registry) Len() int {
	return len(r.nodes)
}

func (r *Registry) Contains(id int) bool {
	return id >= 0 && id < len(r.nodes)
}

func (r *Registry) Get(id int) (Node, error) {
	if !r.Contains(id) {
		return Node{}, fmt.Errorf("node %d is not in the registry", id)
	}

	return r.nodes[id], nil
}

func (r *Registry) IDs() []int {
	ids := make([]int, len(r.nodes))
	for i := range ids {
		ids[i] = i
	}

	return ids
}

func (r *Registry) Nodes() []Node {
	nodes := make([]Node, len(r.nodes))
	copy(nodes, r.nodes)

	return nodes
}
