package topology

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/simple"
)

const defEdgeProbability = 0.3

type ringBuilder struct {
	numNodes int
}

func (b *ringBuilder) Name() string {
	return "ring"
}

func (b *ringBuilder) Build() (*simple.UndirectedGraph, error) {
	g := newGraph(b.numNodes)
	if b.numNodes < 2 {
		return g, nil
	}
	if b.numNodes == 2 {
		addEdge(g, 0, 1)

		return g, nil
	}

	for i := 0; i < b.numNodes; i++ {
		addEdge(g, i, (i+1)%b.numNodes)
	}

	return g, nil
}

type fullBuilder struct {
	numNodes int
}

func (b *fullBuilder) Name() string {
	return "full"
}

func (b *fullBuilder) Build() (*simple.UndirectedGraph, error) {
	g := newGraph(b.numNodes)
	for i := 0; i < b.numNodes; i++ {
		for j := i + 1; j < b.numNodes; j++ {
			addEdge(g, i, j)
		}
	}

	return g, nil
}

// starBuilder connects every node to node 0.
type starBuilder struct {
	numNodes int
}

func (b *starBuilder) Name() string {
	return "star"
}

func (b *starBuilder) Build() (*simple.UndirectedGraph, error) {
	g := newGraph(b.numNodes)
	for i := 1; i < b.numNodes; i++ {
		addEdge(g, 0, i)
	}

	return g, nil
}

// randomBuilder includes each pair with probability p, then attaches any
// isolated node to a random peer so the graph has no unreachable nodes.
type randomBuilder struct {
	numNodes int
	p        float64
	rng      *rand.Rand
}

func (b *randomBuilder) Name() string {
	return "random"
}

func (b *randomBuilder) Build() (*simple.UndirectedGraph, error) {
	g := newGraph(b.numNodes)
	if b.numNodes < 2 {
		return g, nil
	}

	for i := 0; i < b.numNodes; i++ {
		for j := i + 1; j < b.numNodes; j++ {
			if b.rng.Float64() < b.p {
				addEdge(g, i, j)
			}
		}
	}

	for i := 0; i < b.numNodes; i++ {
		if g.From(int64(i)).Len() == 0 {
			peer := b.rng.Intn(b.numNodes - 1)
			if peer >= i {
				peer++
			}
			addEdge(g, i, peer)
		}
	}

	return g, nil
}

// customBuilder reads an edge list file: one "u v" pair per line, blank
// lines and #-comments skipped.
type customBuilder struct {
	numNodes int
	file     string
}

func (b *customBuilder) Name() string {
	return "custom"
}

func (b *customBuilder) Build() (*simple.UndirectedGraph, error) {
	f, err := os.Open(b.file)
	if err != nil {
		return nil, fmt.Errorf("failed to open topology file: %w", err)
	}
	defer f.Close()

	g := newGraph(b.numNodes)

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("topology file line %d: expected two node IDs, got %q", line, text)
		}

		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("topology file line %d: %w", line, err)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("topology file line %d: %w", line, err)
		}

		if u < 0 || u >= b.numNodes || v < 0 || v >= b.numNodes {
			return nil, fmt.Errorf("topology file line %d: node ID outside [0, %d)", line, b.numNodes)
		}
		if u == v {
			return nil, fmt.Errorf("topology file line %d: self-loop on node %d", line, u)
		}

		addEdge(g, u, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}

	return g, nil
}
