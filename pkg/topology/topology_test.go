package topology_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/fenics-sim/fenics/pkg/topology"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestBuilders(t *testing.T) {
	cases := []struct {
		desc     string
		kind     topology.Kind
		numNodes int
		edges    int
	}{
		{
			desc:     "ring",
			kind:     topology.Ring,
			numNodes: 5,
			edges:    5,
		},
		{
			desc:     "ring of two",
			kind:     topology.Ring,
			numNodes: 2,
			edges:    1,
		},
		{
			desc:     "ring of one",
			kind:     topology.Ring,
			numNodes: 1,
			edges:    0,
		},
		{
			desc:     "fully connected",
			kind:     topology.FullyConnected,
			numNodes: 4,
			edges:    6,
		},
		{
			desc:     "star",
			kind:     topology.Star,
			numNodes: 6,
			edges:    5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			b, err := topology.New(tc.numNodes, tc.kind, "", newRNG(42))
			require.NoError(t, err)

			g, err := b.Build()
			require.NoError(t, err)

			assert.Equal(t, tc.numNodes, g.Nodes().Len())
			assert.Equal(t, tc.edges, g.Edges().Len())
		})
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := topology.New(3, topology.Kind("torus"), "", newRNG(42))
	assert.Error(t, err)
}

func TestNewNoNodes(t *testing.T) {
	_, err := topology.New(0, topology.Ring, "", newRNG(42))
	assert.ErrorIs(t, err, topology.ErrNoNodes)
}

func TestRandomTopology(t *testing.T) {
	b, err := topology.New(10, topology.Random, "", newRNG(42))
	require.NoError(t, err)

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 10, g.Nodes().Len())
	for i := 0; i < 10; i++ {
		assert.Positivef(t, g.From(int64(i)).Len(), "node %d must not be isolated", i)
	}
}

func TestRandomTopologyDeterminism(t *testing.T) {
	build := func(seed uint64) [][2]int64 {
		b, err := topology.New(8, topology.Random, "", newRNG(seed))
		require.NoError(t, err)
		g, err := b.Build()
		require.NoError(t, err)

		var edges [][2]int64
		it := g.Edges()
		for it.Next() {
			e := it.Edge()
			edges = append(edges, [2]int64{e.From().ID(), e.To().ID()})
		}

		return edges
	}

	assert.ElementsMatch(t, build(7), build(7))
}

func TestCustomTopology(t *testing.T) {
	cases := []struct {
		desc    string
		content string
		edges   int
		err     bool
	}{
		{
			desc:    "valid edge list",
			content: "0 1\n1 2\n\n# comment\n2 3\n",
			edges:   3,
		},
		{
			desc:    "node out of range",
			content: "0 9\n",
			err:     true,
		},
		{
			desc:    "self loop",
			content: "1 1\n",
			err:     true,
		},
		{
			desc:    "malformed line",
			content: "0 1 2\n",
			err:     true,
		},
		{
			desc:    "non-numeric",
			content: "a b\n",
			err:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "topology.txt")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			b, err := topology.New(4, topology.Custom, path, newRNG(42))
			require.NoError(t, err)

			g, err := b.Build()
			if tc.err {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.edges, g.Edges().Len())
		})
	}
}

func TestCustomTopologyMissingFile(t *testing.T) {
	b, err := topology.New(4, topology.Custom, "/nonexistent/topology.txt", newRNG(42))
	require.NoError(t, err)

	_, err = b.Build()
	assert.Error(t, err)
}
