package cli

import (
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/fenics-sim/fenics/pkg/topology"
)

var (
	topologyFile string
	topologySeed int64
)

// NewTopologyCmd previews a topology without running an experiment.
func NewTopologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topology <kind> <num_nodes>",
		Short: "Preview topology",
		Long:  `Build a topology of the given kind and print its edge list.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			numNodes, err := strconv.Atoi(args[1])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			rng := rand.New(rand.NewSource(uint64(topologySeed)))
			builder, err := topology.New(numNodes, topology.Kind(args[0]), topologyFile, rng)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			g, err := builder.Build()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			type edge struct {
				From int `json:"from"`
				To   int `json:"to"`
			}
			var edges []edge
			it := g.Edges()
			for it.Next() {
				e := it.Edge()
				u, v := int(e.From().ID()), int(e.To().ID())
				if u > v {
					u, v = v, u
				}
				edges = append(edges, edge{From: u, To: v})
			}

			logJSONCmd(*cmd, map[string]any{
				"name":  builder.Name(),
				"nodes": numNodes,
				"edges": edges,
			})
		},
	}

	cmd.Flags().StringVar(&topologyFile, "file", "", "Edge list file for the custom topology")
	cmd.Flags().Int64Var(&topologySeed, "seed", 0, "Seed for the random topology")

	return cmd
}
