package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/fenics-sim/fenics/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fenics",
		Short: "Fenics experiment runner",
		Long:  `Fenics partitions a labeled dataset across simulated federated-learning nodes and runs selection rounds over them.`,
	}

	rootCmd.AddCommand(cli.NewRunCmd())
	rootCmd.AddCommand(cli.NewTopologyCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
