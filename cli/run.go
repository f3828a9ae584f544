package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenics-sim/fenics"
	"github.com/fenics-sim/fenics/datamodule"
	"github.com/fenics-sim/fenics/pkg/artifacts"
	"github.com/fenics-sim/fenics/pkg/dataset"
	"github.com/fenics-sim/fenics/simulation"
)

const (
	defSyntheticSize  = 10000
	defSyntheticTest  = 2000
	defSyntheticClass = 10
)

var configPath string

// NewRunCmd runs a full experiment from a TOML config: dataset load,
// Dirichlet partitioning, topology construction, and the simulated
// round loop with a batch-walking trainer.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run experiment",
		Long:  `Partition the dataset across nodes, build the topology, and simulate selection rounds.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg, err := fenics.LoadConfig(configPath)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			train, test, err := loadDatasets(cfg.Data)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			art, err := artifacts.NewWriter(cfg.Experiment.OutputDir)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			svc, err := datamodule.NewService(cfg.Experiment, train, test, art, logger)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			ctx := cmd.Context()
			if err := svc.Setup(ctx); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Data module setup complete")

			sizes, err := svc.DataSizes(ctx)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, sizes)

			rounds := cfg.Simulation.Rounds
			if rounds == 0 {
				return
			}
			perRound := cfg.Simulation.NodesPerRound
			if perRound == 0 {
				perRound = cfg.Experiment.NumNodes
			}

			runner, err := simulation.NewRunner(svc, simulation.NewWalkTrainer(), rounds, perRound, cfg.Experiment.RandomSeed, logger)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			results, err := runner.Run(ctx)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, results)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fenics.toml", "Path to the experiment TOML config")

	return cmd
}

// loadDatasets reads the IDX pairs named in the config, or falls back to a
// synthetic dataset when no files are configured.
func loadDatasets(cfg fenics.DataConfig) (train, test dataset.Dataset, err error) {
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
