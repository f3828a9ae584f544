package fenics

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

const (
	DefTopology  = "ring"
	DefOutputDir = "results"
	DefBatchSize = 32
)

type Config struct {
	Experiment ExperimentConfig `toml:"experiment"`
	Data       DataConfig       `toml:"data"`
	Simulation SimulationConfig `toml:"simulation"`
}

// ExperimentConfig is fixed at construction and immutable for the lifetime
// of a run.
type ExperimentConfig struct {
	NumNodes     int     `toml:"num_nodes"`
	Alpha        float64 `toml:"alpha"`
	Topology     string  `toml:"topology"`
	TopologyFile string  `toml:"topology_file"`
	OutputDir    string  `toml:"output_dir"`
	BatchSize    int     `toml:"batch_size"`
	RandomSeed   int64   `toml:"random_seed"`
}

type DataConfig struct {
	TrainImages string `toml:"train_images"`
	TrainLabels string `toml:"train_labels"`
	TestImages  string `toml:"test_images"`
	TestLabels  string `toml:"test_labels"`
}

type SimulationConfig struct {
	Rounds        int `toml:"rounds"`
	NodesPerRound int `toml:"nodes_per_round"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Experiment.Topology == "" {
		cfg.Experiment.Topology = DefTopology
	}
	if cfg.Experiment.OutputDir == "" {
		cfg.Experiment.OutputDir = DefOutputDir
	}
	if cfg.Experiment.BatchSize == 0 {
		cfg.Experiment.BatchSize = DefBatchSize
	}

	if err := cfg.Experiment.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast, before any dataset work.
func (c ExperimentConfig) Validate() error {
	switch {
	case c.NumNodes <= 0:
		return fmt.Errorf("num_nodes must be positive, got %d", c.NumNodes)
	case c.Alpha <= 0:
		return fmt.Errorf("alpha must be positive, got %g", c.Alpha)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	case c.Topology == "custom" && c.TopologyFile == "":
		return errors.New("custom topology requires topology_file")
	default:
		return nil
	}
}
