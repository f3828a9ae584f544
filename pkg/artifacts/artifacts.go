// Package artifacts writes experiment artifacts to the configured output
// directory: a per-run class-distribution summary and a DOT export of the
// communication topology. Callers treat failures as non-fatal.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
)

type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

type distributionFile struct {
	RunID      string              `json:"run_id"`
	ClassNames []string            `json:"class_names,omitempty"`
	Nodes      map[int]map[int]int `json:"nodes"`
}

// WriteDistribution persists the per-node class counts as indented JSON
// and returns the file path.
func (w *Writer) WriteDistribution(runID string, dist map[int]map[int]int, classNames []string) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("distribution_%s.json", runID))

	data, err := json.MarshalIndent(distributionFile{
		RunID:      runID,
		ClassNames: classNames,
		Nodes:      dist,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal distribution: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write distribution file: %w", err)
	}

	return path, nil
}

// WriteTopology persists the communication graph in DOT format and
// returns the file path.
func (w *Writer) WriteTopology(runID string, g graph.Graph, name string) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("topology_%s_%s.dot", name, runID))

	data, err := dot.Marshal(g, name, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal topology: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write topology file: %w", err)
	}

	return path, nil
}
