package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"schafkopf/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func TestRunExperiment(t *testing.T) {
	root := t.TempDir()
	fast := metrics.AgentConfig{ID: 1, Goroutines: 2, Samples: 4, BranchingLo: 1, BranchingHi: 2, HintPruning: true}
	sampling := metrics.AgentConfig{ID: 2, Goroutines: 2, Samples: 4, BranchingLo: 1, BranchingHi: 2, Snapshots: true, Temperature: 10}
	options := Options{Root: root, Deals: 1, Seed: 4}

	err := runExperiment(context.Background(), "test", options,
		[]metrics.AgentConfig{fast, sampling},
		[][]metrics.AgentConfig{{fast, sampling, fast, sampling}},
	)
	require.NoError(t, err)

	runs, err := os.ReadDir(filepath.Join(root, "test"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	for _, name := range []string{"setup.json", "agent_configs.csv", "game_records.csv", "move_records.csv"} {
		require.FileExists(t, filepath.Join(root, "test", runs[0].Name(), name))
	}
}

func TestRunExperimentRejectsIncompleteTables(t *testing.T) {
	config := metrics.AgentConfig{ID: 1}
	err := runExperiment(context.Background(), "test", Options{Root: t.TempDir(), Deals: 1},
		[]metrics.AgentConfig{config},
		[][]metrics.AgentConfig{{config, config}},
	)
	require.Error(t, err)
}

func TestNewAgent(t *testing.T) {
	require.NotNil(t, NewAgent(metrics.AgentConfig{ID: 1}, 1))
	require.NotNil(t, NewAgent(metrics.AgentConfig{ID: 2, Temperature: 5}, 1))
}
