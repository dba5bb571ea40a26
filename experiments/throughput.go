package experiments

import (
	"context"

	"schafkopf/experiments/metrics"
	"schafkopf/meta"
)

// RunThroughputExperiment seats the same config four times per matchup and raises the
// number of goroutines, so deals are comparable and only the search speed changes.
func RunThroughputExperiment(ctx context.Context, options Options) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: 1, Samples: meta.SAMPLES},
		{ID: 2, Goroutines: 2, Samples: meta.SAMPLES},
		{ID: 3, Goroutines: 4, Samples: meta.SAMPLES},
		{ID: 4, Goroutines: 8, Samples: meta.SAMPLES},
		{ID: 5, Goroutines: 16, Samples: meta.SAMPLES},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config, config, config})
	}

	return runExperiment(ctx, "throughput", options, configs, matchUps)
}
