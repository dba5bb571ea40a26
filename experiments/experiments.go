package experiments

import (
	"context"
	"fmt"
	"time"

	"schafkopf/engine"
	"schafkopf/experiments/metrics"
	"schafkopf/game"
	"schafkopf/meta"
	"schafkopf/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Options of a batch of deals.
type Options struct {
	Root  string // Results are stored below this directory
	Deals int    // Per matchup
	Seed  uint64
	Rank  bool // Declarers call the suit they rate best
}

func DefaultOptions() Options {
	return Options{Root: "experiments", Deals: meta.DEALS, Seed: 1}
}

var baseline = metrics.AgentConfig{ID: 0, Goroutines: meta.GO_ROUTINES, Samples: meta.SAMPLES}

// RunBranchingExperiment pairs wider searches against the baseline, which sits in seats
// 0 and 2.
func RunBranchingExperiment(ctx context.Context, options Options) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Samples: baseline.Samples, BranchingLo: 1, BranchingHi: 2},
		{ID: 2, Goroutines: baseline.Goroutines, Samples: baseline.Samples, BranchingLo: 2, BranchingHi: 4},
		{ID: 3, Goroutines: baseline.Goroutines, Samples: baseline.Samples, BranchingLo: 3, BranchingHi: 5},
	}
	return runExperiment(ctx, "branching", options, append(configs, baseline), againstBaseline(configs))
}

// RunPruningExperiment compares hint pruning and the snapshot cache to the plain search.
func RunPruningExperiment(ctx context.Context, options Options) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Samples: baseline.Samples, HintPruning: true},
		{ID: 2, Goroutines: baseline.Goroutines, Samples: baseline.Samples, Snapshots: true},
		{ID: 3, Goroutines: baseline.Goroutines, Samples: baseline.Samples, HintPruning: true, Snapshots: true},
	}
	return runExperiment(ctx, "pruning", options, append(configs, baseline), againstBaseline(configs))
}

// RunTemperatureExperiment pairs sampling agents against the baseline that always plays
// its best card.
func RunTemperatureExperiment(ctx context.Context, options Options) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Samples: baseline.Samples, Temperature: 5},
		{ID: 2, Goroutines: baseline.Goroutines, Samples: baseline.Samples, Temperature: meta.TEMPERATURE},
		{ID: 3, Goroutines: baseline.Goroutines, Samples: baseline.Samples, Temperature: 80},
	}
	return runExperiment(ctx, "temperature", options, append(configs, baseline), againstBaseline(configs))
}

func againstBaseline(configs []metrics.AgentConfig) [][]metrics.AgentConfig {
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config, baseline, config})
	}
	return matchUps
}

func runExperiment(ctx context.Context, name string, options Options, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) error {
	start := time.Now()
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		if len(matchUp) != game.NumPlayers {
			return fmt.Errorf("matchup %d seats %d agents", mi+1, len(matchUp))
		}
		log.Info().Msgf("starting matchup %d of %d with agents %+v...", mi+1, len(matchUps), matchUp)

		// Every matchup sees the same deals
		engineOptions := []engine.Option{engine.WithSeed(options.Seed)}
		if options.Rank {
			ranker := agent.NewSuggester(agent.WithSamples(meta.RANK_SAMPLES), agent.WithSeed(options.Seed))
			engineOptions = append(engineOptions, engine.WithRanker(ranker))
		}
		e := engine.NewLocal(agentsOf(matchUp, options.Seed), engineOptions...)
		for i := 0; i < options.Deals; i++ {
			result, err := e.Run(ctx)
			if err != nil {
				return fmt.Errorf("matchup %d deal %d: %w", mi+1, i+1, err)
			}
			count++
			record := metrics.GameRecord{ID: count, GameMetric: result.GameMetric}
			for seat, config := range matchUp {
				record.Agents[seat] = config.ID
			}
			gameRecords = append(gameRecords, record)
			for _, mm := range result.MoveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d deal %d with payouts %v", mi+1, len(matchUps), i+1, result.Payouts)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(options.Root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteSetup(metrics.Setup{
		Name:      name,
		Matchups:  matchUps,
		NumDeals:  options.Deals,
		Seed:      options.Seed,
		StartTime: start,
		EndTime:   time.Now(),
		Duration:  time.Since(start),
	})
	if err != nil {
		return err
	}
	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return nil
}

func agentsOf(matchUp []metrics.AgentConfig, seed uint64) [game.NumPlayers]agent.Agent {
	var agents [game.NumPlayers]agent.Agent
	for seat, config := range matchUp {
		agents[seat] = NewAgent(config, seed+uint64(seat))
	}
	return agents
}

// NewAgent builds the agent described by config.
func NewAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	options := []agent.Option{
		agent.WithSeed(seed),
		agent.WithGoroutines(config.Goroutines),
		agent.WithSamples(config.Samples),
	}
	if config.BranchingLo > 0 {
		options = append(options, agent.WithBranching(config.BranchingLo, config.BranchingHi))
	}
	if config.HintPruning {
		options = append(options, agent.WithHintPruning())
	}
	if config.Snapshots {
		options = append(options, agent.WithSnapshotCache())
	}
	suggester := agent.NewSuggester(options...)

	if config.Temperature > 0 {
		return agent.NewSamplingAgent(suggester, config.Temperature, rand.New(rand.NewSource(seed)))
	}
	return agent.NewEvaluationAgent(suggester)
}
