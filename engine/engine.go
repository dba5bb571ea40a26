package engine

import (
	"context"

	"schafkopf/experiments/metrics"
	"schafkopf/game"
)

// MaxRedeals bounds how often a deal is thrown in because nobody can announce a contract.
const MaxRedeals = 100

// Result is a finished deal.
type Result struct {
	Rules       game.Rules
	Dealt       game.World
	Seq         *game.Sequence
	Payouts     game.Payouts
	GameMetric  metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}

type Engine interface {
	// Run deals the cards and plays them out until every trick is taken
	Run(ctx context.Context) (Result, error)
}
