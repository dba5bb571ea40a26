package agent

import (
	"context"

	"schafkopf/game"
	"schafkopf/searcher"
)

type evaluationAgent struct {
	suggester *Suggester
}

// NewEvaluationAgent returns an agent that always plays its best card.
func NewEvaluationAgent(suggester *Suggester) Agent {
	return evaluationAgent{suggester: suggester}
}

func (a evaluationAgent) PlayCard(ctx context.Context, view View) (game.Card, searcher.SearchMetrics, error) {
	suggestion, err := a.suggester.Suggest(ctx, view)
	if err != nil {
		return 0, searcher.SearchMetrics{}, err
	}
	return suggestion.BestCards()[0], suggestion.Metrics, nil
}
