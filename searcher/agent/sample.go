package agent

import (
	"context"
	"math"
	"sync"

	"schafkopf/game"
	"schafkopf/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	suggester   *Suggester
	temperature float64
	mu          sync.Mutex
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that draws cards with a probability that grows with
// their expected payout against selfish opponents.
func NewSamplingAgent(suggester *Suggester, temperature float64, rng *rand.Rand) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &samplingAgent{suggester: suggester, temperature: temperature, rng: rng}
}

func (a *samplingAgent) PlayCard(ctx context.Context, view View) (game.Card, searcher.SearchMetrics, error) {
	suggestion, err := a.suggester.Suggest(ctx, view)
	if err != nil {
		return 0, searcher.SearchMetrics{}, err
	}
	policy := adjustTemperature(suggestion.Cards, a.temperature)
	a.mu.Lock()
	defer a.mu.Unlock()
	return sample(suggestion.Cards, policy, a.rng.Float64()), suggestion.Metrics, nil
}

// adjustTemperature returns the softmax of the mean selfish-min payouts.
func adjustTemperature(cards []CardStats, temperature float64) []float64 {
	best := math.Inf(-1)
	for _, stats := range cards {
		best = math.Max(best, stats.Mean(searcher.SelfishMin))
	}
	sum := 0.0
	policy := make([]float64, len(cards))
	for i, stats := range cards {
		policy[i] = math.Exp((stats.Mean(searcher.SelfishMin) - best) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(cards []CardStats, policy []float64, sampled float64) game.Card {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return cards[i].Card
		}
	}
	return cards[len(cards)-1].Card // Fallback in case of rounding errors
}
