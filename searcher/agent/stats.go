package agent

import (
	"fmt"

	"schafkopf/game"
	"schafkopf/searcher"

	"golang.org/x/exp/slices"
)

// CardStats aggregates the fixed player's payout after playing Card over all searched worlds.
type CardStats struct {
	Card    game.Card
	Samples int
	Min     [searcher.NumStrategies]int // Lowest payout per strategy
	Max     [searcher.NumStrategies]int // Highest payout per strategy
	Sum     [searcher.NumStrategies]int
}

func newCardStats(card game.Card, values [searcher.NumStrategies]int) CardStats {
	return CardStats{Card: card, Samples: 1, Min: values, Max: values, Sum: values}
}

// Merge combines the statistics of the same card from disjoint sets of worlds.
func (c CardStats) Merge(other CardStats) CardStats {
	if c.Card != other.Card {
		panic(fmt.Sprintf("cannot merge statistics of %s and %s", c.Card, other.Card))
	}
	if c.Samples == 0 {
		return other
	}
	if other.Samples == 0 {
		return c
	}
	merged := CardStats{Card: c.Card, Samples: c.Samples + other.Samples}
	for _, strategy := range searcher.Strategies() {
		merged.Min[strategy] = min(c.Min[strategy], other.Min[strategy])
		merged.Max[strategy] = max(c.Max[strategy], other.Max[strategy])
		merged.Sum[strategy] = c.Sum[strategy] + other.Sum[strategy]
	}
	return merged
}

func (c CardStats) Mean(strategy searcher.Strategy) float64 {
	if c.Samples == 0 {
		return 0
	}
	return float64(c.Sum[strategy]) / float64(c.Samples)
}

func (c CardStats) String() string {
	return fmt.Sprintf("%s: min %v max %v mean selfish-min %.1f (%d samples)",
		c.Card, c.Min, c.Max, c.Mean(searcher.SelfishMin), c.Samples)
}

// Suggestion rates the legal cards of one position.
type Suggestion struct {
	Cards   []CardStats
	Metrics searcher.SearchMetrics
}

func (s Suggestion) Stats(card game.Card) (CardStats, bool) {
	for _, stats := range s.Cards {
		if stats.Card == card {
			return stats, true
		}
	}
	return CardStats{}, false
}

// compare orders cards by guaranteed payout, then by the payout against selfish
// opponents, then by the expected payout against selfish opponents.
func compare(a, b CardStats) int {
	if d := a.Min[searcher.Min] - b.Min[searcher.Min]; d != 0 {
		return d
	}
	if d := a.Min[searcher.SelfishMin] - b.Min[searcher.SelfishMin]; d != 0 {
		return d
	}
	switch ma, mb := a.Mean(searcher.SelfishMax), b.Mean(searcher.SelfishMax); {
	case ma < mb:
		return -1
	case ma > mb:
		return 1
	}
	return 0
}

// BestCards returns the cards that no other card beats, in card order.
func (s Suggestion) BestCards() []game.Card {
	if len(s.Cards) == 0 {
		return nil
	}
	best := s.Cards[0]
	for _, stats := range s.Cards[1:] {
		if compare(stats, best) > 0 {
			best = stats
		}
	}
	cards := []game.Card{}
	for _, stats := range s.Cards {
		if compare(stats, best) == 0 {
			cards = append(cards, stats.Card)
		}
	}
	slices.Sort(cards)
	return cards
}

// reduce merges the per world statistics card by card.
func reduce(results [][]CardStats) []CardStats {
	merged := slices.Clone(results[0])
	for _, stats := range results[1:] {
		for i := range merged {
			merged[i] = merged[i].Merge(stats[i])
		}
	}
	return merged
}
