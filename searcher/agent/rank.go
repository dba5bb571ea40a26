package agent

import (
	"context"
	"fmt"
	"sync"

	"schafkopf/game"
	"schafkopf/sampler"
	"schafkopf/searcher"

	"golang.org/x/sync/errgroup"
)

// RankRules estimates how much player can expect to win with hand under rules when
// leader opens the deal. It searches random worlds a single line per position until
// the last cards, assuming selfish opponents.
func (s *Suggester) RankRules(ctx context.Context, rules game.Rules, stakes game.Stakes, leader, player game.Player, hand game.Hand) (float64, error) {
	seq := game.NewSequence(leader, game.LengthFromCardsPerPlayer(hand.Len()))
	worlds, err := sampler.ForeverRandom(seq, hand, player, s.rng(0))
	if err != nil {
		return 0, fmt.Errorf("failed to sample worlds: %w", err)
	}
	view := View{Rules: rules, Stakes: stakes, Player: player, Hand: hand, Seq: seq}

	var mu sync.Mutex
	total, samples := 0, 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.goroutines)
	sample := 0
	for world := range s.take(worlds, view) {
		i := sample
		sample++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			explorer := searcher.NewExplorer(rules, searcher.NewMinMax(rules, player, stakes),
				searcher.WithPruner(searcher.NewHintPruning(rules, player, stakes)),
				searcher.WithFilter(s.rankFilter(i)),
			)
			payout := explorer.Explore(&world, seq.Clone())[searcher.SelfishMin][player]
			mu.Lock()
			defer mu.Unlock()
			total += payout
			samples++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if samples == 0 {
		return 0, fmt.Errorf("%s cannot be played with %s", rules, hand)
	}
	return float64(total) / float64(samples), nil
}

func (s *Suggester) rankFilter(sample int) searcher.Filter {
	if s.seeded {
		return searcher.SeededBranchingFactor(1, 2, s.rng(uint64(sample)+1))
	}
	return searcher.BranchingFactor(1, 2)
}
