package agent

import (
	"context"
	"os"
	"testing"

	"schafkopf/game"
	"schafkopf/rules"
	"schafkopf/sampler"
	"schafkopf/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var rufspiel = rules.NewRufspiel(0, game.Eichel, rules.DefaultPayoutParams())

func dealt() game.World {
	return game.World{
		game.NewHand(game.MustParseCards("EO GO HO SO EK E9")...),
		game.NewHand(game.MustParseCards("EA EZ GA GZ GK G9")...),
		game.NewHand(game.MustParseCards("EU GU HU SU HA HZ")...),
		game.NewHand(game.MustParseCards("HK H9 SA SZ SK S9")...),
	}
}

// position plays the given tricks of a deal in which the called ace falls first.
func position(tricks int) (game.World, *game.Sequence) {
	world := dealt()
	seq := game.NewSequence(0, game.Short)
	all := game.MustParseCards("EK EA HZ S9 EU H9 EO G9 GO GK GU HK HO GZ HU SK SO GA SU SZ E9 EZ HA SA")
	for _, card := range all[:tricks*game.NumPlayers] {
		player := seq.Current().Current()
		world[player].Play(card)
		seq.Play(card, rufspiel)
	}
	return world, seq
}

func viewOf(world game.World, seq *game.Sequence) View {
	player := seq.Current().Current()
	return View{Rules: rufspiel, Player: player, Hand: world[player].Clone(), Seq: seq}
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()

	t.Run("single legal card is returned without searching", func(t *testing.T) {
		world := dealt()
		seq := game.NewSequence(0, game.Short)
		world[0].Play(game.NewCard(game.Eichel, game.Koenig))
		seq.Play(game.NewCard(game.Eichel, game.Koenig), rufspiel)

		suggestion, err := NewSuggester().Suggest(ctx, viewOf(world, seq))

		require.NoError(t, err)
		require.Equal(t, game.MustParseCards("EA"), suggestion.BestCards())
		require.Zero(t, suggestion.Metrics.Nodes)
	})

	t.Run("every card is rated over the same worlds", func(t *testing.T) {
		world, seq := position(4)
		view := viewOf(world, seq)

		suggestion, err := NewSuggester(WithGoroutines(2)).Suggest(ctx, view)

		require.NoError(t, err)
		require.Len(t, suggestion.Cards, 2)
		samples := suggestion.Cards[0].Samples
		require.Positive(t, samples)
		require.LessOrEqual(t, samples, 90)
		for _, stats := range suggestion.Cards {
			require.Equal(t, samples, stats.Samples)
			for _, strategy := range searcher.Strategies() {
				require.LessOrEqual(t, stats.Min[strategy], stats.Max[strategy])
			}
		}
		require.Subset(t, view.Hand.Cards(), suggestion.BestCards())
		require.Positive(t, suggestion.Metrics.Nodes)
	})

	t.Run("result does not depend on the number of goroutines", func(t *testing.T) {
		world, seq := position(4)

		sequential, err := NewSuggester(WithGoroutines(1)).Suggest(ctx, viewOf(world, seq))
		require.NoError(t, err)
		parallel, err := NewSuggester(WithGoroutines(4)).Suggest(ctx, viewOf(world, seq))
		require.NoError(t, err)

		require.Equal(t, sequential.Cards, parallel.Cards)
	})

	t.Run("random worlds are reproducible with a seed", func(t *testing.T) {
		world, seq := position(2)
		options := []Option{WithSeed(5), WithSamples(6), WithExhaustiveHandSize(0), WithBranching(1, 2), WithGoroutines(3)}

		first, err := NewSuggester(options...).Suggest(ctx, viewOf(world, seq))
		require.NoError(t, err)
		second, err := NewSuggester(options...).Suggest(ctx, viewOf(world, seq))
		require.NoError(t, err)

		require.Equal(t, first.Cards, second.Cards)
		require.Equal(t, 6, first.Cards[0].Samples)
	})

	t.Run("falls back to enumerating when random worlds miss", func(t *testing.T) {
		world, seq := position(3)
		view := viewOf(world, seq)
		all, err := sampler.AllPossible(seq, view.Hand, view.Player)
		require.NoError(t, err)
		compatible := 0
		for range sampler.Filter(all, rufspiel, seq) {
			compatible++
		}
		s := NewSuggester(WithExhaustiveHandSize(0), WithSamples(4), WithSeed(1))
		s.maxRandomTries = 0

		suggestion, err := s.Suggest(ctx, view)

		require.NoError(t, err)
		require.Len(t, suggestion.Cards, len(rufspiel.AllowedCards(seq, view.Hand)))
		for _, stats := range suggestion.Cards {
			require.Equal(t, min(4, compatible), stats.Samples)
		}
		require.Subset(t, view.Hand.Cards(), suggestion.BestCards())
	})

	t.Run("pruning and snapshots keep the guaranteed payout sound", func(t *testing.T) {
		world, seq := position(2)
		view := viewOf(world, seq)
		truth := func(yield func(game.World) bool) { yield(world.Clone()) }

		exact, err := NewSuggester().SuggestIn(ctx, view, truth, false)
		require.NoError(t, err)
		fast, err := NewSuggester(WithHintPruning(), WithSnapshotCache()).SuggestIn(ctx, view, truth, false)
		require.NoError(t, err)

		for i, stats := range fast.Cards {
			require.LessOrEqual(t, stats.Min[searcher.Min], exact.Cards[i].Min[searcher.Min])
		}
	})

	t.Run("writes one trace per world and card", func(t *testing.T) {
		world, seq := position(4)
		view := viewOf(world, seq)
		dir := t.TempDir()
		truth := func(yield func(game.World) bool) { yield(world.Clone()) }

		_, err := NewSuggester(WithTraceDir(dir)).SuggestIn(ctx, view, truth, false)
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("stops on a canceled context", func(t *testing.T) {
		world, seq := position(4)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewSuggester().Suggest(canceled, viewOf(world, seq))

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("fails without legal cards", func(t *testing.T) {
		world, seq := position(6)
		view := View{Rules: rufspiel, Player: 0, Hand: world[0], Seq: seq}

		_, err := NewSuggester().Suggest(ctx, view)

		require.ErrorIs(t, err, ErrNoCards)
	})
}

func TestBestCards(t *testing.T) {
	stats := func(card string, minMin, minSelfish, sumSelfishMax int) CardStats {
		c := CardStats{Card: game.MustParseCards(card)[0], Samples: 1}
		c.Min[searcher.Min] = minMin
		c.Min[searcher.SelfishMin] = minSelfish
		c.Sum[searcher.SelfishMax] = sumSelfishMax
		return c
	}

	t.Run("guaranteed payout decides first", func(t *testing.T) {
		suggestion := Suggestion{Cards: []CardStats{stats("EA", -10, 50, 90), stats("GA", 10, 10, 10)}}
		require.Equal(t, game.MustParseCards("GA"), suggestion.BestCards())
	})

	t.Run("selfish opponents break ties", func(t *testing.T) {
		suggestion := Suggestion{Cards: []CardStats{stats("EA", 10, 20, 10), stats("GA", 10, 30, 10)}}
		require.Equal(t, game.MustParseCards("GA"), suggestion.BestCards())
	})

	t.Run("equal cards are all returned in card order", func(t *testing.T) {
		suggestion := Suggestion{Cards: []CardStats{stats("SA", 10, 20, 30), stats("EA", 10, 20, 30), stats("GA", 0, 20, 30)}}
		require.Equal(t, game.MustParseCards("EA SA"), suggestion.BestCards())
	})
}

func TestCardStatsMerge(t *testing.T) {
	card := game.NewCard(game.Eichel, game.Ass)
	a := newCardStats(card, [searcher.NumStrategies]int{-20, 10, 20, 60})
	b := newCardStats(card, [searcher.NumStrategies]int{-60, -20, 20, 20})
	c := newCardStats(card, [searcher.NumStrategies]int{20, 20, 20, 20})

	t.Run("merging is associative and commutative", func(t *testing.T) {
		require.Equal(t, a.Merge(b).Merge(c), a.Merge(b.Merge(c)))
		require.Equal(t, a.Merge(b).Merge(c), c.Merge(b).Merge(a))
	})

	t.Run("keeps extremes and sums", func(t *testing.T) {
		merged := a.Merge(b).Merge(c)
		require.Equal(t, 3, merged.Samples)
		require.Equal(t, [searcher.NumStrategies]int{-60, -20, 20, 20}, merged.Min)
		require.Equal(t, [searcher.NumStrategies]int{20, 20, 20, 60}, merged.Max)
		require.Equal(t, 10.0/3, merged.Mean(searcher.SelfishMin))
	})

	t.Run("empty statistics are neutral", func(t *testing.T) {
		require.Equal(t, a, CardStats{Card: card}.Merge(a))
	})

	t.Run("panics on different cards", func(t *testing.T) {
		other := newCardStats(game.NewCard(game.Gras, game.Ass), [searcher.NumStrategies]int{})
		require.Panics(t, func() { a.Merge(other) })
	})
}

func TestSamplingAgent(t *testing.T) {
	cards := []CardStats{
		{Card: game.NewCard(game.Eichel, game.Ass), Samples: 1, Sum: [searcher.NumStrategies]int{0, -40, 0, 0}},
		{Card: game.NewCard(game.Gras, game.Ass), Samples: 1, Sum: [searcher.NumStrategies]int{0, 40, 0, 0}},
	}

	t.Run("better cards are more likely", func(t *testing.T) {
		policy := adjustTemperature(cards, 20)
		require.InDelta(t, 1.0, policy[0]+policy[1], 1e-9)
		require.Greater(t, policy[1], policy[0])
	})

	t.Run("high temperature approaches uniform play", func(t *testing.T) {
		policy := adjustTemperature(cards, 1e9)
		require.InDelta(t, 0.5, policy[0], 1e-6)
	})

	t.Run("samples along the cumulative policy", func(t *testing.T) {
		policy := []float64{0.25, 0.75}
		require.Equal(t, cards[0].Card, sample(cards, policy, 0.1))
		require.Equal(t, cards[1].Card, sample(cards, policy, 0.5))
		require.Equal(t, cards[1].Card, sample(cards, policy, 0.9999999))
	})

	t.Run("plays a legal card", func(t *testing.T) {
		world, seq := position(4)
		view := viewOf(world, seq)
		agent := NewSamplingAgent(NewSuggester(), 10, rand.New(rand.NewSource(1)))

		card, _, err := agent.PlayCard(context.Background(), view)

		require.NoError(t, err)
		require.True(t, game.IsAllowed(rufspiel, seq, view.Hand, card))
	})
}

func TestEvaluationAgent(t *testing.T) {
	world, seq := position(4)
	view := viewOf(world, seq)

	card, metrics, err := NewEvaluationAgent(NewSuggester()).PlayCard(context.Background(), view)

	require.NoError(t, err)
	require.True(t, game.IsAllowed(rufspiel, seq, view.Hand, card))
	require.Positive(t, metrics.Nodes)
}

func TestRankRules(t *testing.T) {
	ctx := context.Background()
	world := dealt()
	suggester := NewSuggester(WithSamples(4), WithSeed(11))

	t.Run("rates a playable hand", func(t *testing.T) {
		rank, err := suggester.RankRules(ctx, rufspiel, game.Stakes{}, 0, 0, world[0])
		require.NoError(t, err)
		require.LessOrEqual(t, rank, 160.0, "no deal pays more than schwarz with every trump running")
	})

	t.Run("fails when the declarer holds the called ace", func(t *testing.T) {
		_, err := suggester.RankRules(ctx, rufspiel, game.Stakes{}, 0, 0, world[1])
		require.Error(t, err)
	})
}
