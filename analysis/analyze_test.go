package analysis

import (
	"context"
	"testing"

	"schafkopf/game"
	"schafkopf/rules"
	"schafkopf/searcher"
	"schafkopf/searcher/agent"

	"github.com/stretchr/testify/require"
)

func finishedDeal(t *testing.T) Deal {
	r := rules.NewRufspiel(0, game.Eichel, rules.DefaultPayoutParams())
	dealt := game.World{
		game.NewHand(game.MustParseCards("EO GO HO SO EK E9")...),
		game.NewHand(game.MustParseCards("EA EZ GA GZ GK G9")...),
		game.NewHand(game.MustParseCards("EU GU HU SU HA HZ")...),
		game.NewHand(game.MustParseCards("HK H9 SA SZ SK S9")...),
	}
	seq := game.NewSequence(0, game.Short)
	for _, card := range game.MustParseCards("EK EA HZ S9 EU H9 EO G9 GO GK GU HK HO GZ HU SK SO GA SU SZ E9 EZ HA SA") {
		require.True(t, dealt[seq.Current().Current()].Contains(card))
		seq.Play(card, r)
	}
	return Deal{Rules: r, Dealt: dealt, Seq: seq}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("replays the deal", func(t *testing.T) {
		deal := finishedDeal(t)

		analysis, err := NewAnalyzer(agent.NewSuggester(), 3).Analyze(ctx, deal)

		require.NoError(t, err)
		require.Equal(t, game.Payouts{60, 60, -60, -60}, analysis.Payouts)
		require.Positive(t, analysis.Checked)
		require.LessOrEqual(t, analysis.Visible(), len(analysis.Improvements))
		for _, impr := range analysis.Improvements {
			require.NotContains(t, impr.Cheating.Cards, impr.Card)
			require.Equal(t, analysis.Payouts[impr.Player], impr.Payout)
		}
	})

	t.Run("forced cards are never checked", func(t *testing.T) {
		analysis, err := NewAnalyzer(agent.NewSuggester(), 1).Analyze(ctx, finishedDeal(t))

		require.NoError(t, err)
		require.Zero(t, analysis.Checked)
		require.Empty(t, analysis.Improvements)
	})

	t.Run("rejects an unfinished deal", func(t *testing.T) {
		deal := finishedDeal(t)
		deal.Seq.Undo()

		_, err := NewAnalyzer(agent.NewSuggester(), 3).Analyze(ctx, deal)

		require.Error(t, err)
	})

	t.Run("rejects a deal that does not match the dealt hands", func(t *testing.T) {
		deal := finishedDeal(t)
		deal.Dealt[2], deal.Dealt[3] = deal.Dealt[3], deal.Dealt[2]

		_, err := NewAnalyzer(agent.NewSuggester(), 3).Analyze(ctx, deal)

		require.Error(t, err)
	})
}

func TestFinding(t *testing.T) {
	ea, ga, sa := game.NewCard(game.Eichel, game.Ass), game.NewCard(game.Gras, game.Ass), game.NewCard(game.Schelln, game.Ass)
	stats := func(card game.Card, guaranteed, selfish int) agent.CardStats {
		s := agent.CardStats{Card: card, Samples: 1}
		s.Min[searcher.Min] = guaranteed
		s.Min[searcher.SelfishMin] = selfish
		return s
	}
	suggestion := agent.Suggestion{Cards: []agent.CardStats{stats(ea, 30, 50), stats(ga, -30, -30), stats(sa, 30, 50)}}

	t.Run("worse card below the guaranteed payout", func(t *testing.T) {
		best, mistake := finding(ga, -30, suggestion)
		require.True(t, mistake)
		require.Equal(t, CardsAndPayout{Cards: []game.Card{ea, sa}, Payout: 50}, best)
	})

	t.Run("best card is never a mistake", func(t *testing.T) {
		_, mistake := finding(sa, -90, suggestion)
		require.False(t, mistake)
	})

	t.Run("reaching the guaranteed payout anyway", func(t *testing.T) {
		_, mistake := finding(ga, 30, suggestion)
		require.False(t, mistake)
	})
}
