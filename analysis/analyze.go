// Package analysis looks for the cards that cost a player payout in a finished deal.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schafkopf/game"
	"schafkopf/meta"
	"schafkopf/sampler"
	"schafkopf/searcher"
	"schafkopf/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Deal is a finished deal as dealt and played.
type Deal struct {
	Rules  game.Rules
	Stakes game.Stakes
	Dealt  game.World
	Seq    *game.Sequence
}

// CardsAndPayout names the best cards of a position and the payout they guarantee
// against selfish opponents.
type CardsAndPayout struct {
	Cards  []game.Card
	Payout int
}

// Improvement is a card after which the player could no longer reach a payout that a
// better card would have guaranteed.
type Improvement struct {
	Trick    int
	Player   game.Player
	Card     game.Card
	Payout   int             // Realized payout of the player
	Cheating CardsAndPayout  // Best cards knowing every hand
	Visible  *CardsAndPayout // Best cards over all worlds the player considered possible, nil if the mistake was not visible
}

type Analysis struct {
	Payouts      game.Payouts
	Checked      int // Positions with an actual choice
	Improvements []Improvement
	Duration     time.Duration
}

// Visible counts the mistakes a player could have avoided without seeing other hands.
func (a Analysis) Visible() int {
	count := 0
	for _, impr := range a.Improvements {
		if impr.Visible != nil {
			count++
		}
	}
	return count
}

func (a Analysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "payouts %v, %d positions checked, %d mistakes (%d visible)\n",
		a.Payouts, a.Checked, len(a.Improvements), a.Visible())
	for _, impr := range a.Improvements {
		fmt.Fprintf(&b, "trick %d: %s played %s for %d, %v guaranteed %d",
			impr.Trick+1, impr.Player, impr.Card, impr.Payout, impr.Cheating.Cards, impr.Cheating.Payout)
		if impr.Visible != nil {
			fmt.Fprintf(&b, ", visible: %v guaranteed %d", impr.Visible.Cards, impr.Visible.Payout)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type Analyzer struct {
	suggester *agent.Suggester
	depth     int
}

// NewAnalyzer checks the cards played while a player held at most depth cards.
func NewAnalyzer(suggester *agent.Suggester, depth int) *Analyzer {
	if depth <= 0 {
		depth = meta.ANALYSIS_HAND_SIZE
	}
	return &Analyzer{suggester: suggester, depth: depth}
}

// Analyze replays deal and reports every card that cost its player payout.
func (a *Analyzer) Analyze(ctx context.Context, deal Deal) (Analysis, error) {
	start := time.Now()
	if !deal.Seq.IsFinished() {
		return Analysis{}, fmt.Errorf("deal is not finished after %d cards", deal.Seq.PlayedCount())
	}
	world := deal.Dealt.Clone()
	seq := game.NewSequence(deal.Seq.FirstLeader(), deal.Seq.Length())
	world.CheckCompatible(seq)

	analysis := Analysis{Payouts: payouts(deal)}
	for i, trick := range deal.Seq.Completed() {
		for j := 0; j < game.NumPlayers; j++ {
			player, card := trick.At(j)
			if !game.IsAllowed(deal.Rules, seq, world[player], card) {
				return Analysis{}, fmt.Errorf("%s cannot play %s in trick %d", player, card, i+1)
			}
			if world[player].Len() <= a.depth && len(deal.Rules.AllowedCards(seq, world[player])) > 1 {
				analysis.Checked++
				impr, found, err := a.check(ctx, deal, world, seq, card, analysis.Payouts[player])
				if err != nil {
					return Analysis{}, err
				}
				if found {
					impr.Trick = i
					analysis.Improvements = append(analysis.Improvements, impr)
				}
			}
			world[player].Play(card)
			seq.Play(card, deal.Rules)
		}
	}

	analysis.Duration = time.Since(start)
	log.Debug().
		Int("checked", analysis.Checked).
		Int("mistakes", len(analysis.Improvements)).
		Dur("duration", analysis.Duration).
		Msg("analyzed deal")
	return analysis, nil
}

// check searches the position before card is played, first knowing every hand and, if
// card turns out to be a mistake, again over every world the player considered possible.
func (a *Analyzer) check(ctx context.Context, deal Deal, world game.World, seq *game.Sequence, card game.Card, realized int) (Improvement, bool, error) {
	player := seq.Current().Current()
	view := agent.View{Rules: deal.Rules, Stakes: deal.Stakes, Player: player, Hand: world[player].Clone(), Seq: seq.Clone()}

	truth := func(yield func(game.World) bool) { yield(world.Clone()) }
	cheating, err := a.suggester.SuggestIn(ctx, view, truth, false)
	if err != nil {
		return Improvement{}, false, fmt.Errorf("failed to search the true world: %w", err)
	}
	best, mistake := finding(card, realized, cheating)
	if !mistake {
		return Improvement{}, false, nil
	}
	impr := Improvement{Player: player, Card: card, Payout: realized, Cheating: best}

	all, err := sampler.AllPossible(view.Seq, view.Hand, player)
	if err != nil {
		return Improvement{}, false, fmt.Errorf("failed to enumerate worlds: %w", err)
	}
	visible, err := a.suggester.SuggestIn(ctx, view, sampler.Filter(all, view.Rules, view.Seq), false)
	if err != nil {
		return Improvement{}, false, fmt.Errorf("failed to search possible worlds: %w", err)
	}
	if best, mistake := finding(card, realized, visible); mistake {
		impr.Visible = &best
	}
	return impr, true, nil
}

// finding reports whether playing card was a mistake: it is not among the best cards and
// the realized payout is below what the best cards guarantee.
func finding(card game.Card, realized int, suggestion agent.Suggestion) (CardsAndPayout, bool) {
	cards := suggestion.BestCards()
	if len(cards) == 0 {
		return CardsAndPayout{}, false
	}
	for _, c := range cards {
		if c == card {
			return CardsAndPayout{}, false
		}
	}
	stats, _ := suggestion.Stats(cards[0])
	if realized >= stats.Min[searcher.Min] {
		return CardsAndPayout{}, false
	}
	return CardsAndPayout{Cards: cards, Payout: stats.Min[searcher.SelfishMin]}, true
}

func payouts(deal Deal) game.Payouts {
	var empty game.World
	for _, player := range game.Players() {
		empty[player] = game.NewHand()
	}
	return deal.Rules.Payout(deal.Seq, game.NewStateCache(deal.Seq, &empty), deal.Stakes)
}
