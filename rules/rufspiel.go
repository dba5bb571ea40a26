package rules

import (
	"fmt"

	"schafkopf/game"
)

var (
	_ game.Rules     = (*Rufspiel)(nil)
	_ game.Announced = (*Rufspiel)(nil)
)

// Rufspiel is the called-ace contract: the declarer calls the ace of a plain suit and
// plays together with whoever holds it.
type Rufspiel struct {
	declarer game.Player
	suit     game.Suit
	params   PayoutParams
}

func NewRufspiel(declarer game.Player, suit game.Suit, params PayoutParams) *Rufspiel {
	if suit == game.Herz {
		panic("cannot call the Herz ace")
	}
	return &Rufspiel{declarer: declarer, suit: suit, params: params}
}

func (r *Rufspiel) String() string {
	return fmt.Sprintf("Rufspiel mit der %s-Sau von %s", r.suit, r.declarer)
}

func (r *Rufspiel) Declarer() game.Player {
	return r.declarer
}

func (r *Rufspiel) Suit() game.Suit {
	return r.suit
}

// Rufsau is the called ace.
func (r *Rufspiel) Rufsau() game.Card {
	return game.NewCard(r.suit, game.Ass)
}

func (r *Rufspiel) isCalledSuit(card game.Card) bool {
	return trumpOrSuit(card) == game.SuitClass(r.suit)
}

// CanBePlayed requires the declarer to hold the called suit but not its ace.
func (r *Rufspiel) CanBePlayed(hand game.Hand) bool {
	count := 0
	for _, card := range hand.Cards() {
		if r.isCalledSuit(card) {
			if card.Rank() == game.Ass {
				return false
			}
			count++
		}
	}
	return count > 0
}

func (r *Rufspiel) TrickWinner(trick *game.Trick) game.Player {
	return trickWinner(trick)
}

func (r *Rufspiel) TrumpOrSuit(card game.Card) game.TrumpOrSuit {
	return trumpOrSuit(card)
}

func (r *Rufspiel) Strength(card game.Card) int {
	return strength(card)
}

func (r *Rufspiel) AllowedCards(seq *game.Sequence, hand game.Hand) []game.Card {
	if seq.Current().IsEmpty() {
		return r.allowedLeading(seq, hand)
	}
	return r.allowedFollowing(seq, hand)
}

func (r *Rufspiel) allowedLeading(seq *game.Sequence, hand game.Hand) []game.Card {
	if r.calledSuitResolved(seq) || !hand.Contains(r.Rufsau()) || r.countCalledSuit(hand) >= 4 {
		return cloneCards(hand)
	}
	// The holder of the called ace may only lead the called suit with the ace itself
	return filterCards(hand, func(card game.Card) bool {
		return !r.isCalledSuit(card) || card == r.Rufsau()
	})
}

func (r *Rufspiel) allowedFollowing(seq *game.Sequence, hand game.Hand) []game.Card {
	if hand.Len() <= 1 {
		return cloneCards(hand)
	}
	current := seq.Current()
	player := current.Current()
	ranAway := r.ranAway(seq, player)
	first := current.First()
	if r.isCalledSuit(first) && hand.Contains(r.Rufsau()) && !ranAway {
		return []game.Card{r.Rufsau()}
	}
	class := trumpOrSuit(first)
	allowed := filterCards(hand, func(card game.Card) bool {
		return card != r.Rufsau() && trumpOrSuit(card) == class
	})
	if len(allowed) > 0 {
		return allowed
	}
	if ranAway {
		return cloneCards(hand)
	}
	return filterCards(hand, func(card game.Card) bool {
		return card != r.Rufsau()
	})
}

// calledSuitResolved reports whether the called suit has been led or the ace has been played.
func (r *Rufspiel) calledSuitResolved(seq *game.Sequence) bool {
	completed := seq.Completed()
	for i := range completed {
		if r.isCalledSuit(completed[i].First()) {
			return true
		}
		for _, card := range completed[i].Cards() {
			if card == r.Rufsau() {
				return true
			}
		}
	}
	return false
}

// ranAway reports whether player led the called suit in an earlier trick.
func (r *Rufspiel) ranAway(seq *game.Sequence, player game.Player) bool {
	completed := seq.Completed()
	for i := range completed {
		if completed[i].Leader() == player && r.isCalledSuit(completed[i].First()) {
			return true
		}
	}
	return false
}

func (r *Rufspiel) countCalledSuit(hand game.Hand) int {
	return len(filterCards(hand, r.isCalledSuit))
}

func (r *Rufspiel) parties(cache *game.StateCache) func(game.Player) bool {
	partner := cache.Owner(r.Rufsau())
	if partner == r.declarer {
		panic(fmt.Sprintf("declarer %s holds the called ace", r.declarer))
	}
	return func(player game.Player) bool {
		return player == r.declarer || player == partner
	}
}

func (r *Rufspiel) Payout(seq *game.Sequence, cache *game.StateCache, stakes game.Stakes) game.Payouts {
	if !seq.IsFinished() {
		panic("payout of an unfinished deal")
	}
	primary := r.parties(cache)
	primaryStats := cache.PartyStats(primary)
	secondaryStats := cache.PartyStats(func(p game.Player) bool { return !primary(p) })
	lauf := laufende(cache, seq.Length(), primary)

	primaryWins := primaryStats.Points >= PointsToWin
	loser := primaryStats
	if primaryWins {
		loser = secondaryStats
	}
	amount := r.params.amount(loser, lauf) * stakes.Multiplier()

	var payouts game.Payouts
	for _, player := range game.Players() {
		won := primary(player) == primaryWins
		if won {
			payouts[player] = amount
		} else {
			payouts[player] = -amount
		}
		if primary(player) {
			payouts[player] += stockShare(stakes, primaryWins)
		}
	}
	return payouts
}

// PayoutHints are known once either party has secured the win.
func (r *Rufspiel) PayoutHints(seq *game.Sequence, world *game.World, cache *game.StateCache, stakes game.Stakes) game.Hints {
	var hints game.Hints
	primary := r.parties(cache)
	primaryStats := cache.PartyStats(primary)
	secondaryStats := cache.PartyStats(func(p game.Player) bool { return !primary(p) })

	var primaryWins bool
	switch {
	case primaryStats.Points >= PointsToWin:
		primaryWins = true
	case secondaryStats.Points > 120-PointsToWin:
		primaryWins = false
	default:
		return hints
	}

	lauf := laufende(cache, seq.Length(), primary)
	loser := primaryStats
	if primaryWins {
		loser = secondaryStats
	}
	win := r.params.minWin(lauf) * stakes.Multiplier()
	loss := r.params.amount(loser, lauf) * stakes.Multiplier()
	for _, player := range game.Players() {
		lower := -loss
		if primary(player) == primaryWins {
			lower = win
		}
		if primary(player) {
			lower += stockShare(stakes, primaryWins)
		}
		hints[player] = game.Hint{Lower: lower, Known: true}
	}
	return hints
}

func stockShare(stakes game.Stakes, primaryWins bool) int {
	if primaryWins {
		return stakes.Stock / 2
	}
	return -stakes.Stock / 2
}

func (r *Rufspiel) Equivalence(cache *game.StateCache) (game.Equivalence, bool) {
	return twoParties{primary: r.parties(cache)}, true
}

// twoParties keys positions by the totals of two fixed parties.
type twoParties struct {
	primary func(game.Player) bool
}

func (t twoParties) Key(seq *game.Sequence, cache *game.StateCache) game.SnapshotKey {
	primary := cache.PartyStats(t.primary)
	secondary := cache.PartyStats(func(p game.Player) bool { return !t.primary(p) })
	return game.SnapshotKey{
		PrimaryPoints:   primary.Points,
		PrimaryTricks:   primary.Tricks,
		SecondaryPoints: secondary.Points,
		SecondaryTricks: secondary.Tricks,
		Next:            seq.Current().Leader(),
		Played:          seq.Played(),
	}
}

func cloneCards(hand game.Hand) []game.Card {
	return append([]game.Card(nil), hand.Cards()...)
}

func filterCards(hand game.Hand, keep func(game.Card) bool) []game.Card {
	cards := []game.Card{}
	for _, card := range hand.Cards() {
		if keep(card) {
			cards = append(cards, card)
		}
	}
	return cards
}
