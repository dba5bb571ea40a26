package game

import "golang.org/x/exp/slices"

// TrumpOrSuit classifies a card under a contract: either trump, or a plain card of Suit.
type TrumpOrSuit struct {
	Trump bool
	Suit  Suit
}

func TrumpClass() TrumpOrSuit {
	return TrumpOrSuit{Trump: true}
}

func SuitClass(suit Suit) TrumpOrSuit {
	return TrumpOrSuit{Suit: suit}
}

// Hint is a payout bound a player is guaranteed at the current position, if known.
type Hint struct {
	Lower int
	Known bool
}

type Hints [NumPlayers]Hint

// Rules is a contract as seen by the search: which cards may be played, who takes a
// trick and what a finished deal pays.
type Rules interface {
	Winner
	// AllowedCards lists the legal cards for the player to move. It is never empty
	// while the player still holds cards.
	AllowedCards(seq *Sequence, hand Hand) []Card
	// Payout scores a finished deal for every player.
	Payout(seq *Sequence, cache *StateCache, stakes Stakes) Payouts
	// PayoutHints returns per-player lower bounds that hold for every continuation of
	// the current position. Players without a known bound are left unset.
	PayoutHints(seq *Sequence, world *World, cache *StateCache, stakes Stakes) Hints
	TrumpOrSuit(card Card) TrumpOrSuit
	// Strength orders cards of the same class; higher beats lower.
	Strength(card Card) int
	// Equivalence returns the snapshot keying for contracts whose outcome only depends
	// on party totals, or false if the contract has no such structure.
	Equivalence(cache *StateCache) (Equivalence, bool)
}

// Announced is implemented by contracts that a single declarer announces from their hand.
type Announced interface {
	Declarer() Player
	CanBePlayed(hand Hand) bool
}

// SnapshotKey identifies positions at a trick boundary that have identical futures.
type SnapshotKey struct {
	PrimaryPoints   int
	PrimaryTricks   int
	SecondaryPoints int
	SecondaryTricks int
	Next            Player
	Played          CardSet
}

type Equivalence interface {
	Key(seq *Sequence, cache *StateCache) SnapshotKey
}

// IsAllowed reports whether card is among the legal cards.
func IsAllowed(rules Rules, seq *Sequence, hand Hand, card Card) bool {
	return hand.Contains(card) && slices.Contains(rules.AllowedCards(seq, hand), card)
}

// SortTrumpFirst orders cards by trumps first, then suit, strongest first.
func SortTrumpFirst(rules Rules, cards []Card) {
	key := func(card Card) int {
		class := rules.TrumpOrSuit(card)
		group := 0
		if !class.Trump {
			group = 1 + int(class.Suit)
		}
		return group*100 - rules.Strength(card)
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		return key(a) - key(b)
	})
}
