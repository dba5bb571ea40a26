// Package sampler turns what one player knows about a deal into complete worlds that
// can be searched.
package sampler

import (
	"fmt"
	"iter"

	"schafkopf/game"

	"golang.org/x/exp/rand"
)

// Unplayed lists the cards of the deck that are neither in the ledger nor in hand.
func Unplayed(seq *game.Sequence, hand game.Hand) []game.Card {
	known := seq.Played() | hand.Set()
	cards := []game.Card{}
	for _, card := range seq.Length().Cards() {
		if !known.Contains(card) {
			cards = append(cards, card)
		}
	}
	return cards
}

// unknown are the cards to distribute and how many of them each other player receives.
type unknown struct {
	fixed  game.Player
	hand   game.Hand
	cards  []game.Card
	others []game.Player
	sizes  []int
}

func newUnknown(seq *game.Sequence, hand game.Hand, fixed game.Player) (*unknown, error) {
	remaining := seq.Remaining()
	if hand.Len() != remaining[fixed] {
		return nil, fmt.Errorf("hand of %s has %d cards, expected %d", fixed, hand.Len(), remaining[fixed])
	}
	u := &unknown{fixed: fixed, hand: hand, cards: Unplayed(seq, hand)}
	total := 0
	for _, player := range game.Players() {
		if player != fixed {
			u.others = append(u.others, player)
			u.sizes = append(u.sizes, remaining[player])
			total += remaining[player]
		}
	}
	if total != len(u.cards) {
		return nil, fmt.Errorf("%d unknown cards for %d open places", len(u.cards), total)
	}
	return u, nil
}

func (u *unknown) world(hands [][]game.Card) game.World {
	var world game.World
	world[u.fixed] = u.hand.Clone()
	for i, player := range u.others {
		world[player] = game.NewHand(hands[i]...)
	}
	return world
}

// AllPossible yields every distribution of the unknown cards among the other players.
// For N unknown cards and hand sizes a, b, c these are C(N,a)*C(N-a,b) worlds.
func AllPossible(seq *game.Sequence, hand game.Hand, fixed game.Player) (iter.Seq[game.World], error) {
	u, err := newUnknown(seq, hand, fixed)
	if err != nil {
		return nil, err
	}
	return func(yield func(game.World) bool) {
		hands := make([][]game.Card, len(u.others))
		var assign func(i int, rest []game.Card) bool
		assign = func(i int, rest []game.Card) bool {
			if i == len(u.others)-1 {
				hands[i] = rest
				return yield(u.world(hands))
			}
			return combinations(rest, u.sizes[i], func(chosen, left []game.Card) bool {
				hands[i] = chosen
				return assign(i+1, left)
			})
		}
		assign(0, u.cards)
	}, nil
}

// combinations calls fn with every k-subset of cards and the cards left over, until fn
// returns false.
func combinations(cards []game.Card, k int, fn func(chosen, left []game.Card) bool) bool {
	chosen := make([]game.Card, 0, k)
	var pick func(start int) bool
	pick = func(start int) bool {
		if len(chosen) == k {
			left := make([]game.Card, 0, len(cards)-k)
			j := 0
			for _, card := range cards {
				if j < len(chosen) && chosen[j] == card {
					j++
					continue
				}
				left = append(left, card)
			}
			return fn(append([]game.Card(nil), chosen...), left)
		}
		for i := start; i <= len(cards)-(k-len(chosen)); i++ {
			chosen = append(chosen, cards[i])
			ok := pick(i + 1)
			chosen = chosen[:len(chosen)-1]
			if !ok {
				return false
			}
		}
		return true
	}
	return pick(0)
}

// ForeverRandom yields uniformly random distributions of the unknown cards without end.
func ForeverRandom(seq *game.Sequence, hand game.Hand, fixed game.Player, rng *rand.Rand) (iter.Seq[game.World], error) {
	u, err := newUnknown(seq, hand, fixed)
	if err != nil {
		return nil, err
	}
	return func(yield func(game.World) bool) {
		cards := append([]game.Card(nil), u.cards...)
		hands := make([][]game.Card, len(u.others))
		for {
			rng.Shuffle(len(cards), func(i, j int) {
				cards[i], cards[j] = cards[j], cards[i]
			})
			rest := cards
			for i, size := range u.sizes {
				hands[i] = rest[:size]
				rest = rest[size:]
			}
			if !yield(u.world(hands)) {
				return
			}
		}
	}, nil
}
