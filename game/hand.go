package game

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

const MaxHandSize = 8

// Hand is the set of cards a player still holds, kept in ascending card order so that
// a Play followed by Add restores the exact same hand.
type Hand struct {
	cards []Card
}

func NewHand(cards ...Card) Hand {
	if len(cards) > MaxHandSize {
		panic(fmt.Sprintf("hand of %d cards exceeds %d", len(cards), MaxHandSize))
	}
	hand := Hand{cards: make([]Card, 0, MaxHandSize)}
	var seen CardSet
	for _, card := range cards {
		if seen.Contains(card) {
			panic(fmt.Sprintf("duplicate card %s in hand", card))
		}
		seen = seen.Add(card)
		hand.cards = append(hand.cards, card)
	}
	slices.Sort(hand.cards)
	return hand
}

func (h Hand) Cards() []Card {
	return h.cards
}

func (h Hand) Len() int {
	return len(h.cards)
}

func (h Hand) Contains(card Card) bool {
	_, found := slices.BinarySearch(h.cards, card)
	return found
}

// Play removes card from the hand.
func (h *Hand) Play(card Card) {
	i, found := slices.BinarySearch(h.cards, card)
	if !found {
		panic(fmt.Sprintf("card %s not in hand %s", card, h))
	}
	h.cards = slices.Delete(h.cards, i, i+1)
}

// Add returns a previously played card to the hand.
func (h *Hand) Add(card Card) {
	i, found := slices.BinarySearch(h.cards, card)
	if found {
		panic(fmt.Sprintf("card %s already in hand %s", card, h))
	}
	if len(h.cards) >= MaxHandSize {
		panic("hand is full")
	}
	h.cards = slices.Insert(h.cards, i, card)
}

func (h Hand) Clone() Hand {
	cards := make([]Card, len(h.cards), MaxHandSize)
	copy(cards, h.cards)
	return Hand{cards: cards}
}

// Set returns the hand's cards as a CardSet, which is independent of card order.
func (h Hand) Set() CardSet {
	var set CardSet
	for _, card := range h.cards {
		set = set.Add(card)
	}
	return set
}

func (h Hand) String() string {
	names := make([]string, len(h.cards))
	for i, card := range h.cards {
		names[i] = card.String()
	}
	return strings.Join(names, " ")
}
