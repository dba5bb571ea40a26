package game

import (
	"fmt"
	"strings"
)

// Trick holds up to one card per player in play order, starting with the leader.
type Trick struct {
	leader Player
	cards  [NumPlayers]Card
	size   int
}

func NewTrick(leader Player) Trick {
	return Trick{leader: leader}
}

// TrickOf builds a trick from cards given in play order.
func TrickOf(leader Player, cards ...Card) Trick {
	trick := NewTrick(leader)
	for _, card := range cards {
		trick.Push(card)
	}
	return trick
}

func (t *Trick) Leader() Player {
	return t.leader
}

func (t *Trick) Size() int {
	return t.size
}

func (t *Trick) IsEmpty() bool {
	return t.size == 0
}

func (t *Trick) IsFull() bool {
	return t.size == NumPlayers
}

// Current is the player who plays the next card.
func (t *Trick) Current() Player {
	if t.IsFull() {
		panic("full trick has no current player")
	}
	return t.leader.Next(t.size)
}

// First is the card that was led.
func (t *Trick) First() Card {
	if t.IsEmpty() {
		panic("empty trick has no first card")
	}
	return t.cards[0]
}

// At returns the i-th card in play order and the player who played it.
func (t *Trick) At(i int) (Player, Card) {
	return t.leader.Next(i), t.cards[i]
}

// Get returns the card the given player contributed, if any.
func (t *Trick) Get(player Player) (Card, bool) {
	i := (int(player) - int(t.leader) + NumPlayers) % NumPlayers
	if i >= t.size {
		return 0, false
	}
	return t.cards[i], true
}

func (t *Trick) Cards() []Card {
	return t.cards[:t.size]
}

func (t *Trick) Points() int {
	points := 0
	for _, card := range t.Cards() {
		points += card.Points()
	}
	return points
}

func (t *Trick) Push(card Card) {
	if t.IsFull() {
		panic("cannot push onto a full trick")
	}
	t.cards[t.size] = card
	t.size++
}

// Undo removes the most recent card.
func (t *Trick) Undo() Card {
	if t.IsEmpty() {
		panic("cannot undo an empty trick")
	}
	t.size--
	card := t.cards[t.size]
	t.cards[t.size] = 0
	return card
}

func (t Trick) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", t.leader)
	for _, card := range t.Cards() {
		b.WriteByte(' ')
		b.WriteString(card.String())
	}
	return b.String()
}
