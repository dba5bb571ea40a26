package game

import (
	"fmt"
	"strings"
)

// World assigns every player their remaining hand.
type World [NumPlayers]Hand

func (w *World) Clone() World {
	var clone World
	for i := range w {
		clone[i] = w[i].Clone()
	}
	return clone
}

// Owner returns the player holding card.
func (w *World) Owner(card Card) (Player, bool) {
	for _, player := range Players() {
		if w[player].Contains(card) {
			return player, true
		}
	}
	return 0, false
}

// MaxHandLen is the size of the largest hand.
func (w *World) MaxHandLen() int {
	n := 0
	for i := range w {
		n = max(n, w[i].Len())
	}
	return n
}

// CheckCompatible panics unless the hand sizes match what the ledger says each player holds.
func (w *World) CheckCompatible(seq *Sequence) {
	remaining := seq.Remaining()
	for _, player := range Players() {
		if w[player].Len() != remaining[player] {
			panic(fmt.Sprintf("%s holds %d cards but the sequence implies %d", player, w[player].Len(), remaining[player]))
		}
	}
}

func (w *World) String() string {
	hands := make([]string, NumPlayers)
	for i := range w {
		hands[i] = w[i].String()
	}
	return strings.Join(hands, " | ")
}
