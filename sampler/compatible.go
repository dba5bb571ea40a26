package sampler

import (
	"iter"

	"schafkopf/game"
)

// Compatible reports whether world could have led to seq: replayed from the hands as
// dealt, every card in the ledger must have been legal, and an announced contract must
// have been playable by its declarer.
func Compatible(world *game.World, rules game.Rules, seq *game.Sequence) bool {
	dealt := world.Clone()
	tricks := seq.Visible()
	for i := range tricks {
		for j := 0; j < tricks[i].Size(); j++ {
			player, card := tricks[i].At(j)
			if dealt[player].Len() >= game.MaxHandSize || dealt[player].Contains(card) {
				return false
			}
			dealt[player].Add(card)
		}
	}
	if announced, ok := rules.(game.Announced); ok && !announced.CanBePlayed(dealt[announced.Declarer()]) {
		return false
	}

	replay := game.NewSequence(seq.FirstLeader(), seq.Length())
	for i := range tricks {
		for j := 0; j < tricks[i].Size(); j++ {
			player, card := tricks[i].At(j)
			if replay.Current().Current() != player || !game.IsAllowed(rules, replay, dealt[player], card) {
				return false
			}
			dealt[player].Play(card)
			replay.Play(card, rules)
		}
	}
	return true
}

// Filter drops the worlds that are not compatible with the ledger.
func Filter(worlds iter.Seq[game.World], rules game.Rules, seq *game.Sequence) iter.Seq[game.World] {
	return func(yield func(game.World) bool) {
		for world := range worlds {
			if Compatible(&world, rules, seq) && !yield(world) {
				return
			}
		}
	}
}
