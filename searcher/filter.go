package searcher

import (
	"fmt"

	"schafkopf/game"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Filter narrows down the legal cards of a position before they are explored. It may
// reorder and shrink cards in place but must keep at least one card.
type Filter func(seq *game.Sequence, cards []game.Card) []game.Card

// BranchingFactor explores a random subset of between lo and hi-1 cards at positions
// with more than hi legal cards.
func BranchingFactor(lo, hi int) Filter {
	return branchingFactor(lo, hi, frand.Intn, frand.Shuffle)
}

// SeededBranchingFactor is BranchingFactor with a reproducible random source. The
// returned filter must not be shared between goroutines.
func SeededBranchingFactor(lo, hi int, rng *rand.Rand) Filter {
	return branchingFactor(lo, hi, rng.Intn, rng.Shuffle)
}

func branchingFactor(lo, hi int, intn func(int) int, shuffle func(int, func(i, j int))) Filter {
	if lo < 1 || hi <= lo {
		panic(fmt.Sprintf("invalid branching factor [%d, %d)", lo, hi))
	}
	return func(seq *game.Sequence, cards []game.Card) []game.Card {
		if len(cards) <= hi {
			return cards
		}
		shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
		return cards[:lo+intn(hi-lo)]
	}
}
