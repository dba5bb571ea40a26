package rules

import "schafkopf/game"

// Trumps of a Rufspiel from highest to lowest: all Ober, all Unter, then Herz.
var rufspielTrumps = func() []game.Card {
	trumps := []game.Card{}
	for _, rank := range []game.Rank{game.Ober, game.Unter} {
		for _, suit := range game.Suits() {
			trumps = append(trumps, game.NewCard(suit, rank))
		}
	}
	for _, rank := range []game.Rank{game.Ass, game.Zehn, game.Koenig, game.Nine, game.Eight, game.Seven} {
		trumps = append(trumps, game.NewCard(game.Herz, rank))
	}
	return trumps
}()

var suitStrength = map[game.Rank]int{
	game.Ass:    6,
	game.Zehn:   5,
	game.Koenig: 4,
	game.Nine:   3,
	game.Eight:  2,
	game.Seven:  1,
}

func isTrump(card game.Card) bool {
	return card.Rank() == game.Ober || card.Rank() == game.Unter || card.Suit() == game.Herz
}

func trumpOrSuit(card game.Card) game.TrumpOrSuit {
	if isTrump(card) {
		return game.TrumpClass()
	}
	return game.SuitClass(card.Suit())
}

func strength(card game.Card) int {
	if isTrump(card) {
		for i, trump := range rufspielTrumps {
			if trump == card {
				return len(rufspielTrumps) - i
			}
		}
	}
	return suitStrength[card.Rank()]
}

// trickWinner returns the player of the highest trump, or of the highest card following
// the led suit if nobody trumped.
func trickWinner(trick *game.Trick) game.Player {
	if !trick.IsFull() {
		panic("trick winner of an incomplete trick")
	}
	winner, best := trick.At(0)
	for i := 1; i < trick.Size(); i++ {
		player, card := trick.At(i)
		if beats(card, best) {
			winner, best = player, card
		}
	}
	return winner
}

func beats(card, best game.Card) bool {
	switch {
	case isTrump(card) && !isTrump(best):
		return true
	case trumpOrSuit(card) != trumpOrSuit(best):
		return false
	default:
		return strength(card) > strength(best)
	}
}

// trumpsDescending lists the trumps that exist in a deck of the given length.
func trumpsDescending(length game.Length) []game.Card {
	trumps := make([]game.Card, 0, len(rufspielTrumps))
	for _, card := range rufspielTrumps {
		if length.Supports(card) {
			trumps = append(trumps, card)
		}
	}
	return trumps
}
