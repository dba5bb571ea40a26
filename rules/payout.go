package rules

import "schafkopf/game"

const (
	PointsToWin   = 61
	SchneiderLine = 31 // A party below this is schneider
)

// PayoutParams are the tariff of a point based contract.
type PayoutParams struct {
	Base             int
	SchneiderSchwarz int
	Lauf             int
	LaufThreshold    int // Minimum number of laufende before they pay
}

func DefaultPayoutParams() PayoutParams {
	return PayoutParams{Base: 20, SchneiderSchwarz: 10, Lauf: 10, LaufThreshold: 3}
}

// laufende counts the consecutive top trumps that were dealt to the same party as the
// highest trump.
func laufende(cache *game.StateCache, length game.Length, primary func(game.Player) bool) int {
	trumps := trumpsDescending(length)
	top := primary(cache.Owner(trumps[0]))
	count := 0
	for _, trump := range trumps {
		if primary(cache.Owner(trump)) != top {
			break
		}
		count++
	}
	return count
}

func (p PayoutParams) laufBonus(n int) int {
	if n < p.LaufThreshold {
		return 0
	}
	return n * p.Lauf
}

// amount is the unsigned payout per player before stakes.
func (p PayoutParams) amount(loser game.PointsTricks, lauf int) int {
	amount := p.Base + p.laufBonus(lauf)
	if loser.Points < SchneiderLine {
		amount += p.SchneiderSchwarz
	}
	if loser.Tricks == 0 {
		amount += p.SchneiderSchwarz
	}
	return amount
}

// minWin is what a winning party collects at least, whether or not the losers end up
// schneider or schwarz.
func (p PayoutParams) minWin(lauf int) int {
	return p.Base + p.laufBonus(lauf)
}
