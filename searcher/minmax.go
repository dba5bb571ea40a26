package searcher

import (
	"schafkopf/game"
)

// Aggregator turns terminal positions into outcomes and folds the outcomes of sibling
// cards into the outcome of their parent.
type Aggregator interface {
	Terminal(seq *game.Sequence, cache *game.StateCache) Outcome
	// Combine folds next into acc for a node where mover chose the card. It must be
	// associative and commutative over the children of one node.
	Combine(mover game.Player, acc, next Outcome) Outcome
}

// MinMax computes the payout bounds of a fixed player under the four strategies.
type MinMax struct {
	rules  game.Rules
	fixed  game.Player
	stakes game.Stakes
}

func NewMinMax(rules game.Rules, fixed game.Player, stakes game.Stakes) *MinMax {
	return &MinMax{rules: rules, fixed: fixed, stakes: stakes}
}

func (m *MinMax) Fixed() game.Player {
	return m.fixed
}

func (m *MinMax) Stakes() game.Stakes {
	return m.stakes
}

func (m *MinMax) Terminal(seq *game.Sequence, cache *game.StateCache) Outcome {
	return TerminalOutcome(m.rules.Payout(seq, cache, m.stakes))
}

func (m *MinMax) Combine(mover game.Player, acc, next Outcome) Outcome {
	if mover == m.fixed {
		for _, strategy := range Strategies() {
			acc[strategy] = m.pick(acc[strategy], next[strategy], m.fixed, 1)
		}
		return acc
	}
	acc[Min] = m.pick(acc[Min], next[Min], m.fixed, -1)
	acc[SelfishMin] = m.selfish(mover, acc[SelfishMin], next[SelfishMin], -1)
	acc[SelfishMax] = m.selfish(mover, acc[SelfishMax], next[SelfishMax], 1)
	acc[Max] = m.pick(acc[Max], next[Max], m.fixed, 1)
	return acc
}

// pick keeps the vector with the larger sign*payouts[player]. Equal keys fall back to
// the whole vector so that the result does not depend on the order of the children.
func (m *MinMax) pick(a, b game.Payouts, player game.Player, sign int) game.Payouts {
	switch d := sign * (b[player] - a[player]); {
	case d > 0:
		return b
	case d < 0:
		return a
	}
	return tieBreak(a, b)
}

// selfish lets mover maximize their own payout and settles ties on the fixed player's
// payout in the direction of sign.
func (m *MinMax) selfish(mover game.Player, a, b game.Payouts, sign int) game.Payouts {
	switch {
	case b[mover] > a[mover]:
		return b
	case b[mover] < a[mover]:
		return a
	}
	return m.pick(a, b, m.fixed, sign)
}

func tieBreak(a, b game.Payouts) game.Payouts {
	for i := range a {
		if a[i] != b[i] {
			if b[i] > a[i] {
				return b
			}
			return a
		}
	}
	return a
}
