package searcher

import "schafkopf/game"

// Pruner may settle a position without exploring it.
type Pruner interface {
	Prune(seq *game.Sequence, world *game.World, cache *game.StateCache) (Outcome, bool)
}

// NoPruning explores every position.
type NoPruning struct{}

func (NoPruning) Prune(*game.Sequence, *game.World, *game.StateCache) (Outcome, bool) {
	return Outcome{}, false
}

// HintPruning stops at positions where every player has a payout hint and the fixed
// player's hint is a win. The returned outcome is the hint itself, which is a lower bound
// of the exact outcome rather than the exact outcome.
type HintPruning struct {
	rules  game.Rules
	fixed  game.Player
	stakes game.Stakes
}

func NewHintPruning(rules game.Rules, fixed game.Player, stakes game.Stakes) *HintPruning {
	return &HintPruning{rules: rules, fixed: fixed, stakes: stakes}
}

func (h *HintPruning) Prune(seq *game.Sequence, world *game.World, cache *game.StateCache) (Outcome, bool) {
	hints := h.rules.PayoutHints(seq, world, cache, h.stakes)
	var payouts game.Payouts
	for player, hint := range hints {
		if !hint.Known {
			return Outcome{}, false
		}
		payouts[player] = hint.Lower
	}
	if payouts[h.fixed] <= 0 {
		return Outcome{}, false
	}
	return TerminalOutcome(payouts), true
}
