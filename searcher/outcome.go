package searcher

import (
	"fmt"

	"schafkopf/game"
)

// Strategy names one assumption about how the other players choose their cards.
type Strategy int

const (
	Min        Strategy = iota // Opponents play against the fixed player
	SelfishMin                 // Opponents play for themselves, ties against the fixed player
	SelfishMax                 // Opponents play for themselves, ties in favour of the fixed player
	Max                        // Opponents play for the fixed player
)

const NumStrategies = 4

var strategyNames = [NumStrategies]string{"min", "selfish-min", "selfish-max", "max"}

func (s Strategy) String() string {
	return strategyNames[s]
}

func Strategies() []Strategy {
	return []Strategy{Min, SelfishMin, SelfishMax, Max}
}

// Outcome holds one payout vector per strategy, all seen from the same fixed player.
type Outcome [NumStrategies]game.Payouts

// TerminalOutcome is the outcome of a position whose payouts are known.
func TerminalOutcome(payouts game.Payouts) Outcome {
	return Outcome{payouts, payouts, payouts, payouts}
}

func (o Outcome) Get(strategy Strategy) game.Payouts {
	return o[strategy]
}

// Of returns the payout of player under every strategy.
func (o Outcome) Of(player game.Player) [NumStrategies]int {
	var values [NumStrategies]int
	for _, strategy := range Strategies() {
		values[strategy] = o[strategy][player]
	}
	return values
}

func (o Outcome) String() string {
	return fmt.Sprintf("min %v selfish-min %v selfish-max %v max %v", o[Min], o[SelfishMin], o[SelfishMax], o[Max])
}
