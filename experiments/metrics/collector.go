package metrics

import (
	"time"

	"schafkopf/game"
	"schafkopf/searcher"
)

// AgentConfig describes how a player of an experiment searches.
type AgentConfig struct {
	ID          int
	Goroutines  int
	Samples     int
	BranchingLo int // 0 keeps the default branching
	BranchingHi int
	HintPruning bool
	Snapshots   bool
	Temperature float64 // 0 always plays the best card
}

type MoveMetric struct {
	Step   int
	Player int
	Card   string
	searcher.SearchMetrics
}

type GameMetric struct {
	Leader     int
	Declarer   int
	Contract   string
	Payouts    game.Payouts
	Redeals    int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalCards int
}

// Collector records the moves of one deal.
type Collector interface {
	Start(leader game.Player)
	SetContract(declarer game.Player, contract string, redeals int)
	AddMove(player game.Player, card game.Card, metrics searcher.SearchMetrics)
	Complete(payouts game.Payouts) (GameMetric, []MoveMetric)
}

type collector struct {
	game  GameMetric
	moves []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(leader game.Player) {
	c.game = GameMetric{Leader: int(leader), StartTime: time.Now()}
	c.moves = nil
}

func (c *collector) SetContract(declarer game.Player, contract string, redeals int) {
	c.game.Declarer = int(declarer)
	c.game.Contract = contract
	c.game.Redeals = redeals
}

func (c *collector) AddMove(player game.Player, card game.Card, metrics searcher.SearchMetrics) {
	c.moves = append(c.moves, MoveMetric{
		Step:          len(c.moves) + 1,
		Player:        int(player),
		Card:          card.String(),
		SearchMetrics: metrics,
	})
}

func (c *collector) Complete(payouts game.Payouts) (GameMetric, []MoveMetric) {
	c.game.Payouts = payouts
	c.game.EndTime = time.Now()
	c.game.Duration = c.game.EndTime.Sub(c.game.StartTime)
	c.game.TotalCards = len(c.moves)
	return c.game, c.moves
}
