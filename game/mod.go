package game

import "fmt"

// Player is a seat at the table, 0 to 3 in playing order.
type Player int

const NumPlayers = 4

func (p Player) Next(n int) Player {
	return Player((int(p) + n) % NumPlayers)
}

func (p Player) String() string {
	return fmt.Sprintf("P%d", int(p))
}

func Players() []Player {
	return []Player{0, 1, 2, 3}
}

// Payouts holds one amount per player.
type Payouts [NumPlayers]int

// Stakes are the deal-wide factors applied to a contract's base payout.
type Stakes struct {
	Stoss     int // Number of stoss/re announcements
	Doublings int // Number of players who doubled before the deal
	Stock     int
}

func (s Stakes) Multiplier() int {
	return 1 << (s.Stoss + s.Doublings)
}
