package game

// NoPlayer marks a card that is not part of the deal.
const NoPlayer Player = -1

type PointsTricks struct {
	Points int
	Tricks int
}

func (pt PointsTricks) Add(other PointsTricks) PointsTricks {
	return PointsTricks{Points: pt.Points + other.Points, Tricks: pt.Tricks + other.Tricks}
}

// StateCache keeps per-player statistics of the completed tricks in step with a Sequence,
// so that rules can read them without rescanning the history. It also remembers who was
// dealt which card.
type StateCache struct {
	owners [NumCards]Player
	stats  [NumPlayers]PointsTricks
}

// Registration undoes one Register call.
type Registration struct {
	winner Player
	points int
}

// NewStateCache builds the cache for a ledger and the hands that remain after it.
func NewStateCache(seq *Sequence, world *World) *StateCache {
	c := &StateCache{}
	for i := range c.owners {
		c.owners[i] = NoPlayer
	}
	for _, player := range Players() {
		for _, card := range world[player].Cards() {
			c.owners[card] = player
		}
	}
	tricks := seq.Visible()
	for i := range tricks {
		for j := 0; j < tricks[i].Size(); j++ {
			player, card := tricks[i].At(j)
			c.owners[card] = player
		}
	}
	completed := seq.Completed()
	for i := range completed {
		c.Register(&completed[i], seq.tricks[i+1].Leader())
	}
	return c
}

// Register accounts a completed trick to its winner.
func (c *StateCache) Register(trick *Trick, winner Player) Registration {
	if !trick.IsFull() {
		panic("cannot register an incomplete trick")
	}
	r := Registration{winner: winner, points: trick.Points()}
	c.stats[winner].Points += r.points
	c.stats[winner].Tricks++
	return r
}

func (c *StateCache) Unregister(r Registration) {
	c.stats[r.winner].Points -= r.points
	c.stats[r.winner].Tricks--
}

// Owner returns the player who was dealt card.
func (c *StateCache) Owner(card Card) Player {
	return c.owners[card]
}

func (c *StateCache) Stats(player Player) PointsTricks {
	return c.stats[player]
}

// PartyStats sums the statistics of all players for which inParty holds.
func (c *StateCache) PartyStats(inParty func(Player) bool) PointsTricks {
	var total PointsTricks
	for _, player := range Players() {
		if inParty(player) {
			total = total.Add(c.stats[player])
		}
	}
	return total
}
