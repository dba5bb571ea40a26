package searcher

import "schafkopf/game"

// snapshotCache memoizes outcomes at trick boundaries by equivalence class. It belongs to
// a single search.
type snapshotCache struct {
	equivalence game.Equivalence
	outcomes    map[game.SnapshotKey]Outcome
}

func newSnapshotCache(equivalence game.Equivalence) *snapshotCache {
	return &snapshotCache{
		equivalence: equivalence,
		outcomes:    make(map[game.SnapshotKey]Outcome),
	}
}

func (c *snapshotCache) key(seq *game.Sequence, cache *game.StateCache) game.SnapshotKey {
	return c.equivalence.Key(seq, cache)
}

func (c *snapshotCache) get(key game.SnapshotKey) (Outcome, bool) {
	outcome, ok := c.outcomes[key]
	return outcome, ok
}

func (c *snapshotCache) put(key game.SnapshotKey, outcome Outcome) {
	c.outcomes[key] = outcome
}
