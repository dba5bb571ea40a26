package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// leaderWins lets the leader of every trick take it.
type leaderWins struct{}

func (leaderWins) TrickWinner(trick *Trick) Player {
	return trick.Leader()
}

// secondWins hands every trick to the second player of the trick.
type secondWins struct{}

func (secondWins) TrickWinner(trick *Trick) Player {
	return trick.Leader().Next(1)
}

func TestHand(t *testing.T) {
	t.Run("play then add restores the exact hand", func(t *testing.T) {
		hand := NewHand(MustParseCards("SA EO H9 GZ")...)
		before := hand.Clone()

		for _, card := range before.Cards() {
			hand.Play(card)
			require.False(t, hand.Contains(card))
			hand.Add(card)
			require.Equal(t, before, hand)
		}
	})

	t.Run("panics when playing a missing card", func(t *testing.T) {
		hand := NewHand(MustParseCards("SA")...)
		require.Panics(t, func() { hand.Play(NewCard(Gras, Ass)) })
	})

	t.Run("panics on duplicates", func(t *testing.T) {
		require.Panics(t, func() { NewHand(MustParseCards("SA SA")...) })
		hand := NewHand(MustParseCards("SA")...)
		require.Panics(t, func() { hand.Add(NewCard(Schelln, Ass)) })
	})

	t.Run("clone is independent", func(t *testing.T) {
		hand := NewHand(MustParseCards("SA EO")...)
		clone := hand.Clone()
		clone.Play(NewCard(Schelln, Ass))
		require.Equal(t, 2, hand.Len())
		require.Equal(t, 1, clone.Len())
	})
}

func TestTrick(t *testing.T) {
	trick := TrickOf(2, MustParseCards("EA GA")...)

	require.Equal(t, Player(2), trick.Leader())
	require.Equal(t, Player(0), trick.Current())
	require.Equal(t, NewCard(Eichel, Ass), trick.First())

	card, ok := trick.Get(3)
	require.True(t, ok)
	require.Equal(t, NewCard(Gras, Ass), card)
	_, ok = trick.Get(1)
	require.False(t, ok)

	require.Equal(t, NewCard(Gras, Ass), trick.Undo())
	require.Equal(t, 1, trick.Size())
}

func TestSequence(t *testing.T) {
	t.Run("opening a new trick led by the winner", func(t *testing.T) {
		seq := NewSequence(1, Short)
		for _, card := range MustParseCards("EA EZ EK E9") {
			seq.Play(card, secondWins{})
		}

		require.Len(t, seq.Completed(), 1)
		require.True(t, seq.Current().IsEmpty())
		require.Equal(t, Player(2), seq.Current().Leader())
		require.Equal(t, 4, seq.PlayedCount())
		require.Equal(t, [NumPlayers]int{5, 5, 5, 5}, seq.Remaining())
	})

	t.Run("undo closes the trick that was opened by the last card", func(t *testing.T) {
		seq := NewSequence(0, Short)
		cards := MustParseCards("EA EZ EK E9 GA")
		for _, card := range cards {
			seq.Play(card, leaderWins{})
		}
		before := seq.Clone()

		seq.Play(NewCard(Gras, Zehn), leaderWins{})
		require.Equal(t, NewCard(Gras, Zehn), seq.Undo())
		require.Equal(t, before, seq)

		require.Equal(t, NewCard(Gras, Ass), seq.Undo())
		require.Len(t, seq.Completed(), 1)
		require.True(t, seq.Current().IsEmpty())

		require.Equal(t, NewCard(Eichel, Nine), seq.Undo())
		require.Len(t, seq.Completed(), 0)
		require.Equal(t, 3, seq.Current().Size())
	})

	t.Run("undo round trips through a whole deal", func(t *testing.T) {
		seq := NewSequence(3, Short)
		empty := seq.Clone()
		deck := Short.Cards()
		for _, card := range deck {
			seq.Play(card, leaderWins{})
		}
		require.True(t, seq.IsFinished())
		require.True(t, seq.Current().IsEmpty())
		require.Len(t, seq.Visible(), Short.CardsPerPlayer())
		require.Equal(t, Player(3), seq.Current().Leader())

		for range deck {
			seq.Undo()
		}
		require.Equal(t, empty, seq)
		require.True(t, seq.IsEmpty())
	})

	t.Run("panics on undo of an empty sequence", func(t *testing.T) {
		seq := NewSequence(0, Long)
		require.Panics(t, func() { seq.Undo() })
	})

	t.Run("panics when playing onto a finished sequence", func(t *testing.T) {
		seq := NewSequence(0, Short)
		for _, card := range Short.Cards() {
			seq.Play(card, leaderWins{})
		}
		require.Panics(t, func() { seq.Play(NewCard(Eichel, Seven), leaderWins{}) })
	})

	t.Run("played set matches the ledger", func(t *testing.T) {
		seq := NewSequence(0, Long)
		cards := MustParseCards("EA EZ EK E9 GA G7")
		for _, card := range cards {
			seq.Play(card, leaderWins{})
		}
		played := seq.Played()
		for _, card := range cards {
			require.True(t, played.Contains(card))
		}
		require.False(t, played.Contains(NewCard(Herz, Ass)))
	})
}

func TestStateCache(t *testing.T) {
	t.Run("register and unregister are symmetric", func(t *testing.T) {
		seq := NewSequence(0, Short)
		world := World{
			NewHand(MustParseCards("EA GA")...),
			NewHand(MustParseCards("EZ GZ")...),
			NewHand(MustParseCards("EK GK")...),
			NewHand(MustParseCards("E9 G9")...),
		}
		cache := NewStateCache(seq, &world)
		fresh := *cache

		trick := TrickOf(0, MustParseCards("EA EZ EK E9")...)
		r := cache.Register(&trick, 2)
		require.Equal(t, PointsTricks{Points: 25, Tricks: 1}, cache.Stats(2))
		require.Equal(t, PointsTricks{Points: 25, Tricks: 1}, cache.PartyStats(func(p Player) bool { return p%2 == 0 }))

		cache.Unregister(r)
		require.Equal(t, fresh, *cache)
	})

	t.Run("rebuilding from a ledger matches incremental registration", func(t *testing.T) {
		seq := NewSequence(0, Short)
		world := World{
			NewHand(MustParseCards("GA")...),
			NewHand(MustParseCards("GZ")...),
			NewHand(MustParseCards("GK")...),
			NewHand(MustParseCards("G9")...),
		}
		for _, card := range MustParseCards("EA EZ EK E9") {
			seq.Play(card, secondWins{})
		}
		cache := NewStateCache(seq, &world)

		require.Equal(t, PointsTricks{Points: 25, Tricks: 1}, cache.Stats(1))
		require.Equal(t, Player(0), cache.Owner(NewCard(Eichel, Ass)))
		require.Equal(t, Player(3), cache.Owner(NewCard(Gras, Nine)))
		require.Equal(t, NoPlayer, cache.Owner(NewCard(Herz, Ass)))
	})

	t.Run("panics when registering an incomplete trick", func(t *testing.T) {
		cache := NewStateCache(NewSequence(0, Short), &World{})
		trick := TrickOf(0, MustParseCards("EA")...)
		require.Panics(t, func() { cache.Register(&trick, 0) })
	})
}
