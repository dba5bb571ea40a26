package gamemaster

import (
	"errors"
	"fmt"

	"schafkopf/game"
)

var (
	ErrDealOver    = errors.New("deal is over")
	ErrWrongPlayer = errors.New("not this player's turn")
	ErrIllegalCard = errors.New("illegal card")
)

// Update is one card played at the table.
type Update struct {
	Player game.Player
	Card   game.Card
}

// UpdateGetter returns the next update without blocking. It reports false if there is
// none yet or the deal is over and every update has been read.
type UpdateGetter func() (Update, bool)

// Table is the authority over one deal: it knows every hand and only accepts legal cards
// from the player to move.
type Table struct {
	rules    game.Rules
	stakes   game.Stakes
	dealt    game.World
	world    game.World
	seq      *game.Sequence
	updateCh chan Update
	over     bool
}

func NewTable(rules game.Rules, stakes game.Stakes, world game.World, leader game.Player) (*Table, UpdateGetter) {
	length := game.LengthFromCardsPerPlayer(world[0].Len())
	seq := game.NewSequence(leader, length)
	world.CheckCompatible(seq)

	t := &Table{
		rules:    rules,
		stakes:   stakes,
		dealt:    world.Clone(),
		world:    world.Clone(),
		seq:      seq,
		updateCh: make(chan Update, length.CardsPerPlayer()*game.NumPlayers),
	}
	return t, func() (Update, bool) {
		select {
		case u, ok := <-t.updateCh:
			return u, ok
		default:
			// No updates yet
			return Update{}, false
		}
	}
}

func (t *Table) Rules() game.Rules {
	return t.rules
}

func (t *Table) Stakes() game.Stakes {
	return t.stakes
}

// Turn is the player to move.
func (t *Table) Turn() game.Player {
	return t.seq.Current().Current()
}

// Hand returns a copy of player's remaining cards.
func (t *Table) Hand(player game.Player) game.Hand {
	return t.world[player].Clone()
}

// Sequence returns a copy of the ledger.
func (t *Table) Sequence() *game.Sequence {
	return t.seq.Clone()
}

// Dealt returns a copy of the hands as they were dealt.
func (t *Table) Dealt() game.World {
	return t.dealt.Clone()
}

func (t *Table) IsOver() bool {
	return t.over
}

func (t *Table) Play(player game.Player, card game.Card) error {
	if t.over {
		return ErrDealOver
	}
	if turn := t.Turn(); player != turn {
		return fmt.Errorf("%s played %s but %s is to move: %w", player, card, turn, ErrWrongPlayer)
	}
	if !game.IsAllowed(t.rules, t.seq, t.world[player], card) {
		return fmt.Errorf("%s cannot play %s with %s: %w", player, card, t.world[player], ErrIllegalCard)
	}

	t.world[player].Play(card)
	t.seq.Play(card, t.rules)
	t.updateCh <- Update{Player: player, Card: card}
	if t.seq.IsFinished() {
		t.over = true
		close(t.updateCh)
	}
	return nil
}

// Payouts scores the finished deal.
func (t *Table) Payouts() (game.Payouts, error) {
	if !t.over {
		return game.Payouts{}, fmt.Errorf("deal is not over after %d cards", t.seq.PlayedCount())
	}
	return t.rules.Payout(t.seq, game.NewStateCache(t.seq, &t.world), t.stakes), nil
}
