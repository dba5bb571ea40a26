package game

import "fmt"

// Winner decides who takes a full trick.
type Winner interface {
	TrickWinner(trick *Trick) Player
}

// Sequence is the play history of one deal. All tricks except the last one are full; the
// last one is the current trick and holds 0 to 3 cards. Once every trick has been
// completed the current trick stays empty, led by the winner of the final trick.
type Sequence struct {
	tricks []Trick
	length Length
}

func NewSequence(leader Player, length Length) *Sequence {
	tricks := make([]Trick, 1, length.CardsPerPlayer()+1)
	tricks[0] = NewTrick(leader)
	return &Sequence{tricks: tricks, length: length}
}

func (s *Sequence) Length() Length {
	return s.length
}

// FirstLeader is the player who led the first trick.
func (s *Sequence) FirstLeader() Player {
	return s.tricks[0].Leader()
}

func (s *Sequence) Completed() []Trick {
	return s.tricks[:len(s.tricks)-1]
}

func (s *Sequence) Current() *Trick {
	return &s.tricks[len(s.tricks)-1]
}

// Visible returns the completed tricks followed by the current one unless the deal is finished.
func (s *Sequence) Visible() []Trick {
	n := min(len(s.tricks), s.length.CardsPerPlayer())
	return s.tricks[:n]
}

func (s *Sequence) IsFinished() bool {
	return len(s.tricks)-1 == s.length.CardsPerPlayer()
}

func (s *Sequence) IsEmpty() bool {
	return len(s.tricks) == 1 && s.tricks[0].IsEmpty()
}

func (s *Sequence) PlayedCount() int {
	return (len(s.tricks)-1)*NumPlayers + s.Current().Size()
}

// Played returns every card in the ledger as a set.
func (s *Sequence) Played() CardSet {
	var set CardSet
	for i := range s.Visible() {
		for _, card := range s.tricks[i].Cards() {
			set = set.Add(card)
		}
	}
	return set
}

// Play appends card to the current trick. When the trick becomes full, a new trick led
// by its winner is opened.
func (s *Sequence) Play(card Card, winner Winner) {
	if s.IsFinished() {
		panic("cannot play onto a finished sequence")
	}
	current := s.Current()
	current.Push(card)
	if current.IsFull() {
		leader := winner.TrickWinner(current)
		s.tricks = append(s.tricks, NewTrick(leader))
	}
	s.check()
}

// Undo removes the most recently played card, closing the newest trick if it was
// opened by that card.
func (s *Sequence) Undo() Card {
	if s.IsEmpty() {
		panic("cannot undo an empty sequence")
	}
	if s.Current().IsEmpty() {
		s.tricks = s.tricks[:len(s.tricks)-1]
	}
	card := s.Current().Undo()
	s.check()
	return card
}

// Clone returns an independent copy of the ledger.
func (s *Sequence) Clone() *Sequence {
	tricks := make([]Trick, len(s.tricks), s.length.CardsPerPlayer()+1)
	copy(tricks, s.tricks)
	return &Sequence{tricks: tricks, length: s.length}
}

// Remaining returns how many cards each player still holds at this point of the deal.
func (s *Sequence) Remaining() [NumPlayers]int {
	var remaining [NumPlayers]int
	for _, player := range Players() {
		remaining[player] = s.length.CardsPerPlayer() - len(s.Completed())
		if _, ok := s.Current().Get(player); ok {
			remaining[player]--
		}
	}
	return remaining
}

func (s *Sequence) check() {
	if len(s.tricks) == 0 {
		panic("sequence without current trick")
	}
	if s.Current().IsFull() {
		panic("current trick is full")
	}
	completed := len(s.tricks) - 1
	if completed > s.length.CardsPerPlayer() {
		panic(fmt.Sprintf("%d tricks completed in a %s deal", completed, s.length))
	}
	if completed == s.length.CardsPerPlayer() && !s.Current().IsEmpty() {
		panic("finished sequence has cards in its current trick")
	}
}
