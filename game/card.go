package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCard = errors.New("unknown card")

type Suit int

const (
	Eichel  Suit = iota // 0
	Gras                // 1
	Herz                // 2
	Schelln             // 3
)

const NumSuits = 4

var suitLetters = [NumSuits]byte{'E', 'G', 'H', 'S'}
var suitNames = [NumSuits]string{"Eichel", "Gras", "Herz", "Schelln"}

func (s Suit) String() string {
	return suitNames[s]
}

func Suits() []Suit {
	return []Suit{Eichel, Gras, Herz, Schelln}
}

type Rank int

const (
	Ass    Rank = iota // 0
	Zehn               // 1
	Koenig             // 2
	Ober               // 3
	Unter              // 4
	Nine               // 5
	Eight              // 6
	Seven              // 7
)

const NumRanks = 8

var rankLetters = [NumRanks]byte{'A', 'Z', 'K', 'O', 'U', '9', '8', '7'}
var rankPoints = [NumRanks]int{11, 10, 4, 3, 2, 0, 0, 0}

func (r Rank) String() string {
	return string(rankLetters[r])
}

// Card identifies one physical card. The zero value is the Eichel Ass.
type Card uint8

const NumCards = NumSuits * NumRanks

func NewCard(suit Suit, rank Rank) Card {
	return Card(int(suit)*NumRanks + int(rank))
}

func (c Card) Suit() Suit {
	return Suit(int(c) / NumRanks)
}

func (c Card) Rank() Rank {
	return Rank(int(c) % NumRanks)
}

// Points is the card's value when counting a party's tricks.
func (c Card) Points() int {
	return rankPoints[c.Rank()]
}

func (c Card) String() string {
	return string([]byte{suitLetters[c.Suit()], rankLetters[c.Rank()]})
}

// ParseCard reads the two letter notation used by String, e.g. "EO" or "h9".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	suit := strings.IndexByte(string(suitLetters[:]), s[0])
	rank := strings.IndexByte(string(rankLetters[:]), s[1])
	if suit < 0 || rank < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	return NewCard(Suit(suit), Rank(rank)), nil
}

// ParseCards reads whitespace separated cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, field := range fields {
		card, err := ParseCard(field)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals known to be valid.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Length is the deck variant: short (no 7s and 8s) or long.
type Length int

const (
	Short Length = iota
	Long
)

func (l Length) CardsPerPlayer() int {
	if l == Short {
		return 6
	}
	return 8
}

func (l Length) Supports(card Card) bool {
	if l == Long {
		return true
	}
	return card.Rank() != Seven && card.Rank() != Eight
}

// Cards lists the deck in suit-major order.
func (l Length) Cards() []Card {
	cards := make([]Card, 0, NumCards)
	for c := Card(0); c < NumCards; c++ {
		if l.Supports(c) {
			cards = append(cards, c)
		}
	}
	return cards
}

func (l Length) String() string {
	if l == Short {
		return "short"
	}
	return "long"
}

func LengthFromCardsPerPlayer(n int) Length {
	switch n {
	case 6:
		return Short
	case 8:
		return Long
	default:
		panic(fmt.Sprintf("no deck with %d cards per player", n))
	}
}

// CardSet is a set of cards packed into one word.
type CardSet uint32

func (s CardSet) Add(card Card) CardSet {
	return s | 1<<card
}

func (s CardSet) Contains(card Card) bool {
	return s&(1<<card) != 0
}

func (s CardSet) Remove(card Card) CardSet {
	return s &^ (1 << card)
}
