package engine

import "fmt"

// Suit is one of the four French suits, or SuitJoker for the two jokers.
type Suit string

const (
	SuitNone     Suit = ""
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitJoker    Suit = "joker"
)

// Suits lists the four real suits in their fixed tie-break order.
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// IsReal reports whether s is one of the four playable suits.
func (s Suit) IsReal() bool {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// Rank is a card rank as printed on the card face.
type Rank string

const (
	RankNone  Rank = ""
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankJoker Rank = "JOK"
)

// Ranks lists the thirteen suited ranks in deck-building order.
var Ranks = [13]Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// Value returns the numeric value used for tie-breaks and AI heuristics.
//   - Ace → 1
//   - Two–Ten → face value
//   - Jack → 11, Queen → 12, King → 13
//   - Joker → 15 (highest)
func (r Rank) Value() int {
	switch r {
	case RankAce:
		return 1
	case RankTwo:
		return 2
	case RankThree:
		return 3
	case RankFour:
		return 4
	case RankFive:
		return 5
	case RankSix:
		return 6
	case RankSeven:
		return 7
	case RankEight:
		return 8
	case RankNine:
		return 9
	case RankTen:
		return 10
	case RankJack:
		return 11
	case RankQueen:
		return 12
	case RankKing:
		return 13
	case RankJoker:
		return 15
	}
	return 0
}

// CardType is the rules role a rank plays.
type CardType string

const (
	TypePenalty  CardType = "Penalty"
	TypeJump     CardType = "Jump"
	TypeKickback CardType = "Kickback"
	TypeQuestion CardType = "Question"
	TypeWild     CardType = "Wild"
	TypeAnswer   CardType = "Answer"
)

// Color is cosmetic only; no rule reads it.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
	ColorJoker Color = "joker"
)

func suitColor(s Suit) Color {
	switch s {
	case SuitHearts, SuitDiamonds:
		return ColorRed
	case SuitClubs, SuitSpades:
		return ColorBlack
	}
	return ColorJoker
}

// Card is an immutable card value. Two cards are only ever told apart by ID.
type Card struct {
	ID    string   `json:"id"`
	Suit  Suit     `json:"suit"`
	Rank  Rank     `json:"rank"`
	Type  CardType `json:"type"`
	Value int      `json:"value"`
	Color Color    `json:"color"`
}

// NewCard builds a suited card, deriving type from the rules.
func NewCard(suit Suit, rank Rank, rules Rules) Card {
	return Card{
		ID:    fmt.Sprintf("%s-%s", suit, rank),
		Suit:  suit,
		Rank:  rank,
		Type:  rules.TypeOf(rank),
		Value: rank.Value(),
		Color: suitColor(suit),
	}
}

// NewJoker builds the n-th joker (1-based).
func NewJoker(n int, rules Rules) Card {
	return Card{
		ID:    fmt.Sprintf("joker-%d", n),
		Suit:  SuitJoker,
		Rank:  RankJoker,
		Type:  rules.TypeOf(RankJoker),
		Value: RankJoker.Value(),
		Color: ColorJoker,
	}
}

// IsWild reports whether the card is the wild rank or carries the Wild type.
func (c Card) IsWild() bool {
	return c.Rank == RankAce || c.Type == TypeWild
}

func (c Card) String() string {
	if c.Rank == RankJoker {
		return "JOKER"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
