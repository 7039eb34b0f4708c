package engine

import "math/rand/v2"

const (
	DeckSize  = 54
	NumJokers = 2
)

// NewDeck builds the ordered 54-card deck: 4 suits × 13 ranks plus two jokers.
func NewDeck(rules Rules) []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, NewCard(suit, rank, rules))
		}
	}
	for j := 1; j <= NumJokers; j++ {
		deck = append(deck, NewJoker(j, rules))
	}
	return deck
}

// Shuffle permutes cards in place with Fisher-Yates.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
