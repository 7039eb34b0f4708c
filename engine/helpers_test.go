package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

var testRules = DefaultRules()

func card(s Suit, r Rank) Card { return NewCard(s, r, testRules) }

func joker(n int) Card { return NewJoker(n, testRules) }

func ids(cards ...Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// newTestEngine returns an engine with a fixed seed.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(DefaultRules(), rand.New(rand.NewPCG(42, 7)))
}

// installState seats players p0..pN-1 with the given hands and discard pile.
// Every card not named goes to the draw pile so the state holds a full deck.
// mutate runs before the state is installed.
func installState(t *testing.T, e *Engine, hands [][]Card, discard []Card, mutate func(s *GameState)) {
	t.Helper()
	used := make(map[string]bool)
	players := make([]*Player, len(hands))
	for i, h := range hands {
		for _, c := range h {
			used[c.ID] = true
		}
		players[i] = &Player{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Player %d", i),
			Hand: append([]Card(nil), h...),
		}
	}
	for _, c := range discard {
		used[c.ID] = true
	}
	var draw []Card
	for _, c := range NewDeck(e.Rules()) {
		if !used[c.ID] {
			draw = append(draw, c)
		}
	}
	s := &GameState{
		ID:          "test-game",
		Players:     players,
		DrawPile:    draw,
		DiscardPile: append([]Card(nil), discard...),
		Direction:   Clockwise,
		TurnNumber:  1,
		Status:      StatusActive,
	}
	if mutate != nil {
		mutate(s)
	}
	if err := e.SetGameState(s); err != nil {
		t.Fatalf("SetGameState: %v", err)
	}
}

// eventLog collects engine events in order.
type eventLog struct {
	events []GameEvent
}

func (l *eventLog) OnEvent(ev GameEvent) { l.events = append(l.events, ev) }

func (l *eventLog) has(t EventType) bool {
	for _, ev := range l.events {
		if ev.Type == t {
			return true
		}
	}
	return false
}
