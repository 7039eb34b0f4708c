package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Engine runs one Niko Kadi game. It is not safe for concurrent use; callers
// that share an engine across goroutines must serialize access.
type Engine struct {
	rules   Rules
	rng     *rand.Rand
	sink    EventSink
	now     func() time.Time
	state   *GameState
	history []GameMove
}

// New returns an engine with the given rules. A nil rng is replaced by a
// time-seeded generator.
func New(rules Rules, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Engine{
		rules: rules,
		rng:   rng,
		sink:  nopSink{},
		now:   time.Now,
	}
}

// SetEventSink installs the observer for engine events. nil silences the engine.
func (e *Engine) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = nopSink{}
	}
	e.sink = sink
}

// SetClock overrides the timestamp source for GameMove records.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules { return e.rules }

// Rand exposes the injected random source so AI tie-breaks stay reproducible.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// ---------------------------------------------------------------------------
// Initialization
// ---------------------------------------------------------------------------

// InitializeGame builds and shuffles a fresh deck, deals the players in and
// turns up an Answer card as the starting discard.
func (e *Engine) InitializeGame(players []*Player) error {
	if len(players) < e.rules.MinPlayers {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewPlayers, len(players), e.rules.MinPlayers)
	}
	if len(players) > e.rules.MaxPlayers {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyPlayers, len(players), e.rules.MaxPlayers)
	}
	seen := make(map[string]bool, len(players))
	seats := make([]*Player, len(players))
	for i, p := range players {
		if p == nil || p.ID == "" {
			return fmt.Errorf("%w: seat %d has no id", ErrUnknownPlayer, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = true
		seat := p.clone()
		seat.Hand = nil
		seats[i] = seat
	}

	deck := NewDeck(e.rules)
	Shuffle(deck, e.rng)

	// Deal one card at a time round the table, from the top (end) of the deck.
	handSize := e.rules.HandSize(len(seats))
	for c := 0; c < handSize; c++ {
		for _, p := range seats {
			top := len(deck) - 1
			p.Hand = append(p.Hand, deck[top])
			deck = deck[:top]
		}
	}

	start, deck, err := e.findStartingCard(deck)
	if err != nil {
		return err
	}

	e.state = &GameState{
		ID:                 uuid.NewString(),
		Players:            seats,
		DrawPile:           deck,
		DiscardPile:        []Card{start},
		CurrentPlayerIndex: 0,
		Direction:          Clockwise,
		TurnNumber:         1,
		Status:             StatusActive,
	}
	e.history = nil

	e.emit(EventGameStarted, "", map[string]any{
		"players":   len(seats),
		"handSize":  handSize,
		"startCard": start.ID,
	})
	return nil
}

// findStartingCard pops cards until an Answer turns up. Rejected cards go to
// the bottom of the pile, so every card is looked at once before giving up.
func (e *Engine) findStartingCard(pile []Card) (Card, []Card, error) {
	for range len(pile) {
		top := len(pile) - 1
		c := pile[top]
		if c.Type == TypeAnswer {
			return c, pile[:top], nil
		}
		copy(pile[1:], pile[:top])
		pile[0] = c
	}
	return Card{}, nil, ErrNoStartingCard
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// GetGameState returns a deep copy of the state, or nil before initialization.
func (e *Engine) GetGameState() *GameState {
	return e.state.Clone()
}

// SetGameState installs a copy of s after checking its structural invariants
// and that every card matches the engine's deck.
func (e *Engine) SetGameState(s *GameState) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidGameState)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := e.checkCards(s); err != nil {
		return err
	}
	e.state = s.Clone()
	return nil
}

// GetTopCard returns the top of the discard pile.
func (e *Engine) GetTopCard() (Card, bool) {
	if e.state == nil {
		return Card{}, false
	}
	return e.state.DiscardTop()
}

// GetCurrentPlayer returns a copy of the player to act, or nil before initialization.
func (e *Engine) GetCurrentPlayer() *Player {
	if e.state == nil {
		return nil
	}
	p := e.state.CurrentPlayer()
	if p == nil {
		return nil
	}
	return p.clone()
}

// GetHistory returns a copy of the move log.
func (e *Engine) GetHistory() []GameMove {
	out := make([]GameMove, len(e.history))
	for i, m := range e.history {
		m.Cards = append([]Card(nil), m.Cards...)
		out[i] = m
	}
	return out
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (e *Engine) emit(t EventType, playerID string, payload map[string]any) {
	ev := GameEvent{Type: t, PlayerID: playerID, Payload: payload}
	if e.state != nil {
		ev.GameID = e.state.ID
		ev.Turn = e.state.TurnNumber
	}
	e.sink.OnEvent(ev)
}

func (e *Engine) record(m GameMove) GameMove {
	m.Timestamp = e.now()
	e.history = append(e.history, m)
	out := m
	out.Cards = append([]Card(nil), m.Cards...)
	return out
}

// mutable checks the preconditions every mutating operation shares.
func (e *Engine) mutable() error {
	if e.state == nil {
		return ErrNotInitialized
	}
	if e.state.Status == StatusFinished {
		return ErrGameFinished
	}
	if e.state.Status != StatusActive {
		return ErrNotInitialized
	}
	return nil
}

// requireTurn resolves playerID and checks that it is their turn.
func (e *Engine) requireTurn(playerID string) (*Player, int, error) {
	p, idx := e.state.PlayerByID(playerID)
	if p == nil {
		return nil, -1, fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	if idx != e.state.CurrentPlayerIndex {
		return nil, -1, fmt.Errorf("%w: %q", ErrNotYourTurn, playerID)
	}
	return p, idx, nil
}
