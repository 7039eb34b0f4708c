// Package engine implements the Niko Kadi rules: deck, game state, move
// validation, effect resolution and turn sequencing.
//
// The engine is synchronous and single-threaded. Each Engine owns exactly one
// GameState; independent games use independent engines.
package engine

import "fmt"

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Direction is the turn rotation: +1 clockwise, -1 counterclockwise.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// GamePhase is a coarse bucket of game progress, used only by AI heuristics.
type GamePhase string

const (
	PhaseEarly   GamePhase = "early"
	PhaseMid     GamePhase = "mid"
	PhaseLate    GamePhase = "late"
	PhaseEndgame GamePhase = "endgame"
)

// Difficulty and PlayStyle configure AI players.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

type PlayStyle string

const (
	StyleAggressive PlayStyle = "aggressive"
	StyleDefensive  PlayStyle = "defensive"
	StyleBalanced   PlayStyle = "balanced"
)

// AIConfig holds AI propensities; the float fields are in [0,1].
type AIConfig struct {
	Difficulty   Difficulty `json:"difficulty"`
	PlayStyle    PlayStyle  `json:"playStyle"`
	Aggression   float64    `json:"aggression"`
	CardCounting float64    `json:"cardCounting"`
	Bluffing     float64    `json:"bluffing"`
}

// Player is a seat at the table. Rating and Coins are caller metadata the rules never read.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Hand     []Card    `json:"hand"`
	IsAI     bool      `json:"isAI"`
	Rating   int       `json:"rating"`
	Coins    int       `json:"coins"`
	AIConfig *AIConfig `json:"aiConfig,omitempty"`
}

// HandIndex returns the position of cardID in the hand, or -1.
func (p *Player) HandIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// AnswerDemand records that PlayerID owes an Answer of Suit after a Question.
type AnswerDemand struct {
	PlayerID string `json:"playerId"`
	Suit     Suit   `json:"suit"`
}

// GameState is the single mutable aggregate of a game.
type GameState struct {
	ID                 string        `json:"id"`
	Players            []*Player     `json:"players"`
	DrawPile           []Card        `json:"drawPile"`    // top = last element
	DiscardPile        []Card        `json:"discardPile"` // top = last element
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	Direction          Direction     `json:"direction"`
	ActivePenaltyStack int           `json:"activePenaltyStack"`
	ActivePenaltyRank  Rank          `json:"activePenaltyRank,omitempty"`
	RequiredSuit       Suit          `json:"requiredSuit,omitempty"`
	PendingSkipCount   int           `json:"pendingSkipCount"`
	MustDrawNextTurn   string        `json:"mustDrawNextTurn,omitempty"`
	AwaitingAnswer     *AnswerDemand `json:"awaitingAnswer,omitempty"`
	NikoDeclaredBy     string        `json:"nikoDeclaredBy,omitempty"`
	NikoDeclaredRound  int           `json:"nikoDeclaredRound,omitempty"`
	TurnNumber         int           `json:"turnNumber"`
	Status             Status        `json:"status"`
	Winner             string        `json:"winner,omitempty"`
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

// PlayerByID returns the player with the given id and its seat index.
func (s *GameState) PlayerByID(id string) (*Player, int) {
	for i, p := range s.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// DiscardTop returns the top of the discard pile.
func (s *GameState) DiscardTop() (Card, bool) {
	if len(s.DiscardPile) == 0 {
		return Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// EffectiveTopCard is the discard top with its suit replaced by RequiredSuit when set.
func (s *GameState) EffectiveTopCard() (Card, bool) {
	top, ok := s.DiscardTop()
	if !ok {
		return Card{}, false
	}
	if s.RequiredSuit != SuitNone {
		top.Suit = s.RequiredSuit
	}
	return top, true
}

// Round is the 1-based full-cycle number derived from the turn number.
func (s *GameState) Round() int {
	return RoundOf(s.TurnNumber, len(s.Players))
}

// RoundOf computes ⌊(turn-1)/players⌋+1.
func RoundOf(turnNumber, numPlayers int) int {
	if numPlayers <= 0 || turnNumber <= 0 {
		return 1
	}
	return (turnNumber-1)/numPlayers + 1
}

// Phase buckets the current round.
func (s *GameState) Phase() GamePhase {
	switch r := s.Round(); {
	case r <= 3:
		return PhaseEarly
	case r <= 8:
		return PhaseMid
	case r <= 14:
		return PhaseLate
	default:
		return PhaseEndgame
	}
}

// HasDeclared reports whether playerID holds the outstanding Niko Kadi declaration.
func (s *GameState) HasDeclared(playerID string) bool {
	return playerID != "" && s.NikoDeclaredBy == playerID
}

// CardCount returns the number of cards across both piles and every hand.
func (s *GameState) CardCount() int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	return n
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.DrawPile = append([]Card(nil), s.DrawPile...)
	out.DiscardPile = append([]Card(nil), s.DiscardPile...)
	if s.AwaitingAnswer != nil {
		aa := *s.AwaitingAnswer
		out.AwaitingAnswer = &aa
	}
	return &out
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Hand = append([]Card(nil), p.Hand...)
	if p.AIConfig != nil {
		cfg := *p.AIConfig
		cp.AIConfig = &cfg
	}
	return &cp
}

// Validate checks the structural invariants of an installed or imported state.
func (s *GameState) Validate() error {
	n := len(s.Players)
	if n < 2 || n > 6 {
		return fmt.Errorf("%w: %d players", ErrInvalidGameState, n)
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= n {
		return fmt.Errorf("%w: current player index %d out of range", ErrInvalidGameState, s.CurrentPlayerIndex)
	}
	if s.Direction != Clockwise && s.Direction != CounterClockwise {
		return fmt.Errorf("%w: direction %d", ErrInvalidGameState, s.Direction)
	}
	switch s.Status {
	case StatusWaiting, StatusActive, StatusFinished:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidGameState, s.Status)
	}
	if s.ActivePenaltyStack < 0 || s.PendingSkipCount < 0 || s.TurnNumber < 0 {
		return fmt.Errorf("%w: negative counter", ErrInvalidGameState)
	}
	if s.RequiredSuit != SuitNone && !s.RequiredSuit.IsReal() {
		return fmt.Errorf("%w: required suit %q", ErrInvalidGameState, s.RequiredSuit)
	}

	ids := make(map[string]bool, n)
	for _, p := range s.Players {
		if p == nil || p.ID == "" {
			return fmt.Errorf("%w: player without id", ErrInvalidGameState)
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: %w %q", ErrInvalidGameState, ErrDuplicatePlayer, p.ID)
		}
		ids[p.ID] = true
	}
	for _, ref := range []string{s.MustDrawNextTurn, s.NikoDeclaredBy, s.Winner} {
		if ref != "" && !ids[ref] {
			return fmt.Errorf("%w: unknown player reference %q", ErrInvalidGameState, ref)
		}
	}
	if s.AwaitingAnswer != nil && !ids[s.AwaitingAnswer.PlayerID] {
		return fmt.Errorf("%w: unknown player owing answer %q", ErrInvalidGameState, s.AwaitingAnswer.PlayerID)
	}

	if got := s.CardCount(); got != DeckSize {
		return fmt.Errorf("%w: %d cards in play, want %d", ErrInvalidGameState, got, DeckSize)
	}
	seen := make(map[string]bool, DeckSize)
	check := func(c Card) error {
		if c.ID == "" || seen[c.ID] {
			return fmt.Errorf("%w: missing or duplicate card id %q", ErrInvalidGameState, c.ID)
		}
		seen[c.ID] = true
		return nil
	}
	for _, pile := range [][]Card{s.DrawPile, s.DiscardPile} {
		for _, c := range pile {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	for _, p := range s.Players {
		for _, c := range p.Hand {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	return nil
}
