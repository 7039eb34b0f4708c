// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/nikokadi/kadi/engine"
)

// ObfCard is a face-up card in a client view.
type ObfCard struct {
	ID    string `json:"id"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

// ObfPlayerState is one seat as seen by a specific observer.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	HandSize      int       `json:"handSize"`
	IsAI          bool      `json:"isAI"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	DeclaredNiko  bool      `json:"declaredNiko"`
	// RevealedHand is populated only for the player requesting the state ('self').
	RevealedHand []ObfCard `json:"revealedHand,omitempty"`
}

// ObfAnswerDemand names who owes an Answer card and of which suit.
type ObfAnswerDemand struct {
	PlayerID uuid.UUID `json:"playerId"`
	Suit     string    `json:"suit"`
}

// ObfGameState is the table as seen by a specific observer: their own hand is
// visible, every other hand is only a count.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnNumber      int              `json:"turnNumber"`
	Round           int              `json:"round"`
	Direction       int              `json:"direction"`
	DrawPileSize    int              `json:"drawPileSize"`
	DiscardSize     int              `json:"discardSize"`
	DiscardTop      *ObfCard         `json:"discardTop,omitempty"`
	RequiredSuit    string           `json:"requiredSuit,omitempty"`
	PenaltyStack    int              `json:"penaltyStack"`
	PenaltyRank     string           `json:"penaltyRank,omitempty"`
	AwaitingAnswer  *ObfAnswerDemand `json:"awaitingAnswer,omitempty"`
	MustDraw        uuid.UUID        `json:"mustDraw,omitempty"`
	Winner          uuid.UUID        `json:"winner,omitempty"`
	Players         []ObfPlayerState `json:"players"`

	// Options is filled in for the observer when it is their turn.
	Options *engine.MoveValidation `json:"options,omitempty"`
}

func obfCard(c engine.Card) ObfCard {
	return ObfCard{ID: c.ID, Rank: string(c.Rank), Suit: string(c.Suit), Value: c.Value}
}

// GetCurrentObfuscatedGameState builds forUser's view of the table.
// This function assumes the game lock is HELD by the caller.
func (g *KadiGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:   g.ID,
		Started:  g.Started,
		GameOver: g.GameOver,
	}
	s := g.Engine.GetGameState()
	if s == nil {
		obf.Players = make([]ObfPlayerState, len(g.Players))
		for i, p := range g.Players {
			obf.Players[i] = ObfPlayerState{PlayerID: p.ID, Username: p.Username, IsAI: p.IsAI, Connected: p.Connected}
		}
		return obf
	}

	active := s.Status == engine.StatusActive
	obf.GameOver = obf.GameOver || s.Status == engine.StatusFinished
	obf.TurnNumber = s.TurnNumber
	obf.Round = s.Round()
	obf.Direction = int(s.Direction)
	obf.DrawPileSize = len(s.DrawPile)
	obf.DiscardSize = len(s.DiscardPile)
	obf.RequiredSuit = string(s.RequiredSuit)
	obf.PenaltyStack = s.ActivePenaltyStack
	obf.PenaltyRank = string(s.ActivePenaltyRank)
	obf.MustDraw = uuidOf(s.MustDrawNextTurn)
	obf.Winner = uuidOf(s.Winner)
	if top, ok := s.DiscardTop(); ok {
		c := obfCard(top)
		obf.DiscardTop = &c
	}
	if s.AwaitingAnswer != nil {
		obf.AwaitingAnswer = &ObfAnswerDemand{PlayerID: uuidOf(s.AwaitingAnswer.PlayerID), Suit: string(s.AwaitingAnswer.Suit)}
	}
	if cur := s.CurrentPlayer(); cur != nil && active {
		obf.CurrentPlayerID = uuidOf(cur.ID)
	}

	obf.Players = make([]ObfPlayerState, len(s.Players))
	for i, sp := range s.Players {
		id := uuidOf(sp.ID)
		ps := ObfPlayerState{
			PlayerID:      id,
			Username:      sp.Name,
			HandSize:      len(sp.Hand),
			IsAI:          sp.IsAI,
			IsCurrentTurn: active && i == s.CurrentPlayerIndex,
			DeclaredNiko:  s.HasDeclared(sp.ID),
		}
		if p := g.getPlayerByID(id); p != nil {
			ps.Connected = p.Connected
		}
		if id == forUser {
			ps.RevealedHand = make([]ObfCard, len(sp.Hand))
			for j, c := range sp.Hand {
				ps.RevealedHand[j] = obfCard(c)
			}
			if ps.IsCurrentTurn {
				mv := g.Engine.GetMoveValidation(sp.ID)
				obf.Options = &mv
			}
		}
		obf.Players[i] = ps
	}
	return obf
}
