// Package models holds the table-level types shared by the service packages.
package models

import (
	"github.com/google/uuid"
	"github.com/nikokadi/kadi/engine"
)

// Player is a seat at a table as the service sees it. The engine knows the
// same seat by ID.String().
type Player struct {
	ID        uuid.UUID
	Username  string
	Connected bool
	IsAI      bool
	AI        *engine.AIConfig // nil for AI seats means medium/balanced
	Rating    int
	Coins     int
}

// EngineID is the player id used inside the engine.
func (p *Player) EngineID() string {
	return p.ID.String()
}

// GameAction is an inbound request from a client.
//
// Supported ActionType values are "action_play", "action_draw",
// "action_declare" and "action_pass". A play carries "cards" (a list of card
// ids) and, for an Ace, "suit" in its Payload.
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}
