package engine

import (
	"encoding/json"
	"fmt"
)

const snapshotVersion = 1

// snapshot is the serialized form of an engine: state plus move history.
type snapshot struct {
	Version int        `json:"version"`
	State   *GameState `json:"state"`
	History []GameMove `json:"history"`
}

// ExportGameState serializes the game state and move history.
func (e *Engine) ExportGameState() ([]byte, error) {
	if e.state == nil {
		return nil, ErrNotInitialized
	}
	return json.Marshal(snapshot{
		Version: snapshotVersion,
		State:   e.state,
		History: e.history,
	})
}

// ImportGameState replaces the engine's state with a previously exported blob.
// On any error the current state is left untouched.
func (e *Engine) ImportGameState(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGameState, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidGameState, snap.Version)
	}
	if snap.State == nil {
		return fmt.Errorf("%w: missing state", ErrInvalidGameState)
	}
	if err := snap.State.Validate(); err != nil {
		return err
	}
	if err := e.checkCards(snap.State); err != nil {
		return err
	}
	e.state = snap.State
	e.history = snap.History
	return nil
}

// checkCards rejects any card whose fields differ from the card with the same
// id in a deck built from the engine's rules.
func (e *Engine) checkCards(s *GameState) error {
	canon := make(map[string]Card, DeckSize)
	for _, c := range NewDeck(e.rules) {
		canon[c.ID] = c
	}
	check := func(where string, cards []Card) error {
		for _, c := range cards {
			if want, ok := canon[c.ID]; !ok || c != want {
				return fmt.Errorf("%w: %s card %q does not match the deck", ErrInvalidGameState, where, c.ID)
			}
		}
		return nil
	}
	if err := check("draw pile", s.DrawPile); err != nil {
		return err
	}
	if err := check("discard pile", s.DiscardPile); err != nil {
		return err
	}
	for _, p := range s.Players {
		if err := check(p.ID, p.Hand); err != nil {
			return err
		}
	}
	return nil
}
