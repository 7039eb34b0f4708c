// engine_adapter.go: bridge between engine.Engine and KadiGame.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikokadi/kadi/engine"
	"github.com/nikokadi/kadi/service/internal/models"
	"github.com/sirupsen/logrus"
)

// Inbound action types.
const (
	ActionPlay    = "action_play"
	ActionDraw    = "action_draw"
	ActionDeclare = "action_declare"
	ActionPass    = "action_pass"
)

// ErrUnknownAction is returned for an unrecognized GameAction.ActionType.
var ErrUnknownAction = errors.New("unknown action type")

// ErrBadPayload is returned when an action payload cannot be decoded.
var ErrBadPayload = errors.New("malformed action payload")

// uuidOf maps an engine player id back to the table uuid; unknown ids map to uuid.Nil.
func uuidOf(engineID string) uuid.UUID {
	id, err := uuid.Parse(engineID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toEventCards(cards []engine.Card) []EventCard {
	if len(cards) == 0 {
		return nil
	}
	out := make([]EventCard, len(cards))
	for i, c := range cards {
		out[i] = EventCard{ID: c.ID, Rank: string(c.Rank), Suit: string(c.Suit), Value: c.Value}
	}
	return out
}

// applyAction routes a client action to the engine.
// Assumes lock is held by caller.
func (g *KadiGame) applyAction(p *models.Player, action models.GameAction) (engine.GameMove, error) {
	id := p.EngineID()
	switch action.ActionType {
	case ActionPlay:
		cards, suit, err := parsePlayPayload(action.Payload)
		if err != nil {
			return engine.GameMove{}, err
		}
		return g.Engine.PlayCard(id, cards, suit)
	case ActionDraw:
		return g.Engine.DrawCard(id)
	case ActionDeclare:
		return g.Engine.DeclareNikoKadi(id)
	case ActionPass:
		return g.Engine.PassTurn(id)
	}
	return engine.GameMove{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.ActionType)
}

// parsePlayPayload reads "cards" and the optional "suit" from a play action.
// Cards may arrive as []string or, after JSON decoding, as []interface{}.
func parsePlayPayload(payload map[string]interface{}) ([]string, engine.Suit, error) {
	var ids []string
	switch v := payload["cards"].(type) {
	case []string:
		ids = v
	case []interface{}:
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, engine.SuitNone, fmt.Errorf("%w: card id %v is not a string", ErrBadPayload, x)
			}
			ids = append(ids, s)
		}
	case nil:
	default:
		return nil, engine.SuitNone, fmt.Errorf("%w: cards must be a list", ErrBadPayload)
	}

	suit := engine.SuitNone
	if raw, ok := payload["suit"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return nil, engine.SuitNone, fmt.Errorf("%w: suit must be a string", ErrBadPayload)
		}
		suit = engine.Suit(s)
	}
	return ids, suit, nil
}

// onMove sends the private half of a move. The public half reaches clients
// through the engine event sink.
// Assumes lock is held by caller.
func (g *KadiGame) onMove(m engine.GameMove) {
	if m.Action == engine.ActionDraw && len(m.Cards) > 0 {
		g.fireEventToPlayer(uuidOf(m.PlayerID), GameEvent{
			Type:  EventPrivateDraw,
			Cards: toEventCards(m.Cards),
		})
	}
}

// sink forwards engine events to the table log and to every client.
func (g *KadiGame) sink() engine.EventSink {
	return engine.SinkFunc(func(ev engine.GameEvent) {
		g.log.WithFields(eventFields(ev)).Debug("engine event")

		out := GameEvent{Type: GameEventType(ev.Type), Payload: ev.Payload}
		if ev.PlayerID != "" {
			out.User = &EventUser{ID: uuidOf(ev.PlayerID)}
		}
		g.fireEvent(out)
	})
}

// NewLogSink returns an engine sink that only logs, for tables without clients.
func NewLogSink(log logrus.FieldLogger) engine.EventSink {
	return engine.SinkFunc(func(ev engine.GameEvent) {
		log.WithField("game", ev.GameID).WithFields(eventFields(ev)).Debug("engine event")
	})
}

func eventFields(ev engine.GameEvent) logrus.Fields {
	fields := logrus.Fields{"event": ev.Type, "turn": ev.Turn}
	if ev.PlayerID != "" {
		fields["player"] = ev.PlayerID
	}
	for k, v := range ev.Payload {
		fields[k] = v
	}
	return fields
}
