package engine

// EventType names a point in the game flow at which the engine reports.
type EventType string

const (
	EventGameStarted       EventType = "game_started"
	EventCardPlayed        EventType = "card_played"
	EventPenaltyStacked    EventType = "penalty_stacked"
	EventPenaltyCancelled  EventType = "penalty_cancelled"
	EventSuitDeclared      EventType = "suit_declared"
	EventSkipQueued        EventType = "skip_queued"
	EventDirectionReversed EventType = "direction_reversed"
	EventQuestionAsked     EventType = "question_asked"
	EventQuestionAnswered  EventType = "question_answered"
	EventQuestionForfeited EventType = "question_forfeited"
	EventCardsDrawn        EventType = "cards_drawn"
	EventPileReshuffled    EventType = "pile_reshuffled"
	EventTurnAdvanced      EventType = "turn_advanced"
	EventNikoDeclared      EventType = "niko_declared"
	EventNikoExpired       EventType = "niko_expired"
	EventTurnPassed        EventType = "turn_passed"
	EventGameWon           EventType = "game_won"
	EventHandEmptied       EventType = "hand_emptied"
)

// GameEvent is a single observation emitted by the engine. Payload keys depend on Type.
type GameEvent struct {
	Type     EventType      `json:"type"`
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId,omitempty"`
	Turn     int            `json:"turn"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// EventSink receives engine events synchronously, in order. Sinks must not call
// back into the engine.
type EventSink interface {
	OnEvent(GameEvent)
}

// SinkFunc adapts a plain function to EventSink.
type SinkFunc func(GameEvent)

func (f SinkFunc) OnEvent(ev GameEvent) { f(ev) }

type nopSink struct{}

func (nopSink) OnEvent(GameEvent) {}
