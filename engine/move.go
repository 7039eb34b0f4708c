package engine

import "time"

// MoveAction identifies the kind of GameMove.
type MoveAction string

const (
	ActionPlay    MoveAction = "play"
	ActionDraw    MoveAction = "draw"
	ActionDeclare MoveAction = "declare"
	ActionPass    MoveAction = "pass"
)

// GameMove is the audit record returned by every successful mutating call.
// Cards holds the played cards for a play and the drawn cards for a draw.
type GameMove struct {
	PlayerID     string     `json:"playerId"`
	Cards        []Card     `json:"cards"`
	Action       MoveAction `json:"action"`
	Timestamp    time.Time  `json:"timestamp"`
	DeclaredSuit Suit       `json:"declaredSuit,omitempty"`
}

// ValidationResult is the outcome of ValidateMove. Err wraps the sentinel of the failed check.
type ValidationResult struct {
	Valid bool
	Err   error
}

// MoveValidation summarizes what the given player can do right now, with the
// valid cards broken down into the categories the AI reasons about.
type MoveValidation struct {
	IsYourTurn       bool      `json:"isYourTurn"`
	CanPlay          bool      `json:"canPlay"`
	ValidCards       []Card    `json:"validCards"`
	MustDraw         bool      `json:"mustDraw"`
	Penalties        int       `json:"penalties"`
	Counters         []Card    `json:"counters"`
	AwaitingAnswer   bool      `json:"awaitingAnswer"`
	RequiredSuit     Suit      `json:"requiredSuit,omitempty"`
	CanDeclareNiko   bool      `json:"canDeclareNiko"`
	Message          string    `json:"message"`
	MultiCardOptions [][]Card  `json:"multiCardOptions,omitempty"`
	WinningMoves     []Card    `json:"winningMoves,omitempty"`
	DefensiveMoves   []Card    `json:"defensiveMoves,omitempty"`
	AggressiveMoves  []Card    `json:"aggressiveMoves,omitempty"`
	StrategicScore   float64   `json:"strategicScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
}
