package engine

import "errors"

// Precondition failures.
var (
	ErrNotInitialized  = errors.New("game not initialized")
	ErrGameFinished    = errors.New("game is already finished")
	ErrTooFewPlayers   = errors.New("not enough players to start")
	ErrTooManyPlayers  = errors.New("too many players")
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrNoStartingCard  = errors.New("no valid starting card found")
	ErrUnknownPlayer   = errors.New("player not found")
	ErrNotYourTurn     = errors.New("not your turn")
)

// Illegal move reasons, one per validator check.
var (
	ErrMustDraw         = errors.New("player must draw this turn")
	ErrNoCardsSelected  = errors.New("no cards selected")
	ErrDuplicateCard    = errors.New("card selected more than once")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrAwaitingAnswer   = errors.New("an answer to the pending question is required")
	ErrMixedRanks       = errors.New("multi-card play must share rank")
	ErrPenaltyActive    = errors.New("penalty active: counter with the same penalty rank or draw")
	ErrSuitRankMismatch = errors.New("card does not match suit or rank of top card")
	ErrSuitRequired     = errors.New("a suit must be declared when playing a wild")
	ErrInvalidSuit      = errors.New("invalid suit")
	ErrAlreadyDeclared  = errors.New("niko kadi already declared")
)

// Reasons a hand-emptying play does not win.
var (
	ErrWildFinish      = errors.New("cannot finish on a wild card")
	ErrInvalidFinish   = errors.New("final cards must be answer or question cards")
	ErrNikoNotDeclared = errors.New("niko kadi was not declared")
	ErrNikoWrongRound  = errors.New("niko kadi must be declared in the previous round")
)

// ErrInvalidGameState is returned when imported or installed state is malformed.
var ErrInvalidGameState = errors.New("invalid game state data")
