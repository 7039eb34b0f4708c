// internal/game/game.go
package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikokadi/kadi/engine"
	"github.com/nikokadi/kadi/engine/agent"
	"github.com/nikokadi/kadi/service/internal/models"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the table ID and the winner's ID (uuid.Nil when the game was abandoned).
type OnGameEndFunc func(tableID uuid.UUID, winner uuid.UUID)

// GameEventType represents the type of a game-related event sent to clients.
type GameEventType string

// Service-level events. Engine events are forwarded under their own engine type names.
const (
	EventGamePlayerTurn    GameEventType = "game_player_turn"    // Public: whose turn it is now.
	EventPrivateDraw       GameEventType = "private_draw"        // Private: the cards a player drew.
	EventPrivateSyncState  GameEventType = "private_sync_state"  // Private: full per-player state.
	EventPrivateActionFail GameEventType = "private_action_fail" // Private: an action was rejected.
	EventPlayerTimeout     GameEventType = "player_timeout"      // Public: a player ran out of time.
	EventGameEnd           GameEventType = "game_end"            // Public: the game has ended.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within a GameEvent payload.
type EventCard struct {
	ID    string `json:"id"`
	Rank  string `json:"rank,omitempty"`
	Suit  string `json:"suit,omitempty"`
	Value int    `json:"value,omitempty"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Cards   []EventCard            `json:"cards,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfGameState `json:"state,omitempty"` // Per-player state for sync events.
}

// MinPlayers and MaxPlayers bound a table.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// maxAITurnsPerAction caps how many consecutive AI turns one trigger may run.
const maxAITurnsPerAction = 1000

// KadiGame is a single table: the players, the engine that owns the rules
// state, and the callbacks that deliver events to clients.
type KadiGame struct {
	ID      uuid.UUID
	TableID uuid.UUID

	Rules   engine.Rules
	Players []*models.Player
	Engine  *engine.Engine

	TurnDuration time.Duration // 0 disables the turn timer.
	turnTimer    *time.Timer
	timerTurn    int // engine turn number the running timer belongs to

	Started  bool
	GameOver bool

	lastSeen map[uuid.UUID]time.Time
	Mu       sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	log *logrus.Entry
}

// NewKadiGame creates a table with default rules. A nil rng seeds the engine from the clock.
func NewKadiGame(rng *rand.Rand) *KadiGame {
	id := uuid.New()
	g := &KadiGame{
		ID:           id,
		Rules:        engine.DefaultRules(),
		TurnDuration: 30 * time.Second,
		lastSeen:     make(map[uuid.UUID]time.Time),
		log:          logrus.WithField("game", id),
	}
	g.Engine = engine.New(g.Rules, rng)
	g.Engine.SetEventSink(g.sink())
	return g
}

// SetLogger replaces the table logger.
func (g *KadiGame) SetLogger(l *logrus.Logger) {
	g.log = l.WithField("game", g.ID)
	g.Engine.SetEventSink(g.sink())
}

// AddPlayer seats a player before the game starts, or marks a known player as
// reconnected.
func (g *KadiGame) AddPlayer(p *models.Player) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if existing := g.getPlayerByID(p.ID); existing != nil {
		existing.Connected = true
		g.lastSeen[p.ID] = time.Now()
		g.log.WithField("player", p.ID).Info("player reconnected")
		return true
	}
	if g.Started || g.GameOver {
		g.log.WithField("player", p.ID).Warn("cannot add player, game already started")
		return false
	}
	if len(g.Players) >= MaxPlayers {
		g.log.WithField("player", p.ID).Warn("cannot add player, table full")
		return false
	}
	if p.IsAI {
		p.Connected = true
	}
	g.Players = append(g.Players, p)
	g.lastSeen[p.ID] = time.Now()
	g.log.WithFields(logrus.Fields{"player": p.ID, "username": p.Username, "ai": p.IsAI}).Info("player added")
	return true
}

// Start deals the cards and begins play. AI seats that act first are played
// out before Start returns.
func (g *KadiGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		g.log.Warn("start called twice")
		return nil
	}
	seats := make([]*engine.Player, len(g.Players))
	for i, p := range g.Players {
		seats[i] = &engine.Player{
			ID:       p.EngineID(),
			Name:     p.Username,
			IsAI:     p.IsAI,
			Rating:   p.Rating,
			Coins:    p.Coins,
			AIConfig: p.AI,
		}
	}
	if err := g.Engine.InitializeGame(seats); err != nil {
		g.log.WithError(err).Error("failed to initialize game")
		return err
	}
	g.Started = true
	g.log.WithField("players", len(g.Players)).Info("game started")

	g.afterMove()
	return nil
}

// HandlePlayerAction validates and applies a client action, then lets AI
// seats take their turns.
func (g *KadiGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	entry := g.log.WithFields(logrus.Fields{"player": playerID, "action": action.ActionType})
	if g.GameOver || !g.Started {
		entry.Debug("action ignored, game not running")
		return
	}
	player := g.getPlayerByID(playerID)
	if player == nil || !player.Connected {
		entry.Warn("action from unknown or disconnected player ignored")
		return
	}
	g.lastSeen[playerID] = time.Now()

	move, err := g.applyAction(player, action)
	if err != nil {
		entry.WithError(err).Info("action rejected")
		g.fireActionFail(playerID, err)
		return
	}
	g.onMove(move)
	g.afterMove()
}

// afterMove syncs every client and then either ends the game or hands the
// turn on, running AI seats until a human is to act.
// Assumes lock is held by caller.
func (g *KadiGame) afterMove() {
	g.broadcastSyncStateToAll()
	if g.checkEnd() {
		return
	}
	g.runAITurns()
	if g.checkEnd() {
		return
	}
	g.broadcastPlayerTurn()
	g.scheduleNextTurnTimer()
}

// runAITurns plays AI seats until a human seat is current or the game ends.
// Assumes lock is held by caller.
func (g *KadiGame) runAITurns() {
	for range maxAITurnsPerAction {
		cur := g.Engine.GetCurrentPlayer()
		if cur == nil || !cur.IsAI || g.Engine.GetGameState().Status != engine.StatusActive {
			return
		}
		move := agent.Play(g.Engine, cur.ID)
		if move == nil {
			g.log.WithField("player", cur.ID).Error("AI did not resolve its turn")
			return
		}
		g.onMove(*move)
		g.broadcastSyncStateToAll()
	}
	g.log.Warn("AI turn limit reached")
}

// checkEnd finishes the table once the engine reports a winner.
// Assumes lock is held by caller.
func (g *KadiGame) checkEnd() bool {
	if s := g.Engine.GetGameState(); s != nil && s.Status == engine.StatusFinished {
		g.EndGame()
		return true
	}
	return false
}

// scheduleNextTurnTimer starts the timer for the current human player.
// Assumes lock is held by caller.
func (g *KadiGame) scheduleNextTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 || g.GameOver {
		return
	}
	s := g.Engine.GetGameState()
	cur := s.CurrentPlayer()
	if cur == nil || cur.IsAI {
		return
	}
	turn := s.TurnNumber
	g.timerTurn = turn
	pid := uuidOf(cur.ID)
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || g.timerTurn != turn {
			return
		}
		g.handleTimeout(pid)
	})
}

// handleTimeout draws for a player who ran out of time.
// Assumes lock is held by caller.
func (g *KadiGame) handleTimeout(playerID uuid.UUID) {
	s := g.Engine.GetGameState()
	if cur := s.CurrentPlayer(); cur == nil || cur.ID != playerID.String() {
		return
	}
	g.log.WithField("player", playerID).Info("turn timed out, drawing")
	g.fireEvent(GameEvent{Type: EventPlayerTimeout, User: &EventUser{ID: playerID}})
	move, err := g.Engine.DrawCard(playerID.String())
	if err != nil {
		g.log.WithError(err).WithField("player", playerID).Error("timeout draw failed")
		return
	}
	g.onMove(move)
	g.afterMove()
}

// broadcastPlayerTurn notifies all players of the current player's turn.
// Assumes lock is held by caller.
func (g *KadiGame) broadcastPlayerTurn() {
	s := g.Engine.GetGameState()
	cur := s.CurrentPlayer()
	if cur == nil {
		return
	}
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: uuidOf(cur.ID)},
		Payload: map[string]interface{}{
			"turn":  s.TurnNumber,
			"round": s.Round(),
		},
	})
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *KadiGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		g.log.WithField("event", ev.Type).Debug("BroadcastFn is nil, dropping event")
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to one connected player.
// Assumes lock is held by caller.
func (g *KadiGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.WithField("event", ev.Type).Debug("BroadcastToPlayerFn is nil, dropping private event")
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected && !p.IsAI {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

func (g *KadiGame) fireActionFail(playerID uuid.UUID, err error) {
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionFail,
		Payload: map[string]interface{}{"message": err.Error()},
	})
}

// HandleDisconnect marks a player as disconnected. If it was their turn, they
// draw so the table keeps moving.
func (g *KadiGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	g.log.WithField("player", playerID).Info("player disconnected")
	g.broadcastSyncStateToAll()

	if !g.Started || g.GameOver {
		return
	}
	if g.countConnectedHumans() == 0 {
		g.log.Info("no human players left, abandoning game")
		g.EndGame()
		return
	}
	if cur := g.Engine.GetCurrentPlayer(); cur != nil && cur.ID == playerID.String() {
		g.handleTimeout(playerID)
	}
}

// HandleReconnect marks a player as connected and sends them the current state.
func (g *KadiGame) HandleReconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil {
		g.log.WithField("player", playerID).Warn("reconnecting player not found")
		return
	}
	p.Connected = true
	g.lastSeen[playerID] = time.Now()
	g.log.WithField("player", playerID).Info("player reconnected")
	g.sendSyncState(playerID)
	if g.Started && !g.GameOver {
		if cur := g.Engine.GetCurrentPlayer(); cur != nil && cur.ID == playerID.String() {
			g.scheduleNextTurnTimer()
		}
	}
}

// sendSyncState sends the current per-player game state to a single player.
// Assumes lock is held by caller.
func (g *KadiGame) sendSyncState(playerID uuid.UUID) {
	state := g.GetCurrentObfuscatedGameState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected player their own view of the state.
// Assumes lock is held by caller.
func (g *KadiGame) broadcastSyncStateToAll() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.Players {
		if p.Connected && !p.IsAI {
			g.sendSyncState(p.ID)
		}
	}
}

func (g *KadiGame) countConnectedHumans() int {
	n := 0
	for _, p := range g.Players {
		if p.Connected && !p.IsAI {
			n++
		}
	}
	return n
}

// EndGame finalizes the table, broadcasts the result and runs OnGameEnd.
// Assumes lock is held by caller.
func (g *KadiGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	var (
		winner uuid.UUID
		turns  int
	)
	hands := map[string]int{}
	if s := g.Engine.GetGameState(); s != nil {
		winner = uuidOf(s.Winner)
		turns = s.TurnNumber
		for _, p := range s.Players {
			hands[p.ID] = len(p.Hand)
		}
	}

	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winner":    winner.String(),
			"handSizes": hands,
			"turns":     turns,
		},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.TableID, winner)
	}
	g.log.WithFields(logrus.Fields{"winner": winner, "turns": turns}).Info("game ended")
}

// getPlayerByID finds a player by ID within the game's Players slice.
// Assumes lock is held by caller.
func (g *KadiGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}
