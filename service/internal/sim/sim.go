// Package sim plays many independent AI-only games in parallel. Every game
// owns its own engine and random source, so games share nothing.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nikokadi/kadi/engine"
	"github.com/nikokadi/kadi/engine/agent"
	"github.com/nikokadi/kadi/service/internal/game"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrStuck is returned when the AI fails to resolve a turn.
var ErrStuck = errors.New("AI did not resolve its turn")

// Options configures a simulation run.
type Options struct {
	Games    int
	Players  int
	Workers  int
	Seed     uint64 // 0 seeds from the clock
	MaxTurns int    // AI moves per game before it is abandoned
	AI       engine.AIConfig
	Logger   logrus.FieldLogger
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Index        int    `json:"index"`
	GameID       string `json:"gameId"`
	Finished     bool   `json:"finished"`
	Winner       string `json:"winner,omitempty"`
	WinnerSeat   int    `json:"winnerSeat"` // -1 when unfinished
	Turns        int    `json:"turns"`
	Moves        int    `json:"moves"`
	Declarations int    `json:"declarations"`
	Reshuffles   int    `json:"reshuffles"`
}

// Summary aggregates a run.
type Summary struct {
	Seed       uint64       `json:"seed"`
	Games      int          `json:"games"`
	Finished   int          `json:"finished"`
	WinsBySeat []int        `json:"winsBySeat"`
	AvgTurns   float64      `json:"avgTurns"` // over finished games
	Results    []GameResult `json:"results"`
}

// Run plays opts.Games games on at most opts.Workers goroutines. The first
// failing game cancels the rest.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games < 1 || opts.Workers < 1 || opts.MaxTurns < 1 {
		return Summary{}, fmt.Errorf("sim: invalid options games=%d workers=%d maxTurns=%d", opts.Games, opts.Workers, opts.MaxTurns)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	results := make([]GameResult, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Games {
		g.Go(func() error {
			r, err := playOne(ctx, i, seed, opts)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summarize(seed, opts.Players, results), nil
}

func playOne(ctx context.Context, index int, seed uint64, opts Options) (GameResult, error) {
	res := GameResult{Index: index, WinnerSeat: -1}
	e := engine.New(engine.DefaultRules(), rand.New(rand.NewPCG(seed, uint64(index))))

	logSink := game.NewLogSink(opts.Logger)
	e.SetEventSink(engine.SinkFunc(func(ev engine.GameEvent) {
		switch ev.Type {
		case engine.EventNikoDeclared:
			res.Declarations++
		case engine.EventPileReshuffled:
			res.Reshuffles++
		}
		logSink.OnEvent(ev)
	}))

	players := make([]*engine.Player, opts.Players)
	for i := range players {
		cfg := opts.AI
		players[i] = &engine.Player{
			ID:       fmt.Sprintf("bot-%d", i),
			Name:     fmt.Sprintf("Bot %d", i+1),
			IsAI:     true,
			AIConfig: &cfg,
		}
	}
	if err := e.InitializeGame(players); err != nil {
		return res, err
	}
	res.GameID = e.GetGameState().ID

	for res.Moves < opts.MaxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		cur := e.GetCurrentPlayer()
		if agent.Play(e, cur.ID) == nil {
			return res, fmt.Errorf("%w: %s on turn %d", ErrStuck, cur.ID, e.GetGameState().TurnNumber)
		}
		res.Moves++

		s := e.GetGameState()
		if s.Status == engine.StatusFinished {
			_, seat := s.PlayerByID(s.Winner)
			res.Finished, res.Winner, res.WinnerSeat, res.Turns = true, s.Winner, seat, s.TurnNumber
			break
		}
	}
	if !res.Finished {
		res.Turns = e.GetGameState().TurnNumber
		opts.Logger.WithFields(logrus.Fields{"game": res.GameID, "moves": res.Moves}).Warn("game abandoned at move limit")
	}
	return res, nil
}

func summarize(seed uint64, players int, results []GameResult) Summary {
	sum := Summary{
		Seed:       seed,
		Games:      len(results),
		WinsBySeat: make([]int, players),
		Results:    results,
	}
	turns := 0
	for _, r := range results {
		if !r.Finished {
			continue
		}
		sum.Finished++
		turns += r.Turns
		if r.WinnerSeat >= 0 && r.WinnerSeat < players {
			sum.WinsBySeat[r.WinnerSeat]++
		}
	}
	if sum.Finished > 0 {
		sum.AvgTurns = float64(turns) / float64(sum.Finished)
	}
	return sum
}
