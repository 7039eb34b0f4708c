// Package agent implements the Niko Kadi AI player. It reads the engine's
// state, picks a strategy from a fixed table by game phase and play style,
// and applies exactly one move per call.
package agent

import (
	"cmp"
	"slices"

	"github.com/nikokadi/kadi/engine"
)

// Decision is a planned move. Category is only meaningful for plays.
type Decision struct {
	Action   engine.MoveAction
	CardIDs  []string
	Suit     engine.Suit
	Declare  bool // call Niko Kadi before acting
	Strategy StrategyName
	Category Category
}

// defaultConfig applies to seats without an AIConfig.
var defaultConfig = engine.AIConfig{
	Difficulty: engine.DifficultyMedium,
	PlayStyle:  engine.StyleBalanced,
	Aggression: 0.5,
}

// decideHook runs before every decision; tests use it to inject failures.
var decideHook func()

// Choose plans playerID's move without applying it. ok is false when the game
// is not active or it is not playerID's turn.
func Choose(e *engine.Engine, playerID string) (d Decision, ok bool) {
	s := e.GetGameState()
	if s == nil || s.Status != engine.StatusActive {
		return Decision{}, false
	}
	p := s.CurrentPlayer()
	if p == nil || p.ID != playerID {
		return Decision{}, false
	}
	return decide(e, s, p), true
}

// Play decides and applies playerID's move. It returns nil, with no state
// change, when it is not playerID's turn. A failure while deciding falls back
// to the first valid card, else a draw, so the turn is always resolved.
//
// The returned move is the one that ends the turn. When the seat also declares
// Niko Kadi, the declaration is recorded in history as a separate move just
// before it and is not returned.
func Play(e *engine.Engine, playerID string) (move *engine.GameMove) {
	s := e.GetGameState()
	if s == nil || s.Status != engine.StatusActive {
		return nil
	}
	p := s.CurrentPlayer()
	if p == nil || p.ID != playerID {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			move = fallback(e, playerID)
		}
	}()
	return apply(e, playerID, decide(e, s, p))
}

func decide(e *engine.Engine, s *engine.GameState, p *engine.Player) Decision {
	if decideHook != nil {
		decideHook()
	}
	cfg := defaultConfig
	if p.AIConfig != nil {
		cfg = *p.AIConfig
	}
	strat := SelectStrategy(s.Phase(), cfg.PlayStyle)
	d := Decision{Action: engine.ActionDraw, Strategy: strat.Name}

	mv := e.GetMoveValidation(p.ID)
	if mv.MustDraw || !mv.CanPlay {
		return d
	}
	d.Declare = shouldDeclare(strat, s, p)

	var cards []engine.Card
	if cfg.Difficulty == engine.DifficultyEasy {
		c := mv.ValidCards[e.Rand().IntN(len(mv.ValidCards))]
		cards, d.Category = []engine.Card{c}, CardCategory(c)
	} else {
		cards, d.Category = pick(strat, p, mv, cfg.Difficulty)
	}

	// Keep the last card for next round's win rather than emptying the hand now.
	if len(cards) == len(p.Hand) && d.Category != CatWinning && holdForWin(s, p, d.Declare) {
		d.Action = engine.ActionPass
		return d
	}

	d.Action = engine.ActionPlay
	d.CardIDs = make([]string, len(cards))
	for i, c := range cards {
		d.CardIDs[i] = c.ID
	}
	if cards[0].IsWild() {
		d.Suit = ChooseSuit(p.Hand, cards)
	}
	return d
}

func shouldDeclare(strat Strategy, s *engine.GameState, p *engine.Player) bool {
	n := len(p.Hand)
	return strat.DeclareNiko &&
		s.NikoDeclaredBy == "" &&
		n > 0 && n <= MaxDeclareHand &&
		engine.WinProbability(n) > DeclareThreshold
}

// holdForWin reports whether a seat with a single finishing card that has
// declared this round should pass instead of playing it.
func holdForWin(s *engine.GameState, p *engine.Player, declaring bool) bool {
	if len(p.Hand) != 1 || s.ActivePenaltyStack > 0 {
		return false
	}
	if t := p.Hand[0].Type; t != engine.TypeAnswer && t != engine.TypeQuestion {
		return false
	}
	return declaring || (s.HasDeclared(p.ID) && s.NikoDeclaredRound == s.Round())
}

// pick walks the strategy's priorities and returns the first category's best play.
func pick(strat Strategy, p *engine.Player, mv engine.MoveValidation, diff engine.Difficulty) ([]engine.Card, Category) {
	for _, cat := range strat.Priorities {
		cands := candidates(cat, p, mv)
		if len(cands) == 0 {
			continue
		}
		return best(cands, p, diff), cat
	}
	// Only questions without a follow-up are left.
	c := mv.ValidCards[0]
	return []engine.Card{c}, CardCategory(c)
}

func candidates(cat Category, p *engine.Player, mv engine.MoveValidation) [][]engine.Card {
	var out [][]engine.Card
	switch cat {
	case CatWinning:
		for _, c := range mv.WinningMoves {
			play := []engine.Card{c}
			for _, h := range p.Hand {
				if h.ID != c.ID {
					play = append(play, h)
				}
			}
			out = append(out, play)
		}

	case CatMultiCard:
		for _, g := range mv.MultiCardOptions {
			if len(g) == len(p.Hand) {
				// Never empty the hand with a group that does not win.
				g = g[:len(g)-1]
			}
			if len(g) >= 2 {
				out = append(out, g)
			}
		}
		slices.SortStableFunc(out, func(a, b []engine.Card) int { return cmp.Compare(len(b), len(a)) })

	case CatQuestion:
		for _, c := range mv.ValidCards {
			if CardCategory(c) == CatQuestion && hasAnswer(p.Hand, c.Suit) {
				out = append(out, []engine.Card{c})
			}
		}

	default:
		for _, c := range mv.ValidCards {
			if CardCategory(c) == cat {
				out = append(out, []engine.Card{c})
			}
		}
	}
	return out
}

func hasAnswer(hand []engine.Card, suit engine.Suit) bool {
	for _, c := range hand {
		if c.Type == engine.TypeAnswer && c.Suit == suit {
			return true
		}
	}
	return false
}

// best returns the first candidate, or for hard and expert seats the one
// leaving the strongest hand behind.
func best(cands [][]engine.Card, p *engine.Player, diff engine.Difficulty) []engine.Card {
	if diff != engine.DifficultyHard && diff != engine.DifficultyExpert {
		return cands[0]
	}
	top, topScore := cands[0], remainingScore(p.Hand, cands[0])
	for _, c := range cands[1:] {
		if sc := remainingScore(p.Hand, c); sc > topScore {
			top, topScore = c, sc
		}
	}
	return top
}

func remainingScore(hand, play []engine.Card) float64 {
	rest := without(hand, play)
	return engine.StrategicScore(rest, 0, engine.DefaultScoreWeights)
}

func without(hand, play []engine.Card) []engine.Card {
	out := make([]engine.Card, 0, len(hand))
	for _, c := range hand {
		if !slices.ContainsFunc(play, func(x engine.Card) bool { return x.ID == c.ID }) {
			out = append(out, c)
		}
	}
	return out
}

// ChooseSuit names the suit held most often once played is gone. Ties go to
// the earlier suit in hearts, diamonds, clubs, spades order.
func ChooseSuit(hand, played []engine.Card) engine.Suit {
	var counts [len(engine.Suits)]int
	for _, c := range without(hand, played) {
		for i, s := range engine.Suits {
			if c.Suit == s {
				counts[i]++
			}
		}
	}
	bestIdx := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[bestIdx] {
			bestIdx = i
		}
	}
	return engine.Suits[bestIdx]
}

func apply(e *engine.Engine, playerID string, d Decision) *engine.GameMove {
	if d.Declare {
		// Losing a race to declare is harmless; the move still goes ahead.
		_, _ = e.DeclareNikoKadi(playerID)
	}
	var (
		m   engine.GameMove
		err error
	)
	switch d.Action {
	case engine.ActionPlay:
		m, err = e.PlayCard(playerID, d.CardIDs, d.Suit)
	case engine.ActionPass:
		m, err = e.PassTurn(playerID)
	default:
		m, err = e.DrawCard(playerID)
	}
	if err != nil {
		return fallback(e, playerID)
	}
	return &m
}

// fallback plays the first valid card, else draws.
func fallback(e *engine.Engine, playerID string) *engine.GameMove {
	p := e.GetCurrentPlayer()
	if p == nil || p.ID != playerID {
		return nil
	}
	if valid := e.GetValidCards(p.Hand); len(valid) > 0 {
		suit := engine.SuitNone
		if valid[0].IsWild() {
			suit = ChooseSuit(p.Hand, valid[:1])
		}
		if m, err := e.PlayCard(playerID, []string{valid[0].ID}, suit); err == nil {
			return &m
		}
	}
	if m, err := e.DrawCard(playerID); err == nil {
		return &m
	}
	return nil
}
