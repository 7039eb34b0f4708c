package engine

import (
	"fmt"
	"math"
)

// RiskLevel is a coarse danger rating for a seat.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ScoreWeights weights the terms of StrategicScore.
type ScoreWeights struct {
	HandAdvantage float64 // per card fewer than the average opponent
	SpecialCard   float64 // per non-Answer card held
	AnswerCard    float64
	MultiCard     float64 // per card beyond the first in each same-rank group
}

// DefaultScoreWeights favors shedding cards over hoarding specials.
var DefaultScoreWeights = ScoreWeights{
	HandAdvantage: 10,
	SpecialCard:   5,
	AnswerCard:    2,
	MultiCard:     3,
}

// WinProbability is the naive hand-size heuristic.
func WinProbability(handSize int) float64 {
	switch handSize {
	case 0:
		return 1
	case 1:
		return 0.8
	case 2:
		return 0.5
	}
	return math.Max(0.05, 1-float64(handSize)/10)
}

// AssessRisk rates a seat by hand size and the penalty it faces.
func AssessRisk(handSize, penalty int) RiskLevel {
	switch {
	case handSize <= 2 || penalty >= 5:
		return RiskHigh
	case handSize <= 4 || penalty >= 3:
		return RiskMedium
	}
	return RiskLow
}

// StrategicScore is a weighted sum of hand-size advantage, special cards,
// Answer cards and multi-card potential.
func StrategicScore(hand []Card, avgOpponentHand float64, w ScoreWeights) float64 {
	var specials, answers, extra int
	for _, c := range hand {
		if c.Type == TypeAnswer {
			answers++
		} else {
			specials++
		}
	}
	for _, g := range rankGroups(hand, 2) {
		extra += len(g) - 1
	}
	return w.HandAdvantage*(avgOpponentHand-float64(len(hand))) +
		w.SpecialCard*float64(specials) +
		w.AnswerCard*float64(answers) +
		w.MultiCard*float64(extra)
}

// PlayerAnalysis is the derived view of one seat.
type PlayerAnalysis struct {
	PlayerID       string    `json:"playerId"`
	HandSize       int       `json:"handSize"`
	WinProbability float64   `json:"winProbability"`
	StrategicScore float64   `json:"strategicScore"`
	Risk           RiskLevel `json:"risk"`
}

// TableAnalysis is the derived view of the whole table.
type TableAnalysis struct {
	Leader          string           `json:"leader"`
	AverageHandSize float64          `json:"averageHandSize"`
	ThreatLevel     float64          `json:"threatLevel"` // leader's win probability
	SuitsInPlay     map[Suit]int     `json:"suitsInPlay"` // suits held across all hands
	Players         []PlayerAnalysis `json:"players"`
}

// Analyze computes read-only statistics for every seat. The penalty only
// counts against the current player.
func (e *Engine) Analyze() TableAnalysis {
	var ta TableAnalysis
	if e.state == nil {
		return ta
	}
	s := e.state
	total := 0
	for _, p := range s.Players {
		total += len(p.Hand)
	}
	ta.AverageHandSize = float64(total) / float64(len(s.Players))
	ta.SuitsInPlay = make(map[Suit]int, len(Suits))

	best := math.MaxInt
	for i, p := range s.Players {
		ta.Players = append(ta.Players, e.analyzePlayer(p, i, total))
		for _, c := range p.Hand {
			if c.Suit.IsReal() {
				ta.SuitsInPlay[c.Suit]++
			}
		}
		if len(p.Hand) < best {
			best = len(p.Hand)
			ta.Leader = p.ID
		}
	}
	ta.ThreatLevel = WinProbability(best)
	return ta
}

func (e *Engine) analyzePlayer(p *Player, seat, totalCards int) PlayerAnalysis {
	s := e.state
	avgOpp := 0.0
	if n := len(s.Players) - 1; n > 0 {
		avgOpp = float64(totalCards-len(p.Hand)) / float64(n)
	}
	penalty := 0
	if seat == s.CurrentPlayerIndex {
		penalty = s.ActivePenaltyStack
	}
	return PlayerAnalysis{
		PlayerID:       p.ID,
		HandSize:       len(p.Hand),
		WinProbability: WinProbability(len(p.Hand)),
		StrategicScore: StrategicScore(p.Hand, avgOpp, DefaultScoreWeights),
		Risk:           AssessRisk(len(p.Hand), penalty),
	}
}

// GetMoveValidation summarizes the options open to playerID. It never fails;
// an unknown player or an uninitialized engine yields the zero value.
func (e *Engine) GetMoveValidation(playerID string) MoveValidation {
	var mv MoveValidation
	if e.state == nil {
		return mv
	}
	s := e.state
	p, idx := s.PlayerByID(playerID)
	if p == nil {
		return mv
	}
	total := 0
	for _, q := range s.Players {
		total += len(q.Hand)
	}
	pa := e.analyzePlayer(p, idx, total)

	mv.IsYourTurn = idx == s.CurrentPlayerIndex && s.Status == StatusActive
	mv.MustDraw = s.MustDrawNextTurn == playerID
	mv.Penalties = s.ActivePenaltyStack
	mv.AwaitingAnswer = s.AwaitingAnswer != nil && s.AwaitingAnswer.PlayerID == playerID
	mv.RequiredSuit = s.RequiredSuit
	mv.StrategicScore = pa.StrategicScore
	mv.RiskLevel = pa.Risk

	if !mv.IsYourTurn {
		mv.Message = "waiting for other players"
		return mv
	}

	mv.ValidCards = e.GetValidCards(p.Hand)
	mv.CanPlay = len(mv.ValidCards) > 0
	mv.CanDeclareNiko = s.NikoDeclaredBy == ""
	mv.MultiCardOptions = e.playableGroups(p)
	for _, c := range mv.ValidCards {
		switch {
		case s.ActivePenaltyStack > 0:
			mv.Counters = append(mv.Counters, c)
		case c.Type == TypeJump || c.Type == TypeKickback:
			mv.DefensiveMoves = append(mv.DefensiveMoves, c)
		case c.Type == TypeAnswer:
			mv.AggressiveMoves = append(mv.AggressiveMoves, c)
		}
	}
	mv.WinningMoves = e.winningCards(p, mv.ValidCards)

	switch {
	case mv.MustDraw:
		mv.Message = "you must draw a card"
	case mv.AwaitingAnswer:
		mv.Message = fmt.Sprintf("answer with a %s card or an ace, or draw", s.AwaitingAnswer.Suit)
	case s.ActivePenaltyStack > 0:
		mv.Message = fmt.Sprintf("counter with a %s or an ace, or draw %d", s.ActivePenaltyRank, s.ActivePenaltyStack)
	case !mv.CanPlay:
		mv.Message = "no playable cards, draw"
	default:
		mv.Message = fmt.Sprintf("%d playable cards", len(mv.ValidCards))
	}
	return mv
}

// playableGroups returns the same-rank groups that can be played, each
// reordered so a legal card leads.
func (e *Engine) playableGroups(p *Player) [][]Card {
	if e.state.AwaitingAnswer != nil || e.state.MustDrawNextTurn == p.ID {
		return nil
	}
	var out [][]Card
	for _, g := range rankGroups(p.Hand, 2) {
		for i, c := range g {
			if !e.playable(c) {
				continue
			}
			lead := make([]Card, 0, len(g))
			lead = append(lead, c)
			lead = append(lead, g[:i]...)
			lead = append(lead, g[i+1:]...)
			out = append(out, lead)
			break
		}
	}
	return out
}

// winningCards returns the valid cards that lead a play emptying the hand
// and satisfying the win condition.
func (e *Engine) winningCards(p *Player, valid []Card) []Card {
	var out []Card
	for _, c := range valid {
		if len(p.Hand) > MaxGroupSize {
			break
		}
		if !IsValidMultiCardCombination(p.Hand) && len(p.Hand) != 1 {
			break
		}
		if e.state.AwaitingAnswer != nil && len(p.Hand) != 1 {
			break
		}
		if e.ValidateWinCondition(p, p.Hand) == nil {
			out = append(out, c)
		}
	}
	return out
}
