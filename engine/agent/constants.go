package agent

import "github.com/nikokadi/kadi/engine"

// Category is a class of candidate move that strategies rank.
type Category uint8

const (
	CatWinning    Category = iota // plays that empty the hand and win
	CatMultiCard                  // same-rank groups of two or more
	CatPenalty                    // 2, 3, Joker
	CatAggressive                 // Answer cards
	CatDefensive                  // Jump and Kickback
	CatQuestion                   // Questions with a follow-up Answer in hand
	CatWild                       // Aces
)

func (c Category) String() string {
	switch c {
	case CatWinning:
		return "winning"
	case CatMultiCard:
		return "multi-card"
	case CatPenalty:
		return "penalty"
	case CatAggressive:
		return "aggressive"
	case CatDefensive:
		return "defensive"
	case CatQuestion:
		return "question"
	case CatWild:
		return "wild"
	}
	return "unknown"
}

// CardCategory maps a single card to the category it is ranked under.
// Multi-card and winning plays are recognized from the whole hand instead.
func CardCategory(c engine.Card) Category {
	if c.IsWild() {
		return CatWild
	}
	switch c.Type {
	case engine.TypePenalty:
		return CatPenalty
	case engine.TypeJump, engine.TypeKickback:
		return CatDefensive
	case engine.TypeQuestion:
		return CatQuestion
	}
	return CatAggressive
}

// StrategyName identifies an entry in the strategy table.
type StrategyName string

const (
	EarlyConservative StrategyName = "early-conservative"
	EarlyAggressive   StrategyName = "early-aggressive"
	MidBalanced       StrategyName = "mid-balanced"
	LateAggressive    StrategyName = "late-aggressive"
	LateDefensive     StrategyName = "late-defensive"
	EndgameDesperate  StrategyName = "endgame-desperate"
)

// Strategy is a priority list over move categories. The first category with
// a candidate decides the move.
type Strategy struct {
	Name        StrategyName
	Priorities  []Category
	DeclareNiko bool // self-declare when the win heuristic is confident
}

// Strategies is the fixed strategy table.
var Strategies = map[StrategyName]Strategy{
	EarlyConservative: {
		Name:       EarlyConservative,
		Priorities: []Category{CatWinning, CatAggressive, CatQuestion, CatDefensive, CatPenalty, CatMultiCard, CatWild},
	},
	EarlyAggressive: {
		Name:       EarlyAggressive,
		Priorities: []Category{CatWinning, CatPenalty, CatMultiCard, CatDefensive, CatAggressive, CatQuestion, CatWild},
	},
	MidBalanced: {
		Name:        MidBalanced,
		Priorities:  []Category{CatWinning, CatMultiCard, CatAggressive, CatPenalty, CatDefensive, CatQuestion, CatWild},
		DeclareNiko: true,
	},
	LateAggressive: {
		Name:        LateAggressive,
		Priorities:  []Category{CatWinning, CatPenalty, CatMultiCard, CatDefensive, CatAggressive, CatQuestion, CatWild},
		DeclareNiko: true,
	},
	LateDefensive: {
		Name:        LateDefensive,
		Priorities:  []Category{CatWinning, CatDefensive, CatPenalty, CatAggressive, CatMultiCard, CatQuestion, CatWild},
		DeclareNiko: true,
	},
	EndgameDesperate: {
		Name:        EndgameDesperate,
		Priorities:  []Category{CatWinning, CatMultiCard, CatPenalty, CatAggressive, CatQuestion, CatDefensive, CatWild},
		DeclareNiko: true,
	},
}

// SelectStrategy maps game phase and play style onto the strategy table.
// Balanced players lean conservative early and aggressive late.
func SelectStrategy(phase engine.GamePhase, style engine.PlayStyle) Strategy {
	switch phase {
	case engine.PhaseEarly:
		if style == engine.StyleAggressive {
			return Strategies[EarlyAggressive]
		}
		return Strategies[EarlyConservative]
	case engine.PhaseMid:
		return Strategies[MidBalanced]
	case engine.PhaseLate:
		if style == engine.StyleDefensive {
			return Strategies[LateDefensive]
		}
		return Strategies[LateAggressive]
	}
	return Strategies[EndgameDesperate]
}

// DeclareThreshold is the win probability above which a strategy with
// DeclareNiko set calls Niko Kadi.
const DeclareThreshold = 0.7

// MaxDeclareHand is the largest hand that may declare.
const MaxDeclareHand = 3
