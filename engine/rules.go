package engine

// Rules holds the configurable rank-to-effect table and deal sizes.
type Rules struct {
	PenaltyValues        map[Rank]int // draw count per penalty card
	JumpRank             Rank
	KickbackRank         Rank
	WildRank             Rank
	QuestionRanks        []Rank
	SmallTableHandSize   int // cards dealt when players <= SmallTableMaxPlayers
	LargeTableHandSize   int
	SmallTableMaxPlayers int
	MinPlayers           int
	MaxPlayers           int
}

// DefaultRules returns the standard Niko Kadi rules.
func DefaultRules() Rules {
	return Rules{
		PenaltyValues: map[Rank]int{
			RankTwo:   2,
			RankThree: 3,
			RankJoker: 5,
		},
		JumpRank:             RankJack,
		KickbackRank:         RankKing,
		WildRank:             RankAce,
		QuestionRanks:        []Rank{RankEight, RankQueen},
		SmallTableHandSize:   4,
		LargeTableHandSize:   3,
		SmallTableMaxPlayers: 3,
		MinPlayers:           2,
		MaxPlayers:           6,
	}
}

// TypeOf maps a rank to its card type. Anything not named by the rules is an Answer.
func (r Rules) TypeOf(rank Rank) CardType {
	if _, ok := r.PenaltyValues[rank]; ok {
		return TypePenalty
	}
	switch rank {
	case r.WildRank:
		return TypeWild
	case r.JumpRank:
		return TypeJump
	case r.KickbackRank:
		return TypeKickback
	}
	for _, q := range r.QuestionRanks {
		if q == rank {
			return TypeQuestion
		}
	}
	return TypeAnswer
}

// PenaltyValue returns the per-card draw count for a penalty rank, or 0.
func (r Rules) PenaltyValue(rank Rank) int {
	return r.PenaltyValues[rank]
}

// HandSize returns how many cards each player is dealt.
func (r Rules) HandSize(numPlayers int) int {
	if numPlayers <= r.SmallTableMaxPlayers {
		return r.SmallTableHandSize
	}
	return r.LargeTableHandSize
}
