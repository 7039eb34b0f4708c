package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestValidateMove(t *testing.T) {
	var (
		h7 = card(SuitHearts, RankSeven)
		d7 = card(SuitDiamonds, RankSeven)
		c7 = card(SuitClubs, RankSeven)
		s4 = card(SuitSpades, RankFour)
		c9 = card(SuitClubs, RankNine)
		h5 = card(SuitHearts, RankFive)
		sA = card(SuitSpades, RankAce)
		s2 = card(SuitSpades, RankTwo)
		h2 = card(SuitHearts, RankTwo)
		h3 = card(SuitHearts, RankThree)
		c3 = card(SuitClubs, RankThree)
		h8 = card(SuitHearts, RankEight)
		j1 = joker(1)
	)
	hand := []Card{h7, c7, s4, c9, h5, sA, s2, h2, h3, h8, j1}

	tests := []struct {
		name    string
		top     Card
		player  string
		cards   []string
		mutate  func(s *GameState)
		wantErr error
	}{
		{name: "suit match", top: card(SuitHearts, RankNine), player: "p0", cards: ids(h5)},
		{name: "rank match", top: d7, player: "p0", cards: ids(h7)},
		{name: "mismatch", top: card(SuitDiamonds, RankNine), player: "p0", cards: ids(s4), wantErr: ErrSuitRankMismatch},
		{name: "penalty must match to initiate", top: c3, player: "p0", cards: ids(s2), wantErr: ErrSuitRankMismatch},
		{name: "penalty initiates on rank", top: c3, player: "p0", cards: ids(h3)},
		{name: "must draw first", top: d7, player: "p0", cards: ids(h7),
			mutate: func(s *GameState) { s.MustDrawNextTurn = "p0" }, wantErr: ErrMustDraw},
		{name: "must draw beats wild", top: d7, player: "p0", cards: ids(sA),
			mutate: func(s *GameState) { s.MustDrawNextTurn = "p0" }, wantErr: ErrMustDraw},
		{name: "unknown player", top: d7, player: "nobody", cards: ids(h7), wantErr: ErrUnknownPlayer},
		{name: "not your turn", top: d7, player: "p1", cards: ids(card(SuitDiamonds, RankFour)), wantErr: ErrNotYourTurn},
		{name: "no cards", top: d7, player: "p0", cards: nil, wantErr: ErrNoCardsSelected},
		{name: "duplicate card", top: d7, player: "p0", cards: []string{h7.ID, h7.ID}, wantErr: ErrDuplicateCard},
		{name: "card not in hand", top: d7, player: "p0", cards: ids(card(SuitSpades, RankSeven)), wantErr: ErrCardNotInHand},
		{name: "multi same rank", top: d7, player: "p0", cards: ids(h7, c7)},
		{name: "multi mixed ranks", top: d7, player: "p0", cards: ids(h7, h5), wantErr: ErrMixedRanks},
		{name: "wild on anything", top: card(SuitDiamonds, RankNine), player: "p0", cards: ids(sA)},
		{name: "wild under penalty", top: card(SuitClubs, RankTwo), player: "p0", cards: ids(sA),
			mutate: func(s *GameState) { s.ActivePenaltyStack = 2; s.ActivePenaltyRank = RankTwo }},
		{name: "wild under question", top: card(SuitDiamonds, RankEight), player: "p0", cards: ids(sA),
			mutate: func(s *GameState) { s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitDiamonds} }},
		{name: "penalty counter same rank", top: card(SuitDiamonds, RankTwo), player: "p0", cards: ids(s2),
			mutate: func(s *GameState) { s.ActivePenaltyStack = 2; s.ActivePenaltyRank = RankTwo }},
		{name: "penalty counter ignores suit", top: card(SuitDiamonds, RankTwo), player: "p0", cards: ids(s2, h2),
			mutate: func(s *GameState) { s.ActivePenaltyStack = 2; s.ActivePenaltyRank = RankTwo }},
		{name: "penalty counter other rank", top: card(SuitDiamonds, RankTwo), player: "p0", cards: ids(h3),
			mutate: func(s *GameState) { s.ActivePenaltyStack = 2; s.ActivePenaltyRank = RankTwo }, wantErr: ErrPenaltyActive},
		{name: "penalty blocks answer", top: card(SuitClubs, RankTwo), player: "p0", cards: ids(h5),
			mutate: func(s *GameState) { s.ActivePenaltyStack = 2; s.ActivePenaltyRank = RankTwo }, wantErr: ErrPenaltyActive},
		{name: "answer demanded suit", top: card(SuitHearts, RankQueen), player: "p0", cards: ids(h5),
			mutate: func(s *GameState) { s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts} }},
		{name: "answer wrong suit", top: card(SuitHearts, RankQueen), player: "p0", cards: ids(c9),
			mutate: func(s *GameState) { s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts} }, wantErr: ErrAwaitingAnswer},
		{name: "answer with a question", top: card(SuitHearts, RankQueen), player: "p0", cards: ids(h8),
			mutate: func(s *GameState) { s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts} }, wantErr: ErrAwaitingAnswer},
		{name: "answer with two cards", top: card(SuitHearts, RankQueen), player: "p0", cards: ids(h7, c7),
			mutate: func(s *GameState) { s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts} }, wantErr: ErrAwaitingAnswer},
		{name: "required suit overrides top", top: card(SuitClubs, RankAce), player: "p0", cards: ids(h5),
			mutate: func(s *GameState) { s.RequiredSuit = SuitHearts }},
		{name: "natural suit of wild ignored", top: card(SuitClubs, RankAce), player: "p0", cards: ids(c9),
			mutate: func(s *GameState) { s.RequiredSuit = SuitHearts }, wantErr: ErrSuitRankMismatch},
		{name: "joker on a plain card", top: card(SuitHearts, RankSeven), player: "p0", cards: ids(j1), wantErr: ErrSuitRankMismatch},
		{name: "joker on a joker", top: joker(2), player: "p0", cards: ids(j1)},
		{name: "answer on a joker", top: joker(2), player: "p0", cards: ids(c9), wantErr: ErrSuitRankMismatch},
		{name: "wild on a joker", top: joker(2), player: "p0", cards: ids(sA)},
		{name: "required suit after a joker", top: joker(2), player: "p0", cards: ids(c9),
			mutate: func(s *GameState) { s.RequiredSuit = SuitClubs }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			others := []Card{card(SuitDiamonds, RankFour)}
			installState(t, e, [][]Card{hand, others}, []Card{tt.top}, tt.mutate)

			res := e.ValidateMove(tt.player, tt.cards)
			if tt.wantErr == nil {
				if !res.Valid || res.Err != nil {
					t.Fatalf("ValidateMove = %+v, want valid", res)
				}
				return
			}
			if res.Valid {
				t.Fatalf("ValidateMove valid, want %v", tt.wantErr)
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Fatalf("ValidateMove err = %v, want %v", res.Err, tt.wantErr)
			}
		})
	}
}

func TestValidateMoveDoesNotMutate(t *testing.T) {
	e := newTestEngine(t)
	h7 := card(SuitHearts, RankSeven)
	installState(t, e, [][]Card{{h7}, {card(SuitClubs, RankFour)}}, []Card{card(SuitDiamonds, RankSeven)}, nil)

	before := e.GetGameState()
	first := e.ValidateMove("p0", ids(h7))
	second := e.ValidateMove("p0", ids(h7))
	if first != second {
		t.Errorf("repeated validation differs: %+v vs %+v", first, second)
	}
	if diff := cmp.Diff(before, e.GetGameState()); diff != "" {
		t.Errorf("ValidateMove mutated state (-before +after):\n%s", diff)
	}
}

func TestValidateMoveUninitialized(t *testing.T) {
	e := newTestEngine(t)
	if res := e.ValidateMove("p0", []string{"hearts-7"}); !errors.Is(res.Err, ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", res.Err)
	}
}

// Scenario C: after a Wild declares hearts, a hand of clubs and diamonds has nothing to play.
func TestGetValidCardsAfterWild(t *testing.T) {
	e := newTestEngine(t)
	sA := card(SuitSpades, RankAce)
	p1 := []Card{card(SuitClubs, RankFour), card(SuitDiamonds, RankNine), card(SuitDiamonds, RankSeven)}
	installState(t, e, [][]Card{{sA, card(SuitClubs, RankFive)}, p1}, []Card{card(SuitSpades, RankFive)}, nil)

	if _, err := e.PlayCard("p0", ids(sA), SuitHearts); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	s := e.GetGameState()
	if s.RequiredSuit != SuitHearts {
		t.Fatalf("RequiredSuit = %q, want hearts", s.RequiredSuit)
	}
	if got := e.GetValidCards(s.Players[1].Hand); len(got) != 0 {
		t.Fatalf("GetValidCards = %v, want none", got)
	}
	mv := e.GetMoveValidation("p1")
	if mv.CanPlay || !mv.IsYourTurn {
		t.Errorf("MoveValidation = %+v, want your turn with nothing playable", mv)
	}
}

func TestGetValidCards(t *testing.T) {
	var (
		h5 = card(SuitHearts, RankFive)
		c5 = card(SuitClubs, RankFive)
		d9 = card(SuitDiamonds, RankNine)
		dA = card(SuitDiamonds, RankAce)
		s2 = card(SuitSpades, RankTwo)
		h8 = card(SuitHearts, RankEight)
	)
	hand := []Card{h5, c5, d9, dA, s2, h8}

	tests := []struct {
		name   string
		top    Card
		mutate func(s *GameState)
		want   []string
	}{
		{"standard", card(SuitHearts, RankNine), nil, ids(h5, d9, dA, h8)},
		{"penalty", card(SuitHearts, RankTwo), func(s *GameState) {
			s.ActivePenaltyStack = 2
			s.ActivePenaltyRank = RankTwo
		}, ids(dA, s2)},
		{"awaiting answer", card(SuitClubs, RankEight), func(s *GameState) {
			s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts}
		}, ids(h5, dA)},
		{"must draw", card(SuitHearts, RankNine), func(s *GameState) {
			s.MustDrawNextTurn = "p0"
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			installState(t, e, [][]Card{hand, {card(SuitSpades, RankSix)}}, []Card{tt.top}, tt.mutate)
			got := ids(e.GetValidCards(hand)...)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("GetValidCards mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateWinCondition(t *testing.T) {
	h5, c5 := card(SuitHearts, RankFive), card(SuitClubs, RankFive)
	h8 := card(SuitHearts, RankEight)

	tests := []struct {
		name     string
		cards    []Card
		declared string
		round    int
		turn     int
		want     error
	}{
		{"answers after declaring last round", []Card{h5, c5}, "p0", 1, 3, nil},
		{"question finish", []Card{h8}, "p0", 1, 3, nil},
		{"ace out", []Card{card(SuitHearts, RankAce)}, "p0", 1, 3, ErrWildFinish},
		{"penalty finish", []Card{card(SuitHearts, RankTwo)}, "p0", 1, 3, ErrInvalidFinish},
		{"jump finish", []Card{card(SuitHearts, RankJack)}, "p0", 1, 3, ErrInvalidFinish},
		{"not declared", []Card{h5}, "", 0, 3, ErrNikoNotDeclared},
		{"declared by someone else", []Card{h5}, "p1", 1, 3, ErrNikoNotDeclared},
		{"declared this round", []Card{h5}, "p0", 2, 3, ErrNikoWrongRound},
		{"declared too long ago", []Card{h5}, "p0", 1, 5, ErrNikoWrongRound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			installState(t, e, [][]Card{{h5, c5, h8}, {card(SuitSpades, RankSix)}}, []Card{card(SuitHearts, RankNine)},
				func(s *GameState) {
					s.NikoDeclaredBy = tt.declared
					s.NikoDeclaredRound = tt.round
					s.TurnNumber = tt.turn
				})
			p := e.GetCurrentPlayer()
			err := e.ValidateWinCondition(p, tt.cards)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateWinCondition = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMultiCardHelpers(t *testing.T) {
	var (
		h7 = card(SuitHearts, RankSeven)
		c7 = card(SuitClubs, RankSeven)
		d7 = card(SuitDiamonds, RankSeven)
		s4 = card(SuitSpades, RankFour)
		h4 = card(SuitHearts, RankFour)
		c9 = card(SuitClubs, RankNine)
	)
	e := newTestEngine(t)
	installState(t, e, [][]Card{{h7, s4, c7, c9, d7, h4}, {card(SuitSpades, RankSix)}}, []Card{card(SuitHearts, RankNine)}, nil)

	groups := e.GetValidMultiCardCombinations("p0")
	want := [][]string{ids(h7, c7, d7), ids(s4, h4)}
	got := make([][]string, len(groups))
	for i, g := range groups {
		got[i] = ids(g...)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetValidMultiCardCombinations (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(ids(c7, d7), ids(e.CardsThatCanBeAdded("p0", ids(h7))...)); diff != "" {
		t.Errorf("CardsThatCanBeAdded (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ids(h7, c9, h4), ids(e.CardsThatCanBeAdded("p0", nil)...)); diff != "" {
		t.Errorf("CardsThatCanBeAdded with empty selection (-want +got):\n%s", diff)
	}

	if !IsValidMultiCardCombination([]Card{h7, c7}) {
		t.Error("two sevens should be a valid combination")
	}
	if IsValidMultiCardCombination([]Card{h7}) || IsValidMultiCardCombination([]Card{h7, h4}) {
		t.Error("single card and mixed ranks should not be valid combinations")
	}
	if e.GetValidMultiCardCombinations("nobody") != nil {
		t.Error("unknown player should have no combinations")
	}
}
