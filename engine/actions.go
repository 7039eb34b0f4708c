package engine

import "fmt"

// PlayCard plays cardIDs from playerID's hand. declared is the suit named for
// a Wild and is ignored otherwise.
func (e *Engine) PlayCard(playerID string, cardIDs []string, declared Suit) (GameMove, error) {
	if err := e.mutable(); err != nil {
		return GameMove{}, err
	}
	cards, err := e.validatePlay(playerID, cardIDs)
	if err != nil {
		return GameMove{}, err
	}
	wild := cards[0].IsWild()
	if wild {
		if declared == SuitNone {
			return GameMove{}, ErrSuitRequired
		}
		if !declared.IsReal() {
			return GameMove{}, fmt.Errorf("%w: %q", ErrInvalidSuit, declared)
		}
	} else {
		declared = SuitNone
	}

	// Validation is complete; nothing below can fail.
	s := e.state
	player, _ := s.PlayerByID(playerID)
	for _, c := range cards {
		i := player.HandIndex(c.ID)
		player.Hand = append(player.Hand[:i], player.Hand[i+1:]...)
	}
	s.DiscardPile = append(s.DiscardPile, cards...)

	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	e.emit(EventCardPlayed, playerID, map[string]any{"cards": ids, "remaining": len(player.Hand)})

	advance := e.applyEffect(player, cards, declared)

	move := GameMove{PlayerID: playerID, Cards: cards, Action: ActionPlay, DeclaredSuit: declared}

	if len(player.Hand) == 0 {
		err := e.ValidateWinCondition(player, cards)
		if err == nil {
			s.Status = StatusFinished
			s.Winner = playerID
			e.emit(EventGameWon, playerID, map[string]any{"round": s.Round()})
			return e.record(move), nil
		}
		// Not a win: the seat plays on with an empty hand.
		e.emit(EventHandEmptied, playerID, map[string]any{"reason": err.Error()})
	}

	out := e.record(move)
	if advance {
		e.advanceTurn()
	}
	return out, nil
}

// applyEffect resolves the effect of a validated play and reports whether the
// turn should advance. The first card decides the effect; count is how many
// played cards share its rank.
func (e *Engine) applyEffect(player *Player, cards []Card, declared Suit) bool {
	s := e.state
	first, last := cards[0], cards[len(cards)-1]
	count := 0
	for _, c := range cards {
		if c.Rank == first.Rank {
			count++
		}
	}

	if first.IsWild() {
		if s.ActivePenaltyStack > 0 {
			e.emit(EventPenaltyCancelled, player.ID, map[string]any{"stack": s.ActivePenaltyStack, "rank": s.ActivePenaltyRank})
			s.ActivePenaltyStack = 0
			s.ActivePenaltyRank = RankNone
		}
		if s.AwaitingAnswer != nil {
			s.AwaitingAnswer = nil
			e.emit(EventQuestionAnswered, player.ID, map[string]any{"card": first.ID})
		}
		s.RequiredSuit = declared
		e.emit(EventSuitDeclared, player.ID, map[string]any{"suit": declared})
		if len(player.Hand) == 0 {
			s.MustDrawNextTurn = player.ID
		}
		return true
	}

	s.RequiredSuit = SuitNone

	switch first.Type {
	case TypePenalty:
		s.ActivePenaltyStack += e.rules.PenaltyValue(first.Rank) * count
		s.ActivePenaltyRank = first.Rank
		e.emit(EventPenaltyStacked, player.ID, map[string]any{"stack": s.ActivePenaltyStack, "rank": first.Rank})

	case TypeJump:
		s.PendingSkipCount += count
		e.emit(EventSkipQueued, player.ID, map[string]any{"skip": s.PendingSkipCount})

	case TypeKickback:
		for range count {
			s.Direction = -s.Direction
		}
		e.emit(EventDirectionReversed, player.ID, map[string]any{"direction": s.Direction, "flips": count})

	case TypeQuestion:
		s.AwaitingAnswer = &AnswerDemand{PlayerID: player.ID, Suit: last.Suit}
		e.emit(EventQuestionAsked, player.ID, map[string]any{"suit": last.Suit})
		return false

	default:
		if s.AwaitingAnswer != nil {
			s.AwaitingAnswer = nil
			e.emit(EventQuestionAnswered, player.ID, map[string]any{"card": first.ID})
		}
	}
	return true
}

// DrawCard takes cards for playerID and ends their turn. A forced draw or a
// forfeited answer takes one card; otherwise the active penalty is paid, or
// one card when there is none.
func (e *Engine) DrawCard(playerID string) (GameMove, error) {
	if err := e.mutable(); err != nil {
		return GameMove{}, err
	}
	player, _, err := e.requireTurn(playerID)
	if err != nil {
		return GameMove{}, err
	}

	s := e.state
	var drawn []Card
	switch {
	case s.MustDrawNextTurn == playerID:
		s.MustDrawNextTurn = ""
		drawn = e.drawN(player, 1)

	case s.AwaitingAnswer != nil && s.AwaitingAnswer.PlayerID == playerID:
		s.AwaitingAnswer = nil
		e.emit(EventQuestionForfeited, playerID, nil)
		drawn = e.drawN(player, 1)

	default:
		n := max(1, s.ActivePenaltyStack)
		drawn = e.drawN(player, n)
		s.ActivePenaltyStack = 0
		s.ActivePenaltyRank = RankNone
	}
	s.RequiredSuit = SuitNone

	out := e.record(GameMove{PlayerID: playerID, Cards: drawn, Action: ActionDraw})
	e.advanceTurn()
	return out, nil
}

// DeclareNikoKadi records playerID's declaration for the current round. Only
// one declaration may be outstanding at a time.
func (e *Engine) DeclareNikoKadi(playerID string) (GameMove, error) {
	if err := e.mutable(); err != nil {
		return GameMove{}, err
	}
	if _, _, err := e.requireTurn(playerID); err != nil {
		return GameMove{}, err
	}
	s := e.state
	if s.NikoDeclaredBy != "" {
		return GameMove{}, fmt.Errorf("%w: by %q", ErrAlreadyDeclared, s.NikoDeclaredBy)
	}
	s.NikoDeclaredBy = playerID
	s.NikoDeclaredRound = s.Round()
	e.emit(EventNikoDeclared, playerID, map[string]any{"round": s.NikoDeclaredRound})
	return e.record(GameMove{PlayerID: playerID, Action: ActionDeclare}), nil
}

// PassTurn ends playerID's turn without playing or drawing. Any active
// penalty carries over to the next player.
func (e *Engine) PassTurn(playerID string) (GameMove, error) {
	if err := e.mutable(); err != nil {
		return GameMove{}, err
	}
	if _, _, err := e.requireTurn(playerID); err != nil {
		return GameMove{}, err
	}
	s := e.state
	if s.MustDrawNextTurn == playerID {
		return GameMove{}, fmt.Errorf("%w: %q", ErrMustDraw, playerID)
	}
	if s.AwaitingAnswer != nil && s.AwaitingAnswer.PlayerID == playerID {
		s.AwaitingAnswer = nil
		e.emit(EventQuestionForfeited, playerID, nil)
	}
	e.emit(EventTurnPassed, playerID, nil)
	out := e.record(GameMove{PlayerID: playerID, Action: ActionPass})
	e.advanceTurn()
	return out, nil
}

// ---------------------------------------------------------------------------
// Turn sequencing
// ---------------------------------------------------------------------------

// advanceTurn moves the turn pointer, consuming queued skips. An AI seat that
// owes a forced draw takes it immediately.
func (e *Engine) advanceTurn() {
	s := e.state
	n := len(s.Players)
	step := int(s.Direction) * (1 + s.PendingSkipCount)
	s.CurrentPlayerIndex = ((s.CurrentPlayerIndex+step)%n + n) % n
	s.PendingSkipCount = 0
	s.TurnNumber++

	next := s.Players[s.CurrentPlayerIndex]
	e.emit(EventTurnAdvanced, next.ID, map[string]any{"index": s.CurrentPlayerIndex, "round": s.Round()})

	if s.NikoDeclaredBy != "" && s.Round() > s.NikoDeclaredRound+1 {
		e.emit(EventNikoExpired, s.NikoDeclaredBy, map[string]any{"declaredRound": s.NikoDeclaredRound})
		s.NikoDeclaredBy = ""
		s.NikoDeclaredRound = 0
	}

	if next.IsAI && s.MustDrawNextTurn == next.ID {
		s.MustDrawNextTurn = ""
		s.RequiredSuit = SuitNone
		drawn := e.drawN(next, 1)
		e.record(GameMove{PlayerID: next.ID, Cards: drawn, Action: ActionDraw})
		e.advanceTurn()
	}
}

// ---------------------------------------------------------------------------
// Drawing and reshuffle
// ---------------------------------------------------------------------------

// drawN moves up to n cards from the draw pile into p's hand, reshuffling the
// discard pile when the draw pile runs out. Fewer than n cards may be drawn.
func (e *Engine) drawN(p *Player, n int) []Card {
	s := e.state
	drawn := make([]Card, 0, n)
	for len(drawn) < n {
		if len(s.DrawPile) == 0 && !e.reshuffle() {
			break
		}
		top := len(s.DrawPile) - 1
		drawn = append(drawn, s.DrawPile[top])
		s.DrawPile = s.DrawPile[:top]
	}
	p.Hand = append(p.Hand, drawn...)
	e.emit(EventCardsDrawn, p.ID, map[string]any{"requested": n, "drawn": len(drawn)})
	return drawn
}

// reshuffle moves every discard except the top card into the draw pile and
// shuffles it. It is a no-op when one card or fewer lies on the discard pile.
func (e *Engine) reshuffle() bool {
	s := e.state
	if len(s.DiscardPile) <= 1 {
		return false
	}
	last := len(s.DiscardPile) - 1
	top := s.DiscardPile[last]
	rest := append([]Card(nil), s.DiscardPile[:last]...)
	Shuffle(rest, e.rng)
	s.DrawPile = append(s.DrawPile, rest...)
	s.DiscardPile = []Card{top}
	e.emit(EventPileReshuffled, "", map[string]any{"cards": len(rest)})
	return true
}
