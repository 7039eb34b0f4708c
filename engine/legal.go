package engine

import "fmt"

// ValidateMove reports whether playerID may play cardIDs right now. It never
// mutates state; Err wraps the sentinel for the first failed check.
func (e *Engine) ValidateMove(playerID string, cardIDs []string) ValidationResult {
	if err := e.mutable(); err != nil {
		return ValidationResult{Err: err}
	}
	if _, err := e.validatePlay(playerID, cardIDs); err != nil {
		return ValidationResult{Err: err}
	}
	return ValidationResult{Valid: true}
}

// validatePlay runs the ordered checks and returns the resolved cards on success.
func (e *Engine) validatePlay(playerID string, cardIDs []string) ([]Card, error) {
	s := e.state

	// 1. Owed forced draw.
	if s.MustDrawNextTurn != "" && s.MustDrawNextTurn == playerID {
		return nil, fmt.Errorf("%w: %q", ErrMustDraw, playerID)
	}

	// 2. Existence and turn.
	player, _, err := e.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	// 3. Cards resolve to the hand, once each.
	cards, err := resolveCards(player, cardIDs)
	if err != nil {
		return nil, err
	}
	first := cards[0]

	// 4. Wild override.
	if first.IsWild() {
		return cards, nil
	}

	// 5. Awaiting-answer gate.
	if aa := s.AwaitingAnswer; aa != nil {
		if aa.PlayerID != playerID {
			return nil, fmt.Errorf("%w: %q owes the answer", ErrAwaitingAnswer, aa.PlayerID)
		}
		if len(cards) != 1 {
			return nil, fmt.Errorf("%w: answer with exactly one card", ErrAwaitingAnswer)
		}
		if first.Type != TypeAnswer || first.Suit != aa.Suit {
			return nil, fmt.Errorf("%w: need an answer of %s, got %s", ErrAwaitingAnswer, aa.Suit, first)
		}
		return cards, nil
	}

	// 6. Same rank across a multi-card play.
	for _, c := range cards[1:] {
		if c.Rank != first.Rank {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedRanks, first, c)
		}
	}

	// 7. Penalty counter.
	if s.ActivePenaltyStack > 0 {
		if first.Type != TypePenalty || first.Rank != s.ActivePenaltyRank {
			return nil, fmt.Errorf("%w: stack %d of %s", ErrPenaltyActive, s.ActivePenaltyStack, s.ActivePenaltyRank)
		}
		return cards, nil
	}

	// 8. Suit or rank match.
	top, ok := s.EffectiveTopCard()
	if ok && !matchesTop(first, top) {
		return nil, fmt.Errorf("%w: %s on %s", ErrSuitRankMismatch, first, top)
	}
	return cards, nil
}

func resolveCards(p *Player, cardIDs []string) ([]Card, error) {
	if len(cardIDs) == 0 {
		return nil, ErrNoCardsSelected
	}
	seen := make(map[string]bool, len(cardIDs))
	cards := make([]Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCard, id)
		}
		seen[id] = true
		i := p.HandIndex(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrCardNotInHand, id)
		}
		cards = append(cards, p.Hand[i])
	}
	return cards, nil
}

// matchesTop is the standard suit-or-rank match. The joker pseudo-suit matches
// nothing, so a joker only meets another joker by rank.
func matchesTop(c, top Card) bool {
	if c.Suit == SuitJoker || top.Suit == SuitJoker {
		return c.Rank == top.Rank
	}
	return c.Rank == top.Rank || c.Suit == top.Suit
}

// ValidateWinCondition checks whether emptying player's hand with cards wins.
// A nil error means the play wins.
func (e *Engine) ValidateWinCondition(player *Player, cards []Card) error {
	if e.state == nil {
		return ErrNotInitialized
	}
	if player == nil {
		return ErrUnknownPlayer
	}
	for _, c := range cards {
		if c.IsWild() {
			return fmt.Errorf("%w: %s", ErrWildFinish, c)
		}
	}
	for _, c := range cards {
		if c.Type != TypeAnswer && c.Type != TypeQuestion {
			return fmt.Errorf("%w: %s is %s", ErrInvalidFinish, c, c.Type)
		}
	}
	if !e.state.HasDeclared(player.ID) {
		return fmt.Errorf("%w: %q", ErrNikoNotDeclared, player.ID)
	}
	if round := e.state.Round(); e.state.NikoDeclaredRound != round-1 {
		return fmt.Errorf("%w: declared in round %d, now round %d", ErrNikoWrongRound, e.state.NikoDeclaredRound, round)
	}
	return nil
}

// GetValidCards filters hand down to the cards the current player could lead
// with as a single-card play.
func (e *Engine) GetValidCards(hand []Card) []Card {
	if e.state == nil || e.state.Status != StatusActive {
		return nil
	}
	cur := e.state.CurrentPlayer()
	if cur == nil || e.state.MustDrawNextTurn == cur.ID {
		return nil
	}
	var out []Card
	for _, c := range hand {
		if e.playable(c) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) playable(c Card) bool {
	s := e.state
	if c.IsWild() {
		return true
	}
	if aa := s.AwaitingAnswer; aa != nil {
		return c.Type == TypeAnswer && c.Suit == aa.Suit
	}
	if s.ActivePenaltyStack > 0 {
		return c.Type == TypePenalty && c.Rank == s.ActivePenaltyRank
	}
	top, ok := s.EffectiveTopCard()
	return !ok || matchesTop(c, top)
}

// ---------------------------------------------------------------------------
// Multi-card helpers
// ---------------------------------------------------------------------------

// MaxGroupSize caps a same-rank group; there are only four of each suited rank.
const MaxGroupSize = 4

// GetValidMultiCardCombinations groups playerID's hand by rank and returns
// every group of two or more, in order of first appearance in the hand.
func (e *Engine) GetValidMultiCardCombinations(playerID string) [][]Card {
	if e.state == nil {
		return nil
	}
	p, _ := e.state.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	return rankGroups(p.Hand, 2)
}

func rankGroups(hand []Card, minSize int) [][]Card {
	var order []Rank
	groups := make(map[Rank][]Card)
	for _, c := range hand {
		if _, ok := groups[c.Rank]; !ok {
			order = append(order, c.Rank)
		}
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	var out [][]Card
	for _, r := range order {
		g := groups[r]
		if len(g) < minSize {
			continue
		}
		if len(g) > MaxGroupSize {
			g = g[:MaxGroupSize]
		}
		out = append(out, g)
	}
	return out
}

// CardsThatCanBeAdded returns the cards that could extend selection. An empty
// selection yields the valid lead cards.
func (e *Engine) CardsThatCanBeAdded(playerID string, selection []string) []Card {
	if e.state == nil {
		return nil
	}
	p, _ := e.state.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	if len(selection) == 0 {
		return e.GetValidCards(p.Hand)
	}
	i := p.HandIndex(selection[0])
	if i < 0 {
		return nil
	}
	rank := p.Hand[i].Rank
	picked := make(map[string]bool, len(selection))
	for _, id := range selection {
		picked[id] = true
	}
	var out []Card
	for _, c := range p.Hand {
		if c.Rank == rank && !picked[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// IsValidMultiCardCombination reports whether cards are two or more of one rank.
func IsValidMultiCardCombination(cards []Card) bool {
	if len(cards) < 2 {
		return false
	}
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}
