package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestEngine(t)
	if err := src.InitializeGame(seats(3)); err != nil {
		t.Fatal(err)
	}
	// Put some history and pending state on the table.
	if _, err := src.DeclareNikoKadi("p0"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.DrawCard("p0"); err != nil {
		t.Fatal(err)
	}

	blob, err := src.ExportGameState()
	if err != nil {
		t.Fatalf("ExportGameState: %v", err)
	}

	dst := newTestEngine(t)
	if err := dst.ImportGameState(blob); err != nil {
		t.Fatalf("ImportGameState: %v", err)
	}
	if diff := cmp.Diff(src.GetGameState(), dst.GetGameState(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state mismatch after round trip (-src +dst):\n%s", diff)
	}
	if diff := cmp.Diff(src.GetHistory(), dst.GetHistory(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("history mismatch after round trip (-src +dst):\n%s", diff)
	}

	// The imported game is playable.
	if _, err := dst.DrawCard("p1"); err != nil {
		t.Errorf("DrawCard after import: %v", err)
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	e := newTestEngine(t)
	if err := e.InitializeGame(seats(2)); err != nil {
		t.Fatal(err)
	}
	before := e.GetGameState()

	good, err := e.ExportGameState()
	if err != nil {
		t.Fatal(err)
	}
	var snap snapshot
	if err := json.Unmarshal(good, &snap); err != nil {
		t.Fatal(err)
	}
	snap.State.DrawPile = snap.State.DrawPile[:len(snap.State.DrawPile)-1]
	shortDeck, _ := json.Marshal(snap)

	snap.State.DrawPile = append(snap.State.DrawPile, before.DrawPile[len(before.DrawPile)-1])
	hand := snap.State.Players[0].Hand
	hand[0].Type, hand[0].Value = TypeWild, 99
	forgedCard, _ := json.Marshal(snap)

	tests := map[string][]byte{
		"not json":      []byte("{nope"),
		"empty object":  []byte("{}"),
		"wrong version": []byte(`{"version":99,"state":{}}`),
		"no state":      []byte(`{"version":1}`),
		"missing card":  shortDeck,
		"forged card":   forgedCard,
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			if err := e.ImportGameState(blob); !errors.Is(err, ErrInvalidGameState) {
				t.Fatalf("ImportGameState err = %v, want ErrInvalidGameState", err)
			}
			if diff := cmp.Diff(before, e.GetGameState()); diff != "" {
				t.Errorf("failed import changed state:\n%s", diff)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	e := newTestEngine(t)
	installState(t, e, [][]Card{{card(SuitHearts, RankFive)}, {card(SuitSpades, RankSix)}}, []Card{card(SuitHearts, RankNine)},
		func(s *GameState) {
			s.AwaitingAnswer = &AnswerDemand{PlayerID: "p0", Suit: SuitHearts}
			s.Players[1].AIConfig = &AIConfig{Difficulty: DifficultyHard, PlayStyle: StyleAggressive}
		})

	orig := e.GetGameState()
	cp := orig.Clone()
	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("clone differs:\n%s", diff)
	}
	cp.AwaitingAnswer.Suit = SuitClubs
	cp.Players[1].AIConfig.Aggression = 1
	cp.Players[0].Hand[0] = card(SuitClubs, RankFive)
	cp.DrawPile[0] = Card{}

	if orig.AwaitingAnswer.Suit != SuitHearts || orig.Players[1].AIConfig.Aggression != 0 ||
		orig.Players[0].Hand[0].Suit != SuitHearts || orig.DrawPile[0].ID == "" {
		t.Error("clone shares memory with the original")
	}
}
