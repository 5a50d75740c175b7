package barrier

import (
	"reflect"
	"testing"

	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func playedState(rounds int, uid string) tournament.State {
	state := tournament.State{Config: tournament.DefaultConfig()}
	for range rounds {
		state.Rounds = append(state.Rounds, tournament.Round{
			Finished: true,
			Tables:   []tournament.Table{{Seating: []tournament.Seat{{PlayerUID: uid}}}},
		})
	}
	return state
}

func TestEvaluate(t *testing.T) {
	player := tournament.Player{UID: "p1"}
	deck := &tournament.Deck{Name: "Weenie"}

	tests := []struct {
		name   string
		state  func() tournament.State
		player tournament.Player
		record Record
		want   []tournament.Barrier
	}{
		{
			name:   "clean",
			state:  func() tournament.State { return playedState(0, "p1") },
			player: player,
		},
		{
			name:   "disciplinary flags are independent",
			state:  func() tournament.State { return playedState(0, "p1") },
			player: player,
			record: Record{Banned: true, Disqualified: true},
			want:   []tournament.Barrier{tournament.BarrierBanned, tournament.BarrierDisqualified},
		},
		{
			name: "max rounds reached",
			state: func() tournament.State {
				s := playedState(2, "p1")
				s.Config.MaxRounds = 2
				return s
			},
			player: player,
			want:   []tournament.Barrier{tournament.BarrierMaxRounds},
		},
		{
			name: "max rounds not reached",
			state: func() tournament.State {
				s := playedState(1, "p1")
				s.Config.MaxRounds = 2
				return s
			},
			player: player,
		},
		{
			name: "missing deck only once a round started",
			state: func() tournament.State {
				s := playedState(0, "p1")
				s.Config.DecklistRequired = true
				return s
			},
			player: player,
		},
		{
			name: "missing single deck",
			state: func() tournament.State {
				s := playedState(1, "p2")
				s.Config.DecklistRequired = true
				return s
			},
			player: player,
			want:   []tournament.Barrier{tournament.BarrierMissingDeck},
		},
		{
			name: "single deck present",
			state: func() tournament.State {
				s := playedState(1, "p2")
				s.Config.DecklistRequired = true
				return s
			},
			player: tournament.Player{UID: "p1", Deck: deck},
		},
		{
			name: "multideck needs deck for next round",
			state: func() tournament.State {
				s := playedState(1, "p2")
				s.Config.DecklistRequired = true
				s.Config.Multideck = true
				return s
			},
			player: tournament.Player{UID: "p1", Deck: deck, RoundDecks: map[int]tournament.Deck{1: *deck}},
			want:   []tournament.Barrier{tournament.BarrierMissingDeck},
		},
		{
			name: "multideck staged for next round",
			state: func() tournament.State {
				s := playedState(1, "p2")
				s.Config.DecklistRequired = true
				s.Config.Multideck = true
				return s
			},
			player: tournament.Player{UID: "p1", RoundDecks: map[int]tournament.Deck{2: *deck}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.state(), tc.player, tc.record)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("barriers = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRefreshDoesNotMutateInput(t *testing.T) {
	state := tournament.State{Players: map[string]tournament.Player{"p1": {UID: "p1"}}}
	refreshed := Refresh(state, map[string]Record{"p1": {Banned: true}})
	if len(state.Players["p1"].Barriers) != 0 {
		t.Fatal("refresh mutated input snapshot")
	}
	if !refreshed.Players["p1"].HasBarrier(tournament.BarrierBanned) {
		t.Fatalf("barriers = %v, want BANNED", refreshed.Players["p1"].Barriers)
	}
	if !Blocked(refreshed.Players["p1"].Barriers) {
		t.Fatal("expected blocked")
	}
}
