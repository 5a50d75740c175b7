package tournament

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"  Jérôme   Dupont ": "jerome dupont",
		"STRASSE":            "strasse",
		"Ærøskøbing":         "ærøskøbing",
		"":                   "",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindPlayers(t *testing.T) {
	state := State{Players: map[string]Player{
		"p1": {UID: "p1", Name: "Jérôme Dupont"},
		"p2": {UID: "p2", Name: "Ana Souza"},
		"p3": {UID: "p3", Name: "jerome martin"},
	}}
	if got := state.FindPlayers("JEROME"); !reflect.DeepEqual(got, []string{"p1", "p3"}) {
		t.Fatalf("find = %v, want [p1 p3]", got)
	}
	if got := state.FindPlayers(""); len(got) != 3 {
		t.Fatalf("find all = %v, want 3", got)
	}
}

func TestRoundAccessors(t *testing.T) {
	state := State{Rounds: []Round{
		{Finished: true, Tables: []Table{{Seating: []Seat{{PlayerUID: "a"}, {PlayerUID: "b"}}}}},
		{Tables: []Table{{Seating: []Seat{{PlayerUID: "b"}}}, {Seating: []Seat{{PlayerUID: "a"}}}}},
	}}
	if _, n, ok := state.OpenRound(); !ok || n != 2 {
		t.Fatalf("open round = %d/%v, want 2", n, ok)
	}
	if !state.IsLastRound(2) || state.IsLastRound(1) {
		t.Fatal("unexpected last round")
	}
	if state.NextRound() != 3 {
		t.Fatalf("next round = %d, want 3", state.NextRound())
	}
	ref, ok := state.SeatOf("a", 2)
	if !ok || ref.Table != 2 || ref.Seat != 1 {
		t.Fatalf("seat of a = %+v, want table 2 seat 1", ref)
	}
	if got := state.RoundsPlayed("a"); got != 2 {
		t.Fatalf("rounds played = %d, want 2", got)
	}
	want := [][][]string{{{"a", "b"}}, {{"b"}, {"a"}}}
	if got := state.History(); !reflect.DeepEqual(got, want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
}
