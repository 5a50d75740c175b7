package tournament

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
)

func mustEvent(t *testing.T, typ event.Type, payload any) event.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return event.Event{TournamentID: "t-1", Type: typ, ActorType: event.ActorTypeSystem, PayloadJSON: data}
}

func mustFold(t *testing.T, state State, evts ...event.Event) State {
	t.Helper()
	for _, evt := range evts {
		next, err := Fold(state, evt)
		if err != nil {
			t.Fatalf("fold %s: %v", evt.Type, err)
		}
		state = next
	}
	return state
}

func seededState(t *testing.T, uids ...string) State {
	t.Helper()
	state := mustFold(t, State{},
		mustEvent(t, event.TypeTournamentCreate, CreatePayload{Name: "Open", Judges: []string{"j-1"}}),
		mustEvent(t, event.TypeOpenRegistration, struct{}{}),
	)
	for _, uid := range uids {
		state = mustFold(t, state, mustEvent(t, event.TypeRegister, RegisterPayload{PlayerUID: uid, Name: "Player " + uid}))
	}
	return state
}

func TestFoldCreateAppliesDefaults(t *testing.T) {
	state := mustFold(t, State{}, mustEvent(t, event.TypeTournamentCreate, CreatePayload{Name: "Open"}))
	if !state.Created || state.UID != "t-1" || state.Status != StatusPlanned {
		t.Fatalf("state = %+v, want created PLANNED t-1", state)
	}
	if state.Config.Finalists != DefaultFinalists {
		t.Fatalf("finalists = %d, want %d", state.Config.Finalists, DefaultFinalists)
	}
}

func TestFoldDoesNotMutateInput(t *testing.T) {
	before := seededState(t, "p1", "p2")
	snapshot := before.Clone()
	_ = mustFold(t, before, mustEvent(t, event.TypeDrop, PlayerPayload{PlayerUID: "p1"}))
	if !reflect.DeepEqual(before, snapshot) {
		t.Fatal("fold mutated its input state")
	}
}

func TestFoldRecordsEventUIDs(t *testing.T) {
	create := mustEvent(t, event.TypeTournamentCreate, CreatePayload{Name: "Open"})
	create.UID = "evt-1"
	state := mustFold(t, State{}, create, mustEvent(t, event.TypeOpenRegistration, struct{}{}))
	if len(state.EventUIDs) != 1 || !state.EventUIDs["evt-1"] {
		t.Fatalf("event uids = %v, want only evt-1", state.EventUIDs)
	}
	clone := state.Clone()
	clone.EventUIDs["evt-2"] = true
	if state.EventUIDs["evt-2"] {
		t.Fatal("clone shares event uids with its source")
	}
}

func TestFoldRegisterReactivatesFinishedPlayer(t *testing.T) {
	state := seededState(t, "p1")
	state = mustFold(t, state,
		mustEvent(t, event.TypeDrop, PlayerPayload{PlayerUID: "p1"}),
		mustEvent(t, event.TypeRegister, RegisterPayload{PlayerUID: "p1", Name: "Renamed"}),
	)
	p := state.Players["p1"]
	if p.State != PlayerRegistered || p.Name != "Renamed" {
		t.Fatalf("player = %+v, want REGISTERED Renamed", p)
	}
}

func TestFoldRegisterClearsSeatOfDroppedPlayer(t *testing.T) {
	state := seededState(t, "p1", "p2", "p3", "p4")
	state = mustFold(t, state,
		mustEvent(t, event.TypeOpenCheckin, OpenCheckinPayload{Code: "ABC"}),
		mustEvent(t, event.TypeCheckEveryoneIn, CheckEveryoneInPayload{PlayerUIDs: []string{"p1", "p2", "p3", "p4"}}),
		mustEvent(t, event.TypeRoundStart, SeatingPayload{Seating: [][]string{{"p1", "p2", "p3", "p4"}}}),
		mustEvent(t, event.TypeDrop, PlayerPayload{PlayerUID: "p2"}),
	)
	if p2 := state.Players["p2"]; p2.State != PlayerFinished || p2.Table != 1 {
		t.Fatalf("p2 = %+v, want FINISHED still at table 1", p2)
	}
	state = mustFold(t, state, mustEvent(t, event.TypeRegister, RegisterPayload{PlayerUID: "p2", Name: "Player p2"}))
	p2 := state.Players["p2"]
	if p2.State != PlayerRegistered || p2.Table != 0 || p2.Seat != 0 {
		t.Fatalf("p2 = %+v, want REGISTERED with no seat", p2)
	}
}

func TestFoldRoundLifecycle(t *testing.T) {
	state := seededState(t, "p1", "p2", "p3", "p4")
	state = mustFold(t, state,
		mustEvent(t, event.TypeOpenCheckin, OpenCheckinPayload{Code: "ABC"}),
		mustEvent(t, event.TypeCheckEveryoneIn, CheckEveryoneInPayload{PlayerUIDs: []string{"p1", "p2", "p3", "p4"}}),
		mustEvent(t, event.TypeRoundStart, SeatingPayload{Seating: [][]string{{"p3", "p1", "p4", "p2"}}}),
	)
	if state.Status != StatusPlaying {
		t.Fatalf("status = %s, want %s", state.Status, StatusPlaying)
	}
	p3 := state.Players["p3"]
	if p3.State != PlayerPlaying || p3.Table != 1 || p3.Seat != 1 {
		t.Fatalf("p3 = %+v, want playing at 1/1", p3)
	}

	for uid, vp := range map[string]float64{"p1": 2, "p2": 1, "p3": 1, "p4": 0} {
		state = mustFold(t, state, mustEvent(t, event.TypeSetResult, SetResultPayload{PlayerUID: uid, Round: 1, VP: vp}))
	}
	state = mustFold(t, state, mustEvent(t, event.TypeRoundFinish, RoundFinishPayload{NextStatus: StatusWaiting, CheckedIn: []string{"p1", "p2", "p3"}}))
	if state.Status != StatusWaiting || !state.Rounds[0].Finished {
		t.Fatalf("status = %s finished = %v, want WAITING finished", state.Status, state.Rounds[0].Finished)
	}
	if got := state.PlayersIn(PlayerCheckedIn); len(got) != 3 {
		t.Fatalf("checked in = %v, want the three listed players", got)
	}
	if got := state.Players["p4"].State; got != PlayerRegistered {
		t.Fatalf("p4 state = %s, want %s", got, PlayerRegistered)
	}
	if state.Players["p1"].Table != 0 {
		t.Fatal("expected seat cleared after finish")
	}
	if state.CheckinCode != "ABC" {
		t.Fatalf("code = %q, want kept for continuous check-in", state.CheckinCode)
	}
}

func TestFoldRoundCancelRestoresStagedDecks(t *testing.T) {
	state := seededState(t, "p1", "p2")
	round := 1
	state.Config.Multideck = true
	state = mustFold(t, state,
		mustEvent(t, event.TypeSetDeck, SetDeckPayload{PlayerUID: "p1", Round: &round, Deck: &Deck{Name: "Stealth bleed"}}),
		mustEvent(t, event.TypeOpenCheckin, OpenCheckinPayload{Code: "X"}),
		mustEvent(t, event.TypeCheckEveryoneIn, CheckEveryoneInPayload{PlayerUIDs: []string{"p1", "p2"}}),
		mustEvent(t, event.TypeRoundStart, SeatingPayload{Seating: [][]string{{"p1", "p2"}}}),
	)
	if seat := state.Rounds[0].Tables[0].Seating[0]; seat.Deck == nil || seat.Deck.Name != "Stealth bleed" {
		t.Fatalf("seat deck = %+v, want staged deck moved to seat", seat.Deck)
	}
	if len(state.Players["p1"].RoundDecks) != 0 {
		t.Fatal("expected staging emptied after round start")
	}

	state = mustFold(t, state, mustEvent(t, event.TypeRoundCancel, struct{}{}))
	if len(state.Rounds) != 0 || state.Status != StatusWaiting {
		t.Fatalf("rounds = %d status = %s, want 0 WAITING", len(state.Rounds), state.Status)
	}
	if deck, ok := state.Players["p1"].RoundDecks[1]; !ok || deck.Name != "Stealth bleed" {
		t.Fatalf("staged = %+v, want deck back in staging", state.Players["p1"].RoundDecks)
	}
	if state.Players["p1"].State != PlayerCheckedIn {
		t.Fatalf("p1 state = %s, want CHECKED_IN", state.Players["p1"].State)
	}
}

func TestFoldRoundAlterKeepsResultsOfUnchangedTables(t *testing.T) {
	uids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	state := seededState(t, append(uids, "i")...)
	state = mustFold(t, state,
		mustEvent(t, event.TypeOpenCheckin, OpenCheckinPayload{Code: "X"}),
		mustEvent(t, event.TypeCheckEveryoneIn, CheckEveryoneInPayload{PlayerUIDs: uids}),
		mustEvent(t, event.TypeRoundStart, SeatingPayload{Seating: [][]string{{"a", "b", "c", "d"}, {"e", "f", "g", "h"}}}),
		mustEvent(t, event.TypeSetResult, SetResultPayload{PlayerUID: "a", Round: 1, VP: 3}),
		mustEvent(t, event.TypeSetResult, SetResultPayload{PlayerUID: "e", Round: 1, VP: 2}),
		mustEvent(t, event.TypeRoundAlter, SeatingPayload{Round: 1, Seating: [][]string{{"d", "c", "b", "a"}, {"e", "f", "g", "i"}}}),
	)
	first := state.Rounds[0].Tables[0]
	if first.Seating[3].PlayerUID != "a" || first.Seating[3].Result == nil || first.Seating[3].Result.VP != 3 {
		t.Fatalf("table 1 = %+v, want a's result kept", first.Seating)
	}
	second := state.Rounds[0].Tables[1]
	if second.Seating[0].Result != nil {
		t.Fatal("expected results reset on changed table")
	}
	if state.Players["h"].State != PlayerCheckedIn || state.Players["h"].Table != 0 {
		t.Fatalf("h = %+v, want unseated CHECKED_IN", state.Players["h"])
	}
	if a := state.Players["a"]; a.Table != 1 || a.Seat != 4 {
		t.Fatalf("a seat = %d/%d, want 1/4", a.Table, a.Seat)
	}
}

func TestFoldSeedAndFinish(t *testing.T) {
	state := seededState(t, "a", "b", "c", "d", "e", "f")
	state = mustFold(t, state,
		mustEvent(t, event.TypeSeedFinals, SeedFinalsPayload{Seeds: []string{"c", "a", "b", "e", "d"}}),
	)
	if state.Status != StatusFinals || !state.Rounds[0].Finals {
		t.Fatalf("status = %s, want FINALS with finals round", state.Status)
	}
	if state.Players["f"].State != PlayerRegistered {
		t.Fatalf("f = %s, want REGISTERED", state.Players["f"].State)
	}
	state = mustFold(t, state,
		mustEvent(t, event.TypeSeatFinals, SeatFinalsPayload{Seating: []string{"a", "b", "c", "d", "e"}}),
	)
	if !state.FinalsSeated || state.Players["a"].Seat != 1 {
		t.Fatalf("finals seated = %v a seat = %d, want seated with a at 1", state.FinalsSeated, state.Players["a"].Seat)
	}
	if !reflect.DeepEqual(state.FinalsSeeds, []string{"c", "a", "b", "e", "d"}) {
		t.Fatalf("seeds = %v, want unchanged by seating", state.FinalsSeeds)
	}
	state = mustFold(t, state, mustEvent(t, event.TypeFinishTournament, FinishPayload{Winner: "a"}))
	if state.Status != StatusFinished || state.Winner != "a" {
		t.Fatalf("status = %s winner = %s", state.Status, state.Winner)
	}
	for _, uid := range state.PlayerUIDs() {
		if state.Players[uid].State != PlayerFinished {
			t.Fatalf("%s state = %s, want FINISHED", uid, state.Players[uid].State)
		}
	}
}

func TestFoldOverrideAnnotatesTable(t *testing.T) {
	state := seededState(t, "a", "b")
	state = mustFold(t, state,
		mustEvent(t, event.TypeOpenCheckin, OpenCheckinPayload{}),
		mustEvent(t, event.TypeCheckEveryoneIn, CheckEveryoneInPayload{PlayerUIDs: []string{"a", "b"}}),
		mustEvent(t, event.TypeRoundStart, SeatingPayload{Seating: [][]string{{"a", "b"}}}),
	)
	override := mustEvent(t, event.TypeOverride, OverridePayload{Round: 1, Table: 1, Comment: "time out"})
	override.ActorID = "j-1"
	state = mustFold(t, state, override)
	if o := state.Rounds[0].Tables[0].Override; o == nil || o.Judge != "j-1" || o.Comment != "time out" {
		t.Fatalf("override = %+v", o)
	}
	state = mustFold(t, state, mustEvent(t, event.TypeUnoverride, OverridePayload{Round: 1, Table: 1}))
	if state.Rounds[0].Tables[0].Override != nil {
		t.Fatal("expected override removed")
	}
}

func TestFoldRejectsUnknownType(t *testing.T) {
	if _, err := Fold(State{}, event.Event{Type: "SHUFFLE", PayloadJSON: []byte("{}")}); err == nil {
		t.Fatal("expected error")
	}
}
