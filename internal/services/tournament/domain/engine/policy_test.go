package engine

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func TestContinuousCheckinKeepsPlayersCheckedIn(t *testing.T) {
	h := newHarness(t, Options{FinishPolicy: ContinuousCheckin})
	h.setup(tournament.Config{MaxRounds: 2}, players(4)...)

	state := h.playRound(map[int][]float64{4: {1, 1, 1, 1}})
	if state.Status != tournament.StatusWaiting {
		t.Fatalf("status = %s, want WAITING", state.Status)
	}
	if got := state.PlayersIn(tournament.PlayerCheckedIn); len(got) != 4 {
		t.Fatalf("checked in = %v, want all four", got)
	}
	if state.CheckinCode != testCode {
		t.Fatalf("code = %q, want it kept", state.CheckinCode)
	}

	h.judge(event.TypeRoundStart, struct{}{})
	for _, uid := range players(4) {
		h.judge(event.TypeSetResult, tournament.SetResultPayload{PlayerUID: uid, Round: 2, VP: 1})
	}
	state = h.judge(event.TypeRoundFinish, struct{}{}).State
	if state.Status != tournament.StatusRegistration {
		t.Fatalf("status = %s, want REGISTRATION after max rounds", state.Status)
	}
	if !state.Players["p1"].HasBarrier(tournament.BarrierMaxRounds) {
		t.Fatalf("p1 barriers = %v, want MAX_ROUNDS", state.Players["p1"].Barriers)
	}
}

func TestContinuousCheckinReleasesBlockedPlayers(t *testing.T) {
	disc := fakeDiscipline{}
	h := newHarness(t, Options{FinishPolicy: ContinuousCheckin, Discipline: disc})
	h.setup(tournament.Config{MaxRounds: 3}, players(5)...)
	h.judge(event.TypeOpenCheckin, struct{}{})
	h.judge(event.TypeCheckEveryoneIn, struct{}{})
	started := h.judge(event.TypeRoundStart, struct{}{})
	for _, seat := range started.State.Rounds[0].Tables[0].Seating {
		h.judge(event.TypeSetResult, tournament.SetResultPayload{PlayerUID: seat.PlayerUID, Round: 1, VP: 1})
	}

	disc["p1"] = barrier.Record{Banned: true}
	state := h.judge(event.TypeRoundFinish, struct{}{}).State
	if state.Status != tournament.StatusWaiting {
		t.Fatalf("status = %s, want WAITING", state.Status)
	}
	p1 := state.Players["p1"]
	if p1.State != tournament.PlayerRegistered || !p1.HasBarrier(tournament.BarrierBanned) {
		t.Fatalf("p1 = %s %v, want REGISTERED and BANNED", p1.State, p1.Barriers)
	}
	if got := state.PlayersIn(tournament.PlayerCheckedIn); len(got) != 4 {
		t.Fatalf("checked in = %v, want the four unbanned players", got)
	}

	next := h.judge(event.TypeRoundStart, struct{}{}).State
	if _, seated := next.SeatOf("p1", 2); seated {
		t.Fatal("banned player seated in round 2")
	}
	if got := len(next.Rounds[1].Tables[0].Seating); got != 4 {
		t.Fatalf("round 2 seats = %d, want 4", got)
	}
}

func TestLogNotifierWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	notifier := LogNotifier{Logger: log.New(&buf, "", 0)}
	notifier.Notify(context.Background(), Notification{
		TournamentID:  "t-1",
		Event:         event.Event{Seq: 7, Type: event.TypeRoundStart},
		RoundChanging: true,
	})
	want := "tournament=t-1 seq=7 type=ROUND_START round_changing=true\n"
	if got := buf.String(); got != want {
		t.Fatalf("log = %q, want %q", got, want)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatal("expected a single line")
	}
}
