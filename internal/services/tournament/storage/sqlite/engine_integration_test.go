package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/engine"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

func TestEngineOverSQLiteJournal(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.PutSanction(ctx, storage.SanctionRecord{PlayerUID: "p2", Banned: true}); err != nil {
		t.Fatalf("put sanction: %v", err)
	}
	opts := engine.Options{Discipline: store, NewCode: func() (string, error) { return "CODE42", nil }}
	eng := engine.New(store, "t-1", opts)

	submit := func(uid string, typ event.Type, actor event.ActorType, actorID string, payload any) (engine.Result, error) {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return eng.Submit(ctx, event.Event{UID: uid, Type: typ, ActorType: actor, ActorID: actorID, PayloadJSON: data})
	}
	steps := []struct {
		uid     string
		typ     event.Type
		payload any
	}{
		{"e1", event.TypeTournamentCreate, tournament.CreatePayload{Name: "Spring Open"}},
		{"e2", event.TypeOpenRegistration, struct{}{}},
		{"e3", event.TypeRegister, tournament.RegisterPayload{PlayerUID: "p1", Name: "Ana"}},
		{"e4", event.TypeRegister, tournament.RegisterPayload{PlayerUID: "p2", Name: "Bruno"}},
		{"e5", event.TypeOpenCheckin, struct{}{}},
	}
	for _, step := range steps {
		if _, err := submit(step.uid, step.typ, event.ActorTypeSystem, "", step.payload); err != nil {
			t.Fatalf("submit %s: %v", step.typ, err)
		}
	}

	_, err := submit("e6", event.TypeCheckIn, event.ActorTypePlayer, "p2", tournament.PlayerPayload{PlayerUID: "p2", Code: "CODE42"})
	if !apperrors.HasCode(err, apperrors.CodeBlocked) {
		t.Fatalf("banned check in error = %v, want BLOCKED", err)
	}
	if _, err := submit("e7", event.TypeCheckIn, event.ActorTypePlayer, "p1", tournament.PlayerPayload{PlayerUID: "p1", Code: "CODE42"}); err != nil {
		t.Fatalf("check in p1: %v", err)
	}

	reloaded := engine.New(store, "t-1", opts)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	state := reloaded.State()
	if got := state.Players["p1"].State; got != tournament.PlayerCheckedIn {
		t.Fatalf("p1 state = %s, want CHECKED_IN", got)
	}
	if !state.Players["p2"].HasBarrier(tournament.BarrierBanned) {
		t.Fatalf("p2 barriers = %v, want BANNED", state.Players["p2"].Barriers)
	}
	if reloaded.LastSeq() != 6 {
		t.Fatalf("last seq = %d, want 6", reloaded.LastSeq())
	}
	if err := store.VerifyEventIntegrity(ctx, "t-1"); err != nil {
		t.Fatalf("verify integrity: %v", err)
	}
}
