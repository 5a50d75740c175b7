package replay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/journal"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

var foldApplier = ApplierFunc(func(_ context.Context, state tournament.State, evt event.Event) (tournament.State, error) {
	return tournament.Fold(state, evt)
})

func seedJournal(t *testing.T) *journal.Memory {
	t.Helper()
	store := journal.NewMemory(event.DefaultRegistry())
	payload := func(v any) []byte {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}
	steps := []struct {
		typ     event.Type
		payload any
	}{
		{event.TypeTournamentCreate, tournament.CreatePayload{Name: "Open"}},
		{event.TypeOpenRegistration, struct{}{}},
		{event.TypeRegister, tournament.RegisterPayload{PlayerUID: "p1", Name: "Ana"}},
		{event.TypeRegister, tournament.RegisterPayload{PlayerUID: "p2", Name: "Bea"}},
		{event.TypeDrop, tournament.PlayerPayload{PlayerUID: "p2"}},
	}
	for i, step := range steps {
		_, err := store.AppendEvent(context.Background(), event.Event{
			TournamentID: "t-1",
			UID:          string(rune('a' + i)),
			Type:         step.typ,
			PayloadJSON:  payload(step.payload),
		})
		if err != nil {
			t.Fatalf("append %s: %v", step.typ, err)
		}
	}
	return store
}

func TestReplayRebuildsSnapshot(t *testing.T) {
	store := seedJournal(t)
	result, err := Replay(context.Background(), store, foldApplier, "t-1", tournament.State{}, Options{PageSize: 2, VerifyChain: true})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Applied != 5 || result.LastSeq != 5 {
		t.Fatalf("applied = %d last = %d, want 5/5", result.Applied, result.LastSeq)
	}
	if result.State.Status != tournament.StatusRegistration {
		t.Fatalf("status = %s, want REGISTRATION", result.State.Status)
	}
	if result.State.Players["p2"].State != tournament.PlayerFinished {
		t.Fatalf("p2 = %s, want FINISHED", result.State.Players["p2"].State)
	}
}

func TestReplayStopsAtUntilSeq(t *testing.T) {
	store := seedJournal(t)
	result, err := Replay(context.Background(), store, foldApplier, "t-1", tournament.State{}, Options{UntilSeq: 3})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.LastSeq != 3 || len(result.State.Players) != 1 {
		t.Fatalf("last = %d players = %d, want 3/1", result.LastSeq, len(result.State.Players))
	}
}

type gapStore struct{}

func (gapStore) ListEvents(context.Context, string, uint64, int) ([]event.Event, error) {
	return []event.Event{{Seq: 2}}, nil
}

func TestReplayDetectsGaps(t *testing.T) {
	_, err := Replay(context.Background(), gapStore{}, foldApplier, "t-1", tournament.State{}, Options{})
	if err == nil {
		t.Fatal("expected sequence gap error")
	}
}

func TestReplayRequiresDependencies(t *testing.T) {
	store := seedJournal(t)
	if _, err := Replay(context.Background(), nil, foldApplier, "t-1", tournament.State{}, Options{}); !errors.Is(err, ErrEventStoreRequired) {
		t.Fatalf("err = %v, want %v", err, ErrEventStoreRequired)
	}
	if _, err := Replay(context.Background(), store, nil, "t-1", tournament.State{}, Options{}); !errors.Is(err, ErrApplierRequired) {
		t.Fatalf("err = %v, want %v", err, ErrApplierRequired)
	}
	if _, err := Replay(context.Background(), store, foldApplier, " ", tournament.State{}, Options{}); !errors.Is(err, ErrTournamentIDRequired) {
		t.Fatalf("err = %v, want %v", err, ErrTournamentIDRequired)
	}
}
