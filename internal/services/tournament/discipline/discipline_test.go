package discipline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

type failingSource struct{}

func (failingSource) Lookup(context.Context, string, []string) (map[string]barrier.Record, error) {
	return nil, errors.New("offline")
}

func TestStaticLookupOnlyReturnsRequested(t *testing.T) {
	src := Static{"p1": {Banned: true}, "p2": {Disqualified: true}, "p3": {}}
	got, err := src.Lookup(context.Background(), "t-1", []string{"p1", "p3", "p9"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := map[string]barrier.Record{"p1": {Banned: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
}

func TestChainMergesFlags(t *testing.T) {
	src := Chain{Static{"p1": {Banned: true}}, nil, Static{"p1": {Disqualified: true}, "p2": {Disqualified: true}}}
	got, err := src.Lookup(context.Background(), "t-1", []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := map[string]barrier.Record{
		"p1": {Banned: true, Disqualified: true},
		"p2": {Disqualified: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
}

func TestChainPropagatesErrors(t *testing.T) {
	if _, err := (Chain{Static{}, failingSource{}}).Lookup(context.Background(), "t-1", []string{"p1"}); err == nil {
		t.Fatal("expected source error")
	}
}

func TestMemoryScopes(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	for _, rec := range []storage.SanctionRecord{
		{PlayerUID: "p1", Banned: true},
		{PlayerUID: "p2", TournamentID: "t-1", Disqualified: true},
		{PlayerUID: "p3", TournamentID: "t-2", Disqualified: true},
	} {
		if err := mem.PutSanction(ctx, rec); err != nil {
			t.Fatalf("put %s: %v", rec.PlayerUID, err)
		}
	}
	if err := mem.PutSanction(ctx, storage.SanctionRecord{}); err == nil {
		t.Fatal("expected error for missing player uid")
	}
	got, err := mem.Lookup(ctx, "t-1", []string{"p1", "p2", "p3"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := map[string]barrier.Record{"p1": {Banned: true}, "p2": {Disqualified: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
}
