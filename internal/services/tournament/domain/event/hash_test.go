package event

import (
	"errors"
	"testing"
	"time"
)

func hashFixture() Event {
	return Event{
		TournamentID: "t-1",
		UID:          "e-1",
		Type:         TypeOpenRegistration,
		Timestamp:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ActorType:    ActorTypeSystem,
		PayloadJSON:  []byte(`{}`),
	}
}

func TestEventHashIgnoresPayloadKeyOrder(t *testing.T) {
	a := hashFixture()
	a.PayloadJSON = []byte(`{"b":1,"a":2}`)
	b := hashFixture()
	b.PayloadJSON = []byte(`{ "a":2, "b":1 }`)

	ha, err := EventHash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hb, err := EventHash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if ha != hb {
		t.Fatalf("hashes differ: %s vs %s", ha, hb)
	}
}

func TestEventHashChangesWithActor(t *testing.T) {
	base := hashFixture()
	withActor := base
	withActor.ActorID = "judge-1"

	h1, _ := EventHash(base)
	h2, _ := EventHash(withActor)
	if h1 == h2 {
		t.Fatal("expected hash to change with actor id")
	}
}

func TestSealAndVerifyChain(t *testing.T) {
	first, err := Seal(hashFixture(), Event{})
	if err != nil {
		t.Fatalf("seal first: %v", err)
	}
	if first.Seq != 1 || first.PrevHash != "" || first.ChainHash == "" {
		t.Fatalf("first = %+v, want seq 1 with chain hash", first)
	}
	next := hashFixture()
	next.UID = "e-2"
	next.Type = TypeCloseRegistration
	second, err := Seal(next, first)
	if err != nil {
		t.Fatalf("seal second: %v", err)
	}
	if second.Seq != 2 || second.PrevHash != first.ChainHash {
		t.Fatalf("second seq=%d prev=%s, want 2/%s", second.Seq, second.PrevHash, first.ChainHash)
	}
	if second.ChainHash != ChainHash(first.ChainHash, second.Hash) {
		t.Fatal("chain hash mismatch")
	}

	if err := VerifyChain(Event{}, []Event{first, second}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	tampered := second
	tampered.PayloadJSON = []byte(`{"x":1}`)
	err = VerifyChain(Event{}, []Event{first, tampered})
	var chainErr *ChainError
	if !errors.As(err, &chainErr) || chainErr.Seq != 2 {
		t.Fatalf("err = %v, want chain error at seq 2", err)
	}
}
