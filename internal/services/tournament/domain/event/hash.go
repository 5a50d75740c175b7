package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

type canonicalEnvelope struct {
	TournamentID string          `json:"tournament_id"`
	UID          string          `json:"uid"`
	Type         string          `json:"type"`
	Seq          uint64          `json:"seq"`
	Timestamp    string          `json:"timestamp"`
	ActorType    string          `json:"actor_type"`
	ActorID      string          `json:"actor_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// EventHash computes the SHA-256 content hash of an event's canonical
// envelope. Integrity fields are excluded.
func EventHash(evt Event) (string, error) {
	payload, err := CanonicalPayload(evt.PayloadJSON)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(canonicalEnvelope{
		TournamentID: evt.TournamentID,
		UID:          evt.UID,
		Type:         string(evt.Type),
		Seq:          evt.Seq,
		Timestamp:    evt.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorType:    string(evt.ActorType),
		ActorID:      evt.ActorID,
		Payload:      payload,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ChainHash links an event hash to the chain hash of its predecessor.
// The first event of a tournament uses an empty prevChainHash.
func ChainHash(prevChainHash, hash string) string {
	sum := sha256.Sum256([]byte(prevChainHash + hash))
	return hex.EncodeToString(sum[:])
}

// Seal assigns seq and integrity fields to evt given the previous event of
// the same tournament (zero value when evt is the first). PrevHash carries
// the predecessor's chain hash.
func Seal(evt Event, prev Event) (Event, error) {
	evt.Seq = prev.Seq + 1
	hash, err := EventHash(evt)
	if err != nil {
		return Event{}, err
	}
	evt.Hash = hash
	evt.PrevHash = prev.ChainHash
	evt.ChainHash = ChainHash(prev.ChainHash, hash)
	return evt, nil
}

// VerifyChain checks that events form a contiguous, untampered chain
// starting after prev.
func VerifyChain(prev Event, events []Event) error {
	for _, evt := range events {
		sealed, err := Seal(evt, prev)
		if err != nil {
			return err
		}
		if evt.Seq != sealed.Seq || evt.Hash != sealed.Hash || evt.PrevHash != sealed.PrevHash || evt.ChainHash != sealed.ChainHash {
			return &ChainError{Seq: evt.Seq}
		}
		prev = evt
	}
	return nil
}

// ChainError reports the first event whose integrity fields do not match.
type ChainError struct {
	Seq uint64
}

func (e *ChainError) Error() string {
	return "event chain broken at seq " + strconv.FormatUint(e.Seq, 10)
}
