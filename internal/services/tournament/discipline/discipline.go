// Package discipline provides sources of BANNED and DISQUALIFIED flags for
// barrier evaluation.
package discipline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

// Source answers discipline lookups. Players without a record may be
// omitted from the result.
type Source interface {
	Lookup(ctx context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error)
}

// Static serves fixed records keyed by player uid for every tournament.
type Static map[string]barrier.Record

// Lookup implements Source.
func (s Static) Lookup(_ context.Context, _ string, uids []string) (map[string]barrier.Record, error) {
	out := map[string]barrier.Record{}
	for _, uid := range uids {
		if rec, ok := s[uid]; ok && (rec.Banned || rec.Disqualified) {
			out[uid] = rec
		}
	}
	return out, nil
}

// Chain merges the records of several sources; a flag set by any source
// holds.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(ctx context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error) {
	out := map[string]barrier.Record{}
	for i, src := range c {
		if src == nil {
			continue
		}
		records, err := src.Lookup(ctx, tournamentID, uids)
		if err != nil {
			return nil, fmt.Errorf("discipline source %d: %w", i, err)
		}
		for uid, rec := range records {
			merged := out[uid]
			merged.Banned = merged.Banned || rec.Banned
			merged.Disqualified = merged.Disqualified || rec.Disqualified
			out[uid] = merged
		}
	}
	return out, nil
}

type sanctionKey struct {
	player     string
	tournament string
}

// Memory is a goroutine-safe in-memory sanction store with the same scope
// rules as the sqlite store: an empty TournamentID applies everywhere.
type Memory struct {
	mu      sync.Mutex
	records map[sanctionKey]storage.SanctionRecord
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{records: map[sanctionKey]storage.SanctionRecord{}}
}

// PutSanction creates or replaces a sanction.
func (m *Memory) PutSanction(_ context.Context, rec storage.SanctionRecord) error {
	rec.PlayerUID = strings.TrimSpace(rec.PlayerUID)
	if rec.PlayerUID == "" {
		return fmt.Errorf("player uid is required")
	}
	rec.TournamentID = strings.TrimSpace(rec.TournamentID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sanctionKey{player: rec.PlayerUID, tournament: rec.TournamentID}] = rec
	return nil
}

// Lookup implements Source.
func (m *Memory) Lookup(_ context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]barrier.Record{}
	for _, uid := range uids {
		var rec barrier.Record
		for _, scope := range []string{"", tournamentID} {
			if stored, ok := m.records[sanctionKey{player: uid, tournament: scope}]; ok {
				rec.Banned = rec.Banned || stored.Banned
				rec.Disqualified = rec.Disqualified || stored.Disqualified
			}
		}
		if rec.Banned || rec.Disqualified {
			out[uid] = rec
		}
	}
	return out, nil
}

var (
	_ Source                = Static(nil)
	_ Source                = Chain(nil)
	_ storage.SanctionStore = (*Memory)(nil)
)
