// Package journal provides an in-memory append-only event journal.
package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

// Memory is a goroutine-safe in-memory journal, used by tests and by
// scenario runs that need no durability.
type Memory struct {
	mu       sync.RWMutex
	registry *event.Registry
	events   map[string][]event.Event
	uids     map[string]map[string]int
}

// NewMemory creates an empty journal. A nil registry skips validation.
func NewMemory(registry *event.Registry) *Memory {
	return &Memory{
		registry: registry,
		events:   map[string][]event.Event{},
		uids:     map[string]map[string]int{},
	}
}

// AppendEvent validates evt, assigns sequence and hashes and stores it.
func (m *Memory) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if m.registry != nil {
		validated, err := m.registry.ValidateForAppend(evt)
		if err != nil {
			return event.Event{}, err
		}
		evt = validated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.uids[evt.TournamentID][evt.UID]; ok {
		return m.events[evt.TournamentID][idx], fmt.Errorf("append %s: %w", evt.UID, storage.ErrDuplicateUID)
	}

	stream := m.events[evt.TournamentID]
	var prev event.Event
	if len(stream) > 0 {
		prev = stream[len(stream)-1]
	}
	sealed, err := event.Seal(evt, prev)
	if err != nil {
		return event.Event{}, fmt.Errorf("seal event: %w", err)
	}

	m.events[evt.TournamentID] = append(stream, sealed)
	if m.uids[evt.TournamentID] == nil {
		m.uids[evt.TournamentID] = map[string]int{}
	}
	m.uids[evt.TournamentID][evt.UID] = len(stream)
	return sealed, nil
}

// GetEventByUID returns the event with uid or storage.ErrNotFound.
func (m *Memory) GetEventByUID(_ context.Context, tournamentID, uid string) (event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.uids[tournamentID][uid]
	if !ok {
		return event.Event{}, storage.ErrNotFound
	}
	return m.events[tournamentID][idx], nil
}

// GetEventBySeq returns the event at seq or storage.ErrNotFound.
func (m *Memory) GetEventBySeq(_ context.Context, tournamentID string, seq uint64) (event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stream := m.events[tournamentID]
	if seq == 0 || seq > uint64(len(stream)) {
		return event.Event{}, storage.ErrNotFound
	}
	return stream[seq-1], nil
}

// ListEvents returns up to limit events after afterSeq. A limit of zero or
// less returns every remaining event.
func (m *Memory) ListEvents(_ context.Context, tournamentID string, afterSeq uint64, limit int) ([]event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stream := m.events[tournamentID]
	if afterSeq >= uint64(len(stream)) {
		return nil, nil
	}
	rest := stream[afterSeq:]
	if limit > 0 && len(rest) > limit {
		rest = rest[:limit]
	}
	return append([]event.Event(nil), rest...), nil
}

// GetLatestEventSeq returns the last sequence number, 0 when empty.
func (m *Memory) GetLatestEventSeq(_ context.Context, tournamentID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.events[tournamentID])), nil
}

var _ storage.EventStore = (*Memory)(nil)
