// Package replay rebuilds tournament snapshots from a journal.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

const defaultPageSize = 200

var (
	// ErrEventStoreRequired indicates a missing event store.
	ErrEventStoreRequired = errors.New("event store is required")
	// ErrApplierRequired indicates a missing applier.
	ErrApplierRequired = errors.New("applier is required")
	// ErrTournamentIDRequired indicates a missing tournament id.
	ErrTournamentIDRequired = errors.New("tournament id is required")
)

// EventStore lists events for replay.
type EventStore interface {
	ListEvents(ctx context.Context, tournamentID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// Applier folds one journaled event into a snapshot.
type Applier interface {
	Apply(ctx context.Context, state tournament.State, evt event.Event) (tournament.State, error)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ctx context.Context, state tournament.State, evt event.Event) (tournament.State, error)

// Apply calls f.
func (f ApplierFunc) Apply(ctx context.Context, state tournament.State, evt event.Event) (tournament.State, error) {
	return f(ctx, state, evt)
}

// Options configures replay behavior.
type Options struct {
	AfterSeq uint64
	// UntilSeq stops replay after this sequence; zero replays everything.
	UntilSeq uint64
	PageSize int
	// VerifyChain checks each event's hashes against its predecessor.
	VerifyChain bool
}

// Result captures replay outcomes.
type Result struct {
	State   tournament.State
	LastSeq uint64
	Applied int
}

// Replay applies journaled events in sequence order on top of state.
// VerifyChain requires AfterSeq to be zero.
func Replay(ctx context.Context, store EventStore, applier Applier, tournamentID string, state tournament.State, options Options) (Result, error) {
	if store == nil {
		return Result{}, ErrEventStoreRequired
	}
	if applier == nil {
		return Result{}, ErrApplierRequired
	}
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return Result{}, ErrTournamentIDRequired
	}
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Result{State: state, LastSeq: options.AfterSeq}
	var prev event.Event
	for {
		events, err := store.ListEvents(ctx, tournamentID, result.LastSeq, pageSize)
		if err != nil {
			return result, err
		}
		if len(events) == 0 {
			return result, nil
		}
		for _, evt := range events {
			if options.UntilSeq > 0 && evt.Seq > options.UntilSeq {
				return result, nil
			}
			expectedSeq := result.LastSeq + 1
			if evt.Seq != expectedSeq {
				return result, fmt.Errorf("event sequence gap: expected %d got %d", expectedSeq, evt.Seq)
			}
			if options.VerifyChain {
				if err := event.VerifyChain(prev, []event.Event{evt}); err != nil {
					return result, err
				}
				prev = evt
			}
			next, err := applier.Apply(ctx, result.State, evt)
			if err != nil {
				return result, fmt.Errorf("apply seq %d: %w", evt.Seq, err)
			}
			result.State = next
			result.LastSeq = evt.Seq
			result.Applied++
		}
	}
}
