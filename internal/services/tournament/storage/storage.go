package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrDuplicateUID is returned by AppendEvent together with the event that
// already holds the uid.
var ErrDuplicateUID = errors.New("event uid already journaled")

// EventStore is the append-only journal that drives replay.
type EventStore interface {
	// AppendEvent atomically appends an event and returns it with sequence
	// and hashes set.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// GetEventByUID retrieves an event by its client uid.
	GetEventByUID(ctx context.Context, tournamentID, uid string) (event.Event, error)
	// GetEventBySeq retrieves a specific event by sequence number.
	GetEventBySeq(ctx context.Context, tournamentID string, seq uint64) (event.Event, error)
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, tournamentID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetLatestEventSeq returns the latest sequence number, 0 when empty.
	GetLatestEventSeq(ctx context.Context, tournamentID string) (uint64, error)
}

// ListEventsPageRequest selects a page of events.
type ListEventsPageRequest struct {
	TournamentID string
	AfterSeq     uint64
	PageSize     int
	// Filter is an AIP-160 expression over type, actor_type, actor_id, seq
	// and ts.
	Filter string
}

// ListEventsPageResult is one page of events.
type ListEventsPageResult struct {
	Events []event.Event
	// NextAfterSeq continues the listing when HasMore is set.
	NextAfterSeq uint64
	HasMore      bool
}

// EventQueryStore lists filtered pages of events.
type EventQueryStore interface {
	ListEventsPage(ctx context.Context, req ListEventsPageRequest) (ListEventsPageResult, error)
}

// SanctionRecord is a disciplinary flag for a player. An empty TournamentID
// applies to every tournament.
type SanctionRecord struct {
	PlayerUID    string
	TournamentID string
	Banned       bool
	Disqualified bool
	Reason       string
	UpdatedAt    time.Time
}

// SanctionStore persists sanctions and answers barrier lookups.
type SanctionStore interface {
	PutSanction(ctx context.Context, rec SanctionRecord) error
	// Lookup merges global and tournament sanctions per player uid. Players
	// without a sanction are absent from the result.
	Lookup(ctx context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error)
}
