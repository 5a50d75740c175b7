package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/archon/internal/platform/pagination"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
	"github.com/louisbranch/archon/internal/services/tournament/storage/filter"
)

const (
	eventColumns       = "tournament_id, seq, uid, event_hash, prev_event_hash, chain_hash, timestamp, event_type, actor_type, actor_id, payload_json"
	defaultPageSize    = 50
	maxPageSize        = 200
	integrityPageBatch = 500
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		evt       event.Event
		seq       int64
		ts        int64
		eventType string
		actorType string
	)
	if err := row.Scan(&evt.TournamentID, &seq, &evt.UID, &evt.Hash, &evt.PrevHash, &evt.ChainHash,
		&ts, &eventType, &actorType, &evt.ActorID, &evt.PayloadJSON); err != nil {
		return event.Event{}, err
	}
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(ts)
	evt.Type = event.Type(eventType)
	evt.ActorType = event.ActorType(actorType)
	return evt, nil
}

// AppendEvent seals evt after the last event of its tournament and stores
// it in one transaction. A known uid returns the stored event together with
// storage.ErrDuplicateUID.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return event.Event{}, err
	}
	if s.registry != nil {
		validated, err := s.registry.ValidateForAppend(evt)
		if err != nil {
			return event.Event{}, err
		}
		evt = validated
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := scanEvent(tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE tournament_id = ? AND uid = ?", evt.TournamentID, evt.UID))
	switch {
	case err == nil:
		return existing, fmt.Errorf("append %s: %w", evt.UID, storage.ErrDuplicateUID)
	case !errors.Is(err, sql.ErrNoRows):
		return event.Event{}, fmt.Errorf("lookup event uid: %w", err)
	}

	prev, err := scanEvent(tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE tournament_id = ? ORDER BY seq DESC LIMIT 1", evt.TournamentID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, fmt.Errorf("load previous event: %w", err)
	}
	sealed, err := event.Seal(evt, prev)
	if err != nil {
		return event.Event{}, fmt.Errorf("seal event: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sealed.TournamentID, int64(sealed.Seq), sealed.UID, sealed.Hash, sealed.PrevHash, sealed.ChainHash,
		toMillis(sealed.Timestamp), string(sealed.Type), string(sealed.ActorType), sealed.ActorID, sealed.PayloadJSON,
	); err != nil {
		if isConstraintError(err) {
			_ = tx.Rollback()
			if stored, lookupErr := s.GetEventByUID(ctx, evt.TournamentID, evt.UID); lookupErr == nil {
				return stored, fmt.Errorf("append %s: %w", evt.UID, storage.ErrDuplicateUID)
			}
		}
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit: %w", err)
	}
	return sealed, nil
}

// GetEventByUID retrieves an event by its client uid.
func (s *Store) GetEventByUID(ctx context.Context, tournamentID, uid string) (event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return event.Event{}, err
	}
	evt, err := scanEvent(s.sqlDB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE tournament_id = ? AND uid = ?", tournamentID, strings.TrimSpace(uid)))
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, storage.ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event by uid: %w", err)
	}
	return evt, nil
}

// GetEventBySeq retrieves a specific event by sequence number.
func (s *Store) GetEventBySeq(ctx context.Context, tournamentID string, seq uint64) (event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return event.Event{}, err
	}
	evt, err := scanEvent(s.sqlDB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE tournament_id = ? AND seq = ?", tournamentID, int64(seq)))
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, storage.ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event by seq: %w", err)
	}
	return evt, nil
}

// ListEvents returns up to limit events after afterSeq in sequence order.
// A limit of zero or less returns every remaining event.
func (s *Store) ListEvents(ctx context.Context, tournamentID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := "SELECT " + eventColumns + " FROM events WHERE tournament_id = ? AND seq > ? ORDER BY seq ASC"
	params := []any{tournamentID, int64(afterSeq)}
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}
	return s.queryEvents(ctx, query, params...)
}

// GetLatestEventSeq returns the last sequence number, 0 when empty.
func (s *Store) GetLatestEventSeq(ctx context.Context, tournamentID string) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var seq int64
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM events WHERE tournament_id = ?", tournamentID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get latest event seq: %w", err)
	}
	return uint64(seq), nil
}

// ListEventsPage returns a page of events matching the request filter.
func (s *Store) ListEventsPage(ctx context.Context, req storage.ListEventsPageRequest) (storage.ListEventsPageResult, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	if strings.TrimSpace(req.TournamentID) == "" {
		return storage.ListEventsPageResult{}, fmt.Errorf("tournament id is required")
	}
	req.PageSize = pagination.ClampPageSize(req.PageSize, pagination.PageSizeConfig{
		Default: defaultPageSize,
		Max:     maxPageSize,
	})
	cond, err := filter.ParseEventFilter(req.Filter)
	if err != nil {
		return storage.ListEventsPageResult{}, err
	}

	where := "tournament_id = ? AND seq > ?"
	params := []any{req.TournamentID, int64(req.AfterSeq)}
	if cond.Clause != "" {
		where += " AND " + cond.Clause
		params = append(params, cond.Params...)
	}
	query := fmt.Sprintf("SELECT %s FROM events WHERE %s ORDER BY seq ASC LIMIT %d", eventColumns, where, req.PageSize+1)
	events, err := s.queryEvents(ctx, query, params...)
	if err != nil {
		return storage.ListEventsPageResult{}, err
	}

	result := storage.ListEventsPageResult{Events: events}
	if len(events) > req.PageSize {
		result.Events = events[:req.PageSize]
		result.HasMore = true
	}
	if n := len(result.Events); n > 0 {
		result.NextAfterSeq = result.Events[n-1].Seq
	}
	return result, nil
}

// VerifyEventIntegrity checks the hash chain of a tournament journal.
func (s *Store) VerifyEventIntegrity(ctx context.Context, tournamentID string) error {
	var prev event.Event
	var after uint64
	for {
		events, err := s.ListEvents(ctx, tournamentID, after, integrityPageBatch)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		if err := event.VerifyChain(prev, events); err != nil {
			return fmt.Errorf("tournament %s: %w", tournamentID, err)
		}
		prev = events[len(events)-1]
		after = prev.Seq
	}
}

func (s *Store) queryEvents(ctx context.Context, query string, params ...any) ([]event.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
