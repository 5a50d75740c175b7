package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/replay"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

var (
	// ErrJournalRequired indicates a missing journal.
	ErrJournalRequired = errors.New("journal is required")
	// ErrTournamentMismatch indicates an event addressed to another
	// tournament.
	ErrTournamentMismatch = errors.New("event belongs to another tournament")
)

// Journal is the event store an engine appends to and replays from.
type Journal interface {
	replay.EventStore
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	GetEventByUID(ctx context.Context, tournamentID, uid string) (event.Event, error)
}

// Result is the outcome of a submission.
type Result struct {
	State         tournament.State
	Event         event.Event
	RoundChanging bool
	// Replayed is set when the uid was already journaled; State is then the
	// snapshot right after that event.
	Replayed bool
}

// Engine serializes submissions for a single tournament and keeps its
// snapshot in sync with the journal.
type Engine struct {
	journal      Journal
	tournamentID string
	opts         Options

	mu      sync.Mutex
	loaded  bool
	state   tournament.State
	lastSeq uint64
}

// New creates an engine for tournamentID. Load is called lazily by the
// first Submit when not called explicitly.
func New(journal Journal, tournamentID string, opts Options) *Engine {
	return &Engine{
		journal:      journal,
		tournamentID: strings.TrimSpace(tournamentID),
		opts:         opts.withDefaults(),
	}
}

// Load rebuilds the snapshot from the journal.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx)
}

func (e *Engine) load(ctx context.Context) error {
	if e.journal == nil {
		return ErrJournalRequired
	}
	result, err := replay.Replay(ctx, e.journal, foldApplier, e.tournamentID, tournament.State{}, replay.Options{})
	if err != nil {
		return fmt.Errorf("load tournament %s: %w", e.tournamentID, err)
	}
	records, err := e.lookup(ctx, result.State, nil)
	if err != nil {
		return err
	}
	e.state = barrier.Refresh(result.State, records)
	e.lastSeq = result.LastSeq
	e.loaded = true
	return nil
}

var foldApplier = replay.ApplierFunc(func(_ context.Context, state tournament.State, evt event.Event) (tournament.State, error) {
	return tournament.Fold(state, evt)
})

// State returns the current snapshot.
func (e *Engine) State() tournament.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// LastSeq returns the sequence of the last folded event.
func (e *Engine) LastSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeq
}

// Submit decides, journals and folds evt. Either the event is journaled and
// the snapshot advances, or nothing changes. Resubmitting a journaled uid
// returns the original outcome with Replayed set.
func (e *Engine) Submit(ctx context.Context, evt event.Event) (Result, error) {
	ctx, span := e.opts.Tracer.Start(ctx, "tournament.submit", trace.WithAttributes(
		attribute.String("tournament.id", e.tournamentID),
		attribute.String("event.type", string(evt.Type)),
		attribute.String("event.uid", evt.UID),
	))
	defer span.End()

	result, err := e.submit(ctx, evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Bool("event.round_changing", result.RoundChanging),
		attribute.Bool("event.replayed", result.Replayed),
		attribute.Int64("event.seq", int64(result.Event.Seq)),
	)
	return result, nil
}

func (e *Engine) submit(ctx context.Context, evt event.Event) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := e.load(ctx); err != nil {
			return Result{}, wrapNonRetryable(err)
		}
	}
	evt.TournamentID = strings.TrimSpace(evt.TournamentID)
	if evt.TournamentID == "" {
		evt.TournamentID = e.tournamentID
	}
	if evt.TournamentID != e.tournamentID {
		return Result{}, fmt.Errorf("%w: %s", ErrTournamentMismatch, evt.TournamentID)
	}

	if uid := strings.TrimSpace(evt.UID); uid != "" {
		existing, err := e.journal.GetEventByUID(ctx, e.tournamentID, uid)
		switch {
		case err == nil:
			return e.replayed(ctx, existing)
		case !errors.Is(err, storage.ErrNotFound):
			return Result{}, fmt.Errorf("lookup event %s: %w", uid, err)
		}
	}

	records, err := e.lookup(ctx, e.state, evt.PayloadJSON)
	if err != nil {
		return Result{}, err
	}
	decision, err := Apply(e.state, evt, records, e.opts)
	if err != nil {
		return Result{}, err
	}
	if decision.Replayed {
		existing, err := e.journal.GetEventByUID(ctx, e.tournamentID, decision.Event.UID)
		if err != nil {
			return Result{}, fmt.Errorf("lookup event %s: %w", decision.Event.UID, err)
		}
		return e.replayed(ctx, existing)
	}

	stored, err := e.journal.AppendEvent(ctx, decision.Event)
	if errors.Is(err, storage.ErrDuplicateUID) {
		// Another writer journaled the uid first.
		if err := e.load(ctx); err != nil {
			return Result{}, wrapNonRetryable(err)
		}
		existing, err := e.journal.GetEventByUID(ctx, e.tournamentID, decision.Event.UID)
		if err != nil {
			return Result{}, fmt.Errorf("lookup event %s: %w", decision.Event.UID, err)
		}
		return e.replayed(ctx, existing)
	}
	if err != nil {
		return Result{}, fmt.Errorf("append event: %w", err)
	}
	if stored.Seq != e.lastSeq+1 {
		// The journal moved under us; the decision may be stale.
		if err := e.load(ctx); err != nil {
			return Result{}, wrapNonRetryable(err)
		}
	} else {
		e.state = decision.State
		e.lastSeq = stored.Seq
	}

	result := Result{State: e.state.Clone(), Event: stored, RoundChanging: decision.RoundChanging}
	e.opts.Notifier.Notify(ctx, Notification{
		TournamentID:  e.tournamentID,
		Event:         stored,
		RoundChanging: decision.RoundChanging,
		State:         result.State,
	})
	return result, nil
}

// replayed rebuilds the snapshot right after a journaled event.
func (e *Engine) replayed(ctx context.Context, evt event.Event) (Result, error) {
	out, err := replay.Replay(ctx, e.journal, foldApplier, e.tournamentID, tournament.State{}, replay.Options{UntilSeq: evt.Seq})
	if err != nil {
		return Result{}, wrapNonRetryable(fmt.Errorf("replay to seq %d: %w", evt.Seq, err))
	}
	records, err := e.lookup(ctx, out.State, nil)
	if err != nil {
		return Result{}, err
	}
	return Result{
		State:         barrier.Refresh(out.State, records),
		Event:         evt,
		RoundChanging: e.opts.Registry.IsRoundChanging(evt.Type),
		Replayed:      true,
	}, nil
}

// lookup fetches discipline records for every known player and for the
// player an incoming payload names.
func (e *Engine) lookup(ctx context.Context, state tournament.State, payload []byte) (map[string]barrier.Record, error) {
	if e.opts.Discipline == nil {
		return nil, nil
	}
	uids := state.PlayerUIDs()
	if subject := payloadPlayer(payload); subject != "" && !slices.Contains(uids, subject) {
		uids = append(uids, subject)
	}
	if len(uids) == 0 {
		return nil, nil
	}
	records, err := e.opts.Discipline.Lookup(ctx, e.tournamentID, uids)
	if err != nil {
		return nil, fmt.Errorf("lookup discipline: %w", err)
	}
	return records, nil
}

func payloadPlayer(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var p struct {
		PlayerUID string `json:"player_uid"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}
	return strings.TrimSpace(p.PlayerUID)
}
