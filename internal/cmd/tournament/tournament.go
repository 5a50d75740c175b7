// Package tournament parses tournament command flags and inspects or
// appends to a sqlite tournament journal.
package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/archon/internal/platform/cmd"
	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/platform/id"
	"github.com/louisbranch/archon/internal/services/tournament/discipline"
	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/engine"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/scoring"
	"github.com/louisbranch/archon/internal/services/tournament/domain/seating"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
	"github.com/louisbranch/archon/internal/services/tournament/storage/sqlite"
)

// Config holds tournament command configuration.
type Config struct {
	DBPath       string `env:"TOURNAMENT_DB"       envDefault:"data/tournament.db"`
	TournamentID string `env:"TOURNAMENT_ID"`
	Filter       string `env:"EVENT_FILTER"`
	Locale       string `env:"LOCALE"              envDefault:"en-US"`
	PageSize     int    `env:"EVENT_PAGE_SIZE"     envDefault:"50"`
	AfterSeq     uint64 `env:"EVENT_AFTER_SEQ"`
	// Submit is a path to an event JSON document; "-" reads stdin.
	Submit       string `env:"TOURNAMENT_SUBMIT"`
	Banned       string `env:"TOURNAMENT_BANNED"`
	Continuous   bool   `env:"TOURNAMENT_CONTINUOUS_CHECKIN"`
	StrictScores bool   `env:"TOURNAMENT_STRICT_SCORES"`
	Search       string `env:"PLAYER_SEARCH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite journal path")
	fs.StringVar(&cfg.TournamentID, "tournament", cfg.TournamentID, "tournament id")
	fs.StringVar(&cfg.Filter, "filter", cfg.Filter, "AIP-160 event filter, e.g. type = \"SET_RESULT\"")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "events per page")
	fs.Uint64Var(&cfg.AfterSeq, "after", cfg.AfterSeq, "list events after this sequence number")
	fs.StringVar(&cfg.Submit, "submit", cfg.Submit, "event JSON file to submit before printing (- for stdin)")
	fs.StringVar(&cfg.Banned, "banned", cfg.Banned, "comma separated player uids to treat as banned")
	fs.BoolVar(&cfg.Continuous, "continuous-checkin", cfg.Continuous, "keep players checked in between rounds")
	fs.BoolVar(&cfg.StrictScores, "strict-scores", cfg.StrictScores, "reject 4.5 VP from players below five seats")
	fs.StringVar(&cfg.Search, "search", cfg.Search, "list players whose name matches, ignoring case and accents")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.TournamentID = strings.TrimSpace(cfg.TournamentID)
	if cfg.TournamentID == "" {
		return Config{}, errors.New("tournament id is required")
	}
	return cfg, nil
}

// Submission is the JSON document accepted by -submit.
type Submission struct {
	UID       string          `json:"uid"`
	Type      string          `json:"type"`
	ActorType string          `json:"actor_type"`
	ActorID   string          `json:"actor_id"`
	Payload   json.RawMessage `json:"payload"`
}

// EventView is the printed form of a journaled event.
type EventView struct {
	Seq       uint64          `json:"seq"`
	UID       string          `json:"uid"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	ActorType string          `json:"actor_type"`
	ActorID   string          `json:"actor_id,omitempty"`
	Hash      string          `json:"hash"`
	ChainHash string          `json:"chain_hash"`
	Payload   json.RawMessage `json:"payload"`
}

// Report is the document printed by Run.
type Report struct {
	Tournament   tournament.State   `json:"tournament"`
	LastSeq      uint64             `json:"last_seq"`
	Standings    []scoring.Standing `json:"standings"`
	Events       []EventView        `json:"events"`
	NextAfterSeq uint64             `json:"next_after_seq,omitempty"`
	HasMore      bool               `json:"has_more,omitempty"`
	Submitted    *EventView         `json:"submitted,omitempty"`
	Replayed     bool               `json:"replayed,omitempty"`
	// RepeatedPairs counts pairings of the latest preliminary round that
	// already met in an earlier round.
	RepeatedPairs int      `json:"repeated_pairs"`
	Matches       []string `json:"matches,omitempty"`
}

// Run replays the journal, optionally submits one event, and prints a
// JSON report to out.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTournament, func(ctx context.Context) error {
		report, err := run(ctx, cfg, in)
		if err != nil {
			return localize(err, cfg.Locale)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}

func run(ctx context.Context, cfg Config, in io.Reader) (Report, error) {
	store, err := sqlite.Open(cfg.DBPath, event.DefaultRegistry())
	if err != nil {
		return Report{}, fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	if err := store.VerifyEventIntegrity(ctx, cfg.TournamentID); err != nil {
		return Report{}, fmt.Errorf("verify journal: %w", err)
	}

	opts := engine.Options{
		Discipline: discipline.Chain{store, bannedSource(cfg.Banned)},
		Notifier:   engine.LogNotifier{Logger: log.Default()},
	}
	if cfg.Continuous {
		opts.FinishPolicy = engine.ContinuousCheckin
	}
	if cfg.StrictScores {
		opts.ScorePolicy = scoring.Policy{RejectNonJudgeFourHalfBelowFive: true}
	}
	eng := engine.New(store, cfg.TournamentID, opts)
	if err := eng.Load(ctx); err != nil {
		return Report{}, err
	}

	var report Report
	if cfg.Submit != "" {
		evt, err := readSubmission(cfg.Submit, in)
		if err != nil {
			return Report{}, err
		}
		evt.TournamentID = cfg.TournamentID
		result, err := eng.Submit(ctx, evt)
		if err != nil {
			return Report{}, err
		}
		view := viewOf(result.Event)
		report.Submitted = &view
		report.Replayed = result.Replayed
	}

	report.Tournament = eng.State()
	report.LastSeq = eng.LastSeq()
	report.Standings = scoring.Compute(report.Tournament)
	report.RepeatedPairs = repeatedPairs(report.Tournament)
	if strings.TrimSpace(cfg.Search) != "" {
		report.Matches = report.Tournament.FindPlayers(cfg.Search)
	}

	page, err := store.ListEventsPage(ctx, storage.ListEventsPageRequest{
		TournamentID: cfg.TournamentID,
		AfterSeq:     cfg.AfterSeq,
		PageSize:     cfg.PageSize,
		Filter:       cfg.Filter,
	})
	if err != nil {
		return Report{}, fmt.Errorf("list events: %w", err)
	}
	report.Events = make([]EventView, 0, len(page.Events))
	for _, evt := range page.Events {
		report.Events = append(report.Events, viewOf(evt))
	}
	report.NextAfterSeq = page.NextAfterSeq
	report.HasMore = page.HasMore
	return report, nil
}

func readSubmission(path string, in io.Reader) (event.Event, error) {
	var data []byte
	var err error
	if path == "-" {
		if in == nil {
			return event.Event{}, errors.New("stdin is not available")
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("read submission: %w", err)
	}
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return event.Event{}, fmt.Errorf("decode submission: %w", err)
	}
	if strings.TrimSpace(sub.UID) == "" {
		if sub.UID, err = id.NewID(); err != nil {
			return event.Event{}, fmt.Errorf("event uid: %w", err)
		}
	}
	if len(sub.Payload) == 0 {
		sub.Payload = json.RawMessage("{}")
	}
	return event.Event{
		UID:         sub.UID,
		Type:        event.Type(sub.Type),
		ActorType:   event.ActorType(sub.ActorType),
		ActorID:     sub.ActorID,
		PayloadJSON: sub.Payload,
	}, nil
}

func bannedSource(list string) discipline.Static {
	out := discipline.Static{}
	for _, uid := range strings.Split(list, ",") {
		if uid = strings.TrimSpace(uid); uid != "" {
			out[uid] = barrier.Record{Banned: true}
		}
	}
	return out
}

func repeatedPairs(state tournament.State) int {
	history := state.History()
	if len(history) == 0 {
		return 0
	}
	last := len(history) - 1
	return seating.Repeats(history[:last], history[last])
}

func viewOf(evt event.Event) EventView {
	return EventView{
		Seq:       evt.Seq,
		UID:       evt.UID,
		Type:      string(evt.Type),
		Timestamp: evt.Timestamp,
		ActorType: string(evt.ActorType),
		ActorID:   evt.ActorID,
		Hash:      evt.Hash,
		ChainHash: evt.ChainHash,
		Payload:   json.RawMessage(evt.PayloadJSON),
	}
}

// localize renders domain rejections in the configured locale.
func localize(err error, locale string) error {
	if apperrors.CodeOf(err) == apperrors.CodeUnknown {
		return err
	}
	return fmt.Errorf("%s: %w", apperrors.LocalizedMessage(err, locale), err)
}
