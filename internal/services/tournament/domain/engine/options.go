package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/archon/internal/platform/id"
	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/scoring"
	"github.com/louisbranch/archon/internal/services/tournament/domain/seating"
)

const (
	tracerName = "github.com/louisbranch/archon/internal/services/tournament/domain/engine"
	codeLength = 6
)

// DisciplineSource supplies BANNED/DISQUALIFIED flags per player. Players
// without a record may be omitted from the result.
type DisciplineSource interface {
	Lookup(ctx context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error)
}

// Options carries every policy and collaborator the engine uses. The zero
// value is usable: each nil field gets a default.
type Options struct {
	Registry     *event.Registry
	Planner      seating.Planner
	Discipline   DisciplineSource
	Notifier     Notifier
	Now          func() time.Time
	NewCode      func() (string, error)
	ScorePolicy  scoring.Policy
	FinishPolicy FinishPolicy
	Tracer       trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = event.DefaultRegistry()
	}
	if o.Planner == nil {
		o.Planner = seating.DefaultPlanner{}
	}
	if o.Notifier == nil {
		o.Notifier = nopNotifier{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewCode == nil {
		o.NewCode = func() (string, error) { return id.NewCode(codeLength) }
	}
	if o.FinishPolicy == nil {
		o.FinishPolicy = ReopenRegistration
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	return o
}
