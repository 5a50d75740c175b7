package engine

import (
	"context"
	"log"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// Notification reports a committed event.
type Notification struct {
	TournamentID string
	Event        event.Event
	// RoundChanging is set when the event moved the active round boundary;
	// consumers recompute round-scoped views only then.
	RoundChanging bool
	State         tournament.State
}

// Notifier receives a notification after each committed event. It is not
// called for rejections or idempotent resubmissions.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// LogNotifier writes one line per committed event.
type LogNotifier struct {
	Logger *log.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(_ context.Context, n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("tournament=%s seq=%d type=%s round_changing=%t", n.TournamentID, n.Event.Seq, n.Event.Type, n.RoundChanging)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
