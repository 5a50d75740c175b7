package engine

import (
	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// Decision is the outcome of applying an accepted event.
type Decision struct {
	// Event is the normalized event to journal. Sequence and hashes are
	// assigned by the journal.
	Event         event.Event
	State         tournament.State
	RoundChanging bool
	// Replayed is set when state already folded an event with the same uid.
	// State is then returned unchanged and Event must not be journaled.
	Replayed bool
}

// Apply validates evt against state and returns the next snapshot. It is
// pure: state is never modified and nothing is journaled. records supplies
// the discipline flags used for barrier evaluation; nil means none.
// Applying an event whose uid state has already folded is a no-op.
func Apply(state tournament.State, evt event.Event, records map[string]barrier.Record, opts Options) (Decision, error) {
	opts = opts.withDefaults()
	validated, err := opts.Registry.ValidateForAppend(evt)
	if err != nil {
		return Decision{}, err
	}
	if state.EventUIDs[validated.UID] {
		return Decision{Event: validated, State: state.Clone(), Replayed: true}, nil
	}
	if validated.Timestamp.IsZero() {
		validated.Timestamp = opts.Now().UTC()
	}
	decided, err := decide(state, validated, records, opts)
	if err != nil {
		return Decision{}, err
	}
	next, err := tournament.Fold(state, decided)
	if err != nil {
		return Decision{}, wrapNonRetryable(err)
	}
	return Decision{
		Event:         decided,
		State:         barrier.Refresh(next, records),
		RoundChanging: opts.Registry.IsRoundChanging(decided.Type),
	}, nil
}

