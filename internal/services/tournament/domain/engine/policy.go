package engine

import "github.com/louisbranch/archon/internal/services/tournament/domain/tournament"

// FinishPolicy chooses the tournament status after ROUND_FINISH. It sees the
// snapshot before the round is closed.
type FinishPolicy interface {
	NextStatus(state tournament.State) tournament.Status
}

// FinishPolicyFunc adapts a function to FinishPolicy.
type FinishPolicyFunc func(state tournament.State) tournament.Status

// NextStatus calls f.
func (f FinishPolicyFunc) NextStatus(state tournament.State) tournament.Status {
	return f(state)
}

// ReopenRegistration returns to REGISTRATION after every round so late
// players can join before the next check-in.
var ReopenRegistration = FinishPolicyFunc(func(tournament.State) tournament.Status {
	return tournament.StatusRegistration
})

// ContinuousCheckin keeps everyone checked in and returns to WAITING while
// another round may be played; once max_rounds is reached it returns to
// REGISTRATION, from where finals are seeded.
var ContinuousCheckin = FinishPolicyFunc(func(state tournament.State) tournament.Status {
	if limit := state.Config.MaxRounds; limit > 0 && state.PlayedRounds() >= limit {
		return tournament.StatusRegistration
	}
	return tournament.StatusWaiting
})
