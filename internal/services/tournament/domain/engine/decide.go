package engine

import (
	"encoding/json"
	"slices"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// decision holds what a decider needs. Deciders read state and return the
// event to journal, possibly with a normalized payload.
type decision struct {
	state   tournament.State
	evt     event.Event
	judge   bool
	records map[string]barrier.Record
	opts    Options
}

type decider func(d decision) (event.Event, error)

var deciders = map[event.Type]decider{
	event.TypeTournamentCreate:  decideCreate,
	event.TypeUpdateConfig:      decideUpdateConfig,
	event.TypeRegister:          decideRegister,
	event.TypeCheckIn:           decideCheckIn,
	event.TypeCheckEveryoneIn:   decideCheckEveryoneIn,
	event.TypeCheckOut:          decideCheckOut,
	event.TypeDrop:              decideDrop,
	event.TypeOpenRegistration:  decideOpenRegistration,
	event.TypeCloseRegistration: decideCloseRegistration,
	event.TypeOpenCheckin:       decideOpenCheckin,
	event.TypeCancelCheckin:     decideCancelCheckin,
	event.TypeRoundStart:        decideRoundStart,
	event.TypeRoundFinish:       decideRoundFinish,
	event.TypeRoundCancel:       decideRoundCancel,
	event.TypeRoundAlter:        decideRoundAlter,
	event.TypeOverride:          decideOverride,
	event.TypeUnoverride:        decideUnoverride,
	event.TypeSetResult:         decideSetResult,
	event.TypeSetDeck:           decideSetDeck,
	event.TypeSeedFinals:        decideSeedFinals,
	event.TypeSeatFinals:        decideSeatFinals,
	event.TypeFinishTournament:  decideFinish,
}

// isJudge reports whether the actor of evt may act as a judge.
func isJudge(state tournament.State, evt event.Event) bool {
	return evt.ActorType == event.ActorTypeSystem || state.IsJudge(evt.ActorID)
}

// decide checks evt against state and returns the event to journal.
func decide(state tournament.State, evt event.Event, records map[string]barrier.Record, opts Options) (event.Event, error) {
	def, ok := opts.Registry.Definition(evt.Type)
	fn, known := deciders[evt.Type]
	if !ok || !known {
		return event.Event{}, payloadInvalid("no decider for event type %s", evt.Type)
	}
	if evt.Type != event.TypeTournamentCreate && !state.Created {
		return event.Event{}, invalidTransition(state, "tournament %s does not exist", evt.TournamentID)
	}
	judge := isJudge(state, evt)
	if def.JudgeOnly && !judge {
		return event.Event{}, permissionDenied("%s requires a judge", evt.Type)
	}
	return fn(decision{state: state, evt: evt, judge: judge, records: records, opts: opts})
}

// decodePayload reads the event payload into target.
func decodePayload(evt event.Event, target any) error {
	if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
		return payloadInvalid("decode %s payload: %v", evt.Type, err)
	}
	return nil
}

// withPayload returns evt carrying the normalized payload.
func withPayload(evt event.Event, payload any) (event.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return event.Event{}, payloadInvalid("encode %s payload: %v", evt.Type, err)
	}
	canonical, err := event.CanonicalPayload(data)
	if err != nil {
		return event.Event{}, payloadInvalid("encode %s payload: %v", evt.Type, err)
	}
	evt.PayloadJSON = canonical
	return evt, nil
}

// requireStatus rejects unless the tournament is in one of statuses.
func requireStatus(d decision, statuses ...tournament.Status) error {
	if slices.Contains(statuses, d.state.Status) {
		return nil
	}
	return invalidTransition(d.state, "%s is not allowed while %s", d.evt.Type, d.state.Status)
}

// requireSelf rejects non-judges acting on another player's behalf.
func requireSelf(d decision, playerUID string) error {
	if d.judge || d.evt.ActorID == playerUID {
		return nil
	}
	return permissionDenied("%s on behalf of %s requires a judge", d.evt.Type, playerUID)
}

func requirePlayer(d decision, uid string) (tournament.Player, error) {
	if uid == "" {
		return tournament.Player{}, payloadInvalid("%s requires player_uid", d.evt.Type)
	}
	player, ok := d.state.Player(uid)
	if !ok {
		return tournament.Player{}, unknownPlayer(uid)
	}
	return player, nil
}
