package engine

import (
	"slices"
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func decideCreate(d decision) (event.Event, error) {
	if d.state.Created {
		return event.Event{}, invalidTransition(d.state, "tournament %s already exists", d.evt.TournamentID)
	}
	var p tournament.CreatePayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return event.Event{}, payloadInvalid("tournament name is required")
	}
	p.Format = strings.TrimSpace(p.Format)
	p.Config = p.Config.WithDefaults()
	if err := p.Config.Validate(); err != nil {
		return event.Event{}, err
	}

	judges := make([]string, 0, len(p.Judges)+1)
	for _, uid := range p.Judges {
		if uid = strings.TrimSpace(uid); uid != "" {
			judges = append(judges, uid)
		}
	}
	if d.evt.ActorType != event.ActorTypeSystem {
		judges = append(judges, d.evt.ActorID)
	}
	slices.Sort(judges)
	p.Judges = slices.Compact(judges)
	return withPayload(d.evt, p)
}

func decideUpdateConfig(d decision) (event.Event, error) {
	if d.state.Status == tournament.StatusFinished {
		return event.Event{}, invalidTransition(d.state, "configuration is frozen once the tournament is finished")
	}
	var p tournament.UpdateConfigPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	if err := p.Patch.Validate(d.state); err != nil {
		return event.Event{}, err
	}
	return withPayload(d.evt, p)
}

func decideOpenRegistration(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusPlanned); err != nil {
		return event.Event{}, err
	}
	return withPayload(d.evt, struct{}{})
}

func decideCloseRegistration(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusRegistration); err != nil {
		return event.Event{}, err
	}
	return withPayload(d.evt, struct{}{})
}

func decideOpenCheckin(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusRegistration); err != nil {
		return event.Event{}, err
	}
	if len(d.state.PlayersIn(tournament.PlayerRegistered))+len(d.state.PlayersIn(tournament.PlayerCheckedIn)) == 0 {
		return event.Event{}, invalidTransition(d.state, "check-in needs at least one registered player")
	}
	var p tournament.OpenCheckinPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	p.Code = strings.TrimSpace(p.Code)
	if p.Code == "" {
		code, err := d.opts.NewCode()
		if err != nil {
			return event.Event{}, err
		}
		p.Code = code
	}
	return withPayload(d.evt, p)
}

func decideCancelCheckin(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	if _, _, open := d.state.OpenRound(); open {
		return event.Event{}, invalidTransition(d.state, "a round is still open")
	}
	return withPayload(d.evt, struct{}{})
}
