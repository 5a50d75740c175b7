package engine

import (
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/scoring"
	"github.com/louisbranch/archon/internal/services/tournament/domain/seating"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func decideRoundStart(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	contenders := d.state.PlayersIn(tournament.PlayerCheckedIn)
	if len(contenders) == 0 {
		return event.Event{}, invalidTransition(d.state, "no player is checked in")
	}
	var p tournament.SeatingPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	plan := p.Seating
	if len(plan) == 0 {
		planned, err := d.opts.Planner.Plan(d.state.History(), contenders)
		if err != nil {
			return event.Event{}, seatingIllegal("seating planner failed: %v", err)
		}
		plan = planned
	}
	if err := seating.Validate(plan, contenders); err != nil {
		return event.Event{}, err
	}
	return withPayload(d.evt, tournament.SeatingPayload{Seating: plan})
}

func decideRoundFinish(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusPlaying); err != nil {
		return event.Event{}, err
	}
	round, _, open := d.state.OpenRound()
	if !open || round.Finals {
		return event.Event{}, invalidTransition(d.state, "no preliminary round is open")
	}
	for _, table := range round.Tables {
		if err := scoring.ValidateTable(table); err != nil {
			return event.Event{}, err
		}
	}
	next := d.opts.FinishPolicy.NextStatus(d.state)
	if next != tournament.StatusRegistration && next != tournament.StatusWaiting {
		next = tournament.StatusRegistration
	}
	p := tournament.RoundFinishPayload{NextStatus: next}
	if next == tournament.StatusWaiting {
		p.CheckedIn = continuingPlayers(d, round)
	}
	return withPayload(d.evt, p)
}

// continuingPlayers lists the players seated in round who stay checked in
// for the next one: still playing and holding no barrier.
func continuingPlayers(d decision, round tournament.Round) []string {
	var uids []string
	for _, table := range round.Tables {
		for _, uid := range table.UIDs() {
			player, ok := d.state.Player(uid)
			if !ok || player.State != tournament.PlayerPlaying {
				continue
			}
			if barrier.Blocked(barrier.Evaluate(d.state, player, d.records[uid])) {
				continue
			}
			uids = append(uids, uid)
		}
	}
	return uids
}

func decideRoundCancel(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusPlaying); err != nil {
		return event.Event{}, err
	}
	round, _, open := d.state.OpenRound()
	if !open || round.Finals {
		return event.Event{}, invalidTransition(d.state, "no preliminary round is open")
	}
	return withPayload(d.evt, struct{}{})
}

func decideRoundAlter(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusPlaying, tournament.StatusFinals); err != nil {
		return event.Event{}, err
	}
	var p tournament.SeatingPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	round, ok := d.state.Round(p.Round)
	if !ok {
		return event.Event{}, unknownRound(p.Round)
	}
	if !d.state.IsLastRound(p.Round) || round.Finished {
		return event.Event{}, invalidTransition(d.state, "round %d is closed", p.Round)
	}
	if err := seating.Validate(p.Seating, nil); err != nil {
		return event.Event{}, err
	}
	if round.Finals && len(p.Seating) != 1 {
		return event.Event{}, seatingIllegal("finals are played on a single table")
	}

	seated := map[string]bool{}
	for _, uids := range round.UIDs() {
		for _, uid := range uids {
			seated[uid] = true
		}
	}
	for _, table := range p.Seating {
		for _, uid := range table {
			player, ok := d.state.Player(uid)
			if !ok {
				return event.Event{}, unknownPlayer(uid)
			}
			if !seated[uid] && player.State != tournament.PlayerCheckedIn && player.State != tournament.PlayerRegistered {
				return event.Event{}, seatingIllegal("player %s is %s and cannot be seated", uid, player.State)
			}
		}
	}
	return withPayload(d.evt, p)
}

func decideOverride(d decision) (event.Event, error) {
	var p tournament.OverridePayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	if _, err := lookupTable(d, p.Round, p.Table); err != nil {
		return event.Event{}, err
	}
	p.Comment = strings.TrimSpace(p.Comment)
	if p.Comment == "" {
		return event.Event{}, payloadInvalid("override requires a comment")
	}
	return withPayload(d.evt, p)
}

func decideUnoverride(d decision) (event.Event, error) {
	var p tournament.OverridePayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	table, err := lookupTable(d, p.Round, p.Table)
	if err != nil {
		return event.Event{}, err
	}
	if table.Override == nil {
		return event.Event{}, invalidTransition(d.state, "table %d of round %d has no override", p.Table, p.Round)
	}
	return withPayload(d.evt, tournament.OverridePayload{Round: p.Round, Table: p.Table})
}

func lookupTable(d decision, roundNumber, tableNumber int) (tournament.Table, error) {
	round, ok := d.state.Round(roundNumber)
	if !ok {
		return tournament.Table{}, unknownRound(roundNumber)
	}
	if tableNumber < 1 || tableNumber > len(round.Tables) {
		return tournament.Table{}, unknownTable(roundNumber, tableNumber)
	}
	return round.Tables[tableNumber-1], nil
}
