package engine

import (
	"crypto/subtle"
	"strings"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func decideRegister(d decision) (event.Event, error) {
	if d.state.Status == tournament.StatusFinished {
		return event.Event{}, invalidTransition(d.state, "registration is closed for good")
	}
	if !d.judge {
		if err := requireStatus(d, tournament.StatusRegistration, tournament.StatusWaiting); err != nil {
			return event.Event{}, err
		}
	}
	var p tournament.RegisterPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	p.PlayerUID = strings.TrimSpace(p.PlayerUID)
	p.Name = strings.TrimSpace(p.Name)
	p.VEKN = strings.TrimSpace(p.VEKN)
	p.Country = strings.TrimSpace(p.Country)
	p.City = strings.TrimSpace(p.City)
	if p.PlayerUID == "" {
		return event.Event{}, payloadInvalid("REGISTER requires player_uid")
	}
	if err := requireSelf(d, p.PlayerUID); err != nil {
		return event.Event{}, err
	}

	existing, known := d.state.Player(p.PlayerUID)
	if p.Name == "" {
		if !known {
			return event.Event{}, payloadInvalid("player name is required")
		}
		p.Name = existing.Name
	}
	if p.VEKN != "" {
		for _, uid := range d.state.PlayerUIDs() {
			if uid != p.PlayerUID && d.state.Players[uid].VEKN == p.VEKN {
				return event.Event{}, payloadInvalid("vekn id %s is already registered by another player", p.VEKN)
			}
		}
	}
	return withPayload(d.evt, p)
}

func decideCheckIn(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	var p tournament.PlayerPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	player, err := requirePlayer(d, strings.TrimSpace(p.PlayerUID))
	if err != nil {
		return event.Event{}, err
	}
	if err := requireSelf(d, player.UID); err != nil {
		return event.Event{}, err
	}
	if player.State != tournament.PlayerRegistered && player.State != tournament.PlayerFinished {
		return event.Event{}, invalidTransition(d.state, "player %s is %s", player.UID, player.State)
	}

	if barriers := barrier.Evaluate(d.state, player, d.records[player.UID]); barrier.Blocked(barriers) {
		reasons := make([]string, len(barriers))
		for i, b := range barriers {
			reasons[i] = string(b)
		}
		return event.Event{}, apperrors.WithMetadata(apperrors.CodeBlocked,
			"player "+player.UID+" is blocked: "+strings.Join(reasons, ","),
			map[string]string{"Player": player.UID, "Reason": strings.Join(reasons, ", ")})
	}

	if !d.judge {
		code := strings.TrimSpace(p.Code)
		if d.state.CheckinCode == "" || subtle.ConstantTimeCompare([]byte(code), []byte(d.state.CheckinCode)) != 1 {
			return event.Event{}, apperrors.New(apperrors.CodeInvalidCode, "check-in code does not match")
		}
	}
	return withPayload(d.evt, tournament.PlayerPayload{PlayerUID: player.UID})
}

func decideCheckEveryoneIn(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	var uids []string
	for _, uid := range d.state.PlayersIn(tournament.PlayerRegistered) {
		player := d.state.Players[uid]
		if barrier.Blocked(barrier.Evaluate(d.state, player, d.records[uid])) {
			continue
		}
		uids = append(uids, uid)
	}
	return withPayload(d.evt, tournament.CheckEveryoneInPayload{PlayerUIDs: uids})
}

func decideCheckOut(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	var p tournament.PlayerPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	player, err := requirePlayer(d, strings.TrimSpace(p.PlayerUID))
	if err != nil {
		return event.Event{}, err
	}
	if err := requireSelf(d, player.UID); err != nil {
		return event.Event{}, err
	}
	if player.State != tournament.PlayerCheckedIn {
		return event.Event{}, invalidTransition(d.state, "player %s is not checked in", player.UID)
	}
	return withPayload(d.evt, tournament.PlayerPayload{PlayerUID: player.UID})
}

func decideDrop(d decision) (event.Event, error) {
	if err := requireStatus(d,
		tournament.StatusPlanned, tournament.StatusRegistration, tournament.StatusWaiting,
		tournament.StatusPlaying, tournament.StatusFinals,
	); err != nil {
		return event.Event{}, err
	}
	var p tournament.PlayerPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	player, err := requirePlayer(d, strings.TrimSpace(p.PlayerUID))
	if err != nil {
		return event.Event{}, err
	}
	if err := requireSelf(d, player.UID); err != nil {
		return event.Event{}, err
	}
	if player.State == tournament.PlayerFinished {
		return event.Event{}, invalidTransition(d.state, "player %s already dropped", player.UID)
	}
	return withPayload(d.evt, tournament.PlayerPayload{PlayerUID: player.UID})
}
