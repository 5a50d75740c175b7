package engine

import (
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/deck"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func decideSetResult(d decision) (event.Event, error) {
	var p tournament.SetResultPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	p.PlayerUID = strings.TrimSpace(p.PlayerUID)
	round, ok := d.state.Round(p.Round)
	if !ok {
		return event.Event{}, unknownRound(p.Round)
	}
	if !d.state.IsLastRound(p.Round) || round.Finished {
		return event.Event{}, invalidTransition(d.state, "round %d is closed", p.Round)
	}
	if _, err := requirePlayer(d, p.PlayerUID); err != nil {
		return event.Event{}, err
	}
	ref, seated := d.state.SeatOf(p.PlayerUID, p.Round)
	if !seated {
		return event.Event{}, unknownPlayer(p.PlayerUID)
	}
	table := round.Tables[ref.Table-1]
	if !d.judge {
		mine, ok := d.state.SeatOf(d.evt.ActorID, p.Round)
		if !ok || mine.Table != ref.Table {
			return event.Event{}, permissionDenied("only players of table %d may report its results", ref.Table)
		}
	}
	if err := d.opts.ScorePolicy.ValidateScore(p.VP, len(table.Seating), d.judge); err != nil {
		return event.Event{}, err
	}
	return withPayload(d.evt, p)
}

func decideSetDeck(d decision) (event.Event, error) {
	var p tournament.SetDeckPayload
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
	if p.Deck == nil {
		return event.Event{}, payloadInvalid("SET_DECK requires a deck")
	}

	n := deck.TargetRound(d.state, p.Round)
	if d.state.Config.Multideck {
		if n < 1 {
			return event.Event{}, unknownRound(n)
		}
		if n <= len(d.state.Rounds) {
			if _, seated := d.state.SeatOf(player.UID, n); !seated {
				return event.Event{}, unknownPlayer(player.UID)
			}
		}
	}
	if !deck.CanModify(d.state, n, d.judge) {
		return event.Event{}, permissionDenied("deck of %s can no longer be changed", player.UID)
	}

	submitted := tournament.Deck{
		Name:    strings.TrimSpace(p.Deck.Name),
		Text:    strings.TrimSpace(p.Deck.Text),
		VDBLink: strings.TrimSpace(p.Deck.VDBLink),
		Author:  p.Deck.Author,
	}
	if submitted.Text == "" && submitted.VDBLink == "" && submitted.Name == "" {
		return event.Event{}, payloadInvalid("deck requires a text, a vdb link or a name")
	}
	attributed := deck.Attribute(submitted, p.Attribution, player.Name)

	out := tournament.SetDeckPayload{PlayerUID: player.UID, Deck: &attributed, Attribution: p.Attribution}
	if d.state.Config.Multideck {
		out.Round = &n
	}
	return withPayload(d.evt, out)
}
