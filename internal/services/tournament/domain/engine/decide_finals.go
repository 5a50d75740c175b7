package engine

import (
	"slices"
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/scoring"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func decideSeedFinals(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusRegistration, tournament.StatusWaiting); err != nil {
		return event.Event{}, err
	}
	if _, _, open := d.state.OpenRound(); open {
		return event.Event{}, invalidTransition(d.state, "a round is still open")
	}
	var p tournament.SeedFinalsPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	finalists := d.state.Config.WithDefaults().Finalists

	var eligible []scoring.Standing
	for _, st := range scoring.Rank(scoring.Compute(d.state), p.Toss) {
		if finalistEligible(d, st.PlayerUID) {
			eligible = append(eligible, st)
		}
	}
	if len(eligible) < finalists {
		return event.Event{}, invalidTransition(d.state, "%d ranked players, %d finalists needed", len(eligible), finalists)
	}

	seeds := make([]string, 0, finalists)
	if len(p.Seeds) == 0 {
		for _, st := range eligible[:finalists] {
			seeds = append(seeds, st.PlayerUID)
		}
	} else {
		if len(p.Seeds) != finalists {
			return event.Event{}, seatingIllegal("%d seeds given, %d finalists expected", len(p.Seeds), finalists)
		}
		for _, uid := range p.Seeds {
			uid = strings.TrimSpace(uid)
			if _, ok := d.state.Player(uid); !ok {
				return event.Event{}, unknownPlayer(uid)
			}
			if slices.Contains(seeds, uid) {
				return event.Event{}, seatingIllegal("player %s is seeded twice", uid)
			}
			if !finalistEligible(d, uid) {
				return event.Event{}, seatingIllegal("player %s cannot play the finals", uid)
			}
			seeds = append(seeds, uid)
		}
	}
	return withPayload(d.evt, tournament.SeedFinalsPayload{Seeds: seeds, Toss: p.Toss})
}

// finalistEligible excludes dropped, banned and disqualified players.
func finalistEligible(d decision, uid string) bool {
	player, ok := d.state.Player(uid)
	if !ok || player.State == tournament.PlayerFinished {
		return false
	}
	record := d.records[uid]
	return !record.Banned && !record.Disqualified &&
		!player.HasBarrier(tournament.BarrierBanned) && !player.HasBarrier(tournament.BarrierDisqualified)
}

func decideSeatFinals(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusFinals); err != nil {
		return event.Event{}, err
	}
	if d.state.FinalsSeated {
		return event.Event{}, invalidTransition(d.state, "finals are already seated")
	}
	var p tournament.SeatFinalsPayload
	if err := decodePayload(d.evt, &p); err != nil {
		return event.Event{}, err
	}
	for i := range p.Seating {
		p.Seating[i] = strings.TrimSpace(p.Seating[i])
	}
	if len(p.Seating) != len(d.state.FinalsSeeds) {
		return event.Event{}, seatingIllegal("finals seating must hold the %d seeds", len(d.state.FinalsSeeds))
	}
	got, want := slices.Clone(p.Seating), slices.Clone(d.state.FinalsSeeds)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return event.Event{}, seatingIllegal("finals seating must be a permutation of the seeds")
	}
	return withPayload(d.evt, p)
}

func decideFinish(d decision) (event.Event, error) {
	if err := requireStatus(d, tournament.StatusFinals); err != nil {
		return event.Event{}, err
	}
	round, _, ok := d.state.FinalsRound()
	if !ok || len(round.Tables) != 1 {
		return event.Event{}, invalidTransition(d.state, "finals are not seeded")
	}
	table := round.Tables[0]
	if err := scoring.ValidateTable(table); err != nil {
		return event.Event{}, err
	}
	seedOf := func(uid string) int {
		if i := slices.Index(d.state.FinalsSeeds, uid); i >= 0 {
			return i
		}
		return len(d.state.FinalsSeeds)
	}
	winner := ""
	best := -1.0
	for _, seat := range table.Seating {
		vp := seat.Result.VP
		if vp > best || (vp == best && seedOf(seat.PlayerUID) < seedOf(winner)) {
			winner, best = seat.PlayerUID, vp
		}
	}
	return withPayload(d.evt, tournament.FinishPayload{Winner: winner})
}

