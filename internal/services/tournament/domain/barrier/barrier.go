// Package barrier computes the reasons that keep a player from checking in.
package barrier

import "github.com/louisbranch/archon/internal/services/tournament/domain/tournament"

// Record is a player's disciplinary record. It is supplied from outside the
// tournament and never derived from events.
type Record struct {
	Banned       bool `json:"banned"`
	Disqualified bool `json:"disqualified"`
}

// Evaluate returns the barriers held by player, in a fixed order. Each rule
// is independent so a player may hold several.
func Evaluate(state tournament.State, player tournament.Player, record Record) []tournament.Barrier {
	var out []tournament.Barrier
	if record.Banned {
		out = append(out, tournament.BarrierBanned)
	}
	if record.Disqualified {
		out = append(out, tournament.BarrierDisqualified)
	}
	if limit := state.Config.MaxRounds; limit > 0 && state.RoundsPlayed(player.UID) >= limit {
		out = append(out, tournament.BarrierMaxRounds)
	}
	if missingDeck(state, player) {
		out = append(out, tournament.BarrierMissingDeck)
	}
	return out
}

func missingDeck(state tournament.State, player tournament.Player) bool {
	if !state.Config.DecklistRequired || !state.HasStarted() {
		return false
	}
	if !state.Config.Multideck {
		return player.Deck == nil
	}
	_, ok := player.RoundDecks[state.NextRound()]
	return !ok
}

// Refresh recomputes barriers for every player and returns the updated
// snapshot. The input snapshot is left untouched.
func Refresh(state tournament.State, records map[string]Record) tournament.State {
	if len(state.Players) == 0 {
		return state
	}
	players := make(map[string]tournament.Player, len(state.Players))
	for uid, player := range state.Players {
		player.Barriers = Evaluate(state, player, records[uid])
		players[uid] = player
	}
	state.Players = players
	return state
}

// Blocked reports whether barriers prevent check-in.
func Blocked(barriers []tournament.Barrier) bool {
	return len(barriers) > 0
}
