// Package deck resolves which decklist applies to a round and whether it
// may still be changed.
package deck

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// TargetRound resolves the round a SET_DECK addresses. Single-deck
// tournaments always target 0, the player's own deck. Multideck
// tournaments default to the next round to be played.
func TargetRound(state tournament.State, requested *int) int {
	if !state.Config.Multideck {
		return 0
	}
	if requested == nil {
		return state.NextRound()
	}
	return *requested
}

// Resolve returns the deck that applies to uid in round n, or nil.
func Resolve(state tournament.State, uid string, n int) *tournament.Deck {
	player, ok := state.Player(uid)
	if !ok {
		return nil
	}
	if !state.Config.Multideck {
		return player.Deck
	}
	if n >= 1 && n <= len(state.Rounds) {
		ref, ok := state.SeatOf(uid, n)
		if !ok {
			return nil
		}
		return state.Rounds[n-1].Tables[ref.Table-1].Seating[ref.Seat-1].Deck
	}
	if deck, ok := player.RoundDecks[n]; ok {
		return &deck
	}
	return nil
}

// CanModify reports whether the deck for uid in round n may be changed by
// the submitter. Round is ignored for single-deck tournaments.
func CanModify(state tournament.State, n int, isJudge bool) bool {
	if state.Status == tournament.StatusFinished {
		return isJudge
	}
	if !state.Config.Multideck {
		if !state.Config.DecklistRequired || !state.HasStarted() {
			return true
		}
		return isJudge
	}
	if n < 1 {
		return false
	}
	if n > len(state.Rounds) {
		return true
	}
	return isJudge
}

var folder = cases.Fold()

// ParseHeader reads "Deck:" and "Author:" header lines from decklist text.
// Keys match case-insensitively; missing values are empty.
func ParseHeader(text string) (name, author string) {
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch folder.String(strings.TrimSpace(key)) {
		case "deck":
			if name == "" {
				name = value
			}
		case "author", "created by":
			if author == "" {
				author = value
			}
		}
	}
	return name, author
}

// Attribute returns d with Author set from the decklist header, falling
// back to displayName, when attribution is on; it clears Author otherwise.
// A missing deck name is also taken from the header.
func Attribute(d tournament.Deck, attribution bool, displayName string) tournament.Deck {
	name, author := ParseHeader(d.Text)
	if d.Name == "" {
		d.Name = name
	}
	if !attribution {
		d.Author = ""
		return d
	}
	switch {
	case author != "":
		d.Author = author
	case strings.TrimSpace(d.Author) != "":
		d.Author = strings.TrimSpace(d.Author)
	default:
		d.Author = displayName
	}
	return d
}
