package tournament

import (
	"slices"
	"sort"
	"strings"
)

// Player returns the player with uid.
func (s State) Player(uid string) (Player, bool) {
	p, ok := s.Players[uid]
	return p, ok
}

// PlayerUIDs returns every player uid in sorted order.
func (s State) PlayerUIDs() []string {
	uids := make([]string, 0, len(s.Players))
	for uid := range s.Players {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// PlayersIn returns the sorted uids of players in the given state.
func (s State) PlayersIn(state PlayerState) []string {
	var uids []string
	for _, uid := range s.PlayerUIDs() {
		if s.Players[uid].State == state {
			uids = append(uids, uid)
		}
	}
	return uids
}

// IsJudge reports whether uid is one of the tournament judges.
func (s State) IsJudge(uid string) bool {
	return uid != "" && slices.Contains(s.Judges, uid)
}

// Round returns the round with the 1-based number n.
func (s State) Round(n int) (Round, bool) {
	if n < 1 || n > len(s.Rounds) {
		return Round{}, false
	}
	return s.Rounds[n-1], true
}

// CurrentRound returns the last round and its number, if any round exists.
func (s State) CurrentRound() (Round, int, bool) {
	if len(s.Rounds) == 0 {
		return Round{}, 0, false
	}
	n := len(s.Rounds)
	return s.Rounds[n-1], n, true
}

// OpenRound returns the last round when it has not been finished.
func (s State) OpenRound() (Round, int, bool) {
	r, n, ok := s.CurrentRound()
	if !ok || r.Finished {
		return Round{}, 0, false
	}
	return r, n, true
}

// IsLastRound reports whether n is the highest round number.
func (s State) IsLastRound(n int) bool {
	return n >= 1 && n == len(s.Rounds)
}

// NextRound is the number of the next round to be played.
func (s State) NextRound() int {
	return len(s.Rounds) + 1
}

// HasStarted reports whether any round has started.
func (s State) HasStarted() bool {
	return len(s.Rounds) > 0
}

// FinalsRound returns the finals round once seeded.
func (s State) FinalsRound() (Round, int, bool) {
	r, n, ok := s.CurrentRound()
	if !ok || !r.Finals {
		return Round{}, 0, false
	}
	return r, n, true
}

// SeatRef locates a seat within a round.
type SeatRef struct {
	Round int
	Table int
	Seat  int
}

// SeatOf finds uid's seat in round n. Table and seat numbers are 1-based.
func (s State) SeatOf(uid string, n int) (SeatRef, bool) {
	r, ok := s.Round(n)
	if !ok {
		return SeatRef{}, false
	}
	for ti, table := range r.Tables {
		for si, seat := range table.Seating {
			if seat.PlayerUID == uid {
				return SeatRef{Round: n, Table: ti + 1, Seat: si + 1}, true
			}
		}
	}
	return SeatRef{}, false
}

// RoundsPlayed counts the non-finals rounds where uid holds a seat.
func (s State) RoundsPlayed(uid string) int {
	count := 0
	for n, r := range s.Rounds {
		if r.Finals {
			continue
		}
		if _, ok := s.SeatOf(uid, n+1); ok {
			count++
		}
	}
	return count
}

// PlayedRounds counts non-finals rounds.
func (s State) PlayedRounds() int {
	count := 0
	for _, r := range s.Rounds {
		if !r.Finals {
			count++
		}
	}
	return count
}

// History projects past non-finals rounds to uid partitions, the shape
// consumed by seating planners.
func (s State) History() [][][]string {
	var history [][][]string
	for _, r := range s.Rounds {
		if r.Finals {
			continue
		}
		history = append(history, r.UIDs())
	}
	return history
}

// UIDs projects the round's tables to ordered player uids.
func (r Round) UIDs() [][]string {
	out := make([][]string, len(r.Tables))
	for i, table := range r.Tables {
		out[i] = table.UIDs()
	}
	return out
}

// UIDs returns the table's player uids in seat order.
func (t Table) UIDs() []string {
	out := make([]string, len(t.Seating))
	for i, seat := range t.Seating {
		out[i] = seat.PlayerUID
	}
	return out
}

// Scored reports whether every seat of the table has a result.
func (t Table) Scored() bool {
	for _, seat := range t.Seating {
		if seat.Result == nil {
			return false
		}
	}
	return true
}

// HasBarrier reports whether the player holds b.
func (p Player) HasBarrier(b Barrier) bool {
	return slices.Contains(p.Barriers, b)
}

// FindPlayers returns sorted uids of players whose folded name contains the
// folded query.
func (s State) FindPlayers(query string) []string {
	needle := NormalizeName(query)
	var out []string
	for _, uid := range s.PlayerUIDs() {
		if needle == "" || strings.Contains(NormalizeName(s.Players[uid].Name), needle) {
			out = append(out, uid)
		}
	}
	return out
}
