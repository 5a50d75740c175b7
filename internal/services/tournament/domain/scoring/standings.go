package scoring

import (
	"cmp"
	"math"
	"sort"

	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// tablePoints are awarded by position at a table, best first.
var tablePoints = []int{60, 48, 36, 24, 12}

// minGameWinVP is the least VP a table's top scorer needs for a game win.
const minGameWinVP = 2.0

// Standing is one player's aggregate over finished preliminary rounds.
type Standing struct {
	PlayerUID string  `json:"player_uid"`
	Rank      int     `json:"rank"`
	GW        int     `json:"gw"`
	VP        float64 `json:"vp"`
	TP        int     `json:"tp"`
	Rounds    int     `json:"rounds"`
}

// Compute aggregates every finished non-finals round into standings, one
// per player who played at least one such round, ranked without toss.
func Compute(state tournament.State) []Standing {
	return Rank(aggregate(state), nil)
}

func aggregate(state tournament.State) []Standing {
	byPlayer := map[string]*Standing{}
	for _, round := range state.Rounds {
		if round.Finals || !round.Finished {
			continue
		}
		for _, table := range round.Tables {
			for uid, score := range TableScores(table) {
				st, ok := byPlayer[uid]
				if !ok {
					st = &Standing{PlayerUID: uid}
					byPlayer[uid] = st
				}
				st.GW += score.GW
				st.VP += score.VP
				st.TP += score.TP
				st.Rounds++
			}
		}
	}
	out := make([]Standing, 0, len(byPlayer))
	for _, st := range byPlayer {
		out = append(out, *st)
	}
	return out
}

// SeatScore is the per-table contribution of one seat.
type SeatScore struct {
	GW int
	VP float64
	TP int
}

// TableScores computes GW and TP for every scored seat of a table.
// Unscored seats count as 0 VP.
func TableScores(table tournament.Table) map[string]SeatScore {
	type entry struct {
		uid string
		vp  float64
	}
	entries := make([]entry, len(table.Seating))
	for i, seat := range table.Seating {
		vp := 0.0
		if seat.Result != nil {
			vp = seat.Result.VP
		}
		entries[i] = entry{uid: seat.PlayerUID, vp: vp}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].vp > entries[j].vp })

	out := make(map[string]SeatScore, len(entries))
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].vp == entries[i].vp {
			j++
		}
		sum := 0
		for pos := i; pos < j; pos++ {
			if pos < len(tablePoints) {
				sum += tablePoints[pos]
			}
		}
		tp := sum / (j - i)
		for pos := i; pos < j; pos++ {
			score := SeatScore{VP: entries[pos].vp, TP: tp}
			if i == 0 && j == 1 && entries[pos].vp >= minGameWinVP {
				score.GW = 1
			}
			out[entries[pos].uid] = score
		}
		i = j
	}
	return out
}

// Rank sorts standings by GW, VP and TP descending. Entries equal on all
// three are ordered by toss (lower first, missing last) and then by uid.
// Rank numbers are shared by entries equal on all three scores.
func Rank(standings []Standing, toss map[string]int) []Standing {
	out := append([]Standing(nil), standings...)
	tossOf := func(uid string) int {
		if v, ok := toss[uid]; ok {
			return v
		}
		return math.MaxInt
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := compareScores(a, b); c != 0 {
			return c > 0
		}
		if ta, tb := tossOf(a.PlayerUID), tossOf(b.PlayerUID); ta != tb {
			return ta < tb
		}
		return a.PlayerUID < b.PlayerUID
	})
	for i := range out {
		if i > 0 && compareScores(out[i], out[i-1]) == 0 {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

func compareScores(a, b Standing) int {
	return cmp.Or(cmp.Compare(a.GW, b.GW), cmp.Compare(a.VP, b.VP), cmp.Compare(a.TP, b.TP))
}
