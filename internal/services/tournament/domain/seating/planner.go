package seating

import (
	"errors"
	"slices"
)

// ErrNoContenders is returned when there is nobody to seat.
var ErrNoContenders = errors.New("no contenders to seat")

// DefaultPlanner seats contenders greedily: table sizes are fixed by
// TableSizes and each player, in uid order, joins the open table where
// they have met the fewest players before. Ties go to the lower table.
type DefaultPlanner struct{}

// Plan implements Planner.
func (DefaultPlanner) Plan(history [][][]string, contenders []string) ([][]string, error) {
	if len(contenders) == 0 {
		return nil, ErrNoContenders
	}
	players := slices.Clone(contenders)
	slices.Sort(players)
	met := Encounters(history)

	sizes := TableSizes(len(players))
	tables := make([][]string, len(sizes))
	for _, uid := range players {
		best, bestRepeats := -1, 0
		for ti, table := range tables {
			if len(table) >= sizes[ti] {
				continue
			}
			repeats := 0
			for _, other := range table {
				repeats += met[pairKey(uid, other)]
			}
			if best == -1 || repeats < bestRepeats {
				best, bestRepeats = ti, repeats
			}
		}
		tables[best] = append(tables[best], uid)
	}
	return tables, nil
}

type pair struct{ a, b string }

func pairKey(x, y string) pair {
	if x > y {
		x, y = y, x
	}
	return pair{x, y}
}

// Encounters counts how often each pair of players shared a table.
func Encounters(history [][][]string) map[pair]int {
	met := map[pair]int{}
	for _, round := range history {
		for _, table := range round {
			for i := range table {
				for j := i + 1; j < len(table); j++ {
					met[pairKey(table[i], table[j])]++
				}
			}
		}
	}
	return met
}

// Repeats counts pairings in seating that already happened in history.
func Repeats(history [][][]string, seating [][]string) int {
	met := Encounters(history)
	total := 0
	for _, table := range seating {
		for i := range table {
			for j := i + 1; j < len(table); j++ {
				total += met[pairKey(table[i], table[j])]
			}
		}
	}
	return total
}
