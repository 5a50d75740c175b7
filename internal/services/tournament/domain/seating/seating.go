// Package seating defines the seating planner contract and the structural
// rules every seating must satisfy before a round can use it.
package seating

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
)

// MaxTableSize is the largest legal table.
const MaxTableSize = 5

// Planner partitions contenders into tables given the seating history.
// History is indexed [round][table] -> ordered uids. Implementations should
// minimize repeat pairings; the engine re-validates whatever they return.
type Planner interface {
	Plan(history [][][]string, contenders []string) ([][]string, error)
}

// PlannerFunc adapts a function to Planner.
type PlannerFunc func(history [][][]string, contenders []string) ([][]string, error)

// Plan calls f.
func (f PlannerFunc) Plan(history [][][]string, contenders []string) ([][]string, error) {
	return f(history, contenders)
}

// Validate checks the structural invariants of a seating: no empty table,
// no table above MaxTableSize, table sizes within one of each other, and
// every uid seated once. When contenders is non-nil the seated set must
// equal it exactly.
func Validate(seating [][]string, contenders []string) error {
	if len(seating) == 0 {
		return illegal("seating has no table", nil)
	}
	seen := map[string]bool{}
	minSize, maxSize := MaxTableSize+1, 0
	for ti, table := range seating {
		size := len(table)
		if size == 0 {
			return illegal(fmt.Sprintf("table %d is empty", ti+1), map[string]string{"Table": strconv.Itoa(ti + 1)})
		}
		if size > MaxTableSize {
			return illegal(fmt.Sprintf("table %d has %d seats, max is %d", ti+1, size, MaxTableSize), map[string]string{"Table": strconv.Itoa(ti + 1)})
		}
		minSize, maxSize = min(minSize, size), max(maxSize, size)
		for _, uid := range table {
			if uid == "" {
				return illegal(fmt.Sprintf("table %d has an empty seat", ti+1), map[string]string{"Table": strconv.Itoa(ti + 1)})
			}
			if seen[uid] {
				return illegal(fmt.Sprintf("player %s is seated twice", uid), map[string]string{"Player": uid})
			}
			seen[uid] = true
		}
	}
	if maxSize-minSize > 1 {
		return illegal(fmt.Sprintf("table sizes range from %d to %d", minSize, maxSize), nil)
	}
	if contenders == nil {
		return nil
	}
	expected := make(map[string]bool, len(contenders))
	for _, uid := range contenders {
		expected[uid] = true
		if !seen[uid] {
			return illegal(fmt.Sprintf("player %s is not seated", uid), map[string]string{"Player": uid})
		}
	}
	for uid := range seen {
		if !expected[uid] {
			return illegal(fmt.Sprintf("player %s is not a contender", uid), map[string]string{"Player": uid})
		}
	}
	return nil
}

func illegal(message string, metadata map[string]string) error {
	return apperrors.WithMetadata(apperrors.CodeSeatingIllegal, message, metadata)
}

// TableSizes returns the balanced table sizes for n players: the fewest
// tables of at most MaxTableSize, larger tables first.
func TableSizes(n int) []int {
	if n <= 0 {
		return nil
	}
	count := (n + MaxTableSize - 1) / MaxTableSize
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = n / count
		if i < n%count {
			sizes[i]++
		}
	}
	return sizes
}
