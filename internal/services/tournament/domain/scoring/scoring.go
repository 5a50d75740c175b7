// Package scoring validates victory point entries and derives standings.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

const (
	// MaxVP is the highest score a seat can earn.
	MaxVP = 5.0
	// fullTable is the size from which 4.5 becomes the judge-only value.
	fullTable = 5
)

// Policy tunes score legality.
type Policy struct {
	// RejectNonJudgeFourHalfBelowFive forbids non-judges from entering 4.5
	// at tables of fewer than five players. The zero value accepts it.
	RejectNonJudgeFourHalfBelowFive bool
}

// DefaultPolicy accepts 4.5 below five players from anyone.
var DefaultPolicy = Policy{}

// ValidateScore checks vp with the default policy.
func ValidateScore(vp float64, tableSize int, isJudge bool) error {
	return DefaultPolicy.ValidateScore(vp, tableSize, isJudge)
}

// ValidateScore decides whether vp is a legal entry for a seat at a table
// of tableSize, given whether the submitter is a judge.
func (p Policy) ValidateScore(vp float64, tableSize int, isJudge bool) error {
	if math.IsNaN(vp) || vp < 0 || vp > MaxVP || math.Mod(vp*2, 1) != 0 {
		return scoreError(vp, tableSize, "vp must be a multiple of 0.5 between 0 and 5")
	}
	if isJudge {
		return nil
	}
	if tableSize < fullTable {
		switch {
		case vp == 3.5 || vp == 5:
			return scoreError(vp, tableSize, "only a judge can enter this score below five players")
		case vp == 4.5 && p.RejectNonJudgeFourHalfBelowFive:
			return scoreError(vp, tableSize, "only a judge can enter 4.5 below five players")
		}
		return nil
	}
	if vp == 4.5 {
		return scoreError(vp, tableSize, "only a judge can enter 4.5 at a five player table")
	}
	return nil
}

// ValidateTable checks that every seat is scored and the VP total equals
// the number of seats.
func ValidateTable(table tournament.Table) error {
	total := 0.0
	for _, seat := range table.Seating {
		if seat.Result == nil {
			return apperrors.WithMetadata(apperrors.CodeScoreIllegal,
				fmt.Sprintf("seat of %s has no result", seat.PlayerUID),
				map[string]string{"Player": seat.PlayerUID})
		}
		total += seat.Result.VP
	}
	if total != float64(len(table.Seating)) {
		return apperrors.WithMetadata(apperrors.CodeScoreIllegal,
			fmt.Sprintf("table vp total %s does not match %d seats", formatVP(total), len(table.Seating)),
			map[string]string{"Total": formatVP(total), "Seats": strconv.Itoa(len(table.Seating))})
	}
	return nil
}

func scoreError(vp float64, tableSize int, message string) error {
	return apperrors.WithMetadata(apperrors.CodeScoreIllegal, message, map[string]string{
		"VP":        formatVP(vp),
		"TableSize": strconv.Itoa(tableSize),
	})
}

func formatVP(vp float64) string {
	return strconv.FormatFloat(vp, 'f', -1, 64)
}
