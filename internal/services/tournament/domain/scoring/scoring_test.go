package scoring

import (
	"testing"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func TestValidateScore(t *testing.T) {
	tests := []struct {
		vp      float64
		size    int
		judge   bool
		wantErr bool
	}{
		{3.5, 4, false, true},
		{3.5, 4, true, false},
		{2.5, 5, false, false},
		{5, 4, false, true},
		{5, 4, true, false},
		{5, 5, false, false},
		{4.5, 4, false, false},
		{4.5, 5, false, true},
		{4.5, 5, true, false},
		{3.5, 5, false, false},
		{0, 3, false, false},
		{-0.5, 5, true, true},
		{5.5, 5, true, true},
		{1.25, 5, true, true},
	}
	for _, tc := range tests {
		err := ValidateScore(tc.vp, tc.size, tc.judge)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateScore(%v, %d, %v) = %v, want error %v", tc.vp, tc.size, tc.judge, err, tc.wantErr)
			continue
		}
		if err != nil && apperrors.CodeOf(err) != apperrors.CodeScoreIllegal {
			t.Errorf("ValidateScore(%v, %d, %v) code = %s, want %s", tc.vp, tc.size, tc.judge, apperrors.CodeOf(err), apperrors.CodeScoreIllegal)
		}
	}
}

func TestPolicyRejectsFourHalfBelowFive(t *testing.T) {
	policy := Policy{RejectNonJudgeFourHalfBelowFive: true}
	if err := policy.ValidateScore(4.5, 4, false); err == nil {
		t.Fatal("expected rejection for non-judge")
	}
	if err := policy.ValidateScore(4.5, 4, true); err != nil {
		t.Fatalf("judge entry: %v", err)
	}
}

func seats(vps ...float64) tournament.Table {
	table := tournament.Table{}
	for i, vp := range vps {
		score := &tournament.Score{VP: vp}
		if vp < 0 {
			score = nil
		}
		table.Seating = append(table.Seating, tournament.Seat{PlayerUID: string(rune('a' + i)), Result: score})
	}
	return table
}

func TestValidateTable(t *testing.T) {
	if err := ValidateTable(seats(2, 1, 1, 0.5, 0.5)); err != nil {
		t.Fatalf("valid table: %v", err)
	}
	if err := ValidateTable(seats(2, 1, 1, 0.5)); apperrors.CodeOf(err) != apperrors.CodeScoreIllegal {
		t.Fatalf("bad sum err = %v, want SCORE_ILLEGAL", err)
	}
	if err := ValidateTable(seats(2, 1, -1, 1)); apperrors.CodeOf(err) != apperrors.CodeScoreIllegal {
		t.Fatalf("missing result err = %v, want SCORE_ILLEGAL", err)
	}
}

func TestTableScores(t *testing.T) {
	got := TableScores(seats(2, 1, 1, 1))
	if got["a"].GW != 1 || got["a"].TP != 60 {
		t.Fatalf("a = %+v, want GW and 60 TP", got["a"])
	}
	if got["b"].TP != 36 || got["c"].TP != 36 || got["d"].TP != 36 {
		t.Fatalf("tied TP = %d/%d/%d, want shared 36", got["b"].TP, got["c"].TP, got["d"].TP)
	}

	shared := TableScores(seats(2, 2, 1, 0))
	if shared["a"].GW != 0 || shared["b"].GW != 0 {
		t.Fatal("expected no game win for tied top")
	}
	if shared["a"].TP != 54 {
		t.Fatalf("tied top TP = %d, want 54", shared["a"].TP)
	}

	low := TableScores(seats(1.5, 1, 1, 0.5))
	if low["a"].GW != 0 {
		t.Fatal("expected no game win below 2 VP")
	}
}

func TestRankUsesTossForTies(t *testing.T) {
	standings := []Standing{
		{PlayerUID: "B", GW: 1, VP: 3, TP: 60},
		{PlayerUID: "A", GW: 1, VP: 3, TP: 60},
		{PlayerUID: "C", GW: 2, VP: 5, TP: 120},
	}
	ranked := Rank(standings, map[string]int{"A": 1, "B": 2})
	order := []string{ranked[0].PlayerUID, ranked[1].PlayerUID, ranked[2].PlayerUID}
	if order[0] != "C" || order[1] != "A" || order[2] != "B" {
		t.Fatalf("order = %v, want [C A B]", order)
	}
	if ranked[1].Rank != 2 || ranked[2].Rank != 2 {
		t.Fatalf("ranks = %d/%d, want shared 2", ranked[1].Rank, ranked[2].Rank)
	}

	reversed := Rank(standings, map[string]int{"A": 2, "B": 1})
	if reversed[1].PlayerUID != "B" {
		t.Fatalf("second = %s, want B", reversed[1].PlayerUID)
	}
}

func TestComputeSkipsOpenAndFinalsRounds(t *testing.T) {
	state := tournament.State{Rounds: []tournament.Round{
		{Finished: true, Tables: []tournament.Table{seats(3, 1, 0, 0)}},
		{Tables: []tournament.Table{seats(4, 0, 0, 0)}},
		{Finals: true, Finished: true, Tables: []tournament.Table{seats(0, 0, 0, 4)}},
	}}
	standings := Compute(state)
	if len(standings) != 4 {
		t.Fatalf("standings = %d entries, want 4", len(standings))
	}
	top := standings[0]
	if top.PlayerUID != "a" || top.GW != 1 || top.VP != 3 || top.Rounds != 1 {
		t.Fatalf("top = %+v, want a with one round", top)
	}
}
