package filter

import (
	"reflect"
	"testing"
	"time"
)

func TestParseEventFilterEmpty(t *testing.T) {
	cond, err := ParseEventFilter("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "" || len(cond.Params) != 0 {
		t.Fatalf("condition = %+v, want empty", cond)
	}
}

func TestParseEventFilter(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:       "type equality",
			filter:     `type = "ROUND_START"`,
			wantClause: "event_type = ?",
			wantParams: []any{"ROUND_START"},
		},
		{
			name:       "actor and type",
			filter:     `actor_type = "player" AND actor_id = "p1"`,
			wantClause: "(actor_type = ? AND actor_id = ?)",
			wantParams: []any{"player", "p1"},
		},
		{
			name:       "or",
			filter:     `type = "ROUND_START" OR type = "ROUND_FINISH"`,
			wantClause: "(event_type = ? OR event_type = ?)",
			wantParams: []any{"ROUND_START", "ROUND_FINISH"},
		},
		{
			name:       "seq range",
			filter:     `seq > 3`,
			wantClause: "seq > ?",
			wantParams: []any{int64(3)},
		},
		{
			name:       "timestamp",
			filter:     `ts >= timestamp("2026-03-01T10:00:00Z")`,
			wantClause: "timestamp >= ?",
			wantParams: []any{ts.UnixMilli()},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := ParseEventFilter(tc.filter)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.filter, err)
			}
			if cond.Clause != tc.wantClause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tc.wantClause)
			}
			if !reflect.DeepEqual(cond.Params, tc.wantParams) {
				t.Fatalf("params = %#v, want %#v", cond.Params, tc.wantParams)
			}
		})
	}
}

func TestParseEventFilterRejectsUnknownField(t *testing.T) {
	if _, err := ParseEventFilter(`payload = "x"`); err == nil {
		t.Fatal("expected error for undeclared field")
	}
}
