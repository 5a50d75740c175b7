package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/archon/internal/services/tournament/domain/barrier"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

// PutSanction creates or replaces a sanction. Clearing both flags keeps the
// row so the reason history stays visible.
func (s *Store) PutSanction(ctx context.Context, rec storage.SanctionRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	rec.PlayerUID = strings.TrimSpace(rec.PlayerUID)
	if rec.PlayerUID == "" {
		return fmt.Errorf("player uid is required")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO sanctions (player_uid, tournament_id, banned, disqualified, reason, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (player_uid, tournament_id) DO UPDATE SET
    banned = excluded.banned,
    disqualified = excluded.disqualified,
    reason = excluded.reason,
    updated_at = excluded.updated_at`,
		rec.PlayerUID, strings.TrimSpace(rec.TournamentID), rec.Banned, rec.Disqualified, rec.Reason, toMillis(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put sanction: %w", err)
	}
	return nil
}

// Lookup merges global and tournament-scoped sanctions for uids.
func (s *Store) Lookup(ctx context.Context, tournamentID string, uids []string) (map[string]barrier.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	out := map[string]barrier.Record{}
	if len(uids) == 0 {
		return out, nil
	}
	params := make([]any, 0, len(uids)+1)
	params = append(params, tournamentID)
	for _, uid := range uids {
		params = append(params, uid)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(uids)), ", ")
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT player_uid, banned, disqualified FROM sanctions WHERE tournament_id IN ('', ?) AND player_uid IN ("+placeholders+")",
		params...)
	if err != nil {
		return nil, fmt.Errorf("lookup sanctions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uid                  string
			banned, disqualified bool
		)
		if err := rows.Scan(&uid, &banned, &disqualified); err != nil {
			return nil, fmt.Errorf("scan sanction: %w", err)
		}
		if !banned && !disqualified {
			continue
		}
		rec := out[uid]
		rec.Banned = rec.Banned || banned
		rec.Disqualified = rec.Disqualified || disqualified
		out[uid] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sanctions: %w", err)
	}
	return out, nil
}
