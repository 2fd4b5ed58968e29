package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func (s *SQLStore) UpsertTrainer(ctx context.Context, t *Trainer) error {
	team := t.Team
	if team == nil {
		team = []TrainerMember{}
	}
	teamJSON, err := json.Marshal(team)
	if err != nil {
		return err
	}
	var timer sql.NullInt64
	if t.BossTimerSeconds != nil {
		timer = sql.NullInt64{Int64: int64(*t.BossTimerSeconds), Valid: true}
	}
	now := unix(time.Now())
	err = s.queryRow(ctx, `INSERT INTO trainers (name, slug, generation, zone, stage_number, is_boss,
  boss_timer_seconds, team_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(generation, zone, stage_number) DO UPDATE SET
  name = excluded.name,
  slug = excluded.slug,
  is_boss = excluded.is_boss,
  boss_timer_seconds = excluded.boss_timer_seconds,
  team_json = excluded.team_json,
  updated_at = excluded.updated_at
RETURNING id`,
		t.Name, t.Slug, t.Generation, t.Zone, t.StageNumber, t.IsBoss, timer, string(teamJSON), now, now,
	).Scan(&t.ID)
	return classify(err)
}

// ListTrainers returns trainers of one generation, or all when generation is 0.
func (s *SQLStore) ListTrainers(ctx context.Context, generation int) ([]Trainer, error) {
	q := `SELECT id, name, slug, generation, zone, stage_number, is_boss, boss_timer_seconds, team_json FROM trainers`
	var args []any
	if generation > 0 {
		q += ` WHERE generation = ?`
		args = append(args, generation)
	}
	q += ` ORDER BY generation, zone, stage_number`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trainer{}
	for rows.Next() {
		var (
			t     Trainer
			timer sql.NullInt64
			team  string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Generation, &t.Zone, &t.StageNumber,
			&t.IsBoss, &timer, &team); err != nil {
			return nil, err
		}
		if timer.Valid {
			v := int(timer.Int64)
			t.BossTimerSeconds = &v
		}
		if err := json.Unmarshal([]byte(team), &t.Team); err != nil {
			return nil, fmt.Errorf("store: trainer %s team: %w", t.Slug, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
