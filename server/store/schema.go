package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id {{ID}},
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  google_id TEXT UNIQUE,
  gold BIGINT NOT NULL DEFAULT 0,
  gems BIGINT NOT NULL DEFAULT 0,
  xp BIGINT NOT NULL DEFAULT 0,
  level INTEGER NOT NULL DEFAULT 1,
  current_generation INTEGER NOT NULL DEFAULT 1,
  current_zone INTEGER NOT NULL DEFAULT 1,
  current_stage INTEGER NOT NULL DEFAULT 1,
  stage_kills INTEGER NOT NULL DEFAULT 0,
  click_damage BIGINT NOT NULL DEFAULT 1,
  click_damage_bonus BIGINT NOT NULL DEFAULT 0,
  team_dps_bonus BIGINT NOT NULL DEFAULT 0,
  badges INTEGER NOT NULL DEFAULT 0,
  candies TEXT NOT NULL DEFAULT '{}',
  daycare TEXT NOT NULL DEFAULT '[]',
  items TEXT NOT NULL DEFAULT '{}',
  last_login_at BIGINT,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS species (
  id {{ID}},
  tyradex_id INTEGER NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  name_fr TEXT NOT NULL,
  name_en TEXT NOT NULL,
  type_1 TEXT NOT NULL,
  type_2 TEXT,
  generation INTEGER NOT NULL DEFAULT 1,
  base_stats TEXT NOT NULL DEFAULT '{}',
  evolution_family TEXT,
  sprite_regular TEXT NOT NULL DEFAULT '',
  sprite_shiny TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS user_pokemons (
  id TEXT PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  species_id BIGINT REFERENCES species(id) ON DELETE SET NULL,
  slug TEXT NOT NULL,
  name_fr TEXT NOT NULL DEFAULT '',
  name_en TEXT NOT NULL DEFAULT '',
  rarity TEXT NOT NULL DEFAULT 'common',
  xp BIGINT NOT NULL DEFAULT 0,
  level INTEGER NOT NULL DEFAULT 1,
  is_shiny BOOLEAN NOT NULL DEFAULT FALSE,
  stars INTEGER NOT NULL DEFAULT 1,
  team_slot INTEGER,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS user_pokemons_user_idx ON user_pokemons(user_id)`,
	`CREATE TABLE IF NOT EXISTS trainers (
  id {{ID}},
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  generation INTEGER NOT NULL,
  zone INTEGER NOT NULL,
  stage_number INTEGER NOT NULL,
  is_boss BOOLEAN NOT NULL DEFAULT FALSE,
  boss_timer_seconds INTEGER,
  team_json TEXT NOT NULL DEFAULT '[]',
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (generation, zone, stage_number)
)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
  jti TEXT PRIMARY KEY,
  expires_at BIGINT NOT NULL
)`,
}

// Migrate creates missing tables. It is safe to run on every start.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{ID}}", s.dialect.idColumn())
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	s.log.Debug("schema up to date", zap.String("driver", s.dialect.name()))
	return nil
}
