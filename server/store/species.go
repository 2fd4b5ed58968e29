package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const speciesColumns = `id, tyradex_id, slug, name_fr, name_en, type_1, type_2, generation,
  base_stats, evolution_family, sprite_regular, sprite_shiny`

func scanSpecies(r rowScanner) (*Species, error) {
	var (
		sp     Species
		type2  sql.NullString
		stats  string
		family sql.NullString
	)
	if err := r.Scan(&sp.ID, &sp.TyradexID, &sp.Slug, &sp.NameFr, &sp.NameEn, &sp.Type1, &type2,
		&sp.Generation, &stats, &family, &sp.SpriteRegular, &sp.SpriteShiny); err != nil {
		return nil, classify(err)
	}
	sp.Type2 = type2.String
	sp.EvolutionFamily = family.String
	if stats != "" {
		if err := json.Unmarshal([]byte(stats), &sp.BaseStats); err != nil {
			return nil, fmt.Errorf("store: species %s stats: %w", sp.Slug, err)
		}
	}
	return &sp, nil
}

// UpsertSpecies inserts or refreshes a catalog row keyed by tyradex id.
func (s *SQLStore) UpsertSpecies(ctx context.Context, sp *Species) error {
	stats, err := json.Marshal(sp.BaseStats)
	if err != nil {
		return err
	}
	var type2, family sql.NullString
	if sp.Type2 != "" {
		type2 = sql.NullString{String: sp.Type2, Valid: true}
	}
	if sp.EvolutionFamily != "" {
		family = sql.NullString{String: sp.EvolutionFamily, Valid: true}
	}
	now := unix(time.Now())
	err = s.queryRow(ctx, `INSERT INTO species (tyradex_id, slug, name_fr, name_en, type_1, type_2, generation,
  base_stats, evolution_family, sprite_regular, sprite_shiny, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(tyradex_id) DO UPDATE SET
  slug = excluded.slug,
  name_fr = excluded.name_fr,
  name_en = excluded.name_en,
  type_1 = excluded.type_1,
  type_2 = excluded.type_2,
  generation = excluded.generation,
  base_stats = excluded.base_stats,
  evolution_family = excluded.evolution_family,
  sprite_regular = excluded.sprite_regular,
  sprite_shiny = excluded.sprite_shiny,
  updated_at = excluded.updated_at
RETURNING id`,
		sp.TyradexID, sp.Slug, sp.NameFr, sp.NameEn, sp.Type1, type2, sp.Generation,
		string(stats), family, sp.SpriteRegular, sp.SpriteShiny, now, now,
	).Scan(&sp.ID)
	return classify(err)
}

func (s *SQLStore) ListSpecies(ctx context.Context) ([]Species, error) {
	rows, err := s.query(ctx, `SELECT `+speciesColumns+` FROM species ORDER BY tyradex_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Species{}
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sp)
	}
	return out, rows.Err()
}

func (s *SQLStore) SpeciesBySlug(ctx context.Context, slug string) (*Species, error) {
	return scanSpecies(s.queryRow(ctx, `SELECT `+speciesColumns+` FROM species WHERE slug = ?`, slug))
}

func (s *SQLStore) SpeciesByID(ctx context.Context, id int64) (*Species, error) {
	return scanSpecies(s.queryRow(ctx, `SELECT `+speciesColumns+` FROM species WHERE id = ?`, id))
}
