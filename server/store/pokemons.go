package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pokeidle/shared/game/types"
)

// ListPokemons returns a user's collection, preferring catalog names when
// the species row is known.
func (s *SQLStore) ListPokemons(ctx context.Context, userID int64) ([]types.OwnedPokemon, error) {
	rows, err := s.query(ctx, `SELECT up.id, up.species_id, up.slug,
  COALESCE(sp.name_fr, up.name_fr), COALESCE(sp.name_en, up.name_en),
  up.rarity, up.xp, up.level, up.is_shiny, up.stars, up.team_slot
FROM user_pokemons up
LEFT JOIN species sp ON sp.id = up.species_id
WHERE up.user_id = ?
ORDER BY up.created_at, up.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.OwnedPokemon{}
	for rows.Next() {
		var (
			pk        types.OwnedPokemon
			speciesID sql.NullInt64
			rarity    string
			slot      sql.NullInt64
		)
		if err := rows.Scan(&pk.ID, &speciesID, &pk.Slug, &pk.NameFr, &pk.NameEn,
			&rarity, &pk.XP, &pk.Level, &pk.IsShiny, &pk.Stars, &slot); err != nil {
			return nil, err
		}
		pk.SpeciesID = speciesID.Int64
		pk.Rarity = types.ParseRarity(rarity)
		if slot.Valid {
			pk.TeamSlot = types.SlotPtr(int(slot.Int64))
		}
		out = append(out, pk)
	}
	return out, rows.Err()
}

// ReplacePokemons swaps a user's whole collection in one transaction.
func (s *SQLStore) ReplacePokemons(ctx context.Context, userID int64, list []types.OwnedPokemon) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM user_pokemons WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("store: clear pokemons: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(`INSERT INTO user_pokemons
  (id, user_id, species_id, slug, name_fr, name_en, rarity, xp, level, is_shiny, stars, team_slot, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	// created_at keeps insertion order stable across saves
	base := time.Now().UTC().Unix()
	for i := range list {
		pk := &list[i]
		var speciesID sql.NullInt64
		if pk.SpeciesID > 0 {
			speciesID = sql.NullInt64{Int64: pk.SpeciesID, Valid: true}
		}
		var slot sql.NullInt64
		if pk.TeamSlot != nil {
			slot = sql.NullInt64{Int64: int64(*pk.TeamSlot), Valid: true}
		}
		ts := base + int64(i)
		if _, err := stmt.ExecContext(ctx, pk.ID, userID, speciesID, pk.Slug, pk.NameFr, pk.NameEn,
			pk.Rarity.String(), pk.XP, pk.Level, pk.IsShiny, pk.Stars, slot, ts, ts); err != nil {
			return fmt.Errorf("store: insert pokemon %s: %w", pk.ID, classify(err))
		}
	}
	return tx.Commit()
}
