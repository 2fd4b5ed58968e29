package game

import (
	"context"

	"github.com/google/uuid"

	"pokeidle/server/balance"
	"pokeidle/server/httpx"
	"pokeidle/server/species"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

func validateSave(r *protocol.SaveStateRequest) error {
	switch {
	case r.Gold < 0:
		return httpx.Invalid("gold", "must be >= 0")
	case r.Gems < 0:
		return httpx.Invalid("gems", "must be >= 0")
	case r.XP < 0:
		return httpx.Invalid("xp", "must be >= 0")
	case r.Level < 1:
		return httpx.Invalid("level", "must be >= 1")
	case r.CurrentGeneration < 1:
		return httpx.Invalid("currentGeneration", "must be >= 1")
	case r.CurrentZone < 1:
		return httpx.Invalid("currentZone", "must be >= 1")
	case r.CurrentStage < 1 || r.CurrentStage > balance.StagesPerZone:
		return httpx.Invalid("currentStage", "must be between 1 and %d", balance.StagesPerZone)
	case r.ClickDamage < 1:
		return httpx.Invalid("clickDamage", "must be >= 1")
	case r.Badges < 0:
		return httpx.Invalid("badges", "must be >= 0")
	}
	if r.Candies != nil {
		c := r.Candies
		if c.S < 0 || c.M < 0 || c.L < 0 || c.XL < 0 {
			return httpx.Invalid("candies", "counts must be >= 0")
		}
	}
	if r.Daycare != nil {
		slots := *r.Daycare
		if len(slots) > balance.MaxDaycareSlots {
			return httpx.Invalid("daycare", "at most %d slots", balance.MaxDaycareSlots)
		}
		seen := map[string]bool{}
		for _, s := range slots {
			if s.Slug == "" || seen[s.Slug] {
				return httpx.Invalid("daycare", "slugs must be set and unique")
			}
			if s.DamageDealt < 0 || s.DamageRequired < 0 {
				return httpx.Invalid("daycare", "damage must be >= 0")
			}
			seen[s.Slug] = true
		}
	}
	return nil
}

// buildCollection checks a client collection and resolves names through the
// catalog.
func (s *Service) buildCollection(ctx context.Context, in []protocol.SavedPokemon) ([]types.OwnedPokemon, error) {
	out := make([]types.OwnedPokemon, 0, len(in))
	slots := map[int]bool{}
	for _, sp := range in {
		switch {
		case sp.Level < 1 || sp.Level > balance.MaxPokemonLevel:
			return nil, httpx.Invalid("level", "must be between 1 and %d", balance.MaxPokemonLevel)
		case sp.Stars < 1 || sp.Stars > balance.MaxStars:
			return nil, httpx.Invalid("stars", "must be between 1 and %d", balance.MaxStars)
		case sp.XP < 0:
			return nil, httpx.Invalid("xp", "must be >= 0")
		case sp.Rarity != "" && !types.ValidRarity(sp.Rarity):
			return nil, httpx.Invalid("rarity", "unknown rarity %q", sp.Rarity)
		}
		if sp.TeamSlot != nil {
			n := *sp.TeamSlot
			if n < 1 || n > balance.MaxTeamSize {
				return nil, httpx.Invalid("teamSlot", "must be between 1 and %d", balance.MaxTeamSize)
			}
			if slots[n] {
				return nil, httpx.Invalid("teamSlot", "slot %d used twice", n)
			}
			slots[n] = true
		}
		row, err := s.catalog.ByID(ctx, sp.SpeciesID)
		if err != nil {
			if species.IsMissing(err) {
				return nil, httpx.Invalid("speciesId", "unknown species %d", sp.SpeciesID)
			}
			return nil, err
		}
		pk := types.OwnedPokemon{
			ID:        uuid.NewString(),
			SpeciesID: row.ID,
			Slug:      row.Slug,
			NameFr:    row.NameFr,
			NameEn:    row.NameEn,
			Level:     sp.Level,
			XP:        sp.XP,
			Stars:     sp.Stars,
			IsShiny:   sp.IsShiny,
			Rarity:    types.ParseRarity(sp.Rarity),
		}
		if sp.TeamSlot != nil {
			pk.TeamSlot = types.SlotPtr(*sp.TeamSlot)
		}
		out = append(out, pk)
	}
	return out, nil
}
