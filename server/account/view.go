package account

import (
	"maps"
	"slices"
	"time"

	"pokeidle/server/progression"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

// View snapshots the player for the wire. It copies every collection so
// the result may be used after the account lock is released.
func (s *State) View() protocol.PlayerView {
	p := s.User.Player
	p.Daycare = slices.Clone(p.Daycare)
	if p.Daycare == nil {
		p.Daycare = []types.DaycareSlot{}
	}
	p.Items = maps.Clone(p.Items)
	if p.Items == nil {
		p.Items = map[string]int{}
	}
	var last *time.Time
	if s.User.LastLoginAt != nil {
		t := *s.User.LastLoginAt
		last = &t
	}
	v := protocol.PlayerView{
		ID:            s.User.ID,
		Username:      s.User.Username,
		Player:        p,
		RegionName:    types.GenerationName(p.CurrentGeneration),
		StageLabel:    progression.StageLabel(&p),
		StageProgress: progression.StageKillsPercent(&p),
		XPToNext:      progression.XPForLevel(p.Level + 1),
		IsBossStage:   progression.IsBossStage(&p),
		LastLoginAt:   last,
	}
	if s.Collection != nil {
		v.DexCaught = len(s.Collection.UniqueSlugs())
	}
	return v
}

// PokemonsCopy returns a detached copy of the whole collection.
func (s *State) PokemonsCopy() []types.OwnedPokemon {
	out := make([]types.OwnedPokemon, len(s.Collection.Pokemons))
	for i, pk := range s.Collection.Pokemons {
		if pk.TeamSlot != nil {
			pk.TeamSlot = types.SlotPtr(*pk.TeamSlot)
		}
		out[i] = pk
	}
	return out
}
