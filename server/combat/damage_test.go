package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pokeidle/shared/game/types"
)

func TestPokeDPSBreakdown(t *testing.T) {
	dex := newMockDex()
	dex.stage["charizard"] = 1.4
	dex.rarity["charizard"] = 1.5
	dex.types["charizard"] = types.TypeFire
	dex.eff[[2]types.PokemonType{types.TypeFire, types.TypeGrass}] = 2
	dex.eff[[2]types.PokemonType{types.TypeFire, types.TypeWater}] = 0.5

	pk := &types.OwnedPokemon{Slug: "charizard", Level: 50, Stars: 3, IsShiny: true}

	d := PokeDPS(dex, pk, types.TypeGrass)
	// floor(50 * 1.4 * 1.5 * 1.2 * 2) = 252
	assert.Equal(t, int64(252), d.Permanent)
	assert.Equal(t, int64(504), d.Effective)
	assert.Equal(t, 2.0, d.StarMult)
	assert.Equal(t, 1.2, d.ShinyMult)

	d = PokeDPS(dex, pk, types.TypeWater)
	assert.Equal(t, int64(126), d.Effective)

	d = PokeDPS(dex, pk, "")
	assert.Equal(t, 1.0, d.TypeMult)
	assert.Equal(t, d.Permanent, d.Effective)
}

func TestPokeDPSImmunityZeroes(t *testing.T) {
	dex := newMockDex()
	dex.eff[[2]types.PokemonType{types.TypeNormal, types.TypeGhost}] = 0
	pk := &types.OwnedPokemon{Slug: "rattata", Level: 30, Stars: 1}
	assert.Equal(t, int64(0), PokeDPS(dex, pk, types.TypeGhost).Effective)
}

func TestTeamDPSAddsBonusOnlyWithTeam(t *testing.T) {
	dex := newMockDex()
	assert.Zero(t, TeamDPS(dex, nil, types.TypeFire, 10))

	team := []*types.OwnedPokemon{
		{Slug: "a", Level: 10, Stars: 1},
		{Slug: "b", Level: 5, Stars: 5}, // floor(5*1.5)=7
	}
	assert.Equal(t, int64(10+7+3), TeamDPS(dex, team, types.TypeFire, 3))
}
