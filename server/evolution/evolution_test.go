package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeidle/server/gamedata"
	"pokeidle/shared/game/types"
)

func rules(t *testing.T) *Rules {
	t.Helper()
	d, err := gamedata.Load("")
	require.NoError(t, err)
	return NewRules(d)
}

func TestCanEvolveByLevel(t *testing.T) {
	r := rules(t)
	_, ok := r.CanEvolveByLevel("bulbasaur", 15)
	assert.False(t, ok)
	e, ok := r.CanEvolveByLevel("bulbasaur", 16)
	require.True(t, ok)
	assert.Equal(t, "ivysaur", e.To)

	// stone-only evolutions never trigger on level
	_, ok = r.CanEvolveByLevel("eevee", 100)
	assert.False(t, ok)
}

func TestEvolutionsFor(t *testing.T) {
	r := rules(t)
	var targets []string
	for _, e := range r.EvolutionsFor("eevee") {
		assert.Equal(t, "eevee", e.From)
		targets = append(targets, e.To)
	}
	assert.Equal(t, []string{"vaporeon", "jolteon", "flareon", "espeon", "umbreon"}, targets)
	assert.Empty(t, r.EvolutionsFor("mewtwo"))
}

func TestCanEvolveByItem(t *testing.T) {
	r := rules(t)
	e, ok := r.CanEvolveByItem("eevee", "thunder-stone")
	require.True(t, ok)
	assert.Equal(t, "jolteon", e.To)

	e, ok = r.CanEvolveByItem("kadabra", "link-cable")
	require.True(t, ok)
	assert.Equal(t, gamedata.MethodTrade, e.Method)

	_, ok = r.CanEvolveByItem("bulbasaur", "leaf-stone")
	assert.False(t, ok)
}

func TestStageAndMultiplier(t *testing.T) {
	r := rules(t)
	assert.Equal(t, 0, r.Stage("charmander"))
	assert.Equal(t, 1, r.Stage("charmeleon"))
	assert.Equal(t, 2, r.Stage("charizard"))
	assert.Equal(t, 2, r.Stage("vileplume"))
	assert.Equal(t, 0, r.Stage("unknown-slug"))

	assert.Equal(t, 1.0, r.StageMult("charmander"))
	assert.Equal(t, 1.2, r.StageMult("charmeleon"))
	assert.Equal(t, 1.4, r.StageMult("charizard"))
}

func TestItemApplicable(t *testing.T) {
	r := rules(t)
	assert.True(t, r.ItemApplicable("fire-stone", "eevee"))
	assert.False(t, r.ItemApplicable("fire-stone", "pikachu"))
	assert.False(t, r.ItemApplicable("rare-candy", "eevee"))
}

func TestApplyKeepsProgress(t *testing.T) {
	r := rules(t)
	pk := types.OwnedPokemon{ID: "x", SpeciesID: 4, Slug: "charmander", Level: 20, XP: 900, Stars: 3, IsShiny: true, TeamSlot: types.SlotPtr(2)}
	e, ok := r.CanEvolveByLevel(pk.Slug, pk.Level)
	require.True(t, ok)
	Apply(&pk, e)

	assert.Equal(t, "charmeleon", pk.Slug)
	assert.Equal(t, "Reptincel", pk.NameFr)
	assert.Equal(t, "Charmeleon", pk.NameEn)
	assert.Equal(t, 20, pk.Level)
	assert.Equal(t, int64(900), pk.XP)
	assert.Equal(t, 3, pk.Stars)
	assert.True(t, pk.IsShiny)
	assert.Equal(t, 2, pk.Slot())
}
