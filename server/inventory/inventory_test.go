package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeidle/shared/game/types"
)

func pikachu(shiny bool) Species {
	return Species{SpeciesID: 25, Slug: "pikachu", NameFr: "Pikachu", NameEn: "Pikachu", Rarity: types.RarityRare, IsShiny: shiny}
}

func TestAddNewFillsTeamThenBenches(t *testing.T) {
	c := New(nil)
	for i := 0; i < 7; i++ {
		pk, isNew := c.Add(Species{Slug: string(rune('a' + i))})
		require.True(t, isNew)
		assert.Equal(t, 1, pk.Level)
		assert.Equal(t, 1, pk.Stars)
		assert.NotEmpty(t, pk.ID)
		if i < 6 {
			require.NotNil(t, pk.TeamSlot)
			assert.Equal(t, i+1, *pk.TeamSlot)
		} else {
			assert.Nil(t, pk.TeamSlot)
		}
	}
	assert.Len(t, c.Team(), 6)
}

func TestAddDuplicateAddsStarUpToFive(t *testing.T) {
	c := New(nil)
	first, _ := c.Add(pikachu(false))
	id := first.ID
	for i := 0; i < 10; i++ {
		pk, isNew := c.Add(pikachu(false))
		assert.False(t, isNew)
		assert.Equal(t, id, pk.ID)
	}
	pk, err := c.Find(id)
	require.NoError(t, err)
	assert.Equal(t, 5, pk.Stars)

	// a shiny is its own entry
	shiny, isNew := c.Add(pikachu(true))
	assert.True(t, isNew)
	assert.NotEqual(t, id, shiny.ID)
	assert.Equal(t, 2, c.Len())
}

func TestSetTeamSlotSwapsOccupant(t *testing.T) {
	c := New(nil)
	a, _ := c.Add(Species{Slug: "a"})
	b, _ := c.Add(Species{Slug: "b"})
	aID, bID := a.ID, b.ID

	require.NoError(t, c.SetTeamSlot(bID, types.SlotPtr(1)))
	team := c.Team()
	require.Len(t, team, 2)
	assert.Equal(t, bID, team[0].ID)
	assert.Equal(t, aID, team[1].ID)
	assert.Equal(t, 2, team[1].Slot())
}

func TestSetTeamSlotFromBenchSendsOccupantToBench(t *testing.T) {
	c := New(nil)
	a, _ := c.Add(Species{Slug: "a"})
	aID := a.ID
	b, _ := c.Add(Species{Slug: "b"})
	bID := b.ID
	require.NoError(t, c.RemoveFromTeam(bID))

	require.NoError(t, c.SetTeamSlot(bID, types.SlotPtr(1)))
	pa, _ := c.Find(aID)
	assert.Nil(t, pa.TeamSlot)
	pb, _ := c.Find(bID)
	assert.Equal(t, 1, pb.Slot())
}

func TestSetTeamSlotRejectsBadInput(t *testing.T) {
	c := New(nil)
	a, _ := c.Add(Species{Slug: "a"})
	assert.ErrorIs(t, c.SetTeamSlot(a.ID, types.SlotPtr(0)), ErrInvalidSlot)
	assert.ErrorIs(t, c.SetTeamSlot(a.ID, types.SlotPtr(7)), ErrInvalidSlot)
	assert.ErrorIs(t, c.SetTeamSlot("nope", types.SlotPtr(1)), ErrNotFound)
	assert.ErrorIs(t, c.RemoveFromTeam("nope"), ErrNotFound)

	require.NoError(t, c.SetTeamSlot(a.ID, nil))
	assert.Empty(t, c.Team())
}

func TestTeamDPS(t *testing.T) {
	c := New([]types.OwnedPokemon{
		{ID: "1", Level: 10, Stars: 1, TeamSlot: types.SlotPtr(1)}, // 12.5 -> 12
		{ID: "2", Level: 4, Stars: 2, TeamSlot: types.SlotPtr(2)},  // 6
		{ID: "3", Level: 50, Stars: 5},                             // benched
	})
	assert.Equal(t, int64(18), c.TeamDPS())
}

func TestTeamCopyIsDetached(t *testing.T) {
	c := New(nil)
	c.Add(Species{Slug: "a"})
	cp := c.TeamCopy()
	require.Len(t, cp, 1)
	*cp[0].TeamSlot = 5
	cp[0].Level = 99
	assert.Equal(t, 1, c.Team()[0].Slot())
	assert.Equal(t, 1, c.Team()[0].Level)
}

func TestAddTakesFirstFreeSlot(t *testing.T) {
	c := New([]types.OwnedPokemon{
		{ID: "1", Slug: "a", TeamSlot: types.SlotPtr(1)},
		{ID: "2", Slug: "b", TeamSlot: types.SlotPtr(3)},
	})
	pk, _ := c.Add(Species{Slug: "c"})
	assert.Equal(t, 2, pk.Slot())
}
