package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeidle/shared/game/types"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, int64(0), XPForLevel(0))
	assert.Equal(t, int64(0), XPForLevel(1))
	assert.Equal(t, int64(174), XPForLevel(2))
	assert.Equal(t, int64(361), XPForLevel(3))
}

func TestAddXPLevelsUpAndRefreshesClickDamage(t *testing.T) {
	p := types.NewPlayer()
	p.Badges = 1
	p.ClickDamageBonus = 3

	ups := AddXP(&p, 200)
	require.Equal(t, 1, ups)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, int64(200), p.XP)
	// floor(1 + 2*0.5 + 1*2) + 3
	assert.Equal(t, int64(7), p.ClickDamage)

	ups = AddXP(&p, 1000)
	assert.GreaterOrEqual(t, ups, 2)
	assert.GreaterOrEqual(t, p.XP, XPForLevel(p.Level))
	assert.Less(t, p.XP, XPForLevel(p.Level+1))
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	p := types.NewPlayer()
	assert.Zero(t, AddXP(&p, 0))
	assert.Zero(t, AddXP(&p, -5))
	assert.Equal(t, int64(0), p.XP)
}

func TestStageKillsAdvanceAfterQuota(t *testing.T) {
	p := types.NewPlayer()
	for i := 0; i < 9; i++ {
		assert.False(t, AddStageKill(&p))
	}
	assert.Equal(t, 9, p.StageKills)
	assert.InDelta(t, 90.0, StageKillsPercent(&p), 1e-9)
	assert.True(t, AddStageKill(&p))
	assert.Equal(t, 2, p.CurrentStage)
	assert.Equal(t, 0, p.StageKills)
}

func TestAdvanceStageRollsZoneAndAwardsBadge(t *testing.T) {
	p := types.NewPlayer()
	p.CurrentStage = 9
	assert.False(t, AdvanceStage(&p))
	assert.True(t, IsBossStage(&p))

	assert.True(t, AdvanceStage(&p))
	assert.Equal(t, 1, p.CurrentStage)
	assert.Equal(t, 2, p.CurrentZone)
	assert.Equal(t, 1, p.Badges)
	assert.Equal(t, 11, Difficulty(&p))
}

func TestRetreatStageStopsAtOne(t *testing.T) {
	p := types.NewPlayer()
	p.CurrentStage = 10
	p.StageKills = 4
	RetreatStage(&p)
	assert.Equal(t, 9, p.CurrentStage)
	assert.Equal(t, 0, p.StageKills)

	p.CurrentStage = 1
	RetreatStage(&p)
	assert.Equal(t, 1, p.CurrentStage)
}

func TestStageLabel(t *testing.T) {
	p := types.NewPlayer()
	p.CurrentStage = 3
	assert.Equal(t, "Kanto - Zone 1 - Stage 3/10", StageLabel(&p))
	p.CurrentGeneration = 42
	assert.Equal(t, "??? - Zone 1 - Stage 3/10", StageLabel(&p))
}

func TestLevelProgress(t *testing.T) {
	p := types.NewPlayer()
	assert.Equal(t, float64(0), LevelProgress(&p))
	p.XP = 87
	assert.InDelta(t, 50.0, LevelProgress(&p), 0.5)
}

func TestPokemonXP(t *testing.T) {
	assert.Equal(t, int64(0), PokemonXPForLevel(1))
	assert.Equal(t, int64(60), PokemonXPForLevel(2))
	assert.Equal(t, int64(115), PokemonXPForLevel(3))

	pk := types.OwnedPokemon{Level: 1}
	assert.Equal(t, 2, AddPokemonXP(&pk, 120))
	assert.Equal(t, 3, pk.Level)

	capped := types.OwnedPokemon{Level: 100}
	assert.Equal(t, 0, AddPokemonXP(&capped, 1_000_000))
	assert.Equal(t, 100, capped.Level)
}
