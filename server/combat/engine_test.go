package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeidle/server/gamedata"
	"pokeidle/server/inventory"
	"pokeidle/shared/game/types"
)

func newEngine(dex *mockDex) *Engine {
	return NewEngine(func() Dex { return dex }, fixedRNG(0))
}

func TestSpawnWildScalesWithDifficulty(t *testing.T) {
	dex := newMockDex()
	dex.zones[[2]int{1, 1}] = testZone()
	p := types.NewPlayer()
	p.CurrentStage = 3

	e := Spawn(dex, &p, fixedRNG(0.9))
	assert.Equal(t, "caterpie", e.Slug)
	assert.Equal(t, "Chenipan sauvage", e.NameFr)
	assert.Equal(t, "Wild Caterpie", e.NameEn)
	// round(25 * 2.5)
	assert.Equal(t, int64(63), e.MaxHP)
	assert.Equal(t, e.MaxHP, e.CurrentHP)
	assert.Equal(t, int64(15), e.GoldReward)
	assert.Equal(t, int64(9), e.XPReward)
	assert.Equal(t, 3, e.Level)
	assert.False(t, e.IsBoss)
	assert.Equal(t, "sprite/caterpie", e.SpriteURL)
}

func TestSpawnFallsBackToRattata(t *testing.T) {
	p := types.NewPlayer()
	e := Spawn(newMockDex(), &p, fixedRNG(0))
	assert.Equal(t, "rattata", e.Slug)
	assert.Equal(t, int64(45), e.MaxHP)
}

func TestSpawnBoss(t *testing.T) {
	dex := newMockDex()
	dex.zones[[2]int{1, 1}] = testZone()
	dex.types["geodude"] = types.TypeRock
	p := types.NewPlayer()
	p.CurrentStage = 10

	e := Spawn(dex, &p, fixedRNG(0))
	require.True(t, e.IsBoss)
	// round(50*12*2) + round(50*14*2)
	assert.Equal(t, int64(2600), e.MaxHP)
	assert.Equal(t, 14, e.Level)
	assert.Equal(t, int64(500), e.GoldReward)
	assert.Equal(t, int64(200), e.XPReward)
	assert.Equal(t, 30, e.BossTimerSeconds)
	assert.Equal(t, types.TypeRock, e.Type)
	assert.Equal(t, "trainer/brock", e.SpriteURL)
	assert.Equal(t, "Boss: Brock", e.NameEn)
}

func TestBattleClampsAndCounts(t *testing.T) {
	var b Battle
	assert.Zero(t, b.Click(5))
	b.SetEnemy(&Enemy{MaxHP: 10, CurrentHP: 10})
	assert.Equal(t, int64(4), b.Click(4))
	assert.InDelta(t, 60.0, b.HPPercent(), 0.001)
	assert.Equal(t, int64(6), b.AutoTick(100))
	assert.True(t, b.IsEnemyDead())
	assert.Zero(t, b.Click(1))
	assert.Equal(t, 1, b.TotalClicks)
	b.Kill()
	assert.Nil(t, b.Enemy)
	assert.Equal(t, 1, b.TotalKills)
	assert.Zero(t, b.HPPercent())
}

func TestResolveGrantsRewardsAndLevelsTeam(t *testing.T) {
	dex := newMockDex()
	dex.levelEvos["charmander"] = gamedata.Evolution{From: "charmander", To: "charmeleon", ToNameEn: "Charmeleon", Method: gamedata.MethodLevel, Level: 2}
	eng := newEngine(dex)

	p := types.NewPlayer()
	col := inventory.New(nil)
	char, _ := col.Add(inventory.Species{Slug: "charmander"})
	charID := char.ID
	col.Add(inventory.Species{Slug: "pidgey"})

	b := &Battle{}
	b.SetEnemy(&Enemy{MaxHP: 10, CurrentHP: 0, GoldReward: 25, XPReward: 200})
	out := eng.Resolve(&p, col, b)
	require.NotNil(t, out)

	assert.Equal(t, int64(25), p.Gold)
	assert.Equal(t, int64(200), p.XP)
	assert.Equal(t, 1, out.PlayerLevelUps)
	assert.Equal(t, 1, p.StageKills)
	assert.False(t, out.StageAdvanced)

	// 100 xp each: level 1 -> 2
	pk, err := col.Find(charID)
	require.NoError(t, err)
	assert.Equal(t, 2, pk.Level)
	assert.Equal(t, "charmeleon", pk.Slug)
	require.Len(t, out.Evolutions, 1)
	assert.Equal(t, "charmander", out.Evolutions[0].From)
	assert.Equal(t, 2, out.PokemonLevels[charID])
	assert.Nil(t, b.Enemy)
	assert.Equal(t, 1, b.TotalKills)
}

func TestResolveBossAwardsBadge(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	p.CurrentStage = 10
	b := &Battle{}
	b.SetEnemy(&Enemy{IsBoss: true, GoldReward: 500, XPReward: 1})

	out := eng.Resolve(&p, inventory.New(nil), b)
	assert.True(t, out.WasBoss)
	assert.True(t, out.StageAdvanced)
	assert.True(t, out.BadgeEarned)
	assert.Equal(t, 2, p.CurrentZone)
	assert.Equal(t, 1, p.CurrentStage)
	// floor(1 + 0.5 + 2)
	assert.Equal(t, int64(3), p.ClickDamage)
}

func TestResolveIgnoresLivingEnemy(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	b := &Battle{}
	b.SetEnemy(&Enemy{CurrentHP: 1})
	assert.Nil(t, eng.Resolve(&p, inventory.New(nil), b))
}

func TestTickFeedsDaycareAndHatches(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	p.Daycare = []types.DaycareSlot{{Slug: "eevee", Stars: 1, DamageDealt: 1_990, DamageRequired: 2_000}}
	col := inventory.New(nil)
	col.Add(inventory.Species{Slug: "pikachu"})
	col.Pokemons[0].Level = 20

	b := &Battle{}
	b.SetEnemy(&Enemy{MaxHP: 1000, CurrentHP: 1000, Type: types.TypeWater})
	res := eng.Tick(&p, col, b)

	assert.Equal(t, int64(20), res.Damage)
	assert.Equal(t, int64(980), b.Enemy.CurrentHP)
	require.Len(t, res.Hatched, 1)
	assert.True(t, res.Hatched[0].IsNew)
	assert.Equal(t, "eevee", res.Hatched[0].Pokemon.Slug)
	assert.Empty(t, p.Daycare)
	assert.Nil(t, res.Kill)
	assert.Equal(t, 2, col.Len())
}

func TestTickCreditsDaycareWithOverkill(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	p.Daycare = []types.DaycareSlot{{Slug: "eevee", Stars: 1, DamageRequired: 2_000}}
	col := inventory.New(nil)
	col.Add(inventory.Species{Slug: "pikachu"})
	col.Pokemons[0].Level = 100

	b := &Battle{}
	b.SetEnemy(&Enemy{MaxHP: 5, CurrentHP: 5, GoldReward: 1, XPReward: 1})
	res := eng.Tick(&p, col, b)

	assert.Equal(t, int64(5), res.Damage)
	require.NotNil(t, res.Kill)
	require.Len(t, p.Daycare, 1)
	assert.Equal(t, int64(100), p.Daycare[0].DamageDealt)
}

func TestTickKillsAndResolves(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	p.TeamDpsBonus = 5
	col := inventory.New(nil)
	col.Add(inventory.Species{Slug: "pikachu"})

	b := &Battle{}
	b.SetEnemy(&Enemy{MaxHP: 6, CurrentHP: 6, GoldReward: 5, XPReward: 3})
	res := eng.Tick(&p, col, b)
	assert.Equal(t, int64(6), res.Damage)
	require.NotNil(t, res.Kill)
	assert.Equal(t, int64(5), p.Gold)
}

func TestTickWithoutTeamDoesNothing(t *testing.T) {
	eng := newEngine(newMockDex())
	p := types.NewPlayer()
	p.TeamDpsBonus = 50
	b := &Battle{}
	b.SetEnemy(&Enemy{MaxHP: 6, CurrentHP: 6})
	res := eng.Tick(&p, inventory.New(nil), b)
	assert.Zero(t, res.Damage)
	assert.Equal(t, int64(6), b.Enemy.CurrentHP)
}
