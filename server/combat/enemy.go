package combat

import (
	"math"

	"pokeidle/server/gacha"
	"pokeidle/server/gamedata"
	"pokeidle/server/progression"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

type Enemy struct {
	NameFr           string
	NameEn           string
	Slug             string
	Type             types.PokemonType
	SpriteURL        string
	MaxHP            int64
	CurrentHP        int64
	Level            int
	GoldReward       int64
	XPReward         int64
	IsBoss           bool
	BossTimerSeconds int
}

func (e *Enemy) View() protocol.EnemyView {
	return protocol.EnemyView{
		NameFr:           e.NameFr,
		NameEn:           e.NameEn,
		Slug:             e.Slug,
		Type:             e.Type,
		SpriteURL:        e.SpriteURL,
		MaxHP:            e.MaxHP,
		CurrentHP:        e.CurrentHP,
		Level:            e.Level,
		GoldReward:       e.GoldReward,
		XPReward:         e.XPReward,
		IsBoss:           e.IsBoss,
		BossTimerSeconds: e.BossTimerSeconds,
	}
}

var fallbackWild = gamedata.WildPokemon{Slug: "rattata", NameFr: "Rattata", NameEn: "Rattata", BaseHP: 30, BaseAtk: 6}

// Spawn picks the next enemy for the player's stage: the zone boss on the
// boss stage, a random wild Pokémon otherwise.
func Spawn(dex Dex, p *types.Player, rng gacha.RandomSource) *Enemy {
	difficulty := progression.Difficulty(p)
	zone, ok := dex.Zone(p.CurrentGeneration, p.CurrentZone)
	if ok && progression.IsBossStage(p) && len(zone.Boss.Team) > 0 {
		return spawnBoss(dex, &zone.Boss, difficulty)
	}
	wild := fallbackWild
	if ok && len(zone.Wild) > 0 {
		wild = zone.Wild[gacha.IntN(rng, len(zone.Wild))]
	}
	return spawnWild(dex, wild, difficulty)
}

func spawnWild(dex Dex, w gamedata.WildPokemon, difficulty int) *Enemy {
	hp := int64(math.Round(float64(w.BaseHP) * (1 + float64(difficulty)*0.5)))
	return &Enemy{
		NameFr:     w.NameFr + " sauvage",
		NameEn:     "Wild " + w.NameEn,
		Slug:       w.Slug,
		Type:       dex.TypeOf(w.Slug),
		SpriteURL:  dex.SpriteURL(w.Slug),
		MaxHP:      hp,
		CurrentHP:  hp,
		Level:      difficulty,
		GoldReward: int64(5 * difficulty),
		XPReward:   int64(3 * difficulty),
	}
}

func spawnBoss(dex Dex, b *gamedata.Boss, difficulty int) *Enemy {
	var hp int64
	level := 0
	for _, pk := range b.Team {
		hp += int64(math.Round(50 * float64(pk.Level) * (1 + float64(difficulty)*0.1)))
		level = max(level, pk.Level)
	}
	return &Enemy{
		NameFr:           "Boss : " + b.NameFr,
		NameEn:           "Boss: " + b.NameEn,
		Slug:             b.Slug,
		Type:             dex.TypeOf(b.Team[0].Slug),
		SpriteURL:        dex.TrainerSpriteURL(b.Slug),
		MaxHP:            hp,
		CurrentHP:        hp,
		Level:            level,
		GoldReward:       int64(50 * difficulty),
		XPReward:         int64(20 * difficulty),
		IsBoss:           true,
		BossTimerSeconds: b.TimerSeconds,
	}
}
