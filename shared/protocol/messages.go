package protocol

import "pokeidle/shared/game/types"

// ================= C -> S =================

// Click is one tap on the current enemy.
type Click struct {
	ClientTs int64 `json:"clientTs,omitempty"`
}

// Pause stops the combat clock while the page is hidden.
type Pause struct{}

// Resume restarts the clock and respawns if the enemy was lost.
type Resume struct{}

// Sync asks for a fresh PlayerSynced.
type Sync struct{}

// ================= S -> C =================

type EnemyView struct {
	NameFr           string            `json:"nameFr"`
	NameEn           string            `json:"nameEn"`
	Slug             string            `json:"slug"`
	Type             types.PokemonType `json:"type"`
	SpriteURL        string            `json:"spriteUrl"`
	MaxHP            int64             `json:"maxHp"`
	CurrentHP        int64             `json:"currentHp"`
	Level            int               `json:"level"`
	GoldReward       int64             `json:"goldReward"`
	XPReward         int64             `json:"xpReward"`
	IsBoss           bool              `json:"isBoss"`
	BossTimerSeconds int               `json:"bossTimerSeconds,omitempty"`
	BossDeadlineMs   int64             `json:"bossDeadlineMs,omitempty"`
}

type Hello struct {
	SessionID int64                `json:"sessionId"`
	Player    PlayerView           `json:"player"`
	Team      []types.OwnedPokemon `json:"team"`
	Enemy     *EnemyView           `json:"enemy"`
	State     string               `json:"state"`
}

type EnemySpawned struct {
	Enemy EnemyView `json:"enemy"`
}

type EnemyHP struct {
	CurrentHP int64   `json:"currentHp"`
	MaxHP     int64   `json:"maxHp"`
	Percent   float64 `json:"percent"`
	Damage    int64   `json:"damage"`
	Source    string  `json:"source"`
}

type EnemyDefeated struct {
	Gold          int64            `json:"gold"`
	XP            int64            `json:"xp"`
	WasBoss       bool             `json:"wasBoss"`
	PlayerLevelUp int              `json:"playerLevelUps"`
	PokemonLevels map[string]int   `json:"pokemonLevelUps,omitempty"`
	Evolutions    []EvolutionEvent `json:"evolutions,omitempty"`
	StageAdvanced bool             `json:"stageAdvanced"`
	BadgeEarned   bool             `json:"badgeEarned"`
	TotalKills    int              `json:"totalKills"`
}

// Hatched reports daycare eggs that hatched during a tick.
type Hatched struct {
	Pokemon []HatchEvent `json:"pokemon"`
}

type BossTimeout struct {
	Stage int `json:"stage"`
}

type PlayerSynced struct {
	Player PlayerView `json:"player"`
}

type StateChanged struct {
	State string `json:"state"`
}
