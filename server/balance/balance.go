package balance

import "time"

const (
	StagesPerZone = 10
	KillsPerStage = 10

	MaxTeamSize     = 6
	MaxStars        = 5
	MaxPokemonLevel = 100

	// Shiny Pokémon hit 20% harder on top of their star table.
	ShinyDpsMult = 1.2

	AfkMinMinutes           = 5
	AfkCapHours             = 24
	AfkHpPerEnemy           = 50
	AfkGoldPerEnemyPerLevel = 5

	MaxDaycareSlots   = 5
	DaycareCost       = 500
	FiveStarShinyOdds = 50

	ClickRateHz    = 20
	ClickRateBurst = 30

	ClickUpgradeBaseGold = 50
	DpsUpgradeBaseGold   = 100
	UpgradeCostExponent  = 1.5

	RespawnDelay     = 400 * time.Millisecond
	BossRetreatDelay = time.Second
)

// HatchDamage is the team damage a daycare slot needs, by stars.
var HatchDamage = map[int]int64{
	1: 2_000,
	2: 6_000,
	3: 20_000,
	4: 60_000,
	5: 200_000,
}
