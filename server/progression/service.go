package progression

import (
	"fmt"
	"math"

	"pokeidle/server/balance"
	"pokeidle/shared/game/types"
)

// XPForLevel is the cumulative player XP needed to reach level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Floor(50 * math.Pow(float64(level), 1.8)))
}

// LevelProgress returns the percentage (0..100) of the way to the next level.
func LevelProgress(p *types.Player) float64 {
	needed := XPForLevel(p.Level + 1)
	prev := XPForLevel(p.Level)
	span := needed - prev
	if span <= 0 {
		return 0
	}
	pct := float64(p.XP-prev) / float64(span) * 100
	return math.Min(100, math.Max(0, pct))
}

// AddXP credits player XP, applies every level crossed and refreshes click
// damage. It returns how many levels were gained.
func AddXP(p *types.Player, amount int64) int {
	if amount <= 0 {
		return 0
	}
	p.XP += amount
	ups := 0
	for p.XP >= XPForLevel(p.Level+1) {
		p.Level++
		ups++
	}
	RecomputeClickDamage(p)
	return ups
}

func RecomputeClickDamage(p *types.Player) {
	p.ClickDamage = int64(math.Floor(1+float64(p.Level)*0.5+float64(p.Badges)*2)) + p.ClickDamageBonus
}

// AddStageKill counts a non-boss kill and advances the stage once the quota
// is met.
func AddStageKill(p *types.Player) bool {
	p.StageKills++
	if p.StageKills >= balance.KillsPerStage {
		p.StageKills = 0
		AdvanceStage(p)
		return true
	}
	return false
}

// AdvanceStage moves one stage forward. Clearing the last stage of a zone
// opens the next zone and awards a badge; it reports whether that happened.
func AdvanceStage(p *types.Player) (badge bool) {
	if p.CurrentStage < balance.StagesPerZone {
		p.CurrentStage++
	} else {
		p.CurrentStage = 1
		p.CurrentZone++
		p.Badges++
		badge = true
	}
	p.StageKills = 0
	return badge
}

func RetreatStage(p *types.Player) {
	if p.CurrentStage > 1 {
		p.CurrentStage--
	}
	p.StageKills = 0
}

func IsBossStage(p *types.Player) bool {
	return p.CurrentStage == balance.StagesPerZone
}

// Difficulty scales enemy HP and rewards across zones.
func Difficulty(p *types.Player) int {
	return (p.CurrentZone-1)*balance.StagesPerZone + p.CurrentStage
}

func StageLabel(p *types.Player) string {
	region := types.GenerationName(p.CurrentGeneration)
	if region == "Unknown" {
		region = "???"
	}
	return fmt.Sprintf("%s - Zone %d - Stage %d/%d", region, p.CurrentZone, p.CurrentStage, balance.StagesPerZone)
}

// StageKillsPercent is the kill quota progress of the current stage.
func StageKillsPercent(p *types.Player) float64 {
	return math.Min(100, float64(p.StageKills)/balance.KillsPerStage*100)
}
