package afk

import (
	"math"
	"time"

	"pokeidle/server/balance"
	"pokeidle/shared/protocol"
)

// Compute returns the offline reward for the time since lastLogin, or nil
// when none is due.
func Compute(now time.Time, lastLogin *time.Time, teamDPS int64, playerLevel int) *protocol.AfkReward {
	if lastLogin == nil || teamDPS <= 0 {
		return nil
	}
	away := now.Sub(*lastLogin)
	if away < balance.AfkMinMinutes*time.Minute {
		return nil
	}
	hours := math.Min(away.Hours(), balance.AfkCapHours)
	enemiesPerHour := float64(teamDPS) * 3600 / balance.AfkHpPerEnemy
	enemies := int64(math.Floor(enemiesPerHour * hours))
	gold := int64(math.Floor(float64(enemies) * balance.AfkGoldPerEnemyPerLevel * float64(playerLevel)))
	return &protocol.AfkReward{
		HoursAway:       hours,
		GoldEarned:      gold,
		EnemiesDefeated: enemies,
	}
}
