package afk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNeedsHistoryTimeAndTeam(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, Compute(now, nil, 10, 1))

	recent := now.Add(-4 * time.Minute)
	assert.Nil(t, Compute(now, &recent, 10, 1))

	long := now.Add(-time.Hour)
	assert.Nil(t, Compute(now, &long, 0, 1))
}

func TestComputeOneHour(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)
	r := Compute(now, &last, 10, 3)
	require.NotNil(t, r)
	// 10*3600/50 = 720 enemies, 720*5*3 gold
	assert.Equal(t, 1.0, r.HoursAway)
	assert.Equal(t, int64(720), r.EnemiesDefeated)
	assert.Equal(t, int64(10_800), r.GoldEarned)
}

func TestComputeCapsAtOneDay(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-72 * time.Hour)
	r := Compute(now, &last, 1, 1)
	require.NotNil(t, r)
	assert.Equal(t, 24.0, r.HoursAway)
	assert.Equal(t, int64(72*24), r.EnemiesDefeated)
}

func TestComputeAtThreshold(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)
	require.NotNil(t, Compute(now, &last, 5, 1))

	last = now.Add(-6 * time.Minute)
	r := Compute(now, &last, 5, 1)
	require.NotNil(t, r)
	// 360 per hour over a tenth of an hour
	assert.Equal(t, int64(36), r.EnemiesDefeated)
}
