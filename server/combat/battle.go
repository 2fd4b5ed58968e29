package combat

// Battle is the enemy currently being fought plus running counters.
type Battle struct {
	Enemy       *Enemy
	TotalClicks int
	TotalKills  int
}

func (b *Battle) SetEnemy(e *Enemy) { b.Enemy = e }

func (b *Battle) alive() bool { return b.Enemy != nil && b.Enemy.CurrentHP > 0 }

// Click applies click damage and returns how much HP was removed.
func (b *Battle) Click(dmg int64) int64 {
	if !b.alive() || dmg <= 0 {
		return 0
	}
	b.TotalClicks++
	return b.hit(dmg)
}

// AutoTick applies team damage and returns how much HP was removed.
func (b *Battle) AutoTick(dmg int64) int64 {
	if !b.alive() || dmg <= 0 {
		return 0
	}
	return b.hit(dmg)
}

func (b *Battle) hit(dmg int64) int64 {
	dealt := min(dmg, b.Enemy.CurrentHP)
	b.Enemy.CurrentHP -= dealt
	return dealt
}

func (b *Battle) IsEnemyDead() bool { return b.Enemy != nil && b.Enemy.CurrentHP <= 0 }

func (b *Battle) Kill() {
	b.TotalKills++
	b.Enemy = nil
}

func (b *Battle) HPPercent() float64 {
	if b.Enemy == nil || b.Enemy.MaxHP <= 0 {
		return 0
	}
	return float64(b.Enemy.CurrentHP) / float64(b.Enemy.MaxHP) * 100
}
