package srv

import (
	"math"
	"time"

	"pokeidle/server/balance"
)

const (
	clickRate  = float64(balance.ClickRateHz)
	clickBurst = float64(balance.ClickRateBurst)
)

// tokenBucket limits clicks on one connection. It starts full.
type tokenBucket struct {
	tokens float64
	last   time.Time
}

func (b *tokenBucket) allow(now time.Time, rateHz, burst float64) bool {
	if b.last.IsZero() {
		b.last = now
		b.tokens = burst
	}

	dt := now.Sub(b.last).Seconds()
	b.tokens = math.Min(burst, b.tokens+max(0, dt)*rateHz)
	b.last = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}
	return false
}
