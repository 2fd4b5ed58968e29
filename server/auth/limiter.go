package auth

import (
	"sync"
	"time"
)

const (
	loginMaxAttempts = 8
	loginWindow      = 60 * time.Second
	loginBlock       = 2 * time.Minute
)

type attempts struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// Limiter throttles failed logins per peer. A peer gets loginMaxAttempts
// failures per window and is then blocked for loginBlock.
type Limiter struct {
	mu    sync.Mutex
	peers map[string]*attempts
	now   func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{peers: make(map[string]*attempts), now: time.Now}
}

// Allow reports whether peer may try to log in, and if not, for how long
// it stays blocked.
func (l *Limiter) Allow(peer string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.peers[peer]
	if !ok {
		return true, 0
	}
	now := l.now()
	if now.Before(a.blockedUntil) {
		return false, a.blockedUntil.Sub(now)
	}
	return true, 0
}

func (l *Limiter) Fail(peer string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	a, ok := l.peers[peer]
	if !ok || now.Sub(a.windowStart) > loginWindow {
		a = &attempts{windowStart: now}
		l.peers[peer] = a
	}
	a.count++
	if a.count >= loginMaxAttempts {
		a.blockedUntil = now.Add(loginBlock)
		a.count = 0
		a.windowStart = a.blockedUntil
	}
}

func (l *Limiter) Reset(peer string) {
	l.mu.Lock()
	delete(l.peers, peer)
	l.mu.Unlock()
}

// Sweep drops peers that are neither blocked nor inside a window.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, a := range l.peers {
		if now.After(a.blockedUntil) && now.Sub(a.windowStart) > loginWindow {
			delete(l.peers, k)
		}
	}
}
