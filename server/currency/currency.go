package currency

import (
	"fmt"
	"sync"
	"time"

	"pokeidle/shared/game/types"
)

type Kind string

const (
	Gold Kind = "gold"
	Gems Kind = "gems"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Gold, Gems:
		return Kind(s), nil
	case "":
		return Gold, nil
	}
	return "", &Error{Code: CodeInvalidCurrency, Message: fmt.Sprintf("unknown currency %q", s)}
}

// Error codes.
const (
	CodeInvalidCurrency   = "INVALID_CURRENCY"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeDuplicateNonce    = "DUPLICATE_NONCE"
)

// Error represents a currency-related error
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func balance(p *types.Player, k Kind) *int64 {
	if k == Gems {
		return &p.Gems
	}
	return &p.Gold
}

// Grant adds amount of k to the player.
func Grant(p *types.Player, k Kind, amount int64) error {
	if amount <= 0 {
		return &Error{Code: CodeInvalidAmount, Message: "Amount must be > 0"}
	}
	*balance(p, k) += amount
	return nil
}

// Spend removes amount of k, leaving the balance untouched on failure.
func Spend(p *types.Player, k Kind, amount int64) error {
	if amount <= 0 {
		return &Error{Code: CodeInvalidAmount, Message: "Amount must be > 0"}
	}
	b := balance(p, k)
	if *b < amount {
		return &Error{Code: CodeInsufficientFunds, Message: fmt.Sprintf("Not enough %s", k)}
	}
	*b -= amount
	return nil
}

// Ledger remembers spend nonces so a replayed request is not charged twice.
type Ledger struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewLedger(ttl time.Duration) *Ledger {
	return &Ledger{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// Claim marks nonce as used. An empty nonce is always accepted.
func (l *Ledger) Claim(userID int64, nonce string) error {
	if nonce == "" {
		return nil
	}
	key := fmt.Sprintf("%d:%s", userID, nonce)
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if at, ok := l.seen[key]; ok && now.Sub(at) < l.ttl {
		return &Error{Code: CodeDuplicateNonce, Message: "Request already processed"}
	}
	l.seen[key] = now
	return nil
}

// Release forgets a nonce whose spend did not go through.
func (l *Ledger) Release(userID int64, nonce string) {
	if nonce == "" {
		return
	}
	l.mu.Lock()
	delete(l.seen, fmt.Sprintf("%d:%s", userID, nonce))
	l.mu.Unlock()
}

// Sweep drops expired nonces and returns how many were removed.
func (l *Ledger) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, at := range l.seen {
		if now.Sub(at) >= l.ttl {
			delete(l.seen, k)
			n++
		}
	}
	return n
}
