package contextres

import (
	"sync"
	"time"
)

const (
	defaultMaxFailures = 3
	defaultCooldown    = 30 * time.Second
)

// Breaker trips after a run of consecutive backend failures and rejects
// calls for a cooldown period. After the cooldown a single trial call is let
// through; its outcome decides whether the breaker closes again.
// Safe for concurrent use.
type Breaker struct {
	maxFailures int
	cooldown    time.Duration

	mu              sync.Mutex
	consecutiveFail int
	openedAt        time.Time
	open            bool
}

// NewBreaker creates a [Breaker]. Zero or negative arguments are replaced
// with the defaults (3 failures, 30s cooldown).
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &Breaker{maxFailures: maxFailures, cooldown: cooldown}
}

// Allow reports whether a call may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if time.Since(b.openedAt) >= b.cooldown {
		// Trial call. The breaker stays open until Success closes it; a
		// failed trial pushes the next trial another cooldown away.
		b.openedAt = time.Now()
		return true
	}
	return false
}

// Success records a successful call and closes the breaker.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFail = 0
	b.open = false
}

// Failure records a failed call, tripping the breaker once the consecutive
// failure count reaches the threshold.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFail++
	if b.consecutiveFail >= b.maxFailures {
		b.open = true
		b.openedAt = time.Now()
	}
}
