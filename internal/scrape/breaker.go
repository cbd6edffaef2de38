// internal/scrape/breaker.go
package scrape

import (
	"sync"
	"time"

	"sante-assist/internal/common/metrics"
)

// BreakerState models provider availability: closed means the live provider
// is trusted, open means requests go to the fallback, half-open lets one
// probe through after the cooldown.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "open"
	}
}

// Breaker is a minimal circuit breaker around the live scraping provider.
// Unlike a permanent fallback flag, recovery is representable: after
// Cooldown an open breaker admits a single probe.
type Breaker struct {
	mu       sync.Mutex
	state    BreakerState
	openedAt time.Time
	probing  bool
	cooldown time.Duration
	now      func() time.Time
}

func NewBreaker(cooldown time.Duration) *Breaker {
	return &Breaker{
		state:    BreakerClosed,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Allow reports whether the live provider may serve the next request.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = BreakerHalfOpen
			b.probing = true
			b.publish()
			return true
		}
		return false
	case BreakerHalfOpen:
		if !b.probing {
			b.probing = true
			return true
		}
		return false
	}
	return false
}

// RecordSuccess closes the breaker after a successful live request.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.probing = false
	b.publish()
}

// RecordFailure opens the breaker after a transport-level failure.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.probing = false
	b.publish()
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) publish() {
	var v float64
	switch b.state {
	case BreakerHalfOpen:
		v = 1
	case BreakerOpen:
		v = 2
	}
	metrics.BreakerState.WithLabelValues("live").Set(v)
}
