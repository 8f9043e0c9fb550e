// Package lockout throttles console logins: after a number of consecutive
// failures an identity is refused for a while, without consulting the
// credential store at all.
package lockout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
)

const (
	DefaultMaxAttempts     = 3
	DefaultLockoutDuration = 15 * time.Minute
)

type record struct {
	failures    int
	lockedUntil time.Time
}

// Tracker counts consecutive failures per identity. Identities are compared
// case-insensitively, matching how usernames are looked up. It is safe for
// concurrent use.
type Tracker struct {
	maxAttempts int
	duration    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	attempts map[string]*record
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New returns a Tracker that locks an identity for duration after
// maxAttempts consecutive failures. maxAttempts <= 0 disables locking.
func New(maxAttempts int, duration time.Duration, opts ...Option) *Tracker {
	t := &Tracker{
		maxAttempts: maxAttempts,
		duration:    duration,
		now:         time.Now,
		attempts:    make(map[string]*record),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func key(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Check returns an error wrapping common.ErrLockedOut while identity is
// locked. An expired lock is cleared together with its failure count.
func (t *Tracker) Check(identity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.attempts[key(identity)]
	if !ok || r.lockedUntil.IsZero() {
		return nil
	}
	now := t.now()
	if now.Before(r.lockedUntil) {
		return fmt.Errorf("%w: try again in %s", common.ErrLockedOut,
			r.lockedUntil.Sub(now).Round(time.Second))
	}
	delete(t.attempts, key(identity))
	return nil
}

// Failure counts a failed attempt and reports whether it locked identity.
func (t *Tracker) Failure(identity string) bool {
	if t.maxAttempts <= 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	k := key(identity)
	r, ok := t.attempts[k]
	if !ok {
		r = &record{}
		t.attempts[k] = r
	}
	r.failures++
	if r.failures >= t.maxAttempts {
		r.lockedUntil = t.now().Add(t.duration)
		return true
	}
	return false
}

// Success forgets all failures of identity.
func (t *Tracker) Success(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key(identity))
}
