// Package time contains time related helpers
package time

import (
	"sync"
	"time"
)

// Clock is the time source services stamp rows with
type Clock interface {
	Now() time.Time
}

// System is the wall clock truncated to microseconds to match postgres timestamptz
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Manual is a settable clock for tests
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual returns a Manual clock starting at t
func NewManual(t time.Time) *Manual { return &Manual{t: t.UTC()} }

// Now returns the current manual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Advance moves the clock forward by d and returns the new time
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
	return m.t
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
