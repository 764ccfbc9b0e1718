// Package clock abstracts time so that backup suffixes and snapshot
// timestamps are deterministic in tests.
package clock

import "time"

// Clock supplies the timestamps stamped onto backup file names and onto
// persisted snapshots.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock holds a settable time, keeping backup names and snapshot
// timestamps stable across test runs.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a FakeClock pinned at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the pinned time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Set repins the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the pinned time forward by d, letting a test force distinct
// backup suffixes for successive overwrites of the same file.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
