package friction

import "time"

// fixedClock is a deterministic Clock for tests.
type fixedClock struct {
	t time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func (c *fixedClock) Rewind(d time.Duration) { c.t = c.t.Add(-d) }
