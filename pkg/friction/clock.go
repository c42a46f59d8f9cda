package friction

import "time"

// Clock provides authority time for the friction subsystem. All friction
// checks are pure timestamp comparisons against this clock; nothing in
// the subsystem sleeps or blocks.
type Clock interface {
	Now() time.Time
}

// wallClock is the default production clock.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock returns the process wall clock.
func WallClock() Clock { return wallClock{} }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
