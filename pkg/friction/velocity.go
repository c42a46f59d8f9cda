package friction

import (
	"math"
	"sync"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// velocityWindow is the sliding window over which decision velocity is
// measured.
const velocityWindow = 60 * time.Second

// warningFraction of a tier's ceiling triggers a non-fatal warning.
const warningFraction = 0.8

// VelocityStatus reports the window state after a recorded decision.
type VelocityStatus struct {
	Tier       artifact.GovernanceTier
	Observed   int
	Max        int
	Warning    bool
	RecordedAt time.Time
}

// VelocityGate bounds how fast decisions are approved. The window is a
// timestamp slice pruned lazily on each operation; decisions that would
// breach the ceiling are rejected before being recorded, so a rejection
// never consumes window capacity.
type VelocityGate struct {
	mu      sync.Mutex
	clock   Clock
	reqs    Requirements
	window  time.Duration
	stamps  []time.Time
	enforce bool
}

// NewVelocityGate creates an enforcing gate over the default 60s window.
func NewVelocityGate(clock Clock, reqs Requirements) *VelocityGate {
	if clock == nil {
		clock = WallClock()
	}
	return &VelocityGate{
		clock:   clock,
		reqs:    reqs,
		window:  velocityWindow,
		enforce: true,
	}
}

// SetEnforcement toggles ceiling enforcement. When disabled, decisions
// are still recorded and warnings still fire, but nothing is rejected.
func (g *VelocityGate) SetEnforcement(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enforce = on
}

// Record admits one decision into the window or rejects it with a
// VelocityViolationError when the tier ceiling would be exceeded.
func (g *VelocityGate) Record(tier artifact.GovernanceTier) (*VelocityStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	g.pruneLocked(now)

	max := g.reqs.For(tier).MaxPerMinute
	if g.enforce && len(g.stamps) >= max {
		return nil, &VelocityViolationError{
			Tier:       tier,
			Observed:   len(g.stamps),
			Max:        max,
			RetryAfter: g.timeUntilAllowedLocked(now),
		}
	}

	g.stamps = append(g.stamps, now)
	observed := len(g.stamps)
	return &VelocityStatus{
		Tier:       tier,
		Observed:   observed,
		Max:        max,
		Warning:    float64(observed) >= warningFraction*float64(max),
		RecordedAt: now,
	}, nil
}

// Observed reports how many decisions sit in the current window.
func (g *VelocityGate) Observed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pruneLocked(g.clock.Now())
	return len(g.stamps)
}

// TimeUntilAllowed reports how long until the oldest window entry ages
// out. Zero means a decision is admissible now.
func (g *VelocityGate) TimeUntilAllowed(tier artifact.GovernanceTier) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	g.pruneLocked(now)
	if len(g.stamps) < g.reqs.For(tier).MaxPerMinute {
		return 0
	}
	return g.timeUntilAllowedLocked(now)
}

func (g *VelocityGate) timeUntilAllowedLocked(now time.Time) time.Duration {
	if len(g.stamps) == 0 {
		return 0
	}
	wait := g.window - now.Sub(g.stamps[0])
	if wait < 0 {
		return 0
	}
	return wait
}

// pruneLocked drops timestamps that have aged out of the window.
func (g *VelocityGate) pruneLocked(now time.Time) {
	cutoff := now.Add(-g.window)
	i := 0
	for i < len(g.stamps) && !g.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		g.stamps = g.stamps[i:]
	}
}

// WarningThreshold returns the decision count at which a tier's warning
// fires.
func WarningThreshold(max int) int {
	return int(math.Ceil(warningFraction * float64(max)))
}
