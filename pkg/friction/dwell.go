package friction

import (
	"sort"
	"sync"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

const (
	// defaultTimerCapacity bounds concurrent active reviews.
	defaultTimerCapacity = 100
	// dwellHistoryLimit bounds the completed-review history.
	dwellHistoryLimit = 1000
)

type dwellEntry struct {
	decisionID  string
	tier        artifact.GovernanceTier
	required    time.Duration
	startedAt   time.Time
	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

// DwellStatus is a point-in-time view of an active review.
type DwellStatus struct {
	DecisionID string
	Tier       artifact.GovernanceTier
	Elapsed    time.Duration
	Required   time.Duration
	Satisfied  bool
	Paused     bool
}

// CompletedDwell records a cleared review for the bounded history.
type CompletedDwell struct {
	DecisionID     string
	Tier           artifact.GovernanceTier
	ReviewDuration time.Duration
	StartedAt      time.Time
	ClearedAt      time.Time
}

// DwellTimer tracks per-decision review time. Capacity is bounded; when
// full, starting a new review evicts the oldest-started entry. Paused
// spans do not accrue review time.
type DwellTimer struct {
	mu       sync.Mutex
	clock    Clock
	reqs     Requirements
	capacity int
	entries  map[string]*dwellEntry
	history  []CompletedDwell
}

// NewDwellTimer creates a timer with the default capacity.
func NewDwellTimer(clock Clock, reqs Requirements) *DwellTimer {
	return NewDwellTimerWithCapacity(clock, reqs, defaultTimerCapacity)
}

// NewDwellTimerWithCapacity creates a timer with an explicit capacity.
func NewDwellTimerWithCapacity(clock Clock, reqs Requirements, capacity int) *DwellTimer {
	if clock == nil {
		clock = WallClock()
	}
	if capacity < 1 {
		capacity = defaultTimerCapacity
	}
	return &DwellTimer{
		clock:    clock,
		reqs:     reqs,
		capacity: capacity,
		entries:  make(map[string]*dwellEntry, capacity),
	}
}

// Start begins (or restarts) the review timer for a decision.
func (d *DwellTimer) Start(decisionID string, tier artifact.GovernanceTier) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.entries[decisionID]; !exists && len(d.entries) >= d.capacity {
		d.evictOldestLocked()
	}
	d.entries[decisionID] = &dwellEntry{
		decisionID: decisionID,
		tier:       tier,
		required:   d.reqs.For(tier).MinDwell,
		startedAt:  d.clock.Now(),
	}
}

// evictOldestLocked drops the entry with the earliest start.
func (d *DwellTimer) evictOldestLocked() {
	ids := make([]string, 0, len(d.entries))
	for id := range d.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return d.entries[ids[i]].startedAt.Before(d.entries[ids[j]].startedAt)
	})
	if len(ids) > 0 {
		delete(d.entries, ids[0])
	}
}

// Check reports the review status of a decision. An unknown decision is
// a TimerNotStartedError; a clock reading earlier than the start is a
// SystemTimeError and the caller must fail closed.
func (d *DwellTimer) Check(decisionID string) (*DwellStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[decisionID]
	if !ok {
		return nil, &TimerNotStartedError{DecisionID: decisionID}
	}
	elapsed, err := d.elapsedLocked(entry)
	if err != nil {
		return nil, err
	}
	return &DwellStatus{
		DecisionID: entry.decisionID,
		Tier:       entry.tier,
		Elapsed:    elapsed,
		Required:   entry.required,
		Satisfied:  elapsed >= entry.required,
		Paused:     entry.paused,
	}, nil
}

func (d *DwellTimer) elapsedLocked(entry *dwellEntry) (time.Duration, error) {
	end := d.clock.Now()
	if entry.paused {
		end = entry.pausedAt
	}
	if end.Before(entry.startedAt) {
		return 0, &SystemTimeError{Now: end, Started: entry.startedAt}
	}
	elapsed := end.Sub(entry.startedAt) - entry.pausedTotal
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}

// Pause freezes accrual for a decision. Pausing a paused timer is a no-op.
func (d *DwellTimer) Pause(decisionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[decisionID]
	if !ok {
		return &TimerNotStartedError{DecisionID: decisionID}
	}
	if entry.paused {
		return nil
	}
	entry.paused = true
	entry.pausedAt = d.clock.Now()
	return nil
}

// Resume restarts accrual. Resuming a running timer is a no-op.
func (d *DwellTimer) Resume(decisionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[decisionID]
	if !ok {
		return &TimerNotStartedError{DecisionID: decisionID}
	}
	if !entry.paused {
		return nil
	}
	now := d.clock.Now()
	if now.After(entry.pausedAt) {
		entry.pausedTotal += now.Sub(entry.pausedAt)
	}
	entry.paused = false
	entry.pausedAt = time.Time{}
	return nil
}

// Clear removes a decision's timer and appends its completed record to
// the bounded history.
func (d *DwellTimer) Clear(decisionID string) (*CompletedDwell, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[decisionID]
	if !ok {
		return nil, &TimerNotStartedError{DecisionID: decisionID}
	}
	elapsed, err := d.elapsedLocked(entry)
	if err != nil {
		return nil, err
	}
	delete(d.entries, decisionID)

	completed := CompletedDwell{
		DecisionID:     entry.decisionID,
		Tier:           entry.tier,
		ReviewDuration: elapsed,
		StartedAt:      entry.startedAt,
		ClearedAt:      d.clock.Now(),
	}
	d.history = append(d.history, completed)
	if len(d.history) > dwellHistoryLimit {
		d.history = d.history[len(d.history)-dwellHistoryLimit:]
	}
	return &completed, nil
}

// ActiveCount reports the number of live review timers.
func (d *DwellTimer) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// History returns the completed reviews, most recent last.
func (d *DwellTimer) History() []CompletedDwell {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]CompletedDwell, len(d.history))
	copy(out, d.history)
	return out
}
