package friction

import (
	"fmt"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// TimerNotStartedError reports a dwell check against a decision that was
// never started (or was already cleared).
type TimerNotStartedError struct {
	DecisionID string
}

func (e *TimerNotStartedError) Error() string {
	return fmt.Sprintf("dwell timer not started for decision %q", e.DecisionID)
}

// SystemTimeError reports an authority clock reading earlier than a
// recorded start. The subsystem fails closed on skew: no elapsed time can
// be trusted, so the decision cannot proceed.
type SystemTimeError struct {
	Now     time.Time
	Started time.Time
}

func (e *SystemTimeError) Error() string {
	return fmt.Sprintf("SYSTEM_TIME_SKEW: clock reads %s, before recorded start %s",
		e.Now.UTC().Format(time.RFC3339), e.Started.UTC().Format(time.RFC3339))
}

// DwellTimeViolationError reports a decision submitted before the tier's
// minimum review time elapsed.
type DwellTimeViolationError struct {
	DecisionID string
	Tier       artifact.GovernanceTier
	Elapsed    time.Duration
	Required   time.Duration
}

func (e *DwellTimeViolationError) Error() string {
	return fmt.Sprintf("DWELL_TIME_VIOLATION: %.1fs elapsed, %.1fs required for tier %s",
		e.Elapsed.Seconds(), e.Required.Seconds(), e.Tier)
}

// ChallengeRequiredError reports a submission for a tier that demands a
// challenge response when none was supplied.
type ChallengeRequiredError struct {
	Tier artifact.GovernanceTier
}

func (e *ChallengeRequiredError) Error() string {
	return fmt.Sprintf("tier %s requires a challenge response before approval", e.Tier)
}

// ChallengeNotFoundError reports a verification against an unknown
// challenge ID. This is an internal consistency error, not a user failure.
type ChallengeNotFoundError struct {
	ChallengeID string
}

func (e *ChallengeNotFoundError) Error() string {
	return fmt.Sprintf("challenge %q not found", e.ChallengeID)
}

// ChallengeFailureError terminally consumes a challenge: expiry, attempt
// exhaustion, or an incorrect answer on the final attempt.
type ChallengeFailureError struct {
	ChallengeID string
	Cause       string
}

func (e *ChallengeFailureError) Error() string {
	return fmt.Sprintf("challenge %q failed: %s", e.ChallengeID, e.Cause)
}

// ChallengeIncorrectError reports a wrong answer with attempts remaining.
// The challenge stays live and the caller may retry.
type ChallengeIncorrectError struct {
	ChallengeID       string
	AttemptsRemaining int
}

func (e *ChallengeIncorrectError) Error() string {
	return fmt.Sprintf("challenge %q answer incorrect, %d attempt(s) remaining",
		e.ChallengeID, e.AttemptsRemaining)
}

// RememberForbiddenError reports a remember-shortcut request on a tier
// that never admits one.
type RememberForbiddenError struct {
	Tier artifact.GovernanceTier
}

func (e *RememberForbiddenError) Error() string {
	return fmt.Sprintf("tier %s does not permit remembered decisions", e.Tier)
}

// VelocityViolationError reports a decision that would exceed the tier's
// per-minute ceiling. The rejected decision is not recorded in the window.
type VelocityViolationError struct {
	Tier       artifact.GovernanceTier
	Observed   int
	Max        int
	RetryAfter time.Duration
}

func (e *VelocityViolationError) Error() string {
	return fmt.Sprintf("velocity ceiling reached for tier %s: %d of %d decisions in window, retry in %s",
		e.Tier, e.Observed, e.Max, e.RetryAfter.Round(time.Millisecond))
}
