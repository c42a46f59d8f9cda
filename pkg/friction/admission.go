package friction

import (
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/gates"
)

// AdmissionTimestamp records when an artifact entered operator review.
// It crosses process boundaries as Unix seconds.
type AdmissionTimestamp struct {
	t time.Time
}

// NewAdmissionTimestamp stamps the current authority time.
func NewAdmissionTimestamp(clock Clock) AdmissionTimestamp {
	return AdmissionTimestamp{t: clock.Now()}
}

// AdmissionFromTime wraps an existing time.
func AdmissionFromTime(t time.Time) AdmissionTimestamp {
	return AdmissionTimestamp{t: t}
}

// AdmissionFromUnix reconstructs a timestamp from Unix seconds.
func AdmissionFromUnix(secs int64) AdmissionTimestamp {
	return AdmissionTimestamp{t: time.Unix(secs, 0).UTC()}
}

// Time returns the underlying instant.
func (a AdmissionTimestamp) Time() time.Time { return a.t }

// Unix returns the timestamp as Unix seconds for transport.
func (a AdmissionTimestamp) Unix() int64 { return a.t.Unix() }

// IsZero reports whether no admission was recorded.
func (a AdmissionTimestamp) IsZero() bool { return a.t.IsZero() }

// Elapsed returns the review time accrued since admission. A clock
// reading earlier than the admission is a SystemTimeError; the caller
// must fail closed.
func (a AdmissionTimestamp) Elapsed(now time.Time) (time.Duration, error) {
	if now.Before(a.t) {
		return 0, &SystemTimeError{Now: now, Started: a.t}
	}
	return now.Sub(a.t), nil
}

// EvaluateDwell produces the G9 gate result for an admitted artifact:
// the tier's minimum dwell must have elapsed since admission. The
// boundary is inclusive. Clock skew returns an error with no result.
func EvaluateDwell(admission AdmissionTimestamp, tier artifact.GovernanceTier, reqs Requirements, now time.Time) (*gates.GateResult, error) {
	elapsed, err := admission.Elapsed(now)
	if err != nil {
		return nil, err
	}

	required := reqs.For(tier).MinDwell
	result := &gates.GateResult{
		GateID:    gates.GateCognitiveFriction,
		Passed:    elapsed >= required,
		Timestamp: now,
	}
	if result.Passed {
		result.Message = formatDwellPass(elapsed, required, tier)
	} else {
		result.Message = (&DwellTimeViolationError{
			Tier:     tier,
			Elapsed:  elapsed,
			Required: required,
		}).Error()
		result.Reason = gates.ReasonDwellTimeViolation
	}
	return result, nil
}

func formatDwellPass(elapsed, required time.Duration, tier artifact.GovernanceTier) string {
	return "Dwell time satisfied: " +
		elapsed.Round(time.Millisecond).String() + " elapsed, " +
		required.String() + " required for tier " + tier.String()
}
