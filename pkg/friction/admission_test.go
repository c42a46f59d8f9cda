package friction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/gates"
)

func TestAdmissionUnixRoundTrip(t *testing.T) {
	clock := newFixedClock()
	a := NewAdmissionTimestamp(clock)

	restored := AdmissionFromUnix(a.Unix())
	assert.Equal(t, a.Unix(), restored.Unix())
	assert.True(t, a.Time().Equal(restored.Time()))
}

func TestAdmissionElapsed(t *testing.T) {
	clock := newFixedClock()
	a := NewAdmissionTimestamp(clock)

	clock.Advance(7 * time.Second)
	elapsed, err := a.Elapsed(clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, elapsed)
}

func TestAdmissionElapsedFailsClosedOnSkew(t *testing.T) {
	clock := newFixedClock()
	a := NewAdmissionTimestamp(clock)

	clock.Rewind(time.Minute)
	_, err := a.Elapsed(clock.Now())
	var skew *SystemTimeError
	require.ErrorAs(t, err, &skew)
}

func TestEvaluateDwellPass(t *testing.T) {
	clock := newFixedClock()
	admitted := NewAdmissionTimestamp(clock)
	clock.Advance(5 * time.Second)

	r, err := EvaluateDwell(admitted, artifact.TierLaw, DefaultRequirements(), clock.Now())
	require.NoError(t, err)
	assert.Equal(t, gates.GateCognitiveFriction, r.GateID)
	assert.True(t, r.Passed)
	assert.Empty(t, r.Reason)
}

func TestEvaluateDwellViolation(t *testing.T) {
	clock := newFixedClock()
	admitted := NewAdmissionTimestamp(clock)
	clock.Advance(2 * time.Second)

	r, err := EvaluateDwell(admitted, artifact.TierLaw, DefaultRequirements(), clock.Now())
	require.NoError(t, err)
	assert.False(t, r.Passed)
	assert.Equal(t, gates.ReasonDwellTimeViolation, r.Reason)
	assert.Contains(t, r.Message, "DWELL_TIME_VIOLATION")
}

func TestEvaluateDwellSkewReturnsNoResult(t *testing.T) {
	clock := newFixedClock()
	admitted := NewAdmissionTimestamp(clock)
	clock.Rewind(time.Second)

	r, err := EvaluateDwell(admitted, artifact.TierLaw, DefaultRequirements(), clock.Now())
	assert.Nil(t, r)
	var skew *SystemTimeError
	require.ErrorAs(t, err, &skew)
}
