package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/decision"
	"github.com/chainbridge-occ/kernel/pkg/friction"
	"github.com/chainbridge-occ/kernel/pkg/observability"
	"github.com/chainbridge-occ/kernel/pkg/store/ledger"
)

var evalTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return evalTime }

// validPAC builds a complete v2 artifact that passes every gate.
func validPAC(t *testing.T) *artifact.Artifact {
	t.Helper()

	a := artifact.New(artifact.Metadata{
		PACID:          "PAC-TEST-001",
		PACVersion:     "1.0.0",
		Classification: "OPERATIONAL_DIRECTIVE",
		GovernanceTier: artifact.TierLaw,
		IssuerGID:      "GID-01-ARCH",
		IssuerRole:     "ARCHITECT",
		IssuedAt:       evalTime.Add(-24 * time.Hour),
		Scope:          "deployment",
		DriftTolerance: "ZERO",
		SchemaVersion:  "CHAINBRIDGE_PAC_SCHEMA_v2.1.4",
	})
	for _, bt := range artifact.Catalog(2) {
		content := "content for " + bt.String()
		if bt == artifact.BlockPositiveClosureAndFinalState {
			content = "terminal state is execution_blocking until closure"
		}
		a.Blocks = append(a.Blocks, artifact.NewBlock(bt.CanonicalIndex(), bt, content))
	}
	return a
}

func newTestValidator(t *testing.T, opts ...ValidatorOption) *ConstitutionalValidator {
	t.Helper()
	opts = append([]ValidatorOption{WithClock(fixedNow)}, opts...)
	v, err := NewValidator("GID-00-EXEC", opts...)
	require.NoError(t, err)
	return v
}

func TestNewValidatorRejectsMalformedGID(t *testing.T) {
	_, err := NewValidator("EXEC-00")
	require.Error(t, err)
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CategoryAuthorization, kerr.Category)
}

func TestValidPACPassesAllGates(t *testing.T) {
	v := newTestValidator(t)

	obj, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)

	assert.Equal(t, decision.Approved, obj.Outcome)
	require.Len(t, obj.GateResults, 8)
	for _, r := range obj.GateResults {
		assert.True(t, r.Passed, "%s: %s", r.GateID, r.Message)
	}
}

func TestBrokenPACIsRejectedWithFullTranscript(t *testing.T) {
	v := newTestValidator(t)
	a := validPAC(t)
	a.Blocks = a.Blocks[:20]
	a.Metadata.DriftTolerance = "MINIMAL"

	obj, err := v.ValidatePreflight(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, decision.Rejected, obj.Outcome)
	require.Len(t, obj.GateResults, 8)
	assert.Contains(t, obj.FailedGates(), obj.GateResults[0].GateID)
}

func TestFrictionPassesAfterDwell(t *testing.T) {
	v := newTestValidator(t)
	admitted := friction.AdmissionFromTime(evalTime.Add(-6 * time.Second))

	obj, err := v.ValidatePreflightWithFriction(context.Background(), validPAC(t), admitted)
	require.NoError(t, err)

	assert.Equal(t, decision.Approved, obj.Outcome)
	require.Len(t, obj.GateResults, 9)
	g9 := obj.GateResults[8]
	assert.True(t, g9.Passed)
}

func TestFrictionDwellViolation(t *testing.T) {
	v := newTestValidator(t)
	// LAW requires 5s; only 2s have elapsed since admission.
	admitted := friction.AdmissionFromTime(evalTime.Add(-2 * time.Second))

	obj, err := v.ValidatePreflightWithFriction(context.Background(), validPAC(t), admitted)
	require.NoError(t, err)

	assert.Equal(t, decision.Rejected, obj.Outcome)
	require.Len(t, obj.GateResults, 9)
	g9 := obj.GateResults[8]
	assert.False(t, g9.Passed)
	assert.Contains(t, g9.Message, "DWELL_TIME_VIOLATION")
}

func TestFrictionDwellBoundaryIsInclusive(t *testing.T) {
	v := newTestValidator(t)
	admitted := friction.AdmissionFromTime(evalTime.Add(-5 * time.Second))

	obj, err := v.ValidatePreflightWithFriction(context.Background(), validPAC(t), admitted)
	require.NoError(t, err)
	assert.Equal(t, decision.Approved, obj.Outcome)
}

func TestClockSkewFailsClosedWhenFlagged(t *testing.T) {
	v := newTestValidator(t)
	a := validPAC(t)
	a.Metadata.FailClosed = true
	admitted := friction.AdmissionFromTime(evalTime.Add(time.Hour))

	obj, err := v.ValidatePreflightWithFriction(context.Background(), a, admitted)
	require.Error(t, err)
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CategoryInternal, kerr.Category)

	require.NotNil(t, obj)
	assert.Equal(t, decision.Rejected, obj.Outcome)
	// No G9 result exists when the clock cannot be trusted.
	assert.Len(t, obj.GateResults, 8)
}

func TestClockSkewRequiresReviewByDefault(t *testing.T) {
	v := newTestValidator(t)
	admitted := friction.AdmissionFromTime(evalTime.Add(time.Hour))

	obj, err := v.ValidatePreflightWithFriction(context.Background(), validPAC(t), admitted)
	require.Error(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, decision.RequiresReview, obj.Outcome)
}

func TestSealedDecisionCarriesExecutor(t *testing.T) {
	v := newTestValidator(t)

	obj, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)
	assert.Equal(t, "GID-00-EXEC", obj.ExecutorGID)

	admitted := friction.AdmissionFromTime(evalTime.Add(-6 * time.Second))
	obj, err = v.ValidatePreflightWithFriction(context.Background(), validPAC(t), admitted)
	require.NoError(t, err)
	assert.Equal(t, "GID-00-EXEC", obj.ExecutorGID)
}

func TestCommitDecisionAttachesFrictionReport(t *testing.T) {
	store := ledger.NewMemoryLedger()
	v := newTestValidator(t, WithLedger(store))

	outcome := &friction.DecisionOutcome{
		DecisionID:      "PAC-TEST-001",
		Tier:            artifact.TierLaw,
		Approved:        true,
		ReviewDuration:  7 * time.Second,
		ChallengePassed: true,
		VelocityWarning: true,
		DecidedAt:       evalTime,
	}
	obj, err := v.CommitDecision(context.Background(), validPAC(t), outcome)
	require.NoError(t, err)

	assert.Equal(t, decision.Approved, obj.Outcome)
	assert.Equal(t, "GID-00-EXEC", obj.ExecutorGID)
	require.NotNil(t, obj.Friction)
	assert.Equal(t, 7*time.Second, obj.Friction.ReviewDuration)
	assert.True(t, obj.Friction.ChallengePassed)
	assert.True(t, obj.Friction.VelocityWarning)

	recorded, err := store.Get(context.Background(), obj.ID)
	require.NoError(t, err)
	require.NotNil(t, recorded.Friction)
	assert.Equal(t, 7*time.Second, recorded.Friction.ReviewDuration)
	assert.Equal(t, "GID-00-EXEC", recorded.ExecutorGID)
}

func TestDecisionsAreRecordedInLedger(t *testing.T) {
	store := ledger.NewMemoryLedger()
	v := newTestValidator(t, WithLedger(store))

	obj, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)

	recorded, err := store.Get(context.Background(), obj.ID)
	require.NoError(t, err)
	assert.Equal(t, obj.Hash, recorded.Hash)

	byPAC, err := store.ListByPAC(context.Background(), "PAC-TEST-001")
	require.NoError(t, err)
	assert.Len(t, byPAC, 1)
}

func TestRepeatedEvaluationSealsIdenticalHash(t *testing.T) {
	v := newTestValidator(t)

	first, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)
	second, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestObservabilityHooksAreOptional(t *testing.T) {
	// A disabled provider exports nothing but must not disturb results.
	provider, err := observability.New(context.Background(), &observability.Config{Enabled: false})
	require.NoError(t, err)

	v := newTestValidator(t, WithObservability(provider))
	obj, err := v.ValidatePreflight(context.Background(), validPAC(t))
	require.NoError(t, err)
	assert.Equal(t, decision.Approved, obj.Outcome)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Category
	}{
		{&friction.DwellTimeViolationError{}, CategoryTiming},
		{&friction.TimerNotStartedError{}, CategoryTiming},
		{&friction.ChallengeRequiredError{}, CategoryGovernance},
		{&friction.ChallengeFailureError{}, CategoryGovernance},
		{&friction.ChallengeIncorrectError{}, CategoryGovernance},
		{&friction.RememberForbiddenError{}, CategoryAuthorization},
		{&friction.VelocityViolationError{}, CategoryRate},
		{&friction.SystemTimeError{}, CategoryInternal},
		{&friction.ChallengeNotFoundError{}, CategoryInternal},
		{context.DeadlineExceeded, CategoryInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "%T", tc.err)
	}
}

func TestCategoryExternalCodes(t *testing.T) {
	assert.Equal(t, 1000, CategoryStructural.ExternalCode())
	assert.Equal(t, 6000, CategoryRate.ExternalCode())
	assert.Equal(t, 7000, CategoryInternal.ExternalCode())
}
