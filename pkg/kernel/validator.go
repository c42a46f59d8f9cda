// Package kernel is the admission-control core: it runs the full gate
// pipeline against a PAC artifact, applies cognitive friction, and seals
// the result into a decision object.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/decision"
	"github.com/chainbridge-occ/kernel/pkg/friction"
	"github.com/chainbridge-occ/kernel/pkg/gates"
	"github.com/chainbridge-occ/kernel/pkg/observability"
	"github.com/chainbridge-occ/kernel/pkg/store/ledger"
)

// ConstitutionalValidator evaluates artifacts against the admission
// pipeline on behalf of one executor identity.
type ConstitutionalValidator struct {
	executorGID string
	pipeline    *gates.Pipeline
	reqs        friction.Requirements
	clock       func() time.Time
	ledger      ledger.Ledger
	obs         *observability.Provider
	logger      *slog.Logger
}

// ValidatorOption customizes construction.
type ValidatorOption func(*ConstitutionalValidator)

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.clock = clock }
}

// WithLedger records every sealed decision in the given ledger.
func WithLedger(l ledger.Ledger) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.ledger = l }
}

// WithRequirements overrides the default friction tier ladder.
func WithRequirements(reqs friction.Requirements) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.reqs = reqs }
}

// WithPipeline replaces the default gate pipeline.
func WithPipeline(p *gates.Pipeline) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.pipeline = p }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.logger = l }
}

// WithObservability records evaluation spans and metrics through the
// given provider.
func WithObservability(p *observability.Provider) ValidatorOption {
	return func(v *ConstitutionalValidator) { v.obs = p }
}

// NewValidator creates a validator for the executor identity. The GID
// must carry the GID- prefix; an executor with a malformed identity can
// never admit anything.
func NewValidator(executorGID string, opts ...ValidatorOption) (*ConstitutionalValidator, error) {
	if !strings.HasPrefix(executorGID, gates.GIDPrefix) {
		return nil, wrap(CategoryAuthorization, "new validator",
			fmt.Errorf("executor GID %q does not match GID-XX pattern", executorGID))
	}
	v := &ConstitutionalValidator{
		executorGID: executorGID,
		pipeline:    gates.DefaultPipeline(),
		reqs:        friction.DefaultRequirements(),
		clock:       time.Now,
		logger:      slog.Default().With("component", "kernel"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ExecutorGID returns the identity this validator admits on behalf of.
func (v *ConstitutionalValidator) ExecutorGID() string { return v.executorGID }

// ValidatePreflight runs gates G1-G8 against the artifact and seals the
// verdict. Friction is not evaluated; use ValidatePreflightWithFriction
// once the artifact has been admitted for operator review.
func (v *ConstitutionalValidator) ValidatePreflight(ctx context.Context, a *artifact.Artifact) (*decision.Object, error) {
	ctx, done := v.track(ctx, a)
	results := v.pipeline.Run(&gates.RunContext{Artifact: a, Clock: v.clock})
	obj, err := v.seal(ctx, a, decision.NewBuilder(a.Metadata.PACID).AddResults(results))
	done(obj, err)
	return obj, err
}

// ValidatePreflightWithFriction runs G1-G8 and then the G9 dwell check
// against the recorded admission time. A clock reading earlier than the
// admission is an internal error: the disposition follows the artifact's
// fail-closed flag (Rejected when set, RequiresReview otherwise).
func (v *ConstitutionalValidator) ValidatePreflightWithFriction(ctx context.Context, a *artifact.Artifact, admitted friction.AdmissionTimestamp) (*decision.Object, error) {
	ctx, done := v.track(ctx, a)
	results := v.pipeline.Run(&gates.RunContext{Artifact: a, Clock: v.clock})
	builder := decision.NewBuilder(a.Metadata.PACID).AddResults(results)

	g9, err := friction.EvaluateDwell(admitted, a.Metadata.GovernanceTier, v.reqs, v.clock())
	if err != nil {
		kerr := wrap(CategoryInternal, "evaluate dwell", err)
		outcome := decision.RequiresReview
		if a.Metadata.FailClosed {
			outcome = decision.Rejected
		}
		obj, sealErr := v.seal(ctx, a, builder.WithOutcome(outcome))
		if sealErr != nil {
			done(nil, sealErr)
			return nil, sealErr
		}
		v.logger.Error("dwell evaluation failed",
			"pac_id", a.Metadata.PACID, "outcome", string(outcome), "error", err)
		done(obj, kerr)
		return obj, kerr
	}
	builder.AddResult(g9)

	obj, err := v.seal(ctx, a, builder)
	done(obj, err)
	return obj, err
}

// CommitDecision runs gates G1-G8 and seals the verdict together with
// the operator's completed friction outcome, so the review record lands
// in the ledger next to the gate transcript.
func (v *ConstitutionalValidator) CommitDecision(ctx context.Context, a *artifact.Artifact, out *friction.DecisionOutcome) (*decision.Object, error) {
	ctx, done := v.track(ctx, a)
	results := v.pipeline.Run(&gates.RunContext{Artifact: a, Clock: v.clock})
	b := decision.NewBuilder(a.Metadata.PACID).AddResults(results).WithFriction(out)
	obj, err := v.seal(ctx, a, b)
	done(obj, err)
	return obj, err
}

// track opens an evaluation span when a provider is configured. The
// returned closer is safe to call with a nil decision.
func (v *ConstitutionalValidator) track(ctx context.Context, a *artifact.Artifact) (context.Context, func(*decision.Object, error)) {
	if v.obs == nil {
		return ctx, func(*decision.Object, error) {}
	}
	ctx, done := v.obs.TrackEvaluation(ctx, a.Metadata.PACID)
	return ctx, func(obj *decision.Object, err error) {
		outcome := string(decision.Error)
		if obj != nil {
			outcome = string(obj.Outcome)
		}
		done(outcome, err)
	}
}

// seal builds the decision object, records it, and logs the verdict.
// Every sealed decision carries the validator's executor identity.
func (v *ConstitutionalValidator) seal(ctx context.Context, a *artifact.Artifact, b *decision.Builder) (*decision.Object, error) {
	obj, err := b.WithExecutor(v.executorGID).Build(v.clock())
	if err != nil {
		return nil, wrap(CategoryInternal, "seal decision", err)
	}

	if v.ledger != nil {
		if err := v.ledger.Append(ctx, obj); err != nil {
			return nil, wrap(CategoryInternal, "append decision", err)
		}
	}

	v.logger.Info("artifact evaluated",
		"pac_id", a.Metadata.PACID,
		"tier", a.Metadata.GovernanceTier.String(),
		"executor", v.executorGID,
		"outcome", string(obj.Outcome),
		"failed_gates", len(obj.FailedGates()))
	return obj, nil
}
