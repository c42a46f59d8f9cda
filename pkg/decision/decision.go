// Package decision assembles gate results and friction outcomes into an
// immutable, hash-sealed decision object.
package decision

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chainbridge-occ/kernel/pkg/canonicalize"
	"github.com/chainbridge-occ/kernel/pkg/friction"
	"github.com/chainbridge-occ/kernel/pkg/gates"
)

// Object is the sealed record of one artifact evaluation. The hash
// covers the artifact identity and the full ordered gate transcript, so
// two evaluations with identical inputs produce identical hashes.
type Object struct {
	ID          string              `json:"id"`
	PACID       string              `json:"pac_id"`
	ExecutorGID string              `json:"executor_gid,omitempty"`
	Outcome     Outcome             `json:"outcome"`
	GateResults []*gates.GateResult `json:"gate_results"`
	Friction    *FrictionReport     `json:"friction,omitempty"`
	Hash        string              `json:"hash"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
}

// FrictionReport summarizes the friction outcome attached to a decision.
type FrictionReport struct {
	ReviewDuration  time.Duration `json:"review_duration"`
	ChallengePassed bool          `json:"challenge_passed"`
	VelocityWarning bool          `json:"velocity_warning"`
}

// AllPassed reports whether every gate in the transcript passed.
func (o *Object) AllPassed() bool {
	for _, r := range o.GateResults {
		if !r.Passed {
			return false
		}
	}
	return len(o.GateResults) > 0
}

// FailedGates returns the IDs of gates that failed, in transcript order.
func (o *Object) FailedGates() []gates.GateID {
	var failed []gates.GateID
	for _, r := range o.GateResults {
		if !r.Passed {
			failed = append(failed, r.GateID)
		}
	}
	return failed
}

// hashInput is the canonical projection sealed by the decision hash.
// Timestamps are deliberately excluded so the hash is a function of the
// verdict alone.
type hashInput struct {
	PACID    string   `json:"pac_id"`
	Passed   []bool   `json:"passed"`
	Messages []string `json:"messages"`
}

// Builder accumulates an evaluation into a sealed Object.
type Builder struct {
	pacID       string
	executorGID string
	results     []*gates.GateResult
	friction    *FrictionReport
	override    Outcome
}

// NewBuilder starts a decision for one artifact.
func NewBuilder(pacID string) *Builder {
	return &Builder{pacID: pacID}
}

// AddResult appends one gate result in evaluation order.
func (b *Builder) AddResult(r *gates.GateResult) *Builder {
	b.results = append(b.results, r)
	return b
}

// AddResults appends a result slice in evaluation order.
func (b *Builder) AddResults(rs []*gates.GateResult) *Builder {
	b.results = append(b.results, rs...)
	return b
}

// WithExecutor stamps the identity the decision was admitted on behalf
// of. The executor is attribution only; it never enters the hash.
func (b *Builder) WithExecutor(gid string) *Builder {
	b.executorGID = gid
	return b
}

// WithFriction attaches the friction outcome.
func (b *Builder) WithFriction(out *friction.DecisionOutcome) *Builder {
	if out != nil {
		b.friction = &FrictionReport{
			ReviewDuration:  out.ReviewDuration,
			ChallengePassed: out.ChallengePassed,
			VelocityWarning: out.VelocityWarning,
		}
	}
	return b
}

// WithOutcome forces a terminal outcome regardless of gate results.
// Used for internal-error dispositions where fail-closed policy decides.
func (b *Builder) WithOutcome(o Outcome) *Builder {
	b.override = o
	return b
}

// Build seals the decision: derives the outcome, computes the canonical
// hash over the verdict, and stamps the evaluation time.
func (b *Builder) Build(now time.Time) (*Object, error) {
	if b.pacID == "" {
		return nil, errors.New("decision: empty pac id")
	}
	if len(b.results) == 0 && b.override == "" {
		return nil, errors.New("decision: no gate results")
	}

	obj := &Object{
		ID:          uuid.New().String(),
		PACID:       b.pacID,
		ExecutorGID: b.executorGID,
		GateResults: b.results,
		Friction:    b.friction,
		EvaluatedAt: now,
	}

	switch {
	case b.override != "":
		obj.Outcome = b.override
	case obj.AllPassed():
		obj.Outcome = Approved
	default:
		obj.Outcome = Rejected
	}

	input := hashInput{
		PACID:    b.pacID,
		Passed:   make([]bool, 0, len(b.results)),
		Messages: make([]string, 0, len(b.results)),
	}
	for _, r := range b.results {
		input.Passed = append(input.Passed, r.Passed)
		input.Messages = append(input.Messages, r.Message)
	}
	hash, err := canonicalize.CanonicalHash(input)
	if err != nil {
		return nil, err
	}
	obj.Hash = hash
	return obj, nil
}
