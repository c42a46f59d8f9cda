package friction

import (
	"log/slog"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// DecisionRequest is one operator decision submitted for friction
// evaluation. ArtifactRef is transport metadata linking the decision
// back to the artifact under review; the checks never read it.
type DecisionRequest struct {
	DecisionID        string
	Tier              artifact.GovernanceTier
	ArtifactRef       string
	Summary           string
	Remember          bool
	ChallengeResponse *ChallengeResponse
}

// DecisionOutcome is the terminal result of an accepted decision.
type DecisionOutcome struct {
	DecisionID      string
	Tier            artifact.GovernanceTier
	Approved        bool
	ReviewDuration  time.Duration
	ChallengePassed bool
	VelocityWarning bool
	DecidedAt       time.Time
}

// Orchestrator sequences the friction checks for a decision: dwell,
// challenge, remember policy, velocity. Each check owns its own lock;
// the orchestrator holds none across them.
type Orchestrator struct {
	clock           Clock
	reqs            Requirements
	dwell           *DwellTimer
	challenges      *ChallengeVerifier
	velocity        *VelocityGate
	enforceVelocity bool
	logger          *slog.Logger
}

// OrchestratorOption customizes construction.
type OrchestratorOption func(*Orchestrator)

// WithClock injects a deterministic clock.
func WithClock(clock Clock) OrchestratorOption {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithRequirements overrides the default tier ladder.
func WithRequirements(reqs Requirements) OrchestratorOption {
	return func(o *Orchestrator) { o.reqs = reqs }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

// WithVelocityEnforcement toggles the velocity ceiling. When off, the
// window is still tracked and warnings still fire, but decisions are
// never rejected for rate.
func WithVelocityEnforcement(on bool) OrchestratorOption {
	return func(o *Orchestrator) { o.enforceVelocity = on }
}

// NewOrchestrator wires the friction components over one clock and one
// tier ladder.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		clock:           WallClock(),
		reqs:            DefaultRequirements(),
		enforceVelocity: true,
		logger:          slog.Default().With("component", "friction"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.dwell = NewDwellTimer(o.clock, o.reqs)
	o.challenges = NewChallengeVerifier(o.clock, o.reqs)
	o.velocity = NewVelocityGate(o.clock, o.reqs)
	o.velocity.SetEnforcement(o.enforceVelocity)
	return o
}

// Dwell exposes the review timer.
func (o *Orchestrator) Dwell() *DwellTimer { return o.dwell }

// Challenges exposes the challenge verifier.
func (o *Orchestrator) Challenges() *ChallengeVerifier { return o.challenges }

// Velocity exposes the velocity gate.
func (o *Orchestrator) Velocity() *VelocityGate { return o.velocity }

// StartReview begins the dwell timer for a decision.
func (o *Orchestrator) StartReview(decisionID string, tier artifact.GovernanceTier) {
	o.dwell.Start(decisionID, tier)
	o.logger.Debug("review started", "decision_id", decisionID, "tier", tier.String())
}

// IssueChallenge issues the tier's comprehension challenge for a
// decision summary.
func (o *Orchestrator) IssueChallenge(tier artifact.GovernanceTier, summary string) *Challenge {
	return o.challenges.Issue(tier, summary)
}

// SubmitDecision runs the full friction sequence. On success the dwell
// timer is cleared and the outcome carries the accrued review duration.
// On any failure the decision is rejected with a typed error and, except
// for retryable challenge misses, the timer state is untouched.
func (o *Orchestrator) SubmitDecision(req DecisionRequest) (*DecisionOutcome, error) {
	if o.disarmed() {
		completed, err := o.dwell.Clear(req.DecisionID)
		duration := time.Duration(0)
		if err == nil {
			duration = completed.ReviewDuration
		}
		return &DecisionOutcome{
			DecisionID:     req.DecisionID,
			Tier:           req.Tier,
			Approved:       true,
			ReviewDuration: duration,
			DecidedAt:      o.clock.Now(),
		}, nil
	}

	status, err := o.dwell.Check(req.DecisionID)
	if err != nil {
		return nil, err
	}
	if !status.Satisfied {
		return nil, &DwellTimeViolationError{
			DecisionID: req.DecisionID,
			Tier:       req.Tier,
			Elapsed:    status.Elapsed,
			Required:   status.Required,
		}
	}

	tierReq := o.reqs.For(req.Tier)
	challengePassed := false
	if tierReq.ChallengeRequired && req.ChallengeResponse == nil {
		return nil, &ChallengeRequiredError{Tier: req.Tier}
	}
	if req.ChallengeResponse != nil {
		ok, err := o.challenges.Verify(*req.ChallengeResponse)
		if err != nil {
			return nil, err
		}
		challengePassed = ok
	}

	if req.Remember && !tierReq.RememberAllowed {
		return nil, &RememberForbiddenError{Tier: req.Tier}
	}

	velStatus, err := o.velocity.Record(req.Tier)
	if err != nil {
		return nil, err
	}
	if velStatus.Warning {
		o.logger.Warn("decision velocity nearing ceiling",
			"tier", req.Tier.String(),
			"observed", velStatus.Observed,
			"max", velStatus.Max)
	}

	completed, err := o.dwell.Clear(req.DecisionID)
	if err != nil {
		return nil, err
	}

	o.logger.Info("decision accepted",
		"decision_id", req.DecisionID,
		"tier", req.Tier.String(),
		"review_duration", completed.ReviewDuration.String(),
		"challenge_passed", challengePassed)

	return &DecisionOutcome{
		DecisionID:      req.DecisionID,
		Tier:            req.Tier,
		Approved:        true,
		ReviewDuration:  completed.ReviewDuration,
		ChallengePassed: challengePassed,
		VelocityWarning: velStatus.Warning,
		DecidedAt:       o.clock.Now(),
	}, nil
}
