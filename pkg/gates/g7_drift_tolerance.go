package gates

import (
	"fmt"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// ZeroDrift is the only drift tolerance the LAW tier admits.
const ZeroDrift = "ZERO"

// G7DriftTolerance enforces per-tier drift tolerance: the LAW tier
// requires the literal "ZERO", other tiers accept any declared value.
type G7DriftTolerance struct{}

func (g *G7DriftTolerance) ID() GateID   { return GateDriftTolerance }
func (g *G7DriftTolerance) Name() string { return "Drift Tolerance Enforcement" }

func (g *G7DriftTolerance) Run(ctx *RunContext) *GateResult {
	drift := ctx.Artifact.Metadata.DriftTolerance
	tier := ctx.Artifact.Metadata.GovernanceTier

	passed := true
	if tier == artifact.TierLaw {
		passed = drift == ZeroDrift
	}

	var message string
	if passed {
		message = fmt.Sprintf("Drift tolerance '%s' is valid for tier '%s'", drift, tier)
	} else {
		message = fmt.Sprintf("LAW tier requires ZERO drift tolerance, got '%s'", drift)
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonDriftToleranceInvalid
	}
	return result
}
