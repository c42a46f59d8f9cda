package gates

import "fmt"

// G2GovernanceTier validates that the declared governance tier is one of
// the four known tiers.
type G2GovernanceTier struct{}

func (g *G2GovernanceTier) ID() GateID   { return GateGovernanceTier }
func (g *G2GovernanceTier) Name() string { return "Governance Tier Validation" }

func (g *G2GovernanceTier) Run(ctx *RunContext) *GateResult {
	tier := ctx.Artifact.Metadata.GovernanceTier
	passed := tier.Valid()

	var message string
	if passed {
		message = fmt.Sprintf("Governance tier '%s' validated", tier)
	} else {
		message = fmt.Sprintf("Governance tier '%s' is not recognized", tier)
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonUnknownGovernanceTier
	}
	return result
}
