package gates

import "fmt"

// G1StructuralLint validates that the PAC carries exactly the canonical
// block count for its declared schema version.
type G1StructuralLint struct{}

func (g *G1StructuralLint) ID() GateID   { return GateStructuralLint }
func (g *G1StructuralLint) Name() string { return "Structural Lint" }

func (g *G1StructuralLint) Run(ctx *RunContext) *GateResult {
	a := ctx.Artifact
	expected := a.ExpectedBlockCount()
	passed := a.HasCompleteBlocks()

	var message string
	if passed {
		message = fmt.Sprintf("PAC has exactly %d blocks (%s)", expected, a.Metadata.SchemaVersion)
	} else {
		message = fmt.Sprintf("PAC has %d blocks, expected %d (%s)",
			len(a.Blocks), expected, a.Metadata.SchemaVersion)
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonBlockCountMismatch
	}
	return result
}
