package gates

import "fmt"

// G5ContentHash recomputes the PAC content digest and compares it against
// the declared content hash. A PAC that declares no hash passes; absence
// is not a failure.
type G5ContentHash struct{}

func (g *G5ContentHash) ID() GateID   { return GateContentHash }
func (g *G5ContentHash) Name() string { return "Content Hash Verification" }

func (g *G5ContentHash) Run(ctx *RunContext) *GateResult {
	a := ctx.Artifact

	passed := true
	message := "No content hash provided (optional)"
	if a.ContentHash != "" {
		computed := a.ComputeContentHash()
		if computed == a.ContentHash {
			message = "Content hash verified"
		} else {
			passed = false
			message = fmt.Sprintf("Content hash mismatch: expected %s, got %s",
				a.ContentHash, computed)
		}
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonContentHashMismatch
	}
	return result
}
