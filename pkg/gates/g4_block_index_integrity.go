package gates

import (
	"fmt"
	"strings"
)

// G4BlockIndexIntegrity validates that every block's index equals its
// type's canonical catalog position. The failure message enumerates every
// mismatched block for the audit trail.
type G4BlockIndexIntegrity struct{}

func (g *G4BlockIndexIntegrity) ID() GateID   { return GateBlockIndexIntegrity }
func (g *G4BlockIndexIntegrity) Name() string { return "Block Index Integrity" }

func (g *G4BlockIndexIntegrity) Run(ctx *RunContext) *GateResult {
	a := ctx.Artifact
	passed := a.AllIndicesValid()

	var message string
	if passed {
		message = "All block indices match their block types"
	} else {
		mismatched := make([]string, 0, len(a.Blocks))
		for _, b := range a.Blocks {
			if !b.IndexValid() {
				mismatched = append(mismatched,
					fmt.Sprintf("Block %d has type %s", b.Index, b.Type))
			}
		}
		message = "Block index mismatch: " + strings.Join(mismatched, ", ")
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonBlockIndexMismatch
	}
	return result
}
