package gates

import (
	"fmt"
	"strings"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// ExecutionBlockingMarker is the assertion the terminal block must carry.
const ExecutionBlockingMarker = "execution_blocking"

// G8FinalState asserts that exactly one POSITIVE_CLOSURE_AND_FINAL_STATE
// block exists and that it contains the execution_blocking assertion.
type G8FinalState struct{}

func (g *G8FinalState) ID() GateID   { return GateFinalState }
func (g *G8FinalState) Name() string { return "Final State Assertion" }

func (g *G8FinalState) Run(ctx *RunContext) *GateResult {
	a := ctx.Artifact

	passed := false
	reason := ""
	var message string
	switch count := a.CountBlocks(artifact.BlockPositiveClosureAndFinalState); {
	case count == 0:
		message = "FINAL_STATE block not found"
		reason = ReasonFinalStateMissing
	case count > 1:
		message = fmt.Sprintf("FINAL_STATE block duplicated (%d occurrences)", count)
		reason = ReasonFinalStateMissing
	default:
		block := a.FindBlock(artifact.BlockPositiveClosureAndFinalState)
		if strings.Contains(block.Content, ExecutionBlockingMarker) {
			passed = true
			message = "FINAL_STATE contains execution_blocking assertion"
		} else {
			message = "FINAL_STATE missing execution_blocking assertion"
			reason = ReasonFinalStateUnblocked
		}
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = reason
	}
	return result
}
