// Package gates implements the G1-G8 structural and governance checks of
// the PAC admission pipeline.
//
// Every gate runs unconditionally against one artifact and produces a
// GateResult; no gate short-circuits another. Completeness is a design
// requirement: the decision object must carry an auditable result for
// every gate regardless of where failures occur.
package gates

import (
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// GateID is the stable identity of one admission gate. The set is closed:
// G1 through G8 live in this package, G9 is the cognitive friction gate
// owned by the friction subsystem.
type GateID string

const (
	GateStructuralLint           GateID = "G1"
	GateGovernanceTier           GateID = "G2"
	GateConstitutionalContinuity GateID = "G3"
	GateBlockIndexIntegrity      GateID = "G4"
	GateContentHash              GateID = "G5"
	GateIssuerAuthorization      GateID = "G6"
	GateDriftTolerance           GateID = "G7"
	GateFinalState               GateID = "G8"
	GateCognitiveFriction        GateID = "G9"
)

// GateResult is the per-gate output contract. One is always produced per
// gate per run, never omitted.
type GateResult struct {
	GateID    GateID    `json:"gate_id"`
	Passed    bool      `json:"passed"`
	Message   string    `json:"message"`
	Reason    string    `json:"reason,omitempty"` // stable reason code on failure
	Timestamp time.Time `json:"timestamp"`
}

// RunContext provides the runtime context for gate execution.
type RunContext struct {
	Artifact *artifact.Artifact
	Clock    func() time.Time
}

func (ctx *RunContext) now() time.Time {
	if ctx.Clock != nil {
		return ctx.Clock()
	}
	return time.Now()
}

// Gate is the interface every admission gate implements.
// Run MUST NOT panic; all failures are expressed via GateResult.
type Gate interface {
	ID() GateID
	Name() string
	Run(ctx *RunContext) *GateResult
}
