package gates

import (
	"fmt"
	"strings"
)

// GIDPrefix is the required prefix of every issuer governance identifier.
const GIDPrefix = "GID-"

// G6IssuerAuthorization validates the issuer GID format. Authorization
// beyond format (key binding, attestation) is established upstream of
// this kernel.
type G6IssuerAuthorization struct{}

func (g *G6IssuerAuthorization) ID() GateID   { return GateIssuerAuthorization }
func (g *G6IssuerAuthorization) Name() string { return "Issuer Authorization Check" }

func (g *G6IssuerAuthorization) Run(ctx *RunContext) *GateResult {
	gid := ctx.Artifact.Metadata.IssuerGID
	passed := strings.HasPrefix(gid, GIDPrefix)

	var message string
	if passed {
		message = fmt.Sprintf("Issuer GID '%s' has valid format", gid)
	} else {
		message = fmt.Sprintf("Issuer GID '%s' does not match GID-XX pattern", gid)
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonIssuerFormatInvalid
	}
	return result
}
