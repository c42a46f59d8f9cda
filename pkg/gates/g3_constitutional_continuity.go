package gates

import "fmt"

// supportedSchemaMajors lists the schema major versions this kernel can
// admit. Both v1.x and v2.x catalogs remain admissible for backward
// compatibility.
var supportedSchemaMajors = map[uint64]bool{1: true, 2: true}

// G3ConstitutionalContinuity validates that the PAC's schema version is
// compatible with a supported major version.
type G3ConstitutionalContinuity struct{}

func (g *G3ConstitutionalContinuity) ID() GateID   { return GateConstitutionalContinuity }
func (g *G3ConstitutionalContinuity) Name() string { return "Constitutional Continuity Check" }

func (g *G3ConstitutionalContinuity) Run(ctx *RunContext) *GateResult {
	schema := ctx.Artifact.Metadata.SchemaVersion

	major, err := ctx.Artifact.SchemaMajor()
	passed := err == nil && supportedSchemaMajors[major]

	var message string
	if passed {
		message = fmt.Sprintf("Schema version '%s' is compatible", schema)
	} else {
		message = fmt.Sprintf("Schema version '%s' is not compatible with v1.x or v2.x", schema)
	}

	result := &GateResult{
		GateID:    g.ID(),
		Passed:    passed,
		Message:   message,
		Timestamp: ctx.now(),
	}
	if !passed {
		result.Reason = ReasonSchemaIncompatible
	}
	return result
}
