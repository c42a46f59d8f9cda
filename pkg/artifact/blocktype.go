package artifact

import "fmt"

// BlockType identifies one slot of the canonical PAC block catalog.
// The catalog is closed and ordered: a block type's integer value is its
// canonical index in the schema v2 catalog.
type BlockType int

const (
	BlockPACHeader BlockType = iota
	BlockGovernanceDeclaration
	BlockScopeDefinition
	BlockAuthorityChain
	BlockConstitutionalBasis
	BlockRiskAssessment
	BlockImpactAnalysis
	BlockExecutionPlan
	BlockRollbackPlan
	BlockVerificationCriteria
	BlockEvidenceManifest
	BlockDriftDeclaration
	BlockBensonAnchor
	BlockAgentWrapBERHandshake
	BlockOperatorAcknowledgment
	BlockAuditTrailBinding
	BlockLedgerCommitment
	BlockSupersessionNotice
	BlockComplianceAttestation
	BlockPositiveClosureAndFinalState
	// v2-only trailing blocks. Schema v1 catalogs end at
	// PositiveClosureAndFinalState.
	BlockTelemetryBinding
	BlockIncidentLinkage
	BlockArchivalDirective
)

// Catalog sizes per schema major version.
const (
	CatalogSizeV1 = 20
	CatalogSizeV2 = 23
)

var blockTypeNames = map[BlockType]string{
	BlockPACHeader:                    "PAC_HEADER",
	BlockGovernanceDeclaration:        "GOVERNANCE_DECLARATION",
	BlockScopeDefinition:              "SCOPE_DEFINITION",
	BlockAuthorityChain:               "AUTHORITY_CHAIN",
	BlockConstitutionalBasis:          "CONSTITUTIONAL_BASIS",
	BlockRiskAssessment:               "RISK_ASSESSMENT",
	BlockImpactAnalysis:               "IMPACT_ANALYSIS",
	BlockExecutionPlan:                "EXECUTION_PLAN",
	BlockRollbackPlan:                 "ROLLBACK_PLAN",
	BlockVerificationCriteria:         "VERIFICATION_CRITERIA",
	BlockEvidenceManifest:             "EVIDENCE_MANIFEST",
	BlockDriftDeclaration:             "DRIFT_DECLARATION",
	BlockBensonAnchor:                 "BENSON_ANCHOR",
	BlockAgentWrapBERHandshake:        "AGENT_WRAP_BER_HANDSHAKE",
	BlockOperatorAcknowledgment:       "OPERATOR_ACKNOWLEDGMENT",
	BlockAuditTrailBinding:            "AUDIT_TRAIL_BINDING",
	BlockLedgerCommitment:             "LEDGER_COMMITMENT",
	BlockSupersessionNotice:           "SUPERSESSION_NOTICE",
	BlockComplianceAttestation:        "COMPLIANCE_ATTESTATION",
	BlockPositiveClosureAndFinalState: "POSITIVE_CLOSURE_AND_FINAL_STATE",
	BlockTelemetryBinding:             "TELEMETRY_BINDING",
	BlockIncidentLinkage:              "INCIDENT_LINKAGE",
	BlockArchivalDirective:            "ARCHIVAL_DIRECTIVE",
}

// String implements fmt.Stringer for BlockType.
func (b BlockType) String() string {
	if s, ok := blockTypeNames[b]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(b))
}

// CanonicalIndex returns the block type's fixed position in the catalog.
func (b BlockType) CanonicalIndex() int { return int(b) }

// ParseBlockType resolves a catalog name back to its BlockType.
func ParseBlockType(name string) (BlockType, error) {
	for bt, n := range blockTypeNames {
		if n == name {
			return bt, nil
		}
	}
	return 0, fmt.Errorf("unknown block type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (b BlockType) MarshalText() ([]byte, error) {
	if _, ok := blockTypeNames[b]; !ok {
		return nil, fmt.Errorf("invalid block type %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlockType) UnmarshalText(text []byte) error {
	parsed, err := ParseBlockType(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Catalog returns the ordered block catalog for a schema major version.
// Major 1 has 20 entries; major 2 has 23. Unknown majors return nil.
func Catalog(major uint64) []BlockType {
	var size int
	switch major {
	case 1:
		size = CatalogSizeV1
	case 2:
		size = CatalogSizeV2
	default:
		return nil
	}
	catalog := make([]BlockType, size)
	for i := range catalog {
		catalog[i] = BlockType(i)
	}
	return catalog
}
