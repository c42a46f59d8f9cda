package gates

// Reason codes are stable identifiers. They MUST NOT change between
// releases; the ledger and external callers key on them.
const (
	// --- Structural ---
	ReasonBlockCountMismatch = "BLOCK_COUNT_MISMATCH"
	ReasonBlockIndexMismatch = "BLOCK_INDEX_MISMATCH"

	// --- Governance ---
	ReasonUnknownGovernanceTier = "UNKNOWN_GOVERNANCE_TIER"
	ReasonSchemaIncompatible    = "SCHEMA_INCOMPATIBLE"
	ReasonDriftToleranceInvalid = "DRIFT_TOLERANCE_INVALID"

	// --- Authorization ---
	ReasonIssuerFormatInvalid = "ISSUER_FORMAT_INVALID"

	// --- Consistency ---
	ReasonContentHashMismatch = "CONTENT_HASH_MISMATCH"
	ReasonFinalStateMissing   = "FINAL_STATE_MISSING"
	ReasonFinalStateUnblocked = "FINAL_STATE_UNBLOCKED"

	// --- Timing (G9, emitted by the friction subsystem) ---
	ReasonDwellTimeViolation = "DWELL_TIME_VIOLATION"
	ReasonSystemTimeSkew     = "SYSTEM_TIME_SKEW"
)

// AllReasonCodes returns the full set of normative gate reason codes.
func AllReasonCodes() []string {
	return []string{
		ReasonBlockCountMismatch,
		ReasonBlockIndexMismatch,
		ReasonUnknownGovernanceTier,
		ReasonSchemaIncompatible,
		ReasonDriftToleranceInvalid,
		ReasonIssuerFormatInvalid,
		ReasonContentHashMismatch,
		ReasonFinalStateMissing,
		ReasonFinalStateUnblocked,
		ReasonDwellTimeViolation,
		ReasonSystemTimeSkew,
	}
}
