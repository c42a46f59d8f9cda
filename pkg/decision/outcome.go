package decision

import "fmt"

// Outcome is the terminal disposition of an evaluated artifact.
type Outcome string

const (
	// Approved: every gate passed and friction was satisfied.
	Approved Outcome = "APPROVED"
	// Rejected: at least one gate failed, or an internal error occurred
	// under fail-closed semantics.
	Rejected Outcome = "REJECTED"
	// RequiresReview: an internal error occurred and the artifact opted
	// out of fail-closed handling; a human must disposition it.
	RequiresReview Outcome = "REQUIRES_REVIEW"
	// Error: evaluation itself could not complete.
	Error Outcome = "ERROR"
)

// Valid reports whether o is a recognized outcome.
func (o Outcome) Valid() bool {
	switch o {
	case Approved, Rejected, RequiresReview, Error:
		return true
	}
	return false
}

// Terminal reports whether the outcome ends the artifact's lifecycle
// without further human action.
func (o Outcome) Terminal() bool {
	return o == Approved || o == Rejected
}

// ParseOutcome converts a stored string back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown decision outcome %q", s)
	}
	return o, nil
}
