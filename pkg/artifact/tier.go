package artifact

import (
	"fmt"
	"strings"
)

// GovernanceTier is the strictness class of a PAC.
// Tiers are strictly ordered: Law > Policy > Guidance > Operational.
// The tier drives required dwell time, challenge necessity, the
// remember-shortcut permission, and the decision velocity ceiling.
type GovernanceTier int

const (
	TierLaw GovernanceTier = iota
	TierPolicy
	TierGuidance
	TierOperational
)

// AllTiers returns the closed tier catalog in strictness order.
func AllTiers() []GovernanceTier {
	return []GovernanceTier{TierLaw, TierPolicy, TierGuidance, TierOperational}
}

// String implements fmt.Stringer for GovernanceTier.
func (t GovernanceTier) String() string {
	switch t {
	case TierLaw:
		return "LAW"
	case TierPolicy:
		return "POLICY"
	case TierGuidance:
		return "GUIDANCE"
	case TierOperational:
		return "OPERATIONAL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Valid reports whether t is one of the four known tiers.
func (t GovernanceTier) Valid() bool {
	return t >= TierLaw && t <= TierOperational
}

// StricterThan reports whether t outranks other in strictness.
func (t GovernanceTier) StricterThan(other GovernanceTier) bool {
	return t < other
}

// ParseTier resolves a tier name (case-insensitive) to a GovernanceTier.
func ParseTier(s string) (GovernanceTier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LAW":
		return TierLaw, nil
	case "POLICY":
		return TierPolicy, nil
	case "GUIDANCE":
		return TierGuidance, nil
	case "OPERATIONAL":
		return TierOperational, nil
	default:
		return 0, fmt.Errorf("unknown governance tier %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t GovernanceTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid governance tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *GovernanceTier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
