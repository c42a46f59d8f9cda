package friction

import (
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// ChallengeType identifies the class of comprehension challenge a tier
// demands before a decision is accepted.
type ChallengeType int

const (
	// ChallengeConfirmation is a plain typed acknowledgment (difficulty 1).
	ChallengeConfirmation ChallengeType = iota + 1
	// ChallengeDigest requires re-entering a digest of the reviewed
	// material (difficulty 2).
	ChallengeDigest
	// ChallengeSemantic requires restating what the decision affects
	// (difficulty 3).
	ChallengeSemantic
	// ChallengeConsequence requires typing a full consequence
	// acknowledgment (difficulty 4).
	ChallengeConsequence
)

var challengeTypeNames = map[ChallengeType]string{
	ChallengeConfirmation: "CONFIRMATION",
	ChallengeDigest:       "DIGEST",
	ChallengeSemantic:     "SEMANTIC",
	ChallengeConsequence:  "CONSEQUENCE",
}

func (t ChallengeType) String() string {
	if name, ok := challengeTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Difficulty returns the 1-4 difficulty rank of the challenge type.
func (t ChallengeType) Difficulty() int { return int(t) }

// TierRequirements bundles the friction parameters one governance tier
// imposes on a decision.
type TierRequirements struct {
	// MinDwell is the minimum review time before a decision is accepted.
	MinDwell time.Duration
	// ChallengeRequired forces a comprehension challenge before approval.
	ChallengeRequired bool
	// ChallengeType selects the challenge class issued for the tier.
	ChallengeType ChallengeType
	// MaxAttempts bounds how many verification attempts one challenge
	// admits before it is consumed.
	MaxAttempts int
	// ResponseTimeLimit bounds how long an issued challenge stays live.
	ResponseTimeLimit time.Duration
	// RememberAllowed permits the "remember this decision" shortcut.
	RememberAllowed bool
	// MaxPerMinute is the velocity ceiling inside the sliding window.
	MaxPerMinute int
}

// Requirements maps every governance tier to its friction parameters.
type Requirements map[artifact.GovernanceTier]TierRequirements

// DefaultRequirements returns the built-in tier ladder. Stricter tiers
// demand longer dwell, harder challenges, fewer attempts, and lower
// velocity ceilings.
func DefaultRequirements() Requirements {
	return Requirements{
		artifact.TierLaw: {
			MinDwell:          5 * time.Second,
			ChallengeRequired: true,
			ChallengeType:     ChallengeConsequence,
			MaxAttempts:       2,
			ResponseTimeLimit: 120 * time.Second,
			RememberAllowed:   false,
			MaxPerMinute:      3,
		},
		artifact.TierPolicy: {
			MinDwell:          3 * time.Second,
			ChallengeRequired: true,
			ChallengeType:     ChallengeSemantic,
			MaxAttempts:       3,
			ResponseTimeLimit: 90 * time.Second,
			RememberAllowed:   false,
			MaxPerMinute:      6,
		},
		artifact.TierGuidance: {
			MinDwell:          2 * time.Second,
			ChallengeRequired: false,
			ChallengeType:     ChallengeDigest,
			MaxAttempts:       3,
			ResponseTimeLimit: 60 * time.Second,
			RememberAllowed:   true,
			MaxPerMinute:      10,
		},
		artifact.TierOperational: {
			MinDwell:          1 * time.Second,
			ChallengeRequired: false,
			ChallengeType:     ChallengeConfirmation,
			MaxAttempts:       5,
			ResponseTimeLimit: 30 * time.Second,
			RememberAllowed:   true,
			MaxPerMinute:      20,
		},
	}
}

// For returns the requirements for a tier, falling back to the LAW row
// for unknown tiers so an unrecognized tier never weakens friction.
func (r Requirements) For(tier artifact.GovernanceTier) TierRequirements {
	if req, ok := r[tier]; ok {
		return req
	}
	return r[artifact.TierLaw]
}
