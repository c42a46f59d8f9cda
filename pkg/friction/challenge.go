package friction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
)

// Challenge is an issued comprehension check. Expected answers are held
// as digests only; raw answers are never retained.
type Challenge struct {
	ID                string
	Type              ChallengeType
	Tier              artifact.GovernanceTier
	Prompt            string
	MaxAttempts       int
	ResponseTimeLimit time.Duration
	IssuedAt          time.Time

	expectedDigests []string
	attempts        int
}

// AttemptsUsed reports how many verification attempts were consumed.
func (c *Challenge) AttemptsUsed() int { return c.attempts }

// ChallengeResponse carries an operator's answer to an issued challenge.
// Attempt and ResponseDuration are client-reported transport metadata
// carried for audit trails; the verifier counts attempts and measures
// time itself and never trusts these fields.
type ChallengeResponse struct {
	ChallengeID      string
	Answer           string
	Attempt          int
	ResponseDuration time.Duration
}

// NormalizeAnswer canonicalizes an operator answer for comparison:
// Unicode NFKC, lowercased, surrounding whitespace stripped.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// AnswerDigest hashes a normalized answer so raw answers never persist.
func AnswerDigest(s string) string {
	sum := sha256.Sum256([]byte(NormalizeAnswer(s)))
	return hex.EncodeToString(sum[:])
}

// ChallengeVerifier issues and verifies comprehension challenges. All
// state transitions happen under one lock; a challenge is removed the
// moment it terminally succeeds or fails.
type ChallengeVerifier struct {
	mu         sync.Mutex
	clock      Clock
	reqs       Requirements
	challenges map[string]*Challenge
}

// NewChallengeVerifier creates a verifier over the given tier ladder.
func NewChallengeVerifier(clock Clock, reqs Requirements) *ChallengeVerifier {
	if clock == nil {
		clock = WallClock()
	}
	return &ChallengeVerifier{
		clock:      clock,
		reqs:       reqs,
		challenges: make(map[string]*Challenge),
	}
}

// Issue creates a live challenge for the tier. The decision summary is
// interpolated into the prompt so the operator must engage with what is
// actually being approved.
func (v *ChallengeVerifier) Issue(tier artifact.GovernanceTier, summary string) *Challenge {
	req := v.reqs.For(tier)
	prompt, digests := buildChallenge(req.ChallengeType, summary)

	c := &Challenge{
		ID:                uuid.New().String(),
		Type:              req.ChallengeType,
		Tier:              tier,
		Prompt:            prompt,
		MaxAttempts:       req.MaxAttempts,
		ResponseTimeLimit: req.ResponseTimeLimit,
		IssuedAt:          v.clock.Now(),
		expectedDigests:   digests,
	}

	v.mu.Lock()
	v.challenges[c.ID] = c
	v.mu.Unlock()
	return c
}

// buildChallenge renders the prompt and acceptable answer digests for a
// challenge type against the decision summary.
func buildChallenge(ct ChallengeType, summary string) (string, []string) {
	switch ct {
	case ChallengeConsequence:
		ack := "I accept full responsibility for this law-tier decision"
		prompt := fmt.Sprintf("You are approving: %s. Type the acknowledgment %q to proceed.", summary, ack)
		return prompt, []string{AnswerDigest(ack), AnswerDigest(ack + ".")}
	case ChallengeSemantic:
		keyword := scopeKeyword(summary)
		prompt := fmt.Sprintf("You are approving: %s. Enter the scope keyword %q to confirm you understand what this changes.", summary, keyword)
		return prompt, []string{AnswerDigest(keyword)}
	case ChallengeDigest:
		digest := summaryDigest(summary)
		prompt := fmt.Sprintf("Re-enter the review digest %s to confirm you have read: %s", digest, summary)
		return prompt, []string{AnswerDigest(digest)}
	default:
		prompt := fmt.Sprintf("Type CONFIRM to approve: %s", summary)
		return prompt, []string{AnswerDigest("confirm"), AnswerDigest("confirmed"), AnswerDigest("yes")}
	}
}

// scopeKeyword extracts the leading token of the summary as the semantic
// check target.
func scopeKeyword(summary string) string {
	fields := strings.Fields(NormalizeAnswer(summary))
	if len(fields) == 0 {
		return "scope"
	}
	return strings.Trim(fields[0], ".,:;")
}

// summaryDigest is the short digest an operator re-enters for DIGEST
// challenges.
func summaryDigest(summary string) string {
	sum := sha256.Sum256([]byte(NormalizeAnswer(summary)))
	return hex.EncodeToString(sum[:4])
}

// Verify checks a response against its challenge.
//
//   - unknown challenge ID: ChallengeNotFoundError
//   - expired: challenge removed, ChallengeFailureError
//   - attempts exhausted: challenge removed, ChallengeFailureError
//   - correct: challenge removed, returns true
//   - incorrect with attempts remaining: challenge kept, ChallengeIncorrectError
//   - incorrect on the final attempt: challenge removed, ChallengeFailureError
func (v *ChallengeVerifier) Verify(resp ChallengeResponse) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.challenges[resp.ChallengeID]
	if !ok {
		return false, &ChallengeNotFoundError{ChallengeID: resp.ChallengeID}
	}

	if v.clock.Now().Sub(c.IssuedAt) > c.ResponseTimeLimit {
		delete(v.challenges, c.ID)
		return false, &ChallengeFailureError{ChallengeID: c.ID, Cause: "response time limit exceeded"}
	}

	c.attempts++
	if c.attempts > c.MaxAttempts {
		delete(v.challenges, c.ID)
		return false, &ChallengeFailureError{ChallengeID: c.ID, Cause: "attempt limit exceeded"}
	}

	digest := AnswerDigest(resp.Answer)
	for _, want := range c.expectedDigests {
		if digest == want {
			delete(v.challenges, c.ID)
			return true, nil
		}
	}

	if c.attempts >= c.MaxAttempts {
		delete(v.challenges, c.ID)
		return false, &ChallengeFailureError{ChallengeID: c.ID, Cause: "incorrect answer on final attempt"}
	}
	return false, &ChallengeIncorrectError{
		ChallengeID:       c.ID,
		AttemptsRemaining: c.MaxAttempts - c.attempts,
	}
}

// SweepExpired removes challenges past their response time limit and
// returns how many were dropped.
func (v *ChallengeVerifier) SweepExpired() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.clock.Now()
	dropped := 0
	for id, c := range v.challenges {
		if now.Sub(c.IssuedAt) > c.ResponseTimeLimit {
			delete(v.challenges, id)
			dropped++
		}
	}
	return dropped
}

// LiveCount reports the number of outstanding challenges.
func (v *ChallengeVerifier) LiveCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.challenges)
}
