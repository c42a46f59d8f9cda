package kernel

import (
	"errors"
	"fmt"

	"github.com/chainbridge-occ/kernel/pkg/friction"
)

// Category buckets every kernel failure into one of seven classes. The
// external code is stable and safe to expose; internal detail stays in
// the wrapped error.
type Category int

const (
	CategoryStructural Category = iota + 1
	CategoryGovernance
	CategoryTiming
	CategoryAuthorization
	CategoryConsistency
	CategoryRate
	CategoryInternal
)

var categoryNames = map[Category]string{
	CategoryStructural:    "STRUCTURAL",
	CategoryGovernance:    "GOVERNANCE",
	CategoryTiming:        "TIMING",
	CategoryAuthorization: "AUTHORIZATION",
	CategoryConsistency:   "CONSISTENCY",
	CategoryRate:          "RATE",
	CategoryInternal:      "INTERNAL",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// ExternalCode is the numeric code surfaced to callers.
func (c Category) ExternalCode() int { return int(c) * 1000 }

// KernelError wraps a failure with its category and the operation that
// produced it.
type KernelError struct {
	Category Category
	Op       string
	Err      error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("%s [%d] %s: %v", e.Category, e.Category.ExternalCode(), e.Op, e.Err)
}

func (e *KernelError) Unwrap() error { return e.Err }

// wrap builds a KernelError around err.
func wrap(c Category, op string, err error) *KernelError {
	return &KernelError{Category: c, Op: op, Err: err}
}

// Classify maps a friction error onto its kernel category. Unknown
// errors are internal.
func Classify(err error) Category {
	var (
		notStarted *friction.TimerNotStartedError
		skew       *friction.SystemTimeError
		dwell      *friction.DwellTimeViolationError
		chReq      *friction.ChallengeRequiredError
		chMissing  *friction.ChallengeNotFoundError
		chFail     *friction.ChallengeFailureError
		chRetry    *friction.ChallengeIncorrectError
		remember   *friction.RememberForbiddenError
		velocity   *friction.VelocityViolationError
	)
	switch {
	case errors.As(err, &dwell), errors.As(err, &notStarted):
		return CategoryTiming
	case errors.As(err, &chReq), errors.As(err, &chFail), errors.As(err, &chRetry):
		return CategoryGovernance
	case errors.As(err, &remember):
		return CategoryAuthorization
	case errors.As(err, &velocity):
		return CategoryRate
	case errors.As(err, &skew), errors.As(err, &chMissing):
		return CategoryInternal
	default:
		return CategoryInternal
	}
}
