// Package ledger persists sealed decision objects for audit.
package ledger

import (
	"context"
	"errors"

	"github.com/chainbridge-occ/kernel/pkg/decision"
)

// ErrNotFound is returned when no record matches the query.
var ErrNotFound = errors.New("ledger: record not found")

// Ledger is the durable, append-only store of decision objects.
type Ledger interface {
	// Append persists a sealed decision. Records are never updated.
	Append(ctx context.Context, obj *decision.Object) error

	// Get retrieves a decision by its ID.
	Get(ctx context.Context, id string) (*decision.Object, error)

	// ListByPAC retrieves every decision recorded for a PAC, oldest
	// first.
	ListByPAC(ctx context.Context, pacID string) ([]*decision.Object, error)

	// List retrieves the most recent decisions, newest first.
	List(ctx context.Context, limit int) ([]*decision.Object, error)
}
