package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/chainbridge-occ/kernel/pkg/decision"
)

// MemoryLedger is an in-process Ledger for tests and ephemeral runs.
type MemoryLedger struct {
	mu      sync.RWMutex
	byID    map[string]*decision.Object
	ordered []*decision.Object
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{byID: make(map[string]*decision.Object)}
}

func (m *MemoryLedger) Append(_ context.Context, obj *decision.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *obj
	m.byID[obj.ID] = &cp
	m.ordered = append(m.ordered, &cp)
	return nil
}

func (m *MemoryLedger) Get(_ context.Context, id string) (*decision.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *obj
	return &cp, nil
}

func (m *MemoryLedger) ListByPAC(_ context.Context, pacID string) ([]*decision.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*decision.Object, 0)
	for _, obj := range m.ordered {
		if obj.PACID == pacID {
			cp := *obj
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EvaluatedAt.Before(out[j].EvaluatedAt)
	})
	return out, nil
}

func (m *MemoryLedger) List(_ context.Context, limit int) ([]*decision.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]*decision.Object, 0, limit)
	for i := len(m.ordered) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.ordered[i]
		out = append(out, &cp)
	}
	return out, nil
}
