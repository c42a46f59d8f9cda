package gates

import "time"

// Pipeline runs the registered structural gates in canonical order.
// All gates always run; a failure in one never suppresses another.
type Pipeline struct {
	gates   map[GateID]Gate
	ordered []GateID
	clock   func() time.Time
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		gates:   make(map[GateID]Gate),
		ordered: make([]GateID, 0, 8),
		clock:   time.Now,
	}
}

// WithClock overrides the clock for deterministic testing.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Register adds a gate. Gates run in registration order.
func (p *Pipeline) Register(g Gate) {
	id := g.ID()
	if _, exists := p.gates[id]; !exists {
		p.ordered = append(p.ordered, id)
	}
	p.gates[id] = g
}

// Run executes every registered gate against the artifact and returns
// the full ordered result set.
func (p *Pipeline) Run(ctx *RunContext) []*GateResult {
	if ctx.Clock == nil {
		ctx.Clock = p.clock
	}
	results := make([]*GateResult, 0, len(p.ordered))
	for _, id := range p.ordered {
		results = append(results, p.gates[id].Run(ctx))
	}
	return results
}

// GateIDs returns the registered gate order.
func (p *Pipeline) GateIDs() []GateID {
	out := make([]GateID, len(p.ordered))
	copy(out, p.ordered)
	return out
}
