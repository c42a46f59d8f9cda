package gates

// DefaultPipeline returns a pipeline pre-loaded with the structural and
// governance gates in canonical registration order (G1 → G8). G9 is not a
// pipeline gate; the friction subsystem produces its result.
func DefaultPipeline() *Pipeline {
	p := NewPipeline()

	p.Register(&G1StructuralLint{})
	p.Register(&G2GovernanceTier{})
	p.Register(&G3ConstitutionalContinuity{})
	p.Register(&G4BlockIndexIntegrity{})
	p.Register(&G5ContentHash{})
	p.Register(&G6IssuerAuthorization{})
	p.Register(&G7DriftTolerance{})
	p.Register(&G8FinalState{})

	return p
}
