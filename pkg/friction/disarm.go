//go:build !frictiontest

package friction

// disarmed is compiled out of release builds: friction cannot be
// bypassed at runtime.
func (o *Orchestrator) disarmed() bool { return false }
