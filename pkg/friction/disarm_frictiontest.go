//go:build frictiontest

package friction

import "sync/atomic"

// disarmFlag is only linkable under the frictiontest build tag, so no
// production binary can carry the bypass.
var disarmFlag atomic.Bool

// SetDisarmed toggles the friction bypass for integration harnesses.
func SetDisarmed(v bool) { disarmFlag.Store(v) }

func (o *Orchestrator) disarmed() bool { return disarmFlag.Load() }
