package player

import "time"

// Scheduler decouples the supervisor from the concrete reactor
// implementation: playing a "sop" URI needs to schedule a follow-up
// spawn after a warmup delay without blocking the caller or the reactor
// goroutine itself. Satisfied by *reactor.Reactor; tests can supply a
// fake that fires fn immediately or records it for manual triggering.
type Scheduler interface {
	PostAfter(d time.Duration, fn func())
}
