package orchestrator

import "time"

// Clock schedules the orchestrator's timed transitions: the settle delay
// before the grid becomes interactive and the persistence debounce. It
// exists so tests can drive time by hand; production code uses the system
// clock.
type Clock interface {
	// AfterFunc runs fn after d elapses, on an unspecified goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer; it reports false if the callback already ran
	// or was stopped.
	Stop() bool
}

// systemClock is the production Clock backed by the time package.
type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock returns the production clock.
func SystemClock() Clock { return systemClock{} }
