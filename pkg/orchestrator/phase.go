package orchestrator

// State is the orchestrator's position in its lifecycle. The terminal
// steady state is [StateInteractive]; [StateSettled] is a transient
// intermediate used only during (re)initialization or a breakpoint switch.
type State int

const (
	// StateUninitialized is the state before the first Initialize call.
	StateUninitialized State = iota
	// StatePreparing resolves which layout becomes active.
	StatePreparing
	// StateApplying force-writes geometry inside a transaction.
	StateApplying
	// StateVerifying reconciles intended geometry with what the engine
	// actually holds.
	StateVerifying
	// StateSettled means geometry is correct but the grid is not yet shown
	// or interactive.
	StateSettled
	// StateInteractive is the steady state: the grid is visible and
	// user-driven changes flow back through the orchestrator.
	StateInteractive
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePreparing:
		return "preparing"
	case StateApplying:
		return "applying"
	case StateVerifying:
		return "verifying"
	case StateSettled:
		return "settled"
	case StateInteractive:
		return "interactive"
	}
	return "unknown"
}

// Phase is the visual state of the grid, decoupled from the lifecycle so
// that "geometry is correct" and "geometry is shown" are separate facts.
// This is what eliminates visible shuffling on load.
type Phase int

const (
	// PhaseHidden means the grid is not shown and transitions are off.
	PhaseHidden Phase = iota
	// PhaseStabilizing means the grid is fading in but not yet interactive.
	PhaseStabilizing
	// PhaseVisible means the grid is shown and fully interactive.
	PhaseVisible
)

// String returns the phase name for logging and UI affordances.
func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseStabilizing:
		return "stabilizing"
	case PhaseVisible:
		return "visible"
	}
	return "unknown"
}
