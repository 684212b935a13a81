package orchestrator

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/engine"
	"github.com/matzehuels/gridkit/pkg/store"
)

const (
	// DefaultSettleDelay is how long the grid stays in PhaseStabilizing
	// before interaction is enabled.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultSaveDebounce is how long after the last change a persistence
	// write fires. Drag interactions emit bursts of events; only the state
	// after the last one is worth writing.
	DefaultSaveDebounce = 500 * time.Millisecond
)

// ErrMissingDependency is returned by [New] when the engine or store is nil.
var ErrMissingDependency = errors.New("orchestrator requires an engine and a store")

// Options configures an Orchestrator.
type Options struct {
	// Engine is the external grid-mechanics engine handle. Required.
	Engine engine.Engine

	// Store persists desktop layouts. Required.
	Store *store.LayoutStore

	// Logger receives diagnostics. Defaults to log.Default().
	Logger *log.Logger

	// Clock schedules timed transitions. Defaults to the system clock.
	Clock Clock

	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration

	// SaveDebounce overrides DefaultSaveDebounce when positive.
	SaveDebounce time.Duration
}

// validateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) validateAndSetDefaults() error {
	if o.Engine == nil || o.Store == nil {
		return ErrMissingDependency
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.SaveDebounce <= 0 {
		o.SaveDebounce = DefaultSaveDebounce
	}
	return nil
}
