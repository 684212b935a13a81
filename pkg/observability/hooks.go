// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout lifecycle transitions and store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnStateChange("desktop", "applying")
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout orchestration lifecycle.
type LayoutHooks interface {
	// OnStateChange records a lifecycle state transition.
	OnStateChange(breakpoint, state string)

	// OnPhaseChange records a visual phase transition.
	OnPhaseChange(breakpoint, phase string)

	// OnDrift records a widget whose applied geometry diverged from the
	// intended layout, and whether correction converged.
	OnDrift(widget string, corrected bool)

	// OnCompact records a compaction pass.
	OnCompact(breakpoint string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from layout persistence.
type StoreHooks interface {
	// OnLoad records a load attempt and whether a usable layout was found.
	OnLoad(breakpoint string, found bool, duration time.Duration)

	// OnDiscard records a saved layout rejected during load.
	OnDiscard(breakpoint, reason string)

	// OnSave records a persisted layout and its serialized size.
	OnSave(breakpoint string, size int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnStateChange(string, string) {}
func (NoopLayoutHooks) OnPhaseChange(string, string) {}
func (NoopLayoutHooks) OnDrift(string, bool)         {}
func (NoopLayoutHooks) OnCompact(string)             {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(string, bool, time.Duration) {}
func (NoopStoreHooks) OnDiscard(string, string)           {}
func (NoopStoreHooks) OnSave(string, int, time.Duration)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any grid operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
}
