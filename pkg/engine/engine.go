// Package engine defines the capability contract the layout orchestrator
// requires from an external grid-mechanics engine.
//
// The engine owns the raw grid mechanics: collision detection, autoposition,
// and compaction. It holds a derived mirror of the orchestrator's layout
// state that is authoritative only between batches; the orchestrator is the
// sole writer. Implementations are expected to be driven from a single
// goroutine.
//
// The sibling package memgrid provides an in-memory reference implementation
// used by tests and the interactive demo.
package engine

// Rect is a widget's position and size in grid cells.
type Rect struct {
	X, Y, W, H int
}

// Reason tags why a change event was emitted.
type Reason string

const (
	// ReasonDrag marks a geometry change from a completed user drag.
	ReasonDrag Reason = "drag"
	// ReasonResize marks a geometry change from a completed user resize.
	ReasonResize Reason = "resize"
	// ReasonAdd marks a widget newly added to the grid.
	ReasonAdd Reason = "add"
	// ReasonRemove marks a widget removed from the grid.
	ReasonRemove Reason = "remove"
	// ReasonProgrammatic marks a change originating from an API write,
	// including the engine's own collision resolution and compaction.
	ReasonProgrammatic Reason = "programmatic"
)

// Change describes one node affected by an engine mutation.
type Change struct {
	ID string
	Rect
	Reason Reason
}

// Config is the engine's initialization configuration.
type Config struct {
	// Columns is the grid width in cells.
	Columns int
	// MarginPx is the visual gap between cells, in pixels.
	MarginPx int
	// Float, when false, makes widgets gravitate upward after moves.
	Float bool
	// InitiallyStatic starts the grid with interaction disabled.
	InitiallyStatic bool
}

// Engine is the narrow contract consumed by the orchestrator. Geometry
// writes inside a BeginBatch/EndBatch pair are observed by subscribers only
// when the batch ends; outside a batch every write is observable
// immediately, including any collision resolution it triggers.
type Engine interface {
	// SetConstraints registers minimum-size constraints for a node.
	// Constraints must be written before geometry so that geometry can be
	// clamped against them.
	SetConstraints(id string, minW, minH int)

	// SetGeometry writes a node's position and size. When autoPosition is
	// true the engine ignores x/y and places the node in the first free
	// slot; the orchestrator always passes false during layout application.
	// Writing geometry for an unknown id registers the node.
	SetGeometry(id string, x, y, w, h int, autoPosition bool)

	// Geometry reports the node's actual current rectangle, which may
	// differ from the last written one if the engine resolved a collision
	// independently.
	Geometry(id string) (Rect, bool)

	// Remove deletes a node from the grid.
	Remove(id string)

	// BeginBatch suspends change delivery and reactive re-layout until
	// EndBatch. Batches do not nest.
	BeginBatch()
	// EndBatch runs one collision-resolution pass over everything written
	// during the batch and delivers the coalesced changes.
	EndBatch()

	// Compact removes vertical gaps between widgets.
	Compact()

	// SetStatic toggles all user interaction (move and resize) globally.
	SetStatic(on bool)
	// SetAnimated toggles the engine's animated transitions.
	SetAnimated(on bool)
	// SetMovable toggles whether one node may be moved, by the user or by
	// the engine's own reactive compaction.
	SetMovable(id string, on bool)
	// SetResizable toggles whether one node may be resized.
	SetResizable(id string, on bool)

	// ClearHints discards any cached positional state for a node left over
	// from earlier writes, so nothing leaks across breakpoint switches.
	ClearHints(id string)

	// Subscribe registers a listener for change events and returns a
	// function that unregisters it. Listeners are invoked synchronously in
	// the goroutine that mutated the engine.
	Subscribe(fn func([]Change)) (cancel func())
}
