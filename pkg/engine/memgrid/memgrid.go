// Package memgrid is an in-memory reference implementation of the
// engine contract: column-clamped placement, downward collision push,
// first-fit autoposition, and vertical compaction.
//
// It exists so the orchestrator can be exercised without a real rendering
// surface; tests and the interactive demo both drive it. It is not safe for
// concurrent use, matching the single-goroutine contract of
// [engine.Engine].
package memgrid

import (
	"slices"

	"github.com/matzehuels/gridkit/pkg/engine"
)

// node is one managed widget plus its interaction flags.
type node struct {
	rect       engine.Rect
	minW, minH int
	movable    bool
	resizable  bool
}

// Grid implements [engine.Engine] in memory.
type Grid struct {
	cfg   engine.Config
	nodes map[string]*node
	order []string // insertion order, for deterministic iteration

	// hints caches the last explicitly written rectangle per id. Hints
	// survive Remove and are preferred by autoposition, modeling engines
	// that leave positional state behind in their render surface.
	hints map[string]engine.Rect

	static   bool
	animated bool

	batching bool
	pending  map[string]engine.Reason

	subs    map[int]func([]engine.Change)
	nextSub int
}

// New creates a grid from the given configuration. A non-positive column
// count defaults to 12.
func New(cfg engine.Config) *Grid {
	if cfg.Columns < 1 {
		cfg.Columns = 12
	}
	return &Grid{
		cfg:      cfg,
		nodes:    make(map[string]*node),
		hints:    make(map[string]engine.Rect),
		static:   cfg.InitiallyStatic,
		animated: !cfg.InitiallyStatic,
		pending:  make(map[string]engine.Reason),
		subs:     make(map[int]func([]engine.Change)),
	}
}

// Config returns the configuration the grid was created with.
func (g *Grid) Config() engine.Config { return g.cfg }

// Animated reports whether animated transitions are enabled.
func (g *Grid) Animated() bool { return g.animated }

// Static reports whether user interaction is globally disabled.
func (g *Grid) Static() bool { return g.static }

// Len returns the number of managed nodes.
func (g *Grid) Len() int { return len(g.nodes) }

// IDs returns all node IDs in insertion order.
func (g *Grid) IDs() []string { return slices.Clone(g.order) }

// SetConstraints registers minimum sizes for a node, creating it if needed.
// Existing geometry is clamped immediately.
func (g *Grid) SetConstraints(id string, minW, minH int) {
	n := g.ensure(id)
	n.minW = max(minW, 1)
	n.minH = max(minH, 1)
	g.clamp(n)
}

// SetGeometry writes a node's rectangle. With autoPosition the requested
// position is ignored in favor of the node's cached hint (if still free) or
// the first free slot.
func (g *Grid) SetGeometry(id string, x, y, w, h int, autoPosition bool) {
	n := g.ensure(id)
	n.rect = engine.Rect{X: x, Y: y, W: w, H: h}
	g.clamp(n)
	if autoPosition {
		n.rect = g.autoPlace(id, n.rect)
	}
	g.hints[id] = n.rect
	g.touch(id, engine.ReasonProgrammatic)
	g.settle()
}

// Geometry reports the node's actual rectangle.
func (g *Grid) Geometry(id string) (engine.Rect, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return engine.Rect{}, false
	}
	return n.rect, true
}

// Remove deletes a node. Its hint survives until ClearHints.
func (g *Grid) Remove(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.touch(id, engine.ReasonRemove)
	g.settle()
}

// BeginBatch suspends collision resolution and change delivery.
func (g *Grid) BeginBatch() {
	if g.batching {
		panic("memgrid: nested batch")
	}
	g.batching = true
}

// EndBatch resolves collisions once over everything written during the
// batch and delivers the coalesced changes.
func (g *Grid) EndBatch() {
	if !g.batching {
		panic("memgrid: EndBatch without BeginBatch")
	}
	g.batching = false
	g.settle()
}

// Compact moves movable nodes upward until no vertical gaps remain.
func (g *Grid) Compact() {
	for _, id := range g.sortedIDs() {
		n := g.nodes[id]
		if !n.movable {
			continue
		}
		for n.rect.Y > 0 {
			probe := n.rect
			probe.Y--
			if g.collides(id, probe) {
				break
			}
			n.rect = probe
			g.touch(id, engine.ReasonProgrammatic)
		}
	}
	g.settle()
}

// SetStatic toggles all user interaction.
func (g *Grid) SetStatic(on bool) { g.static = on }

// SetAnimated toggles animated transitions.
func (g *Grid) SetAnimated(on bool) { g.animated = on }

// SetMovable toggles whether one node may move, registering the node if it
// is not known yet so a pin placed before the first geometry write sticks.
func (g *Grid) SetMovable(id string, on bool) {
	g.ensure(id).movable = on
}

// SetResizable toggles whether one node may be resized, registering the
// node if it is not known yet.
func (g *Grid) SetResizable(id string, on bool) {
	g.ensure(id).resizable = on
}

// ClearHints discards the cached rectangle for a node.
func (g *Grid) ClearHints(id string) {
	delete(g.hints, id)
}

// Hint returns the cached rectangle for a node, if any. Used by tests.
func (g *Grid) Hint(id string) (engine.Rect, bool) {
	r, ok := g.hints[id]
	return r, ok
}

// Subscribe registers a change listener and returns its cancel function.
func (g *Grid) Subscribe(fn func([]engine.Change)) (cancel func()) {
	key := g.nextSub
	g.nextSub++
	g.subs[key] = fn
	return func() { delete(g.subs, key) }
}

var _ engine.Engine = (*Grid)(nil)
