package memgrid

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridkit/pkg/engine"
)

// Drag simulates a completed user drag to a new position. It is a no-op
// while the grid is static or the node is not movable.
func (g *Grid) Drag(id string, x, y int) {
	n, ok := g.nodes[id]
	if !ok || g.static || !n.movable {
		return
	}
	n.rect.X, n.rect.Y = x, y
	g.clamp(n)
	g.hints[id] = n.rect
	g.touch(id, engine.ReasonDrag)
	g.settle()
}

// Resize simulates a completed user resize. It is a no-op while the grid is
// static or the node is not resizable.
func (g *Grid) Resize(id string, w, h int) {
	n, ok := g.nodes[id]
	if !ok || g.static || !n.resizable {
		return
	}
	n.rect.W, n.rect.H = w, h
	g.clamp(n)
	g.hints[id] = n.rect
	g.touch(id, engine.ReasonResize)
	g.settle()
}

// Add registers a new widget from user interaction, autopositioned when x
// is negative, and emits an add event.
func (g *Grid) Add(id string, x, y, w, h int) {
	if _, exists := g.nodes[id]; exists {
		return
	}
	n := g.ensure(id)
	n.rect = engine.Rect{X: max(x, 0), Y: max(y, 0), W: w, H: h}
	g.clamp(n)
	if x < 0 {
		n.rect = g.autoPlace(id, n.rect)
	}
	g.hints[id] = n.rect
	g.touch(id, engine.ReasonAdd)
	g.settle()
}

// ensure returns the node for id, registering a movable, resizable 1x1 node
// at the origin if it does not exist yet.
func (g *Grid) ensure(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		rect:      engine.Rect{W: 1, H: 1},
		minW:      1,
		minH:      1,
		movable:   true,
		resizable: true,
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// clamp forces a node's rectangle onto the grid and above its minimums.
func (g *Grid) clamp(n *node) {
	n.rect.W = max(n.rect.W, n.minW, 1)
	n.rect.H = max(n.rect.H, n.minH, 1)
	n.rect.W = min(n.rect.W, g.cfg.Columns)
	n.rect.X = max(n.rect.X, 0)
	n.rect.Y = max(n.rect.Y, 0)
	if n.rect.X+n.rect.W > g.cfg.Columns {
		n.rect.X = g.cfg.Columns - n.rect.W
	}
}

// autoPlace picks a position for a node: its cached hint if that spot is
// still free, otherwise the first free slot scanning rows top to bottom.
func (g *Grid) autoPlace(id string, r engine.Rect) engine.Rect {
	if hint, ok := g.hints[id]; ok && hint.W == r.W && hint.H == r.H && !g.collides(id, hint) {
		return hint
	}
	for y := 0; ; y++ {
		for x := 0; x+r.W <= g.cfg.Columns; x++ {
			probe := engine.Rect{X: x, Y: y, W: r.W, H: r.H}
			if !g.collides(id, probe) {
				return probe
			}
		}
	}
}

// collides reports whether the rectangle overlaps any node other than id.
func (g *Grid) collides(id string, r engine.Rect) bool {
	for otherID, other := range g.nodes {
		if otherID == id {
			continue
		}
		o := other.rect
		if r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H {
			return true
		}
	}
	return false
}

// settle is the reactive re-layout pass: outside a batch it resolves
// collisions by pushing movable nodes downward and then delivers the
// accumulated changes. Inside a batch it does nothing; EndBatch calls it
// once for the whole batch.
func (g *Grid) settle() {
	if g.batching {
		return
	}
	g.resolve()
	g.emit()
}

// resolve walks nodes in (y, x, id) order and pushes each movable node down
// past any earlier node it overlaps. Non-movable nodes never move, which is
// what lets a caller suppress reactive compaction by marking everything
// non-movable before force-writing geometry.
func (g *Grid) resolve() {
	ordered := g.sortedIDs()
	for i, id := range ordered {
		n := g.nodes[id]
		if !n.movable {
			continue
		}
		for g.collidesWithAny(id, n.rect, ordered[:i]) {
			n.rect.Y++
			g.touch(id, engine.ReasonProgrammatic)
		}
	}
}

// collidesWithAny reports whether r overlaps any of the given nodes.
func (g *Grid) collidesWithAny(id string, r engine.Rect, others []string) bool {
	for _, otherID := range others {
		if otherID == id {
			continue
		}
		o := g.nodes[otherID].rect
		if r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H {
			return true
		}
	}
	return false
}

// sortedIDs returns node IDs in (y, x, id) order.
func (g *Grid) sortedIDs() []string {
	ids := slices.Clone(g.order)
	slices.SortStableFunc(ids, func(a, b string) int {
		ra, rb := g.nodes[a].rect, g.nodes[b].rect
		if c := cmp.Compare(ra.Y, rb.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(ra.X, rb.X); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// touch records that a node changed and why. The first reason wins within
// one delivery window so a drag that triggers pushes reports as a drag for
// the dragged node and programmatic for the pushed ones.
func (g *Grid) touch(id string, reason engine.Reason) {
	if _, ok := g.pending[id]; !ok {
		g.pending[id] = reason
	}
}

// emit delivers pending changes to all subscribers in (y, x, id) order and
// clears the pending set.
func (g *Grid) emit() {
	if len(g.pending) == 0 {
		return
	}
	ids := make([]string, 0, len(g.pending))
	for id := range g.pending {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		na, aok := g.nodes[a]
		nb, bok := g.nodes[b]
		if aok != bok {
			// Removed nodes sort last.
			if aok {
				return -1
			}
			return 1
		}
		if aok && bok {
			if c := cmp.Compare(na.rect.Y, nb.rect.Y); c != 0 {
				return c
			}
			if c := cmp.Compare(na.rect.X, nb.rect.X); c != 0 {
				return c
			}
		}
		return cmp.Compare(a, b)
	})

	changes := make([]engine.Change, 0, len(ids))
	for _, id := range ids {
		ch := engine.Change{ID: id, Reason: g.pending[id]}
		if n, ok := g.nodes[id]; ok {
			ch.Rect = n.rect
		}
		changes = append(changes, ch)
	}
	g.pending = make(map[string]engine.Reason)

	for _, fn := range g.subs {
		fn(changes)
	}
}
