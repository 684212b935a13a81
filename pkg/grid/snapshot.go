package grid

import (
	"cmp"
	"slices"
)

// Snapshot is a complete description of every managed widget's position and
// size at one instant. Order is not significant for storage, but it is the
// application order when geometry is written to an engine, so callers that
// apply a snapshot sort it first with [Snapshot.SortForApply].
type Snapshot []Node

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// ByID returns the node with the given ID and whether it exists.
func (s Snapshot) ByID(id string) (Node, bool) {
	for _, n := range s {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// IndexOf returns the position of the node with the given ID, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i, n := range s {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the node IDs in snapshot order.
func (s Snapshot) IDs() []string {
	out := make([]string, len(s))
	for i, n := range s {
		out[i] = n.ID
	}
	return out
}

// SortForApply sorts the snapshot in place into deterministic application
// order: ascending (Y, X), with ID as the final tiebreaker. Engines with
// order-sensitive autoposition fallbacks need a reproducible write order for
// reproducible initial placement.
func (s Snapshot) SortForApply() {
	slices.SortStableFunc(s, func(a, b Node) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// EqualGeometry reports whether two snapshots describe the same widgets at
// the same positions and sizes, regardless of order. Constraints are ignored.
func (s Snapshot) EqualGeometry(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for _, n := range s {
		o, ok := other.ByID(n.ID)
		if !ok || !n.SameGeometry(o) {
			return false
		}
	}
	return true
}

// SingleColumn derives a mobile layout from a reference layout: every widget
// spans the full single-column width, stacked in the reference's (Y, X)
// reading order with heights preserved. The result carries the reference's
// constraints clamped to one column.
func SingleColumn(reference Snapshot) Snapshot {
	ordered := reference.Clone()
	ordered.SortForApply()

	out := make(Snapshot, 0, len(ordered))
	y := 0
	for _, n := range ordered {
		out = append(out, Node{
			ID:   n.ID,
			X:    0,
			Y:    y,
			W:    1,
			H:    n.H,
			MinW: 1,
			MinH: n.EffectiveMinH(),
		})
		y += n.H
	}
	return out
}
