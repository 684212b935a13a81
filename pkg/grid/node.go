package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Node.Check] when the node ID is empty.
	// All nodes must have non-empty, session-stable identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidGeometry is returned by [Node.Check] when a coordinate is
	// negative or a dimension is smaller than one cell.
	ErrInvalidGeometry = errors.New("invalid node geometry")

	// ErrBelowMinimum is returned by [Node.Check] and [Validate] when a node's
	// size is smaller than its minimum-size constraint.
	ErrBelowMinimum = errors.New("node smaller than its minimum size")
)

// Node describes one widget cell on the grid: identity, geometry, and
// minimum-size constraints. The ID is the join key across default, saved,
// and runtime representations of the same layout; X/Y/W/H are the mutable
// payload. Nodes are plain values and are copied freely.
type Node struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW int    `json:"minW,omitempty"`
	MinH int    `json:"minH,omitempty"`
}

// Check reports whether the node is internally consistent: non-empty ID,
// non-negative position, at least 1x1 in size, and no smaller than its own
// minimums. A zero minimum is treated as 1.
func (n Node) Check() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.X < 0 || n.Y < 0 || n.W < 1 || n.H < 1 {
		return fmt.Errorf("%w: %s at (%d,%d) size %dx%d", ErrInvalidGeometry, n.ID, n.X, n.Y, n.W, n.H)
	}
	if n.W < n.EffectiveMinW() || n.H < n.EffectiveMinH() {
		return fmt.Errorf("%w: %s is %dx%d, minimum %dx%d", ErrBelowMinimum, n.ID, n.W, n.H, n.EffectiveMinW(), n.EffectiveMinH())
	}
	return nil
}

// EffectiveMinW returns the minimum width constraint, treating zero as 1.
func (n Node) EffectiveMinW() int {
	if n.MinW < 1 {
		return 1
	}
	return n.MinW
}

// EffectiveMinH returns the minimum height constraint, treating zero as 1.
func (n Node) EffectiveMinH() int {
	if n.MinH < 1 {
		return 1
	}
	return n.MinH
}

// SameGeometry reports whether two nodes occupy the same position and size.
// Constraints are ignored; they are derived state, not payload.
func (n Node) SameGeometry(o Node) bool {
	return n.X == o.X && n.Y == o.Y && n.W == o.W && n.H == o.H
}

// Overlaps reports whether the rectangles of n and o intersect.
func (n Node) Overlaps(o Node) bool {
	return n.X < o.X+o.W && o.X < n.X+n.W && n.Y < o.Y+o.H && o.Y < n.Y+n.H
}
