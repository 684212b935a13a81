package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned by [Validate] when the candidate does not
	// contain exactly one node per reference node.
	ErrLengthMismatch = errors.New("candidate and reference differ in length")

	// ErrMissingNode is returned by [Validate] when a reference node has no
	// candidate node with the same ID.
	ErrMissingNode = errors.New("candidate is missing a reference node")
)

// Validate checks a candidate layout against a reference (default) layout
// and returns nil if the candidate may replace it. The rules apply in order:
//
//  1. The candidate must have exactly as many nodes as the reference.
//  2. Every reference ID must appear in the candidate.
//  3. No matched node may be smaller than the reference's minimums.
//
// Together with rule 1, rule 2 implies the candidate's ID set equals the
// reference's exactly. Validate is pure and never mutates its arguments.
// Callers must treat a failure the same as absent data: fall back to the
// reference layout.
func Validate(candidate, reference Snapshot) error {
	if len(candidate) != len(reference) {
		return fmt.Errorf("%w: candidate has %d nodes, reference has %d",
			ErrLengthMismatch, len(candidate), len(reference))
	}
	for _, ref := range reference {
		c, ok := candidate.ByID(ref.ID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingNode, ref.ID)
		}
		if c.W < ref.EffectiveMinW() || c.H < ref.EffectiveMinH() {
			return fmt.Errorf("%w: %s is %dx%d, minimum %dx%d",
				ErrBelowMinimum, ref.ID, c.W, c.H, ref.EffectiveMinW(), ref.EffectiveMinH())
		}
	}
	return nil
}

// IsValid is the boolean form of [Validate].
func IsValid(candidate, reference Snapshot) bool {
	return Validate(candidate, reference) == nil
}

// Rehydrate copies minimum-size constraints from the reference onto each
// candidate node, matched by ID. Constraints are not persisted; they are
// re-derived from the reference layout whenever a saved layout is loaded.
// Candidate nodes without a reference counterpart keep their own constraints.
func Rehydrate(candidate, reference Snapshot) Snapshot {
	out := candidate.Clone()
	for i, n := range out {
		if ref, ok := reference.ByID(n.ID); ok {
			out[i].MinW = ref.EffectiveMinW()
			out[i].MinH = ref.EffectiveMinH()
		}
	}
	return out
}
