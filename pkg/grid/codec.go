package grid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedLayout is returned by [UnmarshalPlacements] when the input is
// empty, not valid JSON, or structurally stale (missing IDs, non-positive
// sizes). Callers reading durable storage treat it as "no saved layout";
// callers importing clipboard text surface it as a typed failure.
var ErrMalformedLayout = errors.New("malformed layout data")

// placement is the serialized form of one node: identity and geometry only.
// Constraints are never persisted; they are re-derived from the reference
// layout at load time (see [Rehydrate]).
type placement struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

// MarshalPlacements serializes a snapshot as a JSON array of
// {id, x, y, w, h} objects in stable (Y, X, ID) order. This is the format
// used for both durable storage and clipboard export.
func MarshalPlacements(s Snapshot) ([]byte, error) {
	ordered := s.Clone()
	ordered.SortForApply()

	out := make([]placement, len(ordered))
	for i, n := range ordered {
		out[i] = placement{ID: n.ID, X: n.X, Y: n.Y, W: n.W, H: n.H}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode placements: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalPlacements parses serialized placements into a snapshot with
// zero-value constraints. It rejects empty input, malformed JSON, duplicate
// IDs, and nodes with empty IDs or non-positive sizes, wrapping every
// failure in [ErrMalformedLayout] so callers can treat all parse failures
// identically.
func UnmarshalPlacements(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedLayout)
	}

	var in []placement
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLayout, err)
	}

	seen := make(map[string]bool, len(in))
	out := make(Snapshot, 0, len(in))
	for _, p := range in {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: node without an ID", ErrMalformedLayout)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate node %s", ErrMalformedLayout, p.ID)
		}
		if p.X < 0 || p.Y < 0 || p.W < 1 || p.H < 1 {
			return nil, fmt.Errorf("%w: node %s at (%d,%d) size %dx%d",
				ErrMalformedLayout, p.ID, p.X, p.Y, p.W, p.H)
		}
		seen[p.ID] = true
		out = append(out, Node{ID: p.ID, X: p.X, Y: p.Y, W: p.W, H: p.H})
	}
	return out, nil
}
