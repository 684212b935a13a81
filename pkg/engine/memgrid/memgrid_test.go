package memgrid

import (
	"testing"

	"github.com/matzehuels/gridkit/pkg/engine"
)

func newGrid() *Grid {
	return New(engine.Config{Columns: 12})
}

func TestSetGeometryExplicit(t *testing.T) {
	g := newGrid()
	g.SetConstraints("chart", 2, 2)
	g.SetGeometry("chart", 3, 1, 6, 6, false)

	r, ok := g.Geometry("chart")
	if !ok {
		t.Fatal("chart not registered")
	}
	if (r != engine.Rect{X: 3, Y: 1, W: 6, H: 6}) {
		t.Errorf("rect = %+v", r)
	}
}

func TestGeometryClamping(t *testing.T) {
	tests := []struct {
		name       string
		minW, minH int
		x, y, w, h int
		want       engine.Rect
	}{
		{
			name: "below minimums grows to minimums",
			minW: 3, minH: 2,
			x: 0, y: 0, w: 1, h: 1,
			want: engine.Rect{X: 0, Y: 0, W: 3, H: 2},
		},
		{
			name: "overflowing right edge slides left",
			minW: 1, minH: 1,
			x: 10, y: 0, w: 4, h: 2,
			want: engine.Rect{X: 8, Y: 0, W: 4, H: 2},
		},
		{
			name: "wider than grid shrinks to grid",
			minW: 1, minH: 1,
			x: 0, y: 0, w: 20, h: 2,
			want: engine.Rect{X: 0, Y: 0, W: 12, H: 2},
		},
		{
			name: "negative position moves to origin",
			minW: 1, minH: 1,
			x: -3, y: -1, w: 2, h: 2,
			want: engine.Rect{X: 0, Y: 0, W: 2, H: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid()
			g.SetConstraints("w", tt.minW, tt.minH)
			g.SetGeometry("w", tt.x, tt.y, tt.w, tt.h, false)
			if r, _ := g.Geometry("w"); r != tt.want {
				t.Errorf("rect = %+v, want %+v", r, tt.want)
			}
		})
	}
}

func TestCollisionPushesMovableNodeDown(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 4, 4, false)
	g.SetGeometry("b", 0, 0, 4, 4, false)

	ra, _ := g.Geometry("a")
	rb, _ := g.Geometry("b")
	if ra == rb {
		t.Fatal("overlapping nodes were not separated")
	}
	if rb.Y != 4 {
		t.Errorf("b.Y = %d, want pushed below a", rb.Y)
	}
}

func TestNonMovableNodesAreNotPushed(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 4, 4, false)
	g.SetGeometry("b", 6, 0, 4, 4, false)
	g.SetMovable("a", false)
	g.SetMovable("b", false)

	// Force-write overlapping geometry; with everything pinned the engine
	// must not rearrange.
	g.BeginBatch()
	g.SetGeometry("a", 0, 0, 6, 6, false)
	g.SetGeometry("b", 2, 2, 6, 6, false)
	g.EndBatch()

	if r, _ := g.Geometry("b"); (r != engine.Rect{X: 2, Y: 2, W: 6, H: 6}) {
		t.Errorf("pinned node moved: %+v", r)
	}
}

func TestAutoPositionFirstFit(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 6, 4, false)
	g.SetGeometry("b", 6, 0, 6, 4, false)
	g.SetGeometry("c", 0, 0, 4, 2, true)

	// Row 0 is full; first fit is the start of row 4.
	if r, _ := g.Geometry("c"); (r != engine.Rect{X: 0, Y: 4, W: 4, H: 2}) {
		t.Errorf("autoposition = %+v, want first free slot", r)
	}
}

func TestAutoPositionPrefersHint(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 4, 2, 4, 4, false)
	g.Remove("a")

	// The hint survives removal; re-adding with autoposition lands on it.
	g.SetGeometry("a", 0, 0, 4, 4, true)
	if r, _ := g.Geometry("a"); (r != engine.Rect{X: 4, Y: 2, W: 4, H: 4}) {
		t.Errorf("rect = %+v, want hinted position", r)
	}
}

func TestClearHintsDropsStaleState(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 4, 2, 4, 4, false)
	g.Remove("a")
	g.ClearHints("a")

	g.SetGeometry("a", 0, 0, 4, 4, true)
	if r, _ := g.Geometry("a"); (r != engine.Rect{X: 0, Y: 0, W: 4, H: 4}) {
		t.Errorf("rect = %+v, want first-fit placement", r)
	}
}

func TestBatchCoalescesChanges(t *testing.T) {
	g := newGrid()
	var batches [][]engine.Change
	cancel := g.Subscribe(func(cs []engine.Change) {
		batches = append(batches, cs)
	})
	defer cancel()

	g.BeginBatch()
	g.SetGeometry("a", 0, 0, 4, 4, false)
	g.SetGeometry("b", 4, 0, 4, 4, false)
	g.SetGeometry("a", 0, 4, 4, 4, false)
	if len(batches) != 0 {
		t.Fatal("changes visible before EndBatch")
	}
	g.EndBatch()

	if len(batches) != 1 {
		t.Fatalf("got %d deliveries, want 1", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("got %d changes, want one per touched node", len(batches[0]))
	}
}

func TestSubscribeCancel(t *testing.T) {
	g := newGrid()
	calls := 0
	cancel := g.Subscribe(func([]engine.Change) { calls++ })
	g.SetGeometry("a", 0, 0, 2, 2, false)
	cancel()
	g.SetGeometry("a", 2, 0, 2, 2, false)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCompactRemovesGaps(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 5, 4, 2, false)
	g.SetGeometry("b", 0, 9, 4, 2, false)
	g.Compact()

	ra, _ := g.Geometry("a")
	rb, _ := g.Geometry("b")
	if ra.Y != 0 {
		t.Errorf("a.Y = %d, want 0", ra.Y)
	}
	if rb.Y != 2 {
		t.Errorf("b.Y = %d, want stacked under a", rb.Y)
	}
}

func TestDragAndResizeEmitTaggedReasons(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 4, 4, false)

	var got []engine.Change
	cancel := g.Subscribe(func(cs []engine.Change) { got = cs })
	defer cancel()

	g.Drag("a", 4, 0)
	if len(got) != 1 || got[0].Reason != engine.ReasonDrag {
		t.Errorf("drag changes = %+v", got)
	}

	g.Resize("a", 6, 6)
	if len(got) != 1 || got[0].Reason != engine.ReasonResize {
		t.Errorf("resize changes = %+v", got)
	}
}

func TestStaticSuppressesInteraction(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 4, 4, false)
	g.SetStatic(true)

	g.Drag("a", 4, 4)
	if r, _ := g.Geometry("a"); r.X != 0 || r.Y != 0 {
		t.Error("drag succeeded on a static grid")
	}

	g.Resize("a", 6, 6)
	if r, _ := g.Geometry("a"); r.W != 4 {
		t.Error("resize succeeded on a static grid")
	}
}

func TestRemoveEmitsRemoveReason(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 2, 2, false)

	var got []engine.Change
	cancel := g.Subscribe(func(cs []engine.Change) { got = cs })
	defer cancel()

	g.Remove("a")
	if len(got) != 1 || got[0].Reason != engine.ReasonRemove || got[0].ID != "a" {
		t.Errorf("remove changes = %+v", got)
	}
	if _, ok := g.Geometry("a"); ok {
		t.Error("node still present after Remove")
	}
}

func TestAddAutoPositions(t *testing.T) {
	g := newGrid()
	g.SetGeometry("a", 0, 0, 12, 2, false)

	var got []engine.Change
	cancel := g.Subscribe(func(cs []engine.Change) { got = cs })
	defer cancel()

	g.Add("b", -1, -1, 4, 2)
	if len(got) != 1 || got[0].Reason != engine.ReasonAdd {
		t.Fatalf("add changes = %+v", got)
	}
	if r, _ := g.Geometry("b"); r.Y != 2 {
		t.Errorf("b.Y = %d, want below the full first rows", r.Y)
	}
}
