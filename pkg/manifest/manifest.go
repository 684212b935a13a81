// Package manifest loads dashboard definitions from TOML files.
//
// A manifest declares the grid configuration and the default desktop layout;
// the mobile layout is always derived from it, single-column. Manifests are
// the authoritative reference layouts that saved customizations are
// validated against.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridkit/pkg/engine"
	"github.com/matzehuels/gridkit/pkg/grid"
)

var (
	// ErrNoWidgets is returned by [Manifest.Check] for a manifest that
	// declares no widgets.
	ErrNoWidgets = errors.New("manifest declares no widgets")

	// ErrDuplicateWidget is returned by [Manifest.Check] when two widgets
	// share an ID.
	ErrDuplicateWidget = errors.New("duplicate widget ID")

	// ErrWidgetOutOfBounds is returned by [Manifest.Check] when a widget
	// does not fit the declared column count.
	ErrWidgetOutOfBounds = errors.New("widget does not fit the grid")
)

// Widget is one default widget declaration.
type Widget struct {
	ID   string `toml:"id"`
	X    int    `toml:"x"`
	Y    int    `toml:"y"`
	W    int    `toml:"w"`
	H    int    `toml:"h"`
	MinW int    `toml:"min_w"`
	MinH int    `toml:"min_h"`
}

// Manifest is a parsed dashboard definition.
type Manifest struct {
	Title    string   `toml:"title"`
	Columns  int      `toml:"columns"`
	MarginPx int      `toml:"margin_px"`
	Float    bool     `toml:"float"`
	Widgets  []Widget `toml:"widget"`
}

// Parse decodes a TOML manifest, applies defaults, and checks it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Columns < 1 {
		m.Columns = 12
	}
	if m.MarginPx < 0 {
		m.MarginPx = 0
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Check verifies structural soundness: at least one widget, unique IDs,
// sane geometry, and every widget inside the column count.
func (m *Manifest) Check() error {
	if len(m.Widgets) == 0 {
		return ErrNoWidgets
	}
	seen := make(map[string]bool, len(m.Widgets))
	for _, w := range m.Widgets {
		n := w.node()
		if err := n.Check(); err != nil {
			return err
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateWidget, w.ID)
		}
		seen[w.ID] = true
		if w.X+w.W > m.Columns {
			return fmt.Errorf("%w: %s spans columns %d-%d of %d",
				ErrWidgetOutOfBounds, w.ID, w.X, w.X+w.W, m.Columns)
		}
	}
	return nil
}

// DesktopLayout returns the default desktop layout.
func (m *Manifest) DesktopLayout() grid.Snapshot {
	out := make(grid.Snapshot, len(m.Widgets))
	for i, w := range m.Widgets {
		out[i] = w.node()
	}
	return out
}

// MobileLayout returns the derived single-column mobile layout.
func (m *Manifest) MobileLayout() grid.Snapshot {
	return grid.SingleColumn(m.DesktopLayout())
}

// EngineConfig returns the engine configuration for a breakpoint. Mobile
// grids are a single column; both start static so the orchestrator controls
// when interaction is enabled.
func (m *Manifest) EngineConfig(bp grid.Breakpoint) engine.Config {
	cols := m.Columns
	if bp == grid.Mobile {
		cols = 1
	}
	return engine.Config{
		Columns:         cols,
		MarginPx:        m.MarginPx,
		Float:           m.Float,
		InitiallyStatic: true,
	}
}

func (w Widget) node() grid.Node {
	return grid.Node{ID: w.ID, X: w.X, Y: w.Y, W: w.W, H: w.H, MinW: w.MinW, MinH: w.MinH}
}

// Default returns the built-in trading dashboard used when no manifest file
// is given: chart and order book side by side, trade tape and positions
// below.
func Default() *Manifest {
	return &Manifest{
		Title:    "Trading",
		Columns:  12,
		MarginPx: 8,
		Widgets: []Widget{
			{ID: "chart", X: 0, Y: 0, W: 6, H: 6, MinW: 2, MinH: 2},
			{ID: "orderbook", X: 6, Y: 0, W: 6, H: 6, MinW: 2, MinH: 2},
			{ID: "trades", X: 0, Y: 6, W: 6, H: 4, MinW: 2, MinH: 2},
			{ID: "positions", X: 6, Y: 6, W: 6, H: 4, MinW: 2, MinH: 2},
		},
	}
}
