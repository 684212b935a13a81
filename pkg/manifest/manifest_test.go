package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/gridkit/pkg/grid"
)

const sample = `
title = "Trading"
columns = 12
margin_px = 8

[[widget]]
id = "chart"
x = 0
y = 0
w = 6
h = 6
min_w = 2
min_h = 2

[[widget]]
id = "orderbook"
x = 6
y = 0
w = 6
h = 6
min_w = 2
min_h = 2
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if m.Title != "Trading" || m.Columns != 12 || m.MarginPx != 8 {
		t.Errorf("header = %+v", m)
	}

	layout := m.DesktopLayout()
	if len(layout) != 2 {
		t.Fatalf("widgets = %d, want 2", len(layout))
	}
	chart, ok := layout.ByID("chart")
	if !ok || chart.W != 6 || chart.MinW != 2 {
		t.Errorf("chart = %+v", chart)
	}
}

func TestParseDefaultsColumns(t *testing.T) {
	m, err := Parse([]byte("[[widget]]\nid = \"a\"\nw = 2\nh = 2\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if m.Columns != 12 {
		t.Errorf("Columns = %d, want default 12", m.Columns)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{
			name:    "no widgets",
			in:      `title = "empty"`,
			wantErr: ErrNoWidgets,
		},
		{
			name: "duplicate ids",
			in: `[[widget]]
id = "a"
w = 2
h = 2
[[widget]]
id = "a"
x = 4
w = 2
h = 2`,
			wantErr: ErrDuplicateWidget,
		},
		{
			name: "widget past the last column",
			in: `columns = 6
[[widget]]
id = "a"
x = 4
w = 4
h = 2`,
			wantErr: ErrWidgetOutOfBounds,
		},
		{
			name: "zero height",
			in: `[[widget]]
id = "a"
w = 2
h = 0`,
			wantErr: grid.ErrInvalidGeometry,
		},
		{
			name: "missing id",
			in: `[[widget]]
w = 2
h = 2`,
			wantErr: grid.ErrInvalidNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.toml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(m.Widgets) != 2 {
		t.Errorf("widgets = %d, want 2", len(m.Widgets))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestMobileLayoutIsSingleColumn(t *testing.T) {
	m := Default()
	mobile := m.MobileLayout()
	if len(mobile) != len(m.Widgets) {
		t.Fatalf("mobile has %d widgets, want %d", len(mobile), len(m.Widgets))
	}
	for _, n := range mobile {
		if n.X != 0 || n.W != 1 {
			t.Errorf("%s: mobile node not single-column: %+v", n.ID, n)
		}
	}
}

func TestEngineConfig(t *testing.T) {
	m := Default()

	desktop := m.EngineConfig(grid.Desktop)
	if desktop.Columns != 12 || !desktop.InitiallyStatic {
		t.Errorf("desktop config = %+v", desktop)
	}

	mobile := m.EngineConfig(grid.Mobile)
	if mobile.Columns != 1 {
		t.Errorf("mobile config = %+v", mobile)
	}
}

func TestDefaultManifestIsSound(t *testing.T) {
	if err := Default().Check(); err != nil {
		t.Fatalf("built-in manifest is broken: %v", err)
	}
	// Defaults must not overlap; the default layout is applied verbatim.
	layout := Default().DesktopLayout()
	for i, a := range layout {
		for _, b := range layout[i+1:] {
			if a.Overlaps(b) {
				t.Errorf("default widgets %s and %s overlap", a.ID, b.ID)
			}
		}
	}
}
