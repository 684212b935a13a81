package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/engine/memgrid"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/manifest"
	"github.com/matzehuels/gridkit/pkg/orchestrator"
)

// demoCommand creates the demo command, an interactive grid driven by a real
// orchestrator over the in-memory engine.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		manifestPath string
		opts         storeOpts
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive grid demo",
		Long:  `Demo runs an interactive dashboard grid in the terminal. Drag and resize widgets, toggle the breakpoint, and watch the layout persist: quit and rerun to see the saved layout hydrate.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			s, b, err := c.openStore(cmd, &opts, m)
			if err != nil {
				return err
			}
			defer b.Close()

			eng := memgrid.New(m.EngineConfig(grid.Desktop))

			// Log output would corrupt the alternate screen.
			orch, err := orchestrator.New(orchestrator.Options{
				Engine: eng,
				Store:  s,
				Logger: newLogger(io.Discard, LogInfo),
			})
			if err != nil {
				return err
			}
			defer orch.Close()

			if err := orch.Initialize(cmd.Context(), grid.Desktop); err != nil {
				return fmt.Errorf("initialize grid: %w", err)
			}

			model := newDemoModel(cmd.Context(), orch, eng, m, s.Clear)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if dm, ok := final.(demoModel); ok && dm.err != nil {
				return dm.err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	addStoreFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// Demo Model
// =============================================================================

// Grid cell styles
var (
	demoEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	demoStatusStyle = lipgloss.NewStyle().Foreground(colorGray)

	// Widget block palette, assigned by position in the snapshot.
	demoBlockColors = []lipgloss.Color{
		lipgloss.Color("36"), lipgloss.Color("35"), lipgloss.Color("220"),
		lipgloss.Color("75"), lipgloss.Color("167"), lipgloss.Color("135"),
		lipgloss.Color("208"), lipgloss.Color("71"),
	}
)

// demoTickMsg drives re-rendering while the orchestrator settles in the
// background.
type demoTickMsg time.Time

func demoTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return demoTickMsg(t)
	})
}

// clearFunc deletes the persisted layout for a breakpoint.
type clearFunc func(ctx context.Context, bp grid.Breakpoint) error

// demoModel is the bubbletea model for the interactive grid demo.
type demoModel struct {
	ctx      context.Context
	orch     *orchestrator.Orchestrator
	eng      *memgrid.Grid
	manifest *manifest.Manifest
	clear    clearFunc

	cursor int // index into the sorted snapshot
	status string
	err    error
}

// newDemoModel creates the demo model around an initialized orchestrator.
func newDemoModel(ctx context.Context, orch *orchestrator.Orchestrator, eng *memgrid.Grid, m *manifest.Manifest, clear clearFunc) demoModel {
	return demoModel{ctx: ctx, orch: orch, eng: eng, manifest: m, clear: clear}
}

func (d demoModel) Init() tea.Cmd {
	return demoTick()
}

func (d demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case demoTickMsg:
		return d, demoTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return d, tea.Quit
		case "tab":
			if n := len(d.orch.Snapshot()); n > 0 {
				d.cursor = (d.cursor + 1) % n
			}
			return d, nil
		case "b":
			return d.toggleBreakpoint()
		case "r":
			return d.reset()
		}
		if d.orch.State() != orchestrator.StateInteractive {
			return d, nil
		}
		return d.interact(msg.String())
	}
	return d, nil
}

// interact handles keys that mutate the grid. Only valid once the
// orchestrator reaches the interactive state.
func (d demoModel) interact(key string) (tea.Model, tea.Cmd) {
	snap := d.orch.Snapshot()
	if d.cursor >= len(snap) {
		d.cursor = 0
	}

	var sel grid.Node
	if len(snap) > 0 {
		sel = snap[d.cursor]
	}

	switch key {
	case "left", "h":
		d.drag(sel, sel.X-1, sel.Y)
	case "right", "l":
		d.drag(sel, sel.X+1, sel.Y)
	case "up", "k":
		d.drag(sel, sel.X, sel.Y-1)
	case "down", "j":
		d.drag(sel, sel.X, sel.Y+1)
	case "H":
		d.resize(sel, sel.W-1, sel.H)
	case "L":
		d.resize(sel, sel.W+1, sel.H)
	case "K":
		d.resize(sel, sel.W, sel.H-1)
	case "J":
		d.resize(sel, sel.W, sel.H+1)
	case "a":
		id := "widget-" + uuid.NewString()[:8]
		d.eng.Add(id, -1, -1, 2, 2)
		d.status = "added " + id
	case "x":
		if sel.ID != "" {
			d.eng.Remove(sel.ID)
			d.status = "removed " + sel.ID
			d.cursor = 0
		}
	case "c":
		d.eng.Compact()
		d.status = "compacted"
	}
	return d, nil
}

func (d *demoModel) drag(sel grid.Node, x, y int) {
	if sel.ID == "" {
		return
	}
	d.eng.Drag(sel.ID, x, y)
	d.status = fmt.Sprintf("moved %s to (%d,%d)", sel.ID, x, y)
}

func (d *demoModel) resize(sel grid.Node, w, h int) {
	if sel.ID == "" {
		return
	}
	d.eng.Resize(sel.ID, w, h)
	d.status = fmt.Sprintf("resized %s to %dx%d", sel.ID, w, h)
}

// toggleBreakpoint switches between desktop and mobile, replaying the full
// initialization sequence.
func (d demoModel) toggleBreakpoint() (tea.Model, tea.Cmd) {
	next := grid.Mobile
	if d.orch.Breakpoint() == grid.Mobile {
		next = grid.Desktop
	}
	if err := d.orch.OnBreakpointChange(d.ctx, next); err != nil {
		d.err = err
		return d, tea.Quit
	}
	d.cursor = 0
	d.status = "switched to " + next.String()
	return d, nil
}

// reset clears the persisted layout and re-initializes from defaults.
func (d demoModel) reset() (tea.Model, tea.Cmd) {
	if err := d.clear(d.ctx, d.orch.Breakpoint()); err != nil {
		d.err = err
		return d, tea.Quit
	}
	if err := d.orch.Initialize(d.ctx, d.orch.Breakpoint()); err != nil {
		d.err = err
		return d, tea.Quit
	}
	d.cursor = 0
	d.status = "reset to defaults"
	return d, nil
}

func (d demoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(d.manifest.Title))
	b.WriteString("\n")
	b.WriteString(demoStatusStyle.Render(fmt.Sprintf("%s · %s · %s · layout from %s",
		d.orch.Breakpoint(), d.orch.State(), d.orch.Phase(), d.orch.Source())))
	b.WriteString("\n\n")

	if d.orch.Phase() == orchestrator.PhaseHidden {
		b.WriteString(StyleDim.Render("  preparing layout..."))
		b.WriteString("\n")
	} else {
		b.WriteString(d.renderGrid())
	}

	b.WriteString("\n")
	if d.status != "" {
		b.WriteString(demoStatusStyle.Render("  " + d.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  tab select  ←↓↑→/hjkl move  HJKL resize  a add  x remove  c compact"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  b breakpoint  r reset  q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderGrid draws the occupancy grid with one colored block per widget.
func (d demoModel) renderGrid() string {
	snap := d.orch.Snapshot()
	columns := d.manifest.Columns
	if d.orch.Breakpoint() == grid.Mobile {
		columns = 1
	}

	rows := 0
	for _, n := range snap {
		if n.Y+n.H > rows {
			rows = n.Y + n.H
		}
	}

	// Color and selection per widget, keyed by snapshot order.
	styles := make(map[string]lipgloss.Style, len(snap))
	for i, n := range snap {
		st := lipgloss.NewStyle().Foreground(demoBlockColors[i%len(demoBlockColors)])
		if i == d.cursor {
			st = st.Bold(true).Reverse(true)
		}
		styles[n.ID] = st
	}

	dimmed := d.orch.Phase() == orchestrator.PhaseStabilizing

	var b strings.Builder
	for y := 0; y < rows; y++ {
		b.WriteString("  ")
		for x := 0; x < columns; x++ {
			id := ""
			for _, n := range snap {
				if x >= n.X && x < n.X+n.W && y >= n.Y && y < n.Y+n.H {
					id = n.ID
					break
				}
			}
			if id == "" {
				b.WriteString(demoEmptyStyle.Render(" ·"))
				continue
			}
			cell := " " + strings.ToUpper(id[:1])
			if dimmed {
				b.WriteString(StyleDim.Render(cell))
			} else {
				b.WriteString(styles[id].Render(cell))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, n := range snap {
		marker := "  "
		if i == d.cursor {
			marker = "▸ "
		}
		line := fmt.Sprintf("  %s%s  %dx%d at (%d,%d)", marker, n.ID, n.W, n.H, n.X, n.Y)
		if i == d.cursor {
			b.WriteString(StyleHighlight.Render(line))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
