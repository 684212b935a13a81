package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/render"
)

const (
	formatSVG  = "svg"
	formatText = "text"
)

// renderCommand creates the render command, which draws a layout as SVG or
// ASCII text. Without a layout file it renders the manifest default.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		manifestPath string
		format       string
		output       string
		breakpoint   string
		cellSize     int
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a grid layout as SVG or text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatSVG && format != formatText {
				return fmt.Errorf("unknown format %q (want svg or text)", format)
			}

			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}

			columns := m.Columns
			var snap grid.Snapshot
			switch breakpoint {
			case "desktop":
				snap = m.DesktopLayout()
			case "mobile":
				snap = m.MobileLayout()
				columns = 1
			default:
				return fmt.Errorf("unknown breakpoint %q (want desktop or mobile)", breakpoint)
			}

			if len(args) == 1 {
				if breakpoint == "mobile" {
					return fmt.Errorf("mobile layouts are derived from the manifest and cannot be loaded from a file")
				}
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read layout: %w", err)
				}
				candidate, err := grid.UnmarshalPlacements(data)
				if err != nil {
					return fmt.Errorf("parse layout: %w", err)
				}
				candidate = grid.Rehydrate(candidate, m.DesktopLayout())
				if err := grid.Validate(candidate, m.DesktopLayout()); err != nil {
					return fmt.Errorf("validate layout: %w", err)
				}
				snap = candidate
			}

			if format == formatText {
				text := render.RenderText(snap, columns)
				if output == "" {
					fmt.Print(text)
					return nil
				}
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Rendered %d widgets", len(snap))
				printDetail("File: %s", output)
				return nil
			}

			svg := render.RenderSVG(snap,
				render.WithColumns(columns),
				render.WithCellSize(cellSize),
				render.WithMargin(m.MarginPx),
				render.WithTitle(m.Title),
			)
			if output == "" {
				fmt.Print(string(svg))
				return nil
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %d widgets", len(snap))
			printDetail("File: %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg, text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&breakpoint, "breakpoint", "desktop", "breakpoint to render: desktop, mobile")
	cmd.Flags().IntVar(&cellSize, "cell-size", 48, "cell size in pixels (SVG only)")
	return cmd
}
