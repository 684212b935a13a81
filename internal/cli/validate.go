package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// validateCommand creates the validate command.
// Without arguments it checks the widget manifest itself; with a layout file
// it additionally validates the saved placements against the manifest.
func (c *CLI) validateCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "validate [layout.json]",
		Short: "Validate a widget manifest and optionally a saved layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			printSuccess("Manifest OK: %d widgets, %d columns", len(m.Widgets), m.Columns)

			if len(args) == 0 {
				return nil
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read layout: %w", err)
			}
			candidate, err := grid.UnmarshalPlacements(data)
			if err != nil {
				printError("Layout rejected: %v", err)
				return err
			}

			reference := m.DesktopLayout()
			candidate = grid.Rehydrate(candidate, reference)
			if err := grid.Validate(candidate, reference); err != nil {
				printError("Layout rejected: %v", err)
				return err
			}

			printSuccess("Layout OK: %d placements match the manifest", len(candidate))
			for _, n := range candidate {
				printKeyValue(n.ID, "x=%d y=%d w=%d h=%d", n.X, n.Y, n.W, n.H)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	return cmd
}
