package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// exportCommand creates the export command, which writes the persisted desktop
// layout (or the manifest default when nothing is saved) as portable JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		manifestPath string
		output       string
		opts         storeOpts
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved desktop layout as JSON",
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

			snap, found, err := s.Load(cmd.Context(), grid.Desktop)
			if err != nil {
				return fmt.Errorf("load layout: %w", err)
			}
			if !found {
				c.Logger.Debug("no saved layout, exporting manifest default")
				snap = m.DesktopLayout()
			}

			data, err := grid.MarshalPlacements(snap)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported %d placements", len(snap))
			printDetail("File: %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	addStoreFlags(cmd, &opts)
	return cmd
}

// importCommand creates the import command, which validates a JSON layout
// against the manifest and persists it as the desktop layout.
func (c *CLI) importCommand() *cobra.Command {
	var (
		manifestPath string
		opts         storeOpts
	)

	cmd := &cobra.Command{
		Use:   "import [layout.json]",
		Short: "Import a JSON layout and persist it as the desktop layout",
		Long:  `Import reads a layout from a file (or stdin when no file is given), validates it against the widget manifest, and saves it as the desktop layout. Layouts missing widgets or violating minimum sizes are rejected.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newProgress(c.Logger)

			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read layout: %w", err)
			}

			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
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

			s, b, err := c.openStore(cmd, &opts, m)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := s.Save(cmd.Context(), grid.Desktop, candidate); err != nil {
				return fmt.Errorf("save layout: %w", err)
			}
			p.done(fmt.Sprintf("Imported %d placements", len(candidate)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	addStoreFlags(cmd, &opts)
	return cmd
}
