package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage persisted layouts",
	}

	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	var (
		manifestPath string
		opts         storeOpts
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved desktop layout",
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
				printInfo("No saved layout; the manifest default applies")
				return nil
			}
			printSuccess("Saved layout: %d placements", len(snap))
			for _, n := range snap {
				printKeyValue(n.ID, "x=%d y=%d w=%d h=%d", n.X, n.Y, n.W, n.H)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	addStoreFlags(cmd, &opts)
	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var (
		manifestPath string
		opts         storeOpts
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved desktop layout",
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

			if err := s.Clear(cmd.Context(), grid.Desktop); err != nil {
				return fmt.Errorf("clear layout: %w", err)
			}
			printSuccess("Cleared the saved desktop layout")
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "widget manifest (TOML); defaults to the built-in dashboard")
	addStoreFlags(cmd, &opts)
	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file backend's layout directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return fmt.Errorf("resolve data dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
