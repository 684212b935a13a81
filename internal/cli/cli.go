// Package cli implements the gridkit command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/buildinfo"
	"github.com/matzehuels/gridkit/pkg/manifest"
	"github.com/matzehuels/gridkit/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridkit"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gridkit",
		Short:        "Gridkit orchestrates dashboard grid layouts",
		Long:         `Gridkit is a CLI tool for managing dashboard grid layouts: validating widget manifests, persisting per-breakpoint layouts, rendering grids, and driving an interactive demo.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.demoCommand())

	return root
}

// =============================================================================
// Manifest Loading
// =============================================================================

// loadManifest loads a widget manifest from path, or the built-in trading
// dashboard when path is empty.
func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(path)
}

// =============================================================================
// Store Backends
// =============================================================================

// Backend names accepted by the --backend flag.
const (
	backendMemory = "memory"
	backendFile   = "file"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

// storeOpts holds the command-line flags selecting a persistence backend.
type storeOpts struct {
	backend   string // backend name: memory, file, redis, mongo
	dir       string // directory for the file backend (defaults to the data dir)
	redisAddr string // redis host:port
	redisPass string // redis password
	redisDB   int    // redis database number
	mongoURI  string // mongo connection string
	mongoDB   string // mongo database name
}

// addStoreFlags registers the backend selection flags on cmd.
func addStoreFlags(cmd *cobra.Command, opts *storeOpts) {
	cmd.Flags().StringVar(&opts.backend, "backend", backendFile, "persistence backend: file, memory, redis, mongo")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "layout directory for the file backend (defaults to the user data dir)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "redis address for the redis backend")
	cmd.Flags().StringVar(&opts.redisPass, "redis-password", "", "redis password for the redis backend")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number for the redis backend")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "mongodb://localhost:27017", "connection string for the mongo backend")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "database name for the mongo backend")
}

// openBackend creates the persistence backend selected by opts.
// The caller owns the returned backend and must Close it.
func openBackend(cmd *cobra.Command, opts *storeOpts) (store.Backend, error) {
	switch opts.backend {
	case backendMemory:
		return store.NewMemoryBackend(), nil
	case backendFile:
		dir := opts.dir
		if dir == "" {
			var err error
			if dir, err = dataDir(); err != nil {
				return nil, fmt.Errorf("resolve data dir: %w", err)
			}
		}
		return store.NewFileBackend(dir)
	case backendRedis:
		return store.NewRedisBackend(opts.redisAddr, opts.redisPass, opts.redisDB), nil
	case backendMongo:
		return store.NewMongoBackend(cmd.Context(), opts.mongoURI, opts.mongoDB, "layouts")
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}

// openStore creates a layout store over the selected backend, with the
// manifest's desktop layout as the reference.
func (c *CLI) openStore(cmd *cobra.Command, opts *storeOpts, m *manifest.Manifest) (*store.LayoutStore, store.Backend, error) {
	b, err := openBackend(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	return store.NewLayoutStore(b, m.DesktopLayout(), nil, c.Logger), b, nil
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the layout directory using XDG standard (~/.local/share/gridkit/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
