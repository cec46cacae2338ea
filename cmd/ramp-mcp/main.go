package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ramp-tools-mcp/internal/store"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Environment variables read when the matching flag is not set.
const (
	envLogLevel = "RAMP_MCP_LOG_LEVEL"
	envStoreDir = "RAMP_MCP_STORE_DIR"
)

var rootCmd = &cobra.Command{
	Use:   "ramp-mcp",
	Short: "MCP server and tools for gradient color ramps",
	Long: `ramp-mcp samples fixed-size color ramps from color stops, gradient
images and GIMP palettes, and keeps a library of saved ramps.

Run without a subcommand it serves the MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "Ramp library directory (default $"+envStoreDir+" or <user config dir>/ramp-tools-mcp)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default $"+envLogLevel+" or warn)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends all logging to stderr; stdout is for MCP protocol.
func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	name, _ := cmd.Flags().GetString("log-level")
	if name == "" {
		name = os.Getenv(envLogLevel)
	}
	level, err := parseLevel(name)
	if err != nil {
		return err
	}

	store.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if level == slog.LevelDebug {
		log.Printf("Ramp MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// storeDir resolves the library directory from the flag, the environment
// and finally the user config directory.
func storeDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if dir := os.Getenv(envStoreDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(base, "ramp-tools-mcp"), nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	flag, _ := cmd.Flags().GetString("store")
	dir, err := storeDir(flag)
	if err != nil {
		return nil, err
	}
	backend, err := store.NewFileBackend(dir)
	if err != nil {
		return nil, err
	}
	store.Logger().Debug("opened ramp library", "dir", backend.Dir())
	return store.New(backend), nil
}
