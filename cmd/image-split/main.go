package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-split-mcp/internal/config"
	"github.com/ironsheep/image-split-mcp/internal/logging"
	"github.com/ironsheep/image-split-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries state shared by the subcommands once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "image-split",
		Short: "Split an image into four horizontal bands or a 2x2 grid",
		Long: `image-split slices one image into four PNGs, either as four full-width
horizontal bands or as a 2x2 grid of quadrants.

Run without a subcommand it serves the MCP protocol over stdin/stdout;
configure it in your MCP client (e.g., Claude Desktop).

Environment variables:
  IMAGE_SPLIT_CONFIG       Configuration file path
  IMAGE_SPLIT_LOG_LEVEL    debug, info, warn or error
  IMAGE_SPLIT_OUTPUT_DIR   Default directory for saved slices`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default image-split.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", server.ServerName, Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}

	rootCmd.AddCommand(serveCmd, newSplitCmd(a), versionCmd)
	return rootCmd
}

// setup loads configuration and installs the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	// Logging goes to stderr (stdout is for MCP protocol)
	a.logger = logging.Setup(cfg.Log.Level)
	return nil
}

func (a *app) serve() error {
	a.logger.Debug("starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)

	srv := server.New(a.cfg, a.logger, Version)
	if err := srv.Run(); err != nil {
		a.logger.Error("server error", "error", err)
		return err
	}
	return nil
}
