package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/code-landscape/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "landscape",
	Short: "Interactive force-directed viewer for code graphs",
	Long: `Landscape lays out the code graph produced by an analyzer as a
force-directed map you can pan, zoom, filter and search. Selecting a node
shows what it depends on, what it impacts, and the longest chain of
relationships passing through it. The same insight queries are available
from the command line and to AI agents via MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setupLogger installs the default slog logger on stderr. Stdout stays
// free for command output and the MCP protocol.
func setupLogger() {
	level := slog.LevelInfo
	if cfg, err := config.Load(cfgFile); err == nil {
		level = cfg.SlogLevel()
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
