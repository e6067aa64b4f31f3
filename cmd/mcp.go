package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/code-landscape/internal/analyzer"
	mcpserver "github.com/ziadkadry99/code-landscape/internal/mcp"
)

var (
	mcpDoc   string
	mcpWatch bool
	mcpDemo  bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing node search,
dependency, impact and longest-path queries over a graph document to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := resolveDocument(mcpDoc, cfg, mcpDemo)
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		srv := mcpserver.NewServer(doc, cfg.Depths())

		path := mcpDoc
		if path == "" {
			path = cfg.Document
		}
		if (mcpWatch || cfg.Watch) && path != "" && !mcpDemo {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				if err := analyzer.Watch(ctx, path, analyzer.WatchOptions{}, srv.SetDocument); err != nil {
					slog.Error("document watch stopped", "path", path, "error", err)
				}
			}()
		}

		// Stdout carries the protocol; everything else goes to stderr.
		fmt.Fprintf(os.Stderr, "landscape MCP server started on stdio (repo=%s, nodes=%d, edges=%d)\n",
			doc.RepoName, len(doc.Nodes), len(doc.Edges))

		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpDoc, "doc", "", "graph document (defaults to the configured document)")
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "reload the document when it changes on disk")
	mcpCmd.Flags().BoolVar(&mcpDemo, "demo", false, "serve the built-in demo graph")
	rootCmd.AddCommand(mcpCmd)
}
