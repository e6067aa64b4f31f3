package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/code-landscape/internal/analyzer"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/server"
	"github.com/ziadkadry99/code-landscape/internal/session"
	"github.com/ziadkadry99/code-landscape/internal/viewer"
)

const shutdownTimeout = 5 * time.Second

var (
	serveDoc   string
	servePort  int
	serveWatch bool
	serveDemo  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive viewer server",
	Long: `Starts the landscape HTTP server. The browser client at / streams rendered
frames over a websocket and sends pointer and keyboard input back. The REST API
under /api exposes loading, filtering, search, selection and insight reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch = serveWatch
		}
		if serveDoc != "" {
			cfg.Document = serveDoc
		}

		logger := slog.Default()

		v := newViewer(cfg, cfg.CanvasSize())
		if cfg.Document != "" || serveDemo {
			doc, err := resolveDocument("", cfg, serveDemo)
			if err != nil {
				return err
			}
			if err := v.Load(doc); err != nil {
				return err
			}
			logger.Info("document loaded", "repo", doc.RepoName, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
		}

		sess := session.New(v, session.Options{
			FrameInterval: cfg.FrameInterval(),
			Logger:        logger,
		})
		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			SearchDebounce: cfg.SearchDebounce(),
			RequestTimeout: cfg.RequestTimeout(),
		}, sess, analyzer.NewHTTPClient(cfg.Analyzer.URL, cfg.AnalyzerTimeout()), logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return sess.Run(gctx)
		})
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		if cfg.Watch && cfg.Document != "" && !serveDemo {
			g.Go(func() error {
				return analyzer.Watch(gctx, cfg.Document, analyzer.WatchOptions{Logger: logger}, func(doc *graphdoc.Document) {
					sess.Post("reload", func(v *viewer.Viewer) error { return v.Load(doc) })
				})
			})
		}

		fmt.Fprintf(os.Stderr, "landscape %s serving on http://localhost:%d\n", Version, cfg.Server.Port)
		if cfg.Document != "" {
			fmt.Fprintf(os.Stderr, "  Document: %s (watch=%t)\n", cfg.Document, cfg.Watch)
		}
		fmt.Fprintf(os.Stderr, "  Analyzer: %s\n", cfg.Analyzer.URL)

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDoc, "doc", "", "graph document to load at startup")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the document when it changes on disk")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "start with the built-in demo graph")
	rootCmd.AddCommand(serveCmd)
}
