package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/code-landscape/internal/config"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/progress"
	"github.com/ziadkadry99/code-landscape/internal/visibility"
)

var (
	renderDoc           string
	renderOutput        string
	renderWidth         int
	renderHeight        int
	renderTicks         int
	renderSelect        string
	renderHideNodeTypes []string
	renderHideEdgeTypes []string
	renderNoArrows      bool
	renderNoLabels      bool
	renderDemo          bool
	renderQuiet         bool
)

// renderOptions is one offline render.
type renderOptions struct {
	Size          config.Size
	MaxTicks      int
	Select        string
	HideNodeTypes []string
	HideEdgeTypes []string
	NoArrows      bool
	NoLabels      bool
	Reporter      progress.Reporter
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Settle the layout of a graph and write it as a PNG",
	Example: `  landscape render --doc code_graph.json -o graph.png
  landscape render --demo --hide-node-type test --select OrderService -o demo.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := resolveDocument(renderDoc, cfg, renderDemo)
		if err != nil {
			return err
		}

		size := cfg.CanvasSize()
		if renderWidth > 0 {
			size.Width = renderWidth
		}
		if renderHeight > 0 {
			size.Height = renderHeight
		}
		ticks := cfg.Render.MaxTicks
		if renderTicks > 0 {
			ticks = renderTicks
		}

		var reporter progress.Reporter = progress.NewReporter()
		if renderQuiet {
			reporter = nil
		}

		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", renderOutput, err)
		}
		defer f.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		n, err := renderDocument(ctx, cfg, doc, f, renderOptions{
			Size:          size,
			MaxTicks:      ticks,
			Select:        renderSelect,
			HideNodeTypes: renderHideNodeTypes,
			HideEdgeTypes: renderHideEdgeTypes,
			NoArrows:      renderNoArrows,
			NoLabels:      renderNoLabels,
			Reporter:      reporter,
		})
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutput, err)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s (%dx%d, %d nodes, %d ticks)\n", renderOutput, size.Width, size.Height, len(doc.Nodes), n)
		return nil
	},
}

// renderDocument loads doc into a fresh viewer, applies the filters and
// selection, settles the layout and writes one PNG frame to w. It returns
// the number of ticks run.
func renderDocument(ctx context.Context, cfg *config.Config, doc *graphdoc.Document, w io.Writer, opts renderOptions) (int, error) {
	v := newViewer(cfg, opts.Size)
	if err := v.Load(doc); err != nil {
		return 0, err
	}
	if len(opts.HideNodeTypes) > 0 || len(opts.HideEdgeTypes) > 0 {
		if err := v.SetHidden(visibility.NewHidden(opts.HideNodeTypes, opts.HideEdgeTypes)); err != nil {
			return 0, err
		}
	}
	if opts.NoArrows {
		v.SetArrows(false)
	}
	if opts.NoLabels {
		v.SetLabels(false)
	}
	if opts.Select != "" {
		if err := v.Select(opts.Select); err != nil {
			return 0, fmt.Errorf("selecting %q: %w", opts.Select, err)
		}
	}

	var onTick func(int)
	if opts.Reporter != nil {
		opts.Reporter.Start(opts.MaxTicks)
		onTick = progress.Ticks(opts.Reporter, func() float64 { return v.Simulation().Alpha() })
	}
	n, err := v.Settle(ctx, opts.MaxTicks, onTick)
	if opts.Reporter != nil {
		opts.Reporter.Finish()
	}
	if err != nil {
		return n, err
	}

	if err := v.EncodePNG(w); err != nil {
		return n, fmt.Errorf("encoding png: %w", err)
	}
	return n, nil
}

func init() {
	renderCmd.Flags().StringVar(&renderDoc, "doc", "", "graph document (defaults to the configured document)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "landscape.png", "output PNG file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "canvas width in pixels (defaults to the configured resolution)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "canvas height in pixels")
	renderCmd.Flags().IntVar(&renderTicks, "ticks", 0, "maximum layout ticks before rendering")
	renderCmd.Flags().StringVar(&renderSelect, "select", "", "node id to select and highlight")
	renderCmd.Flags().StringSliceVar(&renderHideNodeTypes, "hide-node-type", nil, "node types to hide (repeatable)")
	renderCmd.Flags().StringSliceVar(&renderHideEdgeTypes, "hide-edge-type", nil, "edge types to hide (repeatable)")
	renderCmd.Flags().BoolVar(&renderNoArrows, "no-arrows", false, "omit edge arrowheads")
	renderCmd.Flags().BoolVar(&renderNoLabels, "no-labels", false, "omit node labels")
	renderCmd.Flags().BoolVar(&renderDemo, "demo", false, "render the built-in demo graph")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "disable the progress bar")
	rootCmd.AddCommand(renderCmd)
}
