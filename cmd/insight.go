package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
	"github.com/ziadkadry99/code-landscape/internal/report"
	"github.com/ziadkadry99/code-landscape/internal/search"
)

var (
	insightDoc    string
	insightDemo   bool
	insightFormat string
	insightOutput string
	insightHTML   bool
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	headColor  = color.New(color.FgYellow, color.Bold)
	dimColor   = color.New(color.Faint)
	markColor  = color.New(color.FgGreen, color.Bold)
)

var insightCmd = &cobra.Command{
	Use:   "insight [node-id]",
	Short: "Show dependencies, impact and the longest path of a node",
	Long: `Describes one node of a graph document: its direct connections, what it
transitively depends on, what it impacts, and the longest chain of relationships
passing through it. Without a node id an interactive picker is shown.

With --format md or --format html the full report is written instead of the
terminal summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := resolveDocument(insightDoc, cfg, insightDemo)
		if err != nil {
			return err
		}

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			id, err = pickNode(doc)
			if err != nil {
				return err
			}
		}

		engine := insight.NewEngine(doc, cfg.Depths())
		d, err := engine.Describe(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("describing %q: %w", id, err)
		}

		if insightHTML {
			insightFormat = string(report.HTML)
		}
		if insightFormat == "" {
			printDetail(cmd.OutOrStdout(), d)
			return nil
		}

		format, err := report.ParseFormat(insightFormat)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if insightOutput != "" {
			f, err := os.Create(insightOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", insightOutput, err)
			}
			defer f.Close()
			out = f
		}
		return report.Write(out, format, d, report.Options{Repo: doc.RepoName, NodeColors: doc.NodeColors})
	},
}

// pickNode lets the user choose a node interactively. Typing filters the
// list with the same matcher as the viewer's search box.
func pickNode(doc *graphdoc.Document) (string, error) {
	if len(doc.Nodes) == 0 {
		return "", fmt.Errorf("document has no nodes")
	}
	items := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		items[i] = fmt.Sprintf("%s [%s] %s", n.Label, n.Type, n.FilePath)
	}
	prompt := promptui.Select{
		Label: "Select a node",
		Items: items,
		Size:  15,
		Searcher: func(input string, index int) bool {
			return search.Parse(input).Match(&doc.Nodes[index])
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("node selection: %w", err)
	}
	return doc.Nodes[idx].ID, nil
}

// printDetail writes a colored terminal summary of d.
func printDetail(w io.Writer, d *insight.Detail) {
	titleColor.Fprintf(w, "%s", d.Node.Label)
	dimColor.Fprintf(w, "  [%s] %s\n", d.Node.Type, location(d.Node))
	fmt.Fprintf(w, "%d direct connection(s)\n", d.Degree)

	if len(d.Outgoing)+len(d.Incoming) > 0 {
		headColor.Fprintln(w, "\nConnections")
		for _, c := range d.Outgoing {
			fmt.Fprintf(w, "  %s %s\n", c.Verb, c.Node.Label)
		}
		for _, c := range d.Incoming {
			fmt.Fprintf(w, "  %s %s\n", c.Verb, c.Node.Label)
		}
	}

	printReach(w, "Dependencies", d.Dependencies)
	printReach(w, "Impact", d.Impact)

	if len(d.LongestPath) > 1 {
		headColor.Fprintf(w, "\nLongest path (%d nodes)\n  ", len(d.LongestPath))
		for i, step := range d.LongestPath {
			if i > 0 {
				dimColor.Fprintf(w, " -%s-> ", step.EdgeType)
			}
			if step.Node.ID == d.Node.ID {
				markColor.Fprint(w, step.Node.Label)
			} else {
				fmt.Fprint(w, step.Node.Label)
			}
		}
		fmt.Fprintln(w)
	}
}

func printReach(w io.Writer, title string, r insight.Reachability) {
	headColor.Fprintf(w, "\n%s (%d)\n", title, r.Total)
	if r.Total == 0 {
		dimColor.Fprintln(w, "  none")
		return
	}
	for _, g := range r.Groups {
		labels := make([]string, len(g.Nodes))
		for i, n := range g.Nodes {
			labels[i] = n.Label
		}
		fmt.Fprintf(w, "  %d hop(s) via %s: %s\n", g.Depth, g.EdgeType, strings.Join(labels, ", "))
	}
}

func location(n insight.NodeRef) string {
	if n.FilePath == "" {
		return ""
	}
	if n.Line > 0 {
		return fmt.Sprintf("%s:%d", n.FilePath, n.Line)
	}
	return n.FilePath
}

func init() {
	insightCmd.Flags().StringVar(&insightDoc, "doc", "", "graph document (defaults to the configured document)")
	insightCmd.Flags().BoolVar(&insightDemo, "demo", false, "use the built-in demo graph")
	insightCmd.Flags().StringVar(&insightFormat, "format", "", "write the full report as md or html instead of a summary")
	insightCmd.Flags().BoolVar(&insightHTML, "html", false, "shorthand for --format html")
	insightCmd.Flags().StringVarP(&insightOutput, "output", "o", "", "report output file (default stdout)")
	rootCmd.AddCommand(insightCmd)
}
