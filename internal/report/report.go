// Package report renders node insight as a markdown document or as a
// standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	ttemplate "text/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/code-landscape/internal/diagrams"
	"github.com/ziadkadry99/code-landscape/internal/insight"
)

// maxLabels caps the nodes listed per reachability group.
const maxLabels = 12

// Format selects the report output.
type Format string

const (
	Markdown Format = "md"
	HTML     Format = "html"
)

// ParseFormat maps a query parameter to a Format. Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "md", "markdown":
		return Markdown, nil
	case "html":
		return HTML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == HTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Options carries document context that the detail itself lacks.
type Options struct {
	Repo string
	// NodeColors maps node types to fill colors for the diagrams.
	NodeColors map[string]string
}

type reportData struct {
	*insight.Detail
	Repo         string
	Neighborhood string
	PathDiagram  string
}

var templateFuncs = ttemplate.FuncMap{
	"code": func(s string) string {
		if s == "" {
			return ""
		}
		return "`" + s + "`"
	},
	"location": func(n insight.NodeRef) string {
		if n.Line > 0 {
			return fmt.Sprintf("%s:%d", n.FilePath, n.Line)
		}
		return n.FilePath
	},
	"labels": func(nodes []insight.NodeRef) string {
		parts := make([]string, 0, len(nodes))
		for i, n := range nodes {
			if i == maxLabels {
				parts = append(parts, fmt.Sprintf("+%d more", len(nodes)-maxLabels))
				break
			}
			parts = append(parts, strings.ReplaceAll(n.Label, "|", `\|`))
		}
		return strings.Join(parts, ", ")
	},
}

var mdTemplate = ttemplate.Must(
	ttemplate.Must(ttemplate.New("node").Funcs(templateFuncs).Parse(nodeReportTemplate)).Parse(reachTemplate),
)

var htmlPage = template.Must(template.New("page").Parse(pageTemplate))

// WriteMarkdown renders d as markdown.
func WriteMarkdown(w io.Writer, d *insight.Detail, opts Options) error {
	data := reportData{
		Detail:       d,
		Repo:         opts.Repo,
		Neighborhood: neighborhood(d, opts.NodeColors),
		PathDiagram:  pathDiagram(d, opts.NodeColors),
	}
	if err := mdTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report for %s: %w", d.Node.ID, err)
	}
	return nil
}

// WriteHTML renders d as a standalone HTML page.
func WriteHTML(w io.Writer, d *insight.Detail, opts Options) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, d, opts); err != nil {
		return err
	}

	conv := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	var body bytes.Buffer
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("converting report for %s: %w", d.Node.ID, err)
	}

	title := d.Node.Label
	if opts.Repo != "" {
		title += " · " + opts.Repo
	}
	return htmlPage.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()),
	})
}

// Write renders d in the requested format.
func Write(w io.Writer, f Format, d *insight.Detail, opts Options) error {
	if f == HTML {
		return WriteHTML(w, d, opts)
	}
	return WriteMarkdown(w, d, opts)
}

func diagramNode(r insight.NodeRef) diagrams.Node {
	return diagrams.Node{ID: r.ID, Label: r.Label, Class: r.Type}
}

// neighborhood draws the node with its direct connections.
func neighborhood(d *insight.Detail, colors map[string]string) string {
	if len(d.Outgoing) == 0 && len(d.Incoming) == 0 {
		return ""
	}
	nodes := []diagrams.Node{diagramNode(d.Node)}
	var links []diagrams.Link
	for _, c := range d.Incoming {
		nodes = append(nodes, diagramNode(c.Node))
		links = append(links, diagrams.Link{From: c.Node.ID, To: d.Node.ID, Label: c.EdgeType})
	}
	for _, c := range d.Outgoing {
		nodes = append(nodes, diagramNode(c.Node))
		links = append(links, diagrams.Link{From: d.Node.ID, To: c.Node.ID, Label: c.EdgeType})
	}
	return diagrams.Flowchart("LR", nodes, links, colors)
}

// pathDiagram draws the longest path as a chain.
func pathDiagram(d *insight.Detail, colors map[string]string) string {
	if len(d.LongestPath) < 2 {
		return ""
	}
	nodes := make([]diagrams.Node, 0, len(d.LongestPath))
	links := make([]diagrams.Link, 0, len(d.LongestPath)-1)
	for i, p := range d.LongestPath {
		nodes = append(nodes, diagramNode(p.Node))
		if i > 0 {
			links = append(links, diagrams.Link{From: d.LongestPath[i-1].Node.ID, To: p.Node.ID, Label: p.EdgeType})
		}
	}
	return diagrams.Flowchart("LR", nodes, links, colors)
}
