package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
)

func detailFor(t *testing.T, id string) (*insight.Detail, *graphdoc.Document) {
	t.Helper()
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "A", Label: "a.py", Type: graphdoc.TypeFile, FilePath: "a.py"})
	b.AddNode(graphdoc.Node{ID: "B", Label: "Service", Type: graphdoc.TypeClass, FilePath: "a.py", LineNumber: 12})
	b.AddNode(graphdoc.Node{ID: "C", Label: "run", Type: graphdoc.TypeFunction})
	b.AddNode(graphdoc.Node{ID: "D", Label: "lonely", Type: graphdoc.TypeUtility})
	b.AddEdge(graphdoc.Edge{Source: "A", Target: "B", Type: graphdoc.EdgeImports})
	b.AddEdge(graphdoc.Edge{Source: "B", Target: "C", Type: graphdoc.EdgeCalls})
	doc := b.Build("abc")

	d, err := insight.NewEngine(doc, insight.Depths{}).Describe(context.Background(), id)
	require.NoError(t, err)
	return d, doc
}

func TestMarkdownReport(t *testing.T) {
	d, doc := detailFor(t, "B")

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, d, Options{Repo: doc.RepoName, NodeColors: doc.NodeColors}))
	md := buf.String()

	for _, want := range []string{
		"# Service\n",
		"| Location | `a.py:12` |",
		"*Repository: abc*",
		"- calls **run** (`function`)",
		"- imported by **a.py** (`file`)",
		"## Dependencies (1)",
		"| 1 | `imports` | a.py |",
		"## Impact (1)",
		"| 1 | `calls` | run |",
		"a.py → **Service** → run",
		"```mermaid\nflowchart LR\n",
		"A -->|imports| B",
	} {
		assert.Contains(t, md, want)
	}
}

func TestMarkdownReportIsolatedNode(t *testing.T) {
	d, _ := detailFor(t, "D")

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, d, Options{}))
	md := buf.String()

	assert.Contains(t, md, "This node has no connections.")
	assert.Contains(t, md, "No chain passes through this node.")
	assert.Equal(t, 2, strings.Count(md, "None."))
	assert.NotContains(t, md, "```mermaid")
	assert.NotContains(t, md, "Location")
}

func TestHTMLReport(t *testing.T) {
	d, doc := detailFor(t, "B")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, HTML, d, Options{Repo: doc.RepoName}))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Service · abc</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, `id="longest-path"`)
	assert.Contains(t, page, "mermaid.initialize")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, HTML, f)
	assert.Equal(t, "text/html; charset=utf-8", f.ContentType())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
