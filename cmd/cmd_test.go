package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ziadkadry99/code-landscape/internal/config"
	"github.com/ziadkadry99/code-landscape/internal/insight"
)

func TestDemoDocumentIsValid(t *testing.T) {
	doc := demoDocument()
	if err := doc.Validate(); err != nil {
		t.Fatalf("demo document invalid: %v", err)
	}
	if doc.RepoName != "demo-shop" {
		t.Errorf("repo name: got %q", doc.RepoName)
	}
	if len(doc.Nodes) != 21 || len(doc.Edges) != 23 {
		t.Errorf("got %d nodes and %d edges, want 21 and 23", len(doc.Nodes), len(doc.Edges))
	}
	if len(doc.NodeTypeCounts) != 14 {
		t.Errorf("demo should cover all 14 node types, got %d", len(doc.NodeTypeCounts))
	}
	if len(doc.EdgeTypeCounts) != 9 {
		t.Errorf("demo should cover all 9 edge types, got %d", len(doc.EdgeTypeCounts))
	}
}

func TestResolveDocument(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := resolveDocument("", cfg, false); !errors.Is(err, errNoDocument) {
		t.Errorf("expected errNoDocument, got %v", err)
	}
	doc, err := resolveDocument("", cfg, true)
	if err != nil || doc == nil {
		t.Fatalf("demo: %v", err)
	}
	if _, err := resolveDocument("does-not-exist.json", cfg, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRenderDocument(t *testing.T) {
	var buf bytes.Buffer
	n, err := renderDocument(context.Background(), config.DefaultConfig(), demoDocument(), &buf, renderOptions{
		Size:          config.Size{Width: 320, Height: 200},
		MaxTicks:      50,
		Select:        "OrderService",
		HideNodeTypes: []string{"test"},
	})
	if err != nil {
		t.Fatalf("renderDocument: %v", err)
	}
	if n == 0 || n > 50 {
		t.Errorf("ticks run: got %d", n)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderDocumentUnknownSelection(t *testing.T) {
	var buf bytes.Buffer
	_, err := renderDocument(context.Background(), config.DefaultConfig(), demoDocument(), &buf, renderOptions{
		Size:     config.Size{Width: 100, Height: 100},
		MaxTicks: 1,
		Select:   "nope",
	})
	if !errors.Is(err, insight.ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestPrintDetail(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	engine := insight.NewEngine(demoDocument(), insight.Depths{})
	d, err := engine.Describe(context.Background(), "create_order")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printDetail(&buf, d)
	out := buf.String()
	for _, want := range []string{
		"create_order  [function] app/routes/orders.py:15",
		"Connections",
		"Dependencies (",
		"Impact (",
		"Longest path (",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		ref  insight.NodeRef
		want string
	}{
		{insight.NodeRef{}, ""},
		{insight.NodeRef{FilePath: "a.py"}, "a.py"},
		{insight.NodeRef{FilePath: "a.py", Line: 7}, "a.py:7"},
	}
	for _, tt := range tests {
		if got := location(tt.ref); got != tt.want {
			t.Errorf("location(%+v) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
