package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
)

func testDoc() *graphdoc.Document {
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "A", Label: "app.py", Type: graphdoc.TypeFile, FilePath: "app.py"})
	b.AddNode(graphdoc.Node{ID: "B", Label: "Service", Type: graphdoc.TypeClass, FilePath: "app.py", LineNumber: 4})
	b.AddNode(graphdoc.Node{ID: "C", Label: "handle", Type: graphdoc.TypeFunction, FilePath: "app.py", LineNumber: 9})
	b.AddNode(graphdoc.Node{ID: "D", Label: "User", Type: graphdoc.TypeModel, FilePath: "models.py"})
	b.AddEdge(graphdoc.Edge{Source: "A", Target: "B", Type: graphdoc.EdgeImports})
	b.AddEdge(graphdoc.Edge{Source: "B", Target: "C", Type: graphdoc.EdgeCalls})
	return b.Build("demo")
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_nodes", searchNodesTool, "search_nodes"},
		{"get_node", getNodeTool, "get_node"},
		{"get_dependencies", getDependenciesTool, "get_dependencies"},
		{"get_impact", getImpactTool, "get_impact"},
		{"get_longest_path", getLongestPathTool, "get_longest_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(testDoc(), insight.Depths{})
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if got := srv.depthsOrDefault(); got != insight.DefaultDepths() {
		t.Errorf("depths = %+v, want defaults", got)
	}
}

func TestHandleSearchNodes(t *testing.T) {
	srv := NewServer(testDoc(), insight.Depths{})

	t.Run("substring", func(t *testing.T) {
		text, isErr := call(t, srv.handleSearchNodes, map[string]any{"query": "serv"})
		if isErr {
			t.Fatalf("unexpected tool error: %s", text)
		}
		if !strings.Contains(text, "Found 1 node(s)") || !strings.Contains(text, "id=B (app.py:4)") {
			t.Errorf("unexpected result: %s", text)
		}
	})

	t.Run("glob with type filter and limit", func(t *testing.T) {
		text, _ := call(t, srv.handleSearchNodes, map[string]any{"query": "app.py", "type_filter": "class"})
		if !strings.Contains(text, "Found 1 node(s)") {
			t.Errorf("type filter not applied: %s", text)
		}
		text, _ = call(t, srv.handleSearchNodes, map[string]any{"query": "*.py", "limit": 2})
		if !strings.Contains(text, "Found 4 node(s), showing the first 2") {
			t.Errorf("limit not applied: %s", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		if _, isErr := call(t, srv.handleSearchNodes, map[string]any{}); !isErr {
			t.Error("expected error for missing query")
		}
	})

	t.Run("no match", func(t *testing.T) {
		text, isErr := call(t, srv.handleSearchNodes, map[string]any{"query": "zzz"})
		if isErr || !strings.Contains(text, "No nodes match") {
			t.Errorf("unexpected result: %s", text)
		}
	})
}

func TestHandleGetNode(t *testing.T) {
	srv := NewServer(testDoc(), insight.Depths{})

	text, isErr := call(t, srv.handleGetNode, map[string]any{"id": "B"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	for _, want := range []string{"# Service", "- calls **handle**", "- imported by **app.py**"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in report:\n%s", want, text)
		}
	}

	text, isErr = call(t, srv.handleGetNode, map[string]any{"id": "nope"})
	if !isErr || !strings.Contains(text, "search_nodes") {
		t.Errorf("expected unknown node error, got %s", text)
	}
}

func TestHandleReachability(t *testing.T) {
	srv := NewServer(testDoc(), insight.Depths{})

	text, _ := call(t, srv.handleGetImpact, map[string]any{"id": "A"})
	if !strings.Contains(text, "impact: 2 node(s)") || !strings.Contains(text, "Depth 2:\n- handle [function] via calls") {
		t.Errorf("unexpected impact: %s", text)
	}

	text, _ = call(t, srv.handleGetImpact, map[string]any{"id": "A", "max_depth": 1})
	if strings.Contains(text, "handle") {
		t.Errorf("max_depth ignored: %s", text)
	}

	text, _ = call(t, srv.handleGetDependencies, map[string]any{"id": "C"})
	if !strings.Contains(text, "- Service [class] via called by") {
		t.Errorf("unexpected dependencies: %s", text)
	}

	text, _ = call(t, srv.handleGetDependencies, map[string]any{"id": "D"})
	if !strings.Contains(text, "User has no dependencies") {
		t.Errorf("unexpected result for isolated node: %s", text)
	}
}

func TestHandleGetLongestPath(t *testing.T) {
	srv := NewServer(testDoc(), insight.Depths{})

	text, isErr := call(t, srv.handleGetLongestPath, map[string]any{"id": "B"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	want := "1. app.py [file]\n2. imports Service [class]  <- selected\n3. calls handle [function]\n"
	if !strings.HasSuffix(text, want) {
		t.Errorf("unexpected path:\n%s", text)
	}

	text, _ = call(t, srv.handleGetLongestPath, map[string]any{"id": "D"})
	if !strings.Contains(text, "No chain passes through User") {
		t.Errorf("unexpected result: %s", text)
	}
}

func TestSetDocumentSwapsEngine(t *testing.T) {
	srv := NewServer(nil, insight.Depths{})
	text, _ := call(t, srv.handleSearchNodes, map[string]any{"query": "app"})
	if !strings.Contains(text, "No nodes match") {
		t.Errorf("expected empty engine, got %s", text)
	}

	srv.SetDocument(testDoc())
	text, _ = call(t, srv.handleSearchNodes, map[string]any{"query": "app"})
	if !strings.Contains(text, "Found") {
		t.Errorf("document not swapped: %s", text)
	}
}
