package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/code-landscape/internal/adjacency"
	"github.com/ziadkadry99/code-landscape/internal/insight"
	"github.com/ziadkadry99/code-landscape/internal/metrics"
	"github.com/ziadkadry99/code-landscape/internal/report"
	"github.com/ziadkadry99/code-landscape/internal/search"
)

// handleSearchNodes matches nodes by substring or glob.
func (s *Server) handleSearchNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	typeFilter := request.GetString("type_filter", "")

	e := s.currentEngine()
	q := search.Parse(query)
	var sb strings.Builder
	found := 0
	for i := range e.Document().Nodes {
		n := &e.Document().Nodes[i]
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		if !q.Match(n) {
			continue
		}
		found++
		if found > limit {
			continue
		}
		fmt.Fprintf(&sb, "- %s [%s] id=%s", n.Label, n.Type, n.ID)
		if n.FilePath != "" {
			fmt.Fprintf(&sb, " (%s", n.FilePath)
			if n.LineNumber > 0 {
				fmt.Fprintf(&sb, ":%d", n.LineNumber)
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}

	if found == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No nodes match %q.", query)), nil
	}
	header := fmt.Sprintf("Found %d node(s)", found)
	if found > limit {
		header += fmt.Sprintf(", showing the first %d", limit)
	}
	return mcp.NewToolResultText(header + ":\n" + sb.String()), nil
}

// handleGetNode returns the markdown insight report of a node.
func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	e := s.currentEngine()
	start := time.Now()
	d, err := e.Describe(ctx, id)
	metrics.Insight("describe", start)
	if err != nil {
		return toolError(id, err), nil
	}

	var sb strings.Builder
	doc := e.Document()
	if err := report.WriteMarkdown(&sb, d, report.Options{Repo: doc.RepoName}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.reach(ctx, request, adjacency.Upstream, "dependencies", s.depthsOrDefault().Dependencies)
}

func (s *Server) handleGetImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.reach(ctx, request, adjacency.Downstream, "impact", s.depthsOrDefault().Impact)
}

// reach runs a bounded BFS and lists the results grouped by hop distance.
func (s *Server) reach(ctx context.Context, request mcp.CallToolRequest, dir adjacency.Direction, query string, def int) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	depth := request.GetInt("max_depth", def)
	if depth <= 0 {
		depth = def
	}

	e := s.currentEngine()
	if e.Document().Node(id) == nil {
		return toolError(id, insight.ErrUnknownNode), nil
	}

	start := time.Now()
	reached, err := insight.BFS(ctx, e.Index(), id, dir, depth)
	metrics.Insight(query, start)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s query failed: %v", query, err)), nil
	}

	ref := e.Ref(id)
	if len(reached) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no %s within %d hops.", ref.Label, query, depth)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d node(s) within %d hops of %s\n", query, len(reached), depth, ref.Label)
	lastDepth := 0
	for _, r := range reached {
		if r.Depth != lastDepth {
			fmt.Fprintf(&sb, "\nDepth %d:\n", r.Depth)
			lastDepth = r.Depth
		}
		n := e.Ref(r.ID)
		fmt.Fprintf(&sb, "- %s [%s] via %s id=%s\n", n.Label, n.Type, insight.VerbFor(r.EdgeType, dir), n.ID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetLongestPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	def := s.depthsOrDefault().Path
	depth := request.GetInt("max_depth", def)
	if depth <= 0 {
		depth = def
	}

	e := s.currentEngine()
	if e.Document().Node(id) == nil {
		return toolError(id, insight.ErrUnknownNode), nil
	}

	start := time.Now()
	path, err := insight.LongestPath(ctx, e.Index(), id, depth)
	metrics.Insight("longest_path", start)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("longest path query failed: %v", err)), nil
	}
	if len(path) < 2 {
		return mcp.NewToolResultText(fmt.Sprintf("No chain passes through %s.", e.Ref(id).Label)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Longest chain through %s (%d nodes):\n", e.Ref(id).Label, len(path))
	for i, step := range path {
		n := e.Ref(step.ID)
		marker := ""
		if step.ID == id {
			marker = "  <- selected"
		}
		if i == 0 {
			fmt.Fprintf(&sb, "%d. %s [%s]%s\n", i+1, n.Label, n.Type, marker)
			continue
		}
		fmt.Fprintf(&sb, "%d. %s %s [%s]%s\n", i+1, insight.VerbFor(step.EdgeType, adjacency.Downstream), n.Label, n.Type, marker)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) depthsOrDefault() insight.Depths {
	return s.currentEngine().Depths()
}

func toolError(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, insight.ErrUnknownNode) {
		return mcp.NewToolResultError(fmt.Sprintf("No node with id %q. Use search_nodes to find ids.", id))
	}
	return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err))
}
