package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes graph insight tools.
type Server struct {
	depths insight.Depths
	mcp    *server.MCPServer

	mu     sync.RWMutex
	engine *insight.Engine
}

// NewServer creates a new MCP server answering queries over doc.
func NewServer(doc *graphdoc.Document, depths insight.Depths) *Server {
	s := &Server{depths: depths}
	s.SetDocument(doc)

	s.mcp = server.NewMCPServer(
		"landscape",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// SetDocument swaps the document the tools answer about.
func (s *Server) SetDocument(doc *graphdoc.Document) {
	e := insight.NewEngine(doc, s.depths)
	s.mu.Lock()
	s.engine = e
	s.mu.Unlock()
}

func (s *Server) currentEngine() *insight.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchNodesTool, s.handleSearchNodes)
	s.mcp.AddTool(getNodeTool, s.handleGetNode)
	s.mcp.AddTool(getDependenciesTool, s.handleGetDependencies)
	s.mcp.AddTool(getImpactTool, s.handleGetImpact)
	s.mcp.AddTool(getLongestPathTool, s.handleGetLongestPath)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
