package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchNodesTool defines the search_nodes MCP tool.
var searchNodesTool = mcp.NewTool("search_nodes",
	mcp.WithDescription("Find nodes of the code graph by label, id or file path. Supports globs such as *.py or internal/**."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Substring or glob pattern"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 20)"),
	),
	mcp.WithString("type_filter",
		mcp.Description("Only return nodes of this type, e.g. function, class, file, endpoint"),
	),
)

// getNodeTool defines the get_node MCP tool.
var getNodeTool = mcp.NewTool("get_node",
	mcp.WithDescription("Get a full insight report for a node: direct connections, dependencies, impact and the longest chain through it."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id as returned by search_nodes"),
	),
)

// getDependenciesTool defines the get_dependencies MCP tool.
var getDependenciesTool = mcp.NewTool("get_dependencies",
	mcp.WithDescription("List everything a node transitively depends on (follows edges upstream), with hop distance."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id"),
	),
	mcp.WithNumber("max_depth",
		mcp.Description("Maximum hops to follow (default 6)"),
	),
)

// getImpactTool defines the get_impact MCP tool.
var getImpactTool = mcp.NewTool("get_impact",
	mcp.WithDescription("List everything affected if a node changes (follows edges downstream), with hop distance."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id"),
	),
	mcp.WithNumber("max_depth",
		mcp.Description("Maximum hops to follow (default 8)"),
	),
)

// getLongestPathTool defines the get_longest_path MCP tool.
var getLongestPathTool = mcp.NewTool("get_longest_path",
	mcp.WithDescription("Get the longest simple chain of relationships passing through a node, from its deepest dependency to its furthest dependent."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id"),
	),
	mcp.WithNumber("max_depth",
		mcp.Description("Maximum hops in each direction (default 12)"),
	),
)
