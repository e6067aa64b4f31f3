package graphdoc

// FallbackColor is used for any type without a known color.
const FallbackColor = "#8b949e"

// Node types emitted by the analyzer.
const (
	TypeEndpoint   = "endpoint"
	TypeFile       = "file"
	TypeClass      = "class"
	TypeFunction   = "function"
	TypeRouter     = "router"
	TypeModel      = "model"
	TypeService    = "service"
	TypeUtility    = "utility"
	TypeMiddleware = "middleware"
	TypeTask       = "task"
	TypeConfig     = "config"
	TypeTest       = "test"
	TypeComponent  = "component"
	TypeModule     = "module"
)

// Edge types emitted by the analyzer.
const (
	EdgeImports         = "imports"
	EdgeCalls           = "calls"
	EdgeInherits        = "inherits"
	EdgeEndpointHandler = "endpoint_handler"
	EdgeDBRead          = "db_read"
	EdgeDBWrite         = "db_write"
	EdgeAPICall         = "api_call"
	EdgeUses            = "uses"
	EdgeMiddlewareChain = "middleware_chain"
)

var defaultNodeColors = map[string]string{
	TypeEndpoint:   "#00bcd4",
	TypeFile:       "#66bb6a",
	TypeClass:      "#ffa726",
	TypeFunction:   "#42a5f5",
	TypeRouter:     "#ef5350",
	TypeModel:      "#ec407a",
	TypeService:    "#26a69a",
	TypeUtility:    "#78909c",
	TypeMiddleware: "#ab47bc",
	TypeTask:       "#ff7043",
	TypeConfig:     "#8d6e63",
	TypeTest:       "#9ccc65",
	TypeComponent:  "#29b6f6",
	TypeModule:     "#d4e157",
}

var defaultEdgeColors = map[string]string{
	EdgeImports:         "#4fc3f7",
	EdgeCalls:           "#81c784",
	EdgeInherits:        "#ffb74d",
	EdgeEndpointHandler: "#e57373",
	EdgeDBRead:          "#4dd0e1",
	EdgeDBWrite:         "#f06292",
	EdgeAPICall:         "#aed581",
	EdgeUses:            "#90a4ae",
	EdgeMiddlewareChain: "#ce93d8",
}

// DefaultNodeColor returns the built-in color for a node type.
func DefaultNodeColor(nodeType string) string {
	if c, ok := defaultNodeColors[nodeType]; ok {
		return c
	}
	return FallbackColor
}

// DefaultEdgeColor returns the built-in color for an edge type.
func DefaultEdgeColor(edgeType string) string {
	if c, ok := defaultEdgeColors[edgeType]; ok {
		return c
	}
	return FallbackColor
}

// DefaultNodeColors returns a copy of the built-in node palette.
func DefaultNodeColors() map[string]string {
	return copyColors(defaultNodeColors)
}

// DefaultEdgeColors returns a copy of the built-in edge palette.
func DefaultEdgeColors() map[string]string {
	return copyColors(defaultEdgeColors)
}

func copyColors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
