package config

// Resolution names a canvas size preset.
type Resolution string

const (
	ResolutionSmall  Resolution = "small"
	ResolutionMedium Resolution = "medium"
	ResolutionLarge  Resolution = "large"
)

// Config is the top-level landscape configuration, corresponding to .landscape.yml.
type Config struct {
	// Document is the graph document loaded at startup. Empty starts with no graph.
	Document string         `yaml:"document" koanf:"document"`
	Watch    bool           `yaml:"watch" koanf:"watch"`
	LogLevel string         `yaml:"log_level" koanf:"log_level"`
	Analyzer AnalyzerConfig `yaml:"analyzer" koanf:"analyzer"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Viewer   ViewerConfig   `yaml:"viewer" koanf:"viewer"`
	Insight  InsightConfig  `yaml:"insight" koanf:"insight"`
	Render   RenderConfig   `yaml:"render" koanf:"render"`
}

// AnalyzerConfig points at the external analysis service.
type AnalyzerConfig struct {
	URL            string `yaml:"url" koanf:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port                  int  `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	FrameRate             int  `yaml:"frame_rate" koanf:"frame_rate"`
	SearchDebounceMS      int  `yaml:"search_debounce_ms" koanf:"search_debounce_ms"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
}

// ViewerConfig holds the initial view settings. Width and Height override
// the resolution preset when both are set.
type ViewerConfig struct {
	Resolution      Resolution `yaml:"resolution" koanf:"resolution"`
	Width           int        `yaml:"width" koanf:"width"`
	Height          int        `yaml:"height" koanf:"height"`
	ShowArrows      bool       `yaml:"show_arrows" koanf:"show_arrows"`
	ShowLabels      bool       `yaml:"show_labels" koanf:"show_labels"`
	HistoryCapacity int        `yaml:"history_capacity" koanf:"history_capacity"`
}

// InsightConfig bounds the traversal queries.
type InsightConfig struct {
	DependencyDepth int `yaml:"dependency_depth" koanf:"dependency_depth"`
	ImpactDepth     int `yaml:"impact_depth" koanf:"impact_depth"`
	PathDepth       int `yaml:"path_depth" koanf:"path_depth"`
}

// RenderConfig holds the settings of the offline render command.
type RenderConfig struct {
	MaxTicks int `yaml:"max_ticks" koanf:"max_ticks"`
}
