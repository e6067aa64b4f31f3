package config

import "github.com/ziadkadry99/code-landscape/internal/insight"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".landscape.yml"

// Size is a canvas size in pixels.
type Size struct {
	Width, Height int
}

// resolutionPresets maps each resolution to its canvas size.
var resolutionPresets = map[Resolution]Size{
	ResolutionSmall:  {Width: 960, Height: 600},
	ResolutionMedium: {Width: 1280, Height: 800},
	ResolutionLarge:  {Width: 1920, Height: 1200},
}

// GetPreset returns the canvas size of a resolution, falling back to medium.
func GetPreset(r Resolution) Size {
	if s, ok := resolutionPresets[r]; ok {
		return s
	}
	return resolutionPresets[ResolutionMedium]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Analyzer: AnalyzerConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 300,
		},
		Server: ServerConfig{
			Port:                  8080,
			FrameRate:             30,
			SearchDebounceMS:      250,
			RequestTimeoutSeconds: 60,
		},
		Viewer: ViewerConfig{
			Resolution:      ResolutionMedium,
			ShowArrows:      true,
			ShowLabels:      true,
			HistoryCapacity: insight.HistoryCapacity,
		},
		Insight: InsightConfig{
			DependencyDepth: insight.DependencyDepth,
			ImpactDepth:     insight.ImpactDepth,
			PathDepth:       insight.PathDepth,
		},
		Render: RenderConfig{
			MaxTicks: 600,
		},
	}
}
