package cmd

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/code-landscape/internal/config"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/viewer"
)

var errNoDocument = errors.New("no graph document: pass --doc, set document in the config, or use --demo")

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `landscape init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newViewer creates a viewer from the config at the given canvas size.
func newViewer(cfg *config.Config, size config.Size) *viewer.Viewer {
	return viewer.New(viewer.Options{
		Width:           size.Width,
		Height:          size.Height,
		Depths:          cfg.Depths(),
		HistoryCapacity: cfg.Viewer.HistoryCapacity,
		ShowArrows:      cfg.Viewer.ShowArrows,
		ShowLabels:      cfg.Viewer.ShowLabels,
	})
}

// resolveDocument loads the document named by the flag, falling back to the
// configured one, or builds the demo graph.
func resolveDocument(flagPath string, cfg *config.Config, demo bool) (*graphdoc.Document, error) {
	if demo {
		return demoDocument(), nil
	}
	path := flagPath
	if path == "" {
		path = cfg.Document
	}
	if path == "" {
		return nil, errNoDocument
	}
	return graphdoc.LoadFile(path)
}
