package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// detectDocument returns the first JSON file in dir that decodes as a
// valid graph document.
func detectDocument(dir string) string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	for _, m := range matches {
		if _, err := graphdoc.LoadFile(m); err == nil {
			return m
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to landscape! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	detected := detectDocument(".")
	if detected != "" {
		fmt.Printf("Found graph document: %s\n\n", detected)
	}

	// 1. Startup document.
	docPrompt := promptui.Prompt{
		Label:   "Graph document to load at startup (blank for none)",
		Default: detected,
	}
	doc, err := docPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	cfg.Document = strings.TrimSpace(doc)

	// 2. Watch for changes.
	if cfg.Document != "" {
		watchPrompt := promptui.Select{
			Label: "Reload the document when it changes on disk?",
			Items: []string{"yes", "no"},
		}
		idx, _, err := watchPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("watch selection: %w", err)
		}
		cfg.Watch = idx == 0
	}

	// 3. Analyzer.
	analyzerPrompt := promptui.Prompt{
		Label:   "Analyzer service URL",
		Default: cfg.Analyzer.URL,
	}
	url, err := analyzerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("analyzer url: %w", err)
	}
	cfg.Analyzer.URL = strings.TrimSpace(url)

	// 4. Canvas size.
	resPrompt := promptui.Select{
		Label: "Select canvas resolution",
		Items: []string{
			"small  (960x600)",
			"medium (1280x800)",
			"large  (1920x1200)",
		},
		CursorPos: 1,
	}
	resIdx, _, err := resPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("resolution selection: %w", err)
	}
	cfg.Viewer.Resolution = []Resolution{ResolutionSmall, ResolutionMedium, ResolutionLarge}[resIdx]

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if p <= 0 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
