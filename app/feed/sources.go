package feed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yml
var defaultSources []byte

// LoadSources reads the feed source list from the given YAML file, or the
// built-in default list when path is empty.
func LoadSources(path string) ([]Source, error) {
	data := defaultSources
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sources file: %w", err)
		}
		data = fileData
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if err := validateSources(parsed.Sources); err != nil {
		return nil, err
	}

	enabled := make([]Source, 0, len(parsed.Sources))
	for _, source := range parsed.Sources {
		if !source.Enabled {
			slog.Debug("Source disabled, skipping", "source", source.Tag)
			continue
		}
		enabled = append(enabled, source)
	}

	return enabled, nil
}

func validateSources(sources []Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("no sources defined")
	}

	seen := make(map[string]bool, len(sources))
	for _, source := range sources {
		if source.Tag == "" {
			return fmt.Errorf("source with URL %q is missing a tag", source.URL)
		}
		if !strings.HasPrefix(source.URL, "http://") && !strings.HasPrefix(source.URL, "https://") {
			return fmt.Errorf("source %q has an invalid URL: %q", source.Tag, source.URL)
		}
		if seen[source.Tag] {
			return fmt.Errorf("duplicate source tag: %q", source.Tag)
		}
		seen[source.Tag] = true
	}

	return nil
}
