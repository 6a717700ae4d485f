// Package config loads the optional seed feeds file: a YAML document
// listing feed URLs that should be ingested and kept polled even before
// any client ever asks for them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedsFile struct {
	Feeds []seedEntry `yaml:"feeds"`
}

type seedEntry struct {
	URL string `yaml:"url"`
}

// LoadSeeds reads the seed feeds file and returns the listed feed URLs.
// Entries without a url are skipped.
func LoadSeeds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed feeds file: %w", err)
	}

	var parsed seedsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse seed feeds file: %w", err)
	}

	urls := make([]string, 0, len(parsed.Feeds))
	for _, entry := range parsed.Feeds {
		if entry.URL == "" {
			continue
		}
		urls = append(urls, entry.URL)
	}

	return urls, nil
}
