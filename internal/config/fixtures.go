package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// RootPlaceholder is replaced by the crawled root URL in fixture URLs.
const RootPlaceholder = "{root}"

// FixturesFile is the YAML document describing the canned crawl results.
type FixturesFile struct {
	Links []FixtureLink `yaml:"links"`
}

// FixtureLink is one canned link. URL and Source may contain {root}.
type FixtureLink struct {
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
	Status int    `yaml:"status"`
}

// DefaultFixtures returns the built-in canned crawl: nine links, five working
// and four broken.
func DefaultFixtures() []FixtureLink {
	return []FixtureLink{
		{URL: "{root}/about", Source: "{root}", Status: 200},
		{URL: "{root}/products", Source: "{root}", Status: 200},
		{URL: "{root}/contact", Source: "{root}", Status: 200},
		{URL: "{root}/blog/post-1", Source: "{root}/blog", Status: 200},
		{URL: "{root}/blog/post-2", Source: "{root}/blog", Status: 404},
		{URL: "{root}/old-page", Source: "{root}/about", Status: 404},
		{URL: "https://external-site.com/resource", Source: "{root}/resources", Status: 500},
		{URL: "https://partner-site.com", Source: "{root}/partners", Status: 200},
		{URL: "https://broken-external.com", Source: "{root}/partners", Status: 404},
	}
}

// LoadFixtures reads canned crawl links from path. An empty path returns the
// defaults.
func LoadFixtures(path string) ([]FixtureLink, error) {
	if path == "" {
		return DefaultFixtures(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f FixturesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if len(f.Links) == 0 {
		return nil, errors.New("fixtures file defines no links")
	}

	return f.Links, nil
}
