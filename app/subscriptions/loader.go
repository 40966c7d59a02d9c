package subscriptions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/podsift/podsift/app/feed"
)

// File is the on-disk shape of a subscriptions seed file:
//
//	feeds:
//	  - url: https://example.com/feed.xml
//	  - url: https://other.example/rss
type File struct {
	Feeds []Entry `yaml:"feeds"`
}

type Entry struct {
	URL string `yaml:"url"`
}

// Load reads a seed file and returns the normalized feed URLs, dropping
// empty entries and duplicates.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscriptions file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Feeds))
	urls := make([]string, 0, len(file.Feeds))
	for _, entry := range file.Feeds {
		url := feed.NormalizeURL(entry.URL)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}

	return urls, nil
}
