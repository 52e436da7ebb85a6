package rss

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/scraper"
)

// Source is one newsletter to scrape.
//
//	sources:
//	  - name: AI Rundown
//	    kind: rundown
//	    archive_url: https://www.therundown.ai/archive
//	    base_url: https://www.therundown.ai
type Source struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	ArchiveURL string   `yaml:"archive_url"`
	BaseURL    string   `yaml:"base_url"`
	Domain     string   `yaml:"domain"`
	FeedURL    string   `yaml:"feed_url"`
	Exclude    []string `yaml:"exclude"`
}

// SourcesConfig is the YAML file layout.
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// DefaultSources are used when no sources file exists.
func DefaultSources() []Source {
	return []Source{
		{
			Name:       news.SourceBensBites,
			Kind:       scraper.KindBensBites,
			ArchiveURL: "https://www.bensbites.com/archive",
			BaseURL:    "https://www.bensbites.com",
			Domain:     "bensbites.com",
			FeedURL:    "https://www.bensbites.com/feed",
			Exclude:    []string{"substack.com"},
		},
		{
			Name:       news.SourceRundown,
			Kind:       scraper.KindRundown,
			ArchiveURL: "https://www.therundown.ai/archive",
			BaseURL:    "https://www.therundown.ai",
			Domain:     "therundown.ai",
		},
	}
}

// LoadSources reads the source list from a YAML file. A missing file
// yields DefaultSources; a malformed one is an error.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("sources file not found, using defaults", "path", path)
		return DefaultSources(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	for i, s := range cfg.Sources {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}
	if len(cfg.Sources) == 0 {
		return DefaultSources(), nil
	}
	return cfg.Sources, nil
}

func (s Source) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if s.ArchiveURL == "" || s.BaseURL == "" {
		return fmt.Errorf("%s: archive_url and base_url are required", s.Name)
	}
	if _, ok := scraper.ExtractorFor(s.Kind); !ok {
		return fmt.Errorf("%s: unknown kind %q (want one of %v)", s.Name, s.Kind, scraper.Kinds())
	}
	return nil
}

// FetchEditions reads a source's RSS/Atom feed and returns edition links,
// newest first, capped at limit (no cap when limit <= 0).
func FetchEditions(ctx context.Context, feedURL string, timeout time.Duration, limit int) ([]scraper.Edition, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = scraper.DefaultUserAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing RSS %s: %w", feedURL, err)
	}

	items := append([]*gofeed.Item(nil), feed.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedParsed, items[j].PublishedParsed
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})

	seen := make(map[string]bool)
	var editions []scraper.Edition
	for _, item := range items {
		link := news.CanonicalURL(item.Link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		editions = append(editions, scraper.Edition{Title: strings.TrimSpace(item.Title), URL: link})
		if limit > 0 && len(editions) == limit {
			break
		}
	}

	logger.Info("loaded editions from feed", "url", feedURL, "count", len(editions))
	return editions, nil
}
