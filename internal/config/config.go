package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingToken is returned when publishing is requested without a
// GITHUB_TOKEN.
var ErrMissingToken = errors.New("GITHUB_TOKEN is required")

type Config struct {
	// Storage
	DataFile      string
	BookmarksFile string
	SourcesFile   string

	// Scraping
	FetchTimeout       time.Duration
	UserAgent          string
	MaxEditions        int
	EditionConcurrency int
	EditionCacheTTL    time.Duration // 0 disables the page cache

	// Filter & rank
	RecencyWindow time.Duration
	MaxArticles   int

	// Runner
	RunInterval time.Duration

	// Gemini settings
	GeminiAPIKey      string
	MaxGeminiRequests int // maximum Gemini requests per run (0 = unlimited)

	// Publish target
	GitHubToken   string
	PublishOwner  string
	PublishRepo   string
	PublishBranch string
	PublishPath   string

	// App settings
	MonitoringPort string
	Debug          bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		MaxGeminiRequests: 3,
	}

	cfg.DataFile = getEnvOrDefault("DATA_FILE", "public/data.json")
	cfg.BookmarksFile = getEnvOrDefault("BOOKMARKS_FILE", "bookmarks.json")
	cfg.SourcesFile = getEnvOrDefault("SOURCES_FILE", "configs/sources.yaml")

	cfg.FetchTimeout = getEnvDurationOrDefault("FETCH_TIMEOUT", 8*time.Second)
	cfg.UserAgent = os.Getenv("USER_AGENT")
	cfg.MaxEditions = getEnvIntOrDefault("MAX_EDITIONS", 10)
	cfg.EditionConcurrency = getEnvIntOrDefault("EDITION_CONCURRENCY", 4)
	cfg.EditionCacheTTL = getEnvDurationOrDefault("EDITION_CACHE_TTL", 0)

	cfg.RecencyWindow = time.Duration(getEnvIntOrDefault("RECENCY_WINDOW_HOURS", 72)) * time.Hour
	cfg.MaxArticles = getEnvIntOrDefault("MAX_ARTICLES", 100)
	cfg.RunInterval = getEnvDurationOrDefault("RUN_INTERVAL", 10*time.Minute)

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if gr := os.Getenv("MAX_GEMINI_REQUESTS"); gr != "" {
		if val, err := strconv.Atoi(gr); err == nil && val >= 0 {
			cfg.MaxGeminiRequests = val
		}
	}

	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.PublishOwner = os.Getenv("PUBLISH_OWNER")
	cfg.PublishRepo = os.Getenv("PUBLISH_REPO")
	cfg.PublishBranch = getEnvOrDefault("PUBLISH_BRANCH", "main")
	cfg.PublishPath = getEnvOrDefault("PUBLISH_PATH", "public/data.json")

	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", "8080")
	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.MaxEditions <= 0 {
		return fmt.Errorf("MAX_EDITIONS must be positive")
	}
	if c.EditionConcurrency <= 0 {
		return fmt.Errorf("EDITION_CONCURRENCY must be positive")
	}
	if c.RecencyWindow <= 0 {
		return fmt.Errorf("RECENCY_WINDOW_HOURS must be positive")
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("MAX_ARTICLES must be positive")
	}
	if c.RunInterval <= 0 {
		return fmt.Errorf("RUN_INTERVAL must be positive")
	}
	return nil
}

// ValidatePublish checks the settings of the publish step only.
func (c *Config) ValidatePublish() error {
	if c.GitHubToken == "" {
		return ErrMissingToken
	}
	if c.PublishOwner == "" || c.PublishRepo == "" {
		return fmt.Errorf("PUBLISH_OWNER and PUBLISH_REPO are required")
	}
	return nil
}
