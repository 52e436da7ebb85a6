package news

import (
	"time"
)

// Source names as they appear in the persisted collection.
const (
	SourceBensBites = "Ben's Bites"
	SourceRundown   = "AI Rundown"
	// SourceReddit is no longer scraped; it is kept so the exclusion rule
	// can recognise entries written by older runs.
	SourceReddit = "Reddit"
)

// Category taxonomy shown by the dashboard.
const (
	CategoryNews     = "News"
	CategoryTools    = "Tools"
	CategoryHealth   = "Health"
	CategoryTutorial = "Tutorial"
	CategoryUpdate   = "Update"
)

// Categories lists the taxonomy in display order.
var Categories = []string{CategoryNews, CategoryTools, CategoryHealth, CategoryTutorial, CategoryUpdate}

// PlaceholderImage is used whenever no absolute image URL can be found.
const PlaceholderImage = "https://images.unsplash.com/photo-1677442136019-21780ecad995?auto=format&fit=crop&q=80&w=800"

// FarPast marks an unknown publication date. It is old enough to always
// fall outside the recency window.
var FarPast = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Article is one story in the persisted collection.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	Image       string    `json:"image"`
	PublishedAt Timestamp `json:"published_at"`
	Category    string    `json:"category,omitempty"`
	ScrapedAt   Timestamp `json:"scraped_at"`
}

// WithIdentity canonicalises the URL and derives the id from it.
func (a Article) WithIdentity() Article {
	a.URL = CanonicalURL(a.URL)
	a.ID = Identify(a)
	return a
}
