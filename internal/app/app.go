package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/ainews/internal/cache"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/gemini"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/ratelimit"
	"github.com/deusflow/ainews/internal/rss"
	"github.com/deusflow/ainews/internal/scraper"
	"github.com/deusflow/ainews/internal/storage"
)

// Pipeline is one scrape: load, fan out per source, merge, filter, save.
type Pipeline struct {
	Sources  []rss.Source
	Fetcher  *scraper.Fetcher
	Resolver *scraper.Resolver
	Store    Store

	// Optional summary backfill
	Summarizer Summarizer
	Budget     Budget

	MaxEditions        int
	EditionConcurrency int
	FetchTimeout       time.Duration
	Window             time.Duration
	Limit              int

	Now func() time.Time

	closers []func()
}

// Report describes what one run did.
type Report struct {
	Prior      int
	Scraped    int
	Merged     int
	Persisted  int
	Summarized int
	Rejections news.Rejections
	Failed     map[string]error
	Duration   time.Duration
}

// New wires a Pipeline from configuration.
func New(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	sources, err := rss.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	fetcher := scraper.NewFetcher(cfg.FetchTimeout, cfg.UserAgent)
	p := &Pipeline{
		Sources:            sources,
		Fetcher:            fetcher,
		Resolver:           scraper.NewResolver(fetcher),
		Store:              storage.NewArticleFile(cfg.DataFile),
		MaxEditions:        cfg.MaxEditions,
		EditionConcurrency: cfg.EditionConcurrency,
		FetchTimeout:       cfg.FetchTimeout,
		Window:             cfg.RecencyWindow,
		Limit:              cfg.MaxArticles,
	}

	if cfg.EditionCacheTTL > 0 {
		pages := cache.New(cfg.EditionCacheTTL)
		fetcher.WithPageCache(pages, cfg.EditionCacheTTL)
		p.closers = append(p.closers, pages.Close)
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("summary backfill disabled", "error", err)
		} else {
			p.Summarizer = client
			budget := ratelimit.NewBudget("gemini", cfg.MaxGeminiRequests)
			metrics.Global.AddStats(budget.GetStats)
			p.Budget = budget
			p.closers = append(p.closers, client.Close)
		}
	}

	return p, nil
}

// Close releases the page cache and the Gemini client.
func (p *Pipeline) Close() {
	for _, c := range p.closers {
		c()
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run executes the pipeline once. Only a failure to save is returned as an
// error; source failures are logged and reported.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{Failed: make(map[string]error)}

	prior, err := p.Store.Load()
	if err != nil {
		logger.Warn("prior collection unreadable, starting empty", "error", err)
		prior = nil
	}
	report.Prior = len(prior)

	perSource := make([][]news.Article, len(p.Sources))
	sourceErrs := make([]error, len(p.Sources))

	var g errgroup.Group
	for i, src := range p.Sources {
		i, src := i, src
		g.Go(func() error {
			articles, err := p.scrapeSource(ctx, src)
			if err != nil {
				logger.Error("source failed", "source", src.Name, "error", err)
				metrics.Global.IncrementSourceFailures()
				sourceErrs[i] = err
				return nil
			}
			perSource[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var fresh []news.Article
	for i, articles := range perSource {
		if sourceErrs[i] != nil {
			report.Failed[p.Sources[i].Name] = sourceErrs[i]
		}
		fresh = append(fresh, articles...)
	}
	report.Scraped = len(fresh)

	merged := news.Merge(fresh, prior)
	report.Merged = len(merged)

	kept, rej := p.policy().Apply(merged)
	report.Rejections = rej

	report.Summarized = p.backfill(ctx, kept)

	if err := p.Store.Save(kept); err != nil {
		metrics.Global.SetError(err.Error())
		return report, fmt.Errorf("failed to save articles: %w", err)
	}
	report.Persisted = len(kept)
	report.Duration = time.Since(start)

	metrics.Global.RecordRun(len(kept), rej.Total())
	metrics.Global.RecordProcessingTime(report.Duration)
	metrics.Global.SetLastRun()

	logger.Info("run complete",
		"prior", report.Prior,
		"scraped", report.Scraped,
		"merged", report.Merged,
		"count", report.Persisted,
		"old", rej.Old,
		"foreign", rej.Foreign,
		"excluded", rej.Excluded,
		"truncated", rej.Truncated,
		"failed_sources", len(report.Failed),
		"duration", report.Duration)
	return report, nil
}

func (p *Pipeline) policy() news.Policy {
	policy := news.DefaultPolicy(p.now())
	if p.Window > 0 {
		policy.Window = p.Window
	}
	if p.Limit > 0 {
		policy.Limit = p.Limit
	}

	var domains []string
	for _, s := range p.Sources {
		if s.Domain != "" {
			domains = append(domains, s.Domain)
		}
	}
	if len(domains) > 0 {
		policy.AllowedDomains = domains
	}
	return policy
}

// scrapeSource lists a source's editions and extracts each of them. An
// error means the source produced nothing at all.
func (p *Pipeline) scrapeSource(ctx context.Context, src rss.Source) ([]news.Article, error) {
	extractor, ok := scraper.ExtractorFor(src.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown extractor kind %q", src.Kind)
	}

	log := logger.With("source", src.Name)

	editions, err := p.editions(ctx, src)
	if err != nil {
		return nil, err
	}
	if p.MaxEditions > 0 && len(editions) > p.MaxEditions {
		editions = editions[:p.MaxEditions]
	}
	metrics.Global.AddEditionsFetched(len(editions))
	log.Info("editions found", "count", len(editions))

	results := make([][]news.Article, len(editions))
	var g errgroup.Group
	if p.EditionConcurrency > 0 {
		g.SetLimit(p.EditionConcurrency)
	}
	for i, ed := range editions {
		i, ed := i, ed
		g.Go(func() error {
			results[i] = p.scrapeEdition(ctx, log, src, extractor, ed)
			return nil
		})
	}
	_ = g.Wait()

	var articles []news.Article
	for _, r := range results {
		articles = append(articles, r...)
	}
	return articles, nil
}

func (p *Pipeline) editions(ctx context.Context, src rss.Source) ([]scraper.Edition, error) {
	archive, archiveErr := p.Fetcher.Fetch(ctx, src.ArchiveURL)
	var editions []scraper.Edition
	if archiveErr == nil {
		editions = scraper.EditionLinks(src.BaseURL, archive, src.Exclude)
	}
	if len(editions) > 0 || src.FeedURL == "" {
		if archiveErr != nil {
			return nil, fmt.Errorf("failed to fetch archive %s: %w", src.ArchiveURL, archiveErr)
		}
		return editions, nil
	}

	logger.Info("archive listed no editions, reading feed", "source", src.Name, "url", src.FeedURL)
	fromFeed, err := rss.FetchEditions(ctx, src.FeedURL, p.FetchTimeout, p.MaxEditions)
	if err != nil {
		if archiveErr != nil {
			return nil, fmt.Errorf("archive: %v; feed: %w", archiveErr, err)
		}
		return nil, err
	}
	return fromFeed, nil
}

// scrapeEdition fetches one edition page once and feeds it to both the
// resolver and the extractor. Failures yield no articles.
func (p *Pipeline) scrapeEdition(ctx context.Context, log *slog.Logger, src rss.Source, extractor scraper.Extractor, ed scraper.Edition) []news.Article {
	html, err := p.Fetcher.FetchCached(ctx, ed.URL)
	if err != nil {
		log.Warn("edition fetch failed", "url", ed.URL, "error", err)
		return nil
	}

	meta := p.Resolver.FromHTML(ed.URL, html)
	stories := extractor.Extract(ed.URL, html)
	metrics.Global.AddStoriesExtracted(len(stories))
	log.Debug("edition extracted", "url", ed.URL, "count", len(stories))

	scrapedAt := news.At(p.now())
	articles := make([]news.Article, 0, len(stories))
	for _, s := range stories {
		if s.URL == "" || s.Title == "" {
			continue
		}
		category := s.Category
		if category == "" {
			category = news.CategoryNews
		}
		articles = append(articles, news.Article{
			Title:       s.Title,
			Source:      src.Name,
			URL:         s.URL,
			Summary:     s.Summary,
			Image:       meta.Image,
			PublishedAt: meta.PublishedAt,
			Category:    category,
			ScrapedAt:   scrapedAt,
		}.WithIdentity())
	}
	return articles
}

// backfill writes summaries for kept articles whose summary is missing or
// a stock placeholder, within the per-run budget. It returns how many were
// written. A failed attempt keeps the placeholder.
func (p *Pipeline) backfill(ctx context.Context, articles []news.Article) int {
	if p.Summarizer == nil {
		return 0
	}
	if p.Budget != nil {
		p.Budget.Reset()
	}

	written := 0
	for i := range articles {
		if !scraper.IsPlaceholderSummary(articles[i].Summary) {
			continue
		}
		if p.Budget != nil && !p.Budget.CanUse() {
			logger.Info("summary budget spent", "remaining", len(articles)-i)
			break
		}

		content := articles[i].Title
		if full, err := p.Fetcher.ExtractFullArticle(ctx, articles[i].URL); err == nil {
			content = full.Content
		} else {
			logger.Debug("full text unavailable, summarising title", "url", articles[i].URL, "error", err)
		}

		if p.Budget != nil && p.Budget.Use() != nil {
			break
		}
		summary, err := p.Summarizer.Summarize(ctx, articles[i].Title, content)
		if err != nil {
			logger.Warn("summary backfill failed", "url", articles[i].URL, "error", err)
			continue
		}
		articles[i].Summary = summary
		written++
		metrics.Global.IncrementSummariesWritten()
	}
	return written
}
