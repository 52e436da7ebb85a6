package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/deusflow/ainews/internal/app"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/feedview"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/publish"
	"github.com/deusflow/ainews/internal/storage"
)

const usage = `usage: ainews <command> [flags]

commands:
  run      scrape every source once and write the collection
  watch    scrape now and then every RUN_INTERVAL
  check    probe every source and exit 1 if any is unreachable
  publish  upload the collection to GitHub
  serve    serve /data.json, /health and /metrics
  browse   print the collection with filters
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger.Init()

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "run":
		return runOnce(ctx, cfg)
	case "watch":
		return watch(ctx, cfg)
	case "check":
		return check(ctx, cfg)
	case "publish":
		return publishCollection(ctx, cfg, args[1:])
	case "serve":
		return serve(ctx, cfg)
	case "browse":
		return browse(ctx, cfg, args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func runOnce(ctx context.Context, cfg *config.Config) int {
	p, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}
	defer p.Close()

	if _, err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

func watch(ctx context.Context, cfg *config.Config) int {
	p, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}
	defer p.Close()

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go func() {
			if err := listen(ctx, cfg); err != nil {
				logger.Error("monitoring server error", "error", err)
			}
		}()
	}

	logger.Info("watching sources", "interval", cfg.RunInterval, "sources", len(p.Sources))
	app.Watch(ctx, cfg.RunInterval, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	})
	return 0
}

func check(ctx context.Context, cfg *config.Config) int {
	p, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}
	defer p.Close()

	code := 0
	for _, r := range app.CheckConnections(ctx, p.Fetcher, p.Sources) {
		if r.OK() {
			fmt.Printf("OK    %-14s %s\n", r.Source, r.URL)
			continue
		}
		code = 1
		reason := fmt.Sprintf("status %d", r.Status)
		if r.Err != nil {
			reason = r.Err.Error()
		}
		fmt.Printf("FAIL  %-14s %s (%s)\n", r.Source, r.URL, reason)
	}
	return code
}

func publishCollection(ctx context.Context, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	scrape := fs.Bool("scrape", false, "run the pipeline before publishing")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := cfg.ValidatePublish(); err != nil {
		logger.Error("cannot publish", "error", err)
		return 1
	}

	if *scrape {
		if code := runOnce(ctx, cfg); code != 0 {
			return code
		}
	}

	file := storage.NewArticleFile(cfg.DataFile)
	content, err := file.Raw()
	if err != nil {
		logger.Error("failed to read collection", "path", file.Path(), "error", err)
		return 1
	}

	gh := publish.NewGitHub(ctx, cfg.GitHubToken, cfg.PublishOwner, cfg.PublishRepo, cfg.PublishBranch, cfg.PublishPath)
	if err := gh.Publish(ctx, content); err != nil {
		logger.Error("publish failed", "error", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config) int {
	if err := listen(ctx, cfg); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

// listen serves the collection and monitoring endpoints until ctx ends.
func listen(ctx context.Context, cfg *config.Config) error {
	file := storage.NewArticleFile(cfg.DataFile)
	srv := &http.Server{
		Addr:              ":" + cfg.MonitoringPort,
		Handler:           newMux(file),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", "port", cfg.MonitoringPort, "data", file.Path())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func browse(ctx context.Context, cfg *config.Config, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	from := fs.String("from", cfg.DataFile, "collection file path or http(s) URL")
	source := fs.String("source", "", "only this source")
	category := fs.String("category", "", "only this category")
	query := fs.String("q", "", "search titles and summaries")
	saved := fs.Bool("saved", false, "only saved articles")
	toggle := fs.String("toggle", "", "save or unsave the article with this id")
	follow := fs.Duration("follow", 0, "poll for changes at this interval")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *category != "" && !knownCategory(*category) {
		fmt.Fprintf(os.Stderr, "unknown category %q, want one of: %s\n", *category, strings.Join(news.Categories, ", "))
		return 2
	}

	marks := storage.NewBookmarks(cfg.BookmarksFile)
	if err := marks.Load(); err != nil {
		logger.Warn("bookmarks unreadable, starting empty", "path", cfg.BookmarksFile, "error", err)
	}

	state := feedview.New(marks)
	state.SetFilters(feedview.Filters{Source: *source, Category: *category, Query: *query, SavedOnly: *saved})

	if *toggle != "" {
		now, err := state.Toggle(*toggle)
		if err != nil {
			logger.Error("failed to update bookmarks", "error", err)
			return 1
		}
		fmt.Fprintf(out, "%s saved=%v\n", *toggle, now)
	}

	fetch := collectionReader(*from)
	refresh := func() {
		data, err := fetch(ctx)
		if err != nil {
			logger.Warn("failed to load collection", "from", *from, "error", err)
			return
		}
		changed, err := state.Refresh(data)
		if err != nil {
			logger.Warn("collection unreadable", "from", *from, "error", err)
			return
		}
		if changed {
			state.Render(out)
		}
	}

	refresh()
	if !state.Loaded() {
		state.Render(out)
		if *follow <= 0 {
			return 1
		}
	}
	if *follow <= 0 {
		return 0
	}

	ticker := time.NewTicker(*follow)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return 0
		case <-ticker.C:
			refresh()
		}
	}
}

func knownCategory(c string) bool {
	for _, known := range news.Categories {
		if c == known {
			return true
		}
	}
	return false
}

// collectionReader reads the collection from a file, or from a URL with a
// cache-busting query so intermediaries never answer with a stale copy.
func collectionReader(from string) func(context.Context) ([]byte, error) {
	if !strings.HasPrefix(from, "http://") && !strings.HasPrefix(from, "https://") {
		return func(context.Context) ([]byte, error) {
			return storage.NewArticleFile(from).Raw()
		}
	}

	client := &http.Client{Timeout: 15 * time.Second}
	return func(ctx context.Context) ([]byte, error) {
		sep := "?"
		if strings.Contains(from, "?") {
			sep = "&"
		}
		u := fmt.Sprintf("%s%st=%d", from, sep, time.Now().UnixMilli())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, from)
		}
		return io.ReadAll(resp.Body)
	}
}
