package app

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/rss"
	"github.com/deusflow/ainews/internal/scraper"
)

// CheckTimeout bounds each connectivity probe.
const CheckTimeout = 10 * time.Second

// Watch runs run immediately and then every interval until ctx ends. Run
// errors are logged and recorded, never fatal. Runs never overlap.
func Watch(ctx context.Context, interval time.Duration, run func(context.Context) error) {
	tick := func() {
		if err := run(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
			metrics.Global.SetError(err.Error())
		}
	}

	tick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return
		case <-ticker.C:
			tick()
		}
	}
}

// CheckResult is the outcome of probing one source.
type CheckResult struct {
	Source string
	URL    string
	Status int
	Err    error
}

// OK reports whether the source answered 200.
func (r CheckResult) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK
}

// CheckConnections probes every source's archive page concurrently.
// Results come back in source order.
func CheckConnections(ctx context.Context, f *scraper.Fetcher, sources []rss.Source) []CheckResult {
	results := make([]CheckResult, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, CheckTimeout)
			defer cancel()

			status, err := f.Probe(probeCtx, src.ArchiveURL)
			results[i] = CheckResult{Source: src.Name, URL: src.ArchiveURL, Status: status, Err: err}
			if err != nil {
				logger.Warn("source unreachable", "source", src.Name, "url", src.ArchiveURL, "error", err)
			} else {
				logger.Info("source reachable", "source", src.Name, "url", src.ArchiveURL, "status", status)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
