package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RunsTotal         int64
	EditionsFetched   int64
	StoriesExtracted  int64
	ArticlesPersisted int64
	ArticlesRejected  int64
	SourceFailures    int64
	SummariesWritten  int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool

	// Stats contributed by other components, e.g. the Gemini budget
	extra []func() map[string]interface{}
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddEditionsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditionsFetched += int64(n)
}

func (m *Metrics) AddStoriesExtracted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesExtracted += int64(n)
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementSummariesWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesWritten++
}

// RecordRun stores the outcome sizes of one finished run.
func (m *Metrics) RecordRun(persisted, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsTotal++
	m.ArticlesPersisted = int64(persisted)
	m.ArticlesRejected += int64(rejected)
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

// AddStats merges the output of fn into every GetStats call.
func (m *Metrics) AddStats(fn func() map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extra = append(m.extra, fn)
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := map[string]interface{}{
		"runs_total":                 m.RunsTotal,
		"editions_fetched":           m.EditionsFetched,
		"stories_extracted":          m.StoriesExtracted,
		"articles_persisted":         m.ArticlesPersisted,
		"articles_rejected":          m.ArticlesRejected,
		"source_failures":            m.SourceFailures,
		"summaries_written":          m.SummariesWritten,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
	for _, fn := range m.extra {
		for k, v := range fn() {
			stats[k] = v
		}
	}
	return stats
}
