package app

import (
	"context"

	"github.com/deusflow/ainews/internal/news"
)

// Store persists the article collection between runs.
type Store interface {
	Load() ([]news.Article, error)
	Save(articles []news.Article) error
}

// Summarizer writes a summary for a story that has none.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// Budget limits summarizer calls per run.
type Budget interface {
	CanUse() bool
	Use() error
	Reset()
}
