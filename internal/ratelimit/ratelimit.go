package ratelimit

import (
	"errors"
	"sync"

	"github.com/deusflow/ainews/internal/logger"
)

// ErrExhausted is returned by Use once the budget is spent.
var ErrExhausted = errors.New("request budget exhausted")

// Budget caps how many paid AI requests one pipeline run may make.
type Budget struct {
	mu    sync.Mutex
	name  string
	used  int
	max   int // 0 = unlimited
	total int
}

// NewBudget creates a budget of max requests per run for the named service.
func NewBudget(name string, max int) *Budget {
	return &Budget{name: name, max: max}
}

// CanUse reports whether another request fits in the budget.
func (b *Budget) CanUse() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.max <= 0 || b.used < b.max
}

// Use takes one request from the budget.
func (b *Budget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		logger.Warn("rate limit reached", "service", b.name, "used", b.used, "limit", b.max)
		return ErrExhausted
	}

	b.used++
	b.total++
	logger.Debug("AI usage", "service", b.name, "used", b.used, "limit", b.max)
	return nil
}

// Reset starts a new run.
func (b *Budget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used = 0
}

// GetStats returns current usage.
func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		b.name + "_used":  b.used,
		b.name + "_limit": b.max,
		b.name + "_total": b.total,
	}
}
