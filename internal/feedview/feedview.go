package feedview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/deusflow/ainews/internal/news"
)

const (
	LoadingMessage = "Loading latest AI news..."
	EmptyMessage   = "No articles match the current filters."

	titleWidth   = 90
	summaryWidth = 160
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	savedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Marks is the saved-article set behind the saved-only filter.
type Marks interface {
	Has(id string) bool
	Toggle(id string) (bool, error)
}

// Filters narrows the visible articles. Zero values match everything.
type Filters struct {
	Source    string
	Category  string
	Query     string
	SavedOnly bool
}

// State is the reader's view of the collection: the last fetched snapshot,
// the decoded articles and the active filters.
type State struct {
	mu       sync.RWMutex
	snapshot []byte
	articles []news.Article
	loaded   bool
	filters  Filters
	marks    Marks
	now      func() time.Time
}

func New(marks Marks) *State {
	return &State{marks: marks, now: time.Now}
}

// SameSnapshot reports whether two fetched collections are byte-identical.
func SameSnapshot(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Refresh adopts a freshly fetched collection. It reports false without
// decoding when the bytes match the current snapshot. A collection that
// does not decode leaves the state untouched.
func (s *State) Refresh(fresh []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && SameSnapshot(s.snapshot, fresh) {
		return false, nil
	}

	var articles []news.Article
	if err := json.Unmarshal(fresh, &articles); err != nil {
		return false, fmt.Errorf("failed to decode collection: %w", err)
	}

	s.snapshot = append([]byte(nil), fresh...)
	s.articles = articles
	s.loaded = true
	return true, nil
}

// Loaded reports whether any collection has been adopted yet.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *State) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
}

func (s *State) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Toggle flips the saved mark of an article.
func (s *State) Toggle(id string) (bool, error) {
	if s.marks == nil {
		return false, fmt.Errorf("no bookmark store configured")
	}
	return s.marks.Toggle(id)
}

// Visible returns the articles passing every active filter, in collection
// order.
func (s *State) Visible() []news.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(s.filters.Query))
	var out []news.Article
	for _, a := range s.articles {
		if s.filters.Source != "" && a.Source != s.filters.Source {
			continue
		}
		if s.filters.Category != "" && a.Category != s.filters.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Title), query) &&
			!strings.Contains(strings.ToLower(a.Summary), query) {
			continue
		}
		if s.filters.SavedOnly && (s.marks == nil || !s.marks.Has(a.ID)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Sources lists the distinct sources present in the collection, in first
// appearance order.
func (s *State) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, a := range s.articles {
		if a.Source != "" && !seen[a.Source] {
			seen[a.Source] = true
			out = append(out, a.Source)
		}
	}
	return out
}

// Render writes the filtered view. Before the first Refresh it writes the
// loading message; a loaded but empty view gets its own message.
func (s *State) Render(w io.Writer) error {
	if !s.Loaded() {
		_, err := fmt.Fprintln(w, metaStyle.Render(LoadingMessage))
		return err
	}

	visible := s.Visible()
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render(EmptyMessage))
		return err
	}

	if _, err := fmt.Fprintln(w, metaStyle.Render(s.header(len(visible)))); err != nil {
		return err
	}

	now := s.now()
	for _, a := range visible {
		mark := " "
		if s.marks != nil && s.marks.Has(a.ID) {
			mark = savedStyle.Render("*")
		}
		title := runewidth.Truncate(a.Title, titleWidth, "...")
		meta := fmt.Sprintf("%s | %s | %s | %s", a.Source, a.Category, TimeAgo(now, a.PublishedAt), a.ID)
		if _, err := fmt.Fprintf(w, "%s %s\n  %s\n", mark, titleStyle.Render(title), metaStyle.Render(meta)); err != nil {
			return err
		}
		if a.Summary != "" {
			if _, err := fmt.Fprintf(w, "  %s\n", runewidth.Truncate(a.Summary, summaryWidth, "...")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s\n\n", a.URL); err != nil {
			return err
		}
	}
	return nil
}

// header summarises what is on screen: the count, the sources present in
// the collection and any active filters.
func (s *State) header(shown int) string {
	parts := []string{fmt.Sprintf("%d articles", shown)}
	if sources := s.Sources(); len(sources) > 0 {
		parts = append(parts, "sources: "+strings.Join(sources, ", "))
	}

	f := s.Filters()
	var active []string
	if f.Source != "" {
		active = append(active, "source="+f.Source)
	}
	if f.Category != "" {
		active = append(active, "category="+f.Category)
	}
	if f.Query != "" {
		active = append(active, fmt.Sprintf("search=%q", f.Query))
	}
	if f.SavedOnly {
		active = append(active, "saved")
	}
	if len(active) > 0 {
		parts = append(parts, "filters: "+strings.Join(active, " "))
	}
	return strings.Join(parts, " | ")
}

// TimeAgo formats a publication time relative to now: recent items show
// the clock time and hours elapsed, older ones the date.
func TimeAgo(now time.Time, ts news.Timestamp) string {
	if !ts.IsKnown() {
		return "date unknown"
	}
	t := ts.Time.In(now.Location())
	hours := int(now.Sub(t).Hours())
	if hours < 24 {
		return fmt.Sprintf("Today at %s (%dh ago)", t.Format("15:04"), hours)
	}
	return fmt.Sprintf("%s at %s", t.Format("Jan 2"), t.Format("15:04"))
}
