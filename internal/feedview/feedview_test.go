package feedview

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/storage"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func collection(t *testing.T) []byte {
	t.Helper()
	articles := []news.Article{
		{ID: "a1", Title: "OpenAI ships a new model", Source: news.SourceRundown, Category: news.CategoryNews, Summary: "Faster reasoning", URL: "https://therundown.ai/p/a1", PublishedAt: news.At(now.Add(-2 * time.Hour))},
		{ID: "b1", Title: "Agent framework released", Source: news.SourceBensBites, Category: news.CategoryTools, Summary: "An open source toolkit", URL: "https://bensbites.com/p/b1", PublishedAt: news.At(now.Add(-30 * time.Hour))},
		{ID: "a2", Title: "Hospitals adopt diagnosis AI", Source: news.SourceRundown, Category: news.CategoryHealth, Summary: "Radiology gets a TOOLKIT", URL: "https://therundown.ai/p/a2", PublishedAt: news.At(now.Add(-5 * time.Hour))},
	}
	data, err := json.Marshal(articles)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func newState(t *testing.T) (*State, *storage.Bookmarks) {
	t.Helper()
	marks := storage.NewBookmarks(filepath.Join(t.TempDir(), "bookmarks.json"))
	s := New(marks)
	s.now = func() time.Time { return now }
	return s, marks
}

func ids(articles []news.Article) string {
	var out []string
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return strings.Join(out, ",")
}

func TestRefresh_OnlyOnChange(t *testing.T) {
	s, _ := newState(t)
	data := collection(t)

	changed, err := s.Refresh(data)
	if err != nil || !changed {
		t.Fatalf("first refresh: changed=%v err=%v", changed, err)
	}
	changed, err = s.Refresh(append([]byte(nil), data...))
	if err != nil || changed {
		t.Errorf("identical bytes should not re-render: changed=%v err=%v", changed, err)
	}
	changed, _ = s.Refresh([]byte(`[]`))
	if !changed {
		t.Error("different bytes should re-render")
	}
}

func TestRefresh_BadPayloadKeepsState(t *testing.T) {
	s, _ := newState(t)
	s.Refresh(collection(t))

	if _, err := s.Refresh([]byte(`<html>`)); err == nil {
		t.Error("expected decode error")
	}
	if len(s.Visible()) != 3 {
		t.Errorf("previous collection should survive, got %d", len(s.Visible()))
	}
}

func TestSameSnapshot(t *testing.T) {
	if !SameSnapshot([]byte(`[1]`), []byte(`[1]`)) {
		t.Error("equal bytes")
	}
	if SameSnapshot([]byte(`[1]`), []byte(`[ 1]`)) {
		t.Error("byte comparison, not semantic")
	}
}

func TestVisible_Filters(t *testing.T) {
	s, marks := newState(t)
	s.Refresh(collection(t))
	if _, err := marks.Toggle("b1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		filters Filters
		want    string
	}{
		{"no filters", Filters{}, "a1,b1,a2"},
		{"source", Filters{Source: news.SourceRundown}, "a1,a2"},
		{"category", Filters{Category: news.CategoryTools}, "b1"},
		{"search title case-insensitive", Filters{Query: "openai"}, "a1"},
		{"search summary", Filters{Query: "toolkit"}, "b1,a2"},
		{"saved only", Filters{SavedOnly: true}, "b1"},
		{"combined", Filters{Source: news.SourceRundown, Query: "toolkit"}, "a2"},
		{"nothing", Filters{Source: news.SourceBensBites, Category: news.CategoryHealth}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetFilters(tt.filters)
			if got := ids(s.Visible()); got != tt.want {
				t.Errorf("Visible() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	s, marks := newState(t)
	s.Refresh(collection(t))

	saved, err := s.Toggle("a2")
	if err != nil || !saved || !marks.Has("a2") {
		t.Fatalf("toggle on: saved=%v err=%v", saved, err)
	}
	saved, err = s.Toggle("a2")
	if err != nil || saved || marks.Has("a2") {
		t.Errorf("toggle off: saved=%v err=%v", saved, err)
	}

	if _, err := New(nil).Toggle("a1"); err == nil {
		t.Error("expected error without a bookmark store")
	}
}

func TestRender_States(t *testing.T) {
	s, _ := newState(t)

	var buf bytes.Buffer
	s.Render(&buf)
	if !strings.Contains(buf.String(), LoadingMessage) {
		t.Errorf("expected loading message, got %q", buf.String())
	}

	s.Refresh(collection(t))
	s.SetFilters(Filters{Query: "no such thing"})
	buf.Reset()
	s.Render(&buf)
	if !strings.Contains(buf.String(), EmptyMessage) || strings.Contains(buf.String(), LoadingMessage) {
		t.Errorf("expected empty message, got %q", buf.String())
	}

	s.SetFilters(Filters{})
	buf.Reset()
	if err := s.Render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"3 articles | sources: AI Rundown, Ben's Bites", "OpenAI ships a new model", "https://bensbites.com/p/b1", "Today at 10:00 (2h ago)", "Apr 30 at 06:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q in:\n%s", want, out)
		}
	}
}

func TestTimeAgo_Unknown(t *testing.T) {
	if got := TimeAgo(now, news.At(news.FarPast)); got != "date unknown" {
		t.Errorf("TimeAgo = %q", got)
	}
}

func TestSources(t *testing.T) {
	s, _ := newState(t)
	s.Refresh(collection(t))
	got := strings.Join(s.Sources(), "|")
	if got != news.SourceRundown+"|"+news.SourceBensBites {
		t.Errorf("Sources() = %q", got)
	}
}

func TestRender_HeaderShowsFilters(t *testing.T) {
	s, _ := newState(t)
	s.Refresh(collection(t))
	s.SetFilters(Filters{Category: news.CategoryTools, Query: "agent", SavedOnly: false})

	var buf bytes.Buffer
	if err := s.Render(&buf); err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.Contains(header, "1 articles") || !strings.Contains(header, `filters: category=Tools search="agent"`) {
		t.Errorf("header = %q", header)
	}
}
