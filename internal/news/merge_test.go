package news

import (
	"testing"
	"time"
)

func article(url, title string, published time.Time) Article {
	return Article{
		URL:         url,
		Title:       title,
		Source:      SourceRundown,
		PublishedAt: At(published),
	}.WithIdentity()
}

func TestMerge_Idempotent(t *testing.T) {
	now := time.Now()
	x := []Article{
		article("https://www.therundown.ai/p/a", "A", now),
		article("https://www.therundown.ai/p/b", "B", now.Add(-time.Hour)),
		article("https://www.bensbites.com/p/c", "C", now.Add(-2*time.Hour)),
	}

	merged := Merge(x, x)
	if len(merged) != len(x) {
		t.Fatalf("expected %d articles, got %d", len(x), len(merged))
	}

	ids := map[string]bool{}
	for _, a := range merged {
		ids[a.ID] = true
	}
	for _, a := range x {
		if !ids[a.ID] {
			t.Errorf("article %s missing after merge", a.ID)
		}
	}
}

func TestMerge_FreshWins(t *testing.T) {
	now := time.Now()
	prior := []Article{article("https://www.therundown.ai/p/a", "Old title", now)}
	fresh := []Article{article("https://www.therundown.ai/p/a", "New title", now)}

	merged := Merge(fresh, prior)
	if len(merged) != 1 {
		t.Fatalf("expected 1 article, got %d", len(merged))
	}
	if merged[0].Title != "New title" {
		t.Errorf("expected fresh title, got %q", merged[0].Title)
	}
}

func TestMerge_KeepsUnseenPrior(t *testing.T) {
	now := time.Now()
	prior := []Article{
		article("https://www.therundown.ai/p/kept", "Kept", now),
	}
	fresh := []Article{
		article("https://www.therundown.ai/p/new", "New", now),
	}

	merged := Merge(fresh, prior)
	if len(merged) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(merged))
	}
	if merged[0].Title != "New" || merged[1].Title != "Kept" {
		t.Errorf("unexpected order: %q, %q", merged[0].Title, merged[1].Title)
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("expected empty merge, got %d", len(got))
	}
}
