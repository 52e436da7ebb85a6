package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deusflow/ainews/internal/news"
)

func TestArticleFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "data.json")
	af := NewArticleFile(path)

	in := []news.Article{
		news.Article{
			URL:         "https://www.therundown.ai/p/a",
			Title:       "A",
			Source:      news.SourceRundown,
			PublishedAt: news.At(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
			Image:       news.PlaceholderImage,
			Category:    news.CategoryNews,
		}.WithIdentity(),
	}
	if err := af.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := af.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 || out[0].ID != in[0].ID || !out[0].PublishedAt.Equal(in[0].PublishedAt.Time) {
		t.Errorf("unexpected articles %+v", out)
	}
}

func TestArticleFile_Missing(t *testing.T) {
	af := NewArticleFile(filepath.Join(t.TempDir(), "none.json"))
	out, err := af.Load()
	if err != nil || len(out) != 0 {
		t.Errorf("expected empty collection, got %d (err=%v)", len(out), err)
	}

	raw, err := af.Raw()
	if err != nil || string(raw) != "[]" {
		t.Errorf("Raw of missing file = %q (err=%v)", raw, err)
	}
}

func TestArticleFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewArticleFile(path).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestArticleFile_SaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := NewArticleFile(path).Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("expected [], got %q", data)
	}
}

func TestArticleFile_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// parent is a regular file, so the directory cannot be created
	af := NewArticleFile(filepath.Join(blocker, "data.json"))
	if err := af.Save(nil); err == nil {
		t.Error("expected write error")
	}
}

func TestBookmarks_Toggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	b := NewBookmarks(path)
	if err := b.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	saved, err := b.Toggle("abc")
	if err != nil || !saved {
		t.Fatalf("Toggle on: saved=%v err=%v", saved, err)
	}

	reloaded := NewBookmarks(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Has("abc") {
		t.Error("bookmark not persisted")
	}

	saved, err = reloaded.Toggle("abc")
	if err != nil || saved {
		t.Fatalf("Toggle off: saved=%v err=%v", saved, err)
	}
	if len(reloaded.IDs()) != 0 {
		t.Errorf("expected no bookmarks, got %v", reloaded.IDs())
	}
}

func TestBookmarks_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	os.WriteFile(path, []byte("nope"), 0644)

	b := NewBookmarks(path)
	if err := b.Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
	if len(b.IDs()) != 0 {
		t.Error("corrupt bookmarks should leave the set empty")
	}
}
