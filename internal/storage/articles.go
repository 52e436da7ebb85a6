package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/deusflow/ainews/internal/news"
)

// ErrCorrupt means the file exists but does not hold an article array.
var ErrCorrupt = errors.New("corrupt article file")

// ArticleFile is the persisted collection: one JSON array, rewritten in
// full on every save.
type ArticleFile struct {
	filePath string
	mu       sync.Mutex
}

func NewArticleFile(filePath string) *ArticleFile {
	return &ArticleFile{filePath: filePath}
}

// Path returns the file location.
func (af *ArticleFile) Path() string {
	return af.filePath
}

// Load returns the stored articles. A missing or empty file is an empty
// collection; undecodable content returns ErrCorrupt.
func (af *ArticleFile) Load() ([]news.Article, error) {
	af.mu.Lock()
	defer af.mu.Unlock()

	data, err := os.ReadFile(af.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", af.filePath, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var articles []news.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, af.filePath, err)
	}
	return articles, nil
}

// Raw returns the file bytes exactly as stored.
func (af *ArticleFile) Raw() ([]byte, error) {
	af.mu.Lock()
	defer af.mu.Unlock()

	data, err := os.ReadFile(af.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("[]"), nil
	}
	return data, err
}

// Save overwrites the file with articles. The write goes through a temp
// file so readers never see a half-written array.
func (af *ArticleFile) Save(articles []news.Article) error {
	if articles == nil {
		articles = []news.Article{}
	}
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal articles: %w", err)
	}

	af.mu.Lock()
	defer af.mu.Unlock()

	return writeFileAtomic(af.filePath, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
