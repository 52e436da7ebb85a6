package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
)

// Bookmarks is the reader's saved-article set, kept apart from the
// collection and never merged back into it.
type Bookmarks struct {
	filePath string
	ids      map[string]bool
	mu       sync.RWMutex
}

func NewBookmarks(filePath string) *Bookmarks {
	return &Bookmarks{
		filePath: filePath,
		ids:      make(map[string]bool),
	}
}

// Load reads the saved ids. A missing file is an empty set; a corrupt one
// is reported and leaves the set empty.
func (b *Bookmarks) Load() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ids = make(map[string]bool)

	data, err := os.ReadFile(b.filePath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read bookmarks: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, b.filePath, err)
	}
	for _, id := range ids {
		b.ids[id] = true
	}
	return nil
}

// Has reports whether id is saved.
func (b *Bookmarks) Has(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ids[id]
}

// IDs returns the saved ids, sorted.
func (b *Bookmarks) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.ids))
	for id := range b.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Toggle flips id and rewrites the file. It returns whether id is now saved.
func (b *Bookmarks) Toggle(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	saved := !b.ids[id]
	if saved {
		b.ids[id] = true
	} else {
		delete(b.ids, id)
	}

	ids := make([]string, 0, len(b.ids))
	for k := range b.ids {
		ids = append(ids, k)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return saved, fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	if err := writeFileAtomic(b.filePath, data); err != nil {
		return saved, err
	}
	return saved, nil
}
