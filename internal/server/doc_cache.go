package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const docExt = ".html"

type docEntry struct {
	data    []byte
	created time.Time
}

// docCache keeps the raw bytes of documents read from dir. Assembly
// mutates the parsed tree, so every session parses its own copy.
type docCache struct {
	mu   sync.RWMutex
	dir  string
	now  func() time.Time
	data map[string]docEntry
}

func newDocCache(dir string, now func() time.Time) *docCache {
	if now == nil {
		now = time.Now
	}
	return &docCache{
		dir:  dir,
		now:  now,
		data: make(map[string]docEntry),
	}
}

func (c *docCache) path(name string) string {
	return filepath.Join(c.dir, name+docExt)
}

// Load returns the document bytes, reading the file on a miss.
func (c *docCache) Load(name string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.data[name]
	c.mu.RUnlock()
	if ok {
		return entry.data, nil
	}
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	c.mu.Lock()
	c.data[name] = docEntry{data: data, created: c.now()}
	c.mu.Unlock()
	return data, nil
}

// Invalidate forgets a cached document and reports how long it was
// cached; ok is false when it was not.
func (c *docCache) Invalidate(name string) (age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[name]
	if !ok {
		return 0, false
	}
	delete(c.data, name)
	return c.now().Sub(entry.created), true
}

// Names lists the documents in dir, sorted.
func (c *docCache) Names() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), docExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), docExt))
	}
	sort.Strings(names)
	return names, nil
}

// nameForPath maps a file below dir to the document it belongs to, either
// the document itself or its sidecar.
func (c *docCache) nameForPath(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, docConfigExt):
		return strings.TrimSuffix(base, docConfigExt)
	case strings.HasSuffix(base, docExt):
		return strings.TrimSuffix(base, docExt)
	}
	return ""
}
