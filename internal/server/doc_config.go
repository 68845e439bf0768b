package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"kpp/view"
)

const docConfigExt = ".kpp.json"

// DocConfig is the optional sidecar <name>.kpp.json next to a document.
type DocConfig struct {
	Title string `json:"title,omitempty"`
	Class string `json:"class,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

// ClassOrAuto is the configured class, auto-detect when absent or unknown.
func (c *DocConfig) ClassOrAuto() view.Class {
	if c == nil || c.Class == "" {
		return view.ClassAuto
	}
	class, err := view.ParseClass(c.Class)
	if err != nil {
		return view.ClassAuto
	}
	return class
}

// InitialPair is the configured start view, zero when absent or unknown.
func (c *DocConfig) InitialPair() view.Pair {
	if c == nil || c.Mode == "" {
		return view.Pair{}
	}
	p, err := view.ParsePair(c.Mode)
	if err != nil {
		return view.Pair{}
	}
	return p
}

type docConfigStore struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*DocConfig
}

func newDocConfigStore(dir string) *docConfigStore {
	return &docConfigStore{
		dir:   dir,
		cache: make(map[string]*DocConfig),
	}
}

// Find returns the sidecar for name or nil. Misses are cached too.
func (s *docConfigStore) Find(name string) *DocConfig {
	s.mu.RLock()
	if cfg, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return cfg
	}
	s.mu.RUnlock()

	cfg := s.load(name)
	s.mu.Lock()
	s.cache[name] = cfg
	s.mu.Unlock()
	return cfg
}

func (s *docConfigStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

func (s *docConfigStore) load(name string) *DocConfig {
	if s.dir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+docConfigExt))
	if err != nil {
		return nil
	}
	var cfg DocConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	cfg.Class = strings.TrimSpace(strings.ToLower(cfg.Class))
	cfg.Mode = strings.TrimSpace(cfg.Mode)
	cfg.Title = strings.TrimSpace(cfg.Title)
	return &cfg
}
