package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watch drops cached documents and sidecars when their files change, until
// ctx is done. Open sessions keep the version they were opened with.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				s.logger.Printf("WATCH close: %v", err)
			}
		})
	}
	if err := watcher.Add(s.cfg.DocsDir); err != nil {
		closeWatcher()
		return fmt.Errorf("watch %s: %w", s.cfg.DocsDir, err)
	}

	go func() {
		defer closeWatcher()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Printf("WATCH error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.invalidate(evt)
			}
		}
	}()
	return nil
}

func (s *Server) invalidate(evt fsnotify.Event) {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
		!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return
	}
	name := s.docs.nameForPath(evt.Name)
	if name == "" {
		return
	}
	age, cached := s.docs.Invalidate(name)
	s.configs.Invalidate(name)
	if cached {
		s.logger.Printf("WATCH %s %s dropped after %s", evt.Op, name, age)
		return
	}
	s.logger.Printf("WATCH %s %s", evt.Op, name)
}
