// Package watch provides a drop-directory service: files appearing in
// a watched directory are handed to an import callback. Jobs run
// concurrently up to a bound; the files inside one job remain strictly
// sequential.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Service watches one directory and triggers imports for new files.
type Service struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	maxJobs  int

	// OnFile imports one dropped file. Called from worker goroutines.
	OnFile func(ctx context.Context, path string) error

	// OnError receives per-file failures. The service keeps running.
	OnError func(path string, err error)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewService creates a watcher over dir running at most maxJobs
// concurrent imports.
func NewService(dir string, maxJobs int) (*Service, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := fsWatcher.Add(absDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if maxJobs < 1 {
		maxJobs = 1
	}

	return &Service{
		watcher:  fsWatcher,
		dir:      absDir,
		debounce: 500 * time.Millisecond,
		maxJobs:  maxJobs,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Dir returns the watched directory.
func (s *Service) Dir() string {
	return s.dir
}

// Run starts the watch loop. Blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxJobs)

	for {
		select {
		case <-ctx.Done():
			s.watcher.Close()
			s.cancelPending()
			if err := group.Wait(); err != nil {
				return err
			}
			return ctx.Err()

		case event, ok := <-s.watcher.Events:
			if !ok {
				return group.Wait()
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			s.schedule(ctx, group, event.Name)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return group.Wait()
			}
			if s.OnError != nil {
				s.OnError("", err)
			}
		}
	}
}

// schedule (re)arms the debounce timer for path; writes arriving while
// the file is still being copied in keep pushing the import back.
func (s *Service) schedule(ctx context.Context, group *errgroup.Group, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[path]; ok {
		timer.Reset(s.debounce)
		return
	}

	s.pending[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		group.Go(func() error {
			if s.OnFile == nil {
				return nil
			}
			if err := s.OnFile(ctx, path); err != nil && s.OnError != nil {
				s.OnError(path, err)
			}
			// Per-file failures never stop the service.
			return nil
		})
	})
}

func (s *Service) cancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
	}
}
