// Package watcher reindexes source files when they change on disk.
// Directories are watched recursively; a write to a previously indexed
// file replays its stored compile arguments through the indexer.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/JamieCunliffe/rtags/internal/indexer"
)

var sourceFile = regexp.MustCompile(`\.(c|cc|cpp|cxx|h|hh|hpp|hxx)$`)

// debounceDelay coalesces the burst of writes editors emit per save.
const debounceDelay = 500 * time.Millisecond

// Watcher reacts to filesystem events by resubmitting changed files.
type Watcher struct {
	ix  *indexer.Indexer
	fsw *fsnotify.Watcher
	log zerolog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer

	done chan struct{}
}

// New watches dirs (recursively) and triggers reindexing on ix.
func New(ix *indexer.Indexer, dirs []string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		ix:      ix,
		fsw:     fsw,
		log:     log,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("watch: skipping")
			return filepath.SkipDir
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); name != "." && name[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watcher: add %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if base := filepath.Base(event.Name); base == "" || base[0] == '.' {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn().Err(err).Msg("watch: new directory")
			}
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !sourceFile.MatchString(event.Name) {
		return
	}

	w.schedule(filepath.Clean(event.Name))
}

// schedule queues path for reindexing once writes settle.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(debounceDelay)
		return
	}
	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		// Force: a cached AST predates the change and would be reused
		// without re-extraction.
		if id := w.ix.Reindex(path, indexer.Force); id >= 0 {
			w.log.Debug().Str("path", path).Int("job", id).Msg("reindexing changed file")
		}
	})
}

// Close stops watching. Reindex jobs already submitted keep running.
func (w *Watcher) Close() error {
	close(w.done)

	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
