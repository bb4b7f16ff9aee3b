package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/corpus"
	"github.com/blackwell-systems/idiomine/internal/extract"
	"github.com/blackwell-systems/idiomine/internal/store"
)

const (
	// defaultSnapshotEvery is how often accumulated state is persisted.
	defaultSnapshotEvery = 30 * time.Second

	// digestCacheSize bounds the path -> content digest cache.
	digestCacheSize = 4096
)

// Watcher ingests corpus changes into an accumulator as they happen.
type Watcher struct {
	root      string
	store     *store.Store
	acc       *cooccur.Accumulator[string, string]
	extractor *extract.Extractor

	snapshotEvery time.Duration

	fsw     *fsnotify.Watcher
	digests *lru.Cache[string, uint64]
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSnapshotInterval overrides the snapshot cadence.
func WithSnapshotInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.snapshotEvery = d
		}
	}
}

// New creates a Watcher over the corpus rooted at root.
func New(root string, st *store.Store, acc *cooccur.Accumulator[string, string], extractor *extract.Extractor, opts ...Option) (*Watcher, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if acc == nil {
		return nil, fmt.Errorf("accumulator cannot be nil")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corpus root %s: %w", root, err)
	}

	digests, err := lru.New[string, uint64](digestCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest cache: %w", err)
	}

	w := &Watcher{
		root:          absRoot,
		store:         st,
		acc:           acc,
		extractor:     extractor,
		snapshotEvery: defaultSnapshotEvery,
		digests:       digests,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the corpus tree with fsnotify and launches the run loop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.watchTree(w.root); err != nil {
		fsw.Close()
		return err
	}

	w.wg.Add(1)
	go w.run()

	return nil
}

// Stop halts the watcher, persisting a final snapshot if anything was
// ingested since the last one.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// watchTree adds dir and all its subdirectories to the fsnotify watch set,
// honoring the corpus skip rules.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && corpus.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// run is the single goroutine that touches the accumulator. It handles
// filesystem events, the snapshot ticker, and shutdown.
func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.snapshotEvery)
	defer ticker.Stop()

	dirty := false

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				dirty = true
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: fsnotify error: %v\n", err)

		case <-ticker.C:
			if dirty {
				w.snapshot("watch tick")
				dirty = false
			}

		case <-w.stopCh:
			if dirty {
				w.snapshot("watch shutdown")
			}
			return
		}
	}
}

// handleEvent processes one fsnotify event and reports whether the
// accumulator changed.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	// New directories join the watch set so files created inside them are
	// seen too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !corpus.SkipDir(filepath.Base(event.Name)) {
				if err := w.watchTree(event.Name); err != nil {
					fmt.Fprintf(os.Stderr, "watcher: failed to watch new directory %s: %v\n", event.Name, err)
				}
			}
			return false
		}
	}

	if !corpus.IsSourceFile(filepath.Base(event.Name)) {
		return false
	}

	return w.ingestFile(event.Name)
}

// ingestFile extracts and ingests one file unless its content digest is
// unchanged since the last ingestion.
func (w *Watcher) ingestFile(path string) bool {
	digest, _, err := corpus.Digest(path)
	if err != nil {
		// Transient during saves; the editor may replace the file between
		// the event and the read.
		return false
	}
	if previous, ok := w.digests.Get(path); ok && previous == digest {
		return false
	}

	observations, err := w.extractor.ExtractFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watcher: extraction failed for %s: %v\n", path, err)
		return false
	}

	for _, obs := range observations {
		w.acc.Add(obs.Patterns, obs.Identifiers)
	}
	w.digests.Add(path, digest)
	return len(observations) > 0
}

// snapshot persists the accumulator state, logging failures instead of
// stopping the loop.
func (w *Watcher) snapshot(reason string) {
	if _, err := w.store.SaveSnapshot(w.acc, reason); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: snapshot failed: %v\n", err)
	}
}
