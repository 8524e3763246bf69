package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind classifies a detected file change.
type ChangeKind int

const (
	// ChangeTemplate is a change to a view template or other served file.
	ChangeTemplate ChangeKind = iota

	// ChangeDescriptor is a change to the deployment descriptor.
	ChangeDescriptor
)

// Change is a detected file change, with its path relative to the watched
// root in slash form.
type Change struct {
	Path string
	Kind ChangeKind
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Root is the application directory to watch.
	Root string

	// Ignore are base name patterns to skip (globs).
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls the application root for file changes by modification time.
// Polling keeps the watcher portable; the root of a deployed application is
// small enough for a periodic walk.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	modTimes map[string]time.Time
}

// NewWatcher creates a watcher over the given configuration.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:   config,
		modTimes: make(map[string]time.Time),
	}
}

// OnChange sets the callback invoked per detected change.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins polling. It blocks until the context is canceled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	// Baseline pass; existing files are not reported as changes.
	w.walk(nil)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) poll() {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	var changes []Change
	seen := make(map[string]struct{})

	w.walk(func(rel string, modTime time.Time) {
		seen[rel] = struct{}{}

		w.mu.Lock()
		last, exists := w.modTimes[rel]
		w.modTimes[rel] = modTime
		w.mu.Unlock()

		if !exists || modTime.After(last) {
			changes = append(changes, Change{Path: rel, Kind: classifyChange(rel)})
		}
	})

	// Deleted files count as changes too; the mapping tables must drop them.
	w.mu.Lock()
	for rel := range w.modTimes {
		if _, ok := seen[rel]; !ok {
			delete(w.modTimes, rel)
			changes = append(changes, Change{Path: rel, Kind: classifyChange(rel)})
		}
	}
	w.mu.Unlock()

	if callback == nil {
		return
	}
	for _, change := range changes {
		callback(change)
	}
}

// walk visits every non-ignored file under the root. A nil visit records
// modification times without reporting.
func (w *Watcher) walk(visit func(rel string, modTime time.Time)) {
	filepath.WalkDir(w.config.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if w.ignored(filepath.Base(p)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(w.config.Root, p)
		if err != nil {
			return nil
		}
		rel = "/" + filepath.ToSlash(rel)

		if visit != nil {
			visit(rel, info.ModTime())
		} else {
			w.mu.Lock()
			w.modTimes[rel] = info.ModTime()
			w.mu.Unlock()
		}
		return nil
	})
}

func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.config.Ignore {
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

// classifyChange distinguishes descriptor edits, which always force a
// rescan, from ordinary file changes.
func classifyChange(rel string) ChangeKind {
	if rel == "/WEB-INF/web.xml" {
		return ChangeDescriptor
	}
	return ChangeTemplate
}
