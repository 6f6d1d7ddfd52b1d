package dev

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeSource is a template source (*.roko.go by default).
	ChangeSource ChangeType = iota
	// ChangeGo is any other Go file.
	ChangeGo
	// ChangeCSS is a stylesheet.
	ChangeCSS
	// ChangeAsset is anything else.
	ChangeAsset
)

func (t ChangeType) String() string {
	switch t {
	case ChangeSource:
		return "source"
	case ChangeGo:
		return "go"
	case ChangeCSS:
		return "css"
	default:
		return "asset"
	}
}

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore patterns to skip (names, path segments or globs).
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration

	// SourceSuffix marks template sources. Empty disables ChangeSource.
	SourceSuffix string
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"*_test.go",
	".git",
	"vendor",
	"node_modules",
	"testdata",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls directories for changed files.
type Watcher struct {
	config     WatcherConfig
	onChange   func([]Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes. It receives every change
// found in one poll, sorted by path.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start records the current state of the watched paths and polls until
// ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	w.scan()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			w.Poll()
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

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scan builds the timestamp map without reporting anything.
func (w *Watcher) scan() {
	current := w.walk()
	w.mu.Lock()
	w.timestamps = current
	w.mu.Unlock()
}

// Poll compares the watched paths against the last scan and reports the
// differences. Start calls it on every tick.
func (w *Watcher) Poll() []Change {
	current := w.walk()

	w.mu.Lock()
	var changes []Change
	for p, mod := range current {
		if last, ok := w.timestamps[p]; !ok || !mod.Equal(last) {
			changes = append(changes, Change{Path: p, Type: w.classify(p)})
		}
	}
	for p := range w.timestamps {
		if _, ok := current[p]; !ok {
			changes = append(changes, Change{Path: p, Type: w.classify(p), Removed: true})
		}
	}
	w.timestamps = current
	callback := w.onChange
	w.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	if callback != nil {
		callback(changes)
	}
	return changes
}

func (w *Watcher) walk() map[string]time.Time {
	found := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || p == root {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if w.shouldIgnore(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if w.shouldIgnore(rel) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			found[p] = info.ModTime()
			return nil
		})
	}
	return found
}

// shouldIgnore checks if a path, relative to its watch root, should be
// ignored.
func (w *Watcher) shouldIgnore(rel string) bool {
	name := filepath.Base(rel)
	normalized := filepath.ToSlash(rel)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/") || strings.Contains(pattern, "\\")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}

		if pathHasSegment(normalized, pattern) {
			return true
		}
	}

	return false
}

func pathHasSegment(path, segment string) bool {
	for _, part := range splitPathSegments(path) {
		if part == segment {
			return true
		}
	}
	return false
}

func pathMatchesSegments(path, pattern string) bool {
	pathParts := splitPathSegments(path)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitPathSegments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// classify determines the type of change from the file name.
func (w *Watcher) classify(p string) ChangeType {
	if w.config.SourceSuffix != "" && strings.HasSuffix(p, w.config.SourceSuffix) {
		return ChangeSource
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".go":
		return ChangeGo
	case ".css", ".scss", ".sass", ".less":
		return ChangeCSS
	default:
		return ChangeAsset
	}
}
