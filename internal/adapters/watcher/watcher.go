package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipNames are directory names never watched, wherever they appear.
var skipNames = []string{".git", ".jj", ".cache"}

// scratchSuffixes mark files editors write next to sources while saving.
// Changes to them never trigger a build.
var scratchSuffixes = []string{"~", ".swp", ".swx", ".tmp"}

const eventChannelBuffer = 100

// Watcher reports changes below a project root using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	skip      []string
	skipPaths map[string]bool
	events    chan ports.WatchEvent
}

// NewWatcher creates a file system watcher. Each entry of skip is a
// directory relative to the watched root (such as the build directory)
// whose subtree is ignored.
func NewWatcher(logger ports.Logger, skip ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}

	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		skip:      skip,
		skipPaths: make(map[string]bool, len(skip)),
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching root recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for _, dir := range w.skip {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		w.skipPaths[filepath.Clean(dir)] = true
	}

	for dir := range w.directories(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) skipped(path, name string) bool {
	return slices.Contains(skipNames, name) || w.skipPaths[filepath.Clean(path)]
}

// directories walks the tree under root and yields every watched directory.
func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.skipped(path, d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// processEvents converts raw fsnotify events to ports.WatchEvent until ctx
// is done or the watcher is stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || w.skipped(event.Name, filepath.Base(event.Name)) {
				continue
			}

			// A new directory may hold sources already; watch it before reporting.
			if watchEvent.Operation == ports.OpCreate {
				w.watchNewDirectory(event.Name)
			}

			if isScratch(event.Name) {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for dir := range w.directories(path) {
		if err := w.fsWatcher.Add(dir); err != nil {
			w.logger.Warn("watcher: cannot watch " + dir + ": " + err.Error())
		}
	}
}

func isScratch(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".#") || name == "4913" {
		return true
	}
	for _, suffix := range scratchSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
// Attribute-only changes are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
