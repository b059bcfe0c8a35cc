package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"mentions/internal/domain"
	"mentions/internal/ports"
)

// DefaultRenameWindow is how long a Rename waits for its matching Create
// before it is reported as a deletion
const DefaultRenameWindow = 100 * time.Millisecond

// Ensure Watcher implements DocumentFeed
var _ ports.DocumentFeed = (*Watcher)(nil)

// Watcher turns filesystem notifications under a vault into document events
type Watcher struct {
	fs      *fsnotify.Watcher
	root    string
	events  chan domain.DocumentEvent
	logger  *slog.Logger
	tracked func(rel string) bool
	ignored func(rel string) bool
	window  time.Duration

	docs    map[string]struct{} // vault-relative documents seen so far
	dirs    map[string]struct{} // vault-relative watched directories, "" is the root
	pending *pendingRename
}

// pendingRename is the source half of a rename waiting for its Create
type pendingRename struct {
	rel   string
	isDir bool
	timer *time.Timer
}

// Option configures a Watcher
type Option func(*Watcher)

// WithFilter sets which vault-relative files are documents
func WithFilter(tracked func(rel string) bool) Option {
	return func(w *Watcher) { w.tracked = tracked }
}

// WithIgnore sets which vault-relative directories are not watched
func WithIgnore(ignored func(rel string) bool) Option {
	return func(w *Watcher) { w.ignored = ignored }
}

// WithRenameWindow overrides DefaultRenameWindow
func WithRenameWindow(d time.Duration) Option {
	return func(w *Watcher) { w.window = d }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New watches every visible directory below root
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:      fsw,
		root:    root,
		events:  make(chan domain.DocumentEvent, 64),
		logger:  slog.Default(),
		tracked: domain.IsDocumentPath,
		ignored: func(string) bool { return false },
		window:  DefaultRenameWindow,
		docs:    make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Events returns the document-change feed. It is closed when Run returns.
func (w *Watcher) Events() <-chan domain.DocumentEvent {
	return w.events
}

// Run translates notifications until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fs.Close()

	for {
		var expired <-chan time.Time
		if w.pending != nil {
			expired = w.pending.timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-expired:
			if !w.flushPending(ctx) {
				return ctx.Err()
			}

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(ctx, event) {
				return ctx.Err()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

// handle processes one notification. It returns false once ctx is done.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) bool {
	rel, err := w.rel(event.Name)
	if err != nil {
		return true
	}

	switch {
	case event.Has(fsnotify.Create):
		return w.created(ctx, rel, event.Name)

	case event.Has(fsnotify.Write):
		if !w.isDocument(rel) {
			return true
		}
		if _, known := w.docs[rel]; !known {
			w.docs[rel] = struct{}{}
			return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventCreated, Path: rel})
		}
		return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventModified, Path: rel})

	case event.Has(fsnotify.Rename):
		_, isDoc := w.docs[rel]
		_, isDir := w.dirs[rel]
		if !isDoc && !isDir {
			return true
		}
		if w.pending != nil && w.pending.rel == rel {
			return true
		}
		if !w.flushPending(ctx) {
			return false
		}
		w.pending = &pendingRename{rel: rel, isDir: isDir, timer: time.NewTimer(w.window)}
		return true

	case event.Has(fsnotify.Remove):
		return w.removed(ctx, rel)
	}

	return true
}

func (w *Watcher) created(ctx context.Context, rel, full string) bool {
	info, err := os.Stat(full)
	if err != nil {
		return true
	}

	if w.pending != nil {
		pending := w.pending
		w.pending = nil
		pending.timer.Stop()

		if pending.isDir == info.IsDir() {
			return w.renamed(ctx, pending.rel, rel, full)
		}
		if !w.vanished(ctx, pending.rel) {
			return false
		}
	}

	if info.IsDir() {
		found, err := w.addTree(full)
		if err != nil {
			w.logger.Warn("failed to watch directory", slog.String("path", rel), slog.Any("error", err))
		}
		for _, doc := range found {
			if !w.emit(ctx, domain.DocumentEvent{Kind: domain.EventCreated, Path: doc}) {
				return false
			}
		}
		return true
	}

	if !w.isDocument(rel) {
		return true
	}
	w.docs[rel] = struct{}{}
	return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventCreated, Path: rel})
}

// renamed pairs a Rename of oldRel with the Create of newRel
func (w *Watcher) renamed(ctx context.Context, oldRel, newRel, full string) bool {
	if _, isDir := w.dirs[oldRel]; !isDir {
		delete(w.docs, oldRel)
		if !w.isDocument(newRel) {
			return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventDeleted, Path: oldRel})
		}
		w.docs[newRel] = struct{}{}
		return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventRenamed, Path: newRel, OldPath: oldRel})
	}

	moved := w.dropTree(oldRel)
	found, err := w.addTree(full)
	if err != nil {
		w.logger.Warn("failed to watch directory", slog.String("path", newRel), slog.Any("error", err))
	}

	seen := make(map[string]bool, len(found))
	for _, doc := range found {
		seen[doc] = true
	}

	for _, oldDoc := range moved {
		newDoc := newRel + strings.TrimPrefix(oldDoc, oldRel)
		event := domain.DocumentEvent{Kind: domain.EventRenamed, Path: newDoc, OldPath: oldDoc}
		if !seen[newDoc] {
			event = domain.DocumentEvent{Kind: domain.EventDeleted, Path: oldDoc}
		}
		delete(seen, newDoc)
		if !w.emit(ctx, event) {
			return false
		}
	}

	for _, doc := range found {
		if seen[doc] {
			if !w.emit(ctx, domain.DocumentEvent{Kind: domain.EventCreated, Path: doc}) {
				return false
			}
		}
	}

	return true
}

func (w *Watcher) removed(ctx context.Context, rel string) bool {
	if w.pending != nil && w.pending.rel == rel {
		return true
	}
	return w.vanished(ctx, rel)
}

// vanished reports a document, or every document below a directory, as deleted
func (w *Watcher) vanished(ctx context.Context, rel string) bool {
	if _, isDir := w.dirs[rel]; isDir {
		for _, doc := range w.dropTree(rel) {
			if !w.emit(ctx, domain.DocumentEvent{Kind: domain.EventDeleted, Path: doc}) {
				return false
			}
		}
		return true
	}

	if _, known := w.docs[rel]; !known {
		return true
	}
	delete(w.docs, rel)
	return w.emit(ctx, domain.DocumentEvent{Kind: domain.EventDeleted, Path: rel})
}

// flushPending reports an unpaired Rename as a deletion
func (w *Watcher) flushPending(ctx context.Context) bool {
	if w.pending == nil {
		return true
	}
	pending := w.pending
	w.pending = nil
	pending.timer.Stop()
	return w.vanished(ctx, pending.rel)
}

// addTree watches full and every visible directory below it, returning the
// documents it finds
func (w *Watcher) addTree(full string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(full, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == full {
				return err
			}
			return nil // Skip unreadable entries
		}

		rel, err := w.rel(p)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if rel != "" && (strings.HasPrefix(d.Name(), ".") || w.ignored(rel)) {
				return filepath.SkipDir
			}
			if err := w.fs.Add(p); err != nil {
				w.logger.Warn("failed to watch directory", slog.String("path", rel), slog.Any("error", err))
				return nil
			}
			w.dirs[rel] = struct{}{}
			return nil
		}

		if w.isDocument(rel) {
			if _, known := w.docs[rel]; !known {
				w.docs[rel] = struct{}{}
				found = append(found, rel)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", full, err)
	}

	return found, nil
}

// dropTree forgets rel and everything below it, returning the documents it held
func (w *Watcher) dropTree(rel string) []string {
	prefix := rel + "/"

	for dir := range w.dirs {
		if dir == rel || strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
			if err := w.fs.Remove(filepath.Join(w.root, filepath.FromSlash(dir))); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
				w.logger.Debug("failed to unwatch directory", slog.String("path", dir), slog.Any("error", err))
			}
		}
	}

	var docs []string
	for doc := range w.docs {
		if strings.HasPrefix(doc, prefix) {
			delete(w.docs, doc)
			docs = append(docs, doc)
		}
	}
	sort.Strings(docs)
	return docs
}

func (w *Watcher) isDocument(rel string) bool {
	return rel != "" && w.tracked(rel)
}

func (w *Watcher) emit(ctx context.Context, event domain.DocumentEvent) bool {
	w.logger.Debug("document event",
		slog.String("kind", event.Kind.String()),
		slog.String("path", event.Path))

	select {
	case w.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *Watcher) rel(full string) (string, error) {
	rel, err := filepath.Rel(w.root, full)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside %s", full, w.root)
	}
	return filepath.ToSlash(rel), nil
}
