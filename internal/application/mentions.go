package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"mentions/internal/domain"
	"mentions/internal/ports"
)

// Service owns the mention map of one vault. It builds the map from a
// document snapshot, keeps it current from change events and answers
// lookups. All access is serialised by a mutex.
type Service struct {
	mu       sync.Mutex
	store    ports.DocumentStore
	meta     ports.MetadataSource
	types    domain.MentionTypes
	mentions *domain.MentionMap
	logger   *slog.Logger
}

var (
	_ ports.LinkLookup     = (*Service)(nil)
	_ ports.ChangeNotifier = (*Service)(nil)
)

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for index events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service with an empty map. Call Initialize to load
// the vault.
func NewService(store ports.DocumentStore, meta ports.MetadataSource, types domain.MentionTypes, opts ...Option) *Service {
	s := &Service{
		store:    store,
		meta:     meta,
		types:    types,
		mentions: domain.NewMentionMap(types),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize builds a fresh map from the current document snapshot
func (s *Service) Initialize(ctx context.Context) (*domain.SyncStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, stats, err := s.build(ctx, s.types)
	if err != nil {
		return nil, err
	}
	s.mentions = m

	s.logger.Info("mention index built",
		slog.Int("documents", stats.FilesScanned),
		slog.Int("mentionable", stats.DocumentsAdded),
		slog.Int("links", stats.LinksAdded),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// UpdateTypes replaces the configured mention types and rebuilds the map
func (s *Service) UpdateTypes(ctx context.Context, types domain.MentionTypes) error {
	if err := domain.ValidateMentionTypes(types); err != nil {
		return &ValidationError{Field: "mentionTypes", Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, stats, err := s.build(ctx, types)
	if err != nil {
		return err
	}
	s.types = types
	s.mentions = m

	s.logger.Info("mention index rebuilt for new settings",
		slog.Any("signs", types.Signs()),
		slog.Int("links", stats.LinksAdded))

	return nil
}

func (s *Service) build(ctx context.Context, types domain.MentionTypes) (*domain.MentionMap, *domain.SyncStats, error) {
	start := time.Now()

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}

	if idx, ok := s.meta.(ports.MetadataIndex); ok {
		if cacheStats, err := idx.Sync(ctx, docs); err != nil {
			s.logger.Warn("metadata cache sync failed", slog.Any("error", err))
		} else {
			s.logger.Debug("metadata cache synced",
				slog.Int("added", cacheStats.DocumentsAdded),
				slog.Int("updated", cacheStats.DocumentsUpdated),
				slog.Int("deleted", cacheStats.DocumentsDeleted))
		}
	}

	m := domain.NewMentionMap(types)
	stats := &domain.SyncStats{FilesScanned: len(docs)}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if !m.AddFilename(doc.Path) {
			continue
		}
		stats.DocumentsAdded++

		aliases, err := s.meta.Aliases(doc)
		if err != nil {
			s.logger.Warn("skipping aliases", slog.String("path", doc.Path), slog.Any("error", err))
			continue
		}
		m.SyncAliases(doc.Path, aliases)
	}

	stats.LinksAdded = m.Stats().Links
	stats.Duration = time.Since(start)
	return m, stats, nil
}

// HandleEvent applies one document-change event
func (s *Service) HandleEvent(ctx context.Context, event domain.DocumentEvent) error {
	switch event.Kind {
	case domain.EventCreated:
		return s.FileCreated(ctx, event.Path)
	case domain.EventModified:
		return s.FileModified(ctx, event.Path)
	case domain.EventDeleted:
		return s.FileDeleted(ctx, event.Path)
	case domain.EventRenamed:
		return s.FileRenamed(ctx, event.Path, event.OldPath)
	default:
		return fmt.Errorf("unknown event kind: %s", event.Kind)
	}
}

// Run applies events from feed until ctx ends or the feed closes
func (s *Service) Run(ctx context.Context, feed ports.DocumentFeed) error {
	events := feed.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleEvent(ctx, event); err != nil {
				s.logger.Warn("document event failed",
					slog.String("kind", event.Kind.String()),
					slog.String("path", event.Path),
					slog.Any("error", err))
			}
		}
	}
}

// FileCreated indexes a new document
func (s *Service) FileCreated(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.refresh(path)
	s.checkIntegrity(ctx)
	return err
}

// FileModified re-reads the metadata of a document and reconciles its aliases
func (s *Service) FileModified(ctx context.Context, path string) error {
	return s.FileCreated(ctx, path)
}

// FileDeleted drops every link of a document
func (s *Service) FileDeleted(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mentions.RemoveAllForPath(path) {
		s.logger.Debug("mention removed", slog.String("path", path))
	}
	s.checkIntegrity(ctx)
	return nil
}

// FileRenamed moves the links of oldPath to path and refreshes its aliases
func (s *Service) FileRenamed(ctx context.Context, path, oldPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mentions.UpdatePath(oldPath, path) {
		s.logger.Debug("mention moved", slog.String("from", oldPath), slog.String("to", path))
	}
	err := s.refresh(path)
	s.checkIntegrity(ctx)
	return err
}

// refresh brings the records of path in line with the document on disk
func (s *Service) refresh(path string) error {
	if _, ok := domain.ParseLinkFromPath(path, s.types); !ok {
		s.mentions.RemoveAllForPath(path)
		return nil
	}

	doc, err := s.store.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.mentions.RemoveAllForPath(path)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if s.mentions.AddFilename(path) {
		s.logger.Debug("mention added", slog.String("path", path))
	}

	aliases, err := s.meta.Aliases(doc)
	if err != nil {
		return fmt.Errorf("failed to read metadata of %s: %w", path, err)
	}
	s.mentions.SyncAliases(path, aliases)

	return nil
}

// checkIntegrity rebuilds the map when an operation found it inconsistent
func (s *Service) checkIntegrity(ctx context.Context) {
	if !s.mentions.Corrupted() {
		return
	}

	s.logger.Warn("mention index inconsistent, rebuilding")

	m, _, err := s.build(ctx, s.types)
	if err != nil {
		s.logger.Error("mention index rebuild failed", slog.Any("error", err))
		return
	}
	s.mentions = m
}

// Types returns the configured mention types
func (s *Service) Types() domain.MentionTypes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types
}

// GetLinks returns the links under sign whose name starts with prefix
func (s *Service) GetLinks(sign, prefix string) []domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentions.GetLinks(sign, prefix)
}

// AllLinks returns every link under sign
func (s *Service) AllLinks(sign string) []domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentions.AllLinks(sign)
}

// Links returns the links recorded for path
func (s *Service) Links(path string) []domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentions.Links(path)
}

// Stats returns the size of the current map
func (s *Service) Stats() domain.MapStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentions.Stats()
}

// Verify checks the internal consistency of the current map
func (s *Service) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentions.Verify()
}
