package ports

import (
	"context"

	"mentions/internal/domain"
)

// DocumentStore defines the interface for vault storage operations.
// Paths are vault-relative and slash-separated.
type DocumentStore interface {
	// VaultPath returns the absolute root of the vault
	VaultPath() string

	// Snapshot
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	Stat(path string) (domain.Document, error)
	Exists(path string) bool

	// Document creation
	CreateFolder(path string) error
	CreateFile(path string, content []byte) error
	ReadFile(path string) ([]byte, error)

	// Host operations
	Rename(oldPath, newPath string) error
	Remove(path string) error
}

// MetadataSource returns the structured header of a document
type MetadataSource interface {
	// Aliases returns the aliases declared by doc. A document without
	// metadata yields no aliases and no error.
	Aliases(doc domain.Document) ([]string, error)
}

// MetadataIndex is a persistent MetadataSource that survives restarts
type MetadataIndex interface {
	MetadataSource

	// Lifecycle
	Open(vaultPath string) error
	Close() error

	// NeedsFullRebuild reports whether the stored data belongs to another
	// schema or vault
	NeedsFullRebuild() bool

	// Sync reconciles the index with a document snapshot, reading
	// metadata only for new or changed documents
	Sync(ctx context.Context, docs []domain.Document) (*domain.SyncStats, error)
}
