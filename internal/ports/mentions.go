package ports

import (
	"context"

	"mentions/internal/domain"
)

// LinkLookup answers prefix queries against the mention index
type LinkLookup interface {
	GetLinks(sign, prefix string) []domain.Link
	AllLinks(sign string) []domain.Link
}

// TextBuffer is the editor surface a selected suggestion is spliced into
type TextBuffer interface {
	// ReplaceRange replaces the text between start and end with text
	ReplaceRange(text string, start, end domain.Position) error
}

// DocumentFeed delivers document-change events until its context ends
type DocumentFeed interface {
	Events() <-chan domain.DocumentEvent
}

// ChangeNotifier is told about changes a host made to the vault itself,
// so the index does not have to wait for the change feed
type ChangeNotifier interface {
	FileCreated(ctx context.Context, path string) error
	FileRenamed(ctx context.Context, path, oldPath string) error
	FileDeleted(ctx context.Context, path string) error
}
