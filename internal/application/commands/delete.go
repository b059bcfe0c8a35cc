package commands

import (
	"context"
	"fmt"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedPath string
	Message     string
}

// DeleteCommand deletes a mention document
type DeleteCommand struct {
	store    ports.DocumentStore
	notifier ports.ChangeNotifier
	types    domain.MentionTypes
	Path     string
}

// NewDeleteCommand creates a new DeleteCommand. notifier may be nil.
func NewDeleteCommand(store ports.DocumentStore, notifier ports.ChangeNotifier, types domain.MentionTypes, notePath string) *DeleteCommand {
	return &DeleteCommand{
		store:    store,
		notifier: notifier,
		types:    types,
		Path:     notePath,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	_, err := application.ValidateMentionPath("path", c.Path, c.types)
	return err
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if !c.store.Exists(c.Path) {
		return nil, fmt.Errorf("%w: %s", application.ErrNotFound, c.Path)
	}

	if err := c.store.Remove(c.Path); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Path, err)
	}

	if c.notifier != nil {
		if err := c.notifier.FileDeleted(ctx, c.Path); err != nil {
			return nil, fmt.Errorf("deleted but not indexed: %w", err)
		}
	}

	return &DeleteResult{
		DeletedPath: c.Path,
		Message:     fmt.Sprintf("Deleted %s", c.Path),
	}, nil
}
