package commands

import (
	"context"
	"fmt"
	"path"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	OldPath string
	NewPath string
	Message string
}

// RenameCommand renames a mention document in place, keeping its folder
// and sign
type RenameCommand struct {
	store    ports.DocumentStore
	notifier ports.ChangeNotifier
	types    domain.MentionTypes
	Path     string
	NewName  string
}

// NewRenameCommand creates a new RenameCommand. notifier may be nil.
func NewRenameCommand(store ports.DocumentStore, notifier ports.ChangeNotifier, types domain.MentionTypes, notePath, newName string) *RenameCommand {
	return &RenameCommand{
		store:    store,
		notifier: notifier,
		types:    types,
		Path:     notePath,
		NewName:  newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if _, err := application.ValidateMentionPath("path", c.Path, c.types); err != nil {
		return err
	}
	return application.ValidateMentionName("newName", c.NewName)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	parts, _ := domain.ParseLinkFromPath(c.Path, c.types)
	if parts.Name == c.NewName {
		return nil, &application.ValidationError{
			Field:   "newName",
			Message: "new name is the same as the current name",
		}
	}

	if !c.store.Exists(c.Path) {
		return nil, fmt.Errorf("%w: %s", application.ErrNotFound, c.Path)
	}

	newPath := parts.Sign + c.NewName + domain.DocumentExtension
	if dir := path.Dir(c.Path); dir != "." {
		newPath = dir + "/" + newPath
	}

	if c.store.Exists(newPath) {
		return nil, fmt.Errorf("%w: %s", application.ErrAlreadyExists, newPath)
	}

	if err := c.store.Rename(c.Path, newPath); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	result := &RenameResult{
		OldPath: c.Path,
		NewPath: newPath,
		Message: fmt.Sprintf("Renamed %s to %s", c.Path, newPath),
	}

	if c.notifier != nil {
		if err := c.notifier.FileRenamed(ctx, newPath, c.Path); err != nil {
			return result, fmt.Errorf("renamed but not indexed: %w", err)
		}
	}

	return result, nil
}
