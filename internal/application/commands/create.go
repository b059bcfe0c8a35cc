package commands

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// CreateNoteResult contains the result of creating a mention note
type CreateNoteResult struct {
	Path    string
	Link    domain.Link
	Message string
}

// CreateNoteCommand creates the document a new mention points to
type CreateNoteCommand struct {
	store       ports.DocumentStore
	notifier    ports.ChangeNotifier
	MentionType domain.MentionType
	Name        string
	Now         func() time.Time
}

// NewCreateNoteCommand creates a new CreateNoteCommand. notifier may be nil.
func NewCreateNoteCommand(store ports.DocumentStore, notifier ports.ChangeNotifier, mentionType domain.MentionType, name string) *CreateNoteCommand {
	return &CreateNoteCommand{
		store:       store,
		notifier:    notifier,
		MentionType: mentionType,
		Name:        name,
		Now:         time.Now,
	}
}

// Validate checks if the create operation is valid
func (c *CreateNoteCommand) Validate() error {
	if err := domain.ValidateSign(c.MentionType.Sign); err != nil {
		return &application.ValidationError{
			Field:   "sign",
			Message: err.Error(),
		}
	}

	return application.ValidateMentionName("name", c.Name)
}

// Execute writes the note. Parent folders are created and the configured
// template is rendered into it.
func (c *CreateNoteCommand) Execute(ctx context.Context) (*CreateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	notePath := c.MentionType.NotePath(c.Name)
	if c.store.Exists(notePath) {
		return nil, fmt.Errorf("%w: %s", application.ErrAlreadyExists, notePath)
	}

	content, err := c.render()
	if err != nil {
		return nil, err
	}

	if folder := path.Dir(notePath); folder != "." {
		if err := c.store.CreateFolder(folder); err != nil {
			return nil, fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
	}

	if err := c.store.CreateFile(notePath, []byte(content)); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	result := &CreateNoteResult{
		Path: notePath,
		Link: domain.Link{
			Sign:     c.MentionType.Sign,
			Path:     notePath,
			Name:     c.Name,
			FileName: c.MentionType.Sign + c.Name,
			Kind:     domain.LinkKindFilename,
		},
		Message: fmt.Sprintf("Created %s: %s", c.MentionType.DisplayLabel(), notePath),
	}

	if c.notifier != nil {
		if err := c.notifier.FileCreated(ctx, notePath); err != nil {
			return result, fmt.Errorf("note created but not indexed: %w", err)
		}
	}

	return result, nil
}

func (c *CreateNoteCommand) render() (string, error) {
	templatePath := strings.TrimSpace(c.MentionType.TemplatePath)
	if templatePath == "" {
		return "", nil
	}
	if !strings.HasSuffix(templatePath, domain.DocumentExtension) {
		templatePath += domain.DocumentExtension
	}

	template, err := c.store.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	return domain.RenderTemplate(string(template), c.Name, now()), nil
}
