package commands

import (
	"context"
	"fmt"
	"time"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// SelectResult contains the result of applying a suggestion
type SelectResult struct {
	Inserted string
	Created  *CreateNoteResult
	Message  string
}

// SelectCommand applies a chosen suggestion to a text buffer. A "create"
// suggestion writes its note first; the buffer is only touched once the
// note exists.
type SelectCommand struct {
	store      ports.DocumentStore
	buffer     ports.TextBuffer
	notifier   ports.ChangeNotifier
	Suggestion domain.Suggestion
	Trigger    domain.Trigger
	Now        func() time.Time
}

// NewSelectCommand creates a new SelectCommand. notifier may be nil.
func NewSelectCommand(store ports.DocumentStore, buffer ports.TextBuffer, notifier ports.ChangeNotifier, suggestion domain.Suggestion, trigger domain.Trigger) *SelectCommand {
	return &SelectCommand{
		store:      store,
		buffer:     buffer,
		notifier:   notifier,
		Suggestion: suggestion,
		Trigger:    trigger,
		Now:        time.Now,
	}
}

// Execute runs the select command
func (c *SelectCommand) Execute(ctx context.Context) (*SelectResult, error) {
	result := &SelectResult{}

	if c.Suggestion.Type == domain.SuggestionCreate {
		create := NewCreateNoteCommand(c.store, nil, c.Suggestion.MentionType, c.Suggestion.Link.Name)
		create.Now = c.Now

		created, err := create.Execute(ctx)
		if err != nil {
			return nil, &application.SelectionError{
				Path:   c.Suggestion.Link.Path,
				Reason: "create note",
				Err:    err,
			}
		}
		result.Created = created
	}

	text := c.Suggestion.LinkText()
	if err := c.buffer.ReplaceRange(text, c.Trigger.Start, c.Trigger.End); err != nil {
		return nil, &application.SelectionError{
			Path:   c.Suggestion.Link.Path,
			Reason: "insert link",
			Err:    err,
		}
	}
	result.Inserted = text

	if result.Created != nil {
		result.Message = fmt.Sprintf("%s, inserted %s", result.Created.Message, text)
		if c.notifier != nil {
			if err := c.notifier.FileCreated(ctx, result.Created.Path); err != nil {
				return result, fmt.Errorf("note created but not indexed: %w", err)
			}
		}
	} else {
		result.Message = fmt.Sprintf("Inserted %s", text)
	}

	return result, nil
}
