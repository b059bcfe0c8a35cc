package commands

import (
	"context"
	"errors"
	"testing"

	"mentions/internal/application"
)

func TestDeleteCommand_Execute(t *testing.T) {
	store := newFakeStore(map[string]string{"People/@John.md": ""})
	notifier := &fakeNotifier{}

	result, err := NewDeleteCommand(store, notifier, testTypes(), "People/@John.md").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.DeletedPath != "People/@John.md" || store.Exists("People/@John.md") {
		t.Errorf("unexpected result %+v, files %v", result, store.files)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "deleted People/@John.md" {
		t.Errorf("unexpected notifications %v", notifier.events)
	}
}

func TestDeleteCommand_Errors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(map[string]string{"Notes/todo.md": ""})

	_, err := NewDeleteCommand(store, nil, testTypes(), "Notes/todo.md").Execute(ctx)
	if !errors.Is(err, application.ErrNotMention) {
		t.Errorf("expected ErrNotMention, got %v", err)
	}
	if !store.Exists("Notes/todo.md") {
		t.Error("non-mention document must not be deleted")
	}

	_, err = NewDeleteCommand(store, nil, testTypes(), "People/@Ghost.md").Execute(ctx)
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
