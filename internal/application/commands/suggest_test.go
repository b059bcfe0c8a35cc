package commands

import (
	"context"
	"errors"
	"testing"

	"mentions/internal/application"
	"mentions/internal/domain"
)

func TestSuggestCommand_PrefixMode(t *testing.T) {
	cmd := NewSuggestCommand(testLookup(), testTypes(), "@Jo", true)

	got, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []string{"John Smith", "Johnny (@John Smith)", "Create Person: Jo"}
	if len(got) != len(want) {
		t.Fatalf("expected %d suggestions, got %d: %+v", len(want), len(got), got)
	}
	for i, s := range got {
		if s.Render() != want[i] {
			t.Errorf("suggestion %d: expected %q, got %q", i, want[i], s.Render())
		}
	}
	if got[2].Type != domain.SuggestionCreate || got[2].Link.Path != "People/@Jo.md" {
		t.Errorf("unexpected create suggestion %+v", got[2])
	}
}

func TestSuggestCommand_ContainsMode(t *testing.T) {
	cmd := NewSuggestCommand(testLookup(), testTypes(), "@smith", false)

	got, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", got)
	}
	if got[0].Render() != "John Smith" {
		t.Errorf("expected John Smith, got %q", got[0].Render())
	}
	if got[1].Render() != "Create Person: smith" {
		t.Errorf("expected create suggestion, got %q", got[1].Render())
	}
}

func TestSuggestCommand_PrefixModeIgnoresInnerMatches(t *testing.T) {
	got, err := NewSuggestCommand(testLookup(), testTypes(), "@smith", true).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 1 || got[0].Type != domain.SuggestionCreate {
		t.Errorf("expected only the create suggestion, got %+v", got)
	}
}

func TestSuggestCommand_DefaultLabel(t *testing.T) {
	got, err := NewSuggestCommand(testLookup(), testTypes(), "+La", true).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 2 || got[1].Render() != "Create Item: La" {
		t.Errorf("unexpected suggestions %+v", got)
	}
}

func TestSuggestCommand_Limit(t *testing.T) {
	cmd := NewSuggestCommand(testLookup(), testTypes(), "@J", true)
	cmd.Limit = 1

	got, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected one link and the create entry, got %+v", got)
	}
	if got[0].Type != domain.SuggestionLink || got[1].Type != domain.SuggestionCreate {
		t.Errorf("unexpected suggestion types %+v", got)
	}
}

func TestSuggestCommand_Errors(t *testing.T) {
	_, err := NewSuggestCommand(testLookup(), testTypes(), "Jo", true).Execute(context.Background())
	if !errors.Is(err, application.ErrNoTrigger) {
		t.Errorf("expected ErrNoTrigger, got %v", err)
	}

	_, err = NewSuggestCommand(testLookup(), testTypes(), " ", true).Execute(context.Background())
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
