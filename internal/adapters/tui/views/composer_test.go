package views

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/domain"
)

func TestComposer_SuggestsAfterSign(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "Met @jo")

	if !m.Active() {
		t.Fatal("expected suggestions after @jo")
	}

	var rendered []string
	for _, s := range m.Suggestions() {
		rendered = append(rendered, s.Render())
	}
	want := []string{"John Smith", "Johnny (@John Smith)", "Create Person: jo"}
	if strings.Join(rendered, "|") != strings.Join(want, "|") {
		t.Errorf("suggestions = %v, want %v", rendered, want)
	}
}

func TestComposer_AcceptInsertsLink(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "Met @jo")
	press(m, tea.KeyEnter)

	if got, want := m.Text(), "Met [[@John Smith]]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if m.Active() {
		t.Error("suggestions still open after accept")
	}
}

func TestComposer_AcceptAlias(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "@jo")
	press(m, tea.KeyDown)
	press(m, tea.KeyTab)

	if got, want := m.Text(), "[[@John Smith|@Johnny]]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestComposer_CreateSuggestionWritesNote(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "@Ada")
	s, ok := m.Selected()
	if !ok || s.Type != domain.SuggestionCreate {
		t.Fatalf("Selected() = %+v, want the create suggestion", s)
	}
	press(m, tea.KeyEnter)

	if got, want := m.Text(), "[[@Ada]]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if !repo.Exists("People/@Ada.md") {
		t.Error("note not created")
	}
	if links := svc.GetLinks("@", "ada"); len(links) != 1 {
		t.Errorf("index has %d links for ada, want 1", len(links))
	}
}

func TestComposer_CreateFailureLeavesText(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "@Jane Doe")
	press(m, tea.KeyUp) // wraps to the create suggestion
	s, _ := m.Selected()
	if s.Type != domain.SuggestionCreate {
		t.Fatalf("Selected() = %+v, want the create suggestion", s)
	}
	press(m, tea.KeyEnter)

	if got := m.Text(); got != "@Jane Doe" {
		t.Errorf("Text() = %q, buffer should be untouched", got)
	}
	if !m.MessageErr {
		t.Error("expected an error message")
	}
}

func TestComposer_DismissUntilQueryChanges(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "@jo")
	press(m, tea.KeyEsc)
	if m.Active() {
		t.Fatal("suggestions still open after esc")
	}

	// An index refresh keeps the same query closed
	m.Update(IndexChangedMsg{})
	if m.Active() {
		t.Error("dismissed query reopened")
	}

	typeText(m, "h")
	if !m.Active() {
		t.Error("new query should reopen suggestions")
	}
}

func TestComposer_NoTrigger(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no sign", "hello"},
		{"mid word", "mail@jo"},
		{"stop character", "@jo?"},
		{"closed link", "[[@John Smith]]"},
		{"sign only", "@"},
		{"too long", "@abcdefghijklmnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := testVault(t)
			m := NewComposerModel(svc, repo, testSettings())

			typeText(m, tt.text)
			if m.Active() {
				t.Errorf("%q opened suggestions", tt.text)
			}
		})
	}
}

func TestComposer_NewlineCommitsLine(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "first")
	press(m, tea.KeyEnter)
	typeText(m, "then +al")
	press(m, tea.KeyEnter)

	if got, want := m.Text(), "first\nthen [[+Alpha]]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestComposer_ReplaceRange(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "ab")
	press(m, tea.KeyEnter)
	typeText(m, "héllo")

	if err := m.ReplaceRange("X", domain.Position{Line: 1, Ch: 1}, domain.Position{Line: 1, Ch: 2}); err != nil {
		t.Fatalf("ReplaceRange() error = %v", err)
	}
	if err := m.ReplaceRange("Y", domain.Position{Line: 0, Ch: 0}, domain.Position{Line: 0, Ch: 1}); err != nil {
		t.Fatalf("ReplaceRange() error = %v", err)
	}
	if got, want := m.Text(), "Yb\nhXllo"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	bad := []struct{ start, end domain.Position }{
		{domain.Position{Line: 0, Ch: 0}, domain.Position{Line: 1, Ch: 0}},
		{domain.Position{Line: 1, Ch: 3}, domain.Position{Line: 1, Ch: 2}},
		{domain.Position{Line: 1, Ch: 0}, domain.Position{Line: 1, Ch: 9}},
		{domain.Position{Line: 5, Ch: 0}, domain.Position{Line: 5, Ch: 0}},
	}
	for _, b := range bad {
		if err := m.ReplaceRange("Z", b.start, b.end); !errors.Is(err, errSpanOutsideBuffer) {
			t.Errorf("ReplaceRange(%v, %v) error = %v, want errSpanOutsideBuffer", b.start, b.end, err)
		}
	}
}

func TestComposer_InsertLinkMsg(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "see ")
	m.Update(InsertLinkMsg{Link: svc.GetLinks("+", "alpha")[0]})

	if got, want := m.Text(), "see [[+Alpha]]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestComposer_OpenSuggestion(t *testing.T) {
	repo, svc := testVault(t)
	m := NewComposerModel(svc, repo, testSettings())

	typeText(m, "@jane")
	cmd := press(m, tea.KeyCtrlO)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OpenEditorMsg)
	if !ok || msg.Path != "People/@Jane Doe.md" {
		t.Errorf("cmd() = %#v, want OpenEditorMsg for Jane", msg)
	}
}
