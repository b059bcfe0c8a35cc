package views

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/filesystem"
	"mentions/internal/application"
	"mentions/internal/domain"
)

func testVault(t *testing.T) (*filesystem.Repository, *application.Service) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"People/@John Smith.md": "---\naliases: [\"@Johnny\"]\n---\n",
		"People/@Jane Doe.md":   "",
		"Projects/+Alpha.md":    "",
		"notes.md":              "",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	types := domain.MentionTypes{
		"@": {Sign: "@", Label: "Person", Folder: "People"},
		"+": {Sign: "+", Label: "Project", Folder: "Projects"},
	}

	repo := filesystem.NewRepository(root)
	svc := application.NewService(repo, repo, types)
	if _, err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return repo, svc
}

func testSettings() CompletionSettings {
	return CompletionSettings{
		MatchStart:     true,
		MaxMatchLength: domain.DefaultMaxMatchLength,
		StopCharacters: domain.DefaultStopCharacters,
		PageSize:       5,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s one key at a time
func typeText(m tea.Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

func press(m tea.Model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}
