package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSettings = `{
	// people and projects
	"mentionTypes": {
		"@": {"label": "Person", "folder": "People"},
		"+": {"label": "Project", "folder": "Projects"},
	},
}`

func setupVault(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	root := t.TempDir()
	files := map[string]string{
		".mentions.json":        testSettings,
		"People/@John Smith.md": "---\naliases: [\"@Johnny\"]\n---\n# John\n",
		"People/@Jane Doe.md":   "# Jane\n",
		"Projects/+Alpha.md":    "# Alpha\n",
		"Daily/2024-01-01.md":   "met @John Smith\n",
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
	return root
}

func run(t *testing.T, vault string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--vault", vault}, args...))

	err := rootCmd.ExecuteContext(t.Context())
	closeRuntime()
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "lookup", "@", "jo")
	if err != nil {
		t.Fatalf("lookup error = %v", err)
	}
	if !strings.Contains(out, "[[@John Smith]]") {
		t.Errorf("output missing filename link:\n%s", out)
	}
	if !strings.Contains(out, "[[@John Smith|@Johnny]]") {
		t.Errorf("output missing alias link:\n%s", out)
	}
	if strings.Contains(out, "Jane") {
		t.Errorf("output should not match Jane:\n%s", out)
	}
}

func TestSuggestCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "suggest", "@ja")
	if err != nil {
		t.Fatalf("suggest error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Jane Doe\t[[@Jane Doe]]") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Create Person: ja") {
		t.Errorf("last line = %q, want create entry", lines[1])
	}
}

func TestCompleteCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "complete", "met +al")
	if err != nil {
		t.Fatalf("complete error = %v", err)
	}
	if !strings.HasPrefix(out, "replace 4-7\n") {
		t.Errorf("output = %q, want replaced range first", out)
	}
	if !strings.Contains(out, "[[+Alpha]]") {
		t.Errorf("output missing +Alpha:\n%s", out)
	}
}

func TestCreateCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "create", "+", "Beta")
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out, "[[+Beta]]") {
		t.Errorf("output missing link:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(vault, "Projects", "+Beta.md")); err != nil {
		t.Errorf("note not created: %v", err)
	}

	if _, err := run(t, vault, "create", "+", "Beta"); err == nil {
		t.Error("creating an existing note should fail")
	}
}

func TestCreateCommand_UnknownSign(t *testing.T) {
	vault := setupVault(t)

	if _, err := run(t, vault, "create", "!", "Nope"); err == nil {
		t.Error("expected error for unconfigured sign")
	}
}

func TestListTypesCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "list", "types")
	if err != nil {
		t.Fatalf("list types error = %v", err)
	}
	want := "+  Project  folder=Projects\n@  Person  folder=People\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestStatsCommand(t *testing.T) {
	vault := setupVault(t)

	out, err := run(t, vault, "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out, "paths: 3\n") {
		t.Errorf("output = %q, want 3 paths", out)
	}
	if !strings.Contains(out, "consistency: ok") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigSetType(t *testing.T) {
	vault := setupVault(t)

	if _, err := run(t, vault, "config", "set-type", "!", "--label", "Topic"); err != nil {
		t.Fatalf("set-type error = %v", err)
	}

	out, err := run(t, vault, "list", "types")
	if err != nil {
		t.Fatalf("list types error = %v", err)
	}
	if !strings.Contains(out, "!  Topic") {
		t.Errorf("new type not listed:\n%s", out)
	}

	if _, err := run(t, vault, "config", "set-type", "a"); err == nil {
		t.Error("expected error for a letter sign")
	}
}
