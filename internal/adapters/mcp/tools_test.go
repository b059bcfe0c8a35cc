package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mentions/internal/adapters/filesystem"
	"mentions/internal/application"
	"mentions/internal/domain"
)

func setupVault(t *testing.T) (*filesystem.Repository, *application.Service) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
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

func call(t *testing.T, handler server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestSuggestTool(t *testing.T) {
	_, svc := setupVault(t)
	handler := suggestHandler(svc, Settings{MatchStart: true})

	text, isErr := call(t, handler, map[string]any{"query": "@jo"})
	if isErr {
		t.Fatalf("suggest failed: %s", text)
	}

	for _, want := range []string{
		"John Smith  [[@John Smith]]",
		"Johnny (@John Smith)  [[@John Smith|@Johnny]]",
		"Create Person: jo",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("suggest output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Jane") {
		t.Errorf("suggest output should not list Jane:\n%s", text)
	}
}

func TestSuggestTool_ContainsOverride(t *testing.T) {
	_, svc := setupVault(t)
	handler := suggestHandler(svc, Settings{MatchStart: true})

	text, _ := call(t, handler, map[string]any{"query": "@doe", "match_start": false})
	if !strings.Contains(text, "Jane Doe") {
		t.Errorf("contains mode should find Jane Doe:\n%s", text)
	}
}

func TestSuggestTool_NoSign(t *testing.T) {
	_, svc := setupVault(t)

	_, isErr := call(t, suggestHandler(svc, Settings{}), map[string]any{"query": "John"})
	if !isErr {
		t.Error("expected error for query without sign")
	}
}

func TestCompleteTool(t *testing.T) {
	_, svc := setupVault(t)
	handler := completeHandler(svc, Settings{MatchStart: true, MaxMatchLength: domain.DefaultMaxMatchLength})

	text, isErr := call(t, handler, map[string]any{"line": "Talked to +Al"})
	if isErr {
		t.Fatalf("complete failed: %s", text)
	}
	if !strings.HasPrefix(text, "replace 10-13  +Al\n") {
		t.Errorf("complete output = %q", text)
	}
	if !strings.Contains(text, "[[+Alpha]]") {
		t.Errorf("complete output missing link:\n%s", text)
	}

	text, _ = call(t, handler, map[string]any{"line": "mail@example"})
	if text != "No mention at cursor." {
		t.Errorf("complete output = %q, want no mention", text)
	}
}

func TestLookupTool(t *testing.T) {
	_, svc := setupVault(t)
	handler := lookupHandler(svc)

	text, isErr := call(t, handler, map[string]any{"sign": "@", "name": "j"})
	if isErr {
		t.Fatalf("lookup failed: %s", text)
	}
	if got := strings.Count(text, "\n"); got != 3 {
		t.Errorf("lookup returned %d lines, want 3:\n%s", got, text)
	}

	_, isErr = call(t, handler, map[string]any{"sign": "#", "name": "j"})
	if !isErr {
		t.Error("expected error for unknown sign")
	}
}

func TestListTools(t *testing.T) {
	_, svc := setupVault(t)

	text, _ := call(t, listTypesHandler(svc), nil)
	if !strings.Contains(text, "@  Person  folder=People") || !strings.Contains(text, "+  Project  folder=Projects") {
		t.Errorf("list_types output:\n%s", text)
	}

	text, _ = call(t, listHandler(svc), map[string]any{"sign": "@"})
	if strings.Contains(text, "Johnny") {
		t.Errorf("list without aliases should skip Johnny:\n%s", text)
	}

	text, _ = call(t, listHandler(svc), map[string]any{"sign": "@", "aliases": true})
	if !strings.Contains(text, "Johnny") {
		t.Errorf("list with aliases should include Johnny:\n%s", text)
	}
}

func TestLinksAndStatsTools(t *testing.T) {
	_, svc := setupVault(t)

	text, _ := call(t, linksHandler(svc), map[string]any{"path": "People/@John Smith.md"})
	if !strings.Contains(text, "[[@John Smith]]") || !strings.Contains(text, "[[@John Smith|@Johnny]]") {
		t.Errorf("links output:\n%s", text)
	}

	text, _ = call(t, statsHandler(svc), nil)
	if !strings.Contains(text, "paths: 3") || !strings.Contains(text, "consistency: ok") {
		t.Errorf("stats output:\n%s", text)
	}
}

func TestWriteTools(t *testing.T) {
	repo, svc := setupVault(t)

	text, isErr := call(t, createHandler(repo, svc), map[string]any{"sign": "@", "name": "Ada Lovelace"})
	if isErr {
		t.Fatalf("create failed: %s", text)
	}
	if !strings.Contains(text, "[[@Ada Lovelace]]") {
		t.Errorf("create output = %q", text)
	}
	if !repo.Exists("People/@Ada Lovelace.md") {
		t.Error("created note missing on disk")
	}
	if links := svc.GetLinks("@", "ada"); len(links) != 1 {
		t.Errorf("index has %d links for ada, want 1", len(links))
	}

	_, isErr = call(t, createHandler(repo, svc), map[string]any{"sign": "@", "name": "Ada Lovelace"})
	if !isErr {
		t.Error("expected error creating an existing note")
	}

	text, isErr = call(t, renameHandler(repo, svc), map[string]any{"path": "People/@Ada Lovelace.md", "new_name": "Ada King"})
	if isErr {
		t.Fatalf("rename failed: %s", text)
	}
	if links := svc.GetLinks("@", "ada k"); len(links) != 1 {
		t.Errorf("index has %d links for ada k, want 1", len(links))
	}

	text, isErr = call(t, deleteHandler(repo, svc), map[string]any{"path": "People/@Ada King.md"})
	if isErr {
		t.Fatalf("delete failed: %s", text)
	}
	if links := svc.GetLinks("@", "ada"); len(links) != 0 {
		t.Errorf("index still has %d links for ada", len(links))
	}
}

func TestRegisterTools(t *testing.T) {
	repo, svc := setupVault(t)

	s := server.NewMCPServer("mentions-test", "0.0.0", server.WithToolCapabilities(true))
	RegisterReadTools(s, svc, Settings{MatchStart: true})
	RegisterWriteTools(s, repo, svc)

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, name := range []string{"suggest", "complete", "lookup", "list_types", "list", "links", "stats", "create", "rename", "delete"} {
		if !strings.Contains(string(data), `"name":"`+name+`"`) {
			t.Errorf("tool %q not registered", name)
		}
	}
}
