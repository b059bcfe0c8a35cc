package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"sort"
	"testing"
	"time"

	"mentions/internal/domain"
)

// memoryStore is an in-memory vault implementing DocumentStore and MetadataSource
type memoryStore struct {
	files    map[string]string
	listErr  error
	metaErrs map[string]error
	reads    int
}

func newMemoryStore(files map[string]string) *memoryStore {
	return &memoryStore{files: files, metaErrs: map[string]error{}}
}

func (m *memoryStore) VaultPath() string { return "/vault" }

func (m *memoryStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var docs []domain.Document
	for path := range m.files {
		docs = append(docs, domain.Document{Path: path, Mtime: 1})
	}
	domain.SortDocuments(docs)
	return docs, nil
}

func (m *memoryStore) Stat(path string) (domain.Document, error) {
	if _, ok := m.files[path]; !ok {
		return domain.Document{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}
	return domain.Document{Path: path, Mtime: 2}, nil
}

func (m *memoryStore) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memoryStore) CreateFolder(path string) error { return nil }

func (m *memoryStore) CreateFile(path string, content []byte) error {
	m.files[path] = string(content)
	return nil
}

func (m *memoryStore) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func (m *memoryStore) Rename(oldPath, newPath string) error {
	m.files[newPath] = m.files[oldPath]
	delete(m.files, oldPath)
	return nil
}

func (m *memoryStore) Remove(path string) error {
	delete(m.files, path)
	return nil
}

func (m *memoryStore) Aliases(doc domain.Document) ([]string, error) {
	m.reads++
	if err := m.metaErrs[doc.Path]; err != nil {
		return nil, err
	}
	fm, err := domain.ParseFrontmatter([]byte(m.files[doc.Path]))
	if err != nil {
		return nil, err
	}
	return fm.AllAliases(), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, files map[string]string) (*Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore(files)
	svc := NewService(store, store, domain.MentionTypes{"@": {Label: "Person"}, "+": {}}, WithLogger(quietLogger()))
	if _, err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return svc, store
}

func linkNames(links []domain.Link) []string {
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

func TestService_Initialize(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"People/@John Smith.md": "---\naliases: [\"@Johnny\", \"plain\"]\n---\n",
		"People/@Jane Doe.md":   "",
		"Notes/meeting.md":      "---\naliases: [\"@Meeting\"]\n---\n",
		"Projects/+Launch.md":   "",
	})

	if got := linkNames(svc.GetLinks("@", "j")); !slices.Equal(got, []string{"Jane Doe", "John Smith", "Johnny"}) {
		t.Errorf("unexpected @j links: %v", got)
	}
	if got := svc.GetLinks("@", "meeting"); len(got) != 0 {
		t.Errorf("alias of a non-mention document must not be indexed: %v", got)
	}
	if got := svc.AllLinks("+"); len(got) != 1 {
		t.Errorf("expected one + link, got %v", got)
	}
	if err := svc.Verify(); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	stats := svc.Stats()
	if stats.Paths != 3 || stats.Links != 4 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestService_InitializeListError(t *testing.T) {
	store := newMemoryStore(map[string]string{})
	store.listErr = errors.New("disk gone")

	svc := NewService(store, store, domain.MentionTypes{"@": {}}, WithLogger(quietLogger()))
	if _, err := svc.Initialize(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_InitializeSkipsBrokenMetadata(t *testing.T) {
	store := newMemoryStore(map[string]string{
		"@John.md": "---\naliases: [\"@Johnny\"]\n---\n",
	})
	store.metaErrs["@John.md"] = errors.New("unreadable")

	svc := NewService(store, store, domain.MentionTypes{"@": {}}, WithLogger(quietLogger()))
	if _, err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if got := linkNames(svc.GetLinks("@", "john")); !slices.Equal(got, []string{"John"}) {
		t.Errorf("expected only the filename link, got %v", got)
	}
}

func TestService_FileLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{})

	store.files["People/@John Smith.md"] = ""
	if err := svc.FileCreated(ctx, "People/@John Smith.md"); err != nil {
		t.Fatalf("FileCreated failed: %v", err)
	}
	if got := linkNames(svc.GetLinks("@", "jo")); !slices.Equal(got, []string{"John Smith"}) {
		t.Fatalf("after create: %v", got)
	}

	// aliases arrive with a later modify event
	store.files["People/@John Smith.md"] = "---\naliases: [\"@Johnny\", \"@JS\"]\n---\n"
	if err := svc.FileModified(ctx, "People/@John Smith.md"); err != nil {
		t.Fatalf("FileModified failed: %v", err)
	}
	if got := linkNames(svc.GetLinks("@", "j")); !slices.Equal(got, []string{"JS", "John Smith", "Johnny"}) {
		t.Fatalf("after modify: %v", got)
	}

	store.files["People/@John Smith.md"] = "---\naliases: [\"@JS\"]\n---\n"
	if err := svc.FileModified(ctx, "People/@John Smith.md"); err != nil {
		t.Fatalf("FileModified failed: %v", err)
	}
	if got := linkNames(svc.GetLinks("@", "j")); !slices.Equal(got, []string{"JS", "John Smith"}) {
		t.Fatalf("stale alias kept: %v", got)
	}

	if err := store.Rename("People/@John Smith.md", "Archive/@John Q Smith.md"); err != nil {
		t.Fatal(err)
	}
	if err := svc.FileRenamed(ctx, "Archive/@John Q Smith.md", "People/@John Smith.md"); err != nil {
		t.Fatalf("FileRenamed failed: %v", err)
	}
	for _, link := range svc.GetLinks("@", "j") {
		if link.Path != "Archive/@John Q Smith.md" || link.FileName != "@John Q Smith" {
			t.Errorf("link not moved: %+v", link)
		}
	}
	if got := linkNames(svc.GetLinks("@", "j")); !slices.Equal(got, []string{"JS", "John Q Smith"}) {
		t.Fatalf("after rename: %v", got)
	}

	if err := store.Remove("Archive/@John Q Smith.md"); err != nil {
		t.Fatal(err)
	}
	if err := svc.FileDeleted(ctx, "Archive/@John Q Smith.md"); err != nil {
		t.Fatalf("FileDeleted failed: %v", err)
	}
	if got := svc.GetLinks("@", ""); len(got) != 0 {
		t.Errorf("after delete: %v", got)
	}
	if err := svc.Verify(); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestService_RenameOutOfCategory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{
		"People/@John.md": "---\naliases: [\"@Johnny\"]\n---\n",
	})

	store.Rename("People/@John.md", "People/John.md")
	if err := svc.FileRenamed(ctx, "People/John.md", "People/@John.md"); err != nil {
		t.Fatalf("FileRenamed failed: %v", err)
	}

	if got := svc.GetLinks("@", ""); len(got) != 0 {
		t.Errorf("expected no links, got %v", got)
	}
	if got := svc.Links("People/John.md"); len(got) != 0 {
		t.Errorf("expected no links for new path, got %v", got)
	}
}

func TestService_RenameIntoCategory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{
		"Inbox/john.md": "---\naliases: [\"@Johnny\"]\n---\n",
	})

	store.Rename("Inbox/john.md", "People/@John.md")
	if err := svc.FileRenamed(ctx, "People/@John.md", "Inbox/john.md"); err != nil {
		t.Fatalf("FileRenamed failed: %v", err)
	}

	if got := linkNames(svc.GetLinks("@", "john")); !slices.Equal(got, []string{"John", "Johnny"}) {
		t.Errorf("unexpected links %v", got)
	}
}

func TestService_ModifiedAfterVanishing(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{"@John.md": ""})

	delete(store.files, "@John.md")
	if err := svc.FileModified(ctx, "@John.md"); err != nil {
		t.Fatalf("FileModified failed: %v", err)
	}
	if got := svc.AllLinks("@"); len(got) != 0 {
		t.Errorf("expected vanished document to be dropped, got %v", got)
	}
}

func TestService_MetadataErrorKeepsFilenameLink(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{})

	store.files["@John.md"] = ""
	store.metaErrs["@John.md"] = errors.New("unreadable")

	if err := svc.FileCreated(ctx, "@John.md"); err == nil {
		t.Fatal("expected metadata error")
	}
	if got := linkNames(svc.AllLinks("@")); !slices.Equal(got, []string{"John"}) {
		t.Errorf("expected filename link, got %v", got)
	}
}

func TestService_NonMentionEventsSkipMetadata(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, map[string]string{})
	store.reads = 0

	store.files["Notes/todo.md"] = "---\naliases: [\"@Todo\"]\n---\n"
	if err := svc.FileCreated(ctx, "Notes/todo.md"); err != nil {
		t.Fatalf("FileCreated failed: %v", err)
	}
	if store.reads != 0 {
		t.Errorf("expected no metadata reads, got %d", store.reads)
	}
}

func TestService_UpdateTypesRebuilds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, map[string]string{
		"@John.md":   "",
		"#Design.md": "",
	})

	if got := svc.AllLinks("#"); len(got) != 0 {
		t.Fatalf("# is not configured yet: %v", got)
	}

	if err := svc.UpdateTypes(ctx, domain.MentionTypes{"#": {}}); err != nil {
		t.Fatalf("UpdateTypes failed: %v", err)
	}
	if got := svc.AllLinks("#"); len(got) != 1 {
		t.Errorf("expected # link after rebuild, got %v", got)
	}
	if got := svc.AllLinks("@"); len(got) != 0 {
		t.Errorf("expected @ links dropped, got %v", got)
	}

	var valErr *ValidationError
	if err := svc.UpdateTypes(ctx, domain.MentionTypes{"ab": {}}); !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

type chanFeed chan domain.DocumentEvent

func (c chanFeed) Events() <-chan domain.DocumentEvent { return c }

func TestService_Run(t *testing.T) {
	svc, store := newTestService(t, map[string]string{})

	feed := make(chanFeed, 2)
	store.files["@John.md"] = ""
	feed <- domain.DocumentEvent{Kind: domain.EventCreated, Path: "@John.md"}
	feed <- domain.DocumentEvent{Kind: domain.EventModified, Path: "@Missing.md"}
	close(feed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.Run(ctx, feed); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := linkNames(svc.AllLinks("@")); !slices.Equal(got, []string{"John"}) {
		t.Errorf("unexpected links %v", got)
	}
}

func TestService_RunStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Run(ctx, make(chanFeed)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestService_HandleEventUnknownKind(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{})
	if err := svc.HandleEvent(context.Background(), domain.DocumentEvent{Kind: domain.EventKind(42)}); err == nil {
		t.Error("expected error for unknown event kind")
	}
}
