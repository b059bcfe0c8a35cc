package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"mentions/internal/domain"
)

// fakeStore is an in-memory ports.DocumentStore
type fakeStore struct {
	files     map[string]string
	folders   []string
	createErr error
	renameErr error
}

func newFakeStore(files map[string]string) *fakeStore {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeStore{files: files}
}

func (s *fakeStore) VaultPath() string { return "/vault" }

func (s *fakeStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	for path := range s.files {
		docs = append(docs, domain.Document{Path: path})
	}
	domain.SortDocuments(docs)
	return docs, nil
}

func (s *fakeStore) Stat(path string) (domain.Document, error) {
	if !s.Exists(path) {
		return domain.Document{}, fs.ErrNotExist
	}
	return domain.Document{Path: path}, nil
}

func (s *fakeStore) Exists(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s *fakeStore) CreateFolder(path string) error {
	s.folders = append(s.folders, path)
	return nil
}

func (s *fakeStore) CreateFile(path string, content []byte) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.Exists(path) {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	s.files[path] = string(content)
	return nil
}

func (s *fakeStore) ReadFile(path string) ([]byte, error) {
	content, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return []byte(content), nil
}

func (s *fakeStore) Rename(oldPath, newPath string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	s.files[newPath] = s.files[oldPath]
	delete(s.files, oldPath)
	return nil
}

func (s *fakeStore) Remove(path string) error {
	delete(s.files, path)
	return nil
}

// fakeBuffer records ReplaceRange calls
type fakeBuffer struct {
	calls []bufferCall
	err   error
}

type bufferCall struct {
	text       string
	start, end domain.Position
}

func (b *fakeBuffer) ReplaceRange(text string, start, end domain.Position) error {
	if b.err != nil {
		return b.err
	}
	b.calls = append(b.calls, bufferCall{text, start, end})
	return nil
}

// fakeNotifier records change notifications
type fakeNotifier struct {
	events []string
	err    error
}

func (n *fakeNotifier) FileCreated(ctx context.Context, path string) error {
	n.events = append(n.events, "created "+path)
	return n.err
}

func (n *fakeNotifier) FileRenamed(ctx context.Context, path, oldPath string) error {
	n.events = append(n.events, "renamed "+oldPath+" -> "+path)
	return n.err
}

func (n *fakeNotifier) FileDeleted(ctx context.Context, path string) error {
	n.events = append(n.events, "deleted "+path)
	return n.err
}

var errDiskFull = errors.New("disk full")

func testTypes() domain.MentionTypes {
	return domain.MentionTypes{
		"@": {Label: "Person", Folder: "People", TemplatePath: "Templates/person"},
		"+": {},
	}
}

func testLookup() *domain.Lookup {
	m := domain.NewMentionMap(testTypes())
	m.AddFilename("People/@John Smith.md")
	m.AddAlias("@Johnny", "People/@John Smith.md")
	m.AddFilename("People/@Jane Doe.md")
	m.AddFilename("Projects/+Launch.md")
	return m.Lookup()
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
