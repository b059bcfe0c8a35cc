package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"

	"mentions/internal/domain"
)

const (
	dirPerms  = 0755
	filePerms = 0644
)

var errOutsideVault = errors.New("path is outside the vault")

// Repository implements ports.DocumentStore and ports.MetadataSource using
// the filesystem
type Repository struct {
	vaultPath string
	ignore    []string
}

// NewRepository creates a new filesystem repository. ignore holds doublestar
// patterns matched against vault-relative paths.
func NewRepository(vaultPath string, ignore ...string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(vaultPath, "~") {
		home, _ := os.UserHomeDir()
		vaultPath = filepath.Join(home, vaultPath[1:])
	}
	return &Repository{vaultPath: vaultPath, ignore: ignore}
}

// ValidateIgnorePatterns reports the first malformed pattern
func ValidateIgnorePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern: %q", pattern)
		}
	}
	return nil
}

// VaultPath returns the absolute vault root
func (r *Repository) VaultPath() string {
	return r.vaultPath
}

// Ignored reports whether a vault-relative path matches an ignore pattern
func (r *Repository) Ignored(relPath string) bool {
	for _, pattern := range r.ignore {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// Tracked reports whether a vault-relative path names a document the
// repository lists
func (r *Repository) Tracked(relPath string) bool {
	return domain.IsDocumentPath(relPath) && !r.Ignored(relPath)
}

// ListDocuments walks the vault and returns every markdown document outside
// hidden and ignored folders, sorted by path
func (r *Repository) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document

	err := filepath.WalkDir(r.vaultPath, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if fullPath == r.vaultPath {
				return err
			}
			return nil // Skip unreadable entries
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if fullPath == r.vaultPath {
			return nil
		}

		relPath, err := r.rel(fullPath)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || r.Ignored(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.Tracked(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		docs = append(docs, domain.Document{
			Path:  relPath,
			Mtime: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	domain.SortDocuments(docs)
	return docs, nil
}

// Stat returns the document at a vault-relative path
func (r *Repository) Stat(relPath string) (domain.Document, error) {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return domain.Document{}, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if info.IsDir() {
		return domain.Document{}, fmt.Errorf("%s is a folder", relPath)
	}

	return domain.Document{
		Path:  domain.NormalizePath(relPath),
		Mtime: info.ModTime().UnixNano(),
	}, nil
}

// Exists reports whether a file or folder exists at a vault-relative path
func (r *Repository) Exists(relPath string) bool {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// CreateFolder creates a folder and its parents
func (r *Repository) CreateFolder(relPath string) error {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fullPath, dirPerms); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// CreateFile writes a new document atomically. It fails if the file exists.
func (r *Repository) CreateFile(relPath string, content []byte) error {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("%w: %s", fs.ErrExist, relPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), dirPerms); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	if err := atomic.WriteFile(fullPath, strings.NewReader(string(content))); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(fullPath, filePerms); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	return nil
}

// ReadFile returns the content of a vault-relative file
func (r *Repository) ReadFile(relPath string) ([]byte, error) {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return content, nil
}

// Rename moves a document, creating the destination folder. It refuses to
// overwrite an existing file.
func (r *Repository) Rename(oldPath, newPath string) error {
	src, err := r.abs(oldPath)
	if err != nil {
		return err
	}
	dst, err := r.abs(newPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", fs.ErrExist, newPath)
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerms); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldPath, err)
	}
	return nil
}

// Remove deletes a document
func (r *Repository) Remove(relPath string) error {
	fullPath, err := r.abs(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", relPath, err)
	}
	return nil
}

// Aliases reads the frontmatter of doc and returns its declared aliases
func (r *Repository) Aliases(doc domain.Document) ([]string, error) {
	content, err := r.ReadFile(doc.Path)
	if err != nil {
		return nil, err
	}

	fm, err := domain.ParseFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}

	return fm.AllAliases(), nil
}

// AbsPath returns the absolute path of a vault-relative path
func (r *Repository) AbsPath(relPath string) (string, error) {
	return r.abs(relPath)
}

// RelPath converts an absolute path inside the vault to its vault-relative form
func (r *Repository) RelPath(fullPath string) (string, error) {
	return r.rel(fullPath)
}

func (r *Repository) abs(relPath string) (string, error) {
	slashed := filepath.ToSlash(relPath)
	for _, segment := range strings.Split(slashed, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", errOutsideVault, relPath)
		}
	}

	cleaned := domain.NormalizePath(slashed)
	if cleaned == "" {
		return "", fmt.Errorf("%w: %q", errOutsideVault, relPath)
	}
	return filepath.Join(r.vaultPath, filepath.FromSlash(cleaned)), nil
}

func (r *Repository) rel(fullPath string) (string, error) {
	relPath, err := filepath.Rel(r.vaultPath, fullPath)
	if err != nil {
		return "", err
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", fmt.Errorf("%w: %s", errOutsideVault, fullPath)
	}
	return relPath, nil
}
