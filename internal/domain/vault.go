package domain

import (
	"path"
	"slices"
	"strings"
)

// Document is a markdown file in the vault, addressed by its vault-relative
// slash-separated path
type Document struct {
	Path    string
	Aliases []string
	Mtime   int64 // modification time in Unix nanoseconds
}

// BaseName returns the file name without folder or extension
func (d Document) BaseName() string {
	return strings.TrimSuffix(path.Base(d.Path), DocumentExtension)
}

// SortDocuments sorts documents by path in ascending order
func SortDocuments(docs []Document) {
	slices.SortFunc(docs, func(a, b Document) int {
		return strings.Compare(a.Path, b.Path)
	})
}

// NormalizePath cleans a vault-relative path into the slash form used as
// document identity
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// IsDocumentPath reports whether p names a markdown document outside hidden folders
func IsDocumentPath(p string) bool {
	if !strings.HasSuffix(p, DocumentExtension) {
		return false
	}
	for _, segment := range strings.Split(p, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return true
}
