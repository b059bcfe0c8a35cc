package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"mentions/internal/domain"
)

// Opener implements ports.ObsidianOpener
type Opener struct {
	vaultPath string
	vaultName string
	launch    func(uri string) error
}

// Option configures an Opener
type Option func(*Opener)

// WithVaultName sets the name the vault is registered under in Obsidian
// when it differs from the folder name
func WithVaultName(name string) Option {
	return func(o *Opener) {
		if name = strings.TrimSpace(name); name != "" {
			o.vaultName = name
		}
	}
}

// NewOpener creates a new Obsidian opener for the given vault path
func NewOpener(vaultPath string, opts ...Option) *Opener {
	o := &Opener{
		vaultPath: vaultPath,
		vaultName: filepath.Base(vaultPath),
		launch:    launchURI,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OpenFile opens a document in Obsidian using the obsidian:// URI scheme
func (o *Opener) OpenFile(filePath string) error {
	uri, err := o.BuildURI(filePath)
	if err != nil {
		return err
	}
	return o.launch(uri)
}

// BuildURI returns the obsidian://open URI of a document. filePath may be
// vault-relative or absolute; the markdown extension is dropped the way
// Obsidian writes its own links.
func (o *Opener) BuildURI(filePath string) (string, error) {
	rel := filePath
	if filepath.IsAbs(filePath) {
		r, err := filepath.Rel(o.vaultPath, filePath)
		if err != nil {
			return "", fmt.Errorf("failed to get relative path: %w", err)
		}
		rel = r
	}

	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("file is outside the vault: %s", filePath)
	}
	rel = strings.TrimSuffix(rel, domain.DocumentExtension)

	return "obsidian://open?vault=" + encodeComponent(o.vaultName) + "&file=" + encodeComponent(rel), nil
}

// encodeComponent escapes s like JavaScript's encodeURIComponent, which is
// what Obsidian decodes its URI parameters with
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func launchURI(uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
