package ports

// ObsidianOpener defines the interface for opening documents in Obsidian
type ObsidianOpener interface {
	// OpenFile opens a document using the obsidian:// URI scheme.
	// path may be vault-relative or an absolute path inside the vault.
	OpenFile(path string) error
}
