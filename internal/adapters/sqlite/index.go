package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3"

	"mentions/internal/domain"
	"mentions/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.MetadataIndex using SQLite. It sits in front of
// another MetadataSource and answers from the database while a document's
// mtime is unchanged.
type Index struct {
	db        *sql.DB
	source    ports.MetadataSource
	vaultPath string
	dbPath    string
}

// Ensure Index implements MetadataIndex
var _ ports.MetadataIndex = (*Index)(nil)

// NewIndex creates a new SQLite index reading misses from source
func NewIndex(source ports.MetadataSource) *Index {
	return &Index{source: source}
}

// Open initializes the index for the given vault path
func (idx *Index) Open(vaultPath string) error {
	// Expand ~ in path
	if len(vaultPath) > 0 && vaultPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		vaultPath = filepath.Join(home, vaultPath[1:])
	}

	idx.vaultPath = vaultPath
	idx.dbPath = databasePath(vaultPath)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS aliases (
			path TEXT NOT NULL,
			position INTEGER NOT NULL,
			alias TEXT NOT NULL,
			PRIMARY KEY (path, position)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if idx.NeedsFullRebuild() {
		if _, err := db.Exec(`DELETE FROM aliases; DELETE FROM documents;`); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the stored rows were written by another
// schema version or for another vault
func (idx *Index) NeedsFullRebuild() bool {
	var version, vaultHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'vault_path_hash'").Scan(&vaultHash)

	return version != schemaVersion || vaultHash != hashVaultPath(idx.vaultPath)
}

// Aliases returns the cached aliases of doc when its mtime is unchanged and
// reads them from the underlying source otherwise
func (idx *Index) Aliases(doc domain.Document) ([]string, error) {
	if aliases, fresh, err := idx.cached(doc); err == nil && fresh {
		return aliases, nil
	}

	aliases, err := idx.source.Aliases(doc)
	if err != nil {
		return nil, err
	}

	if doc.Mtime != 0 {
		if err := idx.store(doc, aliases); err != nil {
			return aliases, nil // stale cache heals on the next read
		}
	}

	return aliases, nil
}

func (idx *Index) cached(doc domain.Document) ([]string, bool, error) {
	var mtime int64
	err := idx.db.QueryRow(`SELECT mtime FROM documents WHERE path = ?`, doc.Path).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if doc.Mtime == 0 || mtime != doc.Mtime {
		return nil, false, nil
	}

	rows, err := idx.db.Query(`SELECT alias FROM aliases WHERE path = ? ORDER BY position`, doc.Path)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, false, err
		}
		aliases = append(aliases, alias)
	}

	return aliases, true, rows.Err()
}

func (idx *Index) store(doc domain.Document, aliases []string) error {
	tx, err := idx.beginTx()
	if err != nil {
		return err
	}
	if err := tx.UpsertDocument(doc, aliases); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// databasePath returns the path for the SQLite database
func databasePath(vaultPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "mentions", hashVaultPath(vaultPath)+".db")
}

// hashVaultPath returns a short hash of the vault path
func hashVaultPath(vaultPath string) string {
	return strconv.FormatUint(xxhash.Sum64String(vaultPath), 16)
}

// updateMeta updates the schema version and vault path hash
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('vault_path_hash', ?);
	`, schemaVersion, hashVaultPath(idx.vaultPath))
	return err
}
