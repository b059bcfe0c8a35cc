package sqlite

import (
	"database/sql"

	"mentions/internal/domain"
)

// indexTx groups cache writes so a document and its aliases change together
type indexTx struct {
	tx *sql.Tx
}

func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

// UpsertDocument records doc's mtime and replaces its aliases
func (t *indexTx) UpsertDocument(doc domain.Document, aliases []string) error {
	_, err := t.tx.Exec(`
		INSERT INTO documents (path, mtime) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET mtime = excluded.mtime
	`, doc.Path, doc.Mtime)
	if err != nil {
		return err
	}

	if _, err := t.tx.Exec(`DELETE FROM aliases WHERE path = ?`, doc.Path); err != nil {
		return err
	}

	for i, alias := range aliases {
		_, err := t.tx.Exec(`
			INSERT INTO aliases (path, position, alias) VALUES (?, ?, ?)
		`, doc.Path, i, alias)
		if err != nil {
			return err
		}
	}

	return nil
}

// DeleteDocument removes a document and its aliases
func (t *indexTx) DeleteDocument(path string) error {
	if _, err := t.tx.Exec(`DELETE FROM aliases WHERE path = ?`, path); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM documents WHERE path = ?`, path)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
