package sqlite

import (
	"context"
	"fmt"
	"time"

	"mentions/internal/domain"
)

// Sync reconciles the cache with a document snapshot. Documents whose mtime
// changed are re-read from the source, vanished documents are dropped.
func (idx *Index) Sync(ctx context.Context, docs []domain.Document) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{FilesScanned: len(docs)}

	existing, err := idx.storedMtimes()
	if err != nil {
		return nil, err
	}

	tx, err := idx.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mtime, known := existing[doc.Path]
		delete(existing, doc.Path)
		if known && mtime == doc.Mtime {
			continue
		}

		aliases, err := idx.source.Aliases(doc)
		if err != nil {
			// Leave the row out so the next read goes to the source
			if known {
				if err := tx.DeleteDocument(doc.Path); err != nil {
					return nil, fmt.Errorf("failed to drop %s: %w", doc.Path, err)
				}
			}
			continue
		}

		if err := tx.UpsertDocument(doc, aliases); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", doc.Path, err)
		}

		if known {
			stats.DocumentsUpdated++
		} else {
			stats.DocumentsAdded++
		}
		stats.LinksAdded += len(aliases)
	}

	// Delete documents that no longer exist
	for path := range existing {
		if err := tx.DeleteDocument(path); err != nil {
			return nil, fmt.Errorf("failed to drop %s: %w", path, err)
		}
		stats.DocumentsDeleted++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	// Update last sync time
	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())

	stats.Duration = time.Since(start)
	return stats, nil
}

// storedMtimes loads the mtime of every cached document
func (idx *Index) storedMtimes() (map[string]int64, error) {
	rows, err := idx.db.Query(`SELECT path, mtime FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mtimes := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		mtimes[path] = mtime
	}

	return mtimes, rows.Err()
}
