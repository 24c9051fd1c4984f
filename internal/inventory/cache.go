package inventory

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache persists extracted PDF signatures in SQLite so repeat scans skip
// re-reading unchanged files. Entries are keyed by path and invalidated
// when size or modification time change.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates a signature cache at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createCacheSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// createCacheSchema creates the cache schema if it doesn't exist.
func createCacheSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS signatures (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mod_time INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			title TEXT,
			doi TEXT,
			signature TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached signature for a file, or nil if the cache has no
// fresh entry (missing, or size/mtime changed since it was stored).
func (c *Cache) Get(path string, size, modTime int64) (*Signature, error) {
	row := c.db.QueryRow(`
		SELECT pages, title, doi, signature FROM signatures
		WHERE path = ? AND size = ? AND mod_time = ?`,
		path, size, modTime)

	var sig Signature
	err := row.Scan(&sig.Pages, &sig.Title, &sig.DOI, &sig.Text)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	return &sig, nil
}

// Put stores or replaces the signature for a file.
func (c *Cache) Put(path string, size, modTime int64, sig *Signature) error {
	_, err := c.db.Exec(`
		INSERT INTO signatures (path, size, mod_time, pages, title, doi, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			pages = excluded.pages,
			title = excluded.title,
			doi = excluded.doi,
			signature = excluded.signature`,
		path, size, modTime, sig.Pages, sig.Title, sig.DOI, sig.Text)
	if err != nil {
		return fmt.Errorf("storing signature: %w", err)
	}
	return nil
}
