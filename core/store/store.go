// Package store persists resolved bibliographies in SQLite for lookup by
// citation key.
//
// Build modes:
//   - Default (CGO_ENABLED=0): Uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): Uses mattn/go-sqlite3
//
// Use Open() instead of sql.Open() to ensure the correct driver is used.
package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/FocuswithJustin/bibtex/core/bibtex"
)

const schema = `
CREATE TABLE IF NOT EXISTS bibliographies (
	citation_key TEXT PRIMARY KEY,
	entry_type   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	citation_key TEXT NOT NULL REFERENCES bibliographies(citation_key) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	value        TEXT NOT NULL,
	PRIMARY KEY (citation_key, name)
);
`

// DriverName returns the SQL driver name in use.
func DriverName() string { return driverName }

// DriverType returns "purego" or "cgo" depending on the build.
func DriverType() string { return driverType }

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool { return driverType == "cgo" }

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}

// Store is a SQLite-backed index of resolved bibliography records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens a store in read-only mode.
func OpenReadOnly(path string) (*Store, error) {
	db, err := sql.Open(driverName, path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Index stores every bibliography of doc, upserting by citation key. An
// entry indexed again replaces its previous type and tags wholesale.
func (s *Store) Index(doc *bibtex.Bibtex) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, bib := range doc.Bibliographies() {
		if _, err := tx.Exec(
			`INSERT INTO bibliographies (citation_key, entry_type) VALUES (?, ?)
			 ON CONFLICT(citation_key) DO UPDATE SET entry_type = excluded.entry_type`,
			bib.CitationKey(), bib.EntryType(),
		); err != nil {
			return fmt.Errorf("failed to index %s: %w", bib.CitationKey(), err)
		}
		if _, err := tx.Exec(`DELETE FROM tags WHERE citation_key = ?`, bib.CitationKey()); err != nil {
			return fmt.Errorf("failed to clear tags for %s: %w", bib.CitationKey(), err)
		}
		tags := bib.Tags()
		names := make([]string, 0, len(tags))
		for name := range tags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := tx.Exec(
				`INSERT INTO tags (citation_key, name, value) VALUES (?, ?, ?)`,
				bib.CitationKey(), name, tags[name],
			); err != nil {
				return fmt.Errorf("failed to index tag %s of %s: %w", name, bib.CitationKey(), err)
			}
		}
	}
	return tx.Commit()
}

// Record is an indexed bibliography as returned by lookups.
type Record struct {
	CitationKey string            `json:"citation_key"`
	EntryType   string            `json:"entry_type"`
	Tags        map[string]string `json:"tags"`
}

// Lookup returns the indexed record for a citation key, or (nil, nil) when
// the key is not indexed.
func (s *Store) Lookup(citationKey string) (*Record, error) {
	row := s.db.QueryRow(`SELECT entry_type FROM bibliographies WHERE citation_key = ?`, citationKey)
	rec := &Record{CitationKey: citationKey, Tags: map[string]string{}}
	if err := row.Scan(&rec.EntryType); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up %s: %w", citationKey, err)
	}

	rows, err := s.db.Query(`SELECT name, value FROM tags WHERE citation_key = ?`, citationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags for %s: %w", citationKey, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan tag for %s: %w", citationKey, err)
		}
		rec.Tags[name] = value
	}
	return rec, rows.Err()
}

// Keys returns all indexed citation keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT citation_key FROM bibliographies ORDER BY citation_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list citation keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan citation key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
