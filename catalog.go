package sprgen

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a sqlite database recording every sprite package written. It
// implements the Recorder interface.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens, creating if necessary, the catalog in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL, path TEXT NOT NULL UNIQUE, script TEXT NOT NULL, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, frames INTEGER NOT NULL, total INTEGER NOT NULL, size INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores r, replacing any earlier entry for the same path.
func (c *Catalog) Record(r Result) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO sprite (name, path, script, sha1, width, height, frames, total, size) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", r.Name, r.Path, r.Script, r.SHA1, r.Width, r.Height, r.Frames, r.Total, r.Size); err != nil {
		return err
	}
	return nil
}

// Lookup returns the entry for the package at path, or nil if there is none.
func (c *Catalog) Lookup(path string) (*Result, error) {
	var r Result
	switch err := c.db.QueryRow("SELECT name, path, script, sha1, width, height, frames, total, size FROM sprite WHERE path = ?", path).Scan(&r.Name, &r.Path, &r.Script, &r.SHA1, &r.Width, &r.Height, &r.Frames, &r.Total, &r.Size); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &r, nil
	default:
		return nil, err
	}
}

// List returns every entry ordered by path.
func (c *Catalog) List() ([]Result, error) {
	rows, err := c.db.Query("SELECT name, path, script, sha1, width, height, frames, total, size FROM sprite ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Name, &r.Path, &r.Script, &r.SHA1, &r.Width, &r.Height, &r.Frames, &r.Total, &r.Size); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
