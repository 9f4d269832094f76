package data

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDB opens (or creates) a named SQLite database in the data directory.
// WAL mode with a busy timeout keeps concurrent readers from blocking writers.
func OpenDB(name string) (*sql.DB, error) {
	path := filepath.Join(Dir(), name)
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	// SQLite works best with limited connections
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return db, nil
}
