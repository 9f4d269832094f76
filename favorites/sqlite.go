package favorites

import (
	"database/sql"

	"moodplaces/data"
)

// SQLiteRemote is the bundled favorites store, keyed (user, place)
type SQLiteRemote struct {
	db *sql.DB
}

// OpenRemote opens (or creates) the favorites database
func OpenRemote() (*SQLiteRemote, error) {
	db, err := data.OpenDB("favorites.db")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			user_id    TEXT NOT NULL,
			place_id   TEXT NOT NULL,
			place_name TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, place_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRemote{db: db}, nil
}

// Close releases the underlying database
func (r *SQLiteRemote) Close() error {
	return r.db.Close()
}

// Insert adds a favorite for a user; re-inserting is a no-op
func (r *SQLiteRemote) Insert(userID, placeID, placeName string) error {
	_, err := r.db.Exec(`
		INSERT INTO favorites (user_id, place_id, place_name) VALUES (?, ?, ?)
		ON CONFLICT(user_id, place_id) DO NOTHING
	`, userID, placeID, placeName)
	return err
}

// Delete removes a favorite for a user
func (r *SQLiteRemote) Delete(userID, placeID string) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id = ? AND place_id = ?`, userID, placeID)
	return err
}

// List returns all favorited place ids for a user
func (r *SQLiteRemote) List(userID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT place_id FROM favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
