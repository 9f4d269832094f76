package place

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/asim/quadtree"

	"moodplaces/app"
	"moodplaces/data"
	"moodplaces/geo"
)

// indexSchemaVersion is the local place index schema version. Bumping it
// wipes all indexed place data on the next open, discarding rows from
// incompatible previous schemas.
const indexSchemaVersion = "v1"

// geohash base32 alphabet
const ghChars = "0123456789bcdefghjkmnpqrstuvwxyz"

// encodeGeohash encodes lat/lon into a geohash string of the given precision.
func encodeGeohash(lat, lon float64, precision int) string {
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	result := make([]byte, precision)
	bits := 0
	hashVal := 0
	isEven := true

	for i := 0; i < precision; {
		if isEven {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				hashVal = (hashVal << 1) | 1
				minLon = mid
			} else {
				hashVal <<= 1
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				hashVal = (hashVal << 1) | 1
				minLat = mid
			} else {
				hashVal <<= 1
				maxLat = mid
			}
		}
		isEven = !isEven
		bits++
		if bits == 5 {
			result[i] = ghChars[hashVal]
			i++
			bits = 0
			hashVal = 0
		}
	}
	return string(result)
}

// Index is a local place index: a quadtree for radius queries over places
// seen this session, backed by a SQLite FTS table that survives restarts.
// It serves as the middle fallback tier between the remote search service
// and the mock catalog.
type Index struct {
	db   *sql.DB
	dbMu sync.Mutex

	mu    sync.RWMutex
	qtree *quadtree.QuadTree
}

// OpenIndex opens (or creates) the place index. A schema version mismatch
// wipes existing data.
func OpenIndex() (*Index, error) {
	db, err := data.OpenDB("places.db")
	if err != nil {
		return nil, err
	}

	var storedVer string
	_ = db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&storedVer)
	if storedVer != indexSchemaVersion {
		if storedVer != "" {
			app.Log("place", "index version mismatch (have %q, want %q), wiping data", storedVer, indexSchemaVersion)
		}
		for _, stmt := range []string{
			`DROP TABLE IF EXISTS places_fts`,
			`DROP TABLE IF EXISTS places`,
			`DROP TABLE IF EXISTS schema_version`,
		} {
			if _, err := db.Exec(stmt); err != nil {
				db.Close()
				return nil, fmt.Errorf("index wipe: %w", err)
			}
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS places (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			category      TEXT,
			address       TEXT,
			lat           REAL NOT NULL,
			lon           REAL NOT NULL,
			geohash       TEXT,
			rating        REAL,
			price_level   INTEGER,
			cuisine       TEXT,
			opening_hours TEXT,
			indexed_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_places_lat     ON places(lat);
		CREATE INDEX IF NOT EXISTS idx_places_lon     ON places(lon);
		CREATE INDEX IF NOT EXISTS idx_places_geohash ON places(geohash);

		CREATE VIRTUAL TABLE IF NOT EXISTS places_fts USING fts5(
			id       UNINDEXED,
			name,
			category,
			address,
			cuisine,
			tokenize='unicode61 remove_diacritics 1'
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("index schema: %w", err)
	}

	if storedVer != indexSchemaVersion {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, indexSchemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("index version insert: %w", err)
		}
	}

	// Global quadtree: covers the whole world (lat ±90, lon ±180)
	center := quadtree.NewPoint(0, 0, nil)
	half := quadtree.NewPoint(90, 180, nil)
	boundary := quadtree.NewAABB(center, half)

	ix := &Index{
		db:    db,
		qtree: quadtree.New(boundary, 0, nil),
	}
	ix.loadFromDB()
	return ix, nil
}

// loadFromDB seeds the quadtree with previously indexed places
func (ix *Index) loadFromDB() {
	rows, err := ix.db.Query(`SELECT id, name, category, address, lat, lon, rating, price_level, cuisine, opening_hours FROM places`)
	if err != nil {
		return
	}
	defer rows.Close()

	count := 0
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for rows.Next() {
		p := &Summary{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Address, &p.Lat, &p.Lon,
			&p.Rating, &p.PriceLevel, &p.CuisineType, &p.OpeningHours); err != nil {
			continue
		}
		ix.qtree.Insert(quadtree.NewPoint(p.Lat, p.Lon, p))
		count++
	}
	if count > 0 {
		app.Log("place", "Loaded %d places into local index", count)
	}
}

// Close releases the underlying database
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Add batch-upserts places into the quadtree, the SQLite table, and the FTS
// index. Mock catalog entries are skipped; their coordinates are synthetic.
func (ix *Index) Add(places []Summary) {
	var real []Summary
	for _, p := range places {
		if p.Mock() {
			continue
		}
		real = append(real, p)
	}
	if len(real) == 0 {
		return
	}

	ix.mu.Lock()
	for i := range real {
		p := real[i]
		ix.qtree.Insert(quadtree.NewPoint(p.Lat, p.Lon, &p))
	}
	ix.mu.Unlock()

	ix.dbMu.Lock()
	defer ix.dbMu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		app.Log("place", "index add: begin tx: %v", err)
		return
	}

	mainStmt, err := tx.Prepare(`
		INSERT INTO places (id, name, category, address, lat, lon, geohash, rating, price_level, cuisine, opening_hours, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, category=excluded.category, address=excluded.address,
			lat=excluded.lat, lon=excluded.lon, geohash=excluded.geohash,
			rating=excluded.rating, price_level=excluded.price_level,
			cuisine=excluded.cuisine, opening_hours=excluded.opening_hours,
			indexed_at=excluded.indexed_at
	`)
	if err != nil {
		tx.Rollback()
		app.Log("place", "index add: prepare: %v", err)
		return
	}
	defer mainStmt.Close()

	ftsDelStmt, err := tx.Prepare(`DELETE FROM places_fts WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		app.Log("place", "index add: prepare fts del: %v", err)
		return
	}
	defer ftsDelStmt.Close()

	ftsInsStmt, err := tx.Prepare(`INSERT INTO places_fts (id, name, category, address, cuisine) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		app.Log("place", "index add: prepare fts ins: %v", err)
		return
	}
	defer ftsInsStmt.Close()

	now := time.Now()
	for _, p := range real {
		gh := encodeGeohash(p.Lat, p.Lon, 6)
		if _, err := mainStmt.Exec(p.ID, p.Name, p.Category, p.Address, p.Lat, p.Lon, gh,
			p.Rating, p.PriceLevel, string(p.CuisineType), p.OpeningHours, now); err != nil {
			app.Log("place", "index add %s: %v", p.ID, err)
			continue
		}
		ftsDelStmt.Exec(p.ID)
		if _, err := ftsInsStmt.Exec(p.ID, p.Name, p.Category, p.Address, string(p.CuisineType)); err != nil {
			app.Log("place", "index fts add %s: %v", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		app.Log("place", "index add: commit: %v", err)
	}
}

// Query returns indexed places within radiusM metres of a point, sorted by
// distance, recomputing distance from the query point.
func (ix *Index) Query(lat, lon float64, radiusM int) []Summary {
	ix.mu.RLock()
	center := quadtree.NewPoint(lat, lon, nil)
	half := center.HalfPoint(float64(radiusM))
	boundary := quadtree.NewAABB(center, half)
	points := ix.qtree.Search(boundary)
	ix.mu.RUnlock()

	results := make([]Summary, 0, len(points))
	for _, pt := range points {
		p, ok := pt.Data().(*Summary)
		if !ok {
			continue
		}
		dist := geo.Distance(lat, lon, p.Lat, p.Lon)
		if dist > float64(radiusM) {
			continue
		}
		s := *p
		s.Distance = dist
		results = append(results, s)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}

// sanitizeFTSQuery converts a raw query into a safe FTS5 MATCH expression.
// Each word is treated as a quoted literal prefix match.
func sanitizeFTSQuery(q string) string {
	q = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '(', ')', '*', '+', '^', '-', '~', ':', '.':
			return ' '
		}
		return r
	}, q)
	words := strings.Fields(q)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = `"` + strings.ToLower(w) + `"*`
	}
	return strings.Join(words, " ")
}

// SearchText searches the SQLite index with FTS5 and an optional bounding-box
// geo filter. Results are sorted by distance when hasRef is true.
func (ix *Index) SearchText(query string, refLat, refLon float64, radiusM int, hasRef bool) ([]Summary, error) {
	const limit = 500
	var rows *sql.Rows
	var err error

	ftsQ := sanitizeFTSQuery(query)
	if ftsQ == "" {
		return nil, nil
	}

	if hasRef {
		latDelta := float64(radiusM) / 111000.0
		lonDelta := float64(radiusM) / (111000.0 * math.Cos(refLat*math.Pi/180))
		rows, err = ix.db.Query(`
			SELECT p.id, p.name, p.category, p.address, p.lat, p.lon,
			       p.rating, p.price_level, p.cuisine, p.opening_hours
			FROM places p
			WHERE p.lat BETWEEN ? AND ?
			  AND p.lon BETWEEN ? AND ?
			  AND p.id IN (SELECT id FROM places_fts WHERE places_fts MATCH ?)
			LIMIT ?`,
			refLat-latDelta, refLat+latDelta,
			refLon-lonDelta, refLon+lonDelta,
			ftsQ, limit)
	} else {
		rows, err = ix.db.Query(`
			SELECT p.id, p.name, p.category, p.address, p.lat, p.lon,
			       p.rating, p.price_level, p.cuisine, p.opening_hours
			FROM places p
			WHERE p.id IN (SELECT id FROM places_fts WHERE places_fts MATCH ?)
			LIMIT ?`,
			ftsQ, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("index FTS query: %w", err)
	}
	defer rows.Close()

	var result []Summary
	for rows.Next() {
		p := Summary{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Address, &p.Lat, &p.Lon,
			&p.Rating, &p.PriceLevel, &p.CuisineType, &p.OpeningHours); err != nil {
			continue
		}
		if hasRef {
			dist := geo.Distance(refLat, refLon, p.Lat, p.Lon)
			if dist > float64(radiusM) {
				continue // outside actual radius (bounding box is an approximation)
			}
			p.Distance = dist
		}
		result = append(result, p)
	}

	if hasRef {
		sort.Slice(result, func(i, j int) bool {
			return result[i].Distance < result[j].Distance
		})
	}
	return result, nil
}
