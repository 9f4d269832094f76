// Package location persists the user's last known coarse position so the app
// can search immediately on startup while a fresh fix is acquired.
package location

import (
	"sync"
	"time"

	"moodplaces/data"
	"moodplaces/geo"
)

const (
	locationFile = "location.json"

	// maxAge bounds how long a saved position is trusted
	maxAge = 24 * time.Hour
)

// Position is a coarse lat/lon fix
type Position struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds the saved position
type Store struct {
	mu  sync.RWMutex
	pos *Position
	now func() time.Time
}

// NewStore loads the saved position from disk. A stale or invalid position is
// discarded on load.
func NewStore() *Store {
	s := &Store{now: time.Now}
	var pos Position
	if err := data.LoadJSON(locationFile, &pos); err == nil {
		if s.valid(pos) {
			s.pos = &pos
		} else {
			data.Delete(locationFile)
		}
	}
	return s
}

// Save records a new position
func (s *Store) Save(lat, lon float64) error {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lon) {
		return geo.ErrInvalidCoordinate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := Position{Lat: lat, Lon: lon, Timestamp: s.now()}
	s.pos = &pos
	return data.SaveJSON(locationFile, pos)
}

// Get returns the saved position, or false if none is saved or the saved one
// has aged out
func (s *Store) Get() (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pos == nil || !s.valid(*s.pos) {
		return Position{}, false
	}
	return *s.pos, true
}

// Clear forgets the saved position
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = nil
	data.Delete(locationFile)
}

func (s *Store) valid(pos Position) bool {
	if !geo.ValidLatitude(pos.Lat) || !geo.ValidLongitude(pos.Lon) {
		return false
	}
	return s.now().Sub(pos.Timestamp) < maxAge
}
