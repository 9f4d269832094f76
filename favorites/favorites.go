// Package favorites provides a local-first favorite place set with
// best-effort remote sync and optimistic undo.
package favorites

import (
	"sort"
	"sync"

	"moodplaces/app"
	"moodplaces/data"
)

const favoritesFile = "favorites.json"

// Remote is the favorites store keyed by (user, place). It supports insert
// and delete only; there is no update.
type Remote interface {
	Insert(userID, placeID, placeName string) error
	Delete(userID, placeID string) error
	List(userID string) ([]string, error)
}

// Set is a local-first favorite set. Every mutation persists the local set
// synchronously; remote calls are fire-and-forget and local state remains
// authoritative for the session.
type Set struct {
	mu     sync.Mutex
	ids    map[string]bool
	remote Remote
	userID string
	synced bool
	syncCh chan syncOp
}

// syncOp is one queued remote mutation
type syncOp struct {
	userID    string
	placeID   string
	placeName string
	insert    bool
}

// NewSet creates a favorite set, loading persisted ids. remote may be nil
// for a purely local set.
func NewSet(remote Remote) *Set {
	s := &Set{
		ids:    make(map[string]bool),
		remote: remote,
		syncCh: make(chan syncOp, 64),
	}
	go s.syncLoop()
	var stored []string
	if err := data.LoadJSON(favoritesFile, &stored); err == nil {
		for _, id := range stored {
			s.ids[id] = true
		}
	}
	return s
}

// persistLocked writes the local set. Caller holds the lock.
func (s *Set) persistLocked() {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if err := data.SaveJSON(favoritesFile, ids); err != nil {
		app.Log("favorites", "Failed to persist favorites: %v", err)
	}
}

// Has reports whether a place is favorited
func (s *Set) Has(placeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[placeID]
}

// All returns the favorited place ids, sorted
func (s *Set) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of favorites
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Toggled records a toggle so it can be exactly reversed. Callers time-box
// the undo affordance themselves.
type Toggled struct {
	set       *Set
	placeID   string
	placeName string
	Added     bool
}

// Toggle flips membership for a place. The local flip and persist happen
// synchronously; when a user identity is present the matching remote
// insert/delete fires in the background and its failure is logged, never
// retried or surfaced.
func (s *Set) Toggle(placeID, placeName string) *Toggled {
	s.mu.Lock()
	added := !s.ids[placeID]
	if added {
		s.ids[placeID] = true
	} else {
		delete(s.ids, placeID)
	}
	s.persistLocked()
	userID := s.userID
	s.mu.Unlock()

	if userID != "" {
		s.syncCh <- syncOp{userID: userID, placeID: placeID, placeName: placeName, insert: added}
	}

	return &Toggled{set: s, placeID: placeID, placeName: placeName, Added: added}
}

// Undo exactly reverses the toggle, re-issuing the opposite remote call
func (t *Toggled) Undo() {
	s := t.set
	s.mu.Lock()
	if t.Added {
		delete(s.ids, t.placeID)
	} else {
		s.ids[t.placeID] = true
	}
	s.persistLocked()
	userID := s.userID
	s.mu.Unlock()

	if userID != "" {
		s.syncCh <- syncOp{userID: userID, placeID: t.placeID, placeName: t.placeName, insert: !t.Added}
	}
}

// syncLoop drains queued remote mutations one at a time, so an undo's call
// always lands after the toggle it reverses. Sync is best effort: failures
// are logged, never retried or surfaced.
func (s *Set) syncLoop() {
	for op := range s.syncCh {
		if s.remote == nil {
			continue
		}
		var err error
		if op.insert {
			err = s.remote.Insert(op.userID, op.placeID, op.placeName)
		} else {
			err = s.remote.Delete(op.userID, op.placeID)
		}
		if err != nil {
			app.Log("favorites", "Remote sync failed for %s: %v", op.placeID, err)
		}
	}
}

// Reconcile runs the one-time sign-in merge: local ids absent remotely are
// pushed (local wins on first merge), then the remote set is adopted as the
// local set of record. Subsequent calls for the same identity are no-ops.
func (s *Set) Reconcile(userID string) error {
	if s.remote == nil || userID == "" {
		return nil
	}

	s.mu.Lock()
	if s.synced && s.userID == userID {
		s.mu.Unlock()
		return nil
	}
	local := make([]string, 0, len(s.ids))
	for id := range s.ids {
		local = append(local, id)
	}
	s.mu.Unlock()

	remote, err := s.remote.List(userID)
	if err != nil {
		return err
	}

	remoteSet := make(map[string]bool, len(remote))
	for _, id := range remote {
		remoteSet[id] = true
	}

	for _, id := range local {
		if remoteSet[id] {
			continue
		}
		if err := s.remote.Insert(userID, id, ""); err != nil {
			app.Log("favorites", "Merge insert failed for %s: %v", id, err)
			continue
		}
		remoteSet[id] = true
	}

	s.mu.Lock()
	s.ids = remoteSet
	s.userID = userID
	s.synced = true
	s.persistLocked()
	s.mu.Unlock()

	app.Log("favorites", "Reconciled %d favorites for user %s", len(remoteSet), userID)
	return nil
}
