// Package recent tracks recently viewed places
package recent

import (
	"sync"

	"moodplaces/data"
	"moodplaces/place"
)

const (
	maxEntries = 5
	recentFile = "recent.json"
)

// History holds the last few places the user opened, most recent first
type History struct {
	mu      sync.RWMutex
	entries []place.Summary
}

// NewHistory loads the recently viewed list from disk
func NewHistory() *History {
	h := &History{}
	var entries []place.Summary
	if err := data.LoadJSON(recentFile, &entries); err == nil {
		if len(entries) > maxEntries {
			entries = entries[:maxEntries]
		}
		h.entries = entries
	}
	return h
}

// Add records a viewed place. Re-viewing moves it to the front rather than
// duplicating it; the list never exceeds five entries.
func (h *History) Add(s place.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]place.Summary, 0, maxEntries)
	entries = append(entries, s)
	for _, e := range h.entries {
		if e.ID == s.ID {
			continue
		}
		entries = append(entries, e)
		if len(entries) == maxEntries {
			break
		}
	}
	h.entries = entries
	h.persistLocked()
}

// List returns the recently viewed places, most recent first
func (h *History) List() []place.Summary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]place.Summary, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear empties the list
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	data.Delete(recentFile)
}

func (h *History) persistLocked() {
	data.SaveJSON(recentFile, h.entries)
}
