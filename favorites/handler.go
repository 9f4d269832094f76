package favorites

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"
	"sync"
	"time"

	"moodplaces/app"
)

// undoWindow bounds how long a toggle can be taken back
const undoWindow = 5 * time.Second

type toggleRequest struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Handlers serves the /favorites routes
type Handlers struct {
	Set *Set

	mu       sync.Mutex
	lastUndo *Toggled
	undoAt   time.Time
}

// Handler routes /favorites requests
func (h *Handlers) Handler(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/toggle"):
		h.handleToggle(w, r)
	case strings.HasSuffix(r.URL.Path, "/undo"):
		h.handleUndo(w, r)
	case r.Method == http.MethodPost:
		h.handleToggle(w, r)
	case r.Method == http.MethodGet:
		h.handleList(w, r)
	default:
		app.MethodNotAllowed(w, r)
	}
}

func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	ids := h.Set.All()
	if app.WantsJSON(r) {
		app.RespondJSON(w, map[string]interface{}{"favorites": ids})
		return
	}

	var sb strings.Builder
	sb.WriteString("<h1>Favorites</h1>")
	if len(ids) == 0 {
		sb.WriteString("<p>No favorites yet. Tap the heart on a place to save it.</p>")
	} else {
		sb.WriteString("<ul>")
		for _, id := range ids {
			// ids are client supplied, never trust them in markup
			sb.WriteString("<li>" + html.EscapeString(id) + "</li>")
		}
		sb.WriteString("</ul>")
	}
	app.Respond(w, r, app.Response{
		Title:       "Favorites",
		Description: "Your saved places",
		HTML:        sb.String(),
	})
}

func (h *Handlers) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.MethodNotAllowed(w, r)
		return
	}

	var req toggleRequest
	if app.SendsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			app.BadRequest(w, r, "invalid request body")
			return
		}
	} else {
		r.ParseForm()
		req.ID = r.Form.Get("id")
		req.Name = r.Form.Get("name")
	}
	if req.ID == "" {
		app.BadRequest(w, r, "place id required")
		return
	}

	toggled := h.Set.Toggle(req.ID, req.Name)

	h.mu.Lock()
	h.lastUndo = toggled
	h.undoAt = time.Now()
	h.mu.Unlock()

	app.RespondJSON(w, map[string]interface{}{
		"favorited": toggled.Added,
	})
}

// handleUndo takes back the most recent toggle within the undo window
func (h *Handlers) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.MethodNotAllowed(w, r)
		return
	}

	h.mu.Lock()
	toggled := h.lastUndo
	expired := time.Since(h.undoAt) > undoWindow
	h.lastUndo = nil
	h.mu.Unlock()

	if toggled == nil || expired {
		app.RespondError(w, http.StatusGone, "Nothing to undo")
		return
	}

	toggled.Undo()
	app.RespondJSON(w, map[string]interface{}{
		"favorited": !toggled.Added,
	})
}
