package recent

import (
	"fmt"
	"net/http"
	"strings"

	"moodplaces/app"
	"moodplaces/geo"
)

// Handler serves /recent
func (h *History) Handler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.Clear()
		app.RespondJSON(w, map[string]interface{}{"success": true})
		return
	default:
		app.MethodNotAllowed(w, r)
		return
	}

	entries := h.List()
	if app.WantsJSON(r) {
		app.RespondJSON(w, map[string]interface{}{"recent": entries})
		return
	}

	var sb strings.Builder
	sb.WriteString("<h1>Recently Viewed</h1>")
	if len(entries) == 0 {
		sb.WriteString("<p>Nothing viewed yet.</p>")
	} else {
		sb.WriteString("<ul>")
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("<li>%s · %s · %s</li>", e.Name, e.Category, geo.FormatDistance(e.Distance)))
		}
		sb.WriteString("</ul>")
	}
	app.Respond(w, r, app.Response{
		Title:       "Recent",
		Description: "Recently viewed places",
		HTML:        sb.String(),
	})
}
