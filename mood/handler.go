package mood

import (
	"net/http"

	"moodplaces/app"
)

// Handler serves GET /moods
func Handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, r)
		return
	}
	app.RespondJSON(w, map[string]interface{}{"moods": Configs()})
}
