package location

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moodplaces/app"
)

// Handler serves /location
func (s *Store) Handler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pos, ok := s.Get()
		if !ok {
			app.RespondError(w, http.StatusNotFound, "No saved location")
			return
		}
		app.RespondJSON(w, pos)
	case http.MethodPost:
		var pos Position
		if app.SendsJSON(r) {
			if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
				app.BadRequest(w, r, "invalid request body")
				return
			}
		} else {
			r.ParseForm()
			var err error
			pos.Lat, err = strconv.ParseFloat(r.Form.Get("latitude"), 64)
			if err != nil {
				app.BadRequest(w, r, "Invalid latitude value.")
				return
			}
			pos.Lon, err = strconv.ParseFloat(r.Form.Get("longitude"), 64)
			if err != nil {
				app.BadRequest(w, r, "Invalid longitude value.")
				return
			}
		}
		if err := s.Save(pos.Lat, pos.Lon); err != nil {
			app.BadRequest(w, r, err.Error())
			return
		}
		app.RespondJSON(w, map[string]interface{}{"success": true})
	case http.MethodDelete:
		s.Clear()
		app.RespondJSON(w, map[string]interface{}{"success": true})
	default:
		app.MethodNotAllowed(w, r)
	}
}
