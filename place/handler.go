package place

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"moodplaces/app"
	"moodplaces/geo"
	"moodplaces/mood"
)

// Handlers serves the /places routes
type Handlers struct {
	Pipeline     *Pipeline
	Orchestrator *Orchestrator

	// IsFavorite answers membership for the favorites-only filter
	IsFavorite func(id string) bool

	// OnView records a details view for the recently-viewed list
	OnView func(Summary)
}

type searchRequest struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Mood      mood.Mood `json:"mood,omitempty"`
	Radius    int       `json:"radius,omitempty"`

	Query         string      `json:"query,omitempty"`
	OpenOnly      bool        `json:"open_only,omitempty"`
	FavoritesOnly bool        `json:"favorites_only,omitempty"`
	Price         PriceFilter `json:"price,omitempty"`
	Cuisine       CuisineType `json:"cuisine,omitempty"`
	SortBy        SortOption  `json:"sort,omitempty"`
}

// Handler routes /places requests
func (h *Handlers) Handler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/places/search":
		h.handleSearch(w, r)
		return
	case "/places/details":
		h.handleDetails(w, r)
		return
	}

	if app.WantsJSON(r) {
		app.RespondJSON(w, map[string]interface{}{"moods": mood.Configs()})
		return
	}

	app.Respond(w, r, app.Response{
		Title:       "Places",
		Description: "Find places that match your mood",
		HTML:        renderMoodPicker(),
	})
}

// handleSearch handles POST /places/search
func (h *Handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.MethodNotAllowed(w, r)
		return
	}

	var req searchRequest
	if app.SendsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			app.BadRequest(w, r, "invalid request body")
			return
		}
	} else {
		r.ParseForm()
		var err error
		req, err = parseSearchForm(r)
		if err != nil {
			app.BadRequest(w, r, err.Error())
			return
		}
	}

	params := SearchParams{
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Categories: mood.Categories(req.Mood),
		Radius:     req.Radius,
		Query:      req.Query,
	}

	places, err := h.Pipeline.Search(r.Context(), params)
	if err != nil {
		// Only validation fails; upstream trouble degrades to fallback data
		app.BadRequest(w, r, err.Error())
		return
	}

	places = Filter(places, FilterOptions{
		Query:         req.Query,
		OpenOnly:      req.OpenOnly,
		FavoritesOnly: req.FavoritesOnly,
		IsFavorite:    h.IsFavorite,
		Price:         req.Price,
		Cuisine:       req.Cuisine,
		SortBy:        req.SortBy,
	})

	if app.WantsJSON(r) || app.SendsJSON(r) {
		app.RespondJSON(w, map[string]interface{}{
			"places": places,
			"count":  len(places),
		})
		return
	}

	app.Respond(w, r, app.Response{
		Title:       "Places",
		Description: "Nearby places",
		HTML:        renderResults(places),
	})
}

// handleDetails handles GET /places/details?id={id}
func (h *Handlers) handleDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, r)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		app.BadRequest(w, r, "place id required")
		return
	}

	summary := summaryFromQuery(r)
	summary.ID = id

	detail, stale := h.Orchestrator.FetchDetails(r.Context(), id, &summary, nil)

	if h.OnView != nil && summary.Name != "" {
		h.OnView(summary)
	}

	app.RespondJSON(w, map[string]interface{}{
		"details": detail,
		"stale":   stale,
	})
}

// summaryFromQuery rebuilds a partial summary from query params so fallback
// synthesis has something to work with when the cache misses
func summaryFromQuery(r *http.Request) Summary {
	q := r.URL.Query()
	var s Summary
	s.Name = q.Get("name")
	s.Category = q.Get("category")
	s.Lat, _ = strconv.ParseFloat(q.Get("latitude"), 64)
	s.Lon, _ = strconv.ParseFloat(q.Get("longitude"), 64)
	s.Distance, _ = strconv.ParseFloat(q.Get("distance"), 64)
	s.CuisineType = CuisineType(q.Get("cuisine_type"))
	return s
}

func parseSearchForm(r *http.Request) (searchRequest, error) {
	var req searchRequest
	lat, err := strconv.ParseFloat(r.Form.Get("latitude"), 64)
	if err != nil {
		return req, fmt.Errorf("invalid latitude value")
	}
	lon, err := strconv.ParseFloat(r.Form.Get("longitude"), 64)
	if err != nil {
		return req, fmt.Errorf("invalid longitude value")
	}
	req.Latitude = lat
	req.Longitude = lon
	req.Mood = mood.Mood(r.Form.Get("mood"))
	if radius := r.Form.Get("radius"); radius != "" {
		req.Radius, _ = strconv.Atoi(radius)
	}
	req.Query = strings.TrimSpace(r.Form.Get("query"))
	req.OpenOnly = r.Form.Get("open_only") == "true"
	req.FavoritesOnly = r.Form.Get("favorites_only") == "true"
	req.Price = PriceFilter(r.Form.Get("price"))
	req.Cuisine = CuisineType(r.Form.Get("cuisine"))
	req.SortBy = SortOption(r.Form.Get("sort"))
	return req, nil
}

func renderMoodPicker() string {
	var sb strings.Builder
	sb.WriteString(`<h1>What's the mood?</h1><div class="moods">`)
	for _, c := range mood.Configs() {
		sb.WriteString(fmt.Sprintf(`<a class="mood" href="#" data-mood="%s">%s %s<span>%s</span></a>`,
			c.ID, c.Emoji, c.Label, c.Description))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderResults(places []Summary) string {
	if len(places) == 0 {
		return `<p>No places found nearby. Try a bigger radius.</p>`
	}
	var sb strings.Builder
	sb.WriteString(`<div class="results">`)
	for _, p := range places {
		// names and categories come from upstream data, never trust them in markup
		sb.WriteString(fmt.Sprintf(`<div class="place"><h3>%s</h3><p>%s · %s`,
			html.EscapeString(p.Name), html.EscapeString(p.Category), geo.FormatDistance(p.Distance)))
		if p.Rating > 0 {
			sb.WriteString(fmt.Sprintf(" · ★ %.1f", p.Rating))
		}
		sb.WriteString(`</p></div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
