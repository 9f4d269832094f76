package place

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"moodplaces/app"
	"moodplaces/geo"
)

// Radius bounds in metres
const (
	MinRadius     = 100
	MaxRadius     = 50000
	DefaultRadius = 5000
)

// ValidationError rejects malformed input before any remote call, naming the
// invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SearchParams describes a place search. Query is a free-text term; it is
// matched remotely when the service supports it and against the local FTS
// index on fallback.
type SearchParams struct {
	Latitude   float64
	Longitude  float64
	Categories []string
	Radius     int
	Query      string
}

// Pipeline runs searches against the remote service with multi-tier fallback:
// remote search, then the local index, then the deterministic mock catalog.
// Remote failures are absorbed; the only error returned is validation.
type Pipeline struct {
	service SearchService
	index   *Index
	rng     *rand.Rand
}

// NewPipeline creates a search pipeline. index may be nil to disable the
// local tier; rng seeds synthesized fields and may be nil for real entropy.
func NewPipeline(service SearchService, index *Index, rng *rand.Rand) *Pipeline {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pipeline{service: service, index: index, rng: rng}
}

// Search returns nearby places for the given parameters. The result is never
// empty due to upstream unavailability: transport errors, error responses,
// and empty result sets all fall through to the local index and then the
// mock catalog.
func (p *Pipeline) Search(ctx context.Context, params SearchParams) ([]Summary, error) {
	if !geo.ValidLatitude(params.Latitude) {
		return nil, &ValidationError{Field: "latitude", Message: "must be a number between -90 and 90"}
	}
	if !geo.ValidLongitude(params.Longitude) {
		return nil, &ValidationError{Field: "longitude", Message: "must be a number between -180 and 180"}
	}
	for _, cat := range params.Categories {
		if len(cat) > 50 {
			return nil, &ValidationError{Field: "categories", Message: "must be strings of at most 50 chars"}
		}
	}

	radius := params.Radius
	if radius == 0 {
		radius = DefaultRadius
	}
	if radius < MinRadius {
		radius = MinRadius
	}
	if radius > MaxRadius {
		radius = MaxRadius
	}

	result, err := p.service.Search(ctx, params.Latitude, params.Longitude, params.Categories, radius)
	if err != nil {
		app.Log("place", "Search failed: %v", err)
		return p.fallback(params.Latitude, params.Longitude, radius, params.Query), nil
	}
	if result.Error != "" || len(result.Results) == 0 {
		app.Log("place", "No results from search service, using fallback")
		return p.fallback(params.Latitude, params.Longitude, radius, params.Query), nil
	}

	places := p.enrich(result.Results, params.Latitude, params.Longitude)

	if p.index != nil {
		go p.index.Add(places)
	}

	return places, nil
}

// fallback consults the local index before synthesizing the mock catalog.
// With a text query the FTS index is tried first, then the quadtree radius
// query.
func (p *Pipeline) fallback(lat, lon float64, radius int, query string) []Summary {
	if p.index != nil {
		if query != "" {
			local, err := p.index.SearchText(query, lat, lon, radius, true)
			if err != nil {
				app.Log("place", "Index text search failed: %v", err)
			} else if len(local) > 0 {
				app.Log("place", "Serving %d places from local text index", len(local))
				return local
			}
		}
		if local := p.index.Query(lat, lon, radius); len(local) > 0 {
			app.Log("place", "Serving %d places from local index", len(local))
			return local
		}
	}
	return MockPlaces(lat, lon, p.rng, geo.Distance)
}

// enrich converts raw search results into summaries: cuisine and price are
// inferred heuristically, distance is always computed locally and never
// trusted from upstream.
func (p *Pipeline) enrich(raw []RawPlace, userLat, userLon float64) []Summary {
	places := make([]Summary, 0, len(raw))
	for _, r := range raw {
		if r.Name == "" {
			continue
		}
		places = append(places, Summary{
			ID:          r.ID,
			Name:        r.Name,
			Category:    FormatCategory(r.Category),
			Lat:         r.Lat,
			Lon:         r.Lon,
			Distance:    geo.Distance(userLat, userLon, r.Lat, r.Lon),
			Rating:      3 + p.rng.Float64()*2, // upstream has no ratings
			PriceLevel:  GuessPrice(r.Category, r.Name),
			CuisineType: GuessCuisine(r.Category, r.Name),
			// upstream has no real-time open status
			IsOpen:       true,
			OpeningHours: r.OpeningHours,
			Address:      orDefault(r.Address, "Address not available"),
		})
	}
	return places
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
