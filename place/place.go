// Package place implements the place discovery core: search with graceful
// fallback, detail fetching with a stale-while-revalidate cache, and
// client-side filtering and sorting.
package place

import (
	"strings"
	"time"
)

// CuisineType is a closed cuisine classification
type CuisineType string

const (
	CuisineNorthIndian CuisineType = "north-indian"
	CuisineSouthIndian CuisineType = "south-indian"
	CuisineChinese     CuisineType = "chinese"
	CuisineFastFood    CuisineType = "fast-food"
	CuisineCafe        CuisineType = "cafe"
	CuisineContinental CuisineType = "continental"
	CuisineMughlai     CuisineType = "mughlai"
	CuisineStreetFood  CuisineType = "street-food"
	CuisineOther       CuisineType = "other"
)

// Summary represents a place in search results. Summaries are immutable once
// built from a search response; a new search produces an entirely new set.
type Summary struct {
	ID           string      `json:"id"` // provider-qualified: osm-*, mock-*
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Lat          float64     `json:"latitude"`
	Lon          float64     `json:"longitude"`
	Distance     float64     `json:"distance"` // metres from the query point, computed locally
	Rating       float64     `json:"rating,omitempty"`
	PriceLevel   int         `json:"price_level,omitempty"` // 1=budget, 2=mid, 3=premium
	CuisineType  CuisineType `json:"cuisine_type,omitempty"`
	IsOpen       bool        `json:"is_open"`
	OpeningHours string      `json:"opening_hours,omitempty"`
	Address      string      `json:"address,omitempty"`
}

// Mock reports whether the summary came from the deterministic mock catalog
func (s *Summary) Mock() bool {
	return strings.HasPrefix(s.ID, mockIDPrefix)
}

// Tip is a short visitor note attached to a place
type Tip struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// DayHours is one day of a weekly schedule. Closed days carry Open="Closed"
// and an empty Close.
type DayHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// HourlyPopularity is the expected busyness for one hour of the day
type HourlyPopularity struct {
	Hour       int `json:"hour"`       // 0-23
	Popularity int `json:"popularity"` // 0-100
}

// Detail is the rich view of a place, keyed by place id
type Detail struct {
	Description  string             `json:"description,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Website      string             `json:"website,omitempty"`
	Photos       []string           `json:"photos"`
	Tips         []Tip              `json:"tips"`
	WeeklyHours  []DayHours         `json:"weekly_hours,omitempty"` // exactly 7 entries when present
	PopularTimes []HourlyPopularity `json:"popular_times,omitempty"`
}

// daysOfWeek indexes weekly schedules, Monday first
var daysOfWeek = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FormatCategory prettifies a raw category like "fast_food" into "Fast Food"
func FormatCategory(category string) string {
	if category == "" {
		return "Place"
	}
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
