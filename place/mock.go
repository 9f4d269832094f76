package place

import (
	"fmt"
	"math/rand"
	"time"
)

const mockIDPrefix = "mock-"

// The mock catalog is a fixed fallback dataset used when the live search
// service is unavailable or returns nothing, so the UI is never empty purely
// due to upstream unavailability. Ids carry the mock- prefix so downstream
// code (caching, favorites) can special-case them.
type mockVenue struct {
	name         string
	category     string
	latOffset    float64
	lonOffset    float64
	rating       float64
	isOpen       bool
	cuisine      CuisineType
	openingHours string
	priceLevel   int
}

var mockCatalog = []mockVenue{
	{"Chai Point", "Cafe", 0.005, 0.003, 4.5, true, CuisineCafe, "7:00 AM - 11:00 PM", 1},
	{"Cafe Coffee Day", "Coffee Shop", -0.003, 0.007, 4.2, true, CuisineCafe, "8:00 AM - 10:00 PM", 2},
	{"Saravana Bhavan", "Restaurant", 0.008, -0.002, 4.7, false, CuisineSouthIndian, "7:00 AM - 10:30 PM", 2},
	{"Haldiram's", "Restaurant", -0.002, -0.004, 3.9, true, CuisineNorthIndian, "9:00 AM - 11:00 PM", 1},
	{"Social", "Bar", 0.004, -0.008, 4.4, false, CuisineContinental, "12:00 PM - 1:00 AM", 2},
	{"Burger King", "Fast Food", 0.002, 0.009, 3.8, true, CuisineFastFood, "10:00 AM - 11:00 PM", 1},
	{"Mainland China", "Restaurant", -0.007, 0.002, 4.8, true, CuisineChinese, "12:00 PM - 11:30 PM", 3},
	{"Starbucks India", "Coffee Shop", 0.006, -0.005, 4.3, true, CuisineCafe, "7:00 AM - 10:00 PM", 3},
	{"Barbeque Nation", "Restaurant", -0.004, 0.008, 4.5, true, CuisineMughlai, "12:00 PM - 11:00 PM", 3},
	{"Punjab Grill", "Restaurant", 0.010, 0.004, 4.6, true, CuisineNorthIndian, "12:00 PM - 12:00 AM", 3},
	{"Wok Express", "Fast Food", -0.005, -0.006, 4.0, true, CuisineChinese, "11:00 AM - 10:00 PM", 1},
	{"Dosa Plaza", "Restaurant", 0.007, 0.006, 4.3, true, CuisineSouthIndian, "8:00 AM - 10:00 PM", 2},
	{"Chaat Corner", "Street Food", -0.008, 0.004, 4.1, true, CuisineStreetFood, "10:00 AM - 9:00 PM", 1},
	{"The Irish House", "Bar", 0.003, 0.005, 4.2, true, CuisineContinental, "12:00 PM - 1:30 AM", 2},
	{"Toit Brewpub", "Bar", -0.006, -0.003, 4.6, true, CuisineContinental, "12:00 PM - 12:30 AM", 2},
}

// MockPlaces generates the fallback catalog around the user's coordinates.
// Only the street number of the address comes from rng; everything else is
// fixed so the result is deterministic for tests and caching.
func MockPlaces(userLat, userLon float64, rng *rand.Rand, distance func(lat1, lon1, lat2, lon2 float64) float64) []Summary {
	places := make([]Summary, 0, len(mockCatalog))
	for i, v := range mockCatalog {
		lat := userLat + v.latOffset
		lon := userLon + v.lonOffset
		places = append(places, Summary{
			ID:           fmt.Sprintf("%s%d", mockIDPrefix, i),
			Name:         v.name,
			Category:     v.category,
			Lat:          lat,
			Lon:          lon,
			Distance:     distance(userLat, userLon, lat, lon),
			Rating:       v.rating,
			PriceLevel:   v.priceLevel,
			CuisineType:  v.cuisine,
			IsOpen:       v.isOpen,
			OpeningHours: v.openingHours,
			Address:      fmt.Sprintf("%d Main Road", rng.Intn(999)+1),
		})
	}
	return places
}

// mockDetail is the fixed canned detail synthesized for mock catalog entries.
// Mock ids never hit the remote detail service.
func mockDetail(now time.Time, rng *rand.Rand) Detail {
	hours := make([]DayHours, len(daysOfWeek))
	for i, day := range daysOfWeek {
		open, close := "9:00 AM", "10:00 PM"
		switch day {
		case "Friday":
			close = "11:00 PM"
		case "Saturday":
			open, close = "10:00 AM", "11:00 PM"
		case "Sunday":
			open, close = "10:00 AM", "9:00 PM"
		}
		hours[i] = DayHours{Day: day, Open: open, Close: close}
	}
	return Detail{
		Description: "A wonderful local spot loved by the community.",
		Photos:      []string{},
		Tips: []Tip{
			{Text: "Great atmosphere and friendly staff!", CreatedAt: now},
			{Text: "Love coming here on weekends.", CreatedAt: now},
		},
		WeeklyHours:  hours,
		PopularTimes: mockPopularTimes(rng),
	}
}

// mockPopularTimes generates a realistic busyness curve, busier during meals.
func mockPopularTimes(rng *rand.Rand) []HourlyPopularity {
	var hours []HourlyPopularity
	for h := 6; h <= 23; h++ {
		popularity := 10.0
		switch {
		case h >= 8 && h <= 10: // morning rush
			popularity = 30 + rng.Float64()*30
		case h >= 12 && h <= 14: // lunch rush
			popularity = 60 + rng.Float64()*35
		case h >= 18 && h <= 21: // evening rush
			popularity = 70 + rng.Float64()*30
		case h >= 22: // late night
			popularity = 20 + rng.Float64()*20
		}
		p := int(popularity + 0.5)
		if p > 100 {
			p = 100
		}
		hours = append(hours, HourlyPopularity{Hour: h, Popularity: p})
	}
	return hours
}
