package place

import (
	"testing"
)

func TestEncodeGeohash(t *testing.T) {
	tests := []struct {
		lat, lon  float64
		precision int
		want      string
	}{
		// Mumbai approx geohash at precision 4
		{19.0760, 72.8777, 4, "te7u"},
		// Bangalore approx geohash at precision 4
		{12.9716, 77.5946, 4, "tdr1"},
	}
	for _, tt := range tests {
		got := encodeGeohash(tt.lat, tt.lon, tt.precision)
		if got != tt.want {
			t.Errorf("encodeGeohash(%.4f, %.4f, %d) = %q, want %q",
				tt.lat, tt.lon, tt.precision, got, tt.want)
		}
	}
}

func TestEncodeGeohashLength(t *testing.T) {
	for _, prec := range []int{1, 3, 6, 9} {
		gh := encodeGeohash(0, 0, prec)
		if len(gh) != prec {
			t.Errorf("expected geohash length %d, got %d (%s)", prec, len(gh), gh)
		}
	}
}

func TestSanitizeFTSQuery(t *testing.T) {
	tests := []struct {
		input string
		valid bool // whether result should be non-empty
	}{
		{"cafe", true},
		{"", false},
		{"   ", false},
		{`"dangerous"`, true},
		{"co*fee shop", true},
	}
	for _, tt := range tests {
		got := sanitizeFTSQuery(tt.input)
		if tt.valid && got == "" {
			t.Errorf("sanitizeFTSQuery(%q) returned empty, expected non-empty", tt.input)
		}
		if !tt.valid && got != "" {
			t.Errorf("sanitizeFTSQuery(%q) = %q, expected empty", tt.input, got)
		}
	}
}

func TestIndexAddAndQuery(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	ix, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer ix.Close()

	ix.Add([]Summary{
		{ID: "osm-1", Name: "Blue Tokai", Category: "Cafe", Address: "Hill Road", Lat: 19.0760, Lon: 72.8777, Rating: 4.5, PriceLevel: 2, CuisineType: CuisineCafe},
		{ID: "osm-2", Name: "Punjabi Tadka", Category: "Restaurant", Address: "Linking Road", Lat: 19.0780, Lon: 72.8790, Rating: 4.1, PriceLevel: 2, CuisineType: CuisineNorthIndian},
		{ID: "osm-far", Name: "Far Away Diner", Category: "Restaurant", Lat: 12.9716, Lon: 77.5946},
		// Mock entries have synthetic coordinates and must not be indexed
		{ID: "mock-0", Name: "Chai Point", Category: "Cafe", Lat: 19.0761, Lon: 72.8778},
	})

	results := ix.Query(19.0760, 72.8777, 5000)
	if len(results) != 2 {
		t.Fatalf("expected 2 nearby places, got %d", len(results))
	}
	if results[0].ID != "osm-1" {
		t.Errorf("expected nearest first, got %s", results[0].ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("results not sorted by distance at index %d", i)
		}
	}
	for _, r := range results {
		if r.Mock() {
			t.Errorf("mock entry %s should not be indexed", r.ID)
		}
	}
}

func TestIndexSurvivesReopen(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	ix, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	ix.Add([]Summary{
		{ID: "osm-1", Name: "Corner Cafe", Category: "Cafe", Lat: 19.0760, Lon: 72.8777},
	})
	ix.Close()

	reopened, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex reopen: %v", err)
	}
	defer reopened.Close()

	results := reopened.Query(19.0760, 72.8777, 1000)
	if len(results) != 1 || results[0].ID != "osm-1" {
		t.Errorf("expected indexed place to survive reopen, got %v", results)
	}
}

func TestIndexSearchText(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	ix, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer ix.Close()

	ix.Add([]Summary{
		{ID: "osm-1", Name: "Blue Tokai Coffee", Category: "Cafe", Address: "Hill Road", Lat: 19.0760, Lon: 72.8777},
		{ID: "osm-2", Name: "Toit Brewpub", Category: "Bar", Address: "Indiranagar", Lat: 12.9716, Lon: 77.5946},
	})

	// Text-only search
	results, err := ix.SearchText("coffee", 0, 0, 0, false)
	if err != nil {
		t.Fatalf("SearchText: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Blue Tokai Coffee" {
		t.Errorf("unexpected text search results: %v", results)
	}

	// Text + geo search excludes out-of-radius matches
	results, err = ix.SearchText("coffee", 12.9716, 77.5946, 2000, true)
	if err != nil {
		t.Fatalf("SearchText geo: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches near Bangalore, got %v", results)
	}
}

func TestIndexUpdatesExisting(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	ix, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer ix.Close()

	ix.Add([]Summary{{ID: "osm-1", Name: "Old Name", Category: "Cafe", Lat: 1, Lon: 1}})
	ix.Add([]Summary{{ID: "osm-1", Name: "New Name", Category: "Cafe", Lat: 1, Lon: 1}})

	results, err := ix.SearchText("new", 0, 0, 0, false)
	if err != nil {
		t.Fatalf("SearchText: %v", err)
	}
	if len(results) != 1 || results[0].Name != "New Name" {
		t.Errorf("expected updated place findable by new name, got %v", results)
	}
}

func TestIndexSchemaMismatchWipes(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	ix, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	ix.Add([]Summary{{ID: "osm-legacy", Name: "Legacy Place", Category: "Cafe", Lat: 1, Lon: 1}})

	// Simulate a schema from a previous release
	if _, err := ix.db.Exec(`UPDATE schema_version SET version = 'v0'`); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}
	ix.Close()

	reopened, err := OpenIndex()
	if err != nil {
		t.Fatalf("OpenIndex after downgrade: %v", err)
	}
	defer reopened.Close()

	var count int
	if err := reopened.db.QueryRow(`SELECT COUNT(*) FROM places`).Scan(&count); err != nil {
		t.Fatalf("count places: %v", err)
	}
	if count != 0 {
		t.Errorf("expected wiped index, found %d rows", count)
	}

	var ver string
	if err := reopened.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&ver); err != nil {
		t.Fatalf("read schema_version: %v", err)
	}
	if ver != indexSchemaVersion {
		t.Errorf("expected schema version %q, got %q", indexSchemaVersion, ver)
	}
}
