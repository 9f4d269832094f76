package place

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// httpClient is the shared HTTP client with timeout
var httpClient = &http.Client{Timeout: 15 * time.Second}

// RawPlace is the loosely-typed search service result, normalized at this
// boundary before entering business logic.
type RawPlace struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Lat          float64 `json:"latitude"`
	Lon          float64 `json:"longitude"`
	Address      string  `json:"address,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Website      string  `json:"website,omitempty"`
	Cuisine      string  `json:"cuisine,omitempty"`
	OpeningHours string  `json:"opening_hours,omitempty"`
}

// SearchResult is the search service response envelope. An empty Results
// slice is a valid response that triggers fallback, distinct from a
// transport error.
type SearchResult struct {
	Results []RawPlace `json:"results"`
	Error   string     `json:"error,omitempty"`
}

// SearchService is the remote search collaborator
type SearchService interface {
	Search(ctx context.Context, latitude, longitude float64, categories []string, radius int) (*SearchResult, error)
}

// DetailService is the remote detail collaborator. The summary, when known,
// is forwarded as context so the service can enrich thin provider data.
type DetailService interface {
	Details(ctx context.Context, placeID string, summary *Summary) (*Detail, error)
}

// HTTPSearchService calls a search endpoint over HTTP
type HTTPSearchService struct {
	URL string
}

func (s *HTTPSearchService) Search(ctx context.Context, latitude, longitude float64, categories []string, radius int) (*SearchResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"latitude":   latitude,
		"longitude":  longitude,
		"categories": categories,
		"radius":     radius,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Wire types for the detail service. hours.regular uses day-indexed open and
// close pairs, 1=Monday..7=Sunday, with "0900"-style times.
type rawHourSlot struct {
	Day   int    `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type rawPopularDay struct {
	Day     int `json:"day"`
	Popular []struct {
		Open       string `json:"open"`
		Popularity int    `json:"popularity"`
	} `json:"popular"`
}

type rawDetails struct {
	Description  string          `json:"description,omitempty"`
	Tel          string          `json:"tel,omitempty"`
	Website      string          `json:"website,omitempty"`
	Hours        *struct {
		Regular []rawHourSlot `json:"regular"`
	} `json:"hours,omitempty"`
	HoursPopular []rawPopularDay `json:"hours_popular,omitempty"`
}

type rawPhoto struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

type rawTip struct {
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

type detailResult struct {
	Details rawDetails `json:"details"`
	Photos  []rawPhoto `json:"photos"`
	Tips    []rawTip   `json:"tips"`
	Error   string     `json:"error,omitempty"`
}

// HTTPDetailService calls a detail endpoint over HTTP
type HTTPDetailService struct {
	URL string
	rng *rand.Rand
	now func() time.Time
}

// NewHTTPDetailService creates a detail client. rng fills in popularity data
// the upstream omits; pass a seeded source in tests.
func NewHTTPDetailService(url string, rng *rand.Rand) *HTTPDetailService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &HTTPDetailService{URL: url, rng: rng, now: time.Now}
}

func (s *HTTPDetailService) Details(ctx context.Context, placeID string, summary *Summary) (*Detail, error) {
	payload := map[string]interface{}{"placeId": placeID}
	if summary != nil {
		payload["placeContext"] = summary
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("details request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("details returned status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result detailResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("details service error: %s", result.Error)
	}

	return s.normalize(&result, summary), nil
}

// normalize converts the wire response into a Detail, filling absent optional
// data with synthesized fallbacks. Partial data is not an error.
func (s *HTTPDetailService) normalize(result *detailResult, summary *Summary) *Detail {
	photos := make([]string, 0, len(result.Photos))
	for _, p := range result.Photos {
		if p.Prefix == "" {
			continue
		}
		photos = append(photos, p.Prefix+"original"+p.Suffix)
	}

	tips := make([]Tip, 0, len(result.Tips))
	for _, t := range result.Tips {
		tip := Tip{Text: t.Text}
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			tip.CreatedAt = ts
		}
		tips = append(tips, tip)
	}
	if len(tips) == 0 {
		tips = fallbackTips(summary, s.now())
	}

	popular := parsePopularTimes(result.Details.HoursPopular, s.now(), s.rng)
	if popular == nil {
		popular = mockPopularTimes(s.rng)
	}

	var weekly []DayHours
	if result.Details.Hours != nil {
		weekly = parseWeeklyHours(result.Details.Hours.Regular)
	}

	return &Detail{
		Description:  result.Details.Description,
		Phone:        result.Details.Tel,
		Website:      result.Details.Website,
		Photos:       photos,
		Tips:         tips,
		WeeklyHours:  weekly,
		PopularTimes: popular,
	}
}

// parseWeeklyHours expands day-indexed slots into a full week, marking days
// without a slot as closed. Always returns exactly 7 entries.
func parseWeeklyHours(slots []rawHourSlot) []DayHours {
	byDay := map[int]DayHours{}
	for _, slot := range slots {
		idx := slot.Day - 1 // wire uses 1=Monday
		if idx < 0 || idx >= 7 {
			continue
		}
		byDay[idx] = DayHours{
			Day:   daysOfWeek[idx],
			Open:  formatWireTime(slot.Open),
			Close: formatWireTime(slot.Close),
		}
	}

	week := make([]DayHours, 7)
	for i, day := range daysOfWeek {
		if h, ok := byDay[i]; ok {
			week[i] = h
		} else {
			week[i] = DayHours{Day: day, Open: "Closed"}
		}
	}
	return week
}

// formatWireTime converts "2200" into "10:00 PM"
func formatWireTime(t string) string {
	if len(t) != 4 {
		return t
	}
	hours, err := strconv.Atoi(t[:2])
	if err != nil {
		return t
	}
	minutes := t[2:]
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minutes, period)
}

// parsePopularTimes extracts today's busyness curve from the day-indexed wire
// data. Returns nil when today is not covered.
func parsePopularTimes(days []rawPopularDay, now time.Time, rng *rand.Rand) []HourlyPopularity {
	if len(days) == 0 {
		return nil
	}

	// Wire uses 1=Monday..7=Sunday
	today := int(now.Weekday())
	if today == 0 {
		today = 7
	}

	for _, d := range days {
		if d.Day != today || len(d.Popular) == 0 {
			continue
		}
		out := make([]HourlyPopularity, 0, len(d.Popular))
		for _, slot := range d.Popular {
			if len(slot.Open) < 2 {
				continue
			}
			hour, err := strconv.Atoi(slot.Open[:2])
			if err != nil || hour < 0 || hour > 23 {
				continue
			}
			popularity := slot.Popularity
			if popularity == 0 {
				popularity = rng.Intn(60) + 20
			}
			out = append(out, HourlyPopularity{Hour: hour, Popularity: popularity})
		}
		return out
	}
	return nil
}
