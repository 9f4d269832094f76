package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moodplaces/mood"
	"moodplaces/place"
)

type fakeService struct {
	calls int
	text  string
	err   error
}

func (f *fakeService) Explain(ctx context.Context, summary place.Summary, m mood.Mood) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testSummary() place.Summary {
	return place.Summary{
		ID:       "place-1",
		Name:     "Chai Point",
		Category: "Cafe",
		Distance: 300,
		Rating:   4.6,
	}
}

func TestExplainCachesByPlaceAndMood(t *testing.T) {
	svc := &fakeService{text: "A cosy spot."}
	c := NewClient(svc)

	res := c.Explain(context.Background(), testSummary(), mood.Work)
	if res.Text != "A cosy spot." || res.Fallback {
		t.Fatalf("unexpected result: %+v", res)
	}

	c.Explain(context.Background(), testSummary(), mood.Work)
	if svc.calls != 1 {
		t.Errorf("expected 1 service call after cache hit, got %d", svc.calls)
	}

	// Different mood is a different cache key
	c.Explain(context.Background(), testSummary(), mood.Date)
	if svc.calls != 2 {
		t.Errorf("expected 2 service calls for second mood, got %d", svc.calls)
	}
}

func TestExplainCacheExpires(t *testing.T) {
	svc := &fakeService{text: "Nice place."}
	c := NewClient(svc)

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Explain(context.Background(), testSummary(), mood.Chill)
	now = now.Add(cacheTTL + time.Second)
	c.Explain(context.Background(), testSummary(), mood.Chill)

	if svc.calls != 2 {
		t.Errorf("expected expired entry to trigger refetch, got %d calls", svc.calls)
	}
}

func TestExplainRateLimitSuppressesRetries(t *testing.T) {
	svc := &fakeService{err: &RateLimitError{RetryAfter: time.Minute}}
	c := NewClient(svc)

	now := time.Now()
	c.now = func() time.Time { return now }

	res := c.Explain(context.Background(), testSummary(), mood.Fun)
	if !res.RateLimited || !res.Fallback {
		t.Fatalf("expected rate limited fallback, got %+v", res)
	}

	// Within the window no further calls hit the service
	c.Explain(context.Background(), testSummary(), mood.Fun)
	c.Explain(context.Background(), testSummary(), mood.Budget)
	if svc.calls != 1 {
		t.Errorf("expected retries suppressed, got %d calls", svc.calls)
	}

	// After the window expires calls resume
	now = now.Add(2 * time.Minute)
	svc.err = nil
	svc.text = "Back again."
	res = c.Explain(context.Background(), testSummary(), mood.Fun)
	if res.Text != "Back again." {
		t.Errorf("expected service call after window, got %+v", res)
	}
}

func TestExplainServiceErrorFallsBack(t *testing.T) {
	svc := &fakeService{err: context.DeadlineExceeded}
	c := NewClient(svc)

	res := c.Explain(context.Background(), testSummary(), mood.Work)
	if !res.Fallback || res.RateLimited {
		t.Fatalf("expected plain fallback, got %+v", res)
	}
	if res.Text == "" {
		t.Error("fallback text should never be empty")
	}
}

func TestFallbackPhrases(t *testing.T) {
	tests := []struct {
		name    string
		summary place.Summary
		mood    mood.Mood
		want    string
	}{
		{
			name:    "near work cafe",
			summary: place.Summary{Name: "Blue Tokai", Category: "Cafe", Distance: 300, Rating: 4.6},
			mood:    mood.Work,
			want:    "Just a short walk away with excellent ratings — perfect for a productive session.",
		},
		{
			name:    "close by date",
			summary: place.Summary{Name: "Olive", Category: "Restaurant", Distance: 800, Rating: 4.2},
			mood:    mood.Date,
			want:    "Close by highly rated — great ambiance for a memorable evening.",
		},
		{
			name:    "budget cheap place",
			summary: place.Summary{Name: "Dosa Corner", Category: "Restaurant", Distance: 2000, Rating: 3.5, PriceLevel: 1},
			mood:    mood.Budget,
			want:    "— easy on your wallet.",
		},
		{
			name:    "quick bite",
			summary: place.Summary{Name: "Burger Hub", Category: "Fast Food", Distance: 1500, Rating: 3.0},
			mood:    mood.QuickBite,
			want:    "— quick and satisfying.",
		},
		{
			name:    "nothing matches",
			summary: place.Summary{Name: "Some Spot", Category: "Bar", Distance: 3000, Rating: 3.2},
			mood:    mood.Chill,
			want:    "Some Spot is worth a look.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.summary, tt.mood)
			if got != tt.want {
				t.Errorf("Fallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllowRequestFixedWindow(t *testing.T) {
	rateMu.Lock()
	rateWindows = make(map[string]*rateWindow)
	rateMu.Unlock()

	now := time.Now()
	for i := 0; i < rateLimit; i++ {
		if !allowRequest("client-a", now) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if allowRequest("client-a", now) {
		t.Error("request over the limit should be rejected")
	}
	// Other clients have their own window
	if !allowRequest("client-b", now) {
		t.Error("other identity should not be limited")
	}
	// Window reset
	if !allowRequest("client-a", now.Add(ratePeriod)) {
		t.Error("new window should allow requests again")
	}
}

func TestFallbackWorkMoodRequiresCafe(t *testing.T) {
	s := place.Summary{Name: "Some Bar", Category: "Bar", Distance: 300, Rating: 4.6}
	got := Fallback(s, mood.Work)
	if strings.Contains(got, "productive") {
		t.Errorf("work suffix should only apply to cafes, got %q", got)
	}
}

func TestHandlerReportsDegradedState(t *testing.T) {
	rateMu.Lock()
	rateWindows = make(map[string]*rateWindow)
	rateMu.Unlock()

	h := &Handlers{Client: NewClient(&fakeService{err: errors.New("provider down")})}

	type explainPayload struct {
		Explanation string `json:"explanation"`
		Fallback    bool   `json:"fallback"`
		RateLimited bool   `json:"rate_limited"`
	}

	post := func(placeID string) explainPayload {
		body := fmt.Sprintf(`{"place":{"id":%q,"name":"Chai Point","category":"Cafe","distance":300,"rating":4.6},"mood":"work"}`, placeID)
		req := httptest.NewRequest("POST", "/places/explain", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.Handler(w, req)

		var payload explainPayload
		if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return payload
	}

	got := post("place-1")
	if got.Explanation == "" {
		t.Error("degraded responses still carry text")
	}
	if !got.Fallback {
		t.Error("a service failure should be reported as fallback")
	}
	if got.RateLimited {
		t.Error("a plain failure is not a rate limit")
	}

	// Within the retry window the response flags the wait state
	h.Client.mu.Lock()
	h.Client.retryAfter = time.Now().Add(time.Minute)
	h.Client.mu.Unlock()

	got = post("place-2")
	if !got.RateLimited || !got.Fallback {
		t.Errorf("expected rate-limited fallback, got %+v", got)
	}
}
