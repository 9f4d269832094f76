// Package explain generates short "why this place?" rationale text, with a
// local TTL cache and graceful degradation to a synthesized one-liner.
package explain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"moodplaces/app"
	"moodplaces/mood"
	"moodplaces/place"
)

// cacheTTL bounds how long explanations are reused; keyed by place+mood
var cacheTTL = 10 * time.Minute

// RateLimitError signals an HTTP 429 from the explanation service. Callers
// must not retry within the window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Service is the remote explanation generator
type Service interface {
	Explain(ctx context.Context, summary place.Summary, m mood.Mood) (string, error)
}

type cachedExplanation struct {
	text      string
	timestamp time.Time
}

// Result carries the explanation text and how it was produced
type Result struct {
	Text string `json:"explanation"`
	// Fallback is true when the text was synthesized locally
	Fallback bool `json:"fallback,omitempty"`
	// RateLimited is true when the service returned 429; callers should show
	// a "please wait" state instead of a retry affordance
	RateLimited bool `json:"rate_limited,omitempty"`
}

// Client wraps the explanation service with caching and fallback. It always
// resolves with usable text; failures are absorbed.
type Client struct {
	mu         sync.Mutex
	cache      map[string]cachedExplanation
	service    Service
	retryAfter time.Time
	now        func() time.Time
}

// NewClient creates an explanation client. service may be nil; every call
// then resolves with the synthesized fallback.
func NewClient(service Service) *Client {
	return &Client{
		cache:   make(map[string]cachedExplanation),
		service: service,
		now:     time.Now,
	}
}

// Explain returns rationale text for a place and mood. The local cache
// prevents redundant calls entirely; rate limiting suppresses remote calls
// for the rest of the window.
func (c *Client) Explain(ctx context.Context, summary place.Summary, m mood.Mood) Result {
	key := cacheKey(summary.ID, m)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok && c.now().Sub(cached.timestamp) < cacheTTL {
		c.mu.Unlock()
		return Result{Text: cached.text}
	}
	limited := c.now().Before(c.retryAfter)
	c.mu.Unlock()

	if limited || c.service == nil {
		return Result{Text: Fallback(summary, m), Fallback: true, RateLimited: limited}
	}

	text, err := c.service.Explain(ctx, summary, m)
	if err != nil {
		if rle, ok := err.(*RateLimitError); ok {
			retryAfter := rle.RetryAfter
			if retryAfter == 0 {
				retryAfter = time.Minute
			}
			c.mu.Lock()
			c.retryAfter = c.now().Add(retryAfter)
			c.mu.Unlock()
			return Result{Text: Fallback(summary, m), Fallback: true, RateLimited: true}
		}
		app.Log("explain", "Explanation failed for %s: %v", summary.ID, err)
		return Result{Text: Fallback(summary, m), Fallback: true}
	}

	c.mu.Lock()
	c.cache[key] = cachedExplanation{text: text, timestamp: c.now()}
	c.mu.Unlock()

	return Result{Text: text}
}

func cacheKey(placeID string, m mood.Mood) string {
	if m == "" {
		return placeID + "-none"
	}
	return placeID + "-" + string(m)
}

// Fallback synthesizes a one-line explanation from the summary fields
func Fallback(summary place.Summary, m mood.Mood) string {
	var parts []string

	if summary.Distance < 500 {
		parts = append(parts, "Just a short walk away")
	} else if summary.Distance < 1000 {
		parts = append(parts, "Close by")
	}

	if summary.Rating >= 4.5 {
		parts = append(parts, "with excellent ratings")
	} else if summary.Rating >= 4.0 {
		parts = append(parts, "highly rated")
	}

	switch {
	case m == mood.Work && strings.Contains(strings.ToLower(summary.Category), "cafe"):
		parts = append(parts, "— perfect for a productive session")
	case m == mood.Date:
		parts = append(parts, "— great ambiance for a memorable evening")
	case m == mood.Budget && summary.PriceLevel == 1:
		parts = append(parts, "— easy on your wallet")
	case m == mood.QuickBite:
		parts = append(parts, "— quick and satisfying")
	}

	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%s is worth a look", summary.Name))
	}

	return strings.Join(parts, " ") + "."
}
