package place

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"moodplaces/app"
)

// Notifier receives background refresh results for asynchronous delivery to
// clients. Publishes with no subscribers are dropped.
type Notifier interface {
	PublishDetail(placeID string, detail Detail)
}

// Orchestrator coordinates the detail cache, the remote detail service, and
// fallback synthesis with stale-while-revalidate semantics.
type Orchestrator struct {
	cache   *Cache
	service DetailService
	notify  Notifier
	rng     *rand.Rand
	now     func() time.Time
}

// NewOrchestrator creates a detail fetch orchestrator. notify may be nil;
// rng seeds fallback synthesis and may be nil for real entropy.
func NewOrchestrator(cache *Cache, service DetailService, notify Notifier, rng *rand.Rand) *Orchestrator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{
		cache:   cache,
		service: service,
		notify:  notify,
		rng:     rng,
		now:     time.Now,
	}
}

// Cache returns the underlying detail cache
func (o *Orchestrator) Cache() *Cache {
	return o.cache
}

// FetchDetails returns the detail for a place id, never an error. Fresh cache
// hits return immediately. Stale hits return immediately with stale=true and
// trigger exactly one background refresh which, on success, updates the cache
// and invokes onUpdate; on failure the stale data stays authoritative and
// nothing is surfaced. Misses fetch in the foreground, falling back to a
// synthesized detail when the remote service fails. Mock catalog ids never
// hit the remote service.
func (o *Orchestrator) FetchDetails(ctx context.Context, placeID string, summary *Summary, onUpdate func(Detail)) (Detail, bool) {
	if detail, stale, ok := o.cache.Get(placeID); ok {
		if stale {
			go o.revalidate(placeID, summary, onUpdate)
		}
		return detail, stale
	}

	if strings.HasPrefix(placeID, mockIDPrefix) {
		detail := mockDetail(o.now(), o.rng)
		o.cache.Put(placeID, detail)
		return detail, false
	}

	detail, err := o.service.Details(ctx, placeID, summary)
	if err != nil {
		app.Log("place", "Details fetch failed for %s: %v", placeID, err)
		fallback := o.fallbackDetail(summary)
		o.cache.Put(placeID, fallback)
		return fallback, false
	}

	o.cache.Put(placeID, *detail)
	return *detail, false
}

// revalidate runs a single background refresh. A refresh that completes after
// the caller has gone away simply updates the cache for later use.
func (o *Orchestrator) revalidate(placeID string, summary *Summary, onUpdate func(Detail)) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	detail, err := o.service.Details(ctx, placeID, summary)
	if err != nil {
		// Stale data remains authoritative until a future success
		app.Log("place", "Background refresh failed for %s: %v", placeID, err)
		return
	}

	o.cache.Put(placeID, *detail)
	if onUpdate != nil {
		onUpdate(*detail)
	}
	if o.notify != nil {
		o.notify.PublishDetail(placeID, *detail)
	}
}

// fallbackDetail synthesizes a deterministic detail from whatever summary
// fields are available, so detail views degrade instead of erroring.
func (o *Orchestrator) fallbackDetail(summary *Summary) Detail {
	var description string
	if summary != nil {
		category := strings.ToLower(summary.Category)
		if category == "" {
			category = "place"
		}
		description = fmt.Sprintf("%s is a popular %s in the area.", summary.Name, category)
	}
	return Detail{
		Description:  description,
		Photos:       []string{},
		Tips:         fallbackTips(summary, o.now()),
		PopularTimes: mockPopularTimes(o.rng),
	}
}

func fallbackTips(summary *Summary, now time.Time) []Tip {
	var tips []Tip
	if summary != nil && summary.CuisineType != "" && summary.CuisineType != CuisineOther {
		food := strings.ReplaceAll(string(summary.CuisineType), "-", " ")
		tips = append(tips, Tip{
			Text:      fmt.Sprintf("Great for %s food lovers!", food),
			CreatedAt: now,
		})
	}
	tips = append(tips, Tip{
		Text:      "The ambiance here is really nice. Perfect for a relaxed visit.",
		CreatedAt: now,
	})
	return tips
}
