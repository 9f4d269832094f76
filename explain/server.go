package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"moodplaces/app"
	"moodplaces/mood"
	"moodplaces/place"
)

var (
	// Limit concurrent LLM requests to prevent memory bloat
	llmSemaphore = semaphore.NewWeighted(5)
	llmTimeout   = 30 * time.Second

	// Fixed-window rate limit per client identity
	rateMu      sync.Mutex
	rateWindows = make(map[string]*rateWindow)
	rateLimit   = 20
	ratePeriod  = 60 * time.Second
)

type rateWindow struct {
	start time.Time
	count int
}

// allowRequest counts a request against the client's current window
func allowRequest(identity string, now time.Time) bool {
	rateMu.Lock()
	defer rateMu.Unlock()

	w, ok := rateWindows[identity]
	if !ok || now.Sub(w.start) >= ratePeriod {
		rateWindows[identity] = &rateWindow{start: now, count: 1}
		return true
	}
	if w.count >= rateLimit {
		return false
	}
	w.count++
	return true
}

type explainRequest struct {
	Place place.Summary `json:"place"`
	Mood  mood.Mood     `json:"mood,omitempty"`
}

type explainResponse struct {
	Explanation string `json:"explanation,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
	RateLimited bool   `json:"rate_limited,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HTTPService calls a remote explanation endpoint
type HTTPService struct {
	URL string
}

func (s *HTTPService) Explain(ctx context.Context, summary place.Summary, m mood.Mood) (string, error) {
	body, err := json.Marshal(explainRequest{Place: summary, Mood: m})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: llmTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("explanation request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{RetryAfter: time.Minute}
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("explanation service returned %d", resp.StatusCode)
	}

	var result explainResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("%s", result.Error)
	}
	if result.Explanation == "" {
		return "", fmt.Errorf("empty explanation")
	}
	return result.Explanation, nil
}

const systemPrompt = `You are a friendly, concise place recommendation assistant. Given a place and the user's current mood, write one or two short sentences explaining why this place suits them right now. Be specific about distance, rating and vibe. Never invent facts not present in the data.`

// Generate produces rationale text via the configured LLM provider, falling
// back to the local template when no provider is available
func Generate(summary place.Summary, m mood.Mood) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), llmTimeout+5*time.Second)
	defer cancel()

	if err := llmSemaphore.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("LLM request queue full, please try again later")
	}
	defer llmSemaphore.Release(1)

	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return Fallback(summary, m), nil
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-3-haiku-20240307"
	}

	question := fmt.Sprintf("Place: %s (%s), %.0fm away, rating %.1f, price level %d. Mood: %s.",
		summary.Name, summary.Category, summary.Distance, summary.Rating, summary.PriceLevel, m)

	text, err := generateAnthropic(key, model, question)
	if err != nil {
		app.Log("explain", "[LLM] Generation failed: %v", err)
		return Fallback(summary, m), nil
	}
	return text, nil
}

func generateAnthropic(apiKey, model, question string) (string, error) {
	app.Log("explain", "[LLM] Using Anthropic Claude with model %s", model)

	req := map[string]interface{}{
		"model":      model,
		"max_tokens": 256,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": question},
		},
	}

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest("POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{Timeout: llmTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Anthropic: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	json.Unmarshal(respBody, &result)

	if result.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", result.Error.Message)
	}
	for _, c := range result.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", fmt.Errorf("empty response")
}

// LocalService generates explanations in-process via the configured LLM
// provider. It backs the client when no remote endpoint is set.
type LocalService struct{}

func (LocalService) Explain(ctx context.Context, summary place.Summary, m mood.Mood) (string, error) {
	return Generate(summary, m)
}

// Handlers serves POST /places/explain
type Handlers struct {
	Client *Client
}

func (h *Handlers) Handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.MethodNotAllowed(w, r)
		return
	}

	identity := r.RemoteAddr
	if cookie, err := r.Cookie("session"); err == nil {
		identity = cookie.Value
	}

	if !allowRequest(identity, time.Now()) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(explainResponse{Error: "Rate limited. Please try again shortly."})
		return
	}

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.BadRequest(w, r, "invalid request body")
		return
	}
	if req.Place.ID == "" || req.Place.Name == "" {
		app.BadRequest(w, r, "place id and name required")
		return
	}

	res := h.Client.Explain(r.Context(), req.Place, req.Mood)
	app.RespondJSON(w, explainResponse{
		Explanation: res.Text,
		Fallback:    res.Fallback,
		RateLimited: res.RateLimited,
	})
}
