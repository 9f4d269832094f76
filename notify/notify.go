// Package notify pushes background detail refreshes to connected clients
// over WebSocket. A client subscribes to the place it is viewing; when a
// stale entry is revalidated the fresh detail is pushed so the UI can swap
// it in without polling.
package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"moodplaces/app"
	"moodplaces/place"
)

// Client represents a connected viewer
type Client struct {
	Conn    *websocket.Conn
	PlaceID string
	Since   time.Time
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// updateMessage is sent when a place's cached detail is refreshed
type updateMessage struct {
	Type    string       `json:"type"`
	PlaceID string       `json:"place_id"`
	Detail  place.Detail `json:"detail"`
}

// Hub tracks which client watches which place
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*Client)}
}

// PublishDetail pushes a refreshed detail to everyone watching the place.
// With no watchers the update is dropped.
func (h *Hub) PublishDetail(placeID string, detail place.Detail) {
	msg := updateMessage{Type: "detail", PlaceID: placeID, Detail: detail}
	data, _ := json.Marshal(msg)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, c := range h.clients {
		if c.PlaceID != placeID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
		}
	}
}

// Watchers returns how many clients watch a place
func (h *Hub) Watchers(placeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.PlaceID == placeID {
			n++
		}
	}
	return n
}

// Handler handles WebSocket connections at /updates?place=<id>
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	placeID := r.URL.Query().Get("place")
	if placeID == "" {
		app.BadRequest(w, r, "place id required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Log("notify", "WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		Conn:    conn,
		PlaceID: placeID,
		Since:   time.Now(),
	}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()

	app.Log("notify", "Client watching %s (total: %d)", placeID, total)

	// Drain incoming messages until the client goes away. A client may
	// switch places by sending the new id.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if id := string(data); id != "" {
				h.mu.Lock()
				if c, ok := h.clients[conn]; ok {
					c.PlaceID = id
					c.Since = time.Now()
				}
				h.mu.Unlock()
			}
		}
	}()
}
