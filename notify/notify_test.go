package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"moodplaces/place"
)

func dial(t *testing.T, srv *httptest.Server, placeID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/updates?place=" + placeID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForWatchers(t *testing.T, h *Hub, placeID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Watchers(placeID) == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d watchers for %s, got %d", n, placeID, h.Watchers(placeID))
}

func TestHubDeliversToWatchers(t *testing.T) {
	h := NewHub()
	mux := httptest.NewServer(http.HandlerFunc(h.Handler))
	defer mux.Close()

	watching := dial(t, mux, "osm-1")
	defer watching.Close()
	other := dial(t, mux, "osm-2")
	defer other.Close()

	waitForWatchers(t, h, "osm-1", 1)
	waitForWatchers(t, h, "osm-2", 1)

	h.PublishDetail("osm-1", place.Detail{Description: "fresh"})

	watching.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := watching.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg struct {
		Type    string       `json:"type"`
		PlaceID string       `json:"place_id"`
		Detail  place.Detail `json:"detail"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "detail" || msg.PlaceID != "osm-1" || msg.Detail.Description != "fresh" {
		t.Errorf("unexpected message: %+v", msg)
	}

	// The other watcher gets nothing
	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("watcher of a different place should receive nothing")
	}
}

func TestHubDropsPublishWithNoWatchers(t *testing.T) {
	h := NewHub()
	// Must not block or panic
	h.PublishDetail("osm-9", place.Detail{Description: "unseen"})
	if h.Watchers("osm-9") != 0 {
		t.Error("no watchers expected")
	}
}
