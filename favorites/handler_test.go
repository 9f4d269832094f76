package favorites

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListEscapesPlaceIDs(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewSet(nil)
	s.Toggle(`<img src=x onerror=alert(1)>`, "Sneaky")
	h := &Handlers{Set: s}

	req := httptest.NewRequest("GET", "/favorites", nil)
	w := httptest.NewRecorder()
	h.Handler(w, req)

	body := w.Body.String()
	if strings.Contains(body, "<img src=x") {
		t.Error("place ids must not reach the page unescaped")
	}
	if !strings.Contains(body, "&lt;img") {
		t.Errorf("expected escaped id in page, got %s", body)
	}
}
