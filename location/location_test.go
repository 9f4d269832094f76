package location

import (
	"testing"
	"time"
)

func TestStoreSaveAndGet(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewStore()
	if _, ok := s.Get(); ok {
		t.Fatal("fresh store should be empty")
	}

	if err := s.Save(19.0760, 72.8777); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	pos, ok := s.Get()
	if !ok || pos.Lat != 19.0760 || pos.Lon != 72.8777 {
		t.Errorf("unexpected position: %+v ok=%v", pos, ok)
	}

	// Survives restart
	reloaded := NewStore()
	if _, ok := reloaded.Get(); !ok {
		t.Error("saved position should survive reload")
	}
}

func TestStoreRejectsInvalidCoordinates(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewStore()
	if err := s.Save(91, 0); err == nil {
		t.Error("latitude over 90 should be rejected")
	}
	if err := s.Save(0, -181); err == nil {
		t.Error("longitude under -180 should be rejected")
	}
}

func TestStoreExpiresAfterADay(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Save(12.9716, 77.5946)
	now = now.Add(maxAge + time.Minute)

	if _, ok := s.Get(); ok {
		t.Error("position older than a day should not be returned")
	}
}
