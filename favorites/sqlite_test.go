package favorites

import (
	"testing"
)

func TestSQLiteRemoteRoundTrip(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	r, err := OpenRemote()
	if err != nil {
		t.Fatalf("OpenRemote: %v", err)
	}
	defer r.Close()

	if err := r.Insert("user-1", "osm-1", "Corner Cafe"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// Re-insert is a no-op, not an error
	if err := r.Insert("user-1", "osm-1", "Corner Cafe"); err != nil {
		t.Fatalf("repeat Insert: %v", err)
	}
	if err := r.Insert("user-1", "osm-2", "Punjabi Tadka"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := r.Insert("user-2", "osm-9", "Someone Else's"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ids, err := r.List("user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 favorites for user-1, got %v", ids)
	}

	if err := r.Delete("user-1", "osm-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ids, _ = r.List("user-1")
	if len(ids) != 1 || ids[0] != "osm-2" {
		t.Errorf("unexpected favorites after delete: %v", ids)
	}

	// Other users are untouched
	ids, _ = r.List("user-2")
	if len(ids) != 1 {
		t.Errorf("user-2 favorites should be isolated, got %v", ids)
	}
}
