package favorites

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// recordingRemote captures the remote call sequence
type recordingRemote struct {
	mu    sync.Mutex
	calls []string
	ids   map[string]bool
	fail  bool
}

func newRecordingRemote() *recordingRemote {
	return &recordingRemote{ids: make(map[string]bool)}
}

func (r *recordingRemote) Insert(userID, placeID, placeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "insert:"+placeID)
	if r.fail {
		return fmt.Errorf("remote down")
	}
	r.ids[placeID] = true
	return nil
}

func (r *recordingRemote) Delete(userID, placeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "delete:"+placeID)
	if r.fail {
		return fmt.Errorf("remote down")
	}
	delete(r.ids, placeID)
	return nil
}

func (r *recordingRemote) List(userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for id := range r.ids {
		out = append(out, id)
	}
	return out, nil
}

func (r *recordingRemote) callLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// waitForCalls polls until the remote has seen n calls
func waitForCalls(t *testing.T, r *recordingRemote, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.callLog()) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d remote calls, got %v", n, r.callLog())
}

func TestToggleIsIdempotentPair(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewSet(nil)
	first := s.Toggle("osm-1", "Corner Cafe")
	if !first.Added || !s.Has("osm-1") {
		t.Fatal("first toggle should add")
	}
	second := s.Toggle("osm-1", "Corner Cafe")
	if second.Added || s.Has("osm-1") {
		t.Fatal("second toggle should remove")
	}
	if s.Len() != 0 {
		t.Errorf("double toggle should restore the original state, len=%d", s.Len())
	}
}

func TestTogglePersists(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewSet(nil)
	s.Toggle("osm-1", "A")
	s.Toggle("osm-2", "B")
	s.Toggle("osm-1", "A")

	reloaded := NewSet(nil)
	if !reloaded.Has("osm-2") || reloaded.Has("osm-1") {
		t.Errorf("unexpected reloaded set: %v", reloaded.All())
	}
}

func TestUndoReversesToggleAndRemoteCalls(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	remote := newRecordingRemote()
	s := NewSet(remote)
	if err := s.Reconcile("user-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	toggled := s.Toggle("osm-1", "Corner Cafe")
	waitForCalls(t, remote, 1)

	toggled.Undo()
	waitForCalls(t, remote, 2)

	if s.Has("osm-1") {
		t.Error("undo should restore the original membership")
	}
	log := remote.callLog()
	if log[0] != "insert:osm-1" || log[1] != "delete:osm-1" {
		t.Errorf("undo should mirror the remote call, got %v", log)
	}

	// Undo of a removal re-inserts
	s.Toggle("osm-2", "Another")
	waitForCalls(t, remote, 3)
	removal := s.Toggle("osm-2", "Another")
	waitForCalls(t, remote, 4)
	removal.Undo()
	waitForCalls(t, remote, 5)

	if !s.Has("osm-2") {
		t.Error("undoing a removal should restore membership")
	}
	log = remote.callLog()
	if log[4] != "insert:osm-2" {
		t.Errorf("expected trailing re-insert, got %v", log)
	}
}

// slowInsertRemote delays inserts so an undo issued right after a toggle
// would overtake it if the two calls raced.
type slowInsertRemote struct {
	recordingRemote
	delay time.Duration
}

func (r *slowInsertRemote) Insert(userID, placeID, placeName string) error {
	time.Sleep(r.delay)
	return r.recordingRemote.Insert(userID, placeID, placeName)
}

func TestImmediateUndoKeepsRemoteCallOrder(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	remote := &slowInsertRemote{delay: 50 * time.Millisecond}
	remote.ids = make(map[string]bool)
	s := NewSet(remote)
	if err := s.Reconcile("user-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	s.Toggle("osm-1", "Corner Cafe").Undo()
	waitForCalls(t, &remote.recordingRemote, 2)

	log := remote.callLog()
	if log[0] != "insert:osm-1" || log[1] != "delete:osm-1" {
		t.Errorf("remote calls must land in issue order, got %v", log)
	}
	if remote.ids["osm-1"] {
		t.Error("remote should not end favorited after an undone toggle")
	}
	if s.Has("osm-1") {
		t.Error("local set should not end favorited after an undone toggle")
	}
}

func TestRemoteFailureDoesNotAffectLocalState(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	remote := newRecordingRemote()
	remote.fail = true
	s := NewSet(remote)
	s.Reconcile("user-1")

	s.Toggle("osm-1", "Corner Cafe")
	waitForCalls(t, remote, 1)

	if !s.Has("osm-1") {
		t.Error("local state is authoritative regardless of remote failures")
	}
}

func TestReconcileMergesLocalFirst(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	remote := newRecordingRemote()
	remote.ids["osm-remote"] = true

	s := NewSet(remote)
	s.Toggle("osm-local", "Local Spot") // no identity yet, purely local

	if err := s.Reconcile("user-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	// Local id pushed remotely, remote set adopted locally
	if !remote.ids["osm-local"] {
		t.Error("local favorite should be pushed to the remote on first merge")
	}
	if !s.Has("osm-local") || !s.Has("osm-remote") {
		t.Errorf("merged set should contain both sides, got %v", s.All())
	}

	// Second reconcile for the same identity is a no-op
	before := len(remote.callLog())
	s.Reconcile("user-1")
	if len(remote.callLog()) != before {
		t.Error("repeat reconcile should not touch the remote")
	}
}

func TestSameIDTogglesSerialize(t *testing.T) {
	t.Setenv("MOODPLACES_HOME", t.TempDir())

	s := NewSet(nil)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle("osm-1", "Contended")
		}()
	}
	wg.Wait()

	// An even number of toggles always lands back at absent
	if s.Has("osm-1") {
		t.Error("100 toggles should restore the original state")
	}
}
