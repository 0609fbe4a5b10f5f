package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/logging"
)

func publish(t *testing.T, b *bus.InProc, stream string, entity interface{}) {
	t.Helper()
	payload, err := json.Marshal(entity)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := b.Publish(context.Background(), stream, "s1", payload); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestStateStoreFollowsNotifications(t *testing.T) {
	b := bus.NewInProc()
	s := NewStateStore(10)
	off := s.Attach(b, logging.NewNop())
	defer off()

	publish(t, b, bus.StreamReadingInserted, reading("r1", "s1", 14.2, time.Now()))
	publish(t, b, bus.StreamReadingInserted, reading("r2", "s1", 13.8, time.Now()))

	snap := s.Snapshot()
	if snap.Latest["s1"].ID != "r2" {
		t.Fatalf("expected r2 as latest, got %s", snap.Latest["s1"].ID)
	}
	if len(snap.Recent) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(snap.Recent))
	}
}

func TestStateStoreDetach(t *testing.T) {
	b := bus.NewInProc()
	s := NewStateStore(10)
	off := s.Attach(b, logging.NewNop())

	publish(t, b, bus.StreamReadingInserted, reading("r1", "s1", 14.2, time.Now()))
	off()
	publish(t, b, bus.StreamReadingInserted, reading("r2", "s1", 13.8, time.Now()))

	if got := s.Snapshot().Latest["s1"].ID; got != "r1" {
		t.Fatalf("store updated after detach: %s", got)
	}
}

func TestRegistryFollowsNotifications(t *testing.T) {
	b := bus.NewInProc()
	r := NewAlertRegistry(10)
	off := r.Attach(b, logging.NewNop())
	defer off()

	publish(t, b, bus.StreamAlertInserted, alert("a1", time.Now()))

	active := r.Active()
	if len(active) != 1 || active[0].ID != "a1" {
		t.Fatalf("alert notification not registered: %+v", active)
	}
}

func TestBadPayloadIsSkipped(t *testing.T) {
	b := bus.NewInProc()
	s := NewStateStore(10)
	r := NewAlertRegistry(10)
	defer s.Attach(b, logging.NewNop())()
	defer r.Attach(b, logging.NewNop())()

	_ = b.Publish(context.Background(), bus.StreamReadingInserted, "s1", []byte("not json"))
	_ = b.Publish(context.Background(), bus.StreamAlertInserted, "s1", []byte("not json"))

	if len(s.Snapshot().Recent) != 0 || len(r.Active()) != 0 {
		t.Fatal("malformed payloads must be skipped")
	}

	// The views keep working afterwards.
	publish(t, b, bus.StreamReadingInserted, reading("r1", "s1", 14.2, time.Now()))
	if len(s.Snapshot().Recent) != 1 {
		t.Fatal("view stopped processing after a malformed payload")
	}
}
