package live

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"sugarmill-monitor/internal/models"
)

func reading(id, sensorID string, pol float64, ts time.Time) models.Reading {
	return models.Reading{ID: id, SensorID: sensorID, PolPercentage: pol, Timestamp: ts}
}

func TestLatestIsLastWriterWins(t *testing.T) {
	s := NewStateStore(10)
	now := time.Now()

	// R2 arrives after R1 but carries an older timestamp; arrival order
	// still wins.
	r1 := reading("r1", "s1", 14.1, now)
	r2 := reading("r2", "s1", 13.2, now.Add(-time.Minute))
	s.RecordReading(r1)
	s.RecordReading(r2)

	snap := s.Snapshot()
	if got := snap.Latest["s1"]; got.ID != "r2" {
		t.Fatalf("expected latest to be r2 by arrival order, got %s", got.ID)
	}
}

func TestBoundedHistoryEviction(t *testing.T) {
	const capacity = 3
	s := NewStateStore(capacity)
	now := time.Now()

	for i := 1; i <= 5; i++ {
		s.RecordReading(reading(fmt.Sprintf("r%d", i), "s1", 14, now))
	}

	snap := s.Snapshot()
	if len(snap.Recent) != capacity {
		t.Fatalf("expected %d entries, got %d", capacity, len(snap.Recent))
	}
	// Most recent first, oldest evicted.
	for i, want := range []string{"r5", "r4", "r3"} {
		if snap.Recent[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, snap.Recent[i].ID)
		}
	}
}

func TestUnknownSensorStored(t *testing.T) {
	s := NewStateStore(10)
	s.RecordReading(reading("r1", "ghost-sensor", 14, time.Now()))
	if _, ok := s.Snapshot().Latest["ghost-sensor"]; !ok {
		t.Fatal("reading for unknown sensor must still be stored")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStateStore(10)
	s.RecordReading(reading("r1", "s1", 14, time.Now()))

	snap := s.Snapshot()
	snap.Latest["s1"] = reading("tampered", "s1", 0, time.Time{})
	snap.Recent[0] = reading("tampered", "s1", 0, time.Time{})

	fresh := s.Snapshot()
	if fresh.Latest["s1"].ID != "r1" || fresh.Recent[0].ID != "r1" {
		t.Fatal("mutating a snapshot leaked into the store")
	}
}

func TestSeed(t *testing.T) {
	s := NewStateStore(3)
	now := time.Now()
	// Newest first, two sensors; the first occurrence per sensor wins
	// the latest slot.
	s.Seed([]models.Reading{
		reading("r5", "s1", 14.5, now),
		reading("r4", "s2", 13.9, now.Add(-time.Second)),
		reading("r3", "s1", 14.1, now.Add(-2*time.Second)),
		reading("r2", "s1", 14.0, now.Add(-3*time.Second)),
	})

	snap := s.Snapshot()
	if snap.Latest["s1"].ID != "r5" || snap.Latest["s2"].ID != "r4" {
		t.Fatalf("unexpected latest after seed: %+v", snap.Latest)
	}
	if len(snap.Recent) != 3 || snap.Recent[0].ID != "r5" {
		t.Fatalf("unexpected history after seed: %+v", snap.Recent)
	}
}

func TestConcurrentSnapshotAndRecord(t *testing.T) {
	s := NewStateStore(50)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.RecordReading(reading(fmt.Sprintf("r%d", i), "s1", 14, time.Now()))
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		snap := s.Snapshot()
		if len(snap.Recent) > 50 {
			t.Errorf("history exceeded capacity: %d", len(snap.Recent))
			break
		}
	}
	close(stop)
	wg.Wait()
}
