// Package live holds the in-memory views the presentation layer reads:
// the latest reading per sensor, a bounded recent-readings feed, and the
// unacknowledged alert list. Views are fed by change notifications and are
// safe under concurrent snapshot and write.
package live

import (
	"encoding/json"
	"sync"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
)

// Snapshot is an immutable copy of the live state at one instant.
type Snapshot struct {
	Latest map[string]models.Reading `json:"latest"`
	Recent []models.Reading          `json:"recent"`
}

// StateStore reconciles incoming readings into a latest-per-sensor map and
// a bounded most-recent-first history. The latest entry is last-writer-wins
// by arrival order, not by timestamp: inserts are assumed to arrive in
// causal order per sensor.
type StateStore struct {
	mu       sync.RWMutex
	latest   map[string]models.Reading
	recent   []models.Reading
	capacity int
}

func NewStateStore(capacity int) *StateStore {
	return &StateStore{
		latest:   make(map[string]models.Reading),
		recent:   make([]models.Reading, 0, capacity),
		capacity: capacity,
	}
}

// RecordReading overwrites the sensor's latest entry and prepends the
// reading to the history, evicting the oldest once over capacity. Readings
// for sensors outside the known set are stored as-is; name resolution is a
// display concern.
func (s *StateStore) RecordReading(r models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[r.SensorID] = r
	s.recent = append([]models.Reading{r}, s.recent...)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[:s.capacity]
	}
}

// Snapshot returns a copied view; callers may hold or mutate it freely.
func (s *StateStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]models.Reading, len(s.latest))
	for id, r := range s.latest {
		latest[id] = r
	}
	recent := make([]models.Reading, len(s.recent))
	copy(recent, s.recent)
	return Snapshot{Latest: latest, Recent: recent}
}

// Seed loads readings fetched from storage at startup. The slice is
// expected newest first; the history keeps at most capacity entries and
// the first occurrence per sensor wins the latest slot.
func (s *StateStore) Seed(newestFirst []models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range newestFirst {
		if _, ok := s.latest[r.SensorID]; !ok {
			s.latest[r.SensorID] = r
		}
	}
	n := len(newestFirst)
	if n > s.capacity {
		n = s.capacity
	}
	s.recent = append(s.recent[:0], newestFirst[:n]...)
}

// SetLatest seeds one sensor's latest entry without touching the history.
func (s *StateStore) SetLatest(r models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[r.SensorID] = r
}

// Attach subscribes the store to reading-inserted notifications. The
// returned function detaches it.
func (s *StateStore) Attach(sub bus.Subscriber, logger *logging.Logger) func() {
	return sub.Subscribe(bus.StreamReadingInserted, func(payload []byte) {
		var r models.Reading
		if err := json.Unmarshal(payload, &r); err != nil {
			logger.Errorf("Live state: bad reading payload: %v", err)
			return
		}
		s.RecordReading(r)
	})
}
