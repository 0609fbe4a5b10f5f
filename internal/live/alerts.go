package live

import (
	"encoding/json"
	"sync"
	"time"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
)

// AlertRegistry is the in-memory view of unacknowledged alerts, newest
// first, truncated to a display bound. Acknowledging moves an alert out of
// the active set exactly once.
type AlertRegistry struct {
	mu     sync.RWMutex
	active []models.Alert
	acked  map[string]models.Alert
	limit  int
}

func NewAlertRegistry(limit int) *AlertRegistry {
	return &AlertRegistry{acked: make(map[string]models.Alert), limit: limit}
}

// Register adds an alert to the active set. Duplicate ids and alerts
// already acknowledged are ignored, so replayed notifications are harmless.
func (r *AlertRegistry) Register(a models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.acked[a.ID]; ok {
		return
	}
	for _, existing := range r.active {
		if existing.ID == a.ID {
			return
		}
	}
	r.active = append([]models.Alert{a}, r.active...)
	if len(r.active) > r.limit {
		r.active = r.active[:r.limit]
	}
}

// Active returns a copy of the unacknowledged alerts, newest first.
func (r *AlertRegistry) Active() []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Alert, len(r.active))
	copy(out, r.active)
	return out
}

// Acknowledge moves the alert out of the active set and records who
// acknowledged it and when. A second call returns ErrAlreadyAcknowledged
// and leaves the recorded metadata untouched; an unknown id returns
// ErrAlertNotFound.
func (r *AlertRegistry) Acknowledge(id, by string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.acked[id]; ok {
		return models.ErrAlreadyAcknowledged
	}
	for i, a := range r.active {
		if a.ID != id {
			continue
		}
		a.Acknowledged = true
		a.AcknowledgedBy = &by
		a.AcknowledgedAt = &at
		r.active = append(r.active[:i], r.active[i+1:]...)
		r.acked[id] = a
		return nil
	}
	return models.ErrAlertNotFound
}

// Acknowledged returns the acknowledged copy of an alert, if any.
func (r *AlertRegistry) Acknowledged(id string) (models.Alert, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.acked[id]
	return a, ok
}

// Seed loads unacknowledged alerts fetched from storage at startup,
// expected newest first.
func (r *AlertRegistry) Seed(newestFirst []models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(newestFirst)
	if n > r.limit {
		n = r.limit
	}
	r.active = append(r.active[:0], newestFirst[:n]...)
}

// Attach subscribes the registry to alert-inserted notifications. The
// returned function detaches it.
func (r *AlertRegistry) Attach(sub bus.Subscriber, logger *logging.Logger) func() {
	return sub.Subscribe(bus.StreamAlertInserted, func(payload []byte) {
		var a models.Alert
		if err := json.Unmarshal(payload, &a); err != nil {
			logger.Errorf("Alert registry: bad alert payload: %v", err)
			return
		}
		r.Register(a)
	})
}
