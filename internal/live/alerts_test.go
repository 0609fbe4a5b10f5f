package live

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"sugarmill-monitor/internal/models"
)

func alert(id string, createdAt time.Time) models.Alert {
	return models.Alert{
		ID:        id,
		SensorID:  "s1",
		AlertType: models.AlertTypePolDeviation,
		Severity:  models.SeverityWarning,
		Message:   "Pol percentage 17.00% outside normal range for Line-1",
		CreatedAt: createdAt,
	}
}

func TestRegisterNewestFirstAndBounded(t *testing.T) {
	r := NewAlertRegistry(3)
	now := time.Now()
	for i := 1; i <= 5; i++ {
		r.Register(alert(fmt.Sprintf("a%d", i), now.Add(time.Duration(i)*time.Second)))
	}

	active := r.Active()
	if len(active) != 3 {
		t.Fatalf("expected 3 active alerts, got %d", len(active))
	}
	for i, want := range []string{"a5", "a4", "a3"} {
		if active[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, active[i].ID)
		}
	}
}

func TestRegisterIgnoresDuplicates(t *testing.T) {
	r := NewAlertRegistry(10)
	a := alert("a1", time.Now())
	r.Register(a)
	r.Register(a)
	if len(r.Active()) != 1 {
		t.Fatalf("duplicate registration must be ignored, got %d entries", len(r.Active()))
	}
}

func TestAcknowledgeMovesAlertOutOfActiveSet(t *testing.T) {
	r := NewAlertRegistry(10)
	r.Register(alert("a1", time.Now()))

	ackedAt := time.Now()
	if err := r.Acknowledge("a1", "System User", ackedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.Active()) != 0 {
		t.Fatal("acknowledged alert still in active set")
	}
	acked, ok := r.Acknowledged("a1")
	if !ok {
		t.Fatal("acknowledged alert not recorded")
	}
	if !acked.Acknowledged || acked.AcknowledgedBy == nil || acked.AcknowledgedAt == nil {
		t.Fatalf("acknowledgment metadata missing: %+v", acked)
	}
	if *acked.AcknowledgedBy != "System User" || !acked.AcknowledgedAt.Equal(ackedAt) {
		t.Fatalf("wrong acknowledgment metadata: %+v", acked)
	}
}

func TestAcknowledgeTwiceKeepsOriginalMetadata(t *testing.T) {
	r := NewAlertRegistry(10)
	r.Register(alert("a1", time.Now()))

	firstAt := time.Now()
	if err := r.Acknowledge("a1", "alice", firstAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Acknowledge("a1", "bob", firstAt.Add(time.Minute))
	if !errors.Is(err, models.ErrAlreadyAcknowledged) {
		t.Fatalf("expected ErrAlreadyAcknowledged, got %v", err)
	}

	acked, _ := r.Acknowledged("a1")
	if *acked.AcknowledgedBy != "alice" || !acked.AcknowledgedAt.Equal(firstAt) {
		t.Fatalf("second acknowledge altered metadata: %+v", acked)
	}
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	r := NewAlertRegistry(10)
	err := r.Acknowledge("missing", "alice", time.Now())
	if !errors.Is(err, models.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestRegisterAfterAcknowledgeIsIgnored(t *testing.T) {
	r := NewAlertRegistry(10)
	a := alert("a1", time.Now())
	r.Register(a)
	if err := r.Acknowledge("a1", "alice", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A replayed notification for an already-acknowledged alert must not
	// resurrect it.
	r.Register(a)
	if len(r.Active()) != 0 {
		t.Fatal("acknowledged alert resurrected by replayed registration")
	}
}

func TestSeedTruncatesToLimit(t *testing.T) {
	r := NewAlertRegistry(2)
	now := time.Now()
	r.Seed([]models.Alert{alert("a3", now), alert("a2", now), alert("a1", now)})

	active := r.Active()
	if len(active) != 2 || active[0].ID != "a3" || active[1].ID != "a2" {
		t.Fatalf("unexpected seeded set: %+v", active)
	}
}
