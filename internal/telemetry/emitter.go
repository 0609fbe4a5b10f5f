package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sugarmill-monitor/internal/models"
)

// AlertStore is the slice of the persistence collaborator the emitter needs.
type AlertStore interface {
	InsertAlert(ctx context.Context, a models.Alert) error
}

// Emitter turns a flagged reading into exactly one persisted alert. There
// is deliberately no retry here: a retried insert could duplicate the
// alert, and the next tick produces a fresh reading anyway.
type Emitter struct {
	store AlertStore
}

func NewEmitter(store AlertStore) *Emitter {
	return &Emitter{store: store}
}

// Emit persists one warning alert for the reading and returns it. The
// message embeds the sensor name and the offending value, matching what
// operators see in the alert panel.
func (e *Emitter) Emit(ctx context.Context, sensor models.Sensor, reading models.Reading) (models.Alert, error) {
	alert := models.Alert{
		ID:        uuid.NewString(),
		SensorID:  sensor.ID,
		AlertType: models.AlertTypePolDeviation,
		Severity:  models.SeverityWarning,
		Message:   fmt.Sprintf("Pol percentage %.2f%% outside normal range for %s", reading.PolPercentage, sensor.Name),
		CreatedAt: time.Now(),
	}
	if err := e.store.InsertAlert(ctx, alert); err != nil {
		return models.Alert{}, fmt.Errorf("emit alert for sensor %s: %w", sensor.ID, err)
	}
	return alert, nil
}
