package db

import (
	"context"
	"fmt"
	"time"

	"sugarmill-monitor/internal/models"
)

// InsertAlert persists a new alert record.
func (d *DB) InsertAlert(ctx context.Context, a models.Alert) error {
	query := `
        INSERT INTO system_alerts (
            id, sensor_id, alert_type, severity, message,
            acknowledged, acknowledged_by, acknowledged_at, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := d.Pool.Exec(ctx, query,
		a.ID, a.SensorID, a.AlertType, a.Severity, a.Message,
		a.Acknowledged, a.AcknowledgedBy, a.AcknowledgedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// UnacknowledgedAlerts returns up to limit open alerts, newest first.
func (d *DB) UnacknowledgedAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	query := `
        SELECT id, sensor_id, alert_type, severity, message,
               acknowledged, acknowledged_by, acknowledged_at, created_at
        FROM system_alerts
        WHERE acknowledged = false
        ORDER BY created_at DESC
        LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.SensorID, &a.AlertType, &a.Severity, &a.Message,
			&a.Acknowledged, &a.AcknowledgedBy, &a.AcknowledgedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// AcknowledgeAlert marks an open alert acknowledged. It distinguishes an
// unknown id from an alert that was already acknowledged, and never
// overwrites existing acknowledgment metadata.
func (d *DB) AcknowledgeAlert(ctx context.Context, id, by string, at time.Time) error {
	query := `
        UPDATE system_alerts
        SET acknowledged = true, acknowledged_by = $2, acknowledged_at = $3
        WHERE id = $1 AND acknowledged = false`

	result, err := d.Pool.Exec(ctx, query, id, by, at)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var acknowledged bool
	err = d.Pool.QueryRow(ctx, `SELECT acknowledged FROM system_alerts WHERE id = $1`, id).Scan(&acknowledged)
	if err != nil {
		return models.ErrAlertNotFound
	}
	if acknowledged {
		return models.ErrAlreadyAcknowledged
	}
	return models.ErrAlertNotFound
}
