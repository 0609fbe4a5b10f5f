package db

import (
	"context"
	"fmt"
	"time"

	"sugarmill-monitor/internal/models"
)

// InsertCalibrationRecord persists a calibration record. Deviation is
// computed here, at insertion, as sensor value minus lab value; any value
// supplied by the caller is ignored.
func (d *DB) InsertCalibrationRecord(ctx context.Context, c models.CalibrationRecord) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Deviation = c.SensorPolValue - c.LabPolValue

	query := `
        INSERT INTO calibration_records (
            id, sensor_id, lab_pol_value, sensor_pol_value, deviation,
            calibrated_by, notes, timestamp
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := d.Pool.Exec(ctx, query,
		c.ID, c.SensorID, c.LabPolValue, c.SensorPolValue, c.Deviation,
		c.CalibratedBy, c.Notes, c.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert calibration record: %w", err)
	}
	return nil
}

// CalibrationRecords returns up to limit records newest first, optionally
// filtered by sensor and restricted to the window starting at since.
// An empty sensorID selects all sensors; a zero since disables the window.
func (d *DB) CalibrationRecords(ctx context.Context, sensorID string, since time.Time, limit int) ([]models.CalibrationRecord, error) {
	query := `
        SELECT id, sensor_id, lab_pol_value, sensor_pol_value, deviation,
               calibrated_by, notes, timestamp
        FROM calibration_records
        WHERE ($1 = '' OR sensor_id = $1)
          AND ($2::timestamptz IS NULL OR timestamp >= $2)
        ORDER BY timestamp DESC
        LIMIT $3`

	var window interface{}
	if !since.IsZero() {
		window = since
	}

	rows, err := d.Pool.Query(ctx, query, sensorID, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get calibration records: %w", err)
	}
	defer rows.Close()

	var list []models.CalibrationRecord
	for rows.Next() {
		var c models.CalibrationRecord
		if err := rows.Scan(&c.ID, &c.SensorID, &c.LabPolValue, &c.SensorPolValue,
			&c.Deviation, &c.CalibratedBy, &c.Notes, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan calibration record: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
