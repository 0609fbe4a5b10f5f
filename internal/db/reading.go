package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sugarmill-monitor/internal/models"
)

// InsertReading persists a telemetry reading. Readings are immutable; there
// is no update path.
func (d *DB) InsertReading(ctx context.Context, r models.Reading) error {
	if err := r.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO sensor_readings (
            id, sensor_id, pol_percentage, brix, moisture_content,
            temperature, flow_rate, quality_score, timestamp
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := d.Pool.Exec(ctx, query,
		r.ID, r.SensorID, r.PolPercentage, r.Brix, r.MoistureContent,
		r.Temperature, r.FlowRate, r.QualityScore, r.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// LatestReading returns the most recent reading for a sensor, or nil when
// the sensor has none.
func (d *DB) LatestReading(ctx context.Context, sensorID string) (*models.Reading, error) {
	query := `
        SELECT id, sensor_id, pol_percentage, brix, moisture_content,
               temperature, flow_rate, quality_score, timestamp
        FROM sensor_readings
        WHERE sensor_id = $1
        ORDER BY timestamp DESC
        LIMIT 1`

	var r models.Reading
	err := d.Pool.QueryRow(ctx, query, sensorID).Scan(
		&r.ID, &r.SensorID, &r.PolPercentage, &r.Brix, &r.MoistureContent,
		&r.Temperature, &r.FlowRate, &r.QualityScore, &r.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return &r, nil
}

// RecentReadings returns up to limit readings across all sensors, newest
// first.
func (d *DB) RecentReadings(ctx context.Context, limit int) ([]models.Reading, error) {
	query := `
        SELECT id, sensor_id, pol_percentage, brix, moisture_content,
               temperature, flow_rate, quality_score, timestamp
        FROM sensor_readings
        ORDER BY timestamp DESC
        LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent readings: %w", err)
	}
	defer rows.Close()

	var list []models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.ID, &r.SensorID, &r.PolPercentage, &r.Brix,
			&r.MoistureContent, &r.Temperature, &r.FlowRate, &r.QualityScore, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
