package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"sugarmill-monitor/internal/models"
)

// ListSensors returns all configured sensors ordered by creation time.
func (d *DB) ListSensors(ctx context.Context) ([]models.Sensor, error) {
	query := `
        SELECT id, name, type, location, status, calibration_date, accuracy_rating, created_at, updated_at
        FROM sensors
        ORDER BY created_at`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	defer rows.Close()

	var list []models.Sensor
	for rows.Next() {
		var s models.Sensor
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Location, &s.Status,
			&s.CalibrationDate, &s.AccuracyRating, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sensor: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetSensor fetches a single sensor by id.
func (d *DB) GetSensor(ctx context.Context, id string) (models.Sensor, error) {
	query := `
        SELECT id, name, type, location, status, calibration_date, accuracy_rating, created_at, updated_at
        FROM sensors
        WHERE id = $1`

	var s models.Sensor
	err := d.Pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Type, &s.Location,
		&s.Status, &s.CalibrationDate, &s.AccuracyRating, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Sensor{}, models.ErrSensorNotFound
	}
	if err != nil {
		return models.Sensor{}, fmt.Errorf("failed to get sensor: %w", err)
	}
	return s, nil
}

// CreateSensor inserts a new sensor record.
func (d *DB) CreateSensor(ctx context.Context, s models.Sensor) error {
	query := `
        INSERT INTO sensors (id, name, type, location, status, calibration_date, accuracy_rating, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := d.Pool.Exec(ctx, query,
		s.ID, s.Name, s.Type, s.Location, s.Status,
		s.CalibrationDate, s.AccuracyRating, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sensor: %w", err)
	}
	return nil
}

// UpdateSensor overwrites the mutable fields of a sensor.
func (d *DB) UpdateSensor(ctx context.Context, s models.Sensor) error {
	query := `
        UPDATE sensors
        SET name = $2, type = $3, location = $4, status = $5,
            calibration_date = $6, accuracy_rating = $7, updated_at = $8
        WHERE id = $1`

	result, err := d.Pool.Exec(ctx, query,
		s.ID, s.Name, s.Type, s.Location, s.Status,
		s.CalibrationDate, s.AccuracyRating, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update sensor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrSensorNotFound
	}
	return nil
}

// DeleteSensor removes a sensor record.
func (d *DB) DeleteSensor(ctx context.Context, id string) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM sensors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sensor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrSensorNotFound
	}
	return nil
}
