package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sugarmill-monitor/internal/models"
)

// Store is the slice of the persistence collaborator the service queries.
type Store interface {
	CalibrationRecords(ctx context.Context, sensorID string, since time.Time, limit int) ([]models.CalibrationRecord, error)
	InsertCalibrationRecord(ctx context.Context, c models.CalibrationRecord) error
}

// Report bundles the retrieved window with its aggregate statistics.
type Report struct {
	Stats   Stats                      `json:"stats"`
	Records []models.CalibrationRecord `json:"records"`
}

// Service retrieves calibration windows and records new calibrations.
type Service struct {
	store Store
	limit int
}

func NewService(store Store, limit int) *Service {
	return &Service{store: store, limit: limit}
}

// Report fetches records for the sensor (empty id selects all) within the
// window ending now, and aggregates them. A zero window disables the time
// filter.
func (s *Service) Report(ctx context.Context, sensorID string, window time.Duration) (Report, error) {
	var since time.Time
	if window > 0 {
		since = time.Now().Add(-window)
	}
	records, err := s.store.CalibrationRecords(ctx, sensorID, since, s.limit)
	if err != nil {
		return Report{}, fmt.Errorf("calibration report: %w", err)
	}
	return Report{Stats: Aggregate(records), Records: records}, nil
}

// RecordCalibration validates and persists a new calibration record. The
// store computes the deviation at insertion.
func (s *Service) RecordCalibration(ctx context.Context, req models.CalibrationCreate) (models.CalibrationRecord, error) {
	record := models.CalibrationRecord{
		ID:             uuid.NewString(),
		SensorID:       req.SensorID,
		LabPolValue:    req.LabPolValue,
		SensorPolValue: req.SensorPolValue,
		CalibratedBy:   req.CalibratedBy,
		Notes:          req.Notes,
		Timestamp:      time.Now(),
	}
	if err := record.Validate(); err != nil {
		return models.CalibrationRecord{}, err
	}
	if err := s.store.InsertCalibrationRecord(ctx, record); err != nil {
		return models.CalibrationRecord{}, fmt.Errorf("record calibration: %w", err)
	}
	record.Deviation = record.SensorPolValue - record.LabPolValue
	return record, nil
}
