package models

import (
	"math"
	"time"
)

// CalibrationRecord compares a laboratory Pol measurement against the value
// the sensor reported at the same time. Deviation is computed once at
// insertion as sensor value minus lab value and never recomputed.
type CalibrationRecord struct {
	ID             string    `json:"id"`
	SensorID       string    `json:"sensor_id"`
	LabPolValue    float64   `json:"lab_pol_value"`
	SensorPolValue float64   `json:"sensor_pol_value"`
	Deviation      float64   `json:"deviation"`
	CalibratedBy   string    `json:"calibrated_by"`
	Notes          *string   `json:"notes"`
	Timestamp      time.Time `json:"timestamp"`
}

// CalibrationCreate is the request payload for recording a calibration.
type CalibrationCreate struct {
	SensorID       string  `json:"sensor_id" binding:"required"`
	LabPolValue    float64 `json:"lab_pol_value" binding:"required"`
	SensorPolValue float64 `json:"sensor_pol_value" binding:"required"`
	CalibratedBy   string  `json:"calibrated_by" binding:"required"`
	Notes          *string `json:"notes,omitempty"`
}

// Validate checks a calibration record before persistence.
func (c CalibrationRecord) Validate() error {
	if c.SensorID == "" {
		return &ValidationError{Field: "sensor_id", Reason: "must not be empty"}
	}
	if c.CalibratedBy == "" {
		return &ValidationError{Field: "calibrated_by", Reason: "must not be empty"}
	}
	for name, v := range map[string]float64{
		"lab_pol_value":    c.LabPolValue,
		"sensor_pol_value": c.SensorPolValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Field: name, Reason: "must be finite"}
		}
	}
	return nil
}
