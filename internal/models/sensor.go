package models

import "time"

// Sensor lifecycle statuses. Only active sensors produce readings.
const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusOffline     = "offline"
)

// Sensor is a configured Pol measurement point in the mill.
type Sensor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Location        string    `json:"location"`
	Status          string    `json:"status"`
	CalibrationDate time.Time `json:"calibration_date"`
	AccuracyRating  float64   `json:"accuracy_rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SensorCreate is the request payload for registering a sensor.
type SensorCreate struct {
	Name           string  `json:"name" binding:"required"`
	Type           string  `json:"type" binding:"required"`
	Location       string  `json:"location" binding:"required"`
	Status         string  `json:"status,omitempty"`
	AccuracyRating float64 `json:"accuracy_rating,omitempty"`
}

// SensorUpdate is the request payload for editing a sensor. Nil fields are
// left unchanged.
type SensorUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Type           *string  `json:"type,omitempty"`
	Location       *string  `json:"location,omitempty"`
	Status         *string  `json:"status,omitempty"`
	AccuracyRating *float64 `json:"accuracy_rating,omitempty"`
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusOffline:
		return true
	}
	return false
}

// Validate checks sensor fields before persistence.
func (s Sensor) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !validStatus(s.Status) {
		return &ValidationError{Field: "status", Reason: "must be active, maintenance or offline"}
	}
	if s.AccuracyRating < 0 {
		return &ValidationError{Field: "accuracy_rating", Reason: "must be nonnegative"}
	}
	return nil
}
