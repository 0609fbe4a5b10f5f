package models

import (
	"math"
	"time"
)

// Pol percentage bounds considered physically plausible for raw juice.
const (
	PolMin = 0.0
	PolMax = 100.0
)

// Reading is a single telemetry sample for one sensor. Readings are
// immutable once created. Secondary measurements are optional and nil when
// the sensor does not report them, never NaN.
type Reading struct {
	ID              string    `json:"id"`
	SensorID        string    `json:"sensor_id"`
	PolPercentage   float64   `json:"pol_percentage"`
	Brix            *float64  `json:"brix"`
	MoistureContent *float64  `json:"moisture_content"`
	Temperature     *float64  `json:"temperature"`
	FlowRate        *float64  `json:"flow_rate"`
	QualityScore    int       `json:"quality_score"`
	Timestamp       time.Time `json:"timestamp"`
}

// Validate checks a reading before persistence.
func (r Reading) Validate() error {
	if r.SensorID == "" {
		return &ValidationError{Field: "sensor_id", Reason: "must not be empty"}
	}
	if math.IsNaN(r.PolPercentage) || math.IsInf(r.PolPercentage, 0) {
		return &ValidationError{Field: "pol_percentage", Reason: "must be finite"}
	}
	if r.PolPercentage < PolMin || r.PolPercentage > PolMax {
		return &ValidationError{Field: "pol_percentage", Reason: "outside plausible range"}
	}
	for name, v := range map[string]*float64{
		"brix":             r.Brix,
		"moisture_content": r.MoistureContent,
		"temperature":      r.Temperature,
		"flow_rate":        r.FlowRate,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return &ValidationError{Field: name, Reason: "must be finite or absent"}
		}
	}
	return nil
}
