// Package analytics computes calibration accuracy statistics over stored
// calibration records.
package analytics

import (
	"math"

	"sugarmill-monitor/internal/models"
)

// Stats summarizes how far sensor measurements drift from laboratory
// reference values.
type Stats struct {
	Count            int     `json:"count"`
	MeanAbsDeviation float64 `json:"mean_abs_deviation"`
	MaxAbsDeviation  float64 `json:"max_abs_deviation"`
}

// Aggregate computes deviation statistics over the given records. An empty
// input yields the zero Stats, never an error.
func Aggregate(records []models.CalibrationRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	var sum, max float64
	for _, r := range records {
		d := math.Abs(r.Deviation)
		sum += d
		if d > max {
			max = d
		}
	}
	return Stats{
		Count:            len(records),
		MeanAbsDeviation: sum / float64(len(records)),
		MaxAbsDeviation:  max,
	}
}
