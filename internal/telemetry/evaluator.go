package telemetry

import "math"

// Decision is the outcome of evaluating a reading against its band.
type Decision string

const (
	DecisionNone    Decision = "none"
	DecisionWarning Decision = "warning"
)

// Band is the alerting reference: a fixed process target plus the allowed
// margin around it. This threshold is independent of the per-sensor
// accuracy rating used for calibration display; the two are never
// reconciled.
type Band struct {
	Target    float64
	Tolerance float64
}

// Evaluate maps a measured Pol percentage to an alert decision and the
// absolute deviation from target. A warning is raised only when the
// deviation strictly exceeds the tolerance. Pure and deterministic.
func Evaluate(polPercentage float64, band Band) (Decision, float64) {
	deviation := math.Abs(polPercentage - band.Target)
	if deviation > band.Tolerance {
		return DecisionWarning, deviation
	}
	return DecisionNone, deviation
}
