package models

import "time"

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AlertTypePolDeviation flags a Pol reading outside the configured band.
const AlertTypePolDeviation = "pol_deviation"

// Alert records an out-of-range condition for one sensor. An alert
// transitions from unacknowledged to acknowledged exactly once; the core
// never deletes alerts.
type Alert struct {
	ID             string     `json:"id"`
	SensorID       string     `json:"sensor_id"`
	AlertType      string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy *string    `json:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AlertAcknowledge is the request payload for acknowledging an alert.
type AlertAcknowledge struct {
	AcknowledgedBy string `json:"acknowledged_by" binding:"required"`
}
