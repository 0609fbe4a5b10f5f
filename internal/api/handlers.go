package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sugarmill-monitor/internal/analytics"
	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/db"
	"sugarmill-monitor/internal/live"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
	"sugarmill-monitor/internal/telemetry"
	"sugarmill-monitor/internal/ws"
)

type Handler struct {
	db        *db.DB
	live      *live.StateStore
	registry  *live.AlertRegistry
	analytics *analytics.Service
	hub       *ws.Hub
	sched     *telemetry.Scheduler
	logger    *logging.Logger
	config    config.Config
}

func NewHandler(dbConn *db.DB, liveStore *live.StateStore, registry *live.AlertRegistry,
	analyticsSvc *analytics.Service, hub *ws.Hub, sched *telemetry.Scheduler,
	logger *logging.Logger, cfg config.Config) *Handler {
	return &Handler{
		db:        dbConn,
		live:      liveStore,
		registry:  registry,
		analytics: analyticsSvc,
		hub:       hub,
		sched:     sched,
		logger:    logger,
		config:    cfg,
	}
}

// --- Sensors ---

func (h *Handler) ListSensors(c *gin.Context) {
	sensors, err := h.db.ListSensors(c.Request.Context())
	if err != nil {
		h.logger.Errorf("List sensors failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sensors)
}

func (h *Handler) CreateSensor(c *gin.Context) {
	var req models.SensorCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	sensor := models.Sensor{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Type:            req.Type,
		Location:        req.Location,
		Status:          req.Status,
		CalibrationDate: now,
		AccuracyRating:  req.AccuracyRating,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if sensor.Status == "" {
		sensor.Status = models.StatusActive
	}
	if err := sensor.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.CreateSensor(c.Request.Context(), sensor); err != nil {
		h.logger.Errorf("Create sensor failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.logger.Infof("Created sensor %s (%s)", sensor.Name, sensor.ID)
	c.JSON(http.StatusCreated, sensor)
}

func (h *Handler) UpdateSensor(c *gin.Context) {
	id := c.Param("id")
	var req models.SensorUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sensor, err := h.db.GetSensor(c.Request.Context(), id)
	if errors.Is(err, models.ErrSensorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Errorf("Get sensor failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		sensor.Name = *req.Name
	}
	if req.Type != nil {
		sensor.Type = *req.Type
	}
	if req.Location != nil {
		sensor.Location = *req.Location
	}
	if req.Status != nil {
		sensor.Status = *req.Status
	}
	if req.AccuracyRating != nil {
		sensor.AccuracyRating = *req.AccuracyRating
	}
	if err := sensor.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateSensor(c.Request.Context(), sensor); err != nil {
		h.logger.Errorf("Update sensor failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sensor)
}

func (h *Handler) DeleteSensor(c *gin.Context) {
	id := c.Param("id")
	err := h.db.DeleteSensor(c.Request.Context(), id)
	if errors.Is(err, models.ErrSensorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Errorf("Delete sensor failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Live telemetry ---

func (h *Handler) LatestReadings(c *gin.Context) {
	c.JSON(http.StatusOK, h.live.Snapshot().Latest)
}

func (h *Handler) RecentReadings(c *gin.Context) {
	c.JSON(http.StatusOK, h.live.Snapshot().Recent)
}

// --- Alerts ---

func (h *Handler) ActiveAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Active())
}

func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	id := c.Param("id")
	var req models.AlertAcknowledge
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	err := h.db.AcknowledgeAlert(c.Request.Context(), id, req.AcknowledgedBy, now)
	switch {
	case errors.Is(err, models.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, models.ErrAlreadyAcknowledged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Errorf("Acknowledge alert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The durable store is authoritative; the in-memory view follows.
	if err := h.registry.Acknowledge(id, req.AcknowledgedBy, now); err != nil {
		h.logger.Debugf("Registry acknowledge for %s: %v", id, err)
	}
	h.logger.Infof("Alert %s acknowledged by %s", id, req.AcknowledgedBy)
	c.JSON(http.StatusOK, gin.H{
		"id":              id,
		"acknowledged":    true,
		"acknowledged_by": req.AcknowledgedBy,
		"acknowledged_at": now,
	})
}

// --- Calibration analytics ---

func windowFromRange(r string) time.Duration {
	switch r {
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func (h *Handler) CalibrationReport(c *gin.Context) {
	sensorID := c.Query("sensor_id")
	window := windowFromRange(c.DefaultQuery("range", "24h"))

	report, err := h.analytics.Report(c.Request.Context(), sensorID, window)
	if err != nil {
		h.logger.Errorf("Calibration report failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) CreateCalibration(c *gin.Context) {
	var req models.CalibrationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.analytics.RecordCalibration(c.Request.Context(), req)
	if models.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Errorf("Create calibration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// --- Websocket ---

func (h *Handler) ServeWS(c *gin.Context) {
	ws.Serve(h.hub, h.logger, c.Writer, c.Request)
}
