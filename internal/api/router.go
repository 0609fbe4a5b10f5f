package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/logging"
)

func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Sensors
		api.GET("/sensors", h.ListSensors)
		api.POST("/sensors", h.CreateSensor)
		api.PUT("/sensors/:id", h.UpdateSensor)
		api.DELETE("/sensors/:id", h.DeleteSensor)

		// Live telemetry
		api.GET("/readings/latest", h.LatestReadings)
		api.GET("/readings/recent", h.RecentReadings)

		// Alerts
		api.GET("/alerts", h.ActiveAlerts)
		api.POST("/alerts/:id/acknowledge", h.AcknowledgeAlert)

		// Calibration analytics
		api.GET("/analytics/calibration", h.CalibrationReport)
		api.POST("/calibration", h.CreateCalibration)
	}

	r.GET("/ws", h.ServeWS)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "scheduler": h.sched.State()})
	})

	return r
}
