package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	DB struct {
		DSN string
	}
	Kafka struct {
		Broker       string
		ReadingTopic string
		AlertTopic   string
		GroupID      string
	}
	API struct {
		Port     string
		BasePath string
	}
	Telemetry struct {
		TickInterval    time.Duration
		HistoryCapacity int
		AlertDisplayMax int
		TargetPol       float64
		PolTolerance    float64
	}
	Escalation struct {
		TelegramBotToken  string
		TelegramChatID    int64
		TelegramRateLimit int
		SMTPServer        string
		SMTPPort          int
		SMTPUsername      string
		SMTPPassword      string
		EmailFrom         string
		EmailTo           string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Kafka settings; empty broker means the in-process bus only
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.ReadingTopic = os.Getenv("KAFKA_READING_TOPIC")
	cfg.Kafka.AlertTopic = os.Getenv("KAFKA_ALERT_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Telemetry settings
	if secs, err := strconv.Atoi(os.Getenv("TICK_INTERVAL_SECONDS")); err == nil && secs > 0 {
		cfg.Telemetry.TickInterval = time.Duration(secs) * time.Second
	}
	if n, err := strconv.Atoi(os.Getenv("HISTORY_CAPACITY")); err == nil && n > 0 {
		cfg.Telemetry.HistoryCapacity = n
	}
	if n, err := strconv.Atoi(os.Getenv("ALERT_DISPLAY_MAX")); err == nil && n > 0 {
		cfg.Telemetry.AlertDisplayMax = n
	}
	if f, err := strconv.ParseFloat(os.Getenv("TARGET_POL"), 64); err == nil && f > 0 {
		cfg.Telemetry.TargetPol = f
	}
	if f, err := strconv.ParseFloat(os.Getenv("POL_TOLERANCE"), 64); err == nil && f > 0 {
		cfg.Telemetry.PolTolerance = f
	}

	// Escalation settings (disabled unless configured)
	cfg.Escalation.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Escalation.TelegramChatID = id
	}
	if n, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil && n > 0 {
		cfg.Escalation.TelegramRateLimit = n
	}
	cfg.Escalation.SMTPServer = os.Getenv("EMAIL_SMTP_SERVER")
	if p, err := strconv.Atoi(os.Getenv("EMAIL_SMTP_PORT")); err == nil {
		cfg.Escalation.SMTPPort = p
	}
	cfg.Escalation.SMTPUsername = os.Getenv("EMAIL_USERNAME")
	cfg.Escalation.SMTPPassword = os.Getenv("EMAIL_PASSWORD")
	cfg.Escalation.EmailFrom = os.Getenv("EMAIL_FROM")
	cfg.Escalation.EmailTo = os.Getenv("EMAIL_TO")

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.ReadingTopic == "" {
		cfg.Kafka.ReadingTopic = "reading-inserted"
	}
	if cfg.Kafka.AlertTopic == "" {
		cfg.Kafka.AlertTopic = "alert-inserted"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "sugarmill-monitor"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Telemetry.TickInterval == 0 {
		cfg.Telemetry.TickInterval = 3 * time.Second
	}
	if cfg.Telemetry.HistoryCapacity == 0 {
		cfg.Telemetry.HistoryCapacity = 50
	}
	if cfg.Telemetry.AlertDisplayMax == 0 {
		cfg.Telemetry.AlertDisplayMax = 10
	}
	if cfg.Telemetry.TargetPol == 0 {
		cfg.Telemetry.TargetPol = 14.0
	}
	if cfg.Telemetry.PolTolerance == 0 {
		cfg.Telemetry.PolTolerance = 2.5
	}
	if cfg.Escalation.TelegramRateLimit == 0 {
		cfg.Escalation.TelegramRateLimit = 1
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
