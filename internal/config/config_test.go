package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mill")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telemetry.TickInterval != 3*time.Second {
		t.Fatalf("expected default tick interval 3s, got %v", cfg.Telemetry.TickInterval)
	}
	if cfg.Telemetry.HistoryCapacity != 50 || cfg.Telemetry.AlertDisplayMax != 10 {
		t.Fatalf("unexpected view bounds: %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.TargetPol != 14.0 || cfg.Telemetry.PolTolerance != 2.5 {
		t.Fatalf("unexpected alert band defaults: %+v", cfg.Telemetry)
	}
	if cfg.API.Port != ":8080" || cfg.API.BasePath != "/api/v0" {
		t.Fatalf("unexpected API defaults: %+v", cfg.API)
	}
	if cfg.Kafka.ReadingTopic != "reading-inserted" || cfg.Kafka.AlertTopic != "alert-inserted" {
		t.Fatalf("unexpected topic defaults: %+v", cfg.Kafka)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_DSN is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mill")
	t.Setenv("TICK_INTERVAL_SECONDS", "10")
	t.Setenv("HISTORY_CAPACITY", "100")
	t.Setenv("TARGET_POL", "13.5")
	t.Setenv("POL_TOLERANCE", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telemetry.TickInterval != 10*time.Second {
		t.Fatalf("expected 10s interval, got %v", cfg.Telemetry.TickInterval)
	}
	if cfg.Telemetry.HistoryCapacity != 100 {
		t.Fatalf("expected capacity 100, got %d", cfg.Telemetry.HistoryCapacity)
	}
	if cfg.Telemetry.TargetPol != 13.5 || cfg.Telemetry.PolTolerance != 1.5 {
		t.Fatalf("band overrides not applied: %+v", cfg.Telemetry)
	}
}
