package telemetry

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"sugarmill-monitor/internal/models"
)

func testSensor(status string) models.Sensor {
	return models.Sensor{ID: "sensor-1", Name: "Line-1", Status: status}
}

func TestGenerateSkipsInactiveSensors(t *testing.T) {
	g := NewGeneratorWithRand(rand.New(rand.NewSource(1)))
	now := time.Now()

	for _, status := range []string{models.StatusMaintenance, models.StatusOffline} {
		if _, ok := g.Generate(testSensor(status), now); ok {
			t.Fatalf("expected no reading for %s sensor", status)
		}
	}
	if _, ok := g.Generate(testSensor(models.StatusActive), now); !ok {
		t.Fatalf("expected a reading for an active sensor")
	}
}

// roundedTo reports whether v carries at most the given number of decimals.
func roundedTo(v float64, decimals int) bool {
	shift := math.Pow(10, float64(decimals))
	return math.Abs(v*shift-math.Round(v*shift)) < 1e-9
}

func TestGenerateFieldBounds(t *testing.T) {
	g := NewGeneratorWithRand(rand.New(rand.NewSource(42)))
	sensor := testSensor(models.StatusActive)
	now := time.Now()

	for i := 0; i < 1000; i++ {
		r, ok := g.Generate(sensor, now)
		if !ok {
			t.Fatal("expected a reading")
		}
		if r.ID == "" || r.SensorID != sensor.ID || !r.Timestamp.Equal(now) {
			t.Fatalf("malformed reading identity: %+v", r)
		}
		if r.PolPercentage < 12 || r.PolPercentage > 16 {
			t.Fatalf("pol %v outside [12, 16]", r.PolPercentage)
		}
		if !roundedTo(r.PolPercentage, 2) {
			t.Fatalf("pol %v not rounded to 2 decimals", r.PolPercentage)
		}
		if r.Brix == nil || *r.Brix < 12*1.2 || *r.Brix > 16*1.2+2 || !roundedTo(*r.Brix, 2) {
			t.Fatalf("brix out of range or badly rounded: %v", r.Brix)
		}
		if r.MoistureContent == nil || *r.MoistureContent < 70 || *r.MoistureContent > 75 || !roundedTo(*r.MoistureContent, 2) {
			t.Fatalf("moisture out of range or badly rounded: %v", r.MoistureContent)
		}
		if r.Temperature == nil || *r.Temperature < 28 || *r.Temperature > 32 || !roundedTo(*r.Temperature, 1) {
			t.Fatalf("temperature out of range or badly rounded: %v", r.Temperature)
		}
		if r.FlowRate == nil || *r.FlowRate < 45 || *r.FlowRate > 55 || !roundedTo(*r.FlowRate, 1) {
			t.Fatalf("flow out of range or badly rounded: %v", r.FlowRate)
		}
		if r.QualityScore < 95 || r.QualityScore > 100 {
			t.Fatalf("quality score %d outside [95, 100]", r.QualityScore)
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("generated reading failed validation: %v", err)
		}
	}
}

func TestGenerateDistinctIDs(t *testing.T) {
	g := NewGeneratorWithRand(rand.New(rand.NewSource(7)))
	sensor := testSensor(models.StatusActive)
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		r, _ := g.Generate(sensor, now)
		if seen[r.ID] {
			t.Fatalf("duplicate reading id %s", r.ID)
		}
		seen[r.ID] = true
	}
}
