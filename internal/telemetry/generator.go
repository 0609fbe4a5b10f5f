package telemetry

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"sugarmill-monitor/internal/models"
)

// Generated field distributions. Each field is drawn uniformly from
// [center, center+spread) and rounded to the precision the field is
// displayed with.
const (
	polBase       = 12.0 // pol in [12, 16), 2 decimals
	polSpread     = 4.0
	brixFactor    = 1.2 // brix = pol*1.2 + [0, 2), 2 decimals
	brixSpread    = 2.0
	moistBase     = 70.0 // moisture in [70, 75), 2 decimals
	moistSpread   = 5.0
	tempBase      = 28.0 // temperature in [28, 32), 1 decimal
	tempSpread    = 4.0
	flowBase      = 45.0 // flow in [45, 55), 1 decimal
	flowSpread    = 10.0
	qualityBase   = 95.0 // quality score in [95, 100], integer
	qualitySpread = 5.0
)

// Generator produces synthetic readings in place of real sensor drivers.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a time-seeded Generator. Pass a fixed-seed rand.Rand
// via NewGeneratorWithRand for deterministic output.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewGeneratorWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns one candidate reading for the sensor, or false when the
// sensor is not active. It has no side effects; persisting the reading is
// the caller's job.
func (g *Generator) Generate(sensor models.Sensor, now time.Time) (models.Reading, bool) {
	if sensor.Status != models.StatusActive {
		return models.Reading{}, false
	}

	pol := round(polBase+g.rng.Float64()*polSpread, 2)
	brix := round(pol*brixFactor+g.rng.Float64()*brixSpread, 2)
	moisture := round(moistBase+g.rng.Float64()*moistSpread, 2)
	temperature := round(tempBase+g.rng.Float64()*tempSpread, 1)
	flow := round(flowBase+g.rng.Float64()*flowSpread, 1)
	quality := int(math.Round(qualityBase + g.rng.Float64()*qualitySpread))

	return models.Reading{
		ID:              uuid.NewString(),
		SensorID:        sensor.ID,
		PolPercentage:   pol,
		Brix:            &brix,
		MoistureContent: &moisture,
		Temperature:     &temperature,
		FlowRate:        &flow,
		QualityScore:    quality,
		Timestamp:       now,
	}, true
}

func round(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
