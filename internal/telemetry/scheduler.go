package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
)

// Store is the slice of the persistence collaborator the scheduler drives.
type Store interface {
	ListSensors(ctx context.Context) ([]models.Sensor, error)
	InsertReading(ctx context.Context, r models.Reading) error
	InsertAlert(ctx context.Context, a models.Alert) error
}

// State of the scheduler. Transitions: idle <-> ticking, then stopped once
// Stop is called; no tick starts after that.
type State string

const (
	StateIdle    State = "idle"
	StateTicking State = "ticking"
	StateStopped State = "stopped"
)

// Scheduler drives the telemetry cadence: every interval it re-reads the
// sensor list and, for each active sensor independently, generates a
// reading, persists it, evaluates it, and emits an alert when flagged.
// One sensor failing never affects the others.
type Scheduler struct {
	store    Store
	pub      bus.Publisher
	gen      *Generator
	emitter  *Emitter
	band     Band
	interval time.Duration
	logger   *logging.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(store Store, pub bus.Publisher, gen *Generator, band Band, interval time.Duration, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		pub:      pub,
		gen:      gen,
		emitter:  NewEmitter(store),
		band:     band,
		interval: interval,
		logger:   logger,
		state:    StateIdle,
		done:     make(chan struct{}),
	}
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Start launches the tick loop. It returns immediately; call Stop to halt.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop cancels the loop and blocks until any in-flight tick has finished.
// After Stop returns no further tick occurs.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	defer s.setState(StateStopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infof("Telemetry scheduler started (interval %v)", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Telemetry scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one generate/evaluate/persist cycle across all active sensors.
// It reports completion only after every per-sensor operation has settled.
func (s *Scheduler) Tick(ctx context.Context) {
	s.setState(StateTicking)
	defer s.setState(StateIdle)

	sensors, err := s.store.ListSensors(ctx)
	if err != nil {
		s.logger.Errorf("Tick aborted, sensor list unavailable: %v", err)
		return
	}

	now := time.Now()
	var wg sync.WaitGroup
	for _, sensor := range sensors {
		// Generation is sequential (the rng is not goroutine safe); the
		// I/O per sensor runs concurrently.
		reading, ok := s.gen.Generate(sensor, now)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(sensor models.Sensor, reading models.Reading) {
			defer wg.Done()
			s.processSensor(ctx, sensor, reading)
		}(sensor, reading)
	}
	wg.Wait()
}

// processSensor persists one sensor's reading and, when flagged, its alert.
// Failures are logged and contained; the sensor self-heals next tick.
func (s *Scheduler) processSensor(ctx context.Context, sensor models.Sensor, reading models.Reading) {
	if err := s.store.InsertReading(ctx, reading); err != nil {
		s.logger.Errorf("Sensor %s: insert reading failed: %v", sensor.Name, err)
		return
	}
	s.publish(ctx, bus.StreamReadingInserted, sensor.ID, reading)

	decision, _ := Evaluate(reading.PolPercentage, s.band)
	if decision != DecisionWarning {
		return
	}

	alert, err := s.emitter.Emit(ctx, sensor, reading)
	if err != nil {
		s.logger.Errorf("Sensor %s: %v", sensor.Name, err)
		return
	}
	s.publish(ctx, bus.StreamAlertInserted, sensor.ID, alert)
	s.logger.Warnf("Alert emitted: %s", alert.Message)
}

func (s *Scheduler) publish(ctx context.Context, stream, key string, entity interface{}) {
	payload, err := json.Marshal(entity)
	if err != nil {
		s.logger.Errorf("Marshal for %s failed: %v", stream, err)
		return
	}
	if err := s.pub.Publish(ctx, stream, key, payload); err != nil {
		s.logger.Errorf("Publish to %s failed: %v", stream, err)
	}
}
