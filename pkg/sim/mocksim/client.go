// Package mocksim provides a synthetic driver for running the overlay
// without a simulator.
package mocksim

import (
	"context"
	"math"
	"sync"
	"time"

	"traces/pkg/sim"
)

const (
	// Stages
	StageDriving   = "DRIVING"
	StagePaused    = "PAUSED"
	StageRewinding = "REWINDING"

	// Physics constants
	tickRateMs = 10
	lapPeriod  = 12.0 // seconds of one synthetic corner sequence
	topGear    = 6
)

// Config holds timing configuration for the mock simulation. A zero
// DurationPause and DurationRewind keeps the driver on track forever.
type Config struct {
	DurationDrive  time.Duration
	DurationPause  time.Duration
	DurationRewind time.Duration
	SteeringLock   float64 // degrees at full lock
}

// DefaultConfig returns a config that drives, pauses and rewinds.
func DefaultConfig() Config {
	return Config{
		DurationDrive:  60 * time.Second,
		DurationPause:  5 * time.Second,
		DurationRewind: 3 * time.Second,
		SteeringLock:   270,
	}
}

// MockClient implements sim.Client.
type MockClient struct {
	mu         sync.Mutex
	tel        sim.Telemetry
	stage      string
	stageStart time.Time
	config     Config
	lapTime    float64
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewClient creates a new mock simulator client and starts its physics loop.
func NewClient(cfg Config) *MockClient {
	m := &MockClient{
		config:     cfg,
		stopCh:     make(chan struct{}),
		stage:      StageDriving,
		stageStart: time.Now(),
		tel: sim.Telemetry{
			Gear:                 1,
			ReplayTimeMultiplier: 1,
		},
	}

	m.wg.Add(1)
	go m.physicsLoop()
	return m
}

// GetTelemetry returns the current state of the synthetic car.
func (m *MockClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tel, nil
}

// GetState returns the simulator activity state.
func (m *MockClient) GetState() sim.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sim.StateForMultiplier(m.tel.ReplayTimeMultiplier)
}

// Stage returns the current scenario stage.
func (m *MockClient) Stage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Close stops the physics loop and releases resources.
func (m *MockClient) Close() error {
	close(m.stopCh)
	m.wg.Wait()
	return nil
}

func (m *MockClient) physicsLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(time.Duration(tickRateMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.update(time.Now())
		}
	}
}

func (m *MockClient) update(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dt := float64(tickRateMs) / 1000.0
	stageDuration := now.Sub(m.stageStart)
	cycles := m.config.DurationPause > 0 || m.config.DurationRewind > 0

	switch m.stage {
	case StageDriving:
		m.tel.ReplayTimeMultiplier = 1
		m.lapTime += dt
		m.drive(dt)
		if cycles && stageDuration >= m.config.DurationDrive {
			m.setStage(StagePaused, now)
		}

	case StagePaused:
		m.tel.ReplayTimeMultiplier = 0
		if stageDuration >= m.config.DurationPause {
			m.setStage(StageRewinding, now)
		}

	case StageRewinding:
		m.tel.ReplayTimeMultiplier = -1
		m.lapTime = math.Max(0, m.lapTime-dt)
		m.drive(0)
		if stageDuration >= m.config.DurationRewind {
			m.setStage(StageDriving, now)
		}
	}
}

func (m *MockClient) setStage(stage string, now time.Time) {
	m.stage = stage
	m.stageStart = now
}

// drive derives the pedal and wheel inputs from the position within the
// synthetic corner sequence: a straight, a braking zone with downshifts and
// a corner.
func (m *MockClient) drive(dt float64) {
	phase := math.Mod(m.lapTime, lapPeriod) / lapPeriod
	t := &m.tel

	switch {
	case phase < 0.5: // straight
		t.Throttle = math.Min(1, phase*8)
		t.Brake = 0
		t.Steering = 5 * math.Sin(m.lapTime*3)
	case phase < 0.65: // braking zone
		t.Throttle = 0
		t.Brake = 0.95 - (phase-0.5)*4
		t.Steering = 0
	default: // corner
		x := (phase - 0.65) / 0.35
		t.Throttle = math.Max(0, x*1.2-0.2)
		t.Brake = math.Max(0, 0.3-x)
		t.Steering = m.config.SteeringLock * 0.4 * math.Sin(x*math.Pi)
	}

	// Clutch dips on every gear change in the first instants of a shift.
	shiftPhase := math.Mod(phase*float64(topGear*2), 1)
	if shiftPhase < 0.04 {
		t.Clutch = 1 - shiftPhase/0.04
	} else {
		t.Clutch = 0
	}

	accel := t.Throttle*9 - t.Brake*25 - 0.5
	t.SpeedKMH = math.Max(0, math.Min(280, t.SpeedKMH+accel*dt*3.6))
	t.Gear = gearForSpeed(t.SpeedKMH)
	t.FFB = math.Abs(t.Steering)/m.steeringLock()*1.5 + t.Brake*0.3
}

func (m *MockClient) steeringLock() float64 {
	if m.config.SteeringLock <= 0 {
		return 270
	}
	return m.config.SteeringLock
}

func gearForSpeed(kmh float64) int {
	if kmh < 1 {
		return 1
	}
	g := 2 + int(kmh/50)
	if g > topGear+1 {
		g = topGear + 1
	}
	return g
}
