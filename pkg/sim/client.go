package sim

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned when a client action requires a connection.
	ErrNotConnected = errors.New("simulator not connected")
)

// Client defines the interface for simulator interaction.
type Client interface {
	// GetTelemetry returns the current driver inputs of the focused car.
	GetTelemetry(ctx context.Context) (Telemetry, error)
	// GetState returns the current simulator connection/activity state.
	GetState() State
	// Close cleans up resources associated with the client.
	Close() error
}

// Telemetry is a snapshot of the focused car's driver inputs.
type Telemetry struct {
	Throttle float64 `json:"throttle"` // 0..1
	Brake    float64 `json:"brake"`    // 0..1
	Clutch   float64 `json:"clutch"`   // 0..1, how far the pedal is pressed
	Steering float64 `json:"steering"` // Wheel angle in degrees, positive to the left
	FFB      float64 `json:"ffb"`      // Force feedback level, >= 1 is clipping
	SpeedKMH float64 `json:"speed_kmh"`
	Gear     int     `json:"gear"` // Raw gear index: 0 = reverse, 1 = neutral, 2 = first

	// ReplayTimeMultiplier is the playback rate of simulated time:
	// positive while driving or replaying, zero when paused, negative
	// while rewinding.
	ReplayTimeMultiplier float64 `json:"time_multiplier"`
	FocusedCar           int     `json:"focused_car"`
}
