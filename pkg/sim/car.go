package sim

import (
	"math"
	"strconv"
)

const kmhPerMph = 1.609344

// SteeringRad returns the wheel angle in radians.
func (t *Telemetry) SteeringRad() float64 {
	return t.Steering * math.Pi / 180
}

// NormalizedSteering maps the wheel angle onto 0..1 for plotting, with 0.5
// straight ahead and the extremes at ±capRad. Values beyond the cap clamp.
func (t *Telemetry) NormalizedSteering(capRad float64) float64 {
	if capRad <= 0 {
		return 0.5
	}
	n := 0.5 - t.SteeringRad()/(2*capRad)
	return math.Max(0, math.Min(1, n))
}

// GearText returns "R", "N" or the forward gear number.
func (t *Telemetry) GearText() string {
	switch t.Gear {
	case 0:
		return "R"
	case 1:
		return "N"
	default:
		return strconv.Itoa(t.Gear - 1)
	}
}

// Speed returns the car speed in km/h or mph.
func (t *Telemetry) Speed(useKMH bool) float64 {
	if useKMH {
		return t.SpeedKMH
	}
	return t.SpeedKMH / kmhPerMph
}

// FFBClipping reports whether force feedback is saturated.
func (t *Telemetry) FFBClipping() bool {
	return t.FFB >= 1
}
