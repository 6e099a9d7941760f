package overlay

import (
	"time"

	"traces/pkg/render"
	"traces/pkg/sim"
)

// Snapshot is an immutable copy of the overlay state. It is safe to share
// between goroutines.
type Snapshot struct {
	Tick           uint64                 `json:"tick"`
	Timestamp      time.Time              `json:"timestamp"`
	Stage          string                 `json:"stage"`
	Mode           string                 `json:"mode"`
	TimeMultiplier float64                `json:"time_multiplier"`
	FocusedCar     int                    `json:"focused_car"`
	Telemetry      sim.Telemetry          `json:"telemetry"`
	Speed          string                 `json:"speed"`
	Gear           string                 `json:"gear"`
	Width          float64                `json:"width"`
	Height         float64                `json:"height"`
	Layers         []render.LayerSnapshot `json:"layers"`
	Histories      map[string][]float64   `json:"histories"`
}

// QuadCount returns the number of quads across all layers.
func (s *Snapshot) QuadCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Quads)
	}
	return n
}

// Layer returns the named layer.
func (s *Snapshot) Layer(name string) (render.LayerSnapshot, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return render.LayerSnapshot{}, false
}
