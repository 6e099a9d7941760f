// Package sim provides simulator client interfaces and types.
package sim

// State represents the connection and activity state of the simulator.
type State string

const (
	// StateDisconnected indicates no connection to the simulator.
	StateDisconnected State = "disconnected"
	// StateInactive indicates connected but not driving (menu/pause).
	StateInactive State = "inactive"
	// StateActive indicates connected and driving or replaying.
	StateActive State = "active"
)

// StateForMultiplier derives the activity state from the time multiplier of
// a connected simulator.
func StateForMultiplier(timeMul float64) State {
	if timeMul == 0 {
		return StateInactive
	}
	return StateActive
}
