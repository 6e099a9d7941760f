package sim

import (
	"strings"
	"time"
)

const (
	StageDriving    = "driving"
	StageStationary = "stationary"
	StageReplay     = "replay"
	StagePaused     = "paused"
	StageRewinding  = "rewinding"
)

// StageMachine tracks the driving session phase across 10 Hz global-data
// ticks. It only labels the session for display and logging; traces and
// histories react to the raw time multiplier of every sample.
type StageMachine struct {
	current        string
	candidate      string
	confirmations  int
	lastTransition map[string]time.Time
	now            func() time.Time
}

// NewStageMachine creates a stage machine in an uninitialized state.
func NewStageMachine() *StageMachine {
	return &StageMachine{
		lastTransition: make(map[string]time.Time),
		now:            time.Now,
	}
}

// Update evaluates telemetry and returns the current stage.
func (m *StageMachine) Update(t *Telemetry) string {
	candidate := detectStage(t)

	// First tick: adopt without hysteresis
	if m.current == "" {
		m.current = candidate
		m.lastTransition[m.current] = m.now()
		return m.current
	}

	// Hysteresis: Require 2 ticks to confirm state change
	switch {
	case candidate == m.current:
		m.candidate = ""
		m.confirmations = 0
	case candidate == m.candidate:
		m.confirmations++
		if m.confirmations >= 1 {
			m.current = candidate
			m.lastTransition[m.current] = m.now()
			m.candidate = ""
			m.confirmations = 0
		}
	default:
		m.candidate = candidate
		m.confirmations = 0
	}

	return m.current
}

func (m *StageMachine) Current() string {
	return m.current
}

// GetLastTransition returns the timestamp of the last transition to the given stage.
func (m *StageMachine) GetLastTransition(stage string) time.Time {
	return m.lastTransition[stage]
}

// StageDuration returns how long the current stage has been held.
func (m *StageMachine) StageDuration() time.Duration {
	since, ok := m.lastTransition[m.current]
	if !ok {
		return 0
	}
	return m.now().Sub(since)
}

func detectStage(t *Telemetry) string {
	switch {
	case t.ReplayTimeMultiplier < 0:
		return StageRewinding
	case t.ReplayTimeMultiplier == 0:
		return StagePaused
	case t.ReplayTimeMultiplier != 1:
		return StageReplay
	case t.SpeedKMH < 1:
		return StageStationary
	default:
		return StageDriving
	}
}

// FormatStage returns a human-readable title for the stage.
func FormatStage(s string) string {
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
