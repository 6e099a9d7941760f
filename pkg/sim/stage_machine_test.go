package sim

import (
	"testing"
	"time"
)

func TestStageMachine(t *testing.T) {
	tests := []struct {
		name     string
		sequence []Telemetry
		expected string
	}{
		{
			name:     "Initial stage is adopted immediately",
			sequence: []Telemetry{{ReplayTimeMultiplier: 0}},
			expected: StagePaused,
		},
		{
			name: "Single tick does not switch",
			sequence: []Telemetry{
				{ReplayTimeMultiplier: 1, SpeedKMH: 100},
				{ReplayTimeMultiplier: 0},
			},
			expected: StageDriving,
		},
		{
			name: "Two ticks confirm",
			sequence: []Telemetry{
				{ReplayTimeMultiplier: 1, SpeedKMH: 100},
				{ReplayTimeMultiplier: -1},
				{ReplayTimeMultiplier: -1},
			},
			expected: StageRewinding,
		},
		{
			name: "Interrupted candidate restarts",
			sequence: []Telemetry{
				{ReplayTimeMultiplier: 1, SpeedKMH: 100},
				{ReplayTimeMultiplier: 0},
				{ReplayTimeMultiplier: -1},
				{ReplayTimeMultiplier: 0},
			},
			expected: StageDriving,
		},
		{
			name: "Stationary car",
			sequence: []Telemetry{
				{ReplayTimeMultiplier: 1, SpeedKMH: 0.2},
			},
			expected: StageStationary,
		},
		{
			name: "Slow motion replay",
			sequence: []Telemetry{
				{ReplayTimeMultiplier: 1, SpeedKMH: 80},
				{ReplayTimeMultiplier: 0.5, SpeedKMH: 80},
				{ReplayTimeMultiplier: 0.5, SpeedKMH: 80},
			},
			expected: StageReplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStageMachine()
			var got string
			for i := range tt.sequence {
				got = m.Update(&tt.sequence[i])
			}
			if got != tt.expected {
				t.Errorf("Update() = %q, want %q", got, tt.expected)
			}
			if m.Current() != got {
				t.Errorf("Current() = %q, want %q", m.Current(), got)
			}
		})
	}
}

func TestStageMachine_Transitions(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewStageMachine()
	m.now = func() time.Time { return clock }

	m.Update(&Telemetry{ReplayTimeMultiplier: 1, SpeedKMH: 50})
	if got := m.GetLastTransition(StageDriving); !got.Equal(clock) {
		t.Errorf("driving transition = %v, want %v", got, clock)
	}

	clock = clock.Add(3 * time.Second)
	m.Update(&Telemetry{ReplayTimeMultiplier: 0})
	clock = clock.Add(time.Second)
	m.Update(&Telemetry{ReplayTimeMultiplier: 0})

	if got := m.GetLastTransition(StagePaused); !got.Equal(clock) {
		t.Errorf("paused transition = %v, want %v", got, clock)
	}

	clock = clock.Add(2 * time.Second)
	if d := m.StageDuration(); d != 2*time.Second {
		t.Errorf("StageDuration() = %v, want 2s", d)
	}
	if !m.GetLastTransition(StageRewinding).IsZero() {
		t.Error("rewinding was never entered")
	}
}

func TestFormatStage(t *testing.T) {
	tests := map[string]string{
		"":             "Unknown",
		StageDriving:   "Driving",
		StageRewinding: "Rewinding",
	}
	for in, want := range tests {
		if got := FormatStage(in); got != want {
			t.Errorf("FormatStage(%q) = %q, want %q", in, got, want)
		}
	}
}
