package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "FullLine",
			input: `time=2026-03-02T18:04:11.512+01:00 level=INFO msg="Recorder session started" rate="30 " session=5d0c9e1a-4f7b-4c3e-9a51-2b6f0a7e8d13 car=0 path=./data/sessions.db`,
			want:  "18:04:11 Recorder session started (car=0, path=./data/sessions.db, rate=30)",
		},
		{
			name:  "NoParams",
			input: `time=2026-03-02T18:04:11.512+01:00 level=WARN msg=Paused`,
			want:  "18:04:11 Paused",
		},
		{
			name:  "NoTime",
			input: `level=DEBUG msg="Trace tick" channel=brake`,
			want:  "Trace tick (channel=brake)",
		},
		{
			name:  "NotSlog",
			input: "plain text",
			want:  "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLogLine(tt.input); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
