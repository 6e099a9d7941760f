package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/sim"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{Name: "ok", Check: func(ctx context.Context) error { return nil }, Critical: true},
		{Name: "minor", Check: func(ctx context.Context) error { return errors.New("minor issue") }},
		{
			Name:    "slow",
			Timeout: 10 * time.Millisecond,
			Check: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
	}

	results := Run(context.Background(), probes)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.ErrorIs(t, results[2].Error, context.DeadlineExceeded)
}

func TestSummarize(t *testing.T) {
	fail := errors.New("fail")
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{"AllPass", []Result{{Probe: Probe{Name: "P1", Critical: true}}}, false},
		{"CriticalFailure", []Result{{Probe: Probe{Name: "P1", Critical: true}, Error: fail}}, true},
		{"NonCriticalFailure", []Result{{Probe: Probe{Name: "P1"}, Error: fail}}, false},
		{"Mixed", []Result{
			{Probe: Probe{Name: "P1"}, Error: fail},
			{Probe: Probe{Name: "P2", Critical: true}, Error: fail},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Summarize(tt.results)
			if tt.wantErr {
				assert.ErrorIs(t, err, fail)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type stubClient struct{ err error }

func (s stubClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	return sim.Telemetry{}, s.err
}
func (s stubClient) GetState() sim.State { return sim.StateActive }
func (s stubClient) Close() error { return nil }

func TestSimTelemetry(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, SimTelemetry(stubClient{})(ctx))
	assert.NoError(t, SimTelemetry(stubClient{err: sim.ErrNotConnected})(ctx))
	assert.Error(t, SimTelemetry(stubClient{err: errors.New("broken")})(ctx))
}

func TestListenAddress(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ListenAddress("127.0.0.1:0")(ctx))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	assert.Error(t, ListenAddress(l.Addr().String())(ctx))
}

func TestWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, WritableDir(filepath.Join(dir, "sessions.db"))(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
