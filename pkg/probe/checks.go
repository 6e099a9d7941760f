package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"traces/pkg/sim"
)

// SimTelemetry checks that the sim client answers a telemetry read.
// A disconnected sim is not an error; the overlay waits for it.
func SimTelemetry(c sim.Client) CheckFunc {
	return func(ctx context.Context) error {
		_, err := c.GetTelemetry(ctx)
		if errors.Is(err, sim.ErrNotConnected) {
			return nil
		}
		return err
	}
}

// ListenAddress checks that addr can be bound.
func ListenAddress(addr string) CheckFunc {
	return func(ctx context.Context) error {
		var lc net.ListenConfig
		l, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return l.Close()
	}
}

// WritableDir checks that files can be created next to path.
func WritableDir(path string) CheckFunc {
	return func(ctx context.Context) error {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		f, err := os.CreateTemp(dir, ".probe-*")
		if err != nil {
			return fmt.Errorf("%s is not writable: %w", dir, err)
		}
		name := f.Name()
		f.Close()
		return os.Remove(name)
	}
}
