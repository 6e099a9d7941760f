package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"traces/pkg/config"
	"traces/pkg/sim"
	"traces/pkg/sim/mocksim"
	"traces/pkg/sim/replaysim"
	"traces/pkg/store"
)

var errNoSessions = errors.New("no recorded sessions to replay")

func initializeSimClient(ctx context.Context, cfg *config.Config, st store.Store) (sim.Client, error) {
	switch cfg.Sim.Provider {
	case "replay":
		id, err := replaySessionID(ctx, cfg, st)
		if err != nil {
			return nil, err
		}
		slog.Info("Sim Source: Replay", "session", id)
		return replaysim.Load(ctx, st, id, cfg.Sim.Replay.Loop)
	default:
		slog.Info("Sim Source: Mock")
		return mocksim.NewClient(mockConfig(cfg.Sim.Mock)), nil
	}
}

// replaySessionID returns the configured session, or the newest one when
// none is configured.
func replaySessionID(ctx context.Context, cfg *config.Config, st store.Store) (string, error) {
	if cfg.Sim.Replay.Session != "" {
		return cfg.Sim.Replay.Session, nil
	}
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return "", errNoSessions
	}
	return sessions[0].ID, nil
}

func mockConfig(c config.MockSimConfig) mocksim.Config {
	return mocksim.Config{
		DurationDrive:  c.DurationDrive.Std(),
		DurationPause:  c.DurationPause.Std(),
		DurationRewind: c.DurationRewind.Std(),
		SteeringLock:   c.SteeringLock,
	}
}
