// Package main prints the driver inputs of the configured sim source to the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traces/pkg/config"
	"traces/pkg/sim"
	"traces/pkg/sim/mocksim"
	"traces/pkg/sim/replaysim"
	"traces/pkg/store"
)

var (
	configPath = flag.String("config", "configs/traces.yaml", "Path to the config file")
	rate       = flag.Int("rate", 10, "Lines printed per second")
	duration   = flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
)

func main() {
	flag.Parse()

	fmt.Println("Traces Sim Test - Driver Inputs")
	fmt.Println("===============================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("ERROR: Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *rate <= 0 {
		fmt.Printf("ERROR: Invalid rate %d\n", *rate)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client, closeFn, err := openClient(ctx, cfg)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	fmt.Printf("Source: %s, %d lines/s\n", cfg.Sim.Provider, *rate)
	printLoop(ctx, client, cfg, *rate)
	fmt.Println("\nDisconnected. Goodbye!")
}

func openClient(ctx context.Context, cfg *config.Config) (sim.Client, func(), error) {
	if cfg.Sim.Provider != "replay" {
		m := mocksim.NewClient(mocksim.Config{
			DurationDrive:  cfg.Sim.Mock.DurationDrive.Std(),
			DurationPause:  cfg.Sim.Mock.DurationPause.Std(),
			DurationRewind: cfg.Sim.Mock.DurationRewind.Std(),
			SteeringLock:   cfg.Sim.Mock.SteeringLock,
		})
		return m, func() { _ = m.Close() }, nil
	}

	st, err := store.Open(cfg.Recorder.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	id := cfg.Sim.Replay.Session
	if id == "" {
		sessions, err := st.ListSessions(ctx)
		if err != nil || len(sessions) == 0 {
			st.Close()
			return nil, nil, fmt.Errorf("no session to replay (err=%v)", err)
		}
		id = sessions[0].ID
	}
	c, err := replaysim.Load(ctx, st, id, cfg.Sim.Replay.Loop)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return c, func() { _ = c.Close(); _ = st.Close() }, nil
}

func printLoop(ctx context.Context, client sim.Client, cfg *config.Config, rate int) {
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	capRad := cfg.SteeringCapRad()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t, err := client.GetTelemetry(ctx)
			if err != nil {
				fmt.Printf("  telemetry error: %v\n", err)
				continue
			}
			fmt.Printf("%-8s thr=%.2f brk=%.2f clu=%.2f steer=%6.1f° (%.2f) ffb=%.2f gear=%-2s %6.1f %s x%.1f\n",
				client.GetState(),
				t.Throttle, t.Brake, t.Clutch,
				t.Steering, t.NormalizedSteering(capRad),
				t.FFB, t.GearText(),
				t.Speed(cfg.General.UseKMH), speedUnit(cfg.General.UseKMH),
				t.ReplayTimeMultiplier)
		}
	}
}

func speedUnit(kmh bool) string {
	if kmh {
		return "km/h"
	}
	return "mph"
}
