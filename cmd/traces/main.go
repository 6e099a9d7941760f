package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"traces/internal/api"
	"traces/pkg/config"
	"traces/pkg/host"
	"traces/pkg/host/ebitenhost"
	"traces/pkg/logging"
	"traces/pkg/overlay"
	"traces/pkg/probe"
	"traces/pkg/sim"
	"traces/pkg/store"
	"traces/pkg/version"
)

const defaultConfigPath = "configs/traces.yaml"

var (
	configPath = flag.String("config", "", "Path to the config file (overrides TRACES_CONFIG)")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	headless   = flag.Bool("headless", false, "Run without a window")
	headlessHz = flag.Int("hz", 60, "Headless tick rate")
	maxTicks   = flag.Int("ticks", 0, "Stop the headless host after this many ticks (0 = run until interrupted)")
)

// options are the command line choices that are not part of the config file.
type options struct {
	configPath string
	headless   bool
	hz         int
	maxTicks   int
}

func main() {
	flag.Parse()

	// A missing .env is fine
	_ = godotenv.Load()

	path := resolveConfigPath(*configPath)

	if *initConfig {
		if err := config.GenerateDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", path)
		return
	}

	opts := options{
		configPath: path,
		headless:   *headless,
		hz:         *headlessHz,
		maxTicks:   *maxTicks,
	}
	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("TRACES_CONFIG"); env != "" {
		return env
	}
	return defaultConfigPath
}

func run(ctx context.Context, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Traces Started", "version", version.Version, "config", opts.configPath)

	var st store.Store
	if appCfg.Recorder.Enabled || appCfg.Sim.Provider == "replay" {
		sqlStore, err := store.Open(appCfg.Recorder.Path)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer sqlStore.Close()
		st = sqlStore
	}

	simClient, err := initializeSimClient(ctx, appCfg, st)
	if err != nil {
		return fmt.Errorf("failed to initialize sim client: %w", err)
	}
	defer simClient.Close()

	if err := probe.Summarize(probe.Run(ctx, startupProbes(appCfg, simClient))); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	app, err := overlay.New(appCfg, simClient, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build overlay: %w", err)
	}

	var counters api.Counters
	if appCfg.Recorder.Enabled {
		rec, err := store.NewRecorder(ctx, st, appCfg.Traces.SampleRate, 0, appCfg.Recorder.BatchSize)
		if err != nil {
			return fmt.Errorf("failed to start recorder: %w", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				slog.Error("Recorder flush failed", "error", err)
			}
			slog.Info("Recording closed", "session", rec.Session().ID, "written", rec.Written(), "dropped", rec.Dropped())
		}()
		app.SetRecorder(rec)
		counters = rec
	}

	serverDone := make(chan error, 1)
	if appCfg.Server.Enabled {
		srv := newServer(ctx, appCfg, app, st, counters, cancel)
		go func() {
			err := runServerLifecycle(ctx, srv)
			if err != nil {
				cancel()
			}
			serverDone <- err
		}()
	} else {
		serverDone <- nil
	}

	hostErr := runHost(ctx, app, opts)
	cancel()

	if err := <-serverDone; err != nil {
		slog.Error("Server stopped with error", "error", err)
	}
	return hostErr
}

func startupProbes(cfg *config.Config, client sim.Client) []probe.Probe {
	probes := []probe.Probe{
		{Name: "sim telemetry", Check: probe.SimTelemetry(client)},
	}
	if cfg.Recorder.Enabled {
		probes = append(probes, probe.Probe{Name: "recorder path", Check: probe.WritableDir(cfg.Recorder.Path), Critical: true})
	}
	if cfg.Server.Enabled {
		probes = append(probes, probe.Probe{Name: "server address", Check: probe.ListenAddress(cfg.Server.Address), Critical: true})
	}
	return probes
}

func runHost(ctx context.Context, app *overlay.App, opts options) error {
	if opts.headless {
		surface, err := host.RunHeadless(ctx, app, host.HeadlessOptions{Hz: opts.hz, MaxTicks: opts.maxTicks})
		if err != nil {
			return err
		}
		slog.Info("Last headless frame", "quads", len(surface.Quads()), "labels", len(surface.Texts()))
		return nil
	}
	return ebitenhost.Run(ctx, app, ebitenhost.DefaultOptions())
}

func newServer(ctx context.Context, cfg *config.Config, app *overlay.App, st store.Store, counters api.Counters, shutdown func()) *http.Server {
	room := api.NewRoom(cfg.Server.BroadcastInterval.Std())
	go room.Run(ctx)
	app.SetPublisher(room)

	var sessions *api.SessionHandler
	if st != nil {
		sessions = api.NewSessionHandler(st)
	}

	srv := api.NewServer(cfg.Server.Address,
		api.NewTelemetryHandler(app),
		api.NewGeometryHandler(app),
		api.NewStatsHandler(app, counters, room),
		sessions,
		room,
		shutdown,
	)
	srv.Handler = loggingMiddleware(srv.Handler)
	return srv
}

func runServerLifecycle(ctx context.Context, srv *http.Server) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
