package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/config"
	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/gateway"
	"github.com/athena-agent/athena/internal/heartbeat"
	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
	"github.com/athena-agent/athena/internal/storage"
	"github.com/athena-agent/athena/internal/telemetry"
)

// NewGatewayCommand returns the gateway subcommand.
func NewGatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Start the Athena gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runGateway,
	}
}

// loadConfig reads the config file, falling back to defaults when it is missing.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return nil, err
}

func runGateway(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flags override config, on reload too
	flagOverrides := func(c *config.Config) {
		if cmd.IsSet("host") {
			c.Gateway.Host = cmd.String("host")
		}
		if cmd.IsSet("port") {
			c.Gateway.Port = cmd.Int("port")
		}
	}
	flagOverrides(cfg)

	setupLogging(cmd.Bool("debug") || cfg.App.Debug, cfg.Log.Level)

	reloader := config.NewReloader(configPath, config.DotenvPath(), cfg)
	reloader.Override(flagOverrides)
	reloader.OnReload(func(_, next *config.Config) {
		setupLogging(cmd.Bool("debug") || next.App.Debug, next.Log.Level)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry
	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		ServiceName: "athena-gateway",
		Version:     cfg.App.Version,
		Exporter:    cfg.Telemetry.Exporter,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	// Event bus
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	if dir := cfg.Events.LogDir; dir != "" {
		eventLog := storage.NewEventLogger(dir, bus)
		defer eventLog.Close()
		slog.Info("event log enabled", "dir", dir)
	}

	// Registries
	registry := skills.NewRegistry(skills.RegistryConfig{
		Dirs:    cfg.Skills.Dirs,
		Bus:     bus,
		Metrics: metrics,
	})
	if err := registry.Initialize(ctx); err != nil {
		return fmt.Errorf("init skill registry: %w", err)
	}
	defer registry.Cleanup()

	orchestrator := agents.NewOrchestrator(agents.OrchestratorConfig{
		Executor: agents.SimulatedExecutor{Delay: cfg.Agents.TaskDelay.Duration()},
		Bus:      bus,
		Metrics:  metrics,
	})
	if err := orchestrator.Initialize(ctx); err != nil {
		return fmt.Errorf("init agent orchestrator: %w", err)
	}
	defer orchestrator.Cleanup()

	slog.Info("registries ready",
		"skills", registry.Count(),
		"loaded", registry.Len(),
		"agents", orchestrator.AgentCount(),
	)

	dispatcher := &slash.Dispatcher{
		Skills:   registry,
		Agents:   orchestrator,
		Settings: func() map[string]any { return reloader.Current().Settings() },
		Bus:      bus,
	}

	// Gateway server
	server := gateway.NewServer(gateway.Config{
		Host:        cfg.Gateway.Host,
		Port:        cfg.Gateway.Port,
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Gateway.CORSOrigins,
		Bus:         bus,
		Skills:      registry,
		Agents:      orchestrator,
		Commands:    dispatcher,
	})
	reloader.OnReload(func(prev, next *config.Config) {
		if !slices.Equal(prev.Gateway.CORSOrigins, next.Gateway.CORSOrigins) {
			server.SetCORSOrigins(next.Gateway.CORSOrigins)
			slog.Info("cors origins updated", "origins", next.Gateway.CORSOrigins)
		}
	})

	// Heartbeat
	hb := heartbeat.NewWriter(config.HeartbeatPath(), func() heartbeat.Snapshot {
		st := orchestrator.Stats()
		return heartbeat.Snapshot{
			Skills:       registry.Len(),
			Agents:       st.TotalAgents,
			ActiveAgents: st.ActiveAgents,
			Tasks:        st.TotalTasks,
		}
	}, heartbeat.WithAddr(cfg.Gateway.Addr()))
	hb.Start()
	defer hb.Stop()

	// SIGHUP reloads config
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				if err := reloader.Reload(); err != nil {
					slog.Error("config reload failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for signal or error
	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
