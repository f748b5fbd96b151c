// cmd/bridge/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/tamzrod/modbus-display-bridge/internal/config"
	"github.com/tamzrod/modbus-display-bridge/internal/pins"
	"github.com/tamzrod/modbus-display-bridge/internal/poller"
	"github.com/tamzrod/modbus-display-bridge/internal/transport"
	"github.com/tamzrod/modbus-display-bridge/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bridge <config.yaml>")
		os.Exit(2)
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	writer.SetLogger(logger.Named("writer"))
	pins.SetLogger(logger.Named("pins"))
	trace := frameLogger(logger, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Output pins (once, at startup)
	// --------------------

	if p := cfg.Bridge.Pins; p != nil {
		if err := applyPins(p, trace); err != nil {
			logger.Fatal("pin setup failed", zap.Error(err))
		}
		logger.Info("pins configured", zap.Int("assignments", len(p.Modes)))
	}

	// --------------------
	// Build per-unit pipelines
	// --------------------

	var (
		wg      sync.WaitGroup
		closers []func() error
	)

	for _, unit := range cfg.Bridge.Units {
		ulog := logger.With(zap.String("unit", unit.ID))

		// ---- poller ----
		p, closePoller, err := poller.Build(unit, trace)
		if err != nil {
			ulog.Fatal("poller build failed", zap.Error(err))
		}
		closers = append(closers, closePoller)

		// ---- writer plan ----
		plan, err := writer.BuildPlan(unit, cfg.Bridge.StatusMemory)
		if err != nil {
			ulog.Fatal("writer plan failed", zap.Error(err))
		}

		// ---- writer clients (DATA + STATUS) ----
		clients, closeWriters, err := writer.BuildEndpointClients(plan, unit.Source.Timeout(), trace)
		if err != nil {
			ulog.Fatal("writer clients failed", zap.Error(err))
		}
		closers = append(closers, closeWriters)

		dataWriter := writer.New(plan, clients)

		// Status writer (optional per unit)
		statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)

		// ---- channel between poller and writer ----
		out := make(chan poller.PollResult)

		o := &orchestrator{
			data:   dataWriter,
			status: statusWriter,
			log:    ulog,
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			o.run(ctx, out)
		}()
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()

		ulog.Info("unit started",
			zap.String("source", unit.Source.Endpoint),
			zap.Int("fields", len(unit.Fields)),
			zap.Int("targets", len(unit.Targets)),
			zap.Bool("status", statusEnabled),
		)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()

	for _, c := range closers {
		if err := c(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
}

func applyPins(p *config.PinsConfig, trace *log.Logger) error {
	conn, err := transport.Dial(p.Link.TransportConfig(trace))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := pins.NewRegisterController(conn.Unit(p.Link.UnitID), p.BaseAddress, p.Count)
	if err != nil {
		return err
	}

	as := make([]pins.Assignment, 0, len(p.Modes))
	for _, m := range p.Modes {
		as = append(as, pins.Assignment{Pin: m.Pin, Mode: m.Mode})
	}
	return pins.Apply(ctrl, as)
}
