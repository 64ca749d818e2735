package main

import (
	"context"
	"flag"
	"fmt"
	"mood-server/internal/config"
	"mood-server/internal/domain"
	"mood-server/internal/engine"
	"mood-server/internal/i18n"
	"mood-server/internal/network"
	"mood-server/internal/server"
	"mood-server/internal/storage"
	"mood-server/internal/telemetry"
	"mood-server/internal/version"
	"mood-server/pkg/logger"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Конфигурация: окружение, затем -host/-port
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}

func run(cfg config.Config) error {
	logger.Log.Info("Starting MOOD server...")
	logger.Log.Info(version.String())

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ServiceName)
	if err != nil {
		logger.Log.WithError(err).Warn("Tracing disabled")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Log.WithError(err).Warn("Tracing shutdown failed")
		}
	}()

	// 2. Мир и все, что вокруг него
	seed := cfg.WorldSeed()
	logger.Log.Infof("🎲 World seed: %d", seed)
	world := domain.NewWorld(domain.WithSeed(seed))

	loc, err := i18n.New()
	if err != nil {
		return fmt.Errorf("build message catalog: %w", err)
	}
	hub := network.NewBroadcaster()

	dispOpts := []engine.Option{engine.WithChatWidth(cfg.ChatWidth)}
	var srvOpts []server.Option
	if cfg.JournalPath != "" {
		journal, err := storage.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open command journal: %w", err)
		}
		defer journal.Close()

		logger.Log.WithField("path", cfg.JournalPath).Info("📓 Command journal enabled")
		dispOpts = append(dispOpts, engine.WithJournal(journal))
		srvOpts = append(srvOpts, server.WithJournal(journal))
	}

	disp := engine.NewDispatcher(world, loc, dispOpts...)
	ticker := engine.NewTicker(world, hub, cfg.TickInterval)
	srv := server.New(cfg, world, hub, loc, disp, srvOpts...)

	// 3. Запуск: TCP, тикер и HTTP живут до сигнала
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	g.Go(func() error { return ticker.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServeHTTP(gctx) })

	err = g.Wait()
	logger.Log.Info("Shutting down...")
	return err
}
