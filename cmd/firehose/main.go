// firehose consumes the Captain Up firehose feed: it keeps one WebSocket
// session open, acknowledges every batch and dispatches events to handlers.
// Usage: go run ./cmd/firehose --config configs/firehose.yaml
//
// Credentials may come from the config file or the environment:
//
//	APP_ID     - Captain Up application ID
//	APP_SECRET - Captain Up application secret
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/captainup-firehose/internal/ack"
	"github.com/rickgao/captainup-firehose/internal/config"
	"github.com/rickgao/captainup-firehose/internal/connection"
	"github.com/rickgao/captainup-firehose/internal/dispatch"
	"github.com/rickgao/captainup-firehose/internal/handler"
	"github.com/rickgao/captainup-firehose/internal/metrics"
	"github.com/rickgao/captainup-firehose/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/firehose.yaml", "path to config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger, err := newLogger(cfg.Log)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	logger.Info("starting firehose consumer",
		version.Attrs(),
		"config", *configPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("firehose consumer failed", "error", err)
		os.Exit(1)
	}

	logger.Info("firehose consumer stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	tracker := ack.NewTracker(ack.NewSet(cfg.Firehose.AckCapacity), m, logger)
	dispatcher := dispatch.NewDispatcher(dispatch.NewRegistry(handler.Default(logger)), m, logger)

	supCfg := connection.SupervisorConfig{
		Session: connection.SessionConfig{
			URL:              connection.BuildURL(cfg.Firehose.URL, cfg.Firehose.AppID, cfg.Firehose.AppSecret),
			HandshakeTimeout: cfg.Firehose.HandshakeTimeout,
			WriteTimeout:     cfg.Firehose.WriteTimeout,
		},
		HeartbeatInterval: cfg.Firehose.HeartbeatInterval,
		ReconnectDelay:    cfg.Firehose.ReconnectDelay,
	}
	sup := connection.NewSupervisor(supCfg, tracker, dispatcher,
		connection.WithLogger(logger),
		connection.WithMetrics(m),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := sup.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Metrics.Enabled {
		opsServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           newOpsHandler(sup, reg, cfg.Metrics.Path, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// The ops server is optional: its failure is logged and the
		// consumer keeps running.
		g.Go(func() error {
			logger.Info("starting ops server",
				"port", cfg.Metrics.Port,
				"metrics_path", cfg.Metrics.Path,
			)
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server failed", "error", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := opsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ops server shutdown", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSON() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}
