package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urbanii/monitor-client/internal/backend"
	"github.com/urbanii/monitor-client/internal/dashboard"
	"github.com/urbanii/monitor-client/internal/logger"
	"github.com/urbanii/monitor-client/internal/metrics"
	"github.com/urbanii/monitor-client/internal/render"
)

func main() {
	cfg := dashboard.LoadEnv(dashboard.DefaultConfig())

	var logLevel string
	var logColor bool

	flag.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "Monitoring backend base URL")
	flag.DurationVar(&cfg.VideoInterval, "video-interval", cfg.VideoInterval, "Video frame polling interval")
	flag.DurationVar(&cfg.EventsInterval, "events-interval", cfg.EventsInterval, "Event polling interval")
	flag.DurationVar(&cfg.HealthInterval, "health-interval", cfg.HealthInterval, "Health probe interval")
	flag.IntVar(&cfg.EventsLimit, "events-limit", cfg.EventsLimit, "Max events per poll batch")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Backend request timeout")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics server address")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, silent)")
	flag.BoolVar(&logColor, "log-color", true, "Enable colored log output")
	flag.Parse()

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Init(level, os.Stderr, logColor)

	logger.Info("Main", "monitor client starting")
	logger.Info("Main", "backend: %s", cfg.BackendURL)
	logger.Info("Main", "intervals: video=%s events=%s health=%s", cfg.VideoInterval, cfg.EventsInterval, cfg.HealthInterval)

	m := metrics.New()
	go func() {
		logger.Info("Main", "metrics server on %s", cfg.MetricsAddr)
		if err := m.StartServer(cfg.MetricsAddr); err != nil {
			logger.Error("Main", "metrics server error: %v", err)
		}
	}()

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	scenes := dashboard.NewSceneRegistry(client)
	poller := dashboard.NewPoller(cfg, client, scenes, render.NewConsole(), m)

	poller.Start()

	// Scene switching from stdin: type a scene id and press Enter.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			id := strings.TrimSpace(scanner.Text())
			if id == "" {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := poller.SwitchScene(ctx, id); err != nil {
				logger.Warn("Main", "scene switch to %q failed: %v", id, err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Main", "shutting down")
	poller.Stop()
	logger.Info("Main", "stopped")
}
