package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"time"
	"wodassist-backend/internal/components/configutil"
	"wodassist-backend/internal/components/metrics"
	"wodassist-backend/internal/components/serviceutil"
	"wodassist-backend/internal/components/telemetry"
	"wodassist-backend/internal/scrapers/wodify"
	"wodassist-backend/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	configName := flag.String("config", "config.json5", "path to the config file")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	cfg, err := configutil.ReadConfig[Config](*configName)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no config file found, using defaults", "config", *configName)
	} else if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	cfg.applyDefaults()
	err = cfg.validate()
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}

	shutdown := initTelemetry(ctx, *verbose, cfg.Otlp)
	defer shutdown()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	client, err := wodify.NewClient(
		cfg.BaseUrl,
		wodify.WithCustomTelemetryAPI(telemetry.SlogAPI{}),
		wodify.WithMetrics(collector),
		wodify.WithTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond),
		wodify.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	)
	if err != nil {
		serviceutil.Fatal("failed to create wodify client", err)
	}

	go func() {
		start := time.Now()
		err := client.Preload(ctx)
		if err != nil {
			slog.Error("failed to preload wodify endpoints", "err", err)
			return
		}
		slog.Info("preloaded wodify endpoints", "took", time.Since(start).String())
	}()

	router := server.NewRouter(client, server.Options{
		ProgramAliases: cfg.ProgramAliases,
		Metrics:        metrics.Handler(registry),
		Tel:            telemetry.SlogAPI{},
	})
	serviceutil.StartHttpServer(ctx, cfg.ListenPort, router)
}
