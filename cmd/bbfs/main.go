package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/bbfs/config"
	"github.com/alejandrodnm/bbfs/internal/adapters/feed"
	"github.com/alejandrodnm/bbfs/internal/adapters/metrics"
	"github.com/alejandrodnm/bbfs/internal/adapters/notify"
	"github.com/alejandrodnm/bbfs/internal/adapters/storage"
	"github.com/alejandrodnm/bbfs/internal/application/engine"
	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/domain/strategy"
	"github.com/alejandrodnm/bbfs/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "refresh once, print the report and exit")
	serve := flag.Bool("serve", false, "run the HTTP API with the background refresh loop")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print the full report (default: compact 1-line)")
	sourceURL := flag.String("url", "", "draw history URL (overrides config)")
	input := flag.String("input", "", "two-digit input: print its BBFS for -day and exit")
	day := flag.String("day", "", "weekday of the predicted draw, used with -input")
	tune := flag.Bool("tune", false, "refresh once, sweep candidate sizes and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *sourceURL != "" {
		cfg.Source.URL = *sourceURL
	}
	setupLogger(cfg.Log)

	registry := strategy.NewRegistry()
	stratCfg, err := strategyConfig(cfg.Strategy)
	if err != nil {
		slog.Error("failed to load strategy weights", "err", err, "path", cfg.Strategy.WeightsFile)
		os.Exit(1)
	}
	generator, err := registry.Build(stratCfg)
	if err != nil {
		slog.Error("failed to build strategy", "err", err)
		os.Exit(1)
	}
	tuner := func(size int) (strategy.Generator, error) {
		c := stratCfg
		c.Size = size
		return registry.Build(c)
	}

	notifier := notify.NewConsole(*table)

	// -input no necesita red ni storage.
	if *input != "" {
		if err := runPredict(generator, notifier, *input, *day); err != nil {
			slog.Error("prediction failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("bbfs starting",
		"config", *configPath,
		"source", cfg.Source.URL,
		"strategy", generator.Name(),
		"size", generator.Size(),
		"interval", cfg.RefreshInterval(),
		"once", *once,
		"serve", *serve,
	)

	// feed.Config toma 0 como "usar el default" y negativo como "sin reintentos".
	retries := *cfg.Source.MaxRetries
	if retries == 0 {
		retries = -1
	}
	client := feed.NewClient(feed.Config{
		Timeout:       cfg.Timeout(),
		RatePerSecond: cfg.Source.RatePerSecond,
		MaxRetries:    retries,
	})

	store, err := storage.NewSQLiteRefreshLog(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		slog.Error("failed to register metrics", "err", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Config{
		SourceURL:       cfg.Source.URL,
		RefreshInterval: cfg.RefreshInterval(),
		StreakWindow:    cfg.Analysis.StreakWindow,
		RecentWindow:    cfg.Analysis.RecentWindow,
		Thresholds:      cfg.Analysis.Thresholds,
		TargetMaxLoss:   *cfg.Strategy.TargetMaxLoss,
		TuneSizes:       cfg.Strategy.TuneSizes,
		PredictionDay:   engine.PredictionDay(cfg.Analysis.PredictionDay),
	}, generator, tuner, client, store, recorder)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *tune:
		err = runTune(ctx, eng)
	case *serve:
		err = runServer(ctx, cfg.Server, eng, reg)
	case *once:
		err = runOnce(ctx, eng, notifier)
	default:
		err = runWatch(ctx, eng, notifier, cfg.RefreshInterval())
	}
	if err != nil {
		slog.Error("bbfs exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bbfs stopped cleanly")
}

func strategyConfig(cfg config.StrategyConfig) (strategy.Config, error) {
	sc := strategy.Config{
		Name:        cfg.Name,
		Size:        cfg.Size,
		FixedDigits: cfg.FixedDigits,
	}
	if cfg.WeightsFile != "" {
		w, err := strategy.LoadWeights(cfg.WeightsFile)
		if err != nil {
			return strategy.Config{}, err
		}
		sc.Weights = &w
	}
	return sc, nil
}

func runServer(ctx context.Context, cfg config.ServerConfig, eng *engine.Engine, reg *prometheus.Registry) error {
	srv := server.New(server.Config{Addr: cfg.Addr}, eng, reg, slog.Default())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	go func() { _ = eng.Run(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runOnce refresca e imprime el reporte. Un refresco fallido es un error:
// no hay nada que reportar.
func runOnce(ctx context.Context, eng *engine.Engine, notifier *notify.Console) error {
	if _, err := eng.Refresh(ctx); err != nil {
		return err
	}
	return report(ctx, eng, notifier)
}

// runWatch refresca y reporta en cada tick hasta que se cancele el contexto.
// Un refresco fallido conserva los datos anteriores y se reporta igual.
func runWatch(ctx context.Context, eng *engine.Engine, notifier *notify.Console, interval time.Duration) error {
	if interval <= 0 {
		return runOnce(ctx, eng, notifier)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = eng.Refresh(ctx)
		if err := report(ctx, eng, notifier); err != nil {
			slog.Warn("report failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func report(ctx context.Context, eng *engine.Engine, notifier *notify.Console) error {
	r, err := eng.Report(ctx)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	return notifier.NotifyReport(ctx, r)
}

func runPredict(g strategy.Generator, notifier *notify.Console, input, day string) error {
	if day == "" {
		return errors.New("-day is required with -input")
	}
	weekday, err := domain.ParseWeekday(day)
	if err != nil {
		return err
	}
	set, err := g.Generate(input, weekday)
	if err != nil {
		return err
	}
	return notifier.NotifyPrediction(context.Background(), domain.Prediction{
		Strategy:  g.Name(),
		Input2D:   input,
		Weekday:   weekday,
		Candidate: set,
	})
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
