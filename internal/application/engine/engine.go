// Package engine owns the draw history and answers every analytics query
// over it.
//
// The Dataset, its version and the source URL sit behind one RWMutex.
// Installing a Dataset swaps it, bumps the version and invalidates the cache
// in a single critical section; queries hold the read lock for their whole
// computation, so no reader ever pairs a Dataset with analytics computed for
// another one. Network I/O happens outside the lock.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/bbfs/internal/application/cache"
	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/domain/strategy"
	"github.com/alejandrodnm/bbfs/internal/ports"
)

// MinRecords is the smallest history a refresh accepts: one transition.
const MinRecords = 2

// PredictionDay selects the weekday Prediction passes to the generator.
type PredictionDay string

const (
	PredictNextDay   PredictionDay = "next"   // weekday after the latest draw
	PredictLatestDay PredictionDay = "latest" // weekday of the latest draw itself
)

// Config holds the engine settings.
type Config struct {
	SourceURL        string
	DefaultSourceURL string // target of ResetSource; SourceURL when empty
	RefreshInterval  time.Duration
	StreakWindow     int
	RecentWindow     int
	Thresholds       domain.SeverityThresholds
	TargetMaxLoss    int
	TuneSizes        []int
	PredictionDay    PredictionDay // empty means PredictNextDay
}

// Tuner builds a generator of the given candidate size. Tune sweeps sizes
// through it.
type Tuner func(size int) (strategy.Generator, error)

// Engine is safe for concurrent use.
type Engine struct {
	cfg        Config
	generator  strategy.Generator
	tuner      Tuner
	feed       ports.DrawFeed
	refreshLog ports.RefreshLog // nil disables the refresh history
	metrics    ports.Metrics
	cache      *cache.Cache
	now        func() time.Time

	mu      sync.RWMutex
	dataset domain.Dataset
	version uint64
	source  string
}

// New creates an Engine with an empty Dataset at version 0.
// tuner, refreshLog and metrics may be nil.
func New(
	cfg Config,
	generator strategy.Generator,
	tuner Tuner,
	feed ports.DrawFeed,
	refreshLog ports.RefreshLog,
	metrics ports.Metrics,
) *Engine {
	if cfg.DefaultSourceURL == "" {
		cfg.DefaultSourceURL = cfg.SourceURL
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Engine{
		cfg:        cfg,
		generator:  generator,
		tuner:      tuner,
		feed:       feed,
		refreshLog: refreshLog,
		metrics:    metrics,
		cache:      cache.New(metrics),
		now:        time.Now,
		source:     cfg.SourceURL,
	}
}

// Strategy returns the name of the generator in use.
func (e *Engine) Strategy() string { return e.generator.Name() }

// TargetMaxLoss returns the configured worst-streak target.
func (e *Engine) TargetMaxLoss() int { return e.cfg.TargetMaxLoss }

// Source returns the current source URL.
func (e *Engine) Source() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

// Status is the source, version and history summary of one installed Dataset.
type Status struct {
	Source  string
	Version uint64
	Info    domain.DataInfo
}

// Status reads source, version and DataInfo under one lock, so the three
// always describe the same Dataset.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{Source: e.source, Version: e.version, Info: e.dataset.Info()}
}

// Version returns the version of the installed Dataset.
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// ReplaceDataset installs ds and drops every cached analytic.
// It returns the new version.
func (e *Engine) ReplaceDataset(ds domain.Dataset) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.installLocked(ds)
}

func (e *Engine) installLocked(ds domain.Dataset) uint64 {
	e.dataset = ds
	e.version++
	e.cache.Invalidate()
	slog.Debug("dataset installed", "version", e.version, "records", ds.Len())
	return e.version
}
