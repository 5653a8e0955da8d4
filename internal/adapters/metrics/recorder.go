// Package metrics exposes the engine events as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bbfs"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics.
type Recorder struct {
	cacheLookups     *prometheus.CounterVec
	backtestRuns     prometheus.Counter
	backtestDuration prometheus.Histogram
	transitions      prometheus.Gauge
	refreshes        *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Analytics cache lookups by kind and whether they hit",
		}, []string{"kind", "hit"}),
		backtestRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtest_runs_total",
			Help:      "Full backtest replays",
		}),
		backtestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backtest_duration_seconds",
			Help:      "Time spent replaying the full history",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		transitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backtest_transitions",
			Help:      "Transitions evaluated by the latest backtest",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Data refresh attempts by status",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{
		r.cacheLookups, r.backtestRuns, r.backtestDuration, r.transitions, r.refreshes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) CacheHit(kind string) {
	r.cacheLookups.WithLabelValues(kind, strconv.FormatBool(true)).Inc()
}

func (r *Recorder) CacheMiss(kind string) {
	r.cacheLookups.WithLabelValues(kind, strconv.FormatBool(false)).Inc()
}

func (r *Recorder) BacktestRun(d time.Duration, transitions int) {
	r.backtestRuns.Inc()
	r.backtestDuration.Observe(d.Seconds())
	r.transitions.Set(float64(transitions))
}

func (r *Recorder) Refresh(status domain.RefreshStatus) {
	r.refreshes.WithLabelValues(string(status)).Inc()
}
