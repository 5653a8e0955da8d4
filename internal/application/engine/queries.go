package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alejandrodnm/bbfs/internal/application/backtest"
	"github.com/alejandrodnm/bbfs/internal/application/cache"
	"github.com/alejandrodnm/bbfs/internal/domain"
)

// ErrNoTuner is returned by Tune when the engine was built without a Tuner.
var ErrNoTuner = errors.New("engine: size tuning not configured")

// Every exported query takes the read lock once and calls *Locked helpers,
// which must never lock again. Cached values are shared between callers, so
// exported queries return copies of every slice and map they hold.

// GenerateCandidate returns the candidate set for a two-digit input and the
// weekday label of the draw being predicted. It does not touch the Dataset.
func (e *Engine) GenerateCandidate(input2D, weekdayLabel string) (domain.Prediction, error) {
	weekday, err := domain.ParseWeekday(weekdayLabel)
	if err != nil {
		return domain.Prediction{}, err
	}
	set, err := e.generator.Generate(input2D, weekday)
	if err != nil {
		return domain.Prediction{}, err
	}
	return domain.Prediction{
		Strategy:  e.generator.Name(),
		Input2D:   input2D,
		Weekday:   weekday,
		Candidate: set,
	}, nil
}

// Prediction returns the candidate for the draw after the latest record. The
// input is the latest suffix; the weekday is the following day, or the
// latest record's own weekday with PredictLatestDay. The second result is
// false when no data is loaded.
func (e *Engine) Prediction() (domain.Prediction, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.predictionLocked()
}

func (e *Engine) predictionLocked() (domain.Prediction, bool, error) {
	last, ok := e.dataset.Last()
	if !ok {
		return domain.Prediction{}, false, nil
	}
	weekday := last.Weekday.Next()
	if e.cfg.PredictionDay == PredictLatestDay {
		weekday = last.Weekday
	}
	set, err := e.generator.Generate(last.Suffix2(), weekday)
	if err != nil {
		return domain.Prediction{}, false, fmt.Errorf("engine.Prediction: %w", err)
	}
	return domain.Prediction{
		Strategy:  e.generator.Name(),
		Input2D:   last.Suffix2(),
		Weekday:   weekday,
		Candidate: set,
		Basis:     &last,
	}, true, nil
}

// DataInfo describes the loaded history.
func (e *Engine) DataInfo() domain.DataInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dataset.Info()
}

// Latest returns up to n records, most recent first.
func (e *Engine) Latest(n int) []domain.DrawRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dataset.Latest(n)
}

// RunBacktest returns the outcome of every transition. With force the
// backtest is recomputed and replaces the cached sequence.
func (e *Engine) RunBacktest(force bool) ([]domain.Outcome, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if force {
		outcomes, err := e.runBacktestLocked()
		if err != nil {
			return nil, err
		}
		cache.Put(e.cache, e.version, cache.KindBacktest, outcomes)
		return domain.CloneOutcomes(outcomes), nil
	}

	outcomes, err := e.backtestLocked()
	if err != nil {
		return nil, err
	}
	return domain.CloneOutcomes(outcomes), nil
}

func (e *Engine) backtestLocked() ([]domain.Outcome, error) {
	return cache.GetOrCompute(e.cache, e.version, cache.KindBacktest, e.runBacktestLocked)
}

func (e *Engine) runBacktestLocked() ([]domain.Outcome, error) {
	start := time.Now()
	outcomes, err := backtest.Run(e.dataset, e.generator)
	if err != nil {
		return nil, fmt.Errorf("engine.RunBacktest: %w", err)
	}
	e.metrics.BacktestRun(time.Since(start), len(outcomes))
	return outcomes, nil
}

// PerformanceSummary aggregates the full backtest.
func (e *Engine) PerformanceSummary() (domain.PerformanceSummary, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.summaryLocked()
}

func (e *Engine) summaryLocked() (domain.PerformanceSummary, error) {
	return cache.GetOrCompute(e.cache, e.version, cache.KindSummary, func() (domain.PerformanceSummary, error) {
		outcomes, err := e.backtestLocked()
		if err != nil {
			return domain.PerformanceSummary{}, err
		}
		return domain.Summarize(outcomes), nil
	})
}

// CurrentStreak returns the loss streak at the end of the history, with
// details for at most window losses. window <= 0 uses the configured window.
func (e *Engine) CurrentStreak(window int) (domain.StreakStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentStreakLocked(window)
}

func (e *Engine) currentStreakLocked(window int) (domain.StreakStatus, error) {
	if window <= 0 {
		window = e.cfg.StreakWindow
	}
	outcomes, err := e.backtestLocked()
	if err != nil {
		return domain.StreakStatus{}, err
	}
	length, details := domain.CurrentStreak(outcomes, window)
	return domain.StreakStatus{
		Length:  length,
		Status:  e.cfg.Thresholds.Classify(length),
		Details: details,
	}, nil
}

// StreakBreakdown returns the distribution of every historical loss streak.
func (e *Engine) StreakBreakdown() (domain.StreakBreakdown, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, err := e.breakdownLocked()
	if err != nil {
		return domain.StreakBreakdown{}, err
	}
	return b.Clone(), nil
}

func (e *Engine) breakdownLocked() (domain.StreakBreakdown, error) {
	return cache.GetOrCompute(e.cache, e.version, cache.KindBreakdown, func() (domain.StreakBreakdown, error) {
		outcomes, err := e.backtestLocked()
		if err != nil {
			return domain.StreakBreakdown{}, err
		}
		return domain.Breakdown(outcomes, e.cfg.Thresholds), nil
	})
}

// RecentAnalysis returns the n most recent transitions, most recent first.
// n <= 0 uses the configured window.
func (e *Engine) RecentAnalysis(n int) ([]domain.TransitionDetail, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.recentLocked(n)
}

func (e *Engine) recentLocked(n int) ([]domain.TransitionDetail, error) {
	if n <= 0 {
		n = e.cfg.RecentWindow
	}
	outcomes, err := e.backtestLocked()
	if err != nil {
		return nil, err
	}
	return domain.RecentTransitions(outcomes, n), nil
}

// Tune sweeps the configured candidate sizes and reports the smallest one
// that keeps the worst loss streak within the target.
func (e *Engine) Tune() (backtest.TuneResult, error) {
	if e.tuner == nil {
		return backtest.TuneResult{}, ErrNoTuner
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	res, err := cache.GetOrCompute(e.cache, e.version, cache.KindTune, func() (backtest.TuneResult, error) {
		res, err := backtest.Tune(e.dataset, e.tuner, e.cfg.TuneSizes, e.cfg.TargetMaxLoss)
		if err != nil {
			return backtest.TuneResult{}, fmt.Errorf("engine.Tune: %w", err)
		}
		return res, nil
	})
	if err != nil {
		return backtest.TuneResult{}, err
	}
	res.Results = slices.Clone(res.Results)
	return res, nil
}

// Report gathers every analysis of the current version in one consistent
// snapshot, plus the latest refresh attempts when a refresh log is set.
func (e *Engine) Report(ctx context.Context) (domain.Report, error) {
	report, err := e.snapshot()
	if err != nil {
		return domain.Report{}, err
	}

	// A refresh log failure leaves Refreshes empty.
	report.Refreshes, err = e.RecentRefreshes(ctx, 5)
	if err != nil {
		slog.Warn("report without refresh history", "err", err)
	}
	return report, nil
}

func (e *Engine) snapshot() (domain.Report, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r := domain.Report{
		Source:        e.source,
		Version:       e.version,
		Info:          e.dataset.Info(),
		TargetMaxLoss: e.cfg.TargetMaxLoss,
	}

	var err error
	if r.Summary, err = e.summaryLocked(); err != nil {
		return domain.Report{}, err
	}
	if r.Streak, err = e.currentStreakLocked(0); err != nil {
		return domain.Report{}, err
	}
	if r.Breakdown, err = e.breakdownLocked(); err != nil {
		return domain.Report{}, err
	}
	r.Breakdown = r.Breakdown.Clone()
	if r.Recent, err = e.recentLocked(0); err != nil {
		return domain.Report{}, err
	}
	r.RecentWinRate = domain.RecentWinRate(r.Recent)

	p, ok, err := e.predictionLocked()
	if err != nil {
		return domain.Report{}, err
	}
	if ok {
		r.Prediction = &p
	}
	return r, nil
}
