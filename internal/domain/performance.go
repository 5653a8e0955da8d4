package domain

// performance.go: reducciones puras sobre la secuencia de outcomes del backtest.
// Ninguna de estas funciones falla; una secuencia vacía da valores cero.

import (
	"maps"
	"slices"
	"sort"
)

// PerformanceSummary agrega un backtest completo.
type PerformanceSummary struct {
	TotalTests         int
	Wins               int
	Losses             int
	WinRate            float64 // porcentaje, 0 si TotalTests es 0
	MaxConsecutiveLoss int
}

// WithinTarget indica si la peor racha histórica de pérdidas es como mucho target.
func (p PerformanceSummary) WithinTarget(target int) bool {
	return p.MaxConsecutiveLoss <= target
}

// Summarize reduce los outcomes a su resumen.
func Summarize(outcomes []Outcome) PerformanceSummary {
	var s PerformanceSummary
	s.TotalTests = len(outcomes)

	run := 0
	for _, o := range outcomes {
		if o.IsWin {
			s.Wins++
			run = 0
			continue
		}
		run++
		if run > s.MaxConsecutiveLoss {
			s.MaxConsecutiveLoss = run
		}
	}
	s.Losses = s.TotalTests - s.Wins
	if s.TotalTests > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTests) * 100
	}
	return s
}

// CurrentStreak cuenta las pérdidas al final del histórico. El largo no tiene
// tope; el detalle cubre como mucho window pérdidas, la más reciente primero.
func CurrentStreak(outcomes []Outcome, window int) (int, []LossDetail) {
	streak := 0
	var details []LossDetail
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		if o.IsWin {
			break
		}
		streak++
		if streak <= window {
			details = append(details, LossDetail{
				LossNumber:   streak,
				SourceDate:   o.Source.Date,
				TargetDate:   o.Target.Date,
				Weekday:      o.Target.Weekday,
				SourceResult: o.Source.Result,
				TargetResult: o.Target.Result,
				Input2D:      o.Input2D(),
				Actual2D:     o.Actual2D(),
				Missing:      slices.Clone(o.Missing),
			})
		}
	}
	return streak, details
}

// LossStreaks devuelve cada racha maximal de pérdidas en orden cronológico.
func LossStreaks(outcomes []Outcome) []LossStreak {
	var streaks []LossStreak
	start := -1
	for i, o := range outcomes {
		switch {
		case !o.IsWin && start < 0:
			start = i
		case o.IsWin && start >= 0:
			streaks = append(streaks, LossStreak{Start: start, End: i - 1, Length: i - start})
			start = -1
		}
	}
	if start >= 0 {
		end := len(outcomes) - 1
		streaks = append(streaks, LossStreak{Start: start, End: end, Length: end - start + 1})
	}
	return streaks
}

// StreakBucket agrupa las rachas de pérdidas de un mismo largo.
type StreakBucket struct {
	Length     int
	Count      int
	Percentage float64 // porcentaje sobre el total de rachas
	Status     Severity
}

// StreakSummary describe la distribución completa de rachas.
type StreakSummary struct {
	TotalStreaks int
	MaxStreak    int
	AvgStreak    float64
}

// StreakBreakdown es la distribución de largos de racha en todo el histórico.
type StreakBreakdown struct {
	Buckets map[int]StreakBucket
	Summary StreakSummary
}

// Clone devuelve un breakdown con su propio mapa Buckets.
func (b StreakBreakdown) Clone() StreakBreakdown {
	b.Buckets = maps.Clone(b.Buckets)
	return b
}

// Sorted devuelve los buckets ordenados por largo de racha.
func (b StreakBreakdown) Sorted() []StreakBucket {
	out := make([]StreakBucket, 0, len(b.Buckets))
	for _, bucket := range b.Buckets {
		out = append(out, bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

// Breakdown agrupa cada racha maximal por largo y clasifica cada bucket con
// los umbrales dados.
func Breakdown(outcomes []Outcome, thresholds SeverityThresholds) StreakBreakdown {
	streaks := LossStreaks(outcomes)
	b := StreakBreakdown{Buckets: make(map[int]StreakBucket)}
	if len(streaks) == 0 {
		return b
	}

	total := 0
	for _, s := range streaks {
		bucket := b.Buckets[s.Length]
		bucket.Length = s.Length
		bucket.Count++
		b.Buckets[s.Length] = bucket

		total += s.Length
		if s.Length > b.Summary.MaxStreak {
			b.Summary.MaxStreak = s.Length
		}
	}

	b.Summary.TotalStreaks = len(streaks)
	b.Summary.AvgStreak = float64(total) / float64(len(streaks))
	for length, bucket := range b.Buckets {
		bucket.Percentage = float64(bucket.Count) / float64(len(streaks)) * 100
		bucket.Status = thresholds.Classify(length)
		b.Buckets[length] = bucket
	}
	return b
}

// RecentTransitions devuelve hasta n transiciones, la más reciente primero.
func RecentTransitions(outcomes []Outcome, n int) []TransitionDetail {
	if n <= 0 || len(outcomes) == 0 {
		return nil
	}
	n = min(n, len(outcomes))
	out := make([]TransitionDetail, 0, n)
	for i := len(outcomes) - 1; i >= len(outcomes)-n; i-- {
		o := outcomes[i]
		out = append(out, TransitionDetail{
			Date:         o.Target.Date,
			Weekday:      o.Target.Weekday,
			InputResult:  o.Source.Result,
			Input2D:      o.Input2D(),
			ActualResult: o.Target.Result,
			Actual2D:     o.Actual2D(),
			Candidate:    o.Candidate,
			BBFS:         o.Candidate.String(),
			IsWin:        o.IsWin,
			Missing:      slices.Clone(o.Missing),
		})
	}
	return out
}
