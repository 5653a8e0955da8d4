package server

import (
	"time"

	"github.com/alejandrodnm/bbfs/internal/application/backtest"
	"github.com/alejandrodnm/bbfs/internal/domain"
)

// JSON views of the domain types. Dates are rendered as YYYY-MM-DD.

type drawJSON struct {
	Date   string         `json:"date"`
	Day    domain.Weekday `json:"day"`
	Result string         `json:"result"`
}

type dataJSON struct {
	Source       string `json:"source"`
	Version      uint64 `json:"version"`
	Strategy     string `json:"strategy"`
	TotalRecords int    `json:"total_records"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
}

type predictionJSON struct {
	Strategy  string              `json:"strategy"`
	Input2D   string              `json:"input_2d"`
	Day       domain.Weekday      `json:"day"`
	Candidate domain.CandidateSet `json:"candidate"`
	BBFS      string              `json:"bbfs"`
	Basis     *drawJSON           `json:"basis,omitempty"`
}

type summaryJSON struct {
	TotalTests         int     `json:"total_tests"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	WinRate            float64 `json:"win_rate"`
	MaxConsecutiveLoss int     `json:"max_consecutive_loss"`
	TargetMaxLoss      int     `json:"target_max_loss"`
	TargetMet          bool    `json:"target_met"`
}

type lossJSON struct {
	LossNumber   int            `json:"loss_number"`
	SourceDate   string         `json:"source_date"`
	TargetDate   string         `json:"target_date"`
	Day          domain.Weekday `json:"day"`
	SourceResult string         `json:"source_result"`
	TargetResult string         `json:"target_result"`
	Input2D      string         `json:"input_2d"`
	Actual2D     string         `json:"actual_2d"`
	Missing      []int          `json:"missing"`
}

type streakJSON struct {
	Length  int             `json:"length"`
	Status  domain.Severity `json:"status"`
	Details []lossJSON      `json:"details"`
}

type bucketJSON struct {
	Length     int             `json:"length"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
	Status     domain.Severity `json:"status"`
}

type breakdownJSON struct {
	Buckets []bucketJSON `json:"buckets"`
	Summary struct {
		TotalStreaks int     `json:"total_streaks"`
		MaxStreak    int     `json:"max_streak"`
		AvgStreak    float64 `json:"avg_streak"`
	} `json:"summary"`
}

type transitionJSON struct {
	Date         string              `json:"date"`
	Day          domain.Weekday      `json:"day"`
	InputResult  string              `json:"input_result"`
	Input2D      string              `json:"input_2d"`
	ActualResult string              `json:"actual_result"`
	Actual2D     string              `json:"actual_2d"`
	Candidate    domain.CandidateSet `json:"candidate"`
	BBFS         string              `json:"bbfs"`
	Win          bool                `json:"win"`
	Missing      []int               `json:"missing"`
}

type recentJSON struct {
	Transitions []transitionJSON `json:"transitions"`
	WinRate     float64          `json:"win_rate"`
}

type sizeJSON struct {
	Size    int         `json:"size"`
	Summary summaryJSON `json:"summary"`
}

type tuneJSON struct {
	BestSize      int        `json:"best_size"`
	TargetMaxLoss int        `json:"target_max_loss"`
	TargetMet     bool       `json:"target_met"`
	Results       []sizeJSON `json:"results"`
}

type refreshJSON struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Records    int       `json:"records"`
	Version    uint64    `json:"version"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

// --- mapping ---

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func orEmpty(ds []int) []int {
	if ds == nil {
		return []int{}
	}
	return ds
}

func toDraw(r domain.DrawRecord) drawJSON {
	return drawJSON{Date: day(r.Date), Day: r.Weekday, Result: r.Result}
}

func toPrediction(p domain.Prediction) predictionJSON {
	out := predictionJSON{
		Strategy:  p.Strategy,
		Input2D:   p.Input2D,
		Day:       p.Weekday,
		Candidate: p.Candidate,
		BBFS:      p.BBFS(),
	}
	if p.Basis != nil {
		b := toDraw(*p.Basis)
		out.Basis = &b
	}
	return out
}

func toSummary(s domain.PerformanceSummary, target int) summaryJSON {
	return summaryJSON{
		TotalTests:         s.TotalTests,
		Wins:               s.Wins,
		Losses:             s.Losses,
		WinRate:            s.WinRate,
		MaxConsecutiveLoss: s.MaxConsecutiveLoss,
		TargetMaxLoss:      target,
		TargetMet:          s.WithinTarget(target),
	}
}

func toStreak(s domain.StreakStatus) streakJSON {
	out := streakJSON{Length: s.Length, Status: s.Status, Details: make([]lossJSON, 0, len(s.Details))}
	for _, d := range s.Details {
		out.Details = append(out.Details, lossJSON{
			LossNumber:   d.LossNumber,
			SourceDate:   day(d.SourceDate),
			TargetDate:   day(d.TargetDate),
			Day:          d.Weekday,
			SourceResult: d.SourceResult,
			TargetResult: d.TargetResult,
			Input2D:      d.Input2D,
			Actual2D:     d.Actual2D,
			Missing:      orEmpty(d.Missing),
		})
	}
	return out
}

func toBreakdown(b domain.StreakBreakdown) breakdownJSON {
	var out breakdownJSON
	out.Buckets = make([]bucketJSON, 0, len(b.Buckets))
	for _, bucket := range b.Sorted() {
		out.Buckets = append(out.Buckets, bucketJSON{
			Length:     bucket.Length,
			Count:      bucket.Count,
			Percentage: bucket.Percentage,
			Status:     bucket.Status,
		})
	}
	out.Summary.TotalStreaks = b.Summary.TotalStreaks
	out.Summary.MaxStreak = b.Summary.MaxStreak
	out.Summary.AvgStreak = b.Summary.AvgStreak
	return out
}

func toRecent(ts []domain.TransitionDetail) recentJSON {
	out := recentJSON{Transitions: make([]transitionJSON, 0, len(ts)), WinRate: domain.RecentWinRate(ts)}
	for _, t := range ts {
		out.Transitions = append(out.Transitions, transitionJSON{
			Date:         day(t.Date),
			Day:          t.Weekday,
			InputResult:  t.InputResult,
			Input2D:      t.Input2D,
			ActualResult: t.ActualResult,
			Actual2D:     t.Actual2D,
			Candidate:    t.Candidate,
			BBFS:         t.BBFS,
			Win:          t.IsWin,
			Missing:      orEmpty(t.Missing),
		})
	}
	return out
}

func toTune(res backtest.TuneResult) tuneJSON {
	out := tuneJSON{
		BestSize:      res.Best.Size,
		TargetMaxLoss: res.TargetMaxLoss,
		TargetMet:     res.TargetMet,
		Results:       make([]sizeJSON, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		out.Results = append(out.Results, sizeJSON{Size: r.Size, Summary: toSummary(r.Summary, res.TargetMaxLoss)})
	}
	return out
}

func toRefresh(r domain.RefreshRecord) refreshJSON {
	return refreshJSON{
		ID:         r.ID,
		Source:     r.Source,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Records:    r.Records,
		Version:    r.Version,
		Status:     string(r.Status),
		Error:      r.Error,
	}
}
