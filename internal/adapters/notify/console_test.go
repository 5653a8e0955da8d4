package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/bbfs/internal/adapters/notify"
	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReport(t *testing.T) domain.Report {
	t.Helper()
	set, err := domain.NewCandidateSet(0, 1, 2, 5, 7, 8)
	require.NoError(t, err)
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	basis := domain.DrawRecord{Date: day(3), Weekday: domain.Rabu, Result: "3345"}
	started := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	return domain.Report{
		Source:        "http://feed.test/",
		Version:       4,
		Info:          domain.DataInfo{TotalRecords: 3, Start: day(1), End: day(3)},
		Summary:       domain.PerformanceSummary{TotalTests: 2, Wins: 1, Losses: 1, WinRate: 50, MaxConsecutiveLoss: 12},
		TargetMaxLoss: 10,
		Prediction: &domain.Prediction{
			Strategy:  "weekday_frequency",
			Input2D:   "45",
			Weekday:   domain.Kamis,
			Candidate: set,
			Basis:     &basis,
		},
		Streak: domain.StreakStatus{
			Length: 1,
			Status: domain.SeverityNormal,
			Details: []domain.LossDetail{{
				LossNumber: 1, TargetDate: day(3), Weekday: domain.Rabu,
				SourceResult: "2222", TargetResult: "3345", Input2D: "22", Actual2D: "45",
				Missing: []int{4},
			}},
		},
		Breakdown: domain.StreakBreakdown{
			Buckets: map[int]domain.StreakBucket{1: {Length: 1, Count: 1, Percentage: 100, Status: domain.SeverityNormal}},
			Summary: domain.StreakSummary{TotalStreaks: 1, MaxStreak: 1, AvgStreak: 1},
		},
		Recent: []domain.TransitionDetail{
			{Date: day(3), Weekday: domain.Rabu, Input2D: "22", Actual2D: "45", BBFS: "0 1 2 5 7 8", Missing: []int{4}},
			{Date: day(2), Weekday: domain.Selasa, Input2D: "11", Actual2D: "22", BBFS: "0 1 2 5 7 8", IsWin: true},
		},
		RecentWinRate: 50,
		Refreshes: []domain.RefreshRecord{{
			ID: "r1", StartedAt: started, FinishedAt: started.Add(250 * time.Millisecond),
			Records: 3, Version: 4, Status: domain.RefreshOK,
		}},
	}
}

func TestConsole_NotifyReport_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.NotifyReport(context.Background(), makeReport(t)))

	out := buf.String()
	assert.Contains(t, out, "3 draws, 2024-01-01 to 2024-01-03")
	assert.Contains(t, out, "target <= 10: MISSED")
	assert.Contains(t, out, "Next draw: Kamis | input 2D 45 (from 3345 on 2024-01-03)")
	assert.Contains(t, out, "0 1 2 5 7 8")
	assert.Contains(t, out, "Current loss streak: 1 (Normal)")
	assert.Contains(t, out, "Loss streaks: 1 total, max 1, avg 1.00")
	assert.Contains(t, out, "Last 2 draws: win rate 50.0%")
	assert.Contains(t, out, "WIN")
	assert.Contains(t, out, "LOSS")
	assert.Contains(t, out, "Refresh history")
	assert.Contains(t, out, "250ms")
}

func TestConsole_NotifyReport_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	r := makeReport(t)
	r.Summary.MaxConsecutiveLoss = 7
	require.NoError(t, n.NotifyReport(context.Background(), r))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "WR 50.0% maxL 7/10 OK")
	assert.Contains(t, out, "next Kamis 45 -> 0 1 2 5 7 8")
}

func TestConsole_NotifyReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.NotifyReport(context.Background(), domain.Report{Source: "http://feed.test/"}))
	assert.Contains(t, buf.String(), "no data loaded from http://feed.test/")
}

func TestConsole_NotifyPrediction(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	set, err := domain.NewCandidateSet(1, 2, 3)
	require.NoError(t, err)
	p := domain.Prediction{Strategy: "fixed", Input2D: "12", Weekday: domain.Senin, Candidate: set}

	require.NoError(t, n.NotifyPrediction(context.Background(), p))
	assert.Equal(t, "BBFS for 12 on Senin [fixed]: 1 2 3\n", buf.String())
}
