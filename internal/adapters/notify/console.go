package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/ports"
	"github.com/olekukonko/tablewriter"
)

var _ ports.Notifier = (*Console)(nil)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout. Con table imprime el
// reporte completo; sin table, una sola línea de estado.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyReport imprime el reporte en el modo configurado.
func (c *Console) NotifyReport(_ context.Context, r domain.Report) error {
	if r.Info.TotalRecords == 0 {
		fmt.Fprintf(c.out, "[%s] no data loaded from %s\n", time.Now().Format("15:04:05"), r.Source)
		return nil
	}

	if !c.table {
		c.printCompact(r)
		return nil
	}

	c.printHeader(r)
	c.printPrediction(r.Prediction)
	c.printSummary(r)
	c.printStreak(r.Streak)
	c.printBreakdown(r.Breakdown)
	c.printRecent(r)
	c.printRefreshes(r.Refreshes)
	return nil
}

// NotifyPrediction imprime un único set de candidatos.
func (c *Console) NotifyPrediction(_ context.Context, p domain.Prediction) error {
	if p.Basis != nil {
		fmt.Fprintf(c.out, "Last result %s (%s) -> ", p.Basis.Result, p.Basis.Date.Format(time.DateOnly))
	}
	fmt.Fprintf(c.out, "BBFS for %s on %s [%s]: %s\n", p.Input2D, p.Weekday, p.Strategy, p.BBFS())
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(r domain.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] v%d %d draws | WR %.1f%% maxL %d/%d %s | streak %d %s",
		time.Now().Format("15:04:05"),
		r.Version,
		r.Info.TotalRecords,
		r.Summary.WinRate,
		r.Summary.MaxConsecutiveLoss,
		r.TargetMaxLoss,
		targetLabel(r.TargetMet()),
		r.Streak.Length,
		r.Streak.Status,
	)
	if p := r.Prediction; p != nil {
		fmt.Fprintf(&sb, " | next %s %s -> %s", p.Weekday, p.Input2D, p.BBFS())
	}
	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) printHeader(r domain.Report) {
	fmt.Fprintf(c.out, "\n[%s] %s (v%d): %d draws, %s to %s\n",
		time.Now().Format("15:04:05"),
		r.Source,
		r.Version,
		r.Info.TotalRecords,
		r.Info.Start.Format(time.DateOnly),
		r.Info.End.Format(time.DateOnly),
	)
	fmt.Fprintf(c.out, "  max loss %d (target <= %d: %s) | win rate %.1f%% | tests %d\n",
		r.Summary.MaxConsecutiveLoss,
		r.TargetMaxLoss,
		targetLabel(r.TargetMet()),
		r.Summary.WinRate,
		r.Summary.TotalTests,
	)
}

func (c *Console) printPrediction(p *domain.Prediction) {
	if p == nil {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  Next draw: %s | input 2D %s", p.Weekday, p.Input2D)
	if p.Basis != nil {
		fmt.Fprintf(c.out, " (from %s on %s)", p.Basis.Result, p.Basis.Date.Format(time.DateOnly))
	}
	fmt.Fprintf(c.out, "\n  BBFS %d digits: %s\n", p.Candidate.Len(), p.BBFS())
}

func (c *Console) printSummary(r domain.Report) {
	s := r.Summary
	fmt.Fprintln(c.out)
	table := tablewriter.NewWriter(c.out)
	table.Header("Tests", "Wins", "Losses", "Win rate", "Max loss", "Target")
	table.Append(
		strconv.Itoa(s.TotalTests),
		strconv.Itoa(s.Wins),
		strconv.Itoa(s.Losses),
		fmt.Sprintf("%.1f%%", s.WinRate),
		strconv.Itoa(s.MaxConsecutiveLoss),
		fmt.Sprintf("<= %d %s", r.TargetMaxLoss, targetLabel(r.TargetMet())),
	)
	table.Render()
}

func (c *Console) printStreak(s domain.StreakStatus) {
	fmt.Fprintf(c.out, "\n  Current loss streak: %d (%s)\n", s.Length, s.Status)
	if len(s.Details) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Date", "Day", "Input", "Actual", "Missing")
	for _, d := range s.Details {
		table.Append(
			strconv.Itoa(d.LossNumber),
			d.TargetDate.Format(time.DateOnly),
			d.Weekday.String(),
			fmt.Sprintf("%s (%s)", d.SourceResult, d.Input2D),
			fmt.Sprintf("%s (%s)", d.TargetResult, d.Actual2D),
			digits(d.Missing),
		)
	}
	table.Render()
}

func (c *Console) printBreakdown(b domain.StreakBreakdown) {
	if b.Summary.TotalStreaks == 0 {
		fmt.Fprintln(c.out, "\n  No loss streaks in history")
		return
	}

	fmt.Fprintf(c.out, "\n  Loss streaks: %d total, max %d, avg %.2f\n",
		b.Summary.TotalStreaks, b.Summary.MaxStreak, b.Summary.AvgStreak)

	table := tablewriter.NewWriter(c.out)
	table.Header("Length", "Count", "Share", "Status")
	for _, bucket := range b.Sorted() {
		table.Append(
			strconv.Itoa(bucket.Length),
			strconv.Itoa(bucket.Count),
			fmt.Sprintf("%.1f%%", bucket.Percentage),
			bucket.Status.String(),
		)
	}
	table.Render()
}

func (c *Console) printRecent(r domain.Report) {
	if len(r.Recent) == 0 {
		return
	}

	fmt.Fprintf(c.out, "\n  Last %d draws: win rate %.1f%%\n", len(r.Recent), r.RecentWinRate)

	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Day", "Input", "Actual", "BBFS", "Result", "Missing")
	for _, t := range r.Recent {
		table.Append(
			t.Date.Format(time.DateOnly),
			t.Weekday.String(),
			t.Input2D,
			t.Actual2D,
			t.BBFS,
			winLabel(t.IsWin),
			digits(t.Missing),
		)
	}
	table.Render()
}

func (c *Console) printRefreshes(recs []domain.RefreshRecord) {
	if len(recs) == 0 {
		return
	}

	fmt.Fprintln(c.out, "\n  Refresh history")
	table := tablewriter.NewWriter(c.out)
	table.Header("Started", "Status", "Records", "Version", "Took", "Error")
	for _, rec := range recs {
		table.Append(
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(rec.Status),
			strconv.Itoa(rec.Records),
			strconv.FormatUint(rec.Version, 10),
			rec.Duration().Round(time.Millisecond).String(),
			truncate(rec.Error, 40),
		)
	}
	table.Render()
}

// --- helpers ---

func targetLabel(met bool) string {
	if met {
		return "OK"
	}
	return "MISSED"
}

func winLabel(win bool) string {
	if win {
		return "WIN"
	}
	return "LOSS"
}

func digits(ds []int) string {
	if len(ds) == 0 {
		return "-"
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

// truncate corta s a maxLen caracteres, añadiendo "..." si hace falta.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
