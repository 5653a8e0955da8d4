package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/alejandrodnm/bbfs/internal/application/engine"
	"github.com/olekukonko/tablewriter"
)

func runTune(ctx context.Context, eng *engine.Engine) error {
	slog.Info("=== TUNE MODE: backtest every candidate size ===")

	if _, err := eng.Refresh(ctx); err != nil {
		return err
	}

	res, err := eng.Tune()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Size", "Tests", "Wins", "Win rate", "Max loss", "")
	for _, r := range res.Results {
		mark := ""
		if r.Size == res.Best.Size {
			mark = "best"
		}
		table.Append(
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Summary.TotalTests),
			strconv.Itoa(r.Summary.Wins),
			fmt.Sprintf("%.1f%%", r.Summary.WinRate),
			strconv.Itoa(r.Summary.MaxConsecutiveLoss),
			mark,
		)
	}
	table.Render()

	slog.Info("tune complete",
		"best_size", res.Best.Size,
		"max_loss", res.Best.Summary.MaxConsecutiveLoss,
		"target", res.TargetMaxLoss,
		"target_met", res.TargetMet,
	)
	return nil
}
