package backtest

import (
	"fmt"
	"runtime"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/domain/strategy"
	"golang.org/x/sync/errgroup"
)

// SizeResult is the backtest summary for one candidate size.
type SizeResult struct {
	Size    int
	Summary domain.PerformanceSummary
}

// TuneResult is the outcome of a size sweep.
type TuneResult struct {
	Best          SizeResult
	TargetMaxLoss int
	TargetMet     bool
	Results       []SizeResult // one per tried size, in the order given
}

// Tune backtests each size and picks the smallest one whose worst loss streak
// is within targetMaxLoss. When none qualifies it picks the size with the
// lowest worst streak, the smaller size on ties.
func Tune(
	ds domain.Dataset,
	build func(size int) (strategy.Generator, error),
	sizes []int,
	targetMaxLoss int,
) (TuneResult, error) {
	if len(sizes) == 0 {
		return TuneResult{}, fmt.Errorf("backtest.Tune: %w: no sizes to try", domain.ErrValidation)
	}

	res := TuneResult{TargetMaxLoss: targetMaxLoss, Results: make([]SizeResult, len(sizes))}

	// Each size is an independent backtest over the same read-only Dataset.
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, size := range sizes {
		g.Go(func() error {
			gen, err := build(size)
			if err != nil {
				return fmt.Errorf("backtest.Tune: size %d: %w", size, err)
			}
			outcomes, err := Run(ds, gen)
			if err != nil {
				return fmt.Errorf("backtest.Tune: size %d: %w", size, err)
			}
			res.Results[i] = SizeResult{Size: size, Summary: domain.Summarize(outcomes)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TuneResult{}, err
	}

	var qualified, fallback *SizeResult
	for i := range res.Results {
		r := &res.Results[i]
		if r.Summary.WithinTarget(targetMaxLoss) && (qualified == nil || r.Size < qualified.Size) {
			qualified = r
		}
		if fallback == nil ||
			r.Summary.MaxConsecutiveLoss < fallback.Summary.MaxConsecutiveLoss ||
			(r.Summary.MaxConsecutiveLoss == fallback.Summary.MaxConsecutiveLoss && r.Size < fallback.Size) {
			fallback = r
		}
	}

	if qualified != nil {
		res.Best, res.TargetMet = *qualified, true
	} else {
		res.Best = *fallback
	}
	return res, nil
}
