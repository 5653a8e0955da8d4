package backtest

// backtest.go: replays the generator over every transition of a Dataset.
//
// For each i in 1..N-1:
//  1. candidate = Generate(Dataset[i-1].Suffix2(), Dataset[i].Weekday)
//  2. win iff both digits of Dataset[i].Suffix2() are in the candidate
//  3. missing = distinct target digits the candidate does not cover

import (
	"fmt"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/domain/strategy"
)

// Run returns one Outcome per transition, in dataset order. Fewer than two
// records give an empty sequence. The Dataset is never modified and every
// call returns a fresh slice.
func Run(ds domain.Dataset, g strategy.Generator) ([]domain.Outcome, error) {
	n := ds.Transitions()
	if n == 0 {
		return []domain.Outcome{}, nil
	}

	outcomes := make([]domain.Outcome, 0, n)
	for i := 1; i < ds.Len(); i++ {
		source, target := ds.At(i-1), ds.At(i)

		candidate, err := g.Generate(source.Suffix2(), target.Weekday)
		if err != nil {
			return nil, fmt.Errorf("backtest.Run: transition %d (%s): %w",
				i, target.Date.Format("2006-01-02"), err)
		}

		missing := candidate.Cover(target.Suffix2())
		outcomes = append(outcomes, domain.Outcome{
			Index:     i,
			Source:    source,
			Target:    target,
			Candidate: candidate,
			IsWin:     len(missing) == 0,
			Missing:   missing,
		})
	}
	return outcomes, nil
}
