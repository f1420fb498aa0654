package bgtools

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

const perMillion = 1e6

func sum(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	total, _ := stats.Sum(vals)
	return total
}

func scaleTo(vals []float64, total float64) {
	for i := range vals {
		vals[i] = vals[i] / total * perMillion
	}
}

// CPM rescales the scores of t in place so that they sum to one million,
// over the whole track or over each chromosome. Nothing is changed if the
// total of any scope is zero.
func CPM(t *Track, scope Scope) error {
	h := handle("CPM: %w")

	if e := t.Validate(); e != nil {
		return h(e)
	}
	switch scope {
	case Genome:
		total := sum(t.Scores())
		if total == 0 {
			return h(&AggregateError{Name: "total", Value: total, Err: ErrZeroTotal})
		}
		t.Map(func(x float64) float64 {
			return x / total * perMillion
		})
		return nil
	case PerChrom:
		totals := make([]float64, len(t.Chroms))
		for i, c := range t.Chroms {
			totals[i] = sum(c.Scores)
			if totals[i] == 0 {
				return h(fmt.Errorf("%s: %w", c.Name, &AggregateError{Name: "total", Value: totals[i], Err: ErrZeroTotal}))
			}
		}
		for i, c := range t.Chroms {
			scaleTo(c.Scores, totals[i])
		}
		return nil
	}
	return h(fmt.Errorf("unknown scope %v", scope))
}
