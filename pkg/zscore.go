package bgtools

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// MADScale makes the median absolute deviation comparable to a standard
// deviation for normally distributed data.
const MADScale = 0.6745

// Scope selects the set of bins a track-wide statistic is computed over.
type Scope int

const (
	// Genome pools every bin of the track.
	Genome Scope = iota
	// PerChrom computes the statistic separately for each chromosome.
	PerChrom
)

func (s Scope) String() string {
	switch s {
	case Genome:
		return "genome"
	case PerChrom:
		return "chromosome"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// MedianMAD returns the median of vals and the median absolute deviation
// from it.
func MedianMAD(vals []float64) (median, mad float64, err error) {
	h := handle("MedianMAD: %w")

	if len(vals) == 0 {
		return 0, 0, h(&AggregateError{Name: "MAD", Value: 0, Err: ErrDegenerateDistribution})
	}
	median, err = stats.Median(vals)
	if err != nil {
		return 0, 0, h(err)
	}
	mad, err = stats.MedianAbsoluteDeviation(vals)
	if err != nil {
		return 0, 0, h(err)
	}
	if mad == 0 {
		return median, mad, h(&AggregateError{Name: "MAD", Value: mad, Err: ErrDegenerateDistribution})
	}
	return median, mad, nil
}

func robustZ(vals []float64, median, mad float64) []float64 {
	out := make([]float64, len(vals))
	for i, x := range vals {
		out[i] = MADScale * (x - median) / mad
	}
	return out
}

// RobustZ returns a new track with every score replaced by its robust
// z-score, 0.6745 * (x - median) / MAD.
func RobustZ(t *Track, scope Scope) (*Track, error) {
	h := handle("RobustZ: %w")

	if e := t.Validate(); e != nil {
		return nil, h(e)
	}
	switch scope {
	case Genome:
		median, mad, e := MedianMAD(t.Scores())
		if e != nil {
			return nil, h(e)
		}
		out, e := t.WithScores(func(c *Chrom) ([]float64, error) {
			return robustZ(c.Scores, median, mad), nil
		})
		if e != nil {
			return nil, h(e)
		}
		return out, nil
	case PerChrom:
		out, e := t.WithScores(func(c *Chrom) ([]float64, error) {
			median, mad, e := MedianMAD(c.Scores)
			if e != nil {
				return nil, fmt.Errorf("%s: %w", c.Name, e)
			}
			return robustZ(c.Scores, median, mad), nil
		})
		if e != nil {
			return nil, h(e)
		}
		return out, nil
	}
	return nil, h(fmt.Errorf("unknown scope %v", scope))
}
