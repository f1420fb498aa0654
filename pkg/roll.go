package bgtools

import (
	"fmt"
	"math"
)

type Stat int

const (
	Mean Stat = iota
	Median
)

func (s Stat) String() string {
	switch s {
	case Mean:
		return "mean"
	case Median:
		return "median"
	}
	return fmt.Sprintf("Stat(%d)", int(s))
}

func ParseStat(name string) (Stat, error) {
	switch name {
	case "mean":
		return Mean, nil
	case "median":
		return Median, nil
	}
	return 0, fmt.Errorf("ParseStat: unknown function %q, want mean or median", name)
}

// Boundary says what a window does at the ends of a chromosome.
type Boundary int

const (
	// Linear truncates windows to the bins that exist.
	Linear Boundary = iota
	// Circular wraps windows around the chromosome end, for closed
	// replicons.
	Circular
	// Reflect mirrors windows back into the chromosome at either end.
	Reflect
)

func (b Boundary) String() string {
	switch b {
	case Linear:
		return "linear"
	case Circular:
		return "circular"
	case Reflect:
		return "reflect"
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary accepts "truncate" as another name for Linear.
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "linear", "truncate":
		return Linear, nil
	case "circular":
		return Circular, nil
	case "reflect":
		return Reflect, nil
	}
	return 0, fmt.Errorf("ParseBoundary: unknown boundary %q", name)
}

type accumulator interface {
	Insert(v float64)
	Delete(v float64)
	Value() float64
}

// meanAcc keeps a Neumaier compensated sum so that small scores are not
// lost next to a large one that later leaves the window.
type meanAcc struct {
	sum  float64
	comp float64
	n    int
}

func (a *meanAcc) add(v float64) {
	t := a.sum + v
	if math.Abs(a.sum) >= math.Abs(v) {
		a.comp += (a.sum - t) + v
	} else {
		a.comp += (v - t) + a.sum
	}
	a.sum = t
}

func (a *meanAcc) Insert(v float64) {
	a.add(v)
	a.n++
}

func (a *meanAcc) Delete(v float64) {
	a.add(-v)
	a.n--
}

func (a *meanAcc) Value() float64 {
	return (a.sum + a.comp) / float64(a.n)
}

type medianAcc struct {
	*RankSet
}

func (a medianAcc) Value() float64 {
	return a.Median()
}

func newAccumulator(s Stat, scores []float64) (accumulator, error) {
	switch s {
	case Mean:
		return &meanAcc{}, nil
	case Median:
		return medianAcc{NewRankSet(scores)}, nil
	}
	return nil, fmt.Errorf("unknown statistic %v", s)
}

func circularIndex(n int) func(int) int {
	return func(j int) int {
		return ((j % n) + n) % n
	}
}

func reflectIndex(n int) func(int) int {
	if n == 1 {
		return func(int) int { return 0 }
	}
	period := 2 * (n - 1)
	return func(j int) int {
		m := ((j % period) + period) % period
		if m >= n {
			return period - m
		}
		return m
	}
}

func rollLinear(scores []float64, h int, acc accumulator) []float64 {
	n := len(scores)
	out := make([]float64, n)
	for j := 0; j <= h && j < n; j++ {
		acc.Insert(scores[j])
	}
	out[0] = acc.Value()
	for i := 1; i < n; i++ {
		if leave := i - h - 1; leave >= 0 {
			acc.Delete(scores[leave])
		}
		if enter := i + h; enter < n {
			acc.Insert(scores[enter])
		}
		out[i] = acc.Value()
	}
	return out
}

// rollWrapped keeps exactly 2h+1 members in the window. Positions past
// either end are mapped back into the chromosome by idx.
func rollWrapped(scores []float64, h int, acc accumulator, idx func(int) int) []float64 {
	n := len(scores)
	out := make([]float64, n)
	for j := -h; j <= h; j++ {
		acc.Insert(scores[idx(j)])
	}
	out[0] = acc.Value()
	for i := 1; i < n; i++ {
		acc.Delete(scores[idx(i-h-1)])
		acc.Insert(scores[idx(i+h)])
		out[i] = acc.Value()
	}
	return out
}

// RollChrom computes a windowed statistic centered on every bin of c. w is
// the window width in bins and must be odd.
func RollChrom(c *Chrom, w int, b Boundary, s Stat) ([]float64, error) {
	h := handle("RollChrom: %w")

	if c.Len() == 0 {
		return nil, h(fmt.Errorf("%w: %s", ErrEmptyChromosome, c.Name))
	}
	if w < 1 {
		return nil, h(fmt.Errorf("%w: %d bins", ErrWindowTooSmall, w))
	}
	if w%2 == 0 {
		return nil, h(fmt.Errorf("window of %d bins is not odd", w))
	}
	acc, e := newAccumulator(s, c.Scores)
	if e != nil {
		return nil, h(e)
	}

	half := HalfWidth(w)
	switch b {
	case Linear:
		return rollLinear(c.Scores, half, acc), nil
	case Circular:
		return rollWrapped(c.Scores, half, acc, circularIndex(c.Len())), nil
	case Reflect:
		return rollWrapped(c.Scores, half, acc, reflectIndex(c.Len())), nil
	}
	return nil, h(fmt.Errorf("unknown boundary %v", b))
}

// Roll applies a rolling statistic to every chromosome of t and returns the
// result as a new track. windowBp is converted to bins with ResolveWindow.
func Roll(t *Track, windowBp int, b Boundary, s Stat) (*Track, error) {
	h := handle("Roll: %w")

	if len(t.Chroms) == 0 {
		return NewTrack(t.Resolution), nil
	}
	w, e := ResolveWindow(windowBp, t.Resolution)
	if e != nil {
		return nil, h(e)
	}
	out, e := RollBins(t, w, b, s)
	if e != nil {
		return nil, h(e)
	}
	return out, nil
}

// RollBins is Roll with the window already given in bins.
func RollBins(t *Track, w int, b Boundary, s Stat) (*Track, error) {
	h := handle("RollBins: %w")

	if e := t.Validate(); e != nil {
		return nil, h(e)
	}
	out, e := t.WithScores(func(c *Chrom) ([]float64, error) {
		return RollChrom(c, w, b, s)
	})
	if e != nil {
		return nil, h(e)
	}
	return out, nil
}

// RollMean is the rolling mean with the old on/off circular switch.
func RollMean(t *Track, windowBp int, circular bool) (*Track, error) {
	b := Linear
	if circular {
		b = Circular
	}
	return Roll(t, windowBp, b, Mean)
}
