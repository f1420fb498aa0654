package bgtools

import (
	"fmt"
	"math"
)

type Bin struct {
	Start int
	End   int
	Score float64
}

// Chrom holds the bins of one chromosome. Starts are strictly increasing
// and every bin is Resolution wide, so only the starts are stored.
type Chrom struct {
	Name       string
	Starts     []int
	Scores     []float64
	Resolution int
}

func (c *Chrom) Len() int {
	return len(c.Scores)
}

func (c *Chrom) End(i int) int {
	return c.Starts[i] + c.Resolution
}

func (c *Chrom) Bin(i int) Bin {
	return Bin{Start: c.Starts[i], End: c.End(i), Score: c.Scores[i]}
}

// A Track is a set of chromosomes binned at a single resolution. The
// chromosomes keep the order in which they were first added.
type Track struct {
	Chroms     []*Chrom
	Resolution int
	index      map[string]int
}

// NewTrack returns an empty track. A resolution of 0 means the resolution
// is taken from the first bin appended.
func NewTrack(resolution int) *Track {
	return &Track{Resolution: resolution, index: map[string]int{}}
}

func (t *Track) Chrom(name string) (*Chrom, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Chroms[i], true
}

// AddChrom declares a chromosome with no bins, or returns the existing one.
func (t *Track) AddChrom(name string) *Chrom {
	if c, ok := t.Chrom(name); ok {
		return c
	}
	c := &Chrom{Name: name, Resolution: t.Resolution}
	t.index[name] = len(t.Chroms)
	t.Chroms = append(t.Chroms, c)
	return c
}

// AppendBin adds a bin to the end of a chromosome, creating the chromosome
// if it has not been seen yet.
func (t *Track) AppendBin(chrom string, start, end int, score float64) error {
	h := handle("AppendBin: %w")

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return h(fmt.Errorf("%w: %v", ErrMalformedScore, score))
	}
	if start < 0 || end <= start {
		return h(fmt.Errorf("%w: bad interval %d-%d", ErrMalformedLine, start, end))
	}
	if t.Resolution == 0 {
		t.Resolution = end - start
		for _, c := range t.Chroms {
			c.Resolution = t.Resolution
		}
	}
	if end-start != t.Resolution {
		return h(fmt.Errorf("%w: bin %d-%d is %d wide, track resolution is %d", ErrInconsistentResolution, start, end, end-start, t.Resolution))
	}

	c := t.AddChrom(chrom)
	if n := c.Len(); n > 0 && start < c.End(n-1) {
		return h(fmt.Errorf("%w: %s:%d comes before end of previous bin %d", ErrMalformedOrder, chrom, start, c.End(n-1)))
	}
	c.Starts = append(c.Starts, start)
	c.Scores = append(c.Scores, score)
	return nil
}

// Len returns the number of bins over all chromosomes.
func (t *Track) Len() int {
	n := 0
	for _, c := range t.Chroms {
		n += c.Len()
	}
	return n
}

func (t *Track) Names() []string {
	out := make([]string, 0, len(t.Chroms))
	for _, c := range t.Chroms {
		out = append(out, c.Name)
	}
	return out
}

// Scores returns a copy of every score in chromosome order.
func (t *Track) Scores() []float64 {
	out := make([]float64, 0, t.Len())
	for _, c := range t.Chroms {
		out = append(out, c.Scores...)
	}
	return out
}

// WithScores builds a track over the same bins with scores computed per
// chromosome by f. The starts are shared with t and must not be modified.
func (t *Track) WithScores(f func(c *Chrom) ([]float64, error)) (*Track, error) {
	out := NewTrack(t.Resolution)
	for _, c := range t.Chroms {
		scores, err := f(c)
		if err != nil {
			return nil, err
		}
		if len(scores) != c.Len() {
			return nil, fmt.Errorf("WithScores: %s: got %d scores for %d bins", c.Name, len(scores), c.Len())
		}
		nc := out.AddChrom(c.Name)
		nc.Starts = c.Starts
		nc.Scores = scores
	}
	return out, nil
}

// Map replaces every score in place.
func (t *Track) Map(f func(float64) float64) {
	for _, c := range t.Chroms {
		for i := range c.Scores {
			c.Scores[i] = f(c.Scores[i])
		}
	}
}

// Validate checks that every bin is Resolution wide, that bins are sorted
// and non-overlapping, and that every score is finite.
func (t *Track) Validate() error {
	h := handle("Validate: %w")

	for _, c := range t.Chroms {
		if len(c.Starts) != len(c.Scores) {
			return h(fmt.Errorf("%w: %s has %d starts and %d scores", ErrMalformedLine, c.Name, len(c.Starts), len(c.Scores)))
		}
		if c.Resolution != t.Resolution {
			return h(fmt.Errorf("%w: %s resolution %d != %d", ErrInconsistentResolution, c.Name, c.Resolution, t.Resolution))
		}
		for i, s := range c.Scores {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return h(fmt.Errorf("%w: %s:%d score %v", ErrMalformedScore, c.Name, c.Starts[i], s))
			}
			if c.Starts[i] < 0 {
				return h(fmt.Errorf("%w: %s: negative start %d", ErrMalformedLine, c.Name, c.Starts[i]))
			}
			if i > 0 && c.Starts[i] < c.End(i-1) {
				return h(fmt.Errorf("%w: %s:%d overlaps previous bin", ErrMalformedOrder, c.Name, c.Starts[i]))
			}
		}
	}
	return nil
}
