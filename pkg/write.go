package bgtools

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jgbaldwinbrown/fasttsv"
)

type LineWriter interface {
	Write([]string)
}

// errWriter drops everything after the first failed write and keeps the
// error for the caller.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

// FormatScore prints the shortest decimal that parses back to v exactly.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func WriteChrom(w LineWriter, c *Chrom) {
	for i := range c.Scores {
		w.Write([]string{c.Name, strconv.Itoa(c.Starts[i]), strconv.Itoa(c.End(i)), FormatScore(c.Scores[i])})
	}
}

// WriteTrack prints t as bedgraph, one line per bin.
func WriteTrack(out io.Writer, t *Track) error {
	h := handle("WriteTrack: %w")

	ew := &errWriter{w: out}
	w := fasttsv.NewWriter(ew)
	for _, c := range t.Chroms {
		WriteChrom(w, c)
		if ew.err != nil {
			break
		}
	}
	w.Flush()

	if ew.err != nil {
		return h(fmt.Errorf("%w: %w", ErrWriteFailure, ew.err))
	}
	return nil
}
